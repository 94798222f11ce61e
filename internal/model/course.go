package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Category     string     `gorm:"size:100;index" json:"category"`
	CoverURL     string     `gorm:"size:255" json:"coverUrl"`
	InstructorID uint       `gorm:"index;type:bigint unsigned" json:"instructorId"`
	Instructor   *User      `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	IsPublished  bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID     uint    `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title        string  `gorm:"size:255;not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	VideoURL     string  `gorm:"size:255" json:"videoUrl"`
	ThumbnailURL string  `gorm:"size:255" json:"thumbnailUrl"`
	Duration     float64 `gorm:"default:0" json:"duration"` // 秒，上传时由 ffprobe 写入
	Order        int     `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID      uint       `gorm:"index:idx_enroll_user_course,unique;type:bigint unsigned" json:"userId"`
	CourseID    uint       `gorm:"index:idx_enroll_user_course,unique;type:bigint unsigned" json:"courseId"`
	Course      *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
