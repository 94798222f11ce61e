package model

import "time"

// VideoProgress 记录学生观看课时视频的进度。
// 同一 (user, lesson) 只有一行，客户端上报时覆盖更新；
// Percent 在写入前被钳制到 0-100。
type VideoProgress struct {
	BaseModel
	UserID          uint       `gorm:"index:idx_progress_user_lesson,unique;type:bigint unsigned" json:"userId"`
	LessonID        uint       `gorm:"index:idx_progress_user_lesson,unique;type:bigint unsigned" json:"lessonId"`
	CourseID        uint       `gorm:"index;type:bigint unsigned" json:"courseId"`
	PositionSeconds float64    `gorm:"default:0" json:"positionSeconds"`
	Percent         int        `gorm:"default:0" json:"percent"`
	Completed       bool       `gorm:"default:false" json:"completed"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func (VideoProgress) TableName() string {
	return "video_progresses"
}
