package model

import "time"

// Certificate 结课证书签发记录。渲染（PDF/图片）由前端完成，
// 后端只负责门禁校验、落库和凭 SerialNumber 的对外验真。
// 同一 (user, course) 只签发一张，重复请求返回已有记录。
// swagger:model Certificate
type Certificate struct {
	UUIDBase
	UserID         uint      `gorm:"index:idx_cert_user_course,unique;type:bigint unsigned" json:"userId"`
	CourseID       uint      `gorm:"index:idx_cert_user_course,unique;type:bigint unsigned" json:"courseId"`
	AttemptID      string    `gorm:"type:varchar(36)" json:"attemptId"`
	SerialNumber   string    `gorm:"size:36;uniqueIndex" json:"serialNumber"`
	LearnerName    string    `gorm:"size:100" json:"learnerName"`
	CourseTitle    string    `gorm:"size:255" json:"courseTitle"`
	InstructorName string    `gorm:"size:100" json:"instructorName"`
	IssuedAt       time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
