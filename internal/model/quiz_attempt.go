package model

import (
	"encoding/json"
	"time"
)

// QuizAttempt 一次测验提交的不可变存档。每次提交新建一行，
// 重考不覆盖历史记录；(user, course) 下按 created_at 最新的一条
// 决定当前通过状态。PassingScore 是提交时刻的及格线快照。
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	UserID         uint            `gorm:"index:idx_attempt_user_course;type:bigint unsigned" json:"userId"`
	CourseID       uint            `gorm:"index:idx_attempt_user_course;type:bigint unsigned" json:"courseId"`
	Score          int             `gorm:"not null" json:"score"` // 0-100
	TotalCount     int             `gorm:"not null" json:"totalCount"`
	CorrectCount   int             `gorm:"not null" json:"correctCount"`
	PassingScore   int             `gorm:"not null" json:"passingScore"`
	Passed         bool            `gorm:"not null;default:false" json:"passed"`
	StartedAt      time.Time       `json:"startedAt"`
	CompletedAt    time.Time       `json:"completedAt"`
	ElapsedSeconds int             `gorm:"default:0" json:"elapsedSeconds"`
	Answers        json.RawMessage `gorm:"type:json" json:"answers"` // 提交的 AnswerSet 原文
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// QuizAttemptResult 单题判分记录，随所属 Attempt 在同一事务内创建。
// CorrectAnswer 是判分时刻标准答案的快照，题目日后被改不影响历史记录。
type QuizAttemptResult struct {
	UUIDBase
	AttemptID     string `gorm:"index;type:varchar(36)" json:"attemptId"`
	QuestionID    uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	UserAnswer    string `gorm:"type:text" json:"userAnswer"`
	CorrectAnswer string `gorm:"type:text" json:"correctAnswer"`
	IsCorrect     bool   `gorm:"default:false" json:"isCorrect"`
}

func (QuizAttemptResult) TableName() string {
	return "quiz_attempt_results"
}
