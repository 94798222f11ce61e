package repository

import (
	"edulearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Preload("Course.Instructor").
		Where("user_id = ?", userID).
		Order("created_at desc").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) MarkCompleted(userID, courseID uint) error {
	now := time.Now()
	return r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND completed_at IS NULL", userID, courseID).
		Update("completed_at", &now).Error
}
