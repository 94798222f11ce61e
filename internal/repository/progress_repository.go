package repository

import (
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 按 (user_id, lesson_id) 覆盖更新进度，不存在则插入
func (r *ProgressRepository) Upsert(progress *model.VideoProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"position_seconds", "percent", "completed", "completed_at", "updated_at",
		}),
	}).Create(progress).Error
}

func (r *ProgressRepository) FindByUserAndLesson(userID, lessonID uint) (*model.VideoProgress, error) {
	var p model.VideoProgress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) ListByUserAndCourse(userID, courseID uint) ([]model.VideoProgress, error) {
	var list []model.VideoProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&list).Error
	return list, err
}

func (r *ProgressRepository) CountCompleted(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VideoProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Count(&count).Error
	return count, err
}
