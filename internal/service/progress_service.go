package service

import (
	"errors"
	"time"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"

	"gorm.io/gorm"
)

// completeThreshold 看到这个百分比就算看完
const completeThreshold = 95

// ProgressService 视频观看进度上报与汇总
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, courseRepo *repository.CourseRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
	}
}

// ProgressReport 客户端周期性上报的播放进度
type ProgressReport struct {
	LessonID        uint    `json:"-"`
	PositionSeconds float64 `json:"positionSeconds"`
	Percent         int     `json:"percent"`
}

// clampPercent 百分比钳制到 0-100，钳制逻辑只有这一处
func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Report 覆盖式更新进度。Completed 一旦置位不再回退，
// 即使后续上报的百分比更小。
func (s *ProgressService) Report(userID uint, report *ProgressReport) (*model.VideoProgress, error) {
	lesson, err := s.CourseRepo.FindLessonByID(report.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	percent := clampPercent(report.Percent)
	position := report.PositionSeconds
	if position < 0 {
		position = 0
	}

	progress := &model.VideoProgress{
		UserID:          userID,
		LessonID:        report.LessonID,
		CourseID:        lesson.CourseID,
		PositionSeconds: position,
		Percent:         percent,
	}

	if existing, err := s.ProgressRepo.FindByUserAndLesson(userID, report.LessonID); err == nil && existing.Completed {
		progress.Completed = true
		progress.CompletedAt = existing.CompletedAt
	} else if percent >= completeThreshold {
		now := time.Now()
		progress.Completed = true
		progress.CompletedAt = &now
	}

	if err := s.ProgressRepo.Upsert(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// CourseProgress 某课程的观看进度汇总
type CourseProgress struct {
	TotalLessons     int64                 `json:"totalLessons"`
	CompletedLessons int64                 `json:"completedLessons"`
	Percent          int                   `json:"percent"`
	Lessons          []model.VideoProgress `json:"lessons"`
}

// CourseSummary 汇总学生在某课程的整体观看进度
func (s *ProgressService) CourseSummary(userID, courseID uint) (*CourseProgress, error) {
	lessons, err := s.CourseRepo.ListLessons(courseID)
	if err != nil {
		return nil, err
	}

	progresses, err := s.ProgressRepo.ListByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ProgressRepo.CountCompleted(userID, courseID)
	if err != nil {
		return nil, err
	}

	summary := &CourseProgress{
		TotalLessons:     int64(len(lessons)),
		CompletedLessons: completed,
		Lessons:          progresses,
	}
	if summary.TotalLessons > 0 {
		summary.Percent = clampPercent(int(completed * 100 / summary.TotalLessons))
	}
	return summary, nil
}
