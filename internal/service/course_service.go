package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogCacheTTL = 5 * time.Minute

// CourseService 课程目录、选课和课程管理
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Redis          *redis.Client
}

func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, rdb *redis.Client) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Redis:          rdb,
	}
}

// CatalogPage 课程目录分页结果
type CatalogPage struct {
	Courses []repository.CourseListRow `json:"courses"`
	Total   int64                      `json:"total"`
	Page    int                        `json:"page"`
	Limit   int                        `json:"limit"`
}

// ListPublished 公开课程目录，带 Redis 缓存。缓存读写失败只记日志，
// 始终能回落到数据库。
func (s *CourseService) ListPublished(ctx context.Context, category string, page, limit int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	cacheKey := fmt.Sprintf("course:catalog:%s:%d:%d", category, page, limit)
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var result CatalogPage
			if json.Unmarshal([]byte(cached), &result) == nil {
				return &result, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("课程目录缓存读取失败", zap.Error(err))
		}
	}

	courses, total, err := s.CourseRepo.ListPublished(category, page, limit)
	if err != nil {
		return nil, err
	}

	result := &CatalogPage{Courses: courses, Total: total, Page: page, Limit: limit}
	if s.Redis != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("课程目录缓存写入失败", zap.Error(err))
			}
		}
	}
	return result, nil
}

// invalidateCatalog 课程变更后清掉目录缓存
func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, "course:catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("课程目录缓存清理失败", zap.Error(err))
	}
}

// GetCourse 课程详情。未发布课程只有讲师本人和管理员可见。
func (s *CourseService) GetCourse(courseID uint, viewerID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished && course.InstructorID != viewerID && role != model.Admin {
		return nil, util.ErrCourseNotPublished
	}
	return course, nil
}

// CourseInput 课程创建/更新入参
type CourseInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CoverURL    string `json:"coverUrl"`
}

// CreateCourse 讲师创建课程，初始为未发布
func (s *CourseService) CreateCourse(instructorID uint, input *CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		CoverURL:     input.CoverURL,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ownedCourse(courseID, instructorID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != instructorID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

// UpdateCourse 更新课程基本信息
func (s *CourseService) UpdateCourse(ctx context.Context, courseID, instructorID uint, role model.UserRole, input *CourseInput) (*model.Course, error) {
	course, err := s.ownedCourse(courseID, instructorID, role)
	if err != nil {
		return nil, err
	}

	course.Title = input.Title
	course.Description = input.Description
	course.Category = input.Category
	if input.CoverURL != "" {
		course.CoverURL = input.CoverURL
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// PublishCourse 发布课程，上架到公开目录
func (s *CourseService) PublishCourse(ctx context.Context, courseID, instructorID uint, role model.UserRole) error {
	if _, err := s.ownedCourse(courseID, instructorID, role); err != nil {
		return err
	}
	if err := s.CourseRepo.Publish(courseID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// DeleteCourse 删除课程及其课时和题目
func (s *CourseService) DeleteCourse(ctx context.Context, courseID, instructorID uint, role model.UserRole) error {
	if _, err := s.ownedCourse(courseID, instructorID, role); err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ListByInstructor 讲师查看自己的全部课程（含未发布）
func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(instructorID)
}

// Enroll 学生选课。重复选课直接返回已有记录。
func (s *CourseService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotPublished
	}

	if existing, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// CheckEnrolled 校验学生已选某课程
func (s *CourseService) CheckEnrolled(userID, courseID uint) error {
	_, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotEnrolled
		}
		return err
	}
	return nil
}

// ListEnrollments 学生已选课程列表
func (s *CourseService) ListEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}
