package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService 课时内容管理：课时 CRUD、视频上传、时长探测和缩略图
type ContentService struct {
	CourseRepo *repository.CourseRepository
	Storage    *StorageService
}

func NewContentService(courseRepo *repository.CourseRepository, storage *StorageService) *ContentService {
	return &ContentService{
		CourseRepo: courseRepo,
		Storage:    storage,
	}
}

// LessonInput 课时创建/更新入参
type LessonInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func (s *ContentService) ownedCourse(courseID, instructorID uint, role model.UserRole) (*model.Course, error) {
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

// CreateLesson 新建课时，视频后续单独上传
func (s *ContentService) CreateLesson(courseID, instructorID uint, role model.UserRole, input *LessonInput) (*model.Lesson, error) {
	if _, err := s.ownedCourse(courseID, instructorID, role); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID:    courseID,
		Title:       input.Title,
		Description: input.Description,
		Order:       input.Order,
	}
	if err := s.CourseRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateLesson 更新课时信息
func (s *ContentService) UpdateLesson(lessonID, instructorID uint, role model.UserRole, input *LessonInput) (*model.Lesson, error) {
	lesson, err := s.findLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCourse(lesson.CourseID, instructorID, role); err != nil {
		return nil, err
	}

	lesson.Title = input.Title
	lesson.Description = input.Description
	lesson.Order = input.Order
	if err := s.CourseRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson 删除课时
func (s *ContentService) DeleteLesson(lessonID, instructorID uint, role model.UserRole) error {
	lesson, err := s.findLesson(lessonID)
	if err != nil {
		return err
	}
	if _, err := s.ownedCourse(lesson.CourseID, instructorID, role); err != nil {
		return err
	}
	return s.CourseRepo.DeleteLesson(lessonID)
}

// ListLessons 课程课时列表，按 Order 排序
func (s *ContentService) ListLessons(courseID uint) ([]model.Lesson, error) {
	return s.CourseRepo.ListLessons(courseID)
}

func (s *ContentService) findLesson(lessonID uint) (*model.Lesson, error) {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

// UploadLessonVideo 上传课时视频：
// 先落到本地临时文件，用 ffprobe 读时长写回课时记录，
// 再抓第一秒的帧生成缩略图，视频和缩略图都走存储服务。
func (s *ContentService) UploadLessonVideo(ctx context.Context, lessonID, instructorID uint, role model.UserRole, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.findLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCourse(lesson.CourseID, instructorID, role); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, util.ErrInvalidSubmission
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream})
	src.Close()
	if err != nil {
		return nil, err
	}

	baseName := fmt.Sprintf("lesson_%d_%d_%s", lessonID, time.Now().Unix(), util.GenerateRandomString(8))
	tmpPath := filepath.Join(os.TempDir(), baseName+ext)
	if err := saveUploadedFile(file, tmpPath); err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		logger.Log.Warn("视频时长探测失败", zap.Uint("lessonId", lessonID), zap.Error(err))
		info = &util.VideoInfo{}
	}

	videoKey := "videos/" + baseName + ext
	videoURL, err := s.Storage.UploadFile(ctx, videoKey, tmpPath, mimeType)
	if err != nil {
		return nil, err
	}

	thumbnailURL := ""
	thumbPath := filepath.Join(os.TempDir(), baseName+".jpg")
	if err := util.GenerateThumbnail(tmpPath, thumbPath, "00:00:01"); err != nil {
		logger.Log.Warn("缩略图生成失败", zap.Uint("lessonId", lessonID), zap.Error(err))
	} else {
		defer os.Remove(thumbPath)
		thumbKey := "thumbnails/" + baseName + ".jpg"
		if url, err := s.Storage.UploadFile(ctx, thumbKey, thumbPath, "image/jpeg"); err == nil {
			thumbnailURL = url
		} else {
			logger.Log.Warn("缩略图上传失败", zap.Uint("lessonId", lessonID), zap.Error(err))
		}
	}

	lesson.VideoURL = videoURL
	lesson.ThumbnailURL = thumbnailURL
	lesson.Duration = info.Duration
	if err := s.CourseRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UploadCourseCover 上传课程封面图
func (s *ContentService) UploadCourseCover(ctx context.Context, courseID, instructorID uint, role model.UserRole, file *multipart.FileHeader) (string, error) {
	if _, err := s.ownedCourse(courseID, instructorID, role); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	src.Close()
	if err != nil {
		return "", util.ErrInvalidIconExt
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("covers/course_%d_%s%s", courseID, util.GenerateRandomString(8), ext)

	reader, err := file.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()

	return s.Storage.Upload(ctx, key, reader, file.Size, mimeType)
}

func saveUploadedFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.ReadFrom(src)
	return err
}
