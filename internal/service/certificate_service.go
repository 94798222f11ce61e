package service

import (
	"errors"
	"time"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"

	"gorm.io/gorm"
)

// CertificateStore 证书存取
type CertificateStore interface {
	Create(cert *model.Certificate) error
	FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error)
	FindBySerial(serial string) (*model.Certificate, error)
	ListByUser(userID uint) ([]model.Certificate, error)
}

// AttemptFinder 证书门禁只需要最新一次提交
type AttemptFinder interface {
	LatestAttempt(userID, courseID uint) (*model.QuizAttempt, error)
}

// UserFinder 签发时取学员姓名
type UserFinder interface {
	FindByID(id uint) (*model.User, error)
}

// EnrollmentMarker 签发成功后顺带把选课记录标记为已完成
type EnrollmentMarker interface {
	MarkCompleted(userID, courseID uint) error
}

// CertificateService 证书签发与验真。签发的唯一门禁是该学生在
// 该课程最新一次测验提交的 Passed 标记，不在这里重算分数。
type CertificateService struct {
	Certificates CertificateStore
	Attempts     AttemptFinder
	Courses      CourseFinder
	Users        UserFinder
	Enrollments  EnrollmentMarker
}

func NewCertificateService(certificates CertificateStore, attempts AttemptFinder, courses CourseFinder, users UserFinder, enrollments EnrollmentMarker) *CertificateService {
	return &CertificateService{
		Certificates: certificates,
		Attempts:     attempts,
		Courses:      courses,
		Users:        users,
		Enrollments:  enrollments,
	}
}

// Issue 为学生签发某课程的证书。幂等：已签发过直接返回已有记录。
// 未通过测验（包括从未提交）返回 ErrQuizNotPassed。
func (s *CertificateService) Issue(userID, courseID uint) (*model.Certificate, error) {
	if existing, err := s.Certificates.FindByUserAndCourse(userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	attempt, err := s.Attempts.LatestAttempt(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotPassed
		}
		return nil, err
	}
	if !attempt.Passed {
		return nil, util.ErrQuizNotPassed
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	instructorName := ""
	if course.Instructor != nil {
		instructorName = course.Instructor.Name
	}

	cert := &model.Certificate{
		UserID:         userID,
		CourseID:       courseID,
		AttemptID:      attempt.ID,
		SerialNumber:   model.GenerateUUID(),
		LearnerName:    user.Name,
		CourseTitle:    course.Title,
		InstructorName: instructorName,
		IssuedAt:       time.Now(),
	}

	if err := s.Certificates.Create(cert); err != nil {
		// 并发重复签发会撞唯一索引，回读已有记录兜底
		if existing, findErr := s.Certificates.FindByUserAndCourse(userID, courseID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}

	if s.Enrollments != nil {
		// 选课完成标记失败不影响证书本身
		_ = s.Enrollments.MarkCompleted(userID, courseID)
	}

	return cert, nil
}

// Get 查询学生在某课程的证书
func (s *CertificateService) Get(userID, courseID uint) (*model.Certificate, error) {
	cert, err := s.Certificates.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

// VerifyBySerial 凭证书编号对外验真，无需登录
func (s *CertificateService) VerifyBySerial(serial string) (*model.Certificate, error) {
	cert, err := s.Certificates.FindBySerial(serial)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

// ListByUser 学生名下全部证书
func (s *CertificateService) ListByUser(userID uint) ([]model.Certificate, error) {
	return s.Certificates.ListByUser(userID)
}
