package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrCourseNotPublished  = errors.New("course not published or not accessible")
	ErrNotEnrolled         = errors.New("user not enrolled in course")
	ErrQuizNotFound        = errors.New("course has no quiz questions")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrInvalidSubmission   = errors.New("invalid quiz submission")
	ErrLearnerMismatch     = errors.New("learner identity does not match the authenticated user")
	ErrQuizNotPassed       = errors.New("quiz not passed, certificate not earned")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrInvalidIconExt      = errors.New("invalid icon file extension")
)
