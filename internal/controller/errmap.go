package controller

import (
	"errors"
	"net/http"

	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 把业务错误映射成HTTP状态码，未识别的一律按500处理并记日志
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrCertificateNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrInvalidSubmission),
		errors.Is(err, util.ErrInvalidIconExt):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrLearnerMismatch),
		errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrCourseNotPublished):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrQuizNotPassed):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrUnauthorized),
		errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentUser 从上下文取JWT解析出的用户信息
func currentUser(ctx *gin.Context) *util.Claims {
	return util.GetUserFromContext(ctx)
}
