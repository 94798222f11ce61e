package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
	}
}

// Report godoc
// @Summary 上报播放进度
// @Description 客户端周期性上报，覆盖式更新，百分比钳制到0-100
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课时ID"
// @Param   body body service.ProgressReport true "播放进度"
// @Success 200 {object} util.Response{data=model.VideoProgress} "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id}/progress [post]
func (c *ProgressController) Report(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var report service.ProgressReport
	if err := ctx.ShouldBindJSON(&report); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	report.LessonID = util.MustParseUint(ctx.Param("id"))

	progress, err := c.ProgressService.Report(claims.UserID, &report)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// CourseSummary godoc
// @Summary 课程进度汇总
// @Description 学生在某课程的整体观看进度
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress} "成功"
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) CourseSummary(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	summary, err := c.ProgressService.CourseSummary(claims.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
