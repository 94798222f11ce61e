package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
	CourseService  *service.CourseService
}

func NewContentController(contentService *service.ContentService, courseService *service.CourseService) *ContentController {
	return &ContentController{
		ContentService: contentService,
		CourseService:  courseService,
	}
}

// ListLessons godoc
// @Summary 课时列表
// @Description 按顺序返回课程课时
// @Tags 课时
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Lesson} "成功"
// @Router /api/courses/{id}/lessons [get]
func (c *ContentController) ListLessons(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	lessons, err := c.ContentService.ListLessons(courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// CreateLesson godoc
// @Summary 新建课时
// @Tags 课时管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body service.LessonInput true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/courses/{id}/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	lesson, err := c.ContentService.CreateLesson(courseID, claims.UserID, claims.Role, &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 课时管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课时ID"
// @Param   body body service.LessonInput true "课时信息"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/lessons/{id} [put]
func (c *ContentController) UpdateLesson(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))
	lesson, err := c.ContentService.UpdateLesson(lessonID, claims.UserID, claims.Role, &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 课时管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/lessons/{id} [delete]
func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))
	if err := c.ContentService.DeleteLesson(lessonID, claims.UserID, claims.Role); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// UploadVideo godoc
// @Summary 上传课时视频
// @Description 上传后服务端探测时长、生成缩略图并写回课时
// @Tags 课时管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课时ID"
// @Param   video formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/lessons/{id}/video [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "缺少视频文件")
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))
	lesson, err := c.ContentService.UploadLessonVideo(ctx.Request.Context(), lessonID, claims.UserID, claims.Role, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// UploadCover godoc
// @Summary 上传课程封面
// @Tags 课时管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   cover formData file true "封面图片"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/instructor/courses/{id}/cover [post]
func (c *ContentController) UploadCover(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("cover")
	if err != nil {
		util.BadRequest(ctx, "缺少封面文件")
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	url, err := c.ContentService.UploadCourseCover(ctx.Request.Context(), courseID, claims.UserID, claims.Role, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"coverUrl": url})
}
