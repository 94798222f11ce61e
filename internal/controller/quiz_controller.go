package controller

import (
	"strconv"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService   *service.QuizService
	CourseService *service.CourseService
}

func NewQuizController(quizService *service.QuizService, courseService *service.CourseService) *QuizController {
	return &QuizController{
		QuizService:   quizService,
		CourseService: courseService,
	}
}

// GetQuiz godoc
// @Summary 获取课程测验
// @Description 按出题顺序返回题目，不含标准答案和解析。需要已选课。
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]service.StudentQuestion} "成功"
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "课程不存在或没有测验"
// @Router /api/courses/{id}/quiz [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	if claims.Role == model.Student {
		if err := c.CourseService.CheckEnrolled(claims.UserID, courseID); err != nil {
			respondError(ctx, err)
			return
		}
	}

	questions, err := c.QuizService.GetQuizForStudent(courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// SubmitQuizRequest 测验提交请求体
// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	UserID         uint            `json:"userId"`
	Answers        model.AnswerSet `json:"answers" binding:"required"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
}

// SubmitQuiz godoc
// @Summary 提交测验
// @Description 服务端判分并存档。身份以JWT为准，请求体里的 userId 与之不符会被拒绝。
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body SubmitQuizRequest true "作答内容"
// @Success 201 {object} util.Response{data=object} "判分结果"
// @Failure 400 {object} util.Response "作答不合法"
// @Failure 403 {object} util.Response "身份不符或未选课"
// @Failure 404 {object} util.Response "课程或测验不存在"
// @Router /api/courses/{id}/quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	if err := c.CourseService.CheckEnrolled(claims.UserID, courseID); err != nil {
		respondError(ctx, err)
		return
	}

	submission := &service.QuizSubmission{
		UserID:         req.UserID,
		CourseID:       courseID,
		Answers:        req.Answers,
		ElapsedSeconds: req.ElapsedSeconds,
	}

	attempt, summary, err := c.QuizService.SubmitQuiz(claims.UserID, submission)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"attemptId":    attempt.ID,
		"score":        summary.Score,
		"totalCount":   summary.TotalCount,
		"correctCount": summary.CorrectCount,
		"passed":       summary.Passed,
		"passingScore": attempt.PassingScore,
		"results":      summary.Results,
	})
}

// GetQuizStatus godoc
// @Summary 测验状态
// @Description 返回学生在该课程的当前状态，以最新一次提交为准
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.QuizStatus} "成功"
// @Router /api/courses/{id}/quiz/status [get]
func (c *QuizController) GetQuizStatus(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	status, err := c.QuizService.LatestStatus(claims.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// ListMyAttempts godoc
// @Summary 我的提交历史
// @Description 学生查看自己在某课程的全部提交，按时间倒序
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt} "成功"
// @Router /api/courses/{id}/quiz/attempts [get]
func (c *QuizController) ListMyAttempts(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	attempts, err := c.QuizService.ListAttempts(claims.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// GetAttempt godoc
// @Summary 提交详情
// @Description 单次提交的逐题判定，只有本人和课程讲师可见
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "提交ID"
// @Success 200 {object} util.Response{data=service.AttemptDetail} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "提交不存在"
// @Router /api/attempts/{id} [get]
func (c *QuizController) GetAttempt(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.QuizService.GetAttemptDetail(claims.UserID, claims.Role, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// ListCourseAttempts godoc
// @Summary 课程全部提交
// @Description 讲师查看课程下所有学生的提交，支持按学生姓名过滤
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   student query string false "学生姓名模糊匹配"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/courses/{id}/attempts [get]
func (c *QuizController) ListCourseAttempts(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	student := ctx.Query("student")

	rows, total, err := c.QuizService.ListCourseAttempts(claims.UserID, claims.Role, courseID, page, limit, student)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: rows, Total: total, Page: page, Limit: limit})
}

// ListQuestions godoc
// @Summary 课程题目列表
// @Description 讲师查看课程全部题目，含标准答案和解析
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.QuizQuestion} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/courses/{id}/questions [get]
func (c *QuizController) ListQuestions(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	questions, err := c.QuizService.ListQuestionsForInstructor(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// CreateQuestion godoc
// @Summary 添加题目
// @Description 讲师给自己的课程添加测验题目
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body service.QuestionInput true "题目内容"
// @Success 201 {object} util.Response{data=model.QuizQuestion} "创建成功"
// @Failure 400 {object} util.Response "题目不合法"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/courses/{id}/questions [post]
func (c *QuizController) CreateQuestion(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	question, err := c.QuizService.CreateQuestion(claims.UserID, claims.Role, courseID, &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 修改题目内容或标准答案，不影响已判分的历史记录
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body service.QuestionInput true "题目内容"
// @Success 200 {object} util.Response{data=model.QuizQuestion} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/questions/{id} [put]
func (c *QuizController) UpdateQuestion(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questionID := util.MustParseUint(ctx.Param("id"))
	question, err := c.QuizService.UpdateQuestion(claims.UserID, claims.Role, questionID, &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/instructor/questions/{id} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	questionID := util.MustParseUint(ctx.Param("id"))
	if err := c.QuizService.DeleteQuestion(claims.UserID, claims.Role, questionID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
