package service

import (
	"encoding/json"
	"errors"
	"time"

	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// QuizQuestionStore 题库读写
type QuizQuestionStore interface {
	ListQuestions(courseID uint) ([]model.QuizQuestion, error)
	CreateQuestion(question *model.QuizQuestion) error
	FindQuestionByID(id uint) (*model.QuizQuestion, error)
	UpdateQuestion(question *model.QuizQuestion) error
	DeleteQuestion(id uint) error
}

// QuizAttemptStore 提交记录存档。CreateAttemptWithResults 必须保证
// attempt 和 results 在同一事务内落库，任何一步失败都不能留下半截记录。
type QuizAttemptStore interface {
	CreateAttemptWithResults(attempt *model.QuizAttempt, results []model.QuizAttemptResult) error
	FindAttemptByID(id string) (*model.QuizAttempt, error)
	LatestAttempt(userID, courseID uint) (*model.QuizAttempt, error)
	ListAttemptsByUser(userID, courseID uint) ([]model.QuizAttempt, error)
	ListResults(attemptID string) ([]model.QuizAttemptResult, error)
	ListAttemptsByCourse(courseID uint, page, limit int, studentName string) ([]repository.AttemptListRow, int64, error)
}

// CourseFinder 测验所属课程的查询入口
type CourseFinder interface {
	FindByID(id uint) (*model.Course, error)
}

// QuizService 测验服务：学生端出题/判分/查状态，教师端题目管理。
// 判分只认服务端题库里的标准答案，请求体里带什么一概不信。
type QuizService struct {
	Questions QuizQuestionStore
	Attempts  QuizAttemptStore
	Courses   CourseFinder
	Config    *config.Config
}

func NewQuizService(questions QuizQuestionStore, attempts QuizAttemptStore, courses CourseFinder, cfg *config.Config) *QuizService {
	return &QuizService{
		Questions: questions,
		Attempts:  attempts,
		Courses:   courses,
		Config:    cfg,
	}
}

// StudentQuestion 学生端题目视图，不含标准答案和解析
type StudentQuestion struct {
	ID           uint            `json:"id"`
	QuestionType string          `json:"questionType"`
	Content      string          `json:"content"`
	Options      json.RawMessage `json:"options,omitempty"`
	Difficulty   string          `json:"difficulty"`
	Order        int             `json:"order"`
}

// GetQuizForStudent 按出题顺序返回课程题目，剥离 Answer 和 Explanation。
// 课程不存在返回 ErrCourseNotFound，课程存在但没有题目返回 ErrQuizNotFound。
func (s *QuizService) GetQuizForStudent(courseID uint) ([]StudentQuestion, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	questions, err := s.Questions.ListQuestions(courseID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuizNotFound
	}

	views := make([]StudentQuestion, 0, len(questions))
	for _, q := range questions {
		views = append(views, StudentQuestion{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Content:      q.Content,
			Options:      q.Options,
			Difficulty:   q.Difficulty,
			Order:        q.Order,
		})
	}
	return views, nil
}

// QuizSubmission 学生提交的作答
type QuizSubmission struct {
	UserID         uint            `json:"userId"`
	CourseID       uint            `json:"courseId"`
	Answers        model.AnswerSet `json:"answers"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
}

// SubmitQuiz 判分并存档。authUserID 取自 JWT，请求体里的 UserID
// 若与之不一致按越权处理。每次提交新建一条 Attempt，不覆盖历史。
func (s *QuizService) SubmitQuiz(authUserID uint, submission *QuizSubmission) (*model.QuizAttempt, *ScoreSummary, error) {
	if submission.UserID != 0 && submission.UserID != authUserID {
		return nil, nil, util.ErrLearnerMismatch
	}

	if _, err := s.Courses.FindByID(submission.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}

	questions, err := s.Questions.ListQuestions(submission.CourseID)
	if err != nil {
		return nil, nil, err
	}
	if len(questions) == 0 {
		return nil, nil, util.ErrQuizNotFound
	}

	// 作答里出现不属于本课程的题目ID，整体拒绝
	known := make(map[uint]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}
	for questionID := range submission.Answers {
		if _, ok := known[questionID]; !ok {
			return nil, nil, util.ErrInvalidSubmission
		}
	}
	if submission.ElapsedSeconds < 0 {
		return nil, nil, util.ErrInvalidSubmission
	}

	summary := ScoreQuiz(questions, submission.Answers, s.Config.Quiz.PassingScore)

	answersJSON, err := json.Marshal(submission.Answers)
	if err != nil {
		return nil, nil, util.ErrInvalidSubmission
	}

	completedAt := time.Now()
	attempt := &model.QuizAttempt{
		UserID:         authUserID,
		CourseID:       submission.CourseID,
		Score:          summary.Score,
		TotalCount:     summary.TotalCount,
		CorrectCount:   summary.CorrectCount,
		PassingScore:   s.Config.Quiz.PassingScore,
		Passed:         summary.Passed,
		StartedAt:      completedAt.Add(-time.Duration(submission.ElapsedSeconds) * time.Second),
		CompletedAt:    completedAt,
		ElapsedSeconds: submission.ElapsedSeconds,
		Answers:        answersJSON,
	}

	results := make([]model.QuizAttemptResult, 0, len(summary.Results))
	for _, r := range summary.Results {
		results = append(results, model.QuizAttemptResult{
			QuestionID:    r.QuestionID,
			UserAnswer:    r.UserAnswer,
			CorrectAnswer: r.CorrectAnswer,
			IsCorrect:     r.IsCorrect,
		})
	}

	if err := s.Attempts.CreateAttemptWithResults(attempt, results); err != nil {
		return nil, nil, err
	}

	outcome := "failed"
	if summary.Passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissionCounter.WithLabelValues(outcome).Inc()

	return attempt, &summary, nil
}

// QuizStatus 学生当前测验状态，以最新一次提交为准
type QuizStatus struct {
	Attempted    bool   `json:"attempted"`
	Passed       bool   `json:"passed"`
	Score        int    `json:"score"`
	PassingScore int    `json:"passingScore"`
	AttemptID    string `json:"attemptId,omitempty"`
	AttemptCount int    `json:"attemptCount"`
}

// LatestStatus 返回学生在某课程的当前测验状态。
// 从未提交过不算错误，Attempted 为 false。
func (s *QuizService) LatestStatus(userID, courseID uint) (*QuizStatus, error) {
	attempts, err := s.Attempts.ListAttemptsByUser(userID, courseID)
	if err != nil {
		return nil, err
	}

	status := &QuizStatus{PassingScore: s.Config.Quiz.PassingScore}
	if len(attempts) == 0 {
		return status, nil
	}

	latest := attempts[0]
	status.Attempted = true
	status.Passed = latest.Passed
	status.Score = latest.Score
	status.PassingScore = latest.PassingScore
	status.AttemptID = latest.ID
	status.AttemptCount = len(attempts)
	return status, nil
}

// ListAttempts 学生查看自己的历史提交，按时间倒序
func (s *QuizService) ListAttempts(userID, courseID uint) ([]model.QuizAttempt, error) {
	return s.Attempts.ListAttemptsByUser(userID, courseID)
}

// AttemptDetail 单次提交的完整回看
type AttemptDetail struct {
	Attempt model.QuizAttempt         `json:"attempt"`
	Results []model.QuizAttemptResult `json:"results"`
}

// GetAttemptDetail 查看单次提交的逐题判定。只有本人和课程讲师能看。
func (s *QuizService) GetAttemptDetail(authUserID uint, role model.UserRole, attemptID string) (*AttemptDetail, error) {
	attempt, err := s.Attempts.FindAttemptByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	if attempt.UserID != authUserID {
		allowed := false
		if role == model.Instructor || role == model.Admin {
			course, err := s.Courses.FindByID(attempt.CourseID)
			if err == nil && (course.InstructorID == authUserID || role == model.Admin) {
				allowed = true
			}
		}
		if !allowed {
			return nil, util.ErrPermissionDenied
		}
	}

	results, err := s.Attempts.ListResults(attemptID)
	if err != nil {
		return nil, err
	}
	return &AttemptDetail{Attempt: *attempt, Results: results}, nil
}

// ListCourseAttempts 教师端查看课程全部提交
func (s *QuizService) ListCourseAttempts(instructorID uint, role model.UserRole, courseID uint, page, limit int, studentName string) ([]repository.AttemptListRow, int64, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, util.ErrCourseNotFound
		}
		return nil, 0, err
	}
	if course.InstructorID != instructorID && role != model.Admin {
		return nil, 0, util.ErrPermissionDenied
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Attempts.ListAttemptsByCourse(courseID, page, limit, studentName)
}

// QuestionInput 教师端题目创建/更新入参
type QuestionInput struct {
	QuestionType string          `json:"questionType" binding:"required"`
	Content      string          `json:"content" binding:"required"`
	Options      json.RawMessage `json:"options"`
	Answer       json.RawMessage `json:"answer" binding:"required"`
	Explanation  string          `json:"explanation"`
	Difficulty   string          `json:"difficulty"`
	Order        int             `json:"order"`
}

var validQuestionTypes = map[string]bool{
	model.QuestionSingleChoice:   true,
	model.QuestionMultipleChoice: true,
	model.QuestionTrueFalse:      true,
	model.QuestionFreeText:       true,
}

// normalizeAnswer 校验并归一化标准答案：多选必须是非空字符串数组，
// 其余题型必须是单个字符串。存库时多选保留 JSON 数组原文。
func normalizeAnswer(questionType string, raw json.RawMessage) (string, error) {
	if questionType == model.QuestionMultipleChoice {
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil || len(values) == 0 {
			return "", util.ErrInvalidSubmission
		}
		data, err := json.Marshal(values)
		if err != nil {
			return "", util.ErrInvalidSubmission
		}
		return string(data), nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", util.ErrInvalidSubmission
	}
	return value, nil
}

func (s *QuizService) checkCourseOwner(instructorID uint, role model.UserRole, courseID uint) (*model.Course, error) {
	course, err := s.Courses.FindByID(courseID)
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

// CreateQuestion 讲师给自己的课程添加题目
func (s *QuizService) CreateQuestion(instructorID uint, role model.UserRole, courseID uint, input *QuestionInput) (*model.QuizQuestion, error) {
	if _, err := s.checkCourseOwner(instructorID, role, courseID); err != nil {
		return nil, err
	}
	if !validQuestionTypes[input.QuestionType] {
		return nil, util.ErrInvalidSubmission
	}

	answer, err := normalizeAnswer(input.QuestionType, input.Answer)
	if err != nil {
		return nil, err
	}

	question := &model.QuizQuestion{
		CourseID:     courseID,
		QuestionType: input.QuestionType,
		Content:      input.Content,
		Options:      input.Options,
		Answer:       answer,
		Explanation:  input.Explanation,
		Difficulty:   input.Difficulty,
		Order:        input.Order,
	}
	if err := s.Questions.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion 更新题目。改答案不影响已判分的历史记录。
func (s *QuizService) UpdateQuestion(instructorID uint, role model.UserRole, questionID uint, input *QuestionInput) (*model.QuizQuestion, error) {
	question, err := s.Questions.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if _, err := s.checkCourseOwner(instructorID, role, question.CourseID); err != nil {
		return nil, err
	}
	if !validQuestionTypes[input.QuestionType] {
		return nil, util.ErrInvalidSubmission
	}

	answer, err := normalizeAnswer(input.QuestionType, input.Answer)
	if err != nil {
		return nil, err
	}

	question.QuestionType = input.QuestionType
	question.Content = input.Content
	question.Options = input.Options
	question.Answer = answer
	question.Explanation = input.Explanation
	question.Difficulty = input.Difficulty
	question.Order = input.Order

	if err := s.Questions.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion 删除题目
func (s *QuizService) DeleteQuestion(instructorID uint, role model.UserRole, questionID uint) error {
	question, err := s.Questions.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	if _, err := s.checkCourseOwner(instructorID, role, question.CourseID); err != nil {
		return err
	}
	return s.Questions.DeleteQuestion(questionID)
}

// ListQuestionsForInstructor 讲师查看课程全部题目，含标准答案
func (s *QuizService) ListQuestionsForInstructor(instructorID uint, role model.UserRole, courseID uint) ([]model.QuizQuestion, error) {
	if _, err := s.checkCourseOwner(instructorID, role, courseID); err != nil {
		return nil, err
	}
	return s.Questions.ListQuestions(courseID)
}
