package service

import (
	"errors"
	"testing"

	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"

	"gorm.io/gorm"
)

type fakeQuestionStore struct {
	questions map[uint][]model.QuizQuestion
	nextID    uint
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: map[uint][]model.QuizQuestion{}, nextID: 1}
}

func (f *fakeQuestionStore) ListQuestions(courseID uint) ([]model.QuizQuestion, error) {
	return f.questions[courseID], nil
}

func (f *fakeQuestionStore) CreateQuestion(q *model.QuizQuestion) error {
	q.ID = f.nextID
	f.nextID++
	f.questions[q.CourseID] = append(f.questions[q.CourseID], *q)
	return nil
}

func (f *fakeQuestionStore) FindQuestionByID(id uint) (*model.QuizQuestion, error) {
	for _, list := range f.questions {
		for i := range list {
			if list[i].ID == id {
				q := list[i]
				return &q, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionStore) UpdateQuestion(q *model.QuizQuestion) error {
	list := f.questions[q.CourseID]
	for i := range list {
		if list[i].ID == q.ID {
			list[i] = *q
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeQuestionStore) DeleteQuestion(id uint) error {
	for courseID, list := range f.questions {
		for i := range list {
			if list[i].ID == id {
				f.questions[courseID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeAttemptStore struct {
	attempts  []model.QuizAttempt
	results   map[string][]model.QuizAttemptResult
	createErr error
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{results: map[string][]model.QuizAttemptResult{}}
}

func (f *fakeAttemptStore) CreateAttemptWithResults(attempt *model.QuizAttempt, results []model.QuizAttemptResult) error {
	if f.createErr != nil {
		return f.createErr
	}
	attempt.ID = model.GenerateUUID()
	for i := range results {
		results[i].AttemptID = attempt.ID
	}
	// 后插入的排在前面，模拟 created_at desc
	f.attempts = append([]model.QuizAttempt{*attempt}, f.attempts...)
	f.results[attempt.ID] = results
	return nil
}

func (f *fakeAttemptStore) FindAttemptByID(id string) (*model.QuizAttempt, error) {
	for i := range f.attempts {
		if f.attempts[i].ID == id {
			a := f.attempts[i]
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptStore) LatestAttempt(userID, courseID uint) (*model.QuizAttempt, error) {
	for i := range f.attempts {
		if f.attempts[i].UserID == userID && f.attempts[i].CourseID == courseID {
			a := f.attempts[i]
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptStore) ListAttemptsByUser(userID, courseID uint) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range f.attempts {
		if a.UserID == userID && a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) ListResults(attemptID string) ([]model.QuizAttemptResult, error) {
	return f.results[attemptID], nil
}

func (f *fakeAttemptStore) ListAttemptsByCourse(courseID uint, page, limit int, studentName string) ([]repository.AttemptListRow, int64, error) {
	var rows []repository.AttemptListRow
	for _, a := range f.attempts {
		if a.CourseID == courseID {
			rows = append(rows, repository.AttemptListRow{QuizAttempt: a})
		}
	}
	return rows, int64(len(rows)), nil
}

type fakeCourseFinder struct {
	courses map[uint]*model.Course
}

func (f *fakeCourseFinder) FindByID(id uint) (*model.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testConfig() *config.Config {
	return &config.Config{Quiz: config.QuizConfig{PassingScore: config.DefaultPassingScore}}
}

func newTestQuizService() (*QuizService, *fakeQuestionStore, *fakeAttemptStore) {
	questions := newFakeQuestionStore()
	attempts := newFakeAttemptStore()
	course := &model.Course{InstructorID: 9, IsPublished: true}
	course.ID = 1
	courses := &fakeCourseFinder{courses: map[uint]*model.Course{1: course}}
	return NewQuizService(questions, attempts, courses, testConfig()), questions, attempts
}

func seedQuestions(store *fakeQuestionStore, courseID uint, answers ...string) {
	for _, a := range answers {
		q := &model.QuizQuestion{CourseID: courseID, QuestionType: model.QuestionSingleChoice, Content: "q", Answer: a}
		store.CreateQuestion(q)
	}
}

func TestGetQuizForStudent_StripsAnswers(t *testing.T) {
	svc, store, _ := newTestQuizService()
	store.CreateQuestion(&model.QuizQuestion{
		CourseID:     1,
		QuestionType: model.QuestionSingleChoice,
		Content:      "React 中管理本地状态的 Hook 是?",
		Answer:       "useState",
		Explanation:  "useState 返回状态值和更新函数",
	})

	views, err := svc.GetQuizForStudent(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d questions, want 1", len(views))
	}
	// StudentQuestion 结构体本身不含答案字段，这里验证内容完整
	if views[0].Content == "" || views[0].QuestionType != model.QuestionSingleChoice {
		t.Errorf("student view incomplete: %+v", views[0])
	}
}

func TestGetQuizForStudent_Errors(t *testing.T) {
	svc, _, _ := newTestQuizService()

	if _, err := svc.GetQuizForStudent(42); !errors.Is(err, util.ErrCourseNotFound) {
		t.Errorf("missing course: err = %v, want ErrCourseNotFound", err)
	}

	// 课程存在但没有题目
	if _, err := svc.GetQuizForStudent(1); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("empty quiz: err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitQuiz_ScoresAndRecords(t *testing.T) {
	svc, store, attempts := newTestQuizService()
	seedQuestions(store, 1, "A", "A", "A", "A", "A")

	answers := model.AnswerSet{
		1: {Value: "A"}, 2: {Value: "A"}, 3: {Value: "A"}, 4: {Value: "A"}, 5: {Value: "B"},
	}
	attempt, summary, err := svc.SubmitQuiz(7, &QuizSubmission{CourseID: 1, Answers: answers, ElapsedSeconds: 120})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Score != 80 || !summary.Passed {
		t.Errorf("Score = %d Passed = %v, want 80 true", summary.Score, summary.Passed)
	}
	if attempt.ID == "" {
		t.Error("attempt should get an ID on create")
	}
	if attempt.PassingScore != 70 {
		t.Errorf("PassingScore snapshot = %d, want 70", attempt.PassingScore)
	}
	if attempt.StartedAt.After(attempt.CompletedAt) {
		t.Error("StartedAt must not be after CompletedAt")
	}

	results, _ := attempts.ListResults(attempt.ID)
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for _, r := range results {
		if r.AttemptID != attempt.ID {
			t.Errorf("result AttemptID = %q, want %q", r.AttemptID, attempt.ID)
		}
		if r.CorrectAnswer != "A" {
			t.Errorf("CorrectAnswer snapshot = %q, want A", r.CorrectAnswer)
		}
	}
}

func TestSubmitQuiz_LearnerMismatch(t *testing.T) {
	svc, store, attempts := newTestQuizService()
	seedQuestions(store, 1, "A")

	_, _, err := svc.SubmitQuiz(7, &QuizSubmission{UserID: 8, CourseID: 1, Answers: model.AnswerSet{1: {Value: "A"}}})
	if !errors.Is(err, util.ErrLearnerMismatch) {
		t.Fatalf("err = %v, want ErrLearnerMismatch", err)
	}
	if len(attempts.attempts) != 0 {
		t.Error("mismatched submission must not be recorded")
	}
}

func TestSubmitQuiz_BodyUserIDOmitted(t *testing.T) {
	svc, store, _ := newTestQuizService()
	seedQuestions(store, 1, "A")

	attempt, _, err := svc.SubmitQuiz(7, &QuizSubmission{CourseID: 1, Answers: model.AnswerSet{1: {Value: "A"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.UserID != 7 {
		t.Errorf("attempt UserID = %d, want JWT identity 7", attempt.UserID)
	}
}

func TestSubmitQuiz_RejectsForeignQuestionIDs(t *testing.T) {
	svc, store, attempts := newTestQuizService()
	seedQuestions(store, 1, "A")

	answers := model.AnswerSet{1: {Value: "A"}, 99: {Value: "B"}}
	_, _, err := svc.SubmitQuiz(7, &QuizSubmission{CourseID: 1, Answers: answers})
	if !errors.Is(err, util.ErrInvalidSubmission) {
		t.Fatalf("err = %v, want ErrInvalidSubmission", err)
	}
	if len(attempts.attempts) != 0 {
		t.Error("invalid submission must not be recorded")
	}
}

func TestSubmitQuiz_PersistenceFailurePropagates(t *testing.T) {
	svc, store, attempts := newTestQuizService()
	seedQuestions(store, 1, "A")
	attempts.createErr = errors.New("db down")

	_, _, err := svc.SubmitQuiz(7, &QuizSubmission{CourseID: 1, Answers: model.AnswerSet{1: {Value: "A"}}})
	if err == nil || err.Error() != "db down" {
		t.Fatalf("err = %v, want db down", err)
	}
}

func TestSubmitQuiz_RetakeCreatesNewAttempt(t *testing.T) {
	svc, store, attempts := newTestQuizService()
	seedQuestions(store, 1, "A", "A")

	// 第一次不及格
	fail := model.AnswerSet{1: {Value: "B"}, 2: {Value: "B"}}
	if _, summary, err := svc.SubmitQuiz(7, &QuizSubmission{CourseID: 1, Answers: fail}); err != nil || summary.Passed {
		t.Fatalf("first attempt: err = %v passed = %v", err, summary != nil && summary.Passed)
	}

	// 重考及格
	pass := model.AnswerSet{1: {Value: "A"}, 2: {Value: "A"}}
	if _, summary, err := svc.SubmitQuiz(7, &QuizSubmission{CourseID: 1, Answers: pass}); err != nil || !summary.Passed {
		t.Fatalf("retake: err = %v passed = %v", err, summary != nil && summary.Passed)
	}

	if len(attempts.attempts) != 2 {
		t.Fatalf("got %d attempts, want 2 (retake must not overwrite)", len(attempts.attempts))
	}

	status, err := svc.LatestStatus(7, 1)
	if err != nil {
		t.Fatalf("LatestStatus: %v", err)
	}
	if !status.Attempted || !status.Passed || status.AttemptCount != 2 {
		t.Errorf("status = %+v, want attempted passed with 2 attempts", status)
	}
}

func TestLatestStatus_NeverAttempted(t *testing.T) {
	svc, _, _ := newTestQuizService()

	status, err := svc.LatestStatus(7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Attempted || status.Passed {
		t.Errorf("status = %+v, want untouched state", status)
	}
	if status.PassingScore != 70 {
		t.Errorf("PassingScore = %d, want 70", status.PassingScore)
	}
}

func TestGetAttemptDetail_Authorization(t *testing.T) {
	svc, store, _ := newTestQuizService()
	seedQuestions(store, 1, "A")

	attempt, _, err := svc.SubmitQuiz(7, &QuizSubmission{CourseID: 1, Answers: model.AnswerSet{1: {Value: "A"}}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// 本人可见
	if _, err := svc.GetAttemptDetail(7, model.Student, attempt.ID); err != nil {
		t.Errorf("owner should see own attempt: %v", err)
	}

	// 其他学生不可见
	if _, err := svc.GetAttemptDetail(8, model.Student, attempt.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("stranger: err = %v, want ErrPermissionDenied", err)
	}

	// 课程讲师可见(讲师ID 9)
	if _, err := svc.GetAttemptDetail(9, model.Instructor, attempt.ID); err != nil {
		t.Errorf("course instructor should see attempt: %v", err)
	}

	// 不存在的提交
	if _, err := svc.GetAttemptDetail(7, model.Student, "nope"); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("missing attempt: err = %v, want ErrAttemptNotFound", err)
	}
}

func TestCreateQuestion_Validation(t *testing.T) {
	svc, _, _ := newTestQuizService()

	// 非讲师本人
	_, err := svc.CreateQuestion(5, model.Instructor, 1, &QuestionInput{
		QuestionType: model.QuestionSingleChoice, Content: "q", Answer: []byte(`"A"`),
	})
	if !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("foreign instructor: err = %v, want ErrPermissionDenied", err)
	}

	// 未知题型
	_, err = svc.CreateQuestion(9, model.Instructor, 1, &QuestionInput{
		QuestionType: "essay", Content: "q", Answer: []byte(`"A"`),
	})
	if !errors.Is(err, util.ErrInvalidSubmission) {
		t.Errorf("bad type: err = %v, want ErrInvalidSubmission", err)
	}

	// 多选答案必须是数组
	_, err = svc.CreateQuestion(9, model.Instructor, 1, &QuestionInput{
		QuestionType: model.QuestionMultipleChoice, Content: "q", Answer: []byte(`"A"`),
	})
	if !errors.Is(err, util.ErrInvalidSubmission) {
		t.Errorf("multi with string answer: err = %v, want ErrInvalidSubmission", err)
	}

	// 合法多选
	q, err := svc.CreateQuestion(9, model.Instructor, 1, &QuestionInput{
		QuestionType: model.QuestionMultipleChoice, Content: "q", Answer: []byte(`["A","C"]`),
	})
	if err != nil {
		t.Fatalf("valid multi: %v", err)
	}
	if q.Answer != `["A","C"]` {
		t.Errorf("stored answer = %q, want JSON array", q.Answer)
	}
}

func TestUpdateQuestion_DoesNotTouchHistory(t *testing.T) {
	svc, store, attempts := newTestQuizService()
	seedQuestions(store, 1, "A")

	attempt, _, err := svc.SubmitQuiz(7, &QuizSubmission{CourseID: 1, Answers: model.AnswerSet{1: {Value: "A"}}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.UpdateQuestion(9, model.Instructor, 1, &QuestionInput{
		QuestionType: model.QuestionSingleChoice, Content: "q", Answer: []byte(`"B"`),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	results, _ := attempts.ListResults(attempt.ID)
	if results[0].CorrectAnswer != "A" || !results[0].IsCorrect {
		t.Errorf("history mutated after answer change: %+v", results[0])
	}
}
