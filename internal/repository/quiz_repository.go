package repository

import (
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// ListQuestions 按 order 升序返回课程的全部题目
func (r *QuizRepository) ListQuestions(courseID uint) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}

func (r *QuizRepository) CreateQuestion(question *model.QuizQuestion) error {
	return r.DB.Create(question).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuizRepository) UpdateQuestion(question *model.QuizQuestion) error {
	return r.DB.Save(question).Error
}

func (r *QuizRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.QuizQuestion{}, id).Error
}

// CreateAttemptWithResults 在同一事务里写入 Attempt 和它的全部单题记录。
// 任何一条失败整体回滚，不会留下没有 Results 的孤儿 Attempt。
// 成功返回后 attempt.ID 已填充，调用方不需要回查。
func (r *QuizRepository) CreateAttemptWithResults(attempt *model.QuizAttempt, results []model.QuizAttemptResult) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range results {
			results[i].AttemptID = attempt.ID
		}
		if len(results) > 0 {
			if err := tx.Create(&results).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) FindAttemptByID(id string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.First(&attempt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// LatestAttempt 返回该学生在该课程按创建时间最新的一次提交
func (r *QuizRepository) LatestAttempt(userID, courseID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at desc").First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *QuizRepository) ListAttemptsByUser(userID, courseID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at desc").Find(&attempts).Error
	return attempts, err
}

func (r *QuizRepository) ListResults(attemptID string) ([]model.QuizAttemptResult, error) {
	var results []model.QuizAttemptResult
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&results).Error
	return results, err
}

type AttemptListRow struct {
	model.QuizAttempt
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

// ListAttemptsByCourse 教师端查看某课程全部提交，支持按学生姓名过滤
func (r *QuizRepository) ListAttemptsByCourse(courseID uint, page, limit int, studentName string) ([]AttemptListRow, int64, error) {
	query := r.DB.Table("quiz_attempts a").
		Select("a.*, u.name as user_name, u.email as user_email").
		Joins("JOIN users u ON a.user_id = u.id").
		Where("a.course_id = ? AND a.deleted_at IS NULL", courseID)

	if studentName != "" {
		query = query.Where("u.name LIKE ?", "%"+studentName+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AttemptListRow
	offset := (page - 1) * limit
	err := query.Order("a.created_at desc").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}
