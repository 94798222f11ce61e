package repository

import (
	"edulearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Instructor").First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete 级联删除课程及其课时、题目。已有的答题记录和证书保留存档。
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

type CourseListRow struct {
	model.Course
	LessonCount   int `json:"lessonCount"`
	QuestionCount int `json:"questionCount"`
	EnrolledCount int `json:"enrolledCount"`
}

// ListPublished 带统计字段的目录查询，category 为空时不过滤
func (r *CourseRepository) ListPublished(category string, page, limit int) ([]CourseListRow, int64, error) {
	var total int64
	countQuery := r.DB.Model(&model.Course{}).Where("is_published = ?", true)
	if category != "" {
		countQuery = countQuery.Where("category = ?", category)
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.DB.Table("courses c").
		Select("c.*, " +
			"(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id AND l.deleted_at IS NULL) as lesson_count, " +
			"(SELECT COUNT(*) FROM quiz_questions q WHERE q.course_id = c.id AND q.deleted_at IS NULL) as question_count, " +
			"(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id AND e.deleted_at IS NULL) as enrolled_count").
		Where("c.is_published = ? AND c.deleted_at IS NULL", true)
	if category != "" {
		query = query.Where("c.category = ?", category)
	}

	offset := (page - 1) * limit
	var rows []CourseListRow
	err := query.Order("c.created_at desc").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).
		Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Publish(courseID uint) error {
	now := time.Now()
	return r.DB.Model(&model.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{"is_published": true, "published_at": &now}).Error
}

func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *CourseRepository) UpdateLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *CourseRepository) DeleteLesson(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}

func (r *CourseRepository) ListLessons(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` asc, created_at asc").Find(&lessons).Error
	return lessons, err
}
