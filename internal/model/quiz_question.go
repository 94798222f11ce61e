package model

import "encoding/json"

// 题型。free_text 没有选项，学生直接输入文本。
const (
	QuestionSingleChoice   = "single_choice"
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionFreeText       = "free_text"
)

// QuizQuestion 课程测验题目。Answer 是标准答案：
// multiple_choice 存 JSON 字符串数组，其余题型存原文。
// 学生端接口不返回 Answer 和 Explanation。
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	CourseID     uint            `gorm:"index;type:bigint unsigned" json:"courseId"`
	QuestionType string          `gorm:"size:50;not null" json:"questionType"`
	Content      string          `gorm:"type:text;not null" json:"content"`
	Options      json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	Answer       string          `gorm:"type:text" json:"answer"`
	Explanation  string          `gorm:"type:text" json:"explanation"`
	Difficulty   string          `gorm:"size:20" json:"difficulty"`
	Order        int             `gorm:"default:0" json:"order"` // 同一课程内唯一，决定出题顺序
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// CanonicalValues 解析标准答案。multiple_choice 返回解码后的集合，
// 其余题型返回单元素切片。数组解码失败时按单值处理。
func (q *QuizQuestion) CanonicalValues() []string {
	if q.QuestionType == QuestionMultipleChoice {
		var values []string
		if err := json.Unmarshal([]byte(q.Answer), &values); err == nil {
			return values
		}
	}
	return []string{q.Answer}
}
