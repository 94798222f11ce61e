package service

import (
	"math"

	"edulearn_backend/internal/model"
)

// QuestionResult 单题判定结果
type QuestionResult struct {
	QuestionID    uint   `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// ScoreSummary 一次测验的完整评分结果
type ScoreSummary struct {
	Score        int              `json:"score"`
	TotalCount   int              `json:"totalCount"`
	CorrectCount int              `json:"correctCount"`
	Passed       bool             `json:"passed"`
	Results      []QuestionResult `json:"results"`
}

// ScoreQuiz 对一组题目和作答集合计分。纯函数，不依赖任何存储。
// 规则：
//   - 单选/判断/填空：字符串完全相等才算对，不做大小写折叠和去空格
//   - 多选：集合相等才算对，顺序无关，不给部分分
//   - 未作答一律算错
//   - 得分 = 四舍五入(正确数/总题数*100)
func ScoreQuiz(questions []model.QuizQuestion, answers model.AnswerSet, passingScore int) ScoreSummary {
	summary := ScoreSummary{
		TotalCount: len(questions),
		Results:    make([]QuestionResult, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		result := QuestionResult{
			QuestionID:    q.ID,
			CorrectAnswer: q.Answer,
		}

		answer, answered := answers.Get(q.ID)
		if answered {
			result.UserAnswer = encodeAnswer(answer)
			result.IsCorrect = judgeAnswer(q, answer)
		}

		if result.IsCorrect {
			summary.CorrectCount++
		}
		summary.Results = append(summary.Results, result)
	}

	summary.Score = Percentage(summary.CorrectCount, summary.TotalCount)
	summary.Passed = summary.Score >= passingScore
	return summary
}

// Percentage 按百分制四舍五入，0 题时返回 0
func Percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// judgeAnswer 判定单题对错
func judgeAnswer(q *model.QuizQuestion, answer model.AnswerValue) bool {
	if q.QuestionType == model.QuestionMultipleChoice {
		if !answer.Multi {
			return false
		}
		return sameSet(answer.Values, q.CanonicalValues())
	}

	if answer.Multi {
		return false
	}
	return answer.Value == q.Answer
}

// sameSet 判断两个字符串切片作为集合是否相等，忽略顺序和重复
func sameSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}

	if len(setA) != len(setB) {
		return false
	}
	for v := range setA {
		if _, ok := setB[v]; !ok {
			return false
		}
	}
	return true
}

// encodeAnswer 把作答内容转成存档字符串，多选按 JSON 数组形式
func encodeAnswer(answer model.AnswerValue) string {
	data, err := answer.MarshalJSON()
	if err != nil {
		return ""
	}
	if !answer.Multi {
		return answer.Value
	}
	return string(data)
}
