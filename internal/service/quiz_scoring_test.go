package service

import (
	"encoding/json"
	"testing"

	"edulearn_backend/internal/model"
)

func question(id uint, qtype, answer string) model.QuizQuestion {
	q := model.QuizQuestion{
		QuestionType: qtype,
		Content:      "问题" + answer,
		Answer:       answer,
	}
	q.ID = id
	return q
}

func single(value string) model.AnswerValue {
	return model.AnswerValue{Value: value}
}

func multi(values ...string) model.AnswerValue {
	return model.AnswerValue{Values: values, Multi: true}
}

func TestScoreQuiz_SingleChoice(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		given   model.AnswerValue
		correct bool
	}{
		{name: "exact match", answer: "B", given: single("B"), correct: true},
		{name: "wrong option", answer: "B", given: single("A"), correct: false},
		{name: "case sensitive", answer: "B", given: single("b"), correct: false},
		{name: "no trimming", answer: "B", given: single(" B"), correct: false},
		{name: "array answer to single question", answer: "B", given: multi("B"), correct: false},
		{name: "empty string", answer: "B", given: single(""), correct: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions := []model.QuizQuestion{question(1, model.QuestionSingleChoice, tc.answer)}
			answers := model.AnswerSet{1: tc.given}

			got := ScoreQuiz(questions, answers, 70)
			if got.Results[0].IsCorrect != tc.correct {
				t.Errorf("IsCorrect = %v, want %v", got.Results[0].IsCorrect, tc.correct)
			}
		})
	}
}

func TestScoreQuiz_TrueFalse(t *testing.T) {
	questions := []model.QuizQuestion{question(1, model.QuestionTrueFalse, "true")}

	got := ScoreQuiz(questions, model.AnswerSet{1: single("true")}, 70)
	if !got.Results[0].IsCorrect {
		t.Error("matching true_false answer should be correct")
	}

	got = ScoreQuiz(questions, model.AnswerSet{1: single("True")}, 70)
	if got.Results[0].IsCorrect {
		t.Error("true_false comparison must be case sensitive")
	}
}

func TestScoreQuiz_FreeText(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		given   string
		correct bool
	}{
		{name: "exact match", answer: "useState", given: "useState", correct: true},
		{name: "case mismatch", answer: "useState", given: "usestate", correct: false},
		{name: "trailing space", answer: "useState", given: "useState ", correct: false},
		{name: "different hook", answer: "useState", given: "useEffect", correct: false},
		{name: "multi word exact", answer: "virtual DOM", given: "virtual DOM", correct: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions := []model.QuizQuestion{question(1, model.QuestionFreeText, tc.answer)}
			got := ScoreQuiz(questions, model.AnswerSet{1: single(tc.given)}, 70)
			if got.Results[0].IsCorrect != tc.correct {
				t.Errorf("IsCorrect = %v, want %v", got.Results[0].IsCorrect, tc.correct)
			}
		})
	}
}

func TestScoreQuiz_MultipleChoice(t *testing.T) {
	tests := []struct {
		name    string
		given   model.AnswerValue
		correct bool
	}{
		{name: "same order", given: multi("A", "C"), correct: true},
		{name: "reversed order", given: multi("C", "A"), correct: true},
		{name: "missing one no partial credit", given: multi("A"), correct: false},
		{name: "extra selection", given: multi("A", "C", "D"), correct: false},
		{name: "duplicate selections collapse", given: multi("A", "A", "C"), correct: true},
		{name: "empty selection", given: multi(), correct: false},
		{name: "string answer to multi question", given: single("A"), correct: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions := []model.QuizQuestion{question(1, model.QuestionMultipleChoice, `["A","C"]`)}
			got := ScoreQuiz(questions, model.AnswerSet{1: tc.given}, 70)
			if got.Results[0].IsCorrect != tc.correct {
				t.Errorf("IsCorrect = %v, want %v", got.Results[0].IsCorrect, tc.correct)
			}
		})
	}
}

func TestScoreQuiz_UnansweredCountsWrong(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, model.QuestionSingleChoice, "A"),
		question(2, model.QuestionSingleChoice, "B"),
	}

	got := ScoreQuiz(questions, model.AnswerSet{1: single("A")}, 70)
	if got.CorrectCount != 1 {
		t.Errorf("CorrectCount = %d, want 1", got.CorrectCount)
	}
	if got.Results[1].IsCorrect {
		t.Error("unanswered question must count as incorrect")
	}
	if got.Results[1].UserAnswer != "" {
		t.Errorf("unanswered UserAnswer = %q, want empty", got.Results[1].UserAnswer)
	}
	if got.Score != 50 {
		t.Errorf("Score = %d, want 50", got.Score)
	}
}

func TestScoreQuiz_PassBoundary(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		correct int
		score   int
		passed  bool
	}{
		{name: "4 of 5 passes", total: 5, correct: 4, score: 80, passed: true},
		{name: "3 of 5 fails", total: 5, correct: 3, score: 60, passed: false},
		{name: "7 of 10 exactly 70 passes", total: 10, correct: 7, score: 70, passed: true},
		{name: "all correct", total: 4, correct: 4, score: 100, passed: true},
		{name: "none correct", total: 4, correct: 0, score: 0, passed: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions := make([]model.QuizQuestion, 0, tc.total)
			answers := model.AnswerSet{}
			for i := 1; i <= tc.total; i++ {
				questions = append(questions, question(uint(i), model.QuestionSingleChoice, "A"))
				if i <= tc.correct {
					answers[uint(i)] = single("A")
				} else {
					answers[uint(i)] = single("B")
				}
			}

			got := ScoreQuiz(questions, answers, 70)
			if got.Score != tc.score {
				t.Errorf("Score = %d, want %d", got.Score, tc.score)
			}
			if got.Passed != tc.passed {
				t.Errorf("Passed = %v, want %v", got.Passed, tc.passed)
			}
		})
	}
}

func TestPercentage_Rounding(t *testing.T) {
	tests := []struct {
		correct int
		total   int
		want    int
	}{
		{correct: 1, total: 3, want: 33},
		{correct: 2, total: 3, want: 67},
		{correct: 1, total: 8, want: 13}, // 12.5 四舍五入进位
		{correct: 5, total: 8, want: 63}, // 62.5
		{correct: 0, total: 0, want: 0},
		{correct: 7, total: 7, want: 100},
	}

	for _, tc := range tests {
		if got := Percentage(tc.correct, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestScoreQuiz_CustomPassingScore(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, model.QuestionSingleChoice, "A"),
		question(2, model.QuestionSingleChoice, "A"),
	}
	answers := model.AnswerSet{1: single("A"), 2: single("B")}

	if got := ScoreQuiz(questions, answers, 50); !got.Passed {
		t.Error("50 score should pass with threshold 50")
	}
	if got := ScoreQuiz(questions, answers, 51); got.Passed {
		t.Error("50 score should fail with threshold 51")
	}
}

func TestScoreQuiz_MixedTypes(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, model.QuestionSingleChoice, "B"),
		question(2, model.QuestionMultipleChoice, `["A","D"]`),
		question(3, model.QuestionTrueFalse, "false"),
		question(4, model.QuestionFreeText, "useEffect"),
	}
	answers := model.AnswerSet{
		1: single("B"),
		2: multi("D", "A"),
		3: single("false"),
		4: single("useState"),
	}

	got := ScoreQuiz(questions, answers, 70)
	if got.CorrectCount != 3 {
		t.Fatalf("CorrectCount = %d, want 3", got.CorrectCount)
	}
	if got.Score != 75 {
		t.Errorf("Score = %d, want 75", got.Score)
	}
	if !got.Passed {
		t.Error("75 should pass with threshold 70")
	}

	// 多选的存档形式是 JSON 数组原文
	var recorded []string
	if err := json.Unmarshal([]byte(got.Results[1].UserAnswer), &recorded); err != nil {
		t.Fatalf("multi answer should be recorded as JSON array, got %q", got.Results[1].UserAnswer)
	}
}

func TestScoreQuiz_NoQuestions(t *testing.T) {
	got := ScoreQuiz(nil, model.AnswerSet{}, 70)
	if got.Score != 0 || got.Passed {
		t.Errorf("empty quiz: Score = %d, Passed = %v, want 0 and false", got.Score, got.Passed)
	}
}
