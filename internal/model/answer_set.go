package model

import (
	"encoding/json"
	"errors"
)

// AnswerValue 一道题的作答内容：单选/判断/填空是单个字符串，
// 多选是字符串数组。两种形态都能从 JSON 直接解码。
type AnswerValue struct {
	Value  string
	Values []string
	Multi  bool
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Value = s
		v.Values = nil
		v.Multi = false
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		v.Value = ""
		v.Values = arr
		v.Multi = true
		return nil
	}

	return errors.New("answer must be a string or an array of strings")
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.Multi {
		return json.Marshal(v.Values)
	}
	return json.Marshal(v.Value)
}

// AnswerSet 答题过程中累积的作答集合，键是题目ID。
// 它只存学生输入，不做任何对错校验；提交后整体序列化存档到 QuizAttempt。
type AnswerSet map[uint]AnswerValue

// Set 覆盖写入，同一题后写的覆盖先写的
func (a AnswerSet) Set(questionID uint, value AnswerValue) {
	a[questionID] = value
}

// Get 返回已记录的作答，第二个返回值为 false 表示该题未作答
func (a AnswerSet) Get(questionID uint) (AnswerValue, bool) {
	v, ok := a[questionID]
	return v, ok
}

// AllAnswered 判断题目列表里的每道题是否都已有作答记录
func (a AnswerSet) AllAnswered(questions []QuizQuestion) bool {
	for _, q := range questions {
		if _, ok := a[q.ID]; !ok {
			return false
		}
	}
	return true
}
