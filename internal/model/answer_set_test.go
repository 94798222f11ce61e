package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAnswerValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AnswerValue
		wantErr bool
	}{
		{name: "plain string", input: `"B"`, want: AnswerValue{Value: "B"}},
		{name: "empty string", input: `""`, want: AnswerValue{Value: ""}},
		{name: "string array", input: `["A","C"]`, want: AnswerValue{Values: []string{"A", "C"}, Multi: true}},
		{name: "empty array", input: `[]`, want: AnswerValue{Values: []string{}, Multi: true}},
		{name: "number rejected", input: `42`, wantErr: true},
		{name: "object rejected", input: `{"a":1}`, wantErr: true},
		{name: "mixed array rejected", input: `["A",1]`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got AnswerValue
			err := json.Unmarshal([]byte(tc.input), &got)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestAnswerValue_MarshalRoundTrip(t *testing.T) {
	set := AnswerSet{
		1: {Value: "B"},
		2: {Values: []string{"A", "C"}, Multi: true},
	}

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded AnswerSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(set, decoded) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, set)
	}
}

func TestAnswerSet_LastWriteWins(t *testing.T) {
	set := AnswerSet{}
	set.Set(1, AnswerValue{Value: "A"})
	set.Set(1, AnswerValue{Value: "C"})

	got, ok := set.Get(1)
	if !ok {
		t.Fatal("answer should be present")
	}
	if got.Value != "C" {
		t.Errorf("Value = %q, want %q (later write must win)", got.Value, "C")
	}
}

func TestAnswerSet_GetAbsent(t *testing.T) {
	set := AnswerSet{1: {Value: "A"}}
	if _, ok := set.Get(2); ok {
		t.Error("absent question should report ok=false")
	}
}

func TestAnswerSet_AllAnswered(t *testing.T) {
	q1 := QuizQuestion{}
	q1.ID = 1
	q2 := QuizQuestion{}
	q2.ID = 2
	questions := []QuizQuestion{q1, q2}

	set := AnswerSet{1: {Value: "A"}}
	if set.AllAnswered(questions) {
		t.Error("one missing answer, AllAnswered should be false")
	}

	set.Set(2, AnswerValue{Value: ""})
	if !set.AllAnswered(questions) {
		t.Error("empty string still counts as answered")
	}
}

func TestQuizQuestion_CanonicalValues(t *testing.T) {
	multiQ := QuizQuestion{QuestionType: QuestionMultipleChoice, Answer: `["A","D"]`}
	if got := multiQ.CanonicalValues(); !reflect.DeepEqual(got, []string{"A", "D"}) {
		t.Errorf("CanonicalValues = %v, want [A D]", got)
	}

	singleQ := QuizQuestion{QuestionType: QuestionSingleChoice, Answer: "B"}
	if got := singleQ.CanonicalValues(); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("CanonicalValues = %v, want [B]", got)
	}

	// 多选但答案存的不是合法数组，按单值兜底
	badQ := QuizQuestion{QuestionType: QuestionMultipleChoice, Answer: "A"}
	if got := badQ.CanonicalValues(); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("CanonicalValues = %v, want [A]", got)
	}
}
