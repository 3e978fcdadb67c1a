package types

import "testing"

func TestParseAnswerKeyAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"camelCase", `{"correctOptionId":"b"}`, "b"},
		{"snake_case", `{"correct_option_id":"b"}`, "b"},
		{"short form", `{"answer":"b"}`, "b"},
		{"numeric value", `{"correctOptionId":2}`, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := ParseAnswerKey(ItemTypeSingleSelect, []byte(tt.raw))
			if key.SingleSelect == nil {
				t.Fatal("variant not set")
			}
			if key.SingleSelect.CorrectOptionID != tt.want {
				t.Fatalf("CorrectOptionID = %q, want %q", key.SingleSelect.CorrectOptionID, tt.want)
			}
		})
	}
}

func TestParseAnswerKeyShortAnswer(t *testing.T) {
	key := ParseAnswerKey(ItemTypeShortAnswerRubric, []byte(`{"expectedKeywords":["stop","risk"],"expected_answer":"use a stop"}`))
	if key.ShortAnswer == nil {
		t.Fatal("variant not set")
	}
	if len(key.ShortAnswer.Keywords) != 2 {
		t.Fatalf("Keywords = %v", key.ShortAnswer.Keywords)
	}
	if key.ShortAnswer.ExpectedAnswer != "use a stop" {
		t.Fatalf("ExpectedAnswer = %q", key.ShortAnswer.ExpectedAnswer)
	}
}

func TestParseAnswerKeyMalformed(t *testing.T) {
	key := ParseAnswerKey(ItemTypeOrderedSteps, []byte(`not json`))
	if key.OrderedSteps == nil {
		t.Fatal("variant not set for known type")
	}
	if len(key.OrderedSteps.CorrectOrder) != 0 {
		t.Fatalf("CorrectOrder = %v, want empty", key.OrderedSteps.CorrectOrder)
	}

	key = ParseAnswerKey(ItemType("essay"), []byte(`{}`))
	if key.SingleSelect != nil || key.MultiSelect != nil || key.OrderedSteps != nil ||
		key.ShortAnswer != nil || key.Scenario != nil {
		t.Fatal("unknown type set a variant")
	}
}

func TestStringifyScalars(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"abc", "abc"},
		{float64(3), "3"},
		{float64(2.5), "2.5"},
		{true, "true"},
		{nil, ""},
		{map[string]any{"k": "v"}, ""},
		{[]any{"a"}, ""},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Fatalf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
