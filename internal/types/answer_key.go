package types

import (
	"encoding/json"
	"fmt"
)

// AnswerKey is the tagged-union form of an item's stored answer key. Exactly
// one variant pointer is set for a known Type; scoring dispatches on Type and
// never probes raw field names. Parsing is lenient: missing or wrong-shaped
// fields produce zero-valued variants, which score to 0.
type AnswerKey struct {
	Type         ItemType
	SingleSelect *SingleSelectKey
	MultiSelect  *MultiSelectKey
	OrderedSteps *OrderedStepsKey
	ShortAnswer  *ShortAnswerKey
	Scenario     *ScenarioBranchKey
}

type SingleSelectKey struct {
	CorrectOptionID string
}

type MultiSelectKey struct {
	CorrectOptionIDs []string
}

type OrderedStepsKey struct {
	CorrectOrder []string
}

type ShortAnswerKey struct {
	Keywords       []string
	ExpectedAnswer string
}

type ScenarioBranchKey struct {
	CorrectBranchID string
}

// Field aliases seen in authored answer keys. Older seeds used camelCase,
// newer ones snake_case.
var (
	singleSelectAliases = []string{"correctOptionId", "correct_option_id", "correctOption", "answer"}
	multiSelectAliases  = []string{"correctOptionIds", "correct_option_ids", "correctOptions"}
	orderedStepsAliases = []string{"correctOrder", "correct_order", "steps"}
	keywordAliases      = []string{"keywords", "expectedKeywords", "expected_keywords"}
	expectedAliases     = []string{"expectedAnswer", "expected_answer", "answer"}
	branchAliases       = []string{"correctBranchId", "correct_branch_id", "branchId"}
)

// ParseAnswerKey converts a raw stored answer key into its tagged-union form
// for the given item type. It never fails; unknown types or malformed raw
// payloads yield a key whose variant scores to 0.
func ParseAnswerKey(itemType ItemType, raw []byte) AnswerKey {
	fields := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &fields)
	}

	key := AnswerKey{Type: itemType}
	switch itemType {
	case ItemTypeSingleSelect:
		key.SingleSelect = &SingleSelectKey{CorrectOptionID: firstString(fields, singleSelectAliases)}
	case ItemTypeMultiSelect:
		key.MultiSelect = &MultiSelectKey{CorrectOptionIDs: firstStringSlice(fields, multiSelectAliases)}
	case ItemTypeOrderedSteps:
		key.OrderedSteps = &OrderedStepsKey{CorrectOrder: firstStringSlice(fields, orderedStepsAliases)}
	case ItemTypeShortAnswerRubric:
		key.ShortAnswer = &ShortAnswerKey{
			Keywords:       firstStringSlice(fields, keywordAliases),
			ExpectedAnswer: firstString(fields, expectedAliases),
		}
	case ItemTypeScenarioBranch:
		key.Scenario = &ScenarioBranchKey{CorrectBranchID: firstString(fields, branchAliases)}
	}
	return key
}

func firstString(fields map[string]any, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := fields[alias]; ok {
			if s := Stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstStringSlice(fields map[string]any, aliases []string) []string {
	for _, alias := range aliases {
		v, ok := fields[alias]
		if !ok {
			continue
		}
		items, ok := v.([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, Stringify(item))
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// Stringify renders a loosely-typed JSON scalar as a string. Non-scalar
// values stringify to "" so they never match anything.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}
