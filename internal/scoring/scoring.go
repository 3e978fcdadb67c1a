// Package scoring grades a single submitted answer against an item's answer
// key. It is pure: no storage, no side effects. Malformed or missing input
// never fails a grading pass; anything unscoreable resolves to a score of 0.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/titm/academy-engine/internal/types"
)

// correctEpsilon guards the isCorrect flag against floating-point rounding
// at score == 1.
const correctEpsilon = 0.999

type Result struct {
	Score     float64 `json:"score"`
	IsCorrect bool    `json:"is_correct"`
}

// Score grades one submitted answer against one answer key. The returned
// score is always in [0, 1].
func Score(key types.AnswerKey, submitted any) Result {
	var score float64
	switch key.Type {
	case types.ItemTypeSingleSelect:
		score = scoreSingleSelect(key.SingleSelect, submitted)
	case types.ItemTypeMultiSelect:
		score = scoreMultiSelect(key.MultiSelect, submitted)
	case types.ItemTypeOrderedSteps:
		score = scoreOrderedSteps(key.OrderedSteps, submitted)
	case types.ItemTypeShortAnswerRubric:
		score = scoreShortAnswer(key.ShortAnswer, submitted)
	case types.ItemTypeScenarioBranch:
		score = scoreScenarioBranch(key.Scenario, submitted)
	default:
		score = 0
	}
	score = clamp01(score)
	return Result{Score: score, IsCorrect: score >= correctEpsilon}
}

func scoreSingleSelect(key *types.SingleSelectKey, submitted any) float64 {
	if key == nil {
		return 0
	}
	expected := normalize(key.CorrectOptionID)
	actual := normalize(types.Stringify(submitted))
	if expected == "" || actual == "" {
		return 0
	}
	if expected == actual {
		return 1
	}
	return 0
}

// scoreMultiSelect is all-or-nothing: the normalized submitted set must
// equal the normalized expected set exactly.
func scoreMultiSelect(key *types.MultiSelectKey, submitted any) float64 {
	if key == nil {
		return 0
	}
	expected := normalizeSet(key.CorrectOptionIDs)
	actual := normalizeSet(stringSlice(submitted))
	if len(expected) == 0 || len(expected) != len(actual) {
		return 0
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return 0
		}
	}
	return 1
}

// scoreOrderedSteps is the one strategy with partial credit: matching
// positions over sequence length, rounded to 4 decimals.
func scoreOrderedSteps(key *types.OrderedStepsKey, submitted any) float64 {
	if key == nil || len(key.CorrectOrder) == 0 {
		return 0
	}
	actual := stringSlice(submitted)
	if len(actual) != len(key.CorrectOrder) {
		return 0
	}
	matches := 0
	for i, step := range key.CorrectOrder {
		if normalize(step) == normalize(actual[i]) {
			matches++
		}
	}
	return round4(float64(matches) / float64(len(key.CorrectOrder)))
}

// scoreShortAnswer is lexical by design: keyword-substring counting when a
// keyword list is authored, otherwise a whole-answer substring check.
func scoreShortAnswer(key *types.ShortAnswerKey, submitted any) float64 {
	if key == nil {
		return 0
	}
	response := normalize(types.Stringify(submitted))
	if response == "" {
		return 0
	}
	if len(key.Keywords) > 0 {
		found := 0
		for _, keyword := range key.Keywords {
			if kw := normalize(keyword); kw != "" && strings.Contains(response, kw) {
				found++
			}
		}
		return float64(found) / float64(len(key.Keywords))
	}
	expected := normalize(key.ExpectedAnswer)
	if expected == "" {
		return 0
	}
	if strings.Contains(response, expected) {
		return 1
	}
	return 0
}

func scoreScenarioBranch(key *types.ScenarioBranchKey, submitted any) float64 {
	if key == nil {
		return 0
	}
	expected := normalize(key.CorrectBranchID)
	if expected == "" {
		return 0
	}
	actual := types.Stringify(submitted)
	if obj, ok := submitted.(map[string]any); ok {
		for _, alias := range []string{"branchId", "branch_id"} {
			if v, found := obj[alias]; found {
				actual = types.Stringify(v)
				break
			}
		}
	}
	if normalize(actual) == expected {
		return 1
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeSet lowercases, trims, dedupes and sorts.
func normalizeSet(values []string) []string {
	seen := map[string]bool{}
	for _, v := range values {
		if n := normalize(v); n != "" {
			seen[n] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			out = append(out, types.Stringify(item))
		}
		return out
	default:
		return nil
	}
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
