package types

// ItemType identifies the scoring strategy of an assessment item.
type ItemType string

const (
	ItemTypeSingleSelect      ItemType = "single_select"
	ItemTypeMultiSelect       ItemType = "multi_select"
	ItemTypeOrderedSteps      ItemType = "ordered_steps"
	ItemTypeShortAnswerRubric ItemType = "short_answer_rubric"
	ItemTypeScenarioBranch    ItemType = "scenario_branch"
)

// Known reports whether t is one of the scorable item types.
func (t ItemType) Known() bool {
	switch t {
	case ItemTypeSingleSelect, ItemTypeMultiSelect, ItemTypeOrderedSteps,
		ItemTypeShortAnswerRubric, ItemTypeScenarioBranch:
		return true
	}
	return false
}
