package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ReviewStatusDue      = "due"
	ReviewStatusResolved = "resolved"
)

// ReviewQueueItem is one remediated item per learner. It is updated in place
// on each review submission (interval, due date, weight advance), never
// replaced. PromptJSON is a self-contained copy of the seeding item so
// review scoring survives edits or deletion of the original.
type ReviewQueueItem struct {
	QueueID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey;column:queue_id" json:"queue_id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_review_user_due,priority:1" json:"user_id"`
	CompetencyID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"competency_id"`
	SourceItemID   *uuid.UUID     `gorm:"type:uuid" json:"source_item_id,omitempty"`
	PromptJSON     datatypes.JSON `gorm:"type:jsonb;column:prompt_json" json:"prompt_json,omitempty"`
	DueAt          time.Time      `gorm:"column:due_at;not null;index:idx_review_user_due,priority:2" json:"due_at"`
	IntervalDays   int            `gorm:"column:interval_days;not null;default:1" json:"interval_days"`
	PriorityWeight float64        `gorm:"column:priority_weight;not null;default:1" json:"priority_weight"`
	Status         string         `gorm:"column:status;not null;default:'due'" json:"status"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReviewQueueItem) TableName() string { return "academy_review_queue_item" }

// ReviewPrompt is the decoded shape of PromptJSON.
type ReviewPrompt struct {
	ItemType  ItemType        `json:"item_type"`
	Prompt    json.RawMessage `json:"prompt,omitempty"`
	AnswerKey json.RawMessage `json:"answer_key,omitempty"`
}

// DecodePrompt parses PromptJSON. Malformed payloads decode to a zero
// prompt, which scores to 0 rather than failing the review pass.
func (i *ReviewQueueItem) DecodePrompt() ReviewPrompt {
	var p ReviewPrompt
	if len(i.PromptJSON) > 0 {
		_ = json.Unmarshal(i.PromptJSON, &p)
	}
	return p
}
