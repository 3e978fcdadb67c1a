package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LessonStatusNotStarted = "not_started"
	LessonStatusInProgress = "in_progress"
	LessonStatusPassed     = "passed"
)

// LessonAttempt is upserted per (user, lesson). Metadata carries the
// completed-block set and any captured per-block payloads.
type LessonAttempt struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_lesson_attempt,unique,priority:1" json:"user_id"`
	LessonID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_lesson_attempt,unique,priority:2" json:"lesson_id"`
	Lesson          *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Status          string         `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	ProgressPercent float64        `gorm:"column:progress_percent;not null;default:0" json:"progress_percent"`
	Source          string         `gorm:"column:source;not null;default:'plan'" json:"source"`
	Metadata        datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LessonAttempt) TableName() string { return "academy_lesson_attempt" }

// LessonAttemptMetadata is the decoded shape of LessonAttempt.Metadata.
type LessonAttemptMetadata struct {
	CompletedBlockIDs []string                  `json:"completed_block_ids"`
	BlockPayloads     map[string]map[string]any `json:"block_payloads,omitempty"`
}

func (a *LessonAttempt) DecodeMetadata() LessonAttemptMetadata {
	var m LessonAttemptMetadata
	if len(a.Metadata) > 0 {
		_ = json.Unmarshal(a.Metadata, &m)
	}
	if m.CompletedBlockIDs == nil {
		m.CompletedBlockIDs = []string{}
	}
	return m
}

func (a *LessonAttempt) EncodeMetadata(m LessonAttemptMetadata) {
	b, _ := json.Marshal(m)
	a.Metadata = datatypes.JSON(b)
}
