package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EventLessonStarted       = "lesson_started"
	EventBlockCompleted      = "block_completed"
	EventAssessmentSubmitted = "assessment_submitted"
	EventAssessmentPassed    = "assessment_passed"
	EventAssessmentFailed    = "assessment_failed"
	EventRemediationAssigned = "remediation_assigned"
	EventReviewCompleted     = "review_completed"
)

// LearningEvent is the append-only audit trail. Writes are best-effort:
// a failed insert never aborts the workflow that triggered it.
type LearningEvent struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	EventType    string         `gorm:"column:event_type;not null;index" json:"event_type"`
	AssessmentID *uuid.UUID     `gorm:"type:uuid" json:"assessment_id,omitempty"`
	LessonID     *uuid.UUID     `gorm:"type:uuid" json:"lesson_id,omitempty"`
	ModuleID     *uuid.UUID     `gorm:"type:uuid" json:"module_id,omitempty"`
	Payload      datatypes.JSON `gorm:"type:jsonb;column:payload" json:"payload,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (LearningEvent) TableName() string { return "academy_learning_event" }
