package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReviewAttempt is an append-only log of one graded review submission.
type ReviewAttempt struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QueueID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"queue_id"`
	QueueItem        *ReviewQueueItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:QueueID;references:QueueID" json:"queue_item,omitempty"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Answer           datatypes.JSON   `gorm:"type:jsonb;column:answer" json:"answer,omitempty"`
	IsCorrect        bool             `gorm:"column:is_correct;not null" json:"is_correct"`
	ConfidenceRating *int             `gorm:"column:confidence_rating" json:"confidence_rating,omitempty"`
	LatencyMs        *int             `gorm:"column:latency_ms" json:"latency_ms,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;default:now()" json:"created_at"`
}

func (ReviewAttempt) TableName() string { return "academy_review_attempt" }
