package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AttemptStatusPassed = "passed"
	AttemptStatusFailed = "failed"
)

// AssessmentAttempt is created once per submission and never mutated.
type AssessmentAttempt struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	AssessmentID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Assessment       *Assessment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	Status           string         `gorm:"column:status;not null" json:"status"`
	Score            float64        `gorm:"column:score;not null" json:"score"`
	CompetencyScores datatypes.JSON `gorm:"type:jsonb;column:competency_scores" json:"competency_scores,omitempty"`
	Answers          datatypes.JSON `gorm:"type:jsonb;column:answers" json:"answers,omitempty"`
	Feedback         datatypes.JSON `gorm:"type:jsonb;column:feedback" json:"feedback,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AssessmentAttempt) TableName() string { return "academy_assessment_attempt" }
