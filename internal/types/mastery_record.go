package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasteryRecord is upserted per (user, competency) on every assessment
// submission that touches the competency; never deleted. CurrentScore is
// 0-100, Confidence 0-1 and trends toward 1 with repeated evidence.
type MasteryRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_competency,unique,priority:1" json:"user_id"`
	CompetencyID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_competency,unique,priority:2" json:"competency_id"`
	Competency       *Competency    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompetencyID;references:ID" json:"competency,omitempty"`
	CurrentScore     float64        `gorm:"column:current_score;not null;default:0" json:"current_score"`
	Confidence       float64        `gorm:"column:confidence;not null;default:0" json:"confidence"`
	NeedsRemediation bool           `gorm:"column:needs_remediation;not null;default:false;index" json:"needs_remediation"`
	LastEvaluatedAt  *time.Time     `gorm:"column:last_evaluated_at" json:"last_evaluated_at,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MasteryRecord) TableName() string { return "academy_mastery_record" }
