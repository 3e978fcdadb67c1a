package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Assessment struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module           *Module        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Slug             string         `gorm:"column:slug;not null" json:"slug"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	MasteryThreshold float64        `gorm:"column:mastery_threshold;not null;default:0.7" json:"mastery_threshold"`
	IsPublished      bool           `gorm:"column:is_published;not null;default:false;index" json:"is_published"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "academy_assessment" }

// AssessmentItem is immutable once its assessment is published. CompetencyID
// is nullable: unscored filler items carry none and are excluded from
// per-competency aggregation.
type AssessmentItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Assessment   *Assessment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	CompetencyID *uuid.UUID     `gorm:"type:uuid;index" json:"competency_id,omitempty"`
	Competency   *Competency    `gorm:"constraint:OnDelete:SET NULL;foreignKey:CompetencyID;references:ID" json:"competency,omitempty"`
	ItemType     ItemType       `gorm:"column:item_type;not null" json:"item_type"`
	Position     int            `gorm:"column:position;not null;default:0" json:"position"`
	Prompt       datatypes.JSON `gorm:"type:jsonb;column:prompt" json:"prompt,omitempty"`
	AnswerKey    datatypes.JSON `gorm:"type:jsonb;column:answer_key" json:"answer_key,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AssessmentItem) TableName() string { return "academy_assessment_item" }
