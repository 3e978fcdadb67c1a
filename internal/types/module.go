package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Module struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TrackID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"track_id"`
	Track            *Track         `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrackID;references:ID" json:"track,omitempty"`
	Slug             string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Code             string         `gorm:"column:code;not null" json:"code"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	Description      *string        `gorm:"column:description" json:"description,omitempty"`
	CoverImageURL    *string        `gorm:"column:cover_image_url" json:"cover_image_url,omitempty"`
	LearningOutcomes datatypes.JSON `gorm:"type:jsonb;column:learning_outcomes" json:"learning_outcomes,omitempty"`
	EstimatedMinutes int            `gorm:"column:estimated_minutes;not null;default:0" json:"estimated_minutes"`
	Position         int            `gorm:"column:position;not null;default:0" json:"position"`
	IsPublished      bool           `gorm:"column:is_published;not null;default:false;index" json:"is_published"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Module) TableName() string { return "academy_module" }
