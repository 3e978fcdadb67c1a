package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Competency struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Key         string         `gorm:"column:key;not null;uniqueIndex" json:"key"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description *string        `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Competency) TableName() string { return "academy_competency" }
