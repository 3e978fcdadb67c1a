package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Program struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code        string         `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description *string        `gorm:"column:description" json:"description,omitempty"`
	IsActive    bool           `gorm:"column:is_active;not null;default:false;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Program) TableName() string { return "academy_program" }

type Track struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProgramID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"program_id"`
	Program     *Program       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	Code        string         `gorm:"column:code;not null" json:"code"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description *string        `gorm:"column:description" json:"description,omitempty"`
	Position    int            `gorm:"column:position;not null;default:0" json:"position"`
	IsActive    bool           `gorm:"column:is_active;not null;default:false" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Track) TableName() string { return "academy_track" }
