package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lesson struct {
	ID                    uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module                *Module        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Slug                  string         `gorm:"column:slug;not null" json:"slug"`
	Title                 string         `gorm:"column:title;not null" json:"title"`
	LearningObjective     *string        `gorm:"column:learning_objective" json:"learning_objective,omitempty"`
	HeroImageURL          *string        `gorm:"column:hero_image_url" json:"hero_image_url,omitempty"`
	EstimatedMinutes      int            `gorm:"column:estimated_minutes;not null;default:0" json:"estimated_minutes"`
	Difficulty            string         `gorm:"column:difficulty;not null;default:'beginner'" json:"difficulty"`
	PrerequisiteLessonIDs datatypes.JSON `gorm:"type:jsonb;column:prerequisite_lesson_ids" json:"prerequisite_lesson_ids,omitempty"`
	Position              int            `gorm:"column:position;not null;default:0" json:"position"`
	IsPublished           bool           `gorm:"column:is_published;not null;default:false;index" json:"is_published"`
	CreatedAt             time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "academy_lesson" }

type LessonBlock struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson      *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	BlockType   string         `gorm:"column:block_type;not null" json:"block_type"`
	Position    int            `gorm:"column:position;not null;default:0" json:"position"`
	Title       *string        `gorm:"column:title" json:"title,omitempty"`
	ContentJSON datatypes.JSON `gorm:"type:jsonb;column:content_json" json:"content_json,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LessonBlock) TableName() string { return "academy_lesson_block" }

// LessonCompetency links lessons to the competencies they train. The
// recommendation composer uses it to surface lessons for weak competencies.
type LessonCompetency struct {
	LessonID     uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_competency,unique,priority:1" json:"lesson_id"`
	CompetencyID uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_competency,unique,priority:2" json:"competency_id"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (LessonCompetency) TableName() string { return "academy_lesson_competency" }
