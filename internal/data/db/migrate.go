package db

import (
	"gorm.io/gorm"

	"github.com/titm/academy-engine/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Catalog (read-only for the engine)
		// =========================
		&types.Program{},
		&types.Track{},
		&types.Module{},
		&types.Lesson{},
		&types.LessonBlock{},
		&types.LessonCompetency{},
		&types.Competency{},
		&types.Assessment{},
		&types.AssessmentItem{},

		// =========================
		// Learner state
		// =========================
		&types.AssessmentAttempt{},
		&types.MasteryRecord{},
		&types.ReviewQueueItem{},
		&types.ReviewAttempt{},
		&types.LessonAttempt{},

		// =========================
		// Audit trail
		// =========================
		&types.LearningEvent{},
	)
}
