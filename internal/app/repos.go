package app

import (
	"gorm.io/gorm"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/repos"
)

type Repos struct {
	Catalog       repos.CatalogRepo
	Lesson        repos.LessonRepo
	Assessment    repos.AssessmentRepo
	Mastery       repos.MasteryRepo
	Review        repos.ReviewRepo
	LessonAttempt repos.LessonAttemptRepo
	LearningEvent repos.LearningEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Catalog:       repos.NewCatalogRepo(db, log),
		Lesson:        repos.NewLessonRepo(db, log),
		Assessment:    repos.NewAssessmentRepo(db, log),
		Mastery:       repos.NewMasteryRepo(db, log),
		Review:        repos.NewReviewRepo(db, log),
		LessonAttempt: repos.NewLessonAttemptRepo(db, log),
		LearningEvent: repos.NewLearningEventRepo(db, log),
	}
}
