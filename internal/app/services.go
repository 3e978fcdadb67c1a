package app

import (
	"github.com/titm/academy-engine/internal/clients/redis"
	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/services"
)

type Services struct {
	Events         services.EventEmitter
	Mastery        services.MasteryService
	Assessment     services.AssessmentService
	Review         services.ReviewService
	Progression    services.ProgressionService
	Recommendation services.RecommendationService
	Plan           services.PlanService
}

func wireServices(log *logger.Logger, r Repos, bus redis.EventBus) Services {
	log.Info("Wiring services...")
	events := services.NewEventEmitter(log, r.LearningEvent, bus)
	mastery := services.NewMasteryService(log, r.Mastery)
	review := services.NewReviewService(log, r.Review, events)
	return Services{
		Events:         events,
		Mastery:        mastery,
		Assessment:     services.NewAssessmentService(log, r.Assessment, r.Review, mastery, events),
		Review:         review,
		Progression:    services.NewProgressionService(log, r.Catalog, r.Lesson, r.LessonAttempt, events),
		Recommendation: services.NewRecommendationService(log, review, mastery, r.Lesson),
		Plan:           services.NewPlanService(log, r.Catalog, r.Lesson),
	}
}
