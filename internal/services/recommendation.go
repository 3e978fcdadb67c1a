package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/repos"
)

const (
	// Weak-competency cutoff for lesson suggestions, on the 0-100 scale.
	weakScoreCutoff = 70.0

	maxDueReviewsConsidered = 5
	maxWeakCompetencies     = 3
	maxLessonSuggestions    = 3

	reviewActionTarget = "/members/academy/review"
	lessonActionPrefix = "/members/academy/lessons/"
)

const (
	RecommendationTypeReview = "review"
	RecommendationTypeLesson = "lesson"
)

type RecommendationItem struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Reason       string `json:"reason"`
	ActionLabel  string `json:"action_label"`
	ActionTarget string `json:"action_target"`
}

// RecommendationService is a pure read-side aggregation over the review
// queue and mastery state. It never writes, and a failed sub-fetch degrades
// to a partial or empty list instead of failing the caller.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID) ([]RecommendationItem, error)
}

type recommendationService struct {
	log     *logger.Logger
	reviews ReviewService
	mastery MasteryService
	lessons repos.LessonRepo
}

func NewRecommendationService(
	baseLog *logger.Logger,
	reviews ReviewService,
	mastery MasteryService,
	lessons repos.LessonRepo,
) RecommendationService {
	return &recommendationService{
		log:     baseLog.With("service", "RecommendationService"),
		reviews: reviews,
		mastery: mastery,
		lessons: lessons,
	}
}

func (s *recommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID) ([]RecommendationItem, error) {
	items := make([]RecommendationItem, 0, 1+maxLessonSuggestions)

	due, err := s.reviews.GetDueQueue(ctx, userID, maxDueReviewsConsidered)
	if err != nil {
		s.log.Warn("due review fetch failed, degrading", "error", err)
		due = &DueQueue{}
	}
	if due.DueCount > 0 {
		noun := "items are"
		if due.DueCount == 1 {
			noun = "item is"
		}
		items = append(items, RecommendationItem{
			Type:         RecommendationTypeReview,
			Title:        "Clear your review queue",
			Reason:       fmt.Sprintf("%d review %s due now.", due.DueCount, noun),
			ActionLabel:  "Start review",
			ActionTarget: reviewActionTarget,
		})
	}

	weak := s.weakCompetencies(ctx, userID)
	if len(weak) == 0 {
		return items, nil
	}

	weakIDs := make([]uuid.UUID, 0, len(weak))
	for _, item := range weak {
		weakIDs = append(weakIDs, item.CompetencyID)
	}
	lessons, err := s.lessons.ListRecommendedForCompetencies(ctx, nil, weakIDs, maxLessonSuggestions)
	if err != nil {
		s.log.Warn("lesson recommendation fetch failed, degrading", "error", err)
		return items, nil
	}

	reason := weakReason(weak)
	for _, lesson := range lessons {
		items = append(items, RecommendationItem{
			Type:         RecommendationTypeLesson,
			Title:        lesson.Title,
			Reason:       reason,
			ActionLabel:  "Open lesson",
			ActionTarget: lessonActionPrefix + lesson.ID.String(),
		})
	}
	return items, nil
}

// weakCompetencies returns up to 3 mastery items flagged for remediation or
// scoring under the cutoff, weakest first.
func (s *recommendationService) weakCompetencies(ctx context.Context, userID uuid.UUID) []MasteryItem {
	records, err := s.mastery.GetMastery(ctx, userID)
	if err != nil {
		s.log.Warn("mastery fetch failed, degrading", "error", err)
		return nil
	}

	weak := make([]MasteryItem, 0, len(records))
	for _, record := range records {
		if record.NeedsRemediation || record.CurrentScore < weakScoreCutoff {
			weak = append(weak, record)
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		return weak[i].CurrentScore < weak[j].CurrentScore
	})
	if len(weak) > maxWeakCompetencies {
		weak = weak[:maxWeakCompetencies]
	}
	return weak
}

func weakReason(weak []MasteryItem) string {
	titles := make([]string, 0, len(weak))
	for _, item := range weak {
		if item.CompetencyTitle != "" {
			titles = append(titles, item.CompetencyTitle)
		}
	}
	if len(titles) == 0 {
		return "Targets a competency flagged for review."
	}
	return fmt.Sprintf("Targets %s improvement.", strings.Join(titles, ", "))
}
