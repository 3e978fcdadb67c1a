package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/titm/academy-engine/internal/logger"
	pkgerrors "github.com/titm/academy-engine/internal/pkg/errors"
	"github.com/titm/academy-engine/internal/repos"
	"github.com/titm/academy-engine/internal/scoring"
	"github.com/titm/academy-engine/internal/types"
)

// Review items seeded from a failed competency start due immediately, on a
// daily interval, weighted above organically-added items.
const (
	seedIntervalDays   = 1
	seedPriorityWeight = 1.5
)

type SubmitAssessmentResult struct {
	AttemptID                uuid.UUID   `json:"attempt_id"`
	Score                    float64     `json:"score"`
	Passed                   bool        `json:"passed"`
	RemediationCompetencyIDs []uuid.UUID `json:"remediation_competency_ids"`
}

type AssessmentService interface {
	SubmitAssessment(ctx context.Context, userID, assessmentID uuid.UUID, answers map[string]any) (*SubmitAssessmentResult, error)
}

type assessmentService struct {
	log         *logger.Logger
	assessments repos.AssessmentRepo
	reviews     repos.ReviewRepo
	mastery     MasteryService
	emitter     EventEmitter
}

func NewAssessmentService(
	baseLog *logger.Logger,
	assessments repos.AssessmentRepo,
	reviews repos.ReviewRepo,
	mastery MasteryService,
	emitter EventEmitter,
) AssessmentService {
	return &assessmentService{
		log:         baseLog.With("service", "AssessmentService"),
		assessments: assessments,
		reviews:     reviews,
		mastery:     mastery,
		emitter:     emitter,
	}
}

type itemFeedback struct {
	Score     float64 `json:"score"`
	IsCorrect bool    `json:"is_correct"`
}

func (s *assessmentService) SubmitAssessment(ctx context.Context, userID, assessmentID uuid.UUID, answers map[string]any) (*SubmitAssessmentResult, error) {
	assessment, err := s.assessments.GetPublishedByID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, pkgerrors.ErrAssessmentNotFound
	}

	items, err := s.assessments.ListItems(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}

	// Grade every item. Missing answers score 0; grading never fails.
	feedback := make(map[string]itemFeedback, len(items))
	itemScores := make(map[uuid.UUID]float64, len(items))
	var total float64
	for _, item := range items {
		key := types.ParseAnswerKey(item.ItemType, item.AnswerKey)
		result := scoring.Score(key, answers[item.ID.String()])
		feedback[item.ID.String()] = itemFeedback{Score: result.Score, IsCorrect: result.IsCorrect}
		itemScores[item.ID] = result.Score
		total += result.Score
	}

	var overall float64
	if len(items) > 0 {
		overall = total / float64(len(items))
	}

	// Per-competency means; filler items without a competency are excluded.
	competencySums := map[uuid.UUID]float64{}
	competencyCounts := map[uuid.UUID]int{}
	for _, item := range items {
		if item.CompetencyID == nil {
			continue
		}
		competencySums[*item.CompetencyID] += itemScores[item.ID]
		competencyCounts[*item.CompetencyID]++
	}
	competencyScores := make(map[uuid.UUID]float64, len(competencySums))
	for id, sum := range competencySums {
		competencyScores[id] = sum / float64(competencyCounts[id])
	}

	remediationIDs := make([]uuid.UUID, 0)
	for id, score := range competencyScores {
		if score < assessment.MasteryThreshold {
			remediationIDs = append(remediationIDs, id)
		}
	}
	sort.Slice(remediationIDs, func(i, j int) bool {
		return remediationIDs[i].String() < remediationIDs[j].String()
	})

	// Both conditions are required: a strong overall average on easy
	// competencies cannot mask one weak spot.
	passed := overall >= assessment.MasteryThreshold && len(remediationIDs) == 0

	status := types.AttemptStatusFailed
	if passed {
		status = types.AttemptStatusPassed
	}
	attempt := &types.AssessmentAttempt{
		ID:               uuid.New(),
		UserID:           userID,
		AssessmentID:     assessmentID,
		Status:           status,
		Score:            overall,
		CompetencyScores: marshalJSON(competencyScoreStrings(competencyScores)),
		Answers:          marshalJSON(answers),
		Feedback:         marshalJSON(feedback),
	}
	if err := s.assessments.InsertAttempt(ctx, nil, attempt); err != nil {
		return nil, err
	}

	remediationSet := make(map[uuid.UUID]bool, len(remediationIDs))
	for _, id := range remediationIDs {
		remediationSet[id] = true
	}
	for id, score := range competencyScores {
		if _, err := s.mastery.UpdateMastery(ctx, userID, id, score, remediationSet[id]); err != nil {
			return nil, err
		}
	}

	if len(remediationSet) > 0 {
		if err := s.seedReviewQueue(ctx, userID, items, remediationSet); err != nil {
			return nil, err
		}
	}

	s.emitEvents(ctx, userID, assessment, overall, passed, remediationIDs)

	return &SubmitAssessmentResult{
		AttemptID:                attempt.ID,
		Score:                    overall,
		Passed:                   passed,
		RemediationCompetencyIDs: remediationIDs,
	}, nil
}

// seedReviewQueue enqueues a due-now review item for every assessment item
// whose competency fell below threshold, carrying a self-contained copy of
// the prompt and key so review scoring survives edits to the original item.
func (s *assessmentService) seedReviewQueue(ctx context.Context, userID uuid.UUID, items []*types.AssessmentItem, remediationSet map[uuid.UUID]bool) error {
	now := time.Now().UTC()
	rows := make([]*types.ReviewQueueItem, 0)
	for _, item := range items {
		if item.CompetencyID == nil || !remediationSet[*item.CompetencyID] {
			continue
		}
		prompt := types.ReviewPrompt{
			ItemType:  item.ItemType,
			Prompt:    json.RawMessage(item.Prompt),
			AnswerKey: json.RawMessage(item.AnswerKey),
		}
		sourceID := item.ID
		rows = append(rows, &types.ReviewQueueItem{
			QueueID:        uuid.New(),
			UserID:         userID,
			CompetencyID:   *item.CompetencyID,
			SourceItemID:   &sourceID,
			PromptJSON:     marshalJSON(prompt),
			DueAt:          now,
			IntervalDays:   seedIntervalDays,
			PriorityWeight: seedPriorityWeight,
			Status:         types.ReviewStatusDue,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return s.reviews.InsertQueueItems(ctx, nil, rows)
}

func (s *assessmentService) emitEvents(ctx context.Context, userID uuid.UUID, assessment *types.Assessment, score float64, passed bool, remediationIDs []uuid.UUID) {
	assessmentID := assessment.ID
	s.emitter.Emit(ctx, &types.LearningEvent{
		UserID:       userID,
		EventType:    types.EventAssessmentSubmitted,
		AssessmentID: &assessmentID,
		ModuleID:     &assessment.ModuleID,
		Payload:      eventPayload(map[string]any{"score": score}),
	})

	outcome := types.EventAssessmentFailed
	if passed {
		outcome = types.EventAssessmentPassed
	}
	s.emitter.Emit(ctx, &types.LearningEvent{
		UserID:       userID,
		EventType:    outcome,
		AssessmentID: &assessmentID,
		ModuleID:     &assessment.ModuleID,
		Payload:      eventPayload(map[string]any{"score": score}),
	})

	if len(remediationIDs) > 0 {
		ids := make([]string, 0, len(remediationIDs))
		for _, id := range remediationIDs {
			ids = append(ids, id.String())
		}
		s.emitter.Emit(ctx, &types.LearningEvent{
			UserID:       userID,
			EventType:    types.EventRemediationAssigned,
			AssessmentID: &assessmentID,
			ModuleID:     &assessment.ModuleID,
			Payload:      eventPayload(map[string]any{"competency_ids": ids}),
		})
	}
}

func competencyScoreStrings(scores map[uuid.UUID]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for id, score := range scores {
		out[id.String()] = score
	}
	return out
}

func marshalJSON(v any) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}
