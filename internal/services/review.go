package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/titm/academy-engine/internal/logger"
	pkgerrors "github.com/titm/academy-engine/internal/pkg/errors"
	"github.com/titm/academy-engine/internal/repos"
	"github.com/titm/academy-engine/internal/scoring"
	"github.com/titm/academy-engine/internal/types"
)

const (
	minIntervalDays = 1
	maxIntervalDays = 30
	minDueLimit     = 1
	maxDueLimit     = 50

	priorityWeightFloor   = 0.5
	priorityWeightDecay   = 0.9
	priorityWeightPenalty = 0.5

	// Rubric credit is fuzzy by design; 70% keyword coverage counts as
	// retained. All other types use the engine's own correctness flag.
	rubricCorrectThreshold = 0.7
)

type DueReviewItem struct {
	QueueID        uuid.UUID       `json:"queue_id"`
	CompetencyID   uuid.UUID       `json:"competency_id"`
	Prompt         json.RawMessage `json:"prompt,omitempty"`
	DueAt          time.Time       `json:"due_at"`
	IntervalDays   int             `json:"interval_days"`
	PriorityWeight float64         `json:"priority_weight"`
}

type DueQueue struct {
	DueCount int             `json:"due_count"`
	Items    []DueReviewItem `json:"items"`
}

type SubmitReviewInput struct {
	Answer           any  `json:"answer"`
	ConfidenceRating *int `json:"confidence_rating,omitempty"`
	LatencyMs        *int `json:"latency_ms,omitempty"`
}

type SubmitReviewResult struct {
	QueueID      uuid.UUID `json:"queue_id"`
	IsCorrect    bool      `json:"is_correct"`
	NextDueAt    time.Time `json:"next_due_at"`
	IntervalDays int       `json:"interval_days"`
}

type ReviewService interface {
	GetDueQueue(ctx context.Context, userID uuid.UUID, limit int) (*DueQueue, error)
	SubmitReview(ctx context.Context, userID, queueID uuid.UUID, input SubmitReviewInput) (*SubmitReviewResult, error)
}

type reviewService struct {
	log     *logger.Logger
	reviews repos.ReviewRepo
	emitter EventEmitter
}

func NewReviewService(baseLog *logger.Logger, reviews repos.ReviewRepo, emitter EventEmitter) ReviewService {
	return &reviewService{
		log:     baseLog.With("service", "ReviewService"),
		reviews: reviews,
		emitter: emitter,
	}
}

func (s *reviewService) GetDueQueue(ctx context.Context, userID uuid.UUID, limit int) (*DueQueue, error) {
	if limit < minDueLimit {
		limit = minDueLimit
	}
	if limit > maxDueLimit {
		limit = maxDueLimit
	}

	rows, err := s.reviews.ListDueForUser(ctx, nil, userID, time.Now().UTC(), limit)
	if err != nil {
		return nil, err
	}

	items := make([]DueReviewItem, 0, len(rows))
	for _, row := range rows {
		prompt := row.DecodePrompt()
		items = append(items, DueReviewItem{
			QueueID:        row.QueueID,
			CompetencyID:   row.CompetencyID,
			Prompt:         prompt.Prompt,
			DueAt:          row.DueAt,
			IntervalDays:   clampInterval(row.IntervalDays),
			PriorityWeight: math.Max(priorityWeightFloor, row.PriorityWeight),
		})
	}
	return &DueQueue{DueCount: len(items), Items: items}, nil
}

func (s *reviewService) SubmitReview(ctx context.Context, userID, queueID uuid.UUID, input SubmitReviewInput) (*SubmitReviewResult, error) {
	item, err := s.reviews.GetForUser(ctx, nil, queueID, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.ErrReviewQueueItemNotFound
	}

	// Score from the queue item's own prompt copy; the seeding assessment
	// item may have changed or been deleted since.
	prompt := item.DecodePrompt()
	key := types.ParseAnswerKey(prompt.ItemType, prompt.AnswerKey)
	result := scoring.Score(key, input.Answer)

	isCorrect := result.IsCorrect
	if prompt.ItemType == types.ItemTypeShortAnswerRubric {
		isCorrect = result.Score >= rubricCorrectThreshold
	}

	previousInterval := clampInterval(item.IntervalDays)
	previousWeight := math.Max(priorityWeightFloor, item.PriorityWeight)

	var nextInterval int
	var nextWeight float64
	if isCorrect {
		nextInterval = clampInterval(previousInterval * 2)
		nextWeight = math.Max(priorityWeightFloor, previousWeight*priorityWeightDecay)
	} else {
		nextInterval = minIntervalDays
		nextWeight = previousWeight + priorityWeightPenalty
	}

	now := time.Now().UTC()
	nextDueAt := now.Add(time.Duration(nextInterval) * 24 * time.Hour)

	if err := s.reviews.InsertAttempt(ctx, nil, &types.ReviewAttempt{
		ID:               uuid.New(),
		QueueID:          item.QueueID,
		UserID:           userID,
		Answer:           marshalJSON(input.Answer),
		IsCorrect:        isCorrect,
		ConfidenceRating: input.ConfidenceRating,
		LatencyMs:        input.LatencyMs,
		CreatedAt:        now,
	}); err != nil {
		return nil, err
	}

	// Remediation is continuous: the item stays Due on its new schedule
	// rather than ever resolving.
	item.DueAt = nextDueAt
	item.IntervalDays = nextInterval
	item.PriorityWeight = nextWeight
	item.Status = types.ReviewStatusDue
	item.UpdatedAt = now
	if err := s.reviews.UpdateQueueItem(ctx, nil, item); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, &types.LearningEvent{
		UserID:    userID,
		EventType: types.EventReviewCompleted,
		Payload: eventPayload(map[string]any{
			"queue_id":      item.QueueID.String(),
			"is_correct":    isCorrect,
			"interval_days": nextInterval,
		}),
	})

	return &SubmitReviewResult{
		QueueID:      item.QueueID,
		IsCorrect:    isCorrect,
		NextDueAt:    nextDueAt,
		IntervalDays: nextInterval,
	}, nil
}

func clampInterval(days int) int {
	if days < minIntervalDays {
		return minIntervalDays
	}
	if days > maxIntervalDays {
		return maxIntervalDays
	}
	return days
}
