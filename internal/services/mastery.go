package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/repos"
	"github.com/titm/academy-engine/internal/types"
)

// EWMA weights: history dominates so one strong or weak result does not whip
// the estimate around, but new evidence still moves it.
const (
	masteryHistoryWeight  = 0.7
	masteryEvidenceWeight = 0.3

	// One data point is informative but not conclusive.
	masteryBaselineConfidence = 0.5
	confidenceHistoryWeight   = 0.8
	confidenceEvidenceWeight  = 0.2
)

// MasteryItem is the boundary-normalized read shape, joined with the
// competency's key and title.
type MasteryItem struct {
	CompetencyID     uuid.UUID  `json:"competency_id"`
	CompetencyKey    string     `json:"competency_key"`
	CompetencyTitle  string     `json:"competency_title"`
	CurrentScore     float64    `json:"current_score"`
	Confidence       float64    `json:"confidence"`
	NeedsRemediation bool       `json:"needs_remediation"`
	LastEvaluatedAt  *time.Time `json:"last_evaluated_at,omitempty"`
}

type MasteryService interface {
	// UpdateMastery folds one 0-1 observation into the learner's long-run
	// state for the competency. needsRemediation comes from the assessment
	// orchestrator's determination; it is not recomputed here.
	UpdateMastery(ctx context.Context, userID, competencyID uuid.UUID, rawScore float64, needsRemediation bool) (*types.MasteryRecord, error)
	GetMastery(ctx context.Context, userID uuid.UUID) ([]MasteryItem, error)
}

type masteryService struct {
	log  *logger.Logger
	repo repos.MasteryRepo
}

func NewMasteryService(baseLog *logger.Logger, repo repos.MasteryRepo) MasteryService {
	return &masteryService{
		log:  baseLog.With("service", "MasteryService"),
		repo: repo,
	}
}

func (s *masteryService) UpdateMastery(ctx context.Context, userID, competencyID uuid.UUID, rawScore float64, needsRemediation bool) (*types.MasteryRecord, error) {
	percent := clampRange(rawScore, 0, 1) * 100
	now := time.Now().UTC()

	prev, err := s.repo.Get(ctx, nil, userID, competencyID)
	if err != nil {
		return nil, err
	}

	record := &types.MasteryRecord{
		ID:           uuid.New(),
		UserID:       userID,
		CompetencyID: competencyID,
	}
	if prev == nil {
		record.CurrentScore = percent
		record.Confidence = masteryBaselineConfidence
	} else {
		record.ID = prev.ID
		record.CurrentScore = masteryHistoryWeight*prev.CurrentScore + masteryEvidenceWeight*percent
		record.Confidence = math.Min(1.0, confidenceHistoryWeight*prev.Confidence+confidenceEvidenceWeight)
	}
	record.CurrentScore = clampRange(record.CurrentScore, 0, 100)
	record.NeedsRemediation = needsRemediation
	record.LastEvaluatedAt = &now
	record.UpdatedAt = now

	if err := s.repo.Upsert(ctx, nil, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *masteryService) GetMastery(ctx context.Context, userID uuid.UUID) ([]MasteryItem, error) {
	records, err := s.repo.ListForUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	items := make([]MasteryItem, 0, len(records))
	for _, record := range records {
		item := MasteryItem{
			CompetencyID:     record.CompetencyID,
			CurrentScore:     clampRange(record.CurrentScore, 0, 100),
			Confidence:       clampRange(record.Confidence, 0, 1),
			NeedsRemediation: record.NeedsRemediation,
			LastEvaluatedAt:  record.LastEvaluatedAt,
		}
		if record.Competency != nil {
			item.CompetencyKey = record.Competency.Key
			item.CompetencyTitle = record.Competency.Title
		}
		items = append(items, item)
	}
	return items, nil
}

func clampRange(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
