package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/types"
)

// LearningEventRepo appends to the audit trail. Callers go through the
// best-effort emitter in services; nothing in the engine reads events back.
type LearningEventRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, event *types.LearningEvent) error
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.LearningEvent, error)
}

type learningEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningEventRepo(db *gorm.DB, baseLog *logger.Logger) LearningEventRepo {
	return &learningEventRepo{db: db, log: baseLog.With("repo", "LearningEventRepo")}
}

func (r *learningEventRepo) Insert(ctx context.Context, tx *gorm.DB, event *types.LearningEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if event == nil {
		return nil
	}

	return transaction.WithContext(ctx).Create(event).Error
}

func (r *learningEventRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.LearningEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LearningEvent
	if userID == uuid.Nil {
		return results, nil
	}

	query := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
