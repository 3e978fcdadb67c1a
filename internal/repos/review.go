package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/types"
)

type ReviewRepo interface {
	ListDueForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time, limit int) ([]*types.ReviewQueueItem, error)
	GetForUser(ctx context.Context, tx *gorm.DB, queueID, userID uuid.UUID) (*types.ReviewQueueItem, error)
	InsertQueueItems(ctx context.Context, tx *gorm.DB, rows []*types.ReviewQueueItem) error
	UpdateQueueItem(ctx context.Context, tx *gorm.DB, row *types.ReviewQueueItem) error
	InsertAttempt(ctx context.Context, tx *gorm.DB, attempt *types.ReviewAttempt) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (r *reviewRepo) ListDueForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time, limit int) ([]*types.ReviewQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ReviewQueueItem
	if userID == uuid.Nil || limit <= 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND status = ? AND due_at <= ?", userID, types.ReviewStatusDue, now).
		Order("priority_weight DESC, due_at ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reviewRepo) GetForUser(ctx context.Context, tx *gorm.DB, queueID, userID uuid.UUID) (*types.ReviewQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if queueID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}

	var row types.ReviewQueueItem
	err := transaction.WithContext(ctx).
		Where("queue_id = ? AND user_id = ?", queueID, userID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.QueueID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *reviewRepo) InsertQueueItems(ctx context.Context, tx *gorm.DB, rows []*types.ReviewQueueItem) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Create(&rows).Error
}

// UpdateQueueItem advances the schedule columns in place; queue items are
// never replaced.
func (r *reviewRepo) UpdateQueueItem(ctx context.Context, tx *gorm.DB, row *types.ReviewQueueItem) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil || row.QueueID == uuid.Nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.ReviewQueueItem{}).
		Where("queue_id = ?", row.QueueID).
		Updates(map[string]interface{}{
			"due_at":          row.DueAt,
			"interval_days":   row.IntervalDays,
			"priority_weight": row.PriorityWeight,
			"status":          row.Status,
			"updated_at":      row.UpdatedAt,
		}).Error
}

func (r *reviewRepo) InsertAttempt(ctx context.Context, tx *gorm.DB, attempt *types.ReviewAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if attempt == nil {
		return nil
	}

	return transaction.WithContext(ctx).Create(attempt).Error
}
