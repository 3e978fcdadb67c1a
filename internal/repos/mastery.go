package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/types"
)

type MasteryRepo interface {
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MasteryRecord, error)
	Get(ctx context.Context, tx *gorm.DB, userID, competencyID uuid.UUID) (*types.MasteryRecord, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.MasteryRecord) error
}

type masteryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMasteryRepo(db *gorm.DB, baseLog *logger.Logger) MasteryRepo {
	return &masteryRepo{db: db, log: baseLog.With("repo", "MasteryRepo")}
}

func (r *masteryRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MasteryRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MasteryRecord
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Competency").
		Where("user_id = ?", userID).
		Order("current_score ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *masteryRepo) Get(ctx context.Context, tx *gorm.DB, userID, competencyID uuid.UUID) (*types.MasteryRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || competencyID == uuid.Nil {
		return nil, nil
	}

	var row types.MasteryRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND competency_id = ?", userID, competencyID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// Upsert is last-write-wins per (user_id, competency_id); the persistence
// layer's conflict handling is the only serialization in this design.
func (r *masteryRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.MasteryRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "competency_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_score", "confidence", "needs_remediation", "last_evaluated_at", "updated_at",
			}),
		}).
		Create(row).Error
}
