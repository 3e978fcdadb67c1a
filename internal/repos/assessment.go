package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/types"
)

type AssessmentRepo interface {
	GetPublishedByID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error)
	ListItems(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.AssessmentItem, error)
	InsertAttempt(ctx context.Context, tx *gorm.DB, attempt *types.AssessmentAttempt) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) GetPublishedByID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if assessmentID == uuid.Nil {
		return nil, nil
	}

	var row types.Assessment
	err := transaction.WithContext(ctx).
		Where("id = ? AND is_published = ?", assessmentID, true).
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

func (r *assessmentRepo) ListItems(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.AssessmentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AssessmentItem
	if assessmentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentRepo) InsertAttempt(ctx context.Context, tx *gorm.DB, attempt *types.AssessmentAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if attempt == nil {
		return nil
	}

	return transaction.WithContext(ctx).Create(attempt).Error
}
