package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/types"
)

type LessonAttemptRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonAttempt, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LessonAttempt, error)
	ListForUserAndLessons(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonAttempt, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.LessonAttempt) error
}

type lessonAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonAttemptRepo(db *gorm.DB, baseLog *logger.Logger) LessonAttemptRepo {
	return &lessonAttemptRepo{db: db, log: baseLog.With("repo", "LessonAttemptRepo")}
}

func (r *lessonAttemptRepo) Get(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || lessonID == uuid.Nil {
		return nil, nil
	}

	var row types.LessonAttempt
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
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

func (r *lessonAttemptRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LessonAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LessonAttempt
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonAttemptRepo) ListForUserAndLessons(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LessonAttempt
	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert is last-write-wins per (user_id, lesson_id).
func (r *lessonAttemptRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.LessonAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "progress_percent", "source", "metadata", "updated_at",
			}),
		}).
		Create(row).Error
}
