package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/types"
)

type LessonRepo interface {
	GetPublishedByID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error)
	ListPublishedForModules(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error)
	ListBlocksForLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonBlock, error)
	ListRecommendedForCompetencies(ctx context.Context, tx *gorm.DB, competencyIDs []uuid.UUID, limit int) ([]*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) GetPublishedByID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if lessonID == uuid.Nil {
		return nil, nil
	}

	var row types.Lesson
	err := transaction.WithContext(ctx).
		Where("id = ? AND is_published = ?", lessonID, true).
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

func (r *lessonRepo) ListPublishedForModules(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if len(moduleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("module_id IN ? AND is_published = ?", moduleIDs, true).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) ListBlocksForLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonBlock, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LessonBlock
	if lessonID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) ListRecommendedForCompetencies(ctx context.Context, tx *gorm.DB, competencyIDs []uuid.UUID, limit int) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if len(competencyIDs) == 0 || limit <= 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Joins("JOIN academy_lesson_competency lc ON lc.lesson_id = academy_lesson.id").
		Where("lc.competency_id IN ? AND academy_lesson.is_published = ?", competencyIDs, true).
		Order("academy_lesson.position ASC").
		Limit(limit).
		Distinct().
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
