package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/types"
)

// CatalogRepo reads the published program/track/module hierarchy. The engine
// never writes catalog rows; authoring happens elsewhere.
type CatalogRepo interface {
	GetActiveProgramByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Program, error)
	GetFirstActiveProgram(ctx context.Context, tx *gorm.DB) (*types.Program, error)
	ListActiveTracksForProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.Track, error)
	ListPublishedModulesForTracks(ctx context.Context, tx *gorm.DB, trackIDs []uuid.UUID) ([]*types.Module, error)
	GetPublishedModuleBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Module, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) GetActiveProgramByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if code == "" {
		return nil, nil
	}

	var row types.Program
	err := transaction.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
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

func (r *catalogRepo) GetFirstActiveProgram(ctx context.Context, tx *gorm.DB) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Program
	err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
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

func (r *catalogRepo) ListActiveTracksForProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Track
	if programID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("program_id = ? AND is_active = ?", programID, true).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) ListPublishedModulesForTracks(ctx context.Context, tx *gorm.DB, trackIDs []uuid.UUID) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Module
	if len(trackIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("track_id IN ? AND is_published = ?", trackIDs, true).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) GetPublishedModuleBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if slug == "" {
		return nil, nil
	}

	var row types.Module
	err := transaction.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
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
