package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/titm/academy-engine/internal/logger"
	pkgerrors "github.com/titm/academy-engine/internal/pkg/errors"
	"github.com/titm/academy-engine/internal/repos"
	"github.com/titm/academy-engine/internal/types"
)

type PlanModule struct {
	Module  *types.Module  `json:"module"`
	Lessons []*types.Lesson `json:"lessons"`
}

type PlanTrack struct {
	Track   *types.Track `json:"track"`
	Modules []PlanModule `json:"modules"`
}

type Plan struct {
	Program *types.Program `json:"program"`
	Tracks  []PlanTrack    `json:"tracks"`
}

type ModuleDetail struct {
	Module  *types.Module   `json:"module"`
	Lessons []*types.Lesson `json:"lessons"`
}

type PlanService interface {
	// GetPlan resolves the learner's program and assembles its published
	// hierarchy. Program resolution is a named two-step: exact active-code
	// match first, else the first active program.
	GetPlan(ctx context.Context, programCode string) (*Plan, error)
	GetModuleBySlug(ctx context.Context, slug string) (*ModuleDetail, error)
}

type planService struct {
	log     *logger.Logger
	catalog repos.CatalogRepo
	lessons repos.LessonRepo
}

func NewPlanService(baseLog *logger.Logger, catalog repos.CatalogRepo, lessons repos.LessonRepo) PlanService {
	return &planService{
		log:     baseLog.With("service", "PlanService"),
		catalog: catalog,
		lessons: lessons,
	}
}

// resolveProgram is the two-step default: a requested code that matches an
// active program wins; otherwise the first active program stands in.
func (s *planService) resolveProgram(ctx context.Context, programCode string) (*types.Program, error) {
	if programCode != "" {
		program, err := s.catalog.GetActiveProgramByCode(ctx, nil, programCode)
		if err != nil {
			return nil, err
		}
		if program != nil {
			return program, nil
		}
	}
	program, err := s.catalog.GetFirstActiveProgram(ctx, nil)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, pkgerrors.ErrProgramPlanNotFound
	}
	return program, nil
}

func (s *planService) GetPlan(ctx context.Context, programCode string) (*Plan, error) {
	program, err := s.resolveProgram(ctx, programCode)
	if err != nil {
		return nil, err
	}

	tracks, err := s.catalog.ListActiveTracksForProgram(ctx, nil, program.ID)
	if err != nil {
		return nil, err
	}
	trackIDs := make([]uuid.UUID, 0, len(tracks))
	for _, track := range tracks {
		trackIDs = append(trackIDs, track.ID)
	}

	modules, err := s.catalog.ListPublishedModulesForTracks(ctx, nil, trackIDs)
	if err != nil {
		return nil, err
	}
	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, module := range modules {
		moduleIDs = append(moduleIDs, module.ID)
	}

	lessons, err := s.lessons.ListPublishedForModules(ctx, nil, moduleIDs)
	if err != nil {
		return nil, err
	}
	lessonsByModule := map[uuid.UUID][]*types.Lesson{}
	for _, lesson := range lessons {
		lessonsByModule[lesson.ModuleID] = append(lessonsByModule[lesson.ModuleID], lesson)
	}

	modulesByTrack := map[uuid.UUID][]PlanModule{}
	for _, module := range modules {
		modulesByTrack[module.TrackID] = append(modulesByTrack[module.TrackID], PlanModule{
			Module:  module,
			Lessons: lessonsByModule[module.ID],
		})
	}

	plan := &Plan{Program: program, Tracks: make([]PlanTrack, 0, len(tracks))}
	for _, track := range tracks {
		plan.Tracks = append(plan.Tracks, PlanTrack{
			Track:   track,
			Modules: modulesByTrack[track.ID],
		})
	}
	return plan, nil
}

func (s *planService) GetModuleBySlug(ctx context.Context, slug string) (*ModuleDetail, error) {
	module, err := s.catalog.GetPublishedModuleBySlug(ctx, nil, slug)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, pkgerrors.ErrModuleNotFound
	}

	lessons, err := s.lessons.ListPublishedForModules(ctx, nil, []uuid.UUID{module.ID})
	if err != nil {
		return nil, err
	}
	return &ModuleDetail{Module: module, Lessons: lessons}, nil
}
