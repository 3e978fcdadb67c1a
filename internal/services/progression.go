package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/titm/academy-engine/internal/logger"
	pkgerrors "github.com/titm/academy-engine/internal/pkg/errors"
	"github.com/titm/academy-engine/internal/repos"
	"github.com/titm/academy-engine/internal/types"
)

type StartLessonResult struct {
	LessonAttemptID uuid.UUID `json:"lesson_attempt_id"`
	Status          string    `json:"status"`
}

type CompleteBlockResult struct {
	ProgressPercent float64    `json:"progress_percent"`
	NextBlockID     *uuid.UUID `json:"next_block_id,omitempty"`
	Status          string     `json:"status"`
}

type LessonState struct {
	LessonID          uuid.UUID `json:"lesson_id"`
	Status            string    `json:"status"`
	ProgressPercent   float64   `json:"progress_percent"`
	CompletedBlockIDs []string  `json:"completed_block_ids"`
}

type ModuleProgress struct {
	ModuleID   uuid.UUID     `json:"module_id"`
	ModuleSlug string        `json:"module_slug"`
	Lessons    []LessonState `json:"lessons"`
}

type ModuleProgressSummary struct {
	ModuleID          uuid.UUID `json:"module_id"`
	ModuleSlug        string    `json:"module_slug"`
	ModuleTitle       string    `json:"module_title"`
	TotalLessons      int       `json:"total_lessons"`
	CompletedLessons  int       `json:"completed_lessons"`
	InProgressLessons int       `json:"in_progress_lessons"`
	ProgressPercent   float64   `json:"progress_percent"`
}

type ProgressSummary struct {
	TotalLessons      int                     `json:"total_lessons"`
	CompletedLessons  int                     `json:"completed_lessons"`
	InProgressLessons int                     `json:"in_progress_lessons"`
	ProgressPercent   float64                 `json:"progress_percent"`
	Modules           []ModuleProgressSummary `json:"modules"`
}

type ProgressionService interface {
	StartLesson(ctx context.Context, userID, lessonID uuid.UUID, source string) (*StartLessonResult, error)
	CompleteBlock(ctx context.Context, userID, lessonID, blockID uuid.UUID, payload map[string]any) (*CompleteBlockResult, error)
	GetLessonState(ctx context.Context, userID, lessonID uuid.UUID) (*LessonState, error)
	GetModuleProgress(ctx context.Context, userID uuid.UUID, moduleSlug string) (*ModuleProgress, error)
	GetProgressSummary(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error)
}

type progressionService struct {
	log      *logger.Logger
	catalog  repos.CatalogRepo
	lessons  repos.LessonRepo
	attempts repos.LessonAttemptRepo
	emitter  EventEmitter
}

func NewProgressionService(
	baseLog *logger.Logger,
	catalog repos.CatalogRepo,
	lessons repos.LessonRepo,
	attempts repos.LessonAttemptRepo,
	emitter EventEmitter,
) ProgressionService {
	return &progressionService{
		log:      baseLog.With("service", "ProgressionService"),
		catalog:  catalog,
		lessons:  lessons,
		attempts: attempts,
		emitter:  emitter,
	}
}

// StartLesson creates or resumes the learner's attempt. Previously completed
// blocks survive a restart.
func (s *progressionService) StartLesson(ctx context.Context, userID, lessonID uuid.UUID, source string) (*StartLessonResult, error) {
	lesson, err := s.lessons.GetPublishedByID(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, pkgerrors.ErrLessonNotFound
	}

	now := time.Now().UTC()
	attempt, err := s.attempts.Get(ctx, nil, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		attempt = &types.LessonAttempt{
			ID:       uuid.New(),
			UserID:   userID,
			LessonID: lessonID,
		}
		attempt.EncodeMetadata(types.LessonAttemptMetadata{CompletedBlockIDs: []string{}})
	}
	if attempt.Status != types.LessonStatusPassed {
		attempt.Status = types.LessonStatusInProgress
	}
	if source != "" {
		attempt.Source = source
	}
	attempt.UpdatedAt = now
	if err := s.attempts.Upsert(ctx, nil, attempt); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, &types.LearningEvent{
		UserID:    userID,
		EventType: types.EventLessonStarted,
		LessonID:  &lessonID,
		ModuleID:  &lesson.ModuleID,
		Payload:   eventPayload(map[string]any{"source": attempt.Source}),
	})

	return &StartLessonResult{LessonAttemptID: attempt.ID, Status: attempt.Status}, nil
}

// CompleteBlock adds the block to the completed set. Re-completing a block
// is a no-op on the set, but a supplied payload overwrites the stored one.
func (s *progressionService) CompleteBlock(ctx context.Context, userID, lessonID, blockID uuid.UUID, payload map[string]any) (*CompleteBlockResult, error) {
	lesson, err := s.lessons.GetPublishedByID(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, pkgerrors.ErrLessonNotFound
	}

	blocks, err := s.lessons.ListBlocksForLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	known := false
	for _, block := range blocks {
		if block.ID == blockID {
			known = true
			break
		}
	}
	if !known {
		return nil, pkgerrors.ErrBlockNotFound
	}

	now := time.Now().UTC()
	attempt, err := s.attempts.Get(ctx, nil, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		attempt = &types.LessonAttempt{
			ID:       uuid.New(),
			UserID:   userID,
			LessonID: lessonID,
			Status:   types.LessonStatusInProgress,
		}
	}

	meta := attempt.DecodeMetadata()
	completed := map[string]bool{}
	for _, id := range meta.CompletedBlockIDs {
		completed[id] = true
	}
	if !completed[blockID.String()] {
		completed[blockID.String()] = true
		meta.CompletedBlockIDs = append(meta.CompletedBlockIDs, blockID.String())
	}
	if payload != nil {
		if meta.BlockPayloads == nil {
			meta.BlockPayloads = map[string]map[string]any{}
		}
		meta.BlockPayloads[blockID.String()] = payload
	}

	// Progress is a pure function of completed blocks over the current
	// catalog; stale ids from removed blocks do not count.
	completedCount := 0
	var nextBlockID *uuid.UUID
	for _, block := range blocks {
		if completed[block.ID.String()] {
			completedCount++
		} else if nextBlockID == nil {
			id := block.ID
			nextBlockID = &id
		}
	}
	percent := clampRange(round2(100*float64(completedCount)/float64(len(blocks))), 0, 100)

	status := types.LessonStatusInProgress
	if percent == 100 {
		status = types.LessonStatusPassed
	}

	attempt.Status = status
	attempt.ProgressPercent = percent
	attempt.EncodeMetadata(meta)
	attempt.UpdatedAt = now
	if err := s.attempts.Upsert(ctx, nil, attempt); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, &types.LearningEvent{
		UserID:    userID,
		EventType: types.EventBlockCompleted,
		LessonID:  &lessonID,
		ModuleID:  &lesson.ModuleID,
		Payload: eventPayload(map[string]any{
			"block_id":         blockID.String(),
			"progress_percent": percent,
		}),
	})

	return &CompleteBlockResult{
		ProgressPercent: percent,
		NextBlockID:     nextBlockID,
		Status:          status,
	}, nil
}

func (s *progressionService) GetLessonState(ctx context.Context, userID, lessonID uuid.UUID) (*LessonState, error) {
	lesson, err := s.lessons.GetPublishedByID(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, pkgerrors.ErrLessonNotFound
	}

	attempt, err := s.attempts.Get(ctx, nil, userID, lessonID)
	if err != nil {
		return nil, err
	}
	state := lessonState(lessonID, attempt)
	return &state, nil
}

func (s *progressionService) GetModuleProgress(ctx context.Context, userID uuid.UUID, moduleSlug string) (*ModuleProgress, error) {
	module, err := s.catalog.GetPublishedModuleBySlug(ctx, nil, moduleSlug)
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
	lessonIDs := make([]uuid.UUID, 0, len(lessons))
	for _, lesson := range lessons {
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	attempts, err := s.attempts.ListForUserAndLessons(ctx, nil, userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[uuid.UUID]*types.LessonAttempt, len(attempts))
	for _, attempt := range attempts {
		byLesson[attempt.LessonID] = attempt
	}

	states := make([]LessonState, 0, len(lessons))
	for _, lesson := range lessons {
		states = append(states, lessonState(lesson.ID, byLesson[lesson.ID]))
	}
	return &ModuleProgress{ModuleID: module.ID, ModuleSlug: module.Slug, Lessons: states}, nil
}

func (s *progressionService) GetProgressSummary(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error) {
	program, err := s.catalog.GetFirstActiveProgram(ctx, nil)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, pkgerrors.ErrProgramPlanNotFound
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

	attempts, err := s.attempts.ListForUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[uuid.UUID]*types.LessonAttempt, len(attempts))
	for _, attempt := range attempts {
		byLesson[attempt.LessonID] = attempt
	}

	summary := &ProgressSummary{Modules: make([]ModuleProgressSummary, 0, len(modules))}
	perModule := make(map[uuid.UUID]*ModuleProgressSummary, len(modules))
	for _, module := range modules {
		perModule[module.ID] = &ModuleProgressSummary{
			ModuleID:    module.ID,
			ModuleSlug:  module.Slug,
			ModuleTitle: module.Title,
		}
	}

	for _, lesson := range lessons {
		moduleSummary, ok := perModule[lesson.ModuleID]
		if !ok {
			continue
		}
		moduleSummary.TotalLessons++
		summary.TotalLessons++
		if attempt := byLesson[lesson.ID]; attempt != nil {
			switch attempt.Status {
			case types.LessonStatusPassed:
				moduleSummary.CompletedLessons++
				summary.CompletedLessons++
			case types.LessonStatusInProgress:
				moduleSummary.InProgressLessons++
				summary.InProgressLessons++
			}
		}
	}

	for _, module := range modules {
		moduleSummary := perModule[module.ID]
		if moduleSummary.TotalLessons > 0 {
			moduleSummary.ProgressPercent = round2(100 * float64(moduleSummary.CompletedLessons) / float64(moduleSummary.TotalLessons))
		}
		summary.Modules = append(summary.Modules, *moduleSummary)
	}
	if summary.TotalLessons > 0 {
		summary.ProgressPercent = round2(100 * float64(summary.CompletedLessons) / float64(summary.TotalLessons))
	}
	return summary, nil
}

func lessonState(lessonID uuid.UUID, attempt *types.LessonAttempt) LessonState {
	state := LessonState{
		LessonID:          lessonID,
		Status:            types.LessonStatusNotStarted,
		CompletedBlockIDs: []string{},
	}
	if attempt == nil {
		return state
	}
	state.Status = attempt.Status
	state.ProgressPercent = clampRange(attempt.ProgressPercent, 0, 100)
	state.CompletedBlockIDs = attempt.DecodeMetadata().CompletedBlockIDs
	return state
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
