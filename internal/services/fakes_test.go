package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/titm/academy-engine/internal/types"
)

// In-memory doubles for the repository boundary. Services receive only
// these interfaces, so tests never touch a database.

type fakeAssessmentRepo struct {
	assessment *types.Assessment
	items      []*types.AssessmentItem
	attempts   []*types.AssessmentAttempt
	insertErr  error
}

func (f *fakeAssessmentRepo) GetPublishedByID(_ context.Context, _ *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	if f.assessment != nil && f.assessment.ID == assessmentID && f.assessment.IsPublished {
		return f.assessment, nil
	}
	return nil, nil
}

func (f *fakeAssessmentRepo) ListItems(_ context.Context, _ *gorm.DB, assessmentID uuid.UUID) ([]*types.AssessmentItem, error) {
	var out []*types.AssessmentItem
	for _, item := range f.items {
		if item.AssessmentID == assessmentID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) InsertAttempt(_ context.Context, _ *gorm.DB, attempt *types.AssessmentAttempt) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.attempts = append(f.attempts, attempt)
	return nil
}

type fakeMasteryRepo struct {
	records map[string]*types.MasteryRecord
}

func newFakeMasteryRepo() *fakeMasteryRepo {
	return &fakeMasteryRepo{records: map[string]*types.MasteryRecord{}}
}

func masteryKey(userID, competencyID uuid.UUID) string {
	return userID.String() + "|" + competencyID.String()
}

func (f *fakeMasteryRepo) ListForUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.MasteryRecord, error) {
	var out []*types.MasteryRecord
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentScore < out[j].CurrentScore })
	return out, nil
}

func (f *fakeMasteryRepo) Get(_ context.Context, _ *gorm.DB, userID, competencyID uuid.UUID) (*types.MasteryRecord, error) {
	if record, ok := f.records[masteryKey(userID, competencyID)]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeMasteryRepo) Upsert(_ context.Context, _ *gorm.DB, row *types.MasteryRecord) error {
	copied := *row
	f.records[masteryKey(row.UserID, row.CompetencyID)] = &copied
	return nil
}

type fakeReviewRepo struct {
	items    map[uuid.UUID]*types.ReviewQueueItem
	attempts []*types.ReviewAttempt
	listErr  error
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{items: map[uuid.UUID]*types.ReviewQueueItem{}}
}

func (f *fakeReviewRepo) ListDueForUser(_ context.Context, _ *gorm.DB, userID uuid.UUID, now time.Time, limit int) ([]*types.ReviewQueueItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*types.ReviewQueueItem
	for _, item := range f.items {
		if item.UserID == userID && item.Status == types.ReviewStatusDue && !item.DueAt.After(now) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriorityWeight > out[j].PriorityWeight })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReviewRepo) GetForUser(_ context.Context, _ *gorm.DB, queueID, userID uuid.UUID) (*types.ReviewQueueItem, error) {
	if item, ok := f.items[queueID]; ok && item.UserID == userID {
		copied := *item
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeReviewRepo) InsertQueueItems(_ context.Context, _ *gorm.DB, rows []*types.ReviewQueueItem) error {
	for _, row := range rows {
		copied := *row
		f.items[row.QueueID] = &copied
	}
	return nil
}

func (f *fakeReviewRepo) UpdateQueueItem(_ context.Context, _ *gorm.DB, row *types.ReviewQueueItem) error {
	if existing, ok := f.items[row.QueueID]; ok {
		existing.DueAt = row.DueAt
		existing.IntervalDays = row.IntervalDays
		existing.PriorityWeight = row.PriorityWeight
		existing.Status = row.Status
		existing.UpdatedAt = row.UpdatedAt
	}
	return nil
}

func (f *fakeReviewRepo) InsertAttempt(_ context.Context, _ *gorm.DB, attempt *types.ReviewAttempt) error {
	f.attempts = append(f.attempts, attempt)
	return nil
}

type fakeCatalogRepo struct {
	programs []*types.Program
	tracks   []*types.Track
	modules  []*types.Module
}

func (f *fakeCatalogRepo) GetActiveProgramByCode(_ context.Context, _ *gorm.DB, code string) (*types.Program, error) {
	for _, program := range f.programs {
		if program.Code == code && program.IsActive {
			return program, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetFirstActiveProgram(_ context.Context, _ *gorm.DB) (*types.Program, error) {
	for _, program := range f.programs {
		if program.IsActive {
			return program, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) ListActiveTracksForProgram(_ context.Context, _ *gorm.DB, programID uuid.UUID) ([]*types.Track, error) {
	var out []*types.Track
	for _, track := range f.tracks {
		if track.ProgramID == programID && track.IsActive {
			out = append(out, track)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListPublishedModulesForTracks(_ context.Context, _ *gorm.DB, trackIDs []uuid.UUID) ([]*types.Module, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range trackIDs {
		wanted[id] = true
	}
	var out []*types.Module
	for _, module := range f.modules {
		if wanted[module.TrackID] && module.IsPublished {
			out = append(out, module)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetPublishedModuleBySlug(_ context.Context, _ *gorm.DB, slug string) (*types.Module, error) {
	for _, module := range f.modules {
		if module.Slug == slug && module.IsPublished {
			return module, nil
		}
	}
	return nil, nil
}

type fakeLessonRepo struct {
	lessons     []*types.Lesson
	blocks      map[uuid.UUID][]*types.LessonBlock
	recommended []*types.Lesson
	recErr      error
}

func (f *fakeLessonRepo) GetPublishedByID(_ context.Context, _ *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error) {
	for _, lesson := range f.lessons {
		if lesson.ID == lessonID && lesson.IsPublished {
			return lesson, nil
		}
	}
	return nil, nil
}

func (f *fakeLessonRepo) ListPublishedForModules(_ context.Context, _ *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range moduleIDs {
		wanted[id] = true
	}
	var out []*types.Lesson
	for _, lesson := range f.lessons {
		if wanted[lesson.ModuleID] && lesson.IsPublished {
			out = append(out, lesson)
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) ListBlocksForLesson(_ context.Context, _ *gorm.DB, lessonID uuid.UUID) ([]*types.LessonBlock, error) {
	return f.blocks[lessonID], nil
}

func (f *fakeLessonRepo) ListRecommendedForCompetencies(_ context.Context, _ *gorm.DB, competencyIDs []uuid.UUID, limit int) ([]*types.Lesson, error) {
	if f.recErr != nil {
		return nil, f.recErr
	}
	out := f.recommended
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeLessonAttemptRepo struct {
	rows map[string]*types.LessonAttempt
}

func newFakeLessonAttemptRepo() *fakeLessonAttemptRepo {
	return &fakeLessonAttemptRepo{rows: map[string]*types.LessonAttempt{}}
}

func attemptKey(userID, lessonID uuid.UUID) string {
	return userID.String() + "|" + lessonID.String()
}

func (f *fakeLessonAttemptRepo) Get(_ context.Context, _ *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonAttempt, error) {
	if row, ok := f.rows[attemptKey(userID, lessonID)]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeLessonAttemptRepo) ListForUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.LessonAttempt, error) {
	var out []*types.LessonAttempt
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeLessonAttemptRepo) ListForUserAndLessons(_ context.Context, _ *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonAttempt, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range lessonIDs {
		wanted[id] = true
	}
	var out []*types.LessonAttempt
	for _, row := range f.rows {
		if row.UserID == userID && wanted[row.LessonID] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeLessonAttemptRepo) Upsert(_ context.Context, _ *gorm.DB, row *types.LessonAttempt) error {
	copied := *row
	f.rows[attemptKey(row.UserID, row.LessonID)] = &copied
	return nil
}

type fakeLearningEventRepo struct {
	events    []*types.LearningEvent
	insertErr error
}

func (f *fakeLearningEventRepo) Insert(_ context.Context, _ *gorm.DB, event *types.LearningEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeLearningEventRepo) ListForUser(_ context.Context, _ *gorm.DB, userID uuid.UUID, limit int) ([]*types.LearningEvent, error) {
	var out []*types.LearningEvent
	for _, event := range f.events {
		if event.UserID == userID {
			out = append(out, event)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLearningEventRepo) eventTypes() []string {
	out := make([]string, 0, len(f.events))
	for _, event := range f.events {
		out = append(out, event.EventType)
	}
	return out
}
