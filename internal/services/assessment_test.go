package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/titm/academy-engine/internal/logger"
	pkgerrors "github.com/titm/academy-engine/internal/pkg/errors"
	"github.com/titm/academy-engine/internal/types"
)

type assessmentFixture struct {
	svc        AssessmentService
	assessRepo *fakeAssessmentRepo
	reviewRepo *fakeReviewRepo
	mastery    *fakeMasteryRepo
	events     *fakeLearningEventRepo
}

func newAssessmentFixture(assessment *types.Assessment, items []*types.AssessmentItem) *assessmentFixture {
	log := logger.NewNop()
	f := &assessmentFixture{
		assessRepo: &fakeAssessmentRepo{assessment: assessment, items: items},
		reviewRepo: newFakeReviewRepo(),
		mastery:    newFakeMasteryRepo(),
		events:     &fakeLearningEventRepo{},
	}
	emitter := NewEventEmitter(log, f.events, nil)
	masterySvc := NewMasteryService(log, f.mastery)
	f.svc = NewAssessmentService(log, f.assessRepo, f.reviewRepo, masterySvc, emitter)
	return f
}

func singleSelectItem(assessmentID uuid.UUID, competencyID *uuid.UUID, correct string) *types.AssessmentItem {
	return &types.AssessmentItem{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		CompetencyID: competencyID,
		ItemType:     types.ItemTypeSingleSelect,
		AnswerKey:    datatypes.JSON(`{"correctOptionId":"` + correct + `"}`),
	}
}

func TestSubmitAssessmentAllCorrectPasses(t *testing.T) {
	assessmentID := uuid.New()
	competencyID := uuid.New()
	assessment := &types.Assessment{
		ID: assessmentID, ModuleID: uuid.New(),
		MasteryThreshold: 0.7, IsPublished: true,
	}
	items := []*types.AssessmentItem{
		singleSelectItem(assessmentID, &competencyID, "a"),
		singleSelectItem(assessmentID, &competencyID, "b"),
	}
	f := newAssessmentFixture(assessment, items)

	answers := map[string]any{
		items[0].ID.String(): "a",
		items[1].ID.String(): "B",
	}
	result, err := f.svc.SubmitAssessment(context.Background(), uuid.New(), assessmentID, answers)
	if err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}
	if !result.Passed {
		t.Fatalf("all correct did not pass: %+v", result)
	}
	if result.Score != 1 {
		t.Fatalf("Score = %v, want 1", result.Score)
	}
	if len(result.RemediationCompetencyIDs) != 0 {
		t.Fatalf("unexpected remediation: %v", result.RemediationCompetencyIDs)
	}

	if len(f.assessRepo.attempts) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(f.assessRepo.attempts))
	}
	if f.assessRepo.attempts[0].Status != types.AttemptStatusPassed {
		t.Fatalf("attempt status = %s", f.assessRepo.attempts[0].Status)
	}
	if len(f.reviewRepo.items) != 0 {
		t.Fatalf("seeded %d review items on a pass", len(f.reviewRepo.items))
	}

	want := []string{types.EventAssessmentSubmitted, types.EventAssessmentPassed}
	got := f.events.eventTypes()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestSubmitAssessmentWeakCompetencyFailsDespiteHighAverage(t *testing.T) {
	assessmentID := uuid.New()
	strongID, weakID := uuid.New(), uuid.New()
	assessment := &types.Assessment{
		ID: assessmentID, ModuleID: uuid.New(),
		MasteryThreshold: 0.7, IsPublished: true,
	}
	items := []*types.AssessmentItem{
		singleSelectItem(assessmentID, &strongID, "a"),
		singleSelectItem(assessmentID, &strongID, "b"),
		singleSelectItem(assessmentID, &strongID, "c"),
		singleSelectItem(assessmentID, &weakID, "d"),
	}
	f := newAssessmentFixture(assessment, items)

	answers := map[string]any{
		items[0].ID.String(): "a",
		items[1].ID.String(): "b",
		items[2].ID.String(): "c",
		items[3].ID.String(): "wrong",
	}
	userID := uuid.New()
	result, err := f.svc.SubmitAssessment(context.Background(), userID, assessmentID, answers)
	if err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}

	// Overall 0.75 clears the threshold, the weak competency still fails it.
	if result.Score != 0.75 {
		t.Fatalf("Score = %v, want 0.75", result.Score)
	}
	if result.Passed {
		t.Fatal("passed despite a failing competency")
	}
	if len(result.RemediationCompetencyIDs) != 1 || result.RemediationCompetencyIDs[0] != weakID {
		t.Fatalf("remediation = %v, want [%s]", result.RemediationCompetencyIDs, weakID)
	}

	got := f.events.eventTypes()
	want := []string{types.EventAssessmentSubmitted, types.EventAssessmentFailed, types.EventRemediationAssigned}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestSubmitAssessmentSeedsReviewQueue(t *testing.T) {
	assessmentID := uuid.New()
	weakID := uuid.New()
	assessment := &types.Assessment{
		ID: assessmentID, ModuleID: uuid.New(),
		MasteryThreshold: 0.7, IsPublished: true,
	}
	items := []*types.AssessmentItem{
		singleSelectItem(assessmentID, &weakID, "a"),
		singleSelectItem(assessmentID, &weakID, "b"),
	}
	f := newAssessmentFixture(assessment, items)

	userID := uuid.New()
	before := time.Now().UTC()
	_, err := f.svc.SubmitAssessment(context.Background(), userID, assessmentID, map[string]any{})
	if err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}

	if len(f.reviewRepo.items) != 2 {
		t.Fatalf("seeded %d review items, want 2", len(f.reviewRepo.items))
	}
	for _, item := range f.reviewRepo.items {
		if item.UserID != userID || item.CompetencyID != weakID {
			t.Fatalf("seeded item mis-attributed: %+v", item)
		}
		if item.IntervalDays != 1 {
			t.Fatalf("IntervalDays = %d, want 1", item.IntervalDays)
		}
		if item.PriorityWeight != 1.5 {
			t.Fatalf("PriorityWeight = %v, want 1.5", item.PriorityWeight)
		}
		if item.Status != types.ReviewStatusDue {
			t.Fatalf("Status = %s, want due", item.Status)
		}
		if item.DueAt.Before(before.Add(-time.Second)) || item.DueAt.After(time.Now().UTC().Add(time.Second)) {
			t.Fatalf("DueAt = %v, want now", item.DueAt)
		}
		prompt := item.DecodePrompt()
		if prompt.ItemType != types.ItemTypeSingleSelect || len(prompt.AnswerKey) == 0 {
			t.Fatalf("prompt copy incomplete: %+v", prompt)
		}
	}
}

func TestSubmitAssessmentUpdatesMasteryPerCompetency(t *testing.T) {
	assessmentID := uuid.New()
	strongID, weakID := uuid.New(), uuid.New()
	assessment := &types.Assessment{
		ID: assessmentID, ModuleID: uuid.New(),
		MasteryThreshold: 0.7, IsPublished: true,
	}
	items := []*types.AssessmentItem{
		singleSelectItem(assessmentID, &strongID, "a"),
		singleSelectItem(assessmentID, &weakID, "b"),
	}
	f := newAssessmentFixture(assessment, items)

	userID := uuid.New()
	answers := map[string]any{items[0].ID.String(): "a"}
	if _, err := f.svc.SubmitAssessment(context.Background(), userID, assessmentID, answers); err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}

	strong := f.mastery.records[masteryKey(userID, strongID)]
	if strong == nil || strong.CurrentScore != 100 || strong.NeedsRemediation {
		t.Fatalf("strong competency record wrong: %+v", strong)
	}
	weak := f.mastery.records[masteryKey(userID, weakID)]
	if weak == nil || weak.CurrentScore != 0 || !weak.NeedsRemediation {
		t.Fatalf("weak competency record wrong: %+v", weak)
	}
}

func TestSubmitAssessmentFillerItemsCountOverallOnly(t *testing.T) {
	assessmentID := uuid.New()
	competencyID := uuid.New()
	assessment := &types.Assessment{
		ID: assessmentID, ModuleID: uuid.New(),
		MasteryThreshold: 0.7, IsPublished: true,
	}
	items := []*types.AssessmentItem{
		singleSelectItem(assessmentID, &competencyID, "a"),
		singleSelectItem(assessmentID, nil, "b"),
	}
	f := newAssessmentFixture(assessment, items)

	userID := uuid.New()
	answers := map[string]any{items[0].ID.String(): "a"}
	result, err := f.svc.SubmitAssessment(context.Background(), userID, assessmentID, answers)
	if err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}
	if result.Score != 0.5 {
		t.Fatalf("Score = %v, want 0.5 with filler item missed", result.Score)
	}
	if len(f.mastery.records) != 1 {
		t.Fatalf("filler item reached mastery: %d records", len(f.mastery.records))
	}
}

func TestSubmitAssessmentUnknownAssessment(t *testing.T) {
	f := newAssessmentFixture(nil, nil)
	_, err := f.svc.SubmitAssessment(context.Background(), uuid.New(), uuid.New(), nil)
	if !errors.Is(err, pkgerrors.ErrAssessmentNotFound) {
		t.Fatalf("err = %v, want ErrAssessmentNotFound", err)
	}
}

func TestSubmitAssessmentNoItemsFails(t *testing.T) {
	assessmentID := uuid.New()
	assessment := &types.Assessment{
		ID: assessmentID, ModuleID: uuid.New(),
		MasteryThreshold: 0.7, IsPublished: true,
	}
	f := newAssessmentFixture(assessment, nil)

	result, err := f.svc.SubmitAssessment(context.Background(), uuid.New(), assessmentID, nil)
	if err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}
	if result.Score != 0 || result.Passed {
		t.Fatalf("empty assessment result = %+v, want score 0 failed", result)
	}
}

func TestSubmitAssessmentSurvivesEventFailure(t *testing.T) {
	assessmentID := uuid.New()
	competencyID := uuid.New()
	assessment := &types.Assessment{
		ID: assessmentID, ModuleID: uuid.New(),
		MasteryThreshold: 0.7, IsPublished: true,
	}
	items := []*types.AssessmentItem{singleSelectItem(assessmentID, &competencyID, "a")}
	f := newAssessmentFixture(assessment, items)
	f.events.insertErr = errors.New("event store down")

	result, err := f.svc.SubmitAssessment(context.Background(), uuid.New(), assessmentID, map[string]any{
		items[0].ID.String(): "a",
	})
	if err != nil {
		t.Fatalf("SubmitAssessment failed on event error: %v", err)
	}
	if !result.Passed {
		t.Fatalf("result = %+v, want pass", result)
	}
}

func TestSubmitAssessmentPartialCreditAggregation(t *testing.T) {
	assessmentID := uuid.New()
	competencyID := uuid.New()
	assessment := &types.Assessment{
		ID: assessmentID, ModuleID: uuid.New(),
		MasteryThreshold: 0.7, IsPublished: true,
	}
	orderedItem := &types.AssessmentItem{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		CompetencyID: &competencyID,
		ItemType:     types.ItemTypeOrderedSteps,
		AnswerKey:    datatypes.JSON(`{"correctOrder":["open","confirm","size","enter"]}`),
	}
	items := []*types.AssessmentItem{
		singleSelectItem(assessmentID, &competencyID, "a"),
		orderedItem,
	}
	f := newAssessmentFixture(assessment, items)

	answers := map[string]any{
		items[0].ID.String(): "a",
		orderedItem.ID.String(): []any{"open", "size", "confirm", "enter"},
	}
	result, err := f.svc.SubmitAssessment(context.Background(), uuid.New(), assessmentID, answers)
	if err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}
	// (1 + 0.5) / 2
	if math.Abs(result.Score-0.75) > 1e-9 {
		t.Fatalf("Score = %v, want 0.75", result.Score)
	}
	if !result.Passed {
		t.Fatal("competency mean 0.75 clears the threshold; expected pass")
	}
}
