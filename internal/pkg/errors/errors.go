package errors

import "errors"

// Not-found sentinels for catalog and engine lookups. Callers match with
// errors.Is; no retryable or range-error classes exist (out-of-range values
// are clamped, not rejected).
var (
	ErrProgramPlanNotFound     = errors.New("program plan not found")
	ErrModuleNotFound          = errors.New("module not found")
	ErrLessonNotFound          = errors.New("lesson not found")
	ErrBlockNotFound           = errors.New("block not found")
	ErrAssessmentNotFound      = errors.New("assessment not found")
	ErrReviewQueueItemNotFound = errors.New("review queue item not found")
)
