package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/titm/academy-engine/internal/clients/redis"
	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/repos"
	"github.com/titm/academy-engine/internal/types"
)

// EventEmitter appends learning events to the audit trail. Emission is
// best-effort across the board: failures are logged and discarded so the
// triggering workflow always completes. Callers invoke Emit unconditionally
// instead of wrapping each call site in its own error handling.
type EventEmitter interface {
	Emit(ctx context.Context, event *types.LearningEvent)
}

type eventEmitter struct {
	log  *logger.Logger
	repo repos.LearningEventRepo
	bus  redis.EventBus
}

// NewEventEmitter builds the best-effort emitter. bus is optional; when set,
// every stored event is also fanned out to redis.
func NewEventEmitter(baseLog *logger.Logger, repo repos.LearningEventRepo, bus redis.EventBus) EventEmitter {
	return &eventEmitter{
		log:  baseLog.With("service", "EventEmitter"),
		repo: repo,
		bus:  bus,
	}
}

func (e *eventEmitter) Emit(ctx context.Context, event *types.LearningEvent) {
	if event == nil {
		return
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := e.repo.Insert(ctx, nil, event); err != nil {
		e.log.Warn("learning event insert failed", "event_type", event.EventType, "error", err)
	}
	if e.bus != nil {
		if err := e.bus.Publish(ctx, event); err != nil {
			e.log.Warn("learning event publish failed", "event_type", event.EventType, "error", err)
		}
	}
}

func eventPayload(fields map[string]any) datatypes.JSON {
	if len(fields) == 0 {
		return nil
	}
	b, _ := json.Marshal(fields)
	return datatypes.JSON(b)
}
