package app

import (
	"github.com/titm/academy-engine/internal/clients/redis"
	"github.com/titm/academy-engine/internal/data/db"
	"github.com/titm/academy-engine/internal/logger"
)

// App assembles the engine for embedding by the surrounding subsystem. The
// host owns transport, auth and request parsing; it only calls Services.
type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Repos    Repos
	Services Services

	bus redis.EventBus
}

func New() (*App, error) {
	bootstrapLog, err := logger.New("dev")
	if err != nil {
		return nil, err
	}
	cfg := LoadConfig(bootstrapLog)

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}

	database, err := db.New(log)
	if err != nil {
		return nil, err
	}

	var bus redis.EventBus
	if cfg.RedisAddr != "" {
		bus, err = redis.NewEventBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			// Fan-out is best-effort; the audit trail alone is enough.
			log.Warn("redis event bus unavailable, continuing without fan-out", "error", err)
			bus = nil
		}
	}

	repos := wireRepos(database.DB(), log)
	svcs := wireServices(log, repos, bus)

	return &App{
		Log:      log,
		DB:       database,
		Repos:    repos,
		Services: svcs,
		bus:      bus,
	}, nil
}

func (a *App) Close() {
	if a.bus != nil {
		_ = a.bus.Close()
	}
	a.Log.Sync()
}
