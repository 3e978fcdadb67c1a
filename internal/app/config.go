package app

import (
	"github.com/titm/academy-engine/internal/logger"
	"github.com/titm/academy-engine/internal/utils"
)

type Config struct {
	LogMode      string
	RedisAddr    string
	RedisChannel string
}

// LoadConfig reads engine configuration from the environment. RedisAddr is
// optional; when empty the event emitter skips fan-out and only writes the
// audit trail.
func LoadConfig(log *logger.Logger) Config {
	return Config{
		LogMode:      utils.GetEnv("LOG_MODE", "dev", log),
		RedisAddr:    utils.GetEnv("REDIS_ADDR", "", log),
		RedisChannel: utils.GetEnv("REDIS_CHANNEL", "academy.events", log),
	}
}
