package main

import (
	"fmt"
	"os"

	"github.com/titm/academy-engine/internal/data/db"
	"github.com/titm/academy-engine/internal/logger"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	database, err := db.New(log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.AutoMigrateAll(database.DB()); err != nil {
		log.Fatal("Migration failed", "error", err)
	}
	log.Info("Migration complete")
}
