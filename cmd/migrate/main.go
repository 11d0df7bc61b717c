package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/yatube/backend/config"
	"github.com/yatube/backend/internal/database"
	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/models"
)

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "List the tables that would be migrated and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.Environment == config.Development); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}

	for _, m := range models.AllModels() {
		stmt := db.Model(m).Statement
		if err := stmt.Parse(m); err != nil {
			logger.L().Fatal("failed to parse model", zap.Error(err))
		}
		logger.Info("model",
			zap.String("table", stmt.Schema.Table),
			zap.Bool("exists", db.Migrator().HasTable(m)),
		)
	}
	if *dryRun {
		return
	}

	if err := database.RunMigrations(db); err != nil {
		logger.L().Fatal("failed to apply migrations", zap.Error(err))
	}
	logger.Info("all migrations applied successfully")
}
