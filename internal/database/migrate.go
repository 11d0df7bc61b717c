package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	applog "github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/models"
)

// RunMigrations creates or updates every table, join table and constraint.
func RunMigrations(db *gorm.DB) error {
	applog.Info("running auto-migration", zap.String("dialect", db.Dialector.Name()))
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
