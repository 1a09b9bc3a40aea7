package database

import (
	"TinyLink-Backend/internal/domain"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate runs GORM auto-migration for all domain models.
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database auto-migration")

	if err := db.AutoMigrate(&domain.Link{}); err != nil {
		log.Error("failed to migrate links table", zap.Error(err))
		return fmt.Errorf("failed to migrate links table: %w", err)
	}

	log.Info("database auto-migration completed")
	return nil
}
