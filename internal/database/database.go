package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"task-admin-api/internal/logger"
	"task-admin-api/internal/models"
	"task-admin-api/internal/taskgen"
)

// Connect opens the SQLite database at path and runs migrations.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required).
func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Seed fills an empty tasks table with count generated rows. A table
// that already holds data is left untouched, so restarts keep state.
func Seed(db *gorm.DB, count int) error {
	var existing int64
	if err := db.Model(&models.Task{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to count tasks: %w", err)
	}
	if existing > 0 || count <= 0 {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			task := taskgen.Random()
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed tasks: %w", err)
	}

	logger.Get().Info("seeded tasks table", zap.Int("count", count))
	return nil
}
