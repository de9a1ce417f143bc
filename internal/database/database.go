package database

import (
	"fmt"
	"log"

	"cmcount/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQLite database at path and runs migrations.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
func Open(path string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Database %s connected and migrated", path)
	return db, nil
}

// Migrate creates the options table if it doesn't exist yet.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Option{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
