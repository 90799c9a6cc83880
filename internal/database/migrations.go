package database

import (
	"fmt"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/spf13/viper"
)

// InitializeWithMigrations opens the configured database and migrates all
// pipeline models. Reads database settings from the loaded configuration.
func InitializeWithMigrations() (*DB, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is not configured")
	}

	db, err := Initialize(dbPath, viper.GetBool("database.verbose"))
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Video{},
		&models.ClipSuggestion{},
		&models.Transcript{},
		&models.Job{},
	); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
