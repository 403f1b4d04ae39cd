package main

import (
	"github.com/lshigami/Bilim/config"
	"github.com/lshigami/Bilim/database"
	"github.com/lshigami/Bilim/internal/logger"
	"gorm.io/gorm"
)

// openDB loads the config and a migrated database for the offline commands.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
