package main

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the postgres connection and migrates the schema. The handle
// is returned to main and injected from there; TranslateError makes unique
// constraint violations surface as gorm.ErrDuplicatedKey, which is the
// authoritative conflict signal for duplicate emails and template types.
func InitDB(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("✅ Database connected and migrated successfully")
	return db, nil
}

// AutoMigrate creates or updates the schema for all models. Shared with the
// sqlite-backed tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&ChecklistTemplate{},
		&TemplateItem{},
		&ChecklistItem{},
		&Comment{},
	)
}
