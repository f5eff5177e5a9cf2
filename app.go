package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// App carries the process-scoped dependencies. The gorm handle is opened
// once in main and injected here, never referenced as a package global.
type App struct {
	db        *gorm.DB
	checklist *ChecklistService
	notifier  *NotificationService
}

func NewApp(db *gorm.DB, checklist *ChecklistService, notifier *NotificationService) *App {
	return &App{db: db, checklist: checklist, notifier: notifier}
}

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// parseIDParam reads a uuid path parameter; empty uuid + false on bad input.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		jsonError(c, 400, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseDate accepts RFC3339 or plain "YYYY-MM-DD".
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
