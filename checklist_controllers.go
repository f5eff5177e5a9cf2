package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// -----------------------------
// Checklist items
// -----------------------------

func (a *App) GetChecklistByEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}

	items, err := a.checklist.GetChecklistByEvent(eventID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, items)
}

type CreateChecklistItemRequest struct {
	EventID       string `json:"event_id" binding:"required"`
	Text          string `json:"text" binding:"required"`
	DueDate       string `json:"due_date"`
	ResponsibleID string `json:"responsible_id"`
}

func (a *App) CreateChecklistItem(c *gin.Context) {
	var body CreateChecklistItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid event_id")
		return
	}

	var ev Event
	if err := a.db.First(&ev, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "event not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	item := ChecklistItem{
		EventID: eventID,
		Text:    strings.TrimSpace(body.Text),
	}
	if body.DueDate != "" {
		due, err := parseDate(body.DueDate)
		if err != nil {
			jsonError(c, http.StatusBadRequest, "invalid due_date format (use RFC3339 or YYYY-MM-DD)")
			return
		}
		item.DueDate = &due
	}
	if body.ResponsibleID != "" {
		rid, err := uuid.Parse(body.ResponsibleID)
		if err != nil {
			jsonError(c, http.StatusBadRequest, "invalid responsible_id")
			return
		}
		item.ResponsibleID = &rid
	}

	if err := a.checklist.CreateChecklistItem(&item); err != nil {
		jsonError(c, http.StatusInternalServerError, "could not create checklist item: "+err.Error())
		return
	}

	// An item born with an assignee triggers an assignment notification.
	if item.ResponsibleID != nil {
		a.notifier.Enqueue(NotificationEvent{Kind: NotificationAssignment, ItemID: item.ID})
	}

	c.JSON(http.StatusCreated, item)
}

type UpdateChecklistItemRequest struct {
	Text          *string `json:"text"`
	DueDate       *string `json:"due_date"`       // empty string clears
	Completed     *bool   `json:"completed"`
	ResponsibleID *string `json:"responsible_id"` // empty string clears
}

// UpdateChecklistItem saves the changes and detects the two notification
// edges: responsible newly set, and completed flipping false to true.
func (a *App) UpdateChecklistItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	current, err := a.checklist.GetChecklistItemByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "checklist item not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	var body UpdateChecklistItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	updates := map[string]any{}
	if body.Text != nil {
		updates["text"] = strings.TrimSpace(*body.Text)
	}
	if body.Completed != nil {
		updates["completed"] = *body.Completed
	}
	if body.DueDate != nil {
		if *body.DueDate == "" {
			updates["due_date"] = nil
		} else {
			due, err := parseDate(*body.DueDate)
			if err != nil {
				jsonError(c, http.StatusBadRequest, "invalid due_date format (use RFC3339 or YYYY-MM-DD)")
				return
			}
			updates["due_date"] = due
		}
	}
	if body.ResponsibleID != nil {
		if *body.ResponsibleID == "" {
			updates["responsible_id"] = nil
		} else {
			rid, err := uuid.Parse(*body.ResponsibleID)
			if err != nil {
				jsonError(c, http.StatusBadRequest, "invalid responsible_id")
				return
			}
			updates["responsible_id"] = rid
		}
	}

	updated, err := a.checklist.UpdateChecklistItem(id, updates)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "could not update checklist item: "+err.Error())
		return
	}

	if current.ResponsibleID == nil && updated.ResponsibleID != nil {
		a.notifier.Enqueue(NotificationEvent{Kind: NotificationAssignment, ItemID: id})
	}
	if !current.Completed && updated.Completed {
		a.notifier.Enqueue(NotificationEvent{Kind: NotificationCompletion, ItemID: id})
	}

	c.JSON(http.StatusOK, updated)
}

func (a *App) DeleteChecklistItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.checklist.DeleteChecklistItem(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "checklist item not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "could not delete checklist item: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "checklist item deleted"})
}

// -----------------------------
// Templates
// -----------------------------

type TemplateItemRequest struct {
	Text       string `json:"text" binding:"required"`
	DaysOffset int    `json:"days_offset"`
}

type TemplateRequest struct {
	EventType   string                `json:"event_type" binding:"required"`
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Items       []TemplateItemRequest `json:"items"`
}

func (a *App) GetAllTemplates(c *gin.Context) {
	templates, err := a.checklist.GetAllTemplates()
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (a *App) GetTemplateByEventType(c *gin.Context) {
	eventType := c.Param("eventType")
	tpl, err := a.checklist.GetTemplateByEventType(eventType)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "template not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (a *App) CreateTemplate(c *gin.Context) {
	var body TemplateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	tpl := ChecklistTemplate{
		EventType:   body.EventType,
		Name:        body.Name,
		Description: body.Description,
	}
	for _, it := range body.Items {
		tpl.Items = append(tpl.Items, TemplateItem{Text: it.Text, DaysOffset: it.DaysOffset})
	}

	if err := a.checklist.CreateTemplate(&tpl); err != nil {
		if err == gorm.ErrDuplicatedKey {
			jsonError(c, http.StatusConflict, "a template for this event type already exists")
			return
		}
		jsonError(c, http.StatusInternalServerError, "could not create template: "+err.Error())
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func (a *App) UpdateTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body TemplateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	tpl := ChecklistTemplate{
		EventType:   body.EventType,
		Name:        body.Name,
		Description: body.Description,
	}
	for _, it := range body.Items {
		tpl.Items = append(tpl.Items, TemplateItem{Text: it.Text, DaysOffset: it.DaysOffset})
	}

	updated, err := a.checklist.UpdateTemplate(id, tpl)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "template not found")
			return
		}
		if err == gorm.ErrDuplicatedKey {
			jsonError(c, http.StatusConflict, "a template for this event type already exists")
			return
		}
		jsonError(c, http.StatusInternalServerError, "could not update template: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (a *App) DeleteTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.checklist.DeleteTemplate(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "template not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "could not delete template: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template deleted"})
}

type ApplyTemplateRequest struct {
	EventID        string `json:"event_id" binding:"required"`
	EventType      string `json:"event_type" binding:"required"`
	EventStartDate string `json:"event_start_date" binding:"required"`
}

func (a *App) ApplyTemplate(c *gin.Context) {
	var body ApplyTemplateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "event_id, event_type and event_start_date are required")
		return
	}

	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid event_id")
		return
	}
	start, err := parseDate(body.EventStartDate)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid event_start_date format (use RFC3339 or YYYY-MM-DD)")
		return
	}

	items, err := a.checklist.ApplyTemplateToEvent(eventID, body.EventType, start)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "could not apply template: "+err.Error())
		return
	}
	c.JSON(http.StatusCreated, items)
}
