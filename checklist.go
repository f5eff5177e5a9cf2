package main

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChecklistService owns checklist items, templates and the template-to-event
// materialization.
type ChecklistService struct {
	db *gorm.DB
}

func NewChecklistService(db *gorm.DB) *ChecklistService {
	return &ChecklistService{db: db}
}

// -----------------------------
// Checklist items
// -----------------------------

func (s *ChecklistService) GetChecklistByEvent(eventID uuid.UUID) ([]ChecklistItem, error) {
	var items []ChecklistItem
	err := s.db.Where("event_id = ?", eventID).Order("created_at asc").Find(&items).Error
	return items, err
}

// GetChecklistItemByID loads an item together with its parent event and
// assigned user, the shape the notification dispatcher needs.
func (s *ChecklistService) GetChecklistItemByID(id uuid.UUID) (*ChecklistItem, error) {
	var item ChecklistItem
	err := s.db.Preload("Event").Preload("Responsible").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ChecklistService) CreateChecklistItem(item *ChecklistItem) error {
	return s.db.Create(item).Error
}

func (s *ChecklistService) UpdateChecklistItem(id uuid.UUID, updates map[string]any) (*ChecklistItem, error) {
	if len(updates) > 0 {
		if err := s.db.Model(&ChecklistItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetChecklistItemByID(id)
}

func (s *ChecklistService) DeleteChecklistItem(id uuid.UUID) error {
	res := s.db.Delete(&ChecklistItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// -----------------------------
// Templates
// -----------------------------

func (s *ChecklistService) GetAllTemplates() ([]ChecklistTemplate, error) {
	var templates []ChecklistTemplate
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("template_items.created_at asc")
	}).Find(&templates).Error
	return templates, err
}

func (s *ChecklistService) getTemplateByID(id uuid.UUID) (*ChecklistTemplate, error) {
	var tpl ChecklistTemplate
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("template_items.created_at asc")
	}).First(&tpl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *ChecklistService) GetTemplateByEventType(eventType string) (*ChecklistTemplate, error) {
	var tpl ChecklistTemplate
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("template_items.created_at asc")
	}).First(&tpl, "event_type = ?", eventType).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *ChecklistService) CreateTemplate(tpl *ChecklistTemplate) error {
	return s.db.Create(tpl).Error
}

// UpdateTemplate performs a full replace of the child items: delete-all then
// recreate, never a merge.
func (s *ChecklistService) UpdateTemplate(id uuid.UUID, tpl ChecklistTemplate) (*ChecklistTemplate, error) {
	var existing ChecklistTemplate
	if err := s.db.First(&existing, "id = ?", id).Error; err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"event_type":  tpl.EventType,
			"name":        tpl.Name,
			"description": tpl.Description,
		}
		if err := tx.Model(&ChecklistTemplate{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&TemplateItem{}).Error; err != nil {
			return err
		}
		for i := range tpl.Items {
			tpl.Items[i].ID = uuid.Nil
			tpl.Items[i].TemplateID = id
		}
		if len(tpl.Items) > 0 {
			if err := tx.Create(&tpl.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getTemplateByID(id)
}

func (s *ChecklistService) DeleteTemplate(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&TemplateItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&ChecklistTemplate{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// -----------------------------
// Materialization
// -----------------------------

// ApplyTemplateToEvent creates one checklist item per template item for the
// event's type. Each due date is eventStartDate shifted by the item's day
// offset, plain calendar-day arithmetic. A missing template is a valid
// outcome, not an error: the event simply starts with an empty checklist.
func (s *ChecklistService) ApplyTemplateToEvent(eventID uuid.UUID, eventType string, eventStartDate time.Time) ([]ChecklistItem, error) {
	tpl, err := s.GetTemplateByEventType(eventType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ No checklist template configured for event type %q", eventType)
			return []ChecklistItem{}, nil
		}
		return nil, err
	}

	items := make([]ChecklistItem, 0, len(tpl.Items))
	for _, ti := range tpl.Items {
		due := eventStartDate.AddDate(0, 0, ti.DaysOffset)
		items = append(items, ChecklistItem{
			EventID:   eventID,
			Text:      ti.Text,
			DueDate:   &due,
			Completed: false,
		})
	}

	if len(items) > 0 {
		// Single batch insert: a failed batch is reported to the caller,
		// never partially swallowed.
		if err := s.db.Create(&items).Error; err != nil {
			return nil, err
		}
	}

	log.Printf("✅ %d checklist items created from template %q for event %s", len(items), tpl.Name, eventID)
	return items, nil
}

// -----------------------------
// Default templates
// -----------------------------

type defaultTemplate struct {
	EventType   string
	Name        string
	Description string
	Items       []TemplateItem
}

var defaultTemplates = []defaultTemplate{
	{
		EventType:   "Conference",
		Name:        "Conference checklist",
		Description: "Essential tasks for organizing a conference.",
		Items: []TemplateItem{
			{Text: "Book keynote speakers", DaysOffset: -30},
			{Text: "Reserve the venue", DaysOffset: -45},
			{Text: "Create promotional material", DaysOffset: -25},
			{Text: "Open registrations", DaysOffset: -20},
			{Text: "Confirm audiovisual equipment", DaysOffset: -7},
			{Text: "Prepare badges and handouts", DaysOffset: -3},
			{Text: "Test sound and equipment", DaysOffset: -1},
		},
	},
	{
		EventType:   "Workshop",
		Name:        "Workshop checklist",
		Description: "Tasks for organizing an interactive workshop.",
		Items: []TemplateItem{
			{Text: "Define theme and content", DaysOffset: -20},
			{Text: "Prepare teaching materials", DaysOffset: -10},
			{Text: "Set up the environment (online/on-site)", DaysOffset: -5},
			{Text: "Send reminders to participants", DaysOffset: -2},
		},
	},
	{
		EventType:   "Meeting",
		Name:        "Meeting checklist",
		Description: "Tasks for a productive meeting.",
		Items: []TemplateItem{
			{Text: "Define the agenda", DaysOffset: -1},
			{Text: "Send invitations", DaysOffset: -1},
			{Text: "Prepare the presentation", DaysOffset: 0},
			{Text: "Write up the minutes", DaysOffset: 1},
		},
	},
	{
		EventType:   "Training",
		Name:        "Training checklist",
		Description: "Tasks for a training program.",
		Items: []TemplateItem{
			{Text: "Define learning objectives", DaysOffset: -30},
			{Text: "Develop training modules", DaysOffset: -20},
			{Text: "Select instructors", DaysOffset: -15},
			{Text: "Evaluate results", DaysOffset: 7},
		},
	},
	{
		EventType:   "Social Event",
		Name:        "Social event checklist",
		Description: "Tasks for a casual get-together.",
		Items: []TemplateItem{
			{Text: "Choose the party theme", DaysOffset: -40},
			{Text: "Arrange catering and drinks", DaysOffset: -25},
			{Text: "Hire entertainment", DaysOffset: -20},
			{Text: "Send save-the-date", DaysOffset: -30},
			{Text: "Confirm the guest list", DaysOffset: -10},
		},
	},
}

// CreateDefaultTemplates seeds the built-in templates. The check is per
// event type, so re-running on every start never duplicates and never
// touches templates that already exist.
func (s *ChecklistService) CreateDefaultTemplates() error {
	created := 0
	for _, dt := range defaultTemplates {
		var count int64
		if err := s.db.Model(&ChecklistTemplate{}).Where("event_type = ?", dt.EventType).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		tpl := ChecklistTemplate{
			EventType:   dt.EventType,
			Name:        dt.Name,
			Description: dt.Description,
			Items:       append([]TemplateItem(nil), dt.Items...),
		}
		if err := s.db.Create(&tpl).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race with a concurrent seeder; the template exists.
				continue
			}
			return err
		}
		created++
	}

	if created > 0 {
		log.Printf("✅ %d default checklist templates created", created)
	}
	return nil
}
