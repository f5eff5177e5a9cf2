package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func TestApplyTemplateToEvent_ComputesDueDates(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)

	tpl := ChecklistTemplate{
		EventType: "Workshop",
		Name:      "Workshop checklist",
		Items: []TemplateItem{
			{Text: "Define theme", DaysOffset: -15},
			{Text: "Prepare materials", DaysOffset: -10},
		},
	}
	if err := svc.CreateTemplate(&tpl); err != nil {
		t.Fatalf("create template: %v", err)
	}

	eventID := uuid.New()
	start := mustDate(t, "2024-06-01")

	items, err := svc.ApplyTemplateToEvent(eventID, "Workshop", start)
	if err != nil {
		t.Fatalf("apply template: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	wantDue := map[string]string{
		"Define theme":      "2024-05-17",
		"Prepare materials": "2024-05-22",
	}
	for _, item := range items {
		if item.Completed {
			t.Errorf("item %q created as completed", item.Text)
		}
		if item.EventID != eventID {
			t.Errorf("item %q has event %s, want %s", item.Text, item.EventID, eventID)
		}
		if item.DueDate == nil {
			t.Fatalf("item %q has no due date", item.Text)
		}
		want, ok := wantDue[item.Text]
		if !ok {
			t.Fatalf("unexpected item %q", item.Text)
		}
		if got := item.DueDate.Format("2006-01-02"); got != want {
			t.Errorf("item %q due %s, want %s", item.Text, got, want)
		}
	}

	// Items were persisted, not just returned.
	var count int64
	if err := db.Model(&ChecklistItem{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 persisted items, got %d", count)
	}
}

func TestApplyTemplateToEvent_NoTemplateConfigured(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)

	items, err := svc.ApplyTemplateToEvent(uuid.New(), "Unknown Type", mustDate(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("expected no error for missing template, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %d items", len(items))
	}
}

func TestCreateDefaultTemplates_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)

	if err := svc.CreateDefaultTemplates(); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := svc.CreateDefaultTemplates(); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	if err := db.Model(&ChecklistTemplate{}).Count(&count).Error; err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 templates after two seed runs, got %d", count)
	}
}

func TestCreateDefaultTemplates_LeavesExistingUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)

	custom := ChecklistTemplate{
		EventType: "Workshop",
		Name:      "My own workshop checklist",
		Items:     []TemplateItem{{Text: "Only task", DaysOffset: -1}},
	}
	if err := svc.CreateTemplate(&custom); err != nil {
		t.Fatalf("create custom template: %v", err)
	}

	if err := svc.CreateDefaultTemplates(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.GetTemplateByEventType("Workshop")
	if err != nil {
		t.Fatalf("get workshop template: %v", err)
	}
	if got.Name != "My own workshop checklist" {
		t.Errorf("seeding replaced a pre-existing template: %q", got.Name)
	}
	if len(got.Items) != 1 {
		t.Errorf("seeding merged items into a pre-existing template: %d items", len(got.Items))
	}

	// The other four defaults were still filled in.
	var count int64
	if err := db.Model(&ChecklistTemplate{}).Count(&count).Error; err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 templates, got %d", count)
	}
}

func TestUpdateTemplate_FullReplaceOfItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)

	tpl := ChecklistTemplate{
		EventType: "Meeting",
		Name:      "Meeting checklist",
		Items: []TemplateItem{
			{Text: "Old task A", DaysOffset: -2},
			{Text: "Old task B", DaysOffset: -1},
			{Text: "Old task C", DaysOffset: 0},
		},
	}
	if err := svc.CreateTemplate(&tpl); err != nil {
		t.Fatalf("create template: %v", err)
	}

	updated, err := svc.UpdateTemplate(tpl.ID, ChecklistTemplate{
		EventType: "Meeting",
		Name:      "Meeting checklist v2",
		Items: []TemplateItem{
			{Text: "New task one", DaysOffset: -3},
			{Text: "New task two", DaysOffset: -1},
		},
	})
	if err != nil {
		t.Fatalf("update template: %v", err)
	}
	if updated.Name != "Meeting checklist v2" {
		t.Errorf("name not updated: %q", updated.Name)
	}
	if len(updated.Items) != 2 {
		t.Fatalf("expected full item replace, got %+v", updated.Items)
	}

	// The reload returns the same stored order as the type lookup.
	byType, err := svc.GetTemplateByEventType("Meeting")
	if err != nil {
		t.Fatalf("get by type: %v", err)
	}
	if len(byType.Items) != 2 {
		t.Fatalf("expected 2 items from type lookup, got %d", len(byType.Items))
	}
	for i := range updated.Items {
		if updated.Items[i].Text != byType.Items[i].Text {
			t.Errorf("item order diverges at %d: %q vs %q", i, updated.Items[i].Text, byType.Items[i].Text)
		}
	}

	// No orphaned items left behind.
	var count int64
	if err := db.Model(&TemplateItem{}).Where("template_id = ?", tpl.ID).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 template items, got %d", count)
	}
}

func TestCreateTemplate_DuplicateEventTypeConflicts(t *testing.T) {
	app, _ := newTestApp(t)
	r := newTestRouter(app)

	body := TemplateRequest{
		EventType: "Conference",
		Name:      "Conference checklist",
		Items:     []TemplateItemRequest{{Text: "Reserve venue", DaysOffset: -45}},
	}
	w := performRequest(t, r, "POST", "/api/checklist/templates", body)
	wantStatus(t, w, 201)

	w = performRequest(t, r, "POST", "/api/checklist/templates", body)
	wantStatus(t, w, 409)
}
