package services

import (
	"context"
	"testing"

	"dinnermatch_server/models"
)

func newTestEventService(t *testing.T) (*EventService, *testStack) {
	t.Helper()
	stack := newTestStack(t)
	svc := NewEventService(stack.bitable, eventTable)
	svc.Now = stack.clock.Now
	return svc, stack
}

func TestEventCreateAppliesDefaults(t *testing.T) {
	svc, stack := newTestEventService(t)

	event, err := svc.Create(context.Background(), models.EventInput{
		Title:     "Hotpot night",
		Location:  "Chengdu",
		Distance:  1.5,
		Time:      "19:00",
		MaxPeople: 6,
		Questions: []interface{}{"Spicy?"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if event.ID == "" {
		t.Error("Expected record id")
	}
	if event.Host != models.DefaultEventHost {
		t.Errorf("Expected anonymous host, got %q", event.Host)
	}
	if event.HostAvatar != models.DefaultEventHostAvatar {
		t.Errorf("Expected default avatar, got %q", event.HostAvatar)
	}
	if event.CurrentPeople != 1 || event.MaxPeople != 6 {
		t.Errorf("Expected 1/6 people, got %d/%d", event.CurrentPeople, event.MaxPeople)
	}
	if event.Status != models.EventStatusRecruiting {
		t.Errorf("Expected recruiting status, got %q", event.Status)
	}
	if len(event.Questions) != 1 || event.Questions[0] != "Spicy?" {
		t.Errorf("Expected questions to round trip, got %+v", event.Questions)
	}
	if event.CreateTime != stack.clock.Now().UnixMilli() {
		t.Errorf("Expected create time %d, got %d", stack.clock.Now().UnixMilli(), event.CreateTime)
	}

	records := stack.fake.Records(eventTable)
	if records[0].Fields[models.FieldEventQuestions] != `["Spicy?"]` {
		t.Errorf("Expected questions stored as JSON text, got %v", records[0].Fields[models.FieldEventQuestions])
	}
}

func TestEventListFillsBlanks(t *testing.T) {
	svc, stack := newTestEventService(t)
	stack.fake.Seed(eventTable, map[string]interface{}{
		models.FieldEventTitle: "Dumplings",
		models.FieldCreatedAt:  1700000000000,
	})
	stack.fake.Seed(eventTable, map[string]interface{}{
		models.FieldEventTitle:         "BBQ",
		models.FieldEventMaxPeople:     8,
		models.FieldEventCurrentPeople: 3,
		models.FieldEventQuestions:     "{broken",
		models.FieldStatus:             "已满员",
	})

	events, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	blank := events[0]
	if blank.MaxPeople != 4 || blank.CurrentPeople != 1 || blank.Status != models.EventStatusRecruiting {
		t.Errorf("Expected defaults for blank cells, got %+v", blank)
	}
	if blank.CreateTime != 1700000000000 {
		t.Errorf("Expected stored create time, got %d", blank.CreateTime)
	}

	full := events[1]
	if full.MaxPeople != 8 || full.CurrentPeople != 3 || full.Status != "已满员" {
		t.Errorf("Expected stored values, got %+v", full)
	}
	if full.Questions == nil || len(full.Questions) != 0 {
		t.Errorf("Expected broken questions to read as empty list, got %+v", full.Questions)
	}
}

func TestEventUpdate(t *testing.T) {
	svc, stack := newTestEventService(t)
	id := stack.fake.Seed(eventTable, map[string]interface{}{
		models.FieldEventTitle:         "Noodles",
		models.FieldEventCurrentPeople: 1,
	})

	event, err := svc.Update(context.Background(), id, map[string]interface{}{
		models.FieldEventCurrentPeople: 2,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if event.ID != id || event.CurrentPeople != 2 || event.Title != "Noodles" {
		t.Errorf("Expected updated event, got %+v", event)
	}
}
