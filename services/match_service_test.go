package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"dinnermatch_server/models"
)

func newTestMatchService(t *testing.T, index DateIndex) (*MatchService, *testStack, *recordingNotifier) {
	t.Helper()
	stack := newTestStack(t)
	notifier := &recordingNotifier{}
	svc := NewMatchService(NewMatchStore(stack.bitable, matchTable, index), notifier)
	svc.Now = stack.clock.Now
	return svc, stack, notifier
}

func participant(id, name, topics string) models.Participant {
	return models.Participant{ID: json.Number(id), Name: name, Avatar: "🙂", Topics: topics}
}

func TestGetMatchAbsent(t *testing.T) {
	svc, _, _ := newTestMatchService(t, nil)

	match, err := svc.GetMatch(context.Background(), "2024-03-01")
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if match != nil {
		t.Errorf("Expected no match, got %+v", match)
	}
}

func TestJoinCreatesRecord(t *testing.T) {
	svc, stack, _ := newTestMatchService(t, nil)
	p1 := participant("1", "Alice", "hiking")

	match, err := svc.Join(context.Background(), "2024-03-01", p1)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if match.ID == "" {
		t.Error("Expected store-assigned id")
	}
	if match.Status != models.MatchStatusWaiting {
		t.Errorf("Expected status waiting, got %q", match.Status)
	}
	if !reflect.DeepEqual(match.Participants, []models.Participant{p1}) {
		t.Errorf("Expected only the joiner, got %+v", match.Participants)
	}
	if len(match.Matched) != 0 {
		t.Errorf("Expected empty matched, got %+v", match.Matched)
	}
	if match.Topic != "hiking" {
		t.Errorf("Expected topic from creator, got %q", match.Topic)
	}

	records := stack.fake.Records(matchTable)
	if len(records) != 1 {
		t.Fatalf("Expected exactly 1 record, got %d", len(records))
	}
	if records[0].Fields[models.FieldMatched] != "" {
		t.Errorf("Expected empty match result cell, got %v", records[0].Fields[models.FieldMatched])
	}
	if records[0].Fields[models.FieldCreatedAt] != float64(stack.clock.Now().UnixMilli()) {
		t.Errorf("Expected creation time to be stored, got %v", records[0].Fields[models.FieldCreatedAt])
	}
}

func TestSecondJoinMatchesFirstTwo(t *testing.T) {
	svc, _, notifier := newTestMatchService(t, nil)
	ctx := context.Background()
	p1 := participant("1", "Alice", "")
	p2 := participant("2", "Bob", "board games")

	if _, err := svc.Join(ctx, "2024-03-01", p1); err != nil {
		t.Fatalf("first Join failed: %v", err)
	}
	match, err := svc.Join(ctx, "2024-03-01", p2)
	if err != nil {
		t.Fatalf("second Join failed: %v", err)
	}

	if match.Status != models.MatchStatusMatched {
		t.Errorf("Expected status matched, got %q", match.Status)
	}
	if !reflect.DeepEqual(match.Matched, []models.Participant{p1, p2}) {
		t.Errorf("Expected matched [p1 p2], got %+v", match.Matched)
	}
	if match.Topic != "board games" {
		t.Errorf("Expected empty topic to be filled by joiner, got %q", match.Topic)
	}
	if notifier.count() != 1 {
		t.Errorf("Expected 1 matched notification, got %d", notifier.count())
	}

	stored, err := svc.GetMatch(ctx, "2024-03-01")
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if !reflect.DeepEqual(stored, match) {
		t.Errorf("Expected stored record %+v, got %+v", match, stored)
	}
}

func TestThirdJoinAppendsButKeepsPair(t *testing.T) {
	svc, stack, notifier := newTestMatchService(t, nil)
	ctx := context.Background()
	p1 := participant("1", "Alice", "cooking")
	p2 := participant("2", "Bob", "")
	p3 := participant("3", "Carol", "music")

	for _, p := range []models.Participant{p1, p2} {
		if _, err := svc.Join(ctx, "2024-03-01", p); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
	}
	match, err := svc.Join(ctx, "2024-03-01", p3)
	if err != nil {
		t.Fatalf("third Join failed: %v", err)
	}

	if len(match.Participants) != 3 {
		t.Errorf("Expected 3 participants, got %d", len(match.Participants))
	}
	if !reflect.DeepEqual(match.Matched, []models.Participant{p1, p2}) {
		t.Errorf("Expected matched to stay [p1 p2], got %+v", match.Matched)
	}
	if match.Status != models.MatchStatusMatched {
		t.Errorf("Expected status matched, got %q", match.Status)
	}
	if match.Topic != "cooking" {
		t.Errorf("Expected topic to never be overwritten, got %q", match.Topic)
	}
	if notifier.count() != 1 {
		t.Errorf("Expected no second notification, got %d", notifier.count())
	}
	if n := len(stack.fake.Records(matchTable)); n != 1 {
		t.Errorf("Expected a single record for the day, got %d", n)
	}
}

func TestJoinSeparatesDates(t *testing.T) {
	svc, stack, _ := newTestMatchService(t, nil)
	ctx := context.Background()

	if _, err := svc.Join(ctx, "2024-03-01", participant("1", "Alice", "")); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	match, err := svc.Join(ctx, "2024-03-02", participant("2", "Bob", ""))
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if match.Status != models.MatchStatusWaiting || len(match.Participants) != 1 {
		t.Errorf("Expected a fresh waiting record for the new date, got %+v", match)
	}
	if n := len(stack.fake.Records(matchTable)); n != 2 {
		t.Errorf("Expected 2 records, got %d", n)
	}
}

func TestFetchTodayReturnsFirstDuplicate(t *testing.T) {
	svc, stack, _ := newTestMatchService(t, nil)
	first := stack.fake.Seed(matchTable, map[string]interface{}{
		models.FieldDate:         "2024-03-01",
		models.FieldParticipants: `[{"id":1,"name":"Alice","avatar":"🙂"}]`,
		models.FieldStatus:       models.MatchStatusWaiting,
	})
	stack.fake.Seed(matchTable, map[string]interface{}{
		models.FieldDate:         "2024-03-01",
		models.FieldParticipants: `[{"id":9,"name":"Zed","avatar":"🙂"}]`,
		models.FieldStatus:       models.MatchStatusWaiting,
	})

	match, err := svc.GetMatch(context.Background(), "2024-03-01")
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if match.ID != first {
		t.Errorf("Expected first row %q, got %q", first, match.ID)
	}
}

func TestFetchTodayMalformedParticipants(t *testing.T) {
	svc, stack, _ := newTestMatchService(t, nil)
	stack.fake.Seed(matchTable, map[string]interface{}{
		models.FieldDate:         "2024-03-01",
		models.FieldParticipants: "not json",
	})

	if _, err := svc.GetMatch(context.Background(), "2024-03-01"); !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestJoinUpstreamFailure(t *testing.T) {
	svc, stack, _ := newTestMatchService(t, nil)
	stack.fake.SetFailRecords(true)

	if _, err := svc.Join(context.Background(), "2024-03-01", participant("1", "Alice", "")); !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestJoinUsesDateIndex(t *testing.T) {
	index := newMemoryIndex()
	svc, stack, _ := newTestMatchService(t, index)
	ctx := context.Background()

	created, err := svc.Join(ctx, "2024-03-01", participant("1", "Alice", ""))
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if id, _ := index.Lookup(ctx, models.KindDailyMatch, "2024-03-01"); id != created.ID {
		t.Fatalf("Expected index to hold %q, got %q", created.ID, id)
	}

	_, listBefore, _, _, _ := stack.fake.Calls()
	match, err := svc.Join(ctx, "2024-03-01", participant("2", "Bob", ""))
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	_, listAfter, gets, _, _ := stack.fake.Calls()

	if listAfter != listBefore {
		t.Errorf("Expected indexed lookup to skip the table scan, got %d extra list calls", listAfter-listBefore)
	}
	if gets != 1 {
		t.Errorf("Expected 1 single-record read, got %d", gets)
	}
	if match.Status != models.MatchStatusMatched {
		t.Errorf("Expected status matched, got %q", match.Status)
	}
}

func TestDateIndexFallsBackToScan(t *testing.T) {
	t.Run("index error", func(t *testing.T) {
		index := newMemoryIndex()
		index.err = errors.New("index down")
		svc, stack, _ := newTestMatchService(t, index)
		id := stack.fake.Seed(matchTable, map[string]interface{}{
			models.FieldDate:   "2024-03-01",
			models.FieldStatus: models.MatchStatusWaiting,
		})

		match, err := svc.GetMatch(context.Background(), "2024-03-01")
		if err != nil {
			t.Fatalf("GetMatch failed: %v", err)
		}
		if match == nil || match.ID != id {
			t.Errorf("Expected scanned record %q, got %+v", id, match)
		}
	})

	t.Run("stale entry", func(t *testing.T) {
		index := newMemoryIndex()
		svc, stack, _ := newTestMatchService(t, index)
		other := stack.fake.Seed(matchTable, map[string]interface{}{models.FieldDate: "2024-02-29"})
		want := stack.fake.Seed(matchTable, map[string]interface{}{models.FieldDate: "2024-03-01"})
		index.entries[indexKey(models.KindDailyMatch, "2024-03-01")] = other

		match, err := svc.GetMatch(context.Background(), "2024-03-01")
		if err != nil {
			t.Fatalf("GetMatch failed: %v", err)
		}
		if match == nil || match.ID != want {
			t.Errorf("Expected scanned record %q, got %+v", want, match)
		}
		if id, _ := index.Lookup(context.Background(), models.KindDailyMatch, "2024-03-01"); id != want {
			t.Errorf("Expected index to be repaired to %q, got %q", want, id)
		}
	})
}

func TestMatchStoreDuplicateCreateWithIndexReadsFirst(t *testing.T) {
	stack := newTestStack(t)
	index := newMemoryIndex()
	store := NewMatchStore(stack.bitable, matchTable, index)
	ctx := context.Background()

	var ids []string
	for _, p := range []models.Participant{participant("1", "Alice", ""), participant("2", "Bob", "")} {
		created, err := store.CreateToday(ctx, &models.DailyMatch{
			Date:         "2024-03-01",
			Participants: []models.Participant{p},
			Status:       models.MatchStatusWaiting,
		}, stack.clock.Now().UnixMilli())
		if err != nil {
			t.Fatalf("CreateToday failed: %v", err)
		}
		ids = append(ids, created.ID)
	}

	match, err := store.FetchToday(ctx, "2024-03-01")
	if err != nil {
		t.Fatalf("FetchToday failed: %v", err)
	}
	if match == nil || match.ID != ids[0] {
		t.Errorf("Expected first record %q, got %+v", ids[0], match)
	}
}
