package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLog_WriteAndRead(t *testing.T) {
	log, _ := newTestLog(t)
	event := Event{
		Time:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Level:   "INFO",
		Type:    EventPlanMaterialized,
		Message: "materialized plan PLAN-1",
		Data:    map[string]any{"plan_id": "PLAN-1"},
	}
	if err := log.Write(event); err != nil {
		t.Fatalf("writing: %v", err)
	}

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.Type != EventPlanMaterialized || got.Message != "materialized plan PLAN-1" {
		t.Errorf("event changed in round trip: %+v", got)
	}
	if planID, _ := got.Data["plan_id"].(string); planID != "PLAN-1" {
		t.Errorf("data lost in round trip: %v", got.Data)
	}
}

func TestEventLog_FilterByTypeAndLevel(t *testing.T) {
	log, _ := newTestLog(t)
	now := time.Now().UTC()
	for _, event := range []Event{
		{Time: now, Level: "INFO", Type: EventSaleRecorded},
		{Time: now, Level: "WARN", Type: EventSaleRecorded},
		{Time: now, Level: "INFO", Type: EventExpenseAdded},
	} {
		if err := log.Write(event); err != nil {
			t.Fatalf("writing: %v", err)
		}
	}

	sales, err := log.Read(EventFilter{Type: EventSaleRecorded})
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(sales) != 2 {
		t.Errorf("expected 2 sale events, got %d", len(sales))
	}
	warns, err := log.Read(EventFilter{Level: "WARN"})
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(warns) != 1 || warns[0].Type != EventSaleRecorded {
		t.Errorf("level filter: got %+v", warns)
	}
}

func TestEventLog_FilterByTimeWindow(t *testing.T) {
	log, _ := newTestLog(t)
	base := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	for hour := 0; hour < 5; hour++ {
		event := Event{Time: base.Add(time.Duration(hour) * time.Hour), Level: "INFO", Type: EventSaleRecorded}
		if err := log.Write(event); err != nil {
			t.Fatalf("writing: %v", err)
		}
	}

	since := base.Add(1 * time.Hour)
	until := base.Add(3 * time.Hour)
	events, err := log.Read(EventFilter{Since: &since, Until: &until})
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	// Since and Until are both inclusive.
	if len(events) != 3 {
		t.Errorf("expected 3 events in window, got %d", len(events))
	}
}

func TestEventLog_SkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)
	if err := log.Write(Event{Time: time.Now().UTC(), Level: "INFO", Type: EventSaleRecorded}); err != nil {
		t.Fatalf("writing: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening log for corruption: %v", err)
	}
	if _, err := f.WriteString("not json\n\n"); err != nil {
		t.Fatalf("appending garbage: %v", err)
	}
	_ = f.Close()
	if err := log.Write(Event{Time: time.Now().UTC(), Level: "INFO", Type: EventExpenseAdded}); err != nil {
		t.Fatalf("writing after corruption: %v", err)
	}

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected the 2 valid events, got %d", len(events))
	}
}

func TestEventLog_MissingFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating: %v", err)
	}
	defer func() { _ = log.Close() }()

	_ = os.Remove(path)
	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading missing file: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
