package observability

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMetrics_AggregatesEvents(t *testing.T) {
	log, _ := newTestLog(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Time: base, Level: "INFO", Type: EventPlanMaterialized, Data: map[string]any{"plan_id": "PLAN-1"}},
		{Time: base.Add(1 * time.Minute), Level: "INFO", Type: EventSaleRecorded, Data: map[string]any{"total": "25.50"}},
		{Time: base.Add(2 * time.Minute), Level: "INFO", Type: EventSaleRecorded, Data: map[string]any{"total": "12.25"}},
		{Time: base.Add(3 * time.Minute), Level: "INFO", Type: EventTaskStatusChanged, Data: map[string]any{"task_id": "TASK-1", "new_status": "done"}},
		{Time: base.Add(4 * time.Minute), Level: "INFO", Type: EventTaskStatusChanged, Data: map[string]any{"task_id": "TASK-2", "new_status": "blocked"}},
		{Time: base.Add(5 * time.Minute), Level: "INFO", Type: EventPlanStatusChanged, Data: map[string]any{"plan_id": "PLAN-1", "new_status": "completed"}},
		{Time: base.Add(6 * time.Minute), Level: "INFO", Type: EventExpenseAdded},
		{Time: base.Add(7 * time.Minute), Level: "INFO", Type: EventAssetAdded},
	}
	for _, event := range events {
		if err := log.Write(event); err != nil {
			t.Fatalf("writing: %v", err)
		}
	}

	calc := NewMetricsCalculator(log)
	metrics, err := calc.Calculate(base)
	if err != nil {
		t.Fatalf("calculating: %v", err)
	}

	if metrics.PlansMaterialized != 1 {
		t.Errorf("plans materialized: expected 1, got %d", metrics.PlansMaterialized)
	}
	if metrics.PlansCompleted != 1 {
		t.Errorf("plans completed: expected 1, got %d", metrics.PlansCompleted)
	}
	if metrics.SalesRecorded != 2 {
		t.Errorf("sales recorded: expected 2, got %d", metrics.SalesRecorded)
	}
	if !metrics.Revenue.Equal(decimal.RequireFromString("37.75")) {
		t.Errorf("revenue: expected 37.75, got %s", metrics.Revenue)
	}
	if metrics.TasksCompleted != 1 {
		t.Errorf("tasks completed: expected 1, got %d", metrics.TasksCompleted)
	}
	if metrics.TasksByStatus["blocked"] != 1 || metrics.TasksByStatus["done"] != 1 {
		t.Errorf("tasks by status: %v", metrics.TasksByStatus)
	}
	if metrics.ExpensesAdded != 1 || metrics.AssetsAdded != 1 {
		t.Errorf("expenses/assets: %d/%d", metrics.ExpensesAdded, metrics.AssetsAdded)
	}
	if metrics.EventCount != len(events) {
		t.Errorf("event count: expected %d, got %d", len(events), metrics.EventCount)
	}
	if metrics.OldestEvent == nil || !metrics.OldestEvent.Equal(base) {
		t.Errorf("oldest event: %v", metrics.OldestEvent)
	}
	if metrics.NewestEvent == nil || !metrics.NewestEvent.Equal(base.Add(7*time.Minute)) {
		t.Errorf("newest event: %v", metrics.NewestEvent)
	}
}

func TestMetrics_SinceCutsOffOlderEvents(t *testing.T) {
	log, _ := newTestLog(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	old := Event{Time: base.Add(-48 * time.Hour), Level: "INFO", Type: EventSaleRecorded, Data: map[string]any{"total": "100"}}
	recent := Event{Time: base, Level: "INFO", Type: EventSaleRecorded, Data: map[string]any{"total": "25"}}
	for _, event := range []Event{old, recent} {
		if err := log.Write(event); err != nil {
			t.Fatalf("writing: %v", err)
		}
	}

	metrics, err := NewMetricsCalculator(log).Calculate(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("calculating: %v", err)
	}
	if metrics.SalesRecorded != 1 {
		t.Errorf("expected only the recent sale, got %d", metrics.SalesRecorded)
	}
	if !metrics.Revenue.Equal(decimal.RequireFromString("25")) {
		t.Errorf("revenue: expected 25, got %s", metrics.Revenue)
	}
}

func TestMetrics_MalformedTotalSkipped(t *testing.T) {
	log, _ := newTestLog(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for _, event := range []Event{
		{Time: base, Level: "INFO", Type: EventSaleRecorded, Data: map[string]any{"total": "25"}},
		{Time: base, Level: "INFO", Type: EventSaleRecorded, Data: map[string]any{"total": "oops"}},
		{Time: base, Level: "INFO", Type: EventSaleRecorded},
	} {
		if err := log.Write(event); err != nil {
			t.Fatalf("writing: %v", err)
		}
	}

	metrics, err := NewMetricsCalculator(log).Calculate(base)
	if err != nil {
		t.Fatalf("calculating: %v", err)
	}
	// The sale still counts even when its amount cannot be parsed.
	if metrics.SalesRecorded != 3 {
		t.Errorf("expected 3 sales, got %d", metrics.SalesRecorded)
	}
	if !metrics.Revenue.Equal(decimal.RequireFromString("25")) {
		t.Errorf("revenue: expected 25, got %s", metrics.Revenue)
	}
}

func TestMetrics_EmptyLog(t *testing.T) {
	log, _ := newTestLog(t)
	metrics, err := NewMetricsCalculator(log).Calculate(time.Time{})
	if err != nil {
		t.Fatalf("calculating: %v", err)
	}
	if metrics.EventCount != 0 || metrics.OldestEvent != nil {
		t.Errorf("expected empty metrics, got %+v", metrics)
	}
	if !metrics.Revenue.Equal(decimal.Zero) {
		t.Errorf("revenue should start at zero, got %s", metrics.Revenue)
	}
}
