package observability

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	PlansMaterialized int             `json:"plans_materialized"`
	PlansCompleted    int             `json:"plans_completed"`
	TasksByStatus     map[string]int  `json:"tasks_by_status"`
	TasksCompleted    int             `json:"tasks_completed"`
	SalesRecorded     int             `json:"sales_recorded"`
	Revenue           decimal.Decimal `json:"revenue"`
	ExpensesAdded     int             `json:"expenses_added"`
	AssetsAdded       int             `json:"assets_added"`
	EventCount        int             `json:"event_count"`
	OldestEvent       *time.Time      `json:"oldest_event,omitempty"`
	NewestEvent       *time.Time      `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into
// metrics. Sale totals are carried in event data as decimal strings and
// summed exactly; a malformed amount is skipped rather than poisoning the
// revenue figure.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		TasksByStatus: make(map[string]int),
		Revenue:       decimal.Zero,
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventPlanMaterialized:
			m.PlansMaterialized++
		case EventPlanStatusChanged:
			if status, ok := event.Data["new_status"].(string); ok && status == "completed" {
				m.PlansCompleted++
			}
		case EventTaskStatusChanged:
			if status, ok := event.Data["new_status"].(string); ok {
				m.TasksByStatus[status]++
				if status == "done" {
					m.TasksCompleted++
				}
			}
		case EventSaleRecorded:
			m.SalesRecorded++
			if totalStr, ok := event.Data["total"].(string); ok {
				if total, err := decimal.NewFromString(totalStr); err == nil {
					m.Revenue = m.Revenue.Add(total)
				}
			}
		case EventExpenseAdded:
			m.ExpensesAdded++
		case EventAssetAdded:
			m.AssetsAdded++
		}
	}

	return m, nil
}
