package observability

import (
	"fmt"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	BlockedHours  int `yaml:"blocked_threshold_hours" json:"blocked_threshold_hours"`
	StaleTaskDays int `yaml:"stale_task_days" json:"stale_task_days"`
	MaxOpenPlans  int `yaml:"max_open_plans" json:"max_open_plans"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		BlockedHours:  24,
		StaleTaskDays: 3,
		MaxOpenPlans:  10,
	}
}

// AlertEngine evaluates alert conditions against the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

// alertEngine implements AlertEngine by reading events and checking thresholds.
type alertEngine struct {
	eventLog   EventLog
	thresholds AlertThresholds
}

// NewAlertEngine creates a new AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		thresholds: thresholds,
	}
}

// Evaluate reads events and checks all alert conditions, returning any triggered alerts.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := time.Now().UTC()
	var alerts []Alert

	blockedAlerts, err := ae.checkBlockedTasks(now)
	if err != nil {
		return nil, fmt.Errorf("checking blocked tasks: %w", err)
	}
	alerts = append(alerts, blockedAlerts...)

	staleAlerts, err := ae.checkStaleTasks(now)
	if err != nil {
		return nil, fmt.Errorf("checking stale tasks: %w", err)
	}
	alerts = append(alerts, staleAlerts...)

	openPlanAlerts, err := ae.checkOpenPlans(now)
	if err != nil {
		return nil, fmt.Errorf("checking open plans: %w", err)
	}
	alerts = append(alerts, openPlanAlerts...)

	return alerts, nil
}

// checkBlockedTasks looks for tasks that have been blocked longer than the threshold.
func (ae *alertEngine) checkBlockedTasks(now time.Time) ([]Alert, error) {
	tasks, err := ae.latestTaskStates()
	if err != nil {
		return nil, err
	}

	threshold := time.Duration(ae.thresholds.BlockedHours) * time.Hour
	var alerts []Alert
	for taskID, state := range tasks {
		if state.status == "blocked" && now.Sub(state.changedAt) > threshold {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("blocked-%s", taskID),
				Condition:   "task_blocked_too_long",
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("task %s has been blocked for more than %d hours", taskID, ae.thresholds.BlockedHours),
				TriggeredAt: now,
			})
		}
	}

	return alerts, nil
}

// checkStaleTasks looks for in-progress tasks with no recent status activity.
func (ae *alertEngine) checkStaleTasks(now time.Time) ([]Alert, error) {
	tasks, err := ae.latestTaskStates()
	if err != nil {
		return nil, err
	}

	threshold := time.Duration(ae.thresholds.StaleTaskDays) * 24 * time.Hour
	var alerts []Alert
	for taskID, state := range tasks {
		if state.status == "in_progress" && now.Sub(state.changedAt) > threshold {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("stale-%s", taskID),
				Condition:   "task_stale",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("task %s has had no activity for more than %d days", taskID, ae.thresholds.StaleTaskDays),
				TriggeredAt: now,
			})
		}
	}

	return alerts, nil
}

// checkOpenPlans counts plans materialized but never completed or cancelled
// and alerts when the count exceeds the threshold.
func (ae *alertEngine) checkOpenPlans(now time.Time) ([]Alert, error) {
	materialized, err := ae.eventLog.Read(EventFilter{Type: EventPlanMaterialized})
	if err != nil {
		return nil, err
	}
	statusChanges, err := ae.eventLog.Read(EventFilter{Type: EventPlanStatusChanged})
	if err != nil {
		return nil, err
	}

	open := make(map[string]bool)
	for _, event := range materialized {
		if planID, ok := event.Data["plan_id"].(string); ok && planID != "" {
			open[planID] = true
		}
	}
	for _, event := range statusChanges {
		planID, _ := event.Data["plan_id"].(string)
		status, _ := event.Data["new_status"].(string)
		if planID == "" {
			continue
		}
		switch status {
		case "completed", "cancelled":
			delete(open, planID)
		case "active", "draft":
			if _, known := open[planID]; known {
				open[planID] = true
			}
		}
	}

	if len(open) <= ae.thresholds.MaxOpenPlans {
		return nil, nil
	}

	return []Alert{{
		ID:          "open-plans",
		Condition:   "too_many_open_plans",
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("%d plans are open (threshold %d); close or cancel finished plans", len(open), ae.thresholds.MaxOpenPlans),
		TriggeredAt: now,
	}}, nil
}

type taskState struct {
	status    string
	changedAt time.Time
}

// latestTaskStates folds status-change events into the latest status per task.
func (ae *alertEngine) latestTaskStates() (map[string]taskState, error) {
	events, err := ae.eventLog.Read(EventFilter{Type: EventTaskStatusChanged})
	if err != nil {
		return nil, err
	}

	tasks := make(map[string]taskState)
	for _, event := range events {
		taskID, _ := event.Data["task_id"].(string)
		newStatus, _ := event.Data["new_status"].(string)
		if taskID == "" || newStatus == "" {
			continue
		}
		tasks[taskID] = taskState{status: newStatus, changedAt: event.Time}
	}
	return tasks, nil
}
