// Package mcp provides an MCP (Model Context Protocol) server that exposes
// KWACI Grow functionality as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/kwacihq/grow/internal/core"
	"github.com/kwacihq/grow/internal/observability"
	"github.com/kwacihq/grow/pkg/models"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps Grow services and exposes them as MCP tools.
type Server struct {
	server       *gomcp.Server
	planMgr      core.PlanManager
	materializer core.Materializer
	costCalc     core.CostCalculator
	metricsCalc  observability.MetricsCalculator
	alertEngine  observability.AlertEngine
	events       observability.EventLog
}

// NewServer creates a new MCP server with the given service dependencies.
// metricsCalc, alertEngine, and events may be nil if observability is
// disabled.
func NewServer(planMgr core.PlanManager, materializer core.Materializer, costCalc core.CostCalculator, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, events observability.EventLog, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		planMgr:      planMgr,
		materializer: materializer,
		costCalc:     costCalc,
		metricsCalc:  metricsCalc,
		alertEngine:  alertEngine,
		events:       events,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "grow", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// emit appends an event to the business event log. Observability is
// best-effort: a nil or failing log never fails a tool call.
func (s *Server) emit(eventType, msg string, data map[string]any) {
	if s.events == nil {
		return
	}
	_ = s.events.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: msg,
		Data:    data,
	})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getPlanInput struct {
	PlanID string `json:"plan_id" jsonschema:"required,the unique plan identifier (e.g. PLAN-00042)"`
}

type goalOutput struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	BranchID      string   `json:"branch_id"`
	LinkedTaskIDs []string `json:"linked_task_ids,omitempty"`
}

type taskOutput struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	Dependencies []string `json:"dependencies,omitempty"`
}

type planOutput struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	Status     string       `json:"status"`
	BranchID   string       `json:"branch_id,omitempty"`
	TemplateID string       `json:"template_id,omitempty"`
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`
	Goals      []goalOutput `json:"goals,omitempty"`
	Tasks      []taskOutput `json:"tasks,omitempty"`
}

type listPlansInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter plans by status (draft, active, completed, cancelled)"`
}

type listPlansOutput struct {
	Plans []planOutput `json:"plans"`
	Count int          `json:"count"`
}

type materializePlanInput struct {
	TemplateID string `json:"template_id" jsonschema:"required,the plan template to materialize (e.g. TMPL-DAILY-OPS)"`
	Name       string `json:"name" jsonschema:"required,name for the new plan"`
	BranchID   string `json:"branch_id,omitempty" jsonschema:"branch to pin the plan to; required when the template has goals"`
	StartDate  string `json:"start_date,omitempty" jsonschema:"plan start date in RFC 3339 or 2006-01-02 form; defaults to today"`
	EndDate    string `json:"end_date,omitempty" jsonschema:"plan end date in RFC 3339 or 2006-01-02 form"`
}

type updateTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier (e.g. TASK-00042)"`
	Status string `json:"status" jsonschema:"required,the new status (not_started, in_progress, blocked, done, cancelled)"`
}

type updateTaskStatusOutput struct {
	Message string `json:"message"`
}

type getCogsInput struct {
	ProductID string `json:"product_id" jsonschema:"required,the product to cost (e.g. PROD-00001)"`
}

type cogsLineOutput struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
	UnitCost     string `json:"unit_cost"`
	LineCost     string `json:"line_cost"`
}

type cogsOutput struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Lines     []cogsLineOutput `json:"lines"`
	TotalCost string           `json:"total_cost"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	PlansMaterialized int            `json:"plans_materialized"`
	PlansCompleted    int            `json:"plans_completed"`
	TasksByStatus     map[string]int `json:"tasks_by_status"`
	TasksCompleted    int            `json:"tasks_completed"`
	SalesRecorded     int            `json:"sales_recorded"`
	Revenue           string         `json:"revenue"`
	ExpensesAdded     int            `json:"expenses_added"`
	AssetsAdded       int            `json:"assets_added"`
	EventCount        int            `json:"event_count"`
	OldestEvent       string         `json:"oldest_event,omitempty"`
	NewestEvent       string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_plan",
		Description: "Get a plan by ID, including its goals (with linked task IDs) and tasks (with dependencies).",
	}, s.handleGetPlan)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_plans",
		Description: "List plans with an optional status filter. Returns an array of plan summaries.",
	}, s.handleListPlans)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "materialize_plan",
		Description: "Create a concrete plan from a plan template. Requires branch_id when the template carries goals.",
	}, s.handleMaterializePlan)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task_status",
		Description: "Update a plan task's status. Valid statuses: not_started, in_progress, blocked, done, cancelled.",
	}, s.handleUpdateTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_cogs",
		Description: "Compute the cost of goods for one portion of a product, with the per-ingredient breakdown.",
	}, s.handleGetCogs)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log: plans, tasks, sales counts, and exact revenue.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (blocked tasks, stale tasks, too many open plans).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleGetPlan(_ context.Context, _ *gomcp.CallToolRequest, input getPlanInput) (*gomcp.CallToolResult, planOutput, error) {
	if input.PlanID == "" {
		return errorResult("plan_id is required"), planOutput{}, nil
	}

	detail, err := s.planMgr.GetPlanDetail(input.PlanID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting plan %s: %s", input.PlanID, err)), planOutput{}, nil
	}

	return nil, planDetailToOutput(detail), nil
}

func (s *Server) handleListPlans(_ context.Context, _ *gomcp.CallToolRequest, input listPlansInput) (*gomcp.CallToolResult, listPlansOutput, error) {
	plans, err := s.planMgr.ListPlans()
	if err != nil {
		return errorResult(fmt.Sprintf("listing plans: %s", err)), listPlansOutput{}, nil
	}

	out := listPlansOutput{}
	for _, plan := range plans {
		if input.Status != "" && string(plan.Status) != input.Status {
			continue
		}
		out.Plans = append(out.Plans, planToOutput(plan))
	}
	out.Count = len(out.Plans)

	return nil, out, nil
}

func (s *Server) handleMaterializePlan(_ context.Context, _ *gomcp.CallToolRequest, input materializePlanInput) (*gomcp.CallToolResult, planOutput, error) {
	if input.TemplateID == "" {
		return errorResult("template_id is required"), planOutput{}, nil
	}
	if input.Name == "" {
		return errorResult("name is required"), planOutput{}, nil
	}

	startDate, err := parseDate(input.StartDate, time.Now().UTC())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing start_date: %s", err)), planOutput{}, nil
	}
	endDate, err := parseDate(input.EndDate, startDate)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing end_date: %s", err)), planOutput{}, nil
	}

	result, err := s.materializer.MaterializePlan(input.TemplateID, core.PlanDescriptor{
		Name:      input.Name,
		StartDate: startDate,
		EndDate:   endDate,
		BranchID:  input.BranchID,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("materializing plan from %s: %s", input.TemplateID, err)), planOutput{}, nil
	}

	s.emit(observability.EventPlanMaterialized, "plan created from template", map[string]any{
		"plan_id":     result.Plan.ID,
		"template_id": input.TemplateID,
		"goals":       len(result.Goals),
		"tasks":       len(result.Tasks),
	})

	out := planToOutput(result.Plan)
	for _, goal := range result.Goals {
		out.Goals = append(out.Goals, goalToOutput(goal))
	}
	for _, task := range result.Tasks {
		out.Tasks = append(out.Tasks, taskToOutput(task))
	}
	return nil, out, nil
}

func (s *Server) handleUpdateTaskStatus(_ context.Context, _ *gomcp.CallToolRequest, input updateTaskStatusInput) (*gomcp.CallToolResult, updateTaskStatusOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), updateTaskStatusOutput{}, nil
	}
	if input.Status == "" {
		return errorResult("status is required"), updateTaskStatusOutput{}, nil
	}

	validStatuses := map[string]bool{
		"not_started": true, "in_progress": true, "blocked": true,
		"done": true, "cancelled": true,
	}
	if !validStatuses[input.Status] {
		return errorResult(fmt.Sprintf("invalid status %q: must be one of not_started, in_progress, blocked, done, cancelled", input.Status)), updateTaskStatusOutput{}, nil
	}

	if err := s.planMgr.UpdateTaskStatus(input.TaskID, models.TaskStatus(input.Status)); err != nil {
		return errorResult(fmt.Sprintf("updating task %s status: %s", input.TaskID, err)), updateTaskStatusOutput{}, nil
	}

	s.emit(observability.EventTaskStatusChanged, "task status updated", map[string]any{
		"task_id":    input.TaskID,
		"new_status": input.Status,
	})

	out := updateTaskStatusOutput{
		Message: fmt.Sprintf("task %s status updated to %s", input.TaskID, input.Status),
	}
	return nil, out, nil
}

func (s *Server) handleGetCogs(_ context.Context, _ *gomcp.CallToolRequest, input getCogsInput) (*gomcp.CallToolResult, cogsOutput, error) {
	if input.ProductID == "" {
		return errorResult("product_id is required"), cogsOutput{}, nil
	}

	breakdown, err := s.costCalc.CostOfGoods(input.ProductID)
	if err != nil {
		return errorResult(fmt.Sprintf("costing product %s: %s", input.ProductID, err)), cogsOutput{}, nil
	}

	out := cogsOutput{
		ProductID: breakdown.ProductID,
		Name:      breakdown.Name,
		TotalCost: breakdown.TotalCost.String(),
	}
	for _, line := range breakdown.Lines {
		out.Lines = append(out.Lines, cogsLineOutput{
			IngredientID: line.IngredientID,
			Name:         line.Name,
			Quantity:     line.Quantity.String(),
			Unit:         line.Unit,
			UnitCost:     line.UnitCost.String(),
			LineCost:     line.LineCost.String(),
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		PlansMaterialized: metrics.PlansMaterialized,
		PlansCompleted:    metrics.PlansCompleted,
		TasksByStatus:     metrics.TasksByStatus,
		TasksCompleted:    metrics.TasksCompleted,
		SalesRecorded:     metrics.SalesRecorded,
		Revenue:           metrics.Revenue.String(),
		ExpensesAdded:     metrics.ExpensesAdded,
		AssetsAdded:       metrics.AssetsAdded,
		EventCount:        metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func planToOutput(plan models.OperationalPlan) planOutput {
	return planOutput{
		ID:         plan.ID,
		Name:       plan.Name,
		Type:       string(plan.Type),
		Status:     string(plan.Status),
		BranchID:   plan.BranchID,
		TemplateID: plan.TemplateID,
		StartDate:  plan.StartDate.Format(time.RFC3339),
		EndDate:    plan.EndDate.Format(time.RFC3339),
	}
}

func planDetailToOutput(detail *core.PlanDetail) planOutput {
	out := planToOutput(detail.Plan)
	for _, goal := range detail.Goals {
		out.Goals = append(out.Goals, goalToOutput(goal))
	}
	for _, task := range detail.Tasks {
		out.Tasks = append(out.Tasks, taskToOutput(task))
	}
	return out
}

func goalToOutput(goal models.PlanGoal) goalOutput {
	return goalOutput{
		ID:            goal.ID,
		Title:         goal.Title,
		Category:      goal.Category,
		BranchID:      goal.BranchID,
		LinkedTaskIDs: goal.LinkedTaskIDs,
	}
}

func taskToOutput(task models.PlanTask) taskOutput {
	return taskOutput{
		ID:           task.ID,
		Title:        task.Title,
		Category:     task.Category,
		Status:       string(task.Status),
		Priority:     string(task.Priority),
		Dependencies: task.Dependencies,
	}
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		TasksByStatus: make(map[string]int),
		Revenue:       "0",
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseDate accepts RFC 3339 or plain 2006-01-02 dates; empty input yields
// the fallback.
func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use RFC 3339 or 2006-01-02)", s)
	}
	return t, nil
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
