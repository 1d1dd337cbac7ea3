// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the task list as tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
	"github.com/valter-silva-au/todo/pkg/models"
	"golang.org/x/text/language"
)

// TaskStore is the task list the server operates on. *core.Store satisfies
// it.
type TaskStore interface {
	Add(title, description, dueDate string) (*models.Task, error)
	Update(id int64, title, description, dueDate string) (*models.Task, error)
	Delete(id int64) bool
	SetStatus(id int64, status models.TaskStatus) bool
	Get(id int64) (models.Task, bool)
	All() []models.Task
}

// Server wraps the task store and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	store       TaskStore
	locale      language.Tag
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates an MCP server over store. locale orders list_tasks
// results by title. metricsCalc and alertEngine may be nil.
func NewServer(store TaskStore, locale language.Tag, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		store:       store,
		locale:      locale,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "todo", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio, blocking until the client disconnects or the context
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskIDInput struct {
	ID int64 `json:"id" jsonschema:"the task id (epoch milliseconds at creation)"`
}

type taskOutput struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	Status      string `json:"status"`
}

type listTasksInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"status filter: All, Pending, In progress or Completed (default All)"`
	Sort   string `json:"sort,omitempty" jsonschema:"sort order: None, Due Date or Title (default None)"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type addTaskInput struct {
	Title       string `json:"title" jsonschema:"task title, must not be blank"`
	Description string `json:"description" jsonschema:"task description, must not be blank"`
	DueDate     string `json:"due_date,omitempty" jsonschema:"optional due date as YYYY-MM-DD, no later than 2031-12-31"`
}

type updateTaskInput struct {
	ID          int64   `json:"id" jsonschema:"the task id"`
	Title       *string `json:"title,omitempty" jsonschema:"new title; omitted keeps the current one"`
	Description *string `json:"description,omitempty" jsonschema:"new description; omitted keeps the current one"`
	DueDate     *string `json:"due_date,omitempty" jsonschema:"new due date as YYYY-MM-DD; empty string clears it"`
}

type setTaskStatusInput struct {
	ID     int64  `json:"id" jsonschema:"the task id"`
	Status string `json:"status" jsonschema:"the new status: Pending, In progress or Completed"`
}

type messageOutput struct {
	Message string `json:"message"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	TasksCreated   int            `json:"tasks_created"`
	TasksUpdated   int            `json:"tasks_updated"`
	TasksDeleted   int            `json:"tasks_deleted"`
	TasksCompleted int            `json:"tasks_completed"`
	StatusChanges  map[string]int `json:"status_changes"`
	EventCount     int            `json:"event_count"`
	OldestEvent    string         `json:"oldest_event,omitempty"`
	NewestEvent    string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TaskID      int64  `json:"task_id,omitempty"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by status and sorted by due date or title.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get one task by id.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a Pending task. Title and description are required; due_date is optional.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task",
		Description: "Change a task's title, description or due date. The status is kept.",
	}, s.handleUpdateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task by id.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "set_task_status",
		Description: "Set a task's status to Pending, In progress or Completed.",
	}, s.handleSetTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get task activity metrics from the event log: created, updated, deleted, completed and status transitions.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts: overdue tasks, tasks due soon, and a large pending list.",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	filter := models.FilterAll
	if input.Filter != "" {
		f, err := core.ParseFilter(input.Filter)
		if err != nil {
			return errorResult(err.Error()), listTasksOutput{}, nil
		}
		filter = f
	}
	order := models.SortNone
	if input.Sort != "" {
		o, err := core.ParseSort(input.Sort)
		if err != nil {
			return errorResult(err.Error()), listTasksOutput{}, nil
		}
		order = o
	}

	tasks := core.DeriveView(s.store.All(), filter, order, s.locale)
	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, taskOutput, error) {
	task, ok := s.store.Get(input.ID)
	if !ok {
		return errorResult(fmt.Sprintf("task %d not found", input.ID)), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	task, err := s.store.Add(input.Title, input.Description, input.DueDate)
	if err != nil {
		return errorResult(err.Error()), taskOutput{}, nil
	}
	return nil, taskToOutput(*task), nil
}

func (s *Server) handleUpdateTask(_ context.Context, _ *gomcp.CallToolRequest, input updateTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	current, ok := s.store.Get(input.ID)
	if !ok {
		return errorResult(fmt.Sprintf("task %d not found", input.ID)), taskOutput{}, nil
	}

	title, description, due := current.Title, current.Description, current.DueDate
	if input.Title != nil {
		title = *input.Title
	}
	if input.Description != nil {
		description = *input.Description
	}
	if input.DueDate != nil {
		due = *input.DueDate
	}

	task, err := s.store.Update(input.ID, title, description, due)
	if err != nil {
		return errorResult(err.Error()), taskOutput{}, nil
	}
	if task == nil {
		return errorResult(fmt.Sprintf("task %d not found", input.ID)), taskOutput{}, nil
	}
	return nil, taskToOutput(*task), nil
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, messageOutput, error) {
	if !s.store.Delete(input.ID) {
		return errorResult(fmt.Sprintf("task %d not found", input.ID)), messageOutput{}, nil
	}
	return nil, messageOutput{Message: fmt.Sprintf("task %d deleted", input.ID)}, nil
}

func (s *Server) handleSetTaskStatus(_ context.Context, _ *gomcp.CallToolRequest, input setTaskStatusInput) (*gomcp.CallToolResult, messageOutput, error) {
	status, err := core.ParseStatus(input.Status)
	if err != nil {
		return errorResult(err.Error()), messageOutput{}, nil
	}
	if !s.store.SetStatus(input.ID, status) {
		return errorResult(fmt.Sprintf("task %d not found", input.ID)), messageOutput{}, nil
	}
	return nil, messageOutput{Message: fmt.Sprintf("task %d status set to %s", input.ID, status)}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), emptyMetricsOutput(), nil
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
		TasksCreated:   metrics.TasksCreated,
		TasksUpdated:   metrics.TasksUpdated,
		TasksDeleted:   metrics.TasksDeleted,
		TasksCompleted: metrics.TasksCompleted,
		StatusChanges:  metrics.StatusChanges,
		EventCount:     metrics.EventCount,
	}
	if out.StatusChanges == nil {
		out.StatusChanges = make(map[string]int)
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
		return errorResult("alert engine not available"), getAlertsOutput{}, nil
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
			TaskID:      a.TaskID,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
	}
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{StatusChanges: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a duration like "7d", "30d", or "24h" into the
// corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	var num int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &num); err != nil {
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
