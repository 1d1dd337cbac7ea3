package observability

import (
	"fmt"
	"sort"
	"time"

	"github.com/valter-silva-au/todo/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert conditions.
const (
	ConditionOverdue        = "task_overdue"
	ConditionDueSoon        = "task_due_soon"
	ConditionPendingBacklog = "pending_backlog_large"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TaskID      int64         `json:"task_id,omitempty"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// TaskSource supplies the current task list.
type TaskSource interface {
	All() []models.Task
}

// AlertEngine evaluates alert conditions.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

type alertEngine struct {
	tasks      TaskSource
	thresholds models.AlertConfig
	now        func() time.Time
}

// NewAlertEngine creates an AlertEngine over tasks. A nil now uses
// time.Now; "today" is the calendar date of now in its own location.
func NewAlertEngine(tasks TaskSource, thresholds models.AlertConfig, now func() time.Time) AlertEngine {
	if now == nil {
		now = time.Now
	}
	return &alertEngine{tasks: tasks, thresholds: thresholds, now: now}
}

// Evaluate returns the triggered alerts, most severe first. Within a
// severity, task alerts are ordered by due date.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := ae.now()
	today := Today(now)
	tasks := ae.tasks.All()

	var alerts []Alert
	alerts = append(alerts, ae.checkDueDates(tasks, today, now)...)
	alerts = append(alerts, ae.checkPendingBacklog(tasks, now)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})
	return alerts, nil
}

// checkDueDates flags open tasks that are past due (high) or due within
// DueSoonDays of today, inclusive (medium).
func (ae *alertEngine) checkDueDates(tasks []models.Task, today, now time.Time) []Alert {
	type dated struct {
		task models.Task
		due  time.Time
	}
	var open []dated
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			continue
		}
		due, err := time.Parse(models.DueDateLayout, t.DueDate)
		if err != nil {
			continue
		}
		open = append(open, dated{task: t, due: due})
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].due.Before(open[j].due) })

	var alerts []Alert
	for _, d := range open {
		days := int(d.due.Sub(today).Hours() / 24)
		switch {
		case days < 0:
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("overdue-%d", d.task.ID),
				Condition:   ConditionOverdue,
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("task %q was due %s (%d days ago)", d.task.Title, d.task.DueDate, -days),
				TaskID:      d.task.ID,
				TriggeredAt: now,
			})
		case days <= ae.thresholds.DueSoonDays:
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("due-soon-%d", d.task.ID),
				Condition:   ConditionDueSoon,
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("task %q is due %s", d.task.Title, dueIn(days)),
				TaskID:      d.task.ID,
				TriggeredAt: now,
			})
		}
	}
	return alerts
}

// checkPendingBacklog fires when more than MaxPendingTasks tasks are
// Pending. A threshold of zero disables the check.
func (ae *alertEngine) checkPendingBacklog(tasks []models.Task, now time.Time) []Alert {
	if ae.thresholds.MaxPendingTasks <= 0 {
		return nil
	}
	pending := 0
	for _, t := range tasks {
		if t.Status == models.StatusPending {
			pending++
		}
	}
	if pending <= ae.thresholds.MaxPendingTasks {
		return nil
	}
	return []Alert{{
		ID:          "pending-backlog",
		Condition:   ConditionPendingBacklog,
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("%d tasks are pending, exceeding the maximum of %d", pending, ae.thresholds.MaxPendingTasks),
		TriggeredAt: now,
	}}
}

// Today returns the calendar date of t as UTC midnight, the form due dates
// parse to.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dueIn(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", days)
}

func severityRank(s AlertSeverity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	}
	return 3
}
