package observability

import (
	"fmt"
	"testing"
	"time"

	"github.com/valter-silva-au/todo/pkg/models"
	"pgregory.net/rapid"
)

// Completed tasks never raise due-date alerts, and every open task with a
// past due date raises exactly one overdue alert.
func TestProperty_OverdueAlertsMatchOpenPastDueTasks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		tasks := make([]models.Task, n)
		wantOverdue := 0
		for i := range tasks {
			offset := rapid.IntRange(-30, 30).Draw(rt, fmt.Sprintf("offset_%d", i))
			status := rapid.SampledFrom(models.TaskStatuses).Draw(rt, fmt.Sprintf("status_%d", i))
			due := Today(alertNow).AddDate(0, 0, offset).Format(models.DueDateLayout)
			tasks[i] = models.Task{ID: int64(i + 1), Title: "t", Description: "d", DueDate: due, Status: status}
			if offset < 0 && status != models.StatusCompleted {
				wantOverdue++
			}
		}

		engine := NewAlertEngine(staticTasks(tasks), models.AlertConfig{DueSoonDays: 5}, func() time.Time { return alertNow })
		alerts, err := engine.Evaluate()
		if err != nil {
			rt.Fatalf("evaluating alerts: %v", err)
		}

		byTask := map[int64]models.Task{}
		for _, task := range tasks {
			byTask[task.ID] = task
		}
		overdue := 0
		for _, a := range alerts {
			task := byTask[a.TaskID]
			if task.Status == models.StatusCompleted {
				rt.Fatalf("alert %+v for a completed task", a)
			}
			if a.Condition == ConditionOverdue {
				overdue++
			}
		}
		if overdue != wantOverdue {
			rt.Fatalf("overdue alerts = %d, want %d", overdue, wantOverdue)
		}
	})
}
