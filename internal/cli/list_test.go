package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/valter-silva-au/todo/pkg/models"
)

func TestListCmd_Empty(t *testing.T) {
	withManager(t)
	resetFlags(t, listCmd)
	stdout, _ := captureOutput(t, listCmd)

	if err := listCmd.RunE(listCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "No tasks found.") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}

func TestListCmd_Table(t *testing.T) {
	m := withManager(t)
	mustAdd(t, m, "Buy milk", "2%", "2025-01-01")
	mustAdd(t, m, "Call mom", "Sunday", "")
	resetFlags(t, listCmd)
	stdout, _ := captureOutput(t, listCmd)

	if err := listCmd.RunE(listCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"ID", "STATUS", "TITLE", "Buy milk", "Call mom", "2025-01-01", "Pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListCmd_FilterAndSortJSON(t *testing.T) {
	m := withManager(t)
	late := mustAdd(t, m, "Late", "b", "2025-05-01")
	done := mustAdd(t, m, "Done", "c", "2025-01-01")
	early := mustAdd(t, m, "Early", "a", "2025-02-01")
	undated := mustAdd(t, m, "Undated", "d", "")
	m.SetStatus(done, models.StatusCompleted)

	resetFlags(t, listCmd)
	stdout, _ := captureOutput(t, listCmd)
	setFlag(t, listCmd, "filter", "pending")
	setFlag(t, listCmd, "sort", "due-date")
	setFlag(t, listCmd, "json", "true")

	if err := listCmd.RunE(listCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal(stdout.Bytes(), &tasks); err != nil {
		t.Fatalf("parsing JSON output: %v\n%s", err, stdout.String())
	}
	var ids []int64
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	want := []int64{early, late, undated}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestListCmd_InvalidSelectors(t *testing.T) {
	withManager(t)
	resetFlags(t, listCmd)
	captureOutput(t, listCmd)

	setFlag(t, listCmd, "filter", "blocked")
	if err := listCmd.RunE(listCmd, nil); err == nil {
		t.Error("expected error for unknown filter")
	}

	resetFlags(t, listCmd)
	setFlag(t, listCmd, "sort", "priority")
	if err := listCmd.RunE(listCmd, nil); err == nil {
		t.Error("expected error for unknown sort order")
	}
}
