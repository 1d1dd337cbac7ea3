package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/todo/internal/cli"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

func TestResolveBasePath_TodoHomeSet(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("TODO_HOME", tmpDir)

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q", got, tmpDir)
	}
}

func TestResolveBasePath_FindsConfig(t *testing.T) {
	for _, name := range []string{core.ConfigFileName, core.ConfigFileName + ".yaml"} {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			subDir := filepath.Join(tmpDir, "sub", "nested")
			if err := os.MkdirAll(subDir, 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("log_level: warn\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			chdir(t, subDir)
			t.Setenv("TODO_HOME", "")

			got := ResolveBasePath()
			if got != tmpDir {
				t.Errorf("ResolveBasePath() = %q, want %q (should find %s in parent)", got, tmpDir, name)
			}
		})
	}
}

func TestResolveBasePath_FallbackToCwd(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("TODO_HOME", "")

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q (cwd fallback)", got, tmpDir)
	}
}

func TestNewApp_Defaults(t *testing.T) {
	dir := t.TempDir()
	restoreCLI(t)

	app, err := newApp(dir, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer app.Close()

	if app.Config.Storage.Backend != models.BackendFile {
		t.Errorf("backend = %q, want file", app.Config.Storage.Backend)
	}
	if app.Store == nil || app.Manager == nil || app.AlertEngine == nil {
		t.Fatal("core services not wired")
	}
	if app.EventLog == nil || app.MetricsCalc == nil {
		t.Error("event log enabled by default but not wired")
	}
	if cli.Manager != app.Manager || cli.AlertEngine != app.AlertEngine {
		t.Error("CLI variables not wired to the app")
	}
	if app.Manager.Filter() != models.FilterAll || app.Manager.Sort() != models.SortNone {
		t.Errorf("initial selectors = %q/%q", app.Manager.Filter(), app.Manager.Sort())
	}
}

func TestNewApp_PersistsAcrossRestarts(t *testing.T) {
	for _, backend := range []models.StorageBackend{models.BackendFile, models.BackendSQLite} {
		t.Run(string(backend), func(t *testing.T) {
			dir := t.TempDir()
			restoreCLI(t)
			writeConfig(t, dir, "storage:\n  backend: "+string(backend)+"\n")

			app, err := newApp(dir, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("newApp: %v", err)
			}
			task, err := app.Store.Add("Buy milk", "2%", "2025-01-01")
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if err := app.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			reopened, err := newApp(dir, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("reopening: %v", err)
			}
			defer reopened.Close()

			got, ok := reopened.Store.Get(task.ID)
			if !ok {
				t.Fatalf("task %d not restored after restart", task.ID)
			}
			if got.Title != "Buy milk" || got.DueDate != "2025-01-01" || got.Status != models.StatusPending {
				t.Errorf("restored task = %+v", got)
			}
		})
	}
}

func TestNewApp_MemoryBackendViaEnv(t *testing.T) {
	dir := t.TempDir()
	restoreCLI(t)
	t.Setenv("TODO_STORAGE_BACKEND", "memory")

	app, err := newApp(dir, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer app.Close()

	if app.Config.Storage.Backend != models.BackendMemory {
		t.Errorf("backend = %q, want memory", app.Config.Storage.Backend)
	}
	if _, err := app.Store.Add("Scratch", "not kept", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "todo.yaml")); !os.IsNotExist(err) {
		t.Errorf("memory backend wrote a data file (stat err = %v)", err)
	}
}

func TestNewApp_EventLogDisabled(t *testing.T) {
	dir := t.TempDir()
	restoreCLI(t)
	writeConfig(t, dir, "event_log: false\n")

	app, err := newApp(dir, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer app.Close()

	if app.EventLog != nil || app.MetricsCalc != nil {
		t.Error("event log should not be wired when disabled")
	}
	if cli.MetricsCalc != nil {
		t.Error("cli.MetricsCalc should be nil when the event log is disabled")
	}
	if _, err := app.Store.Add("Buy milk", "2%", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, EventLogFileName)); !os.IsNotExist(err) {
		t.Errorf("event log file written while disabled (stat err = %v)", err)
	}
}

func TestNewApp_RecordsEvents(t *testing.T) {
	dir := t.TempDir()
	restoreCLI(t)

	app, err := newApp(dir, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer app.Close()

	task, err := app.Store.Add("Buy milk", "2%", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	app.Store.SetStatus(task.ID, models.StatusCompleted)

	m, err := app.MetricsCalc.Calculate(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if m.TasksCreated != 1 || m.TasksCompleted != 1 {
		t.Errorf("metrics = %+v, want 1 created and 1 completed", m)
	}
	if m.StatusChanges[string(models.StatusCompleted)] != 1 {
		t.Errorf("status changes = %v", m.StatusChanges)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown backend", "storage:\n  backend: redis\n", "invalid configuration"},
		{"bad filter", "view:\n  filter: Blocked\n", "invalid configuration"},
		{"malformed yaml", "storage: [unclosed\n", "loading configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			restoreCLI(t)
			writeConfig(t, dir, tt.content)

			_, err := newApp(dir, &bytes.Buffer{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestApp_CloseWithoutEventLog(t *testing.T) {
	app := &App{}
	if err := app.Close(); err != nil {
		t.Errorf("Close on empty App: %v", err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, core.ConfigFileName+".yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// restoreCLI resets the CLI package variables that newApp overwrites.
func restoreCLI(t *testing.T) {
	t.Helper()
	basePath, manager, logger := cli.BasePath, cli.Manager, cli.Logger
	eventLog, alerts, metrics := cli.EventLog, cli.AlertEngine, cli.MetricsCalc
	t.Cleanup(func() {
		cli.BasePath, cli.Manager, cli.Logger = basePath, manager, logger
		cli.EventLog, cli.AlertEngine, cli.MetricsCalc = eventLog, alerts, metrics
	})
}
