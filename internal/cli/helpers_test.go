package cli

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/storage"
	"golang.org/x/text/language"
)

// testClock is the creation time of the first task added in cli tests.
var testClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// withManager installs a Manager over an in-memory store for the duration
// of the test and returns it.
func withManager(t *testing.T) *core.Manager {
	t.Helper()
	store := core.NewStore(storage.NewMemoryStore(), core.StoreOptions{
		Now:    func() time.Time { return testClock },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m := core.NewManager(store, core.ViewOptions{Locale: language.English})

	orig := Manager
	Manager = m
	t.Cleanup(func() { Manager = orig })
	return m
}

func withoutManager(t *testing.T) {
	t.Helper()
	orig := Manager
	Manager = nil
	t.Cleanup(func() { Manager = orig })
}

func mustAdd(t *testing.T, m *core.Manager, title, description, due string) int64 {
	t.Helper()
	task, err := m.Store().Add(title, description, due)
	if err != nil {
		t.Fatalf("Add(%q): %v", title, err)
	}
	return task.ID
}

// captureOutput redirects cmd's stdout and stderr into buffers until the
// test ends.
func captureOutput(t *testing.T, cmd *cobra.Command) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	return stdout, stderr
}

// resetFlags restores every flag of cmd to its default and clears Changed,
// before and after the test.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset()
	t.Cleanup(reset)
}

func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("setting --%s: %v", name, err)
	}
}
