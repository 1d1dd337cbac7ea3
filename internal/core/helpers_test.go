package core

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// fakeKV is an in-memory KeyValueStore with injectable failures.
type fakeKV struct {
	mu       sync.Mutex
	items    map[string]string
	getErr   error
	setErr   error
	setCalls int
}

func newFakeKV() *fakeKV {
	return &fakeKV{items: make(map[string]string)}
}

func (f *fakeKV) GetItem(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.items[key]
	return v, ok, nil
}

func (f *fakeKV) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.items[key] = value
	return nil
}

// recordingEvents captures events written through the EventLogger interface.
type recordingEvents struct {
	types []string
	data  []map[string]any
	err   error
}

func (r *recordingEvents) LogEvent(eventType string, data map[string]any) error {
	r.types = append(r.types, eventType)
	r.data = append(r.data, data)
	return r.err
}

var errDiskFull = errors.New("disk full")

// fixedClock returns a Now function pinned to 2025-01-01T12:00:00Z.
func fixedClock() func() time.Time {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, kv KeyValueStore) *Store {
	t.Helper()
	return NewStore(kv, StoreOptions{Now: fixedClock(), Logger: discardLogger()})
}

func mustAdd(t *testing.T, s *Store, title, description, due string) int64 {
	t.Helper()
	task, err := s.Add(title, description, due)
	if err != nil {
		t.Fatalf("Add(%q): unexpected error: %v", title, err)
	}
	return task.ID
}
