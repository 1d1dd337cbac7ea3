package core

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valter-silva-au/todo/pkg/models"
)

// DefaultStorageKey is the key the task list is stored under.
const DefaultStorageKey = "notes"

// KeyValueStore is the subset of storage.KeyValueStore the task store uses.
type KeyValueStore interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// EventLogger is the subset of the observability event log that the task
// store needs. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// StoreOptions configures a Store. Zero values select the defaults.
type StoreOptions struct {
	Key    string
	Now    func() time.Time
	Logger *slog.Logger
	Events EventLogger
}

// Store owns the authoritative task list. Every successful mutation writes
// the whole list back to the key-value store before returning.
type Store struct {
	mu         sync.Mutex
	kv         KeyValueStore
	key        string
	now        func() time.Time
	logger     *slog.Logger
	events     EventLogger
	tasks      []models.Task
	persistErr error
}

// NewStore creates an empty Store persisting to kv. Call Hydrate to load the
// previously saved list.
func NewStore(kv KeyValueStore, opts StoreOptions) *Store {
	s := &Store{
		kv:     kv,
		key:    opts.Key,
		now:    opts.Now,
		logger: opts.Logger,
		events: opts.Events,
		tasks:  []models.Task{},
	}
	if s.key == "" {
		s.key = DefaultStorageKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Hydrate replaces the in-memory list with the one saved under the storage
// key. A missing, empty, or malformed value leaves an empty list; read and
// parse failures are logged, never returned. It returns the number of tasks
// loaded.
func (s *Store) Hydrate() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []models.Task{}

	raw, ok, err := s.kv.GetItem(s.key)
	if err != nil {
		s.logger.Warn("reading task list from storage", "key", s.key, "error", err)
		return 0
	}
	if !ok || strings.TrimSpace(raw) == "" {
		s.logger.Debug("no saved task list", "key", s.key)
		return 0
	}

	var stored []models.Task
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("parsing task list from storage", "key", s.key, "error", err)
		return 0
	}
	if len(stored) > 0 {
		s.tasks = stored
	}
	s.logger.Debug("loaded task list", "key", s.key, "count", len(s.tasks))
	return len(s.tasks)
}

// Add validates the input and appends a new Pending task whose id is the
// current time in epoch milliseconds.
func (s *Store) Add(title, description, dueDate string) (*models.Task, error) {
	if err := ValidateTaskInput(title, description, dueDate); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:          s.nextID(),
		Title:       title,
		Description: description,
		DueDate:     strings.TrimSpace(dueDate),
		Status:      models.StatusPending,
	}
	s.tasks = append(s.tasks, task)
	s.persist()
	s.logEvent("task.created", map[string]any{
		"task_id": task.ID,
		"title":   task.Title,
		"status":  string(task.Status),
	})
	return &task, nil
}

// Update validates the input and replaces the title, description and due
// date of the task with the given id, keeping its status. It returns nil
// without error when no task has that id.
func (s *Store) Update(id int64, title, description, dueDate string) (*models.Task, error) {
	if err := ValidateTaskInput(title, description, dueDate); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}

	task := &s.tasks[i]
	task.Title = title
	task.Description = description
	task.DueDate = strings.TrimSpace(dueDate)
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	updated := *task

	s.persist()
	s.logEvent("task.updated", map[string]any{"task_id": id})
	return &updated, nil
}

// Delete removes the task with the given id and reports whether one existed.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	s.persist()
	s.logEvent("task.deleted", map[string]any{"task_id": id})
	return true
}

// SetStatus replaces only the status of the task with the given id and
// reports whether one existed. The status is not validated.
func (s *Store) SetStatus(id int64, status models.TaskStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	old := s.tasks[i].Status
	s.tasks[i].Status = status

	s.persist()
	s.logEvent("task.status_changed", map[string]any{
		"task_id":    id,
		"old_status": string(old),
		"new_status": string(status),
	})
	return true
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id int64) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// All returns a copy of the task list in insertion order.
func (s *Store) All() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// LastPersistError returns the error from the most recent write, or nil if
// it succeeded.
func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// nextID returns the current epoch millisecond, bumped past the largest
// existing id so ids stay unique when several tasks land in one millisecond.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, t := range s.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the full list under the storage key. Failures are logged
// and remembered; the in-memory list stays authoritative.
func (s *Store) persist() {
	data, err := json.Marshal(s.tasks)
	if err == nil {
		err = s.kv.SetItem(s.key, string(data))
	}
	s.persistErr = err
	if err != nil {
		s.logger.Error("saving task list to storage", "key", s.key, "error", err)
		return
	}
	s.logger.Debug("saved task list", "key", s.key, "count", len(s.tasks))
}

func (s *Store) logEvent(eventType string, data map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.LogEvent(eventType, data); err != nil {
		s.logger.Warn("writing event", "type", eventType, "error", err)
	}
}
