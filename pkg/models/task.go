package models

// TaskStatus represents the lifecycle state of a task. The string values are
// the ones shown to users and written to storage.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In progress"
	StatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every valid status in display order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// FilterStatus selects which tasks the derived view keeps.
type FilterStatus string

const (
	FilterAll        FilterStatus = "All"
	FilterPending    FilterStatus = FilterStatus(StatusPending)
	FilterInProgress FilterStatus = FilterStatus(StatusInProgress)
	FilterCompleted  FilterStatus = FilterStatus(StatusCompleted)
)

// FilterStatuses lists the filter selector options in display order.
var FilterStatuses = []FilterStatus{FilterAll, FilterPending, FilterInProgress, FilterCompleted}

// SortOrder selects how the derived view is ordered.
type SortOrder string

const (
	SortNone    SortOrder = "None"
	SortDueDate SortOrder = "Due Date"
	SortTitle   SortOrder = "Title"
)

// SortOrders lists the sort selector options in display order.
var SortOrders = []SortOrder{SortNone, SortDueDate, SortTitle}

// DueDateLayout is the ISO calendar date format used for Task.DueDate.
const DueDateLayout = "2006-01-02"

// MaxDueDate is the latest due date a task may carry.
const MaxDueDate = "2031-12-31"

// Task is a single to-do item. It is the only persisted entity; the JSON
// field names match the stored array under the "notes" key.
type Task struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	DueDate     string     `json:"dueDate" yaml:"due_date,omitempty"`
	Status      TaskStatus `json:"status" yaml:"status"`
}
