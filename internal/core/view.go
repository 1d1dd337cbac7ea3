package core

import (
	"sort"
	"time"

	"github.com/valter-silva-au/todo/pkg/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DeriveView returns the tasks to display: a fresh slice holding the tasks
// that pass filter, ordered by order. tasks is never modified.
//
// Due Date ordering is ascending with missing or unparsable dates last.
// Title ordering uses the collation rules of locale. Both sorts are stable,
// so ties keep insertion order.
func DeriveView(tasks []models.Task, filter models.FilterStatus, order models.SortOrder, locale language.Tag) []models.Task {
	view := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter == "" || filter == models.FilterAll || models.FilterStatus(t.Status) == filter {
			view = append(view, t)
		}
	}

	switch order {
	case models.SortDueDate:
		keyed := make([]keyedTask, len(view))
		for i, t := range view {
			keyed[i] = keyedTask{task: t, key: newDueKey(t.DueDate)}
		}
		sort.SliceStable(keyed, func(i, j int) bool {
			return keyed[i].key.less(keyed[j].key)
		})
		for i := range keyed {
			view[i] = keyed[i].task
		}
	case models.SortTitle:
		c := collate.New(locale)
		sort.SliceStable(view, func(i, j int) bool {
			return c.CompareString(view[i].Title, view[j].Title) < 0
		})
	}

	return view
}

type keyedTask struct {
	task models.Task
	key  dueKey
}

// dueKey is the sort key for a due date; unset dates order after set ones.
type dueKey struct {
	set  bool
	date time.Time
}

func newDueKey(s string) dueKey {
	d, ok := ParseDueDate(s)
	return dueKey{set: ok, date: d}
}

func (k dueKey) less(other dueKey) bool {
	if k.set != other.set {
		return k.set
	}
	return k.set && k.date.Before(other.date)
}
