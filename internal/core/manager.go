package core

import (
	"github.com/valter-silva-au/todo/pkg/models"
	"golang.org/x/text/language"
)

// ViewOptions sets the initial filter, sort order, and collation locale.
type ViewOptions struct {
	Filter models.FilterStatus
	Sort   models.SortOrder
	Locale language.Tag
}

// Manager is the task list manager handed to the presentation layer. It
// bundles the store, the form, and the view selectors; every mutation goes
// through it and View recomputes the display list on demand.
type Manager struct {
	store  *Store
	form   Form
	filter models.FilterStatus
	order  models.SortOrder
	locale language.Tag
}

// NewManager creates a Manager over store.
func NewManager(store *Store, opts ViewOptions) *Manager {
	m := &Manager{
		store:  store,
		filter: opts.Filter,
		order:  opts.Sort,
		locale: opts.Locale,
	}
	if m.filter == "" {
		m.filter = models.FilterAll
	}
	if m.order == "" {
		m.order = models.SortNone
	}
	if m.locale == language.Und {
		m.locale = language.English
	}
	return m
}

// Store returns the underlying task store.
func (m *Manager) Store() *Store { return m.store }

// Form returns the form state for the presentation layer to edit.
func (m *Manager) Form() *Form { return &m.form }

func (m *Manager) Filter() models.FilterStatus { return m.filter }

func (m *Manager) SetFilter(f models.FilterStatus) { m.filter = f }

func (m *Manager) Sort() models.SortOrder { return m.order }

// Locale is the collation locale used for title ordering.
func (m *Manager) Locale() language.Tag { return m.locale }

func (m *Manager) SetSort(o models.SortOrder) { m.order = o }

// Submit applies the form (add or update).
func (m *Manager) Submit() (*models.Task, error) {
	return m.form.Submit(m.store)
}

// Edit loads the task with the given id into the form. It reports false
// when no such task exists.
func (m *Manager) Edit(id int64) bool {
	task, ok := m.store.Get(id)
	if !ok {
		return false
	}
	m.form.EnterEditMode(task)
	return true
}

func (m *Manager) Delete(id int64) bool {
	return m.store.Delete(id)
}

func (m *Manager) SetStatus(id int64, status models.TaskStatus) bool {
	return m.store.SetStatus(id, status)
}

// View returns the filtered and sorted tasks for display.
func (m *Manager) View() []models.Task {
	return DeriveView(m.store.All(), m.filter, m.order, m.locale)
}
