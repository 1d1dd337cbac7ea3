package core

import "github.com/valter-silva-au/todo/pkg/models"

// Form holds the ephemeral input state: the three text fields plus the edit
// target. It is never persisted.
type Form struct {
	Title       string
	Description string
	DueDate     string

	editID *int64
}

// EnterEditMode copies task into the fields and makes it the edit target.
func (f *Form) EnterEditMode(task models.Task) {
	f.Title = task.Title
	f.Description = task.Description
	f.DueDate = task.DueDate
	id := task.ID
	f.editID = &id
}

// Editing reports whether the next Submit updates an existing task.
func (f *Form) Editing() bool {
	return f.editID != nil
}

// EditID returns the id of the task being edited.
func (f *Form) EditID() (int64, bool) {
	if f.editID == nil {
		return 0, false
	}
	return *f.editID, true
}

// SubmitLabel is the caption for the submit action in the current mode.
func (f *Form) SubmitLabel() string {
	if f.Editing() {
		return "Update"
	}
	return "Add"
}

// Submit applies the form to s: an update in edit mode, an add otherwise.
// On success the fields are cleared and edit mode ends, even when the edit
// target no longer exists (the returned task is then nil). On a validation
// failure the form is left untouched.
func (f *Form) Submit(s *Store) (*models.Task, error) {
	var (
		task *models.Task
		err  error
	)
	if id, ok := f.EditID(); ok {
		task, err = s.Update(id, f.Title, f.Description, f.DueDate)
	} else {
		task, err = s.Add(f.Title, f.Description, f.DueDate)
	}
	if err != nil {
		return nil, err
	}
	f.Cancel()
	return task, nil
}

// Cancel clears the fields and leaves edit mode.
func (f *Form) Cancel() {
	f.Title = ""
	f.Description = ""
	f.DueDate = ""
	f.editID = nil
}
