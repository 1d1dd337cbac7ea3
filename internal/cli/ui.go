package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

// Focus targets in the task screen: the three form inputs, then the list.
const (
	focusTitle = iota
	focusDescription
	focusDue
	focusList
	focusCount
)

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("62"))

	cardTitleStyle = lipgloss.NewStyle().Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)
)

// uiModel is the interactive task screen: the form on top, the filter and
// sort selectors, then one card per task in the derived view.
type uiModel struct {
	manager *core.Manager
	inputs  []textinput.Model
	focus   int
	cursor  int

	banner string // validation failure, shown until the next submit
	notice string

	width  int
	height int
}

func newUIModel(m *core.Manager) uiModel {
	placeholders := []string{"Title", "Description", "Due date (YYYY-MM-DD, optional)"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.Prompt = "› "
		in.CharLimit = 256
		inputs[i] = in
	}
	inputs[focusDue].CharLimit = len(models.DueDateLayout)

	ui := uiModel{manager: m, inputs: inputs}
	ui.loadForm()
	ui.setFocus(focusTitle)
	return ui
}

func (m uiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus - 1 + focusCount) % focusCount)
			return m, nil
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	}

	if m.focus != focusList {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m uiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submit()
		return m, nil
	case "esc":
		if m.manager.Form().Editing() {
			m.manager.Form().Cancel()
			m.loadForm()
			m.banner = ""
			m.notice = "Edit cancelled"
			return m, nil
		}
		m.setFocus(focusList)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m uiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.manager.View()
	selected, hasSelection := m.selected(view)

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(view)-1 {
			m.cursor++
		}
	case "e", "enter":
		if hasSelection && m.manager.Edit(selected.ID) {
			m.loadForm()
			m.banner = ""
			m.notice = fmt.Sprintf("Editing %q", selected.Title)
			m.setFocus(focusTitle)
		}
	case "d", "delete":
		if hasSelection {
			m.manager.Delete(selected.ID)
			m.notice = fmt.Sprintf("Deleted %q", selected.Title)
			m.clampCursor()
		}
	case "s", " ":
		if hasSelection {
			next := nextStatus(selected.Status)
			m.manager.SetStatus(selected.ID, next)
			m.notice = fmt.Sprintf("%q is now %s", selected.Title, next)
			m.clampCursor()
		}
	case "f":
		m.manager.SetFilter(nextFilter(m.manager.Filter()))
		m.cursor = 0
	case "o":
		m.manager.SetSort(nextSort(m.manager.Sort()))
		m.cursor = 0
	}
	return m, nil
}

// submit copies the inputs into the form and applies it. A validation
// failure raises the banner and leaves the inputs as typed.
func (m *uiModel) submit() {
	f := m.manager.Form()
	f.Title = m.inputs[focusTitle].Value()
	f.Description = m.inputs[focusDescription].Value()
	f.DueDate = m.inputs[focusDue].Value()

	label := f.SubmitLabel()
	task, err := m.manager.Submit()
	if err != nil {
		m.banner = err.Error()
		m.notice = ""
		return
	}

	m.banner = ""
	switch {
	case task == nil:
		m.notice = "Task no longer exists"
	case label == "Update":
		m.notice = fmt.Sprintf("Updated %q", task.Title)
	default:
		m.notice = fmt.Sprintf("Added %q", task.Title)
	}
	if err := m.manager.Store().LastPersistError(); err != nil {
		m.notice += " (not saved: " + err.Error() + ")"
	}
	m.loadForm()
	m.setFocus(focusTitle)
}

// loadForm mirrors the form fields into the inputs.
func (m *uiModel) loadForm() {
	f := m.manager.Form()
	m.inputs[focusTitle].SetValue(f.Title)
	m.inputs[focusDescription].SetValue(f.Description)
	m.inputs[focusDue].SetValue(f.DueDate)
}

func (m *uiModel) setFocus(target int) {
	m.focus = target
	for i := range m.inputs {
		if i == target {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m uiModel) selected(view []models.Task) (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(view) {
		return models.Task{}, false
	}
	return view[m.cursor], true
}

func (m *uiModel) clampCursor() {
	n := len(m.manager.View())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m uiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Task List "))
	b.WriteString("\n\n")

	if m.banner != "" {
		b.WriteString(errorStyle.Render(m.banner))
		b.WriteString("\n\n")
	}

	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(buttonStyle.Render(m.manager.Form().SubmitLabel()))
	if m.manager.Form().Editing() {
		b.WriteString(helpStyle.Render("  esc: cancel edit"))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s   %s %s\n\n",
		headerStyle.Render("Filter:"), m.manager.Filter(),
		headerStyle.Render("Sort:"), m.manager.Sort())

	view := m.manager.View()
	if len(view) == 0 {
		b.WriteString(mutedStyle.Render("  No tasks."))
		b.WriteString("\n")
	}
	for i, t := range view {
		b.WriteString(m.renderCard(t, m.focus == focusList && i == m.cursor))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.focus == focusList {
		b.WriteString(helpStyle.Render("↑/↓: select | e: edit | d: delete | s: next status | f: filter | o: sort | tab: form | q: quit"))
	} else {
		b.WriteString(helpStyle.Render("tab: next field | enter: " + strings.ToLower(m.manager.Form().SubmitLabel()) + " | esc: list | ctrl+c: quit"))
	}
	return b.String()
}

func (m uiModel) renderCard(t models.Task, selected bool) string {
	due := t.DueDate
	if due == "" {
		due = "none"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(t.Title),
		t.Description,
		mutedStyle.Render("Due: "+due),
		styleForStatus(t.Status).Render(string(t.Status)),
	)
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(body)
}

func nextStatus(s models.TaskStatus) models.TaskStatus {
	for i, st := range models.TaskStatuses {
		if st == s {
			return models.TaskStatuses[(i+1)%len(models.TaskStatuses)]
		}
	}
	return models.StatusPending
}

func nextFilter(f models.FilterStatus) models.FilterStatus {
	for i, v := range models.FilterStatuses {
		if v == f {
			return models.FilterStatuses[(i+1)%len(models.FilterStatuses)]
		}
	}
	return models.FilterAll
}

func nextSort(o models.SortOrder) models.SortOrder {
	for i, v := range models.SortOrders {
		if v == o {
			return models.SortOrders[(i+1)%len(models.SortOrders)]
		}
	}
	return models.SortNone
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive task screen",
	Long: `Open a full-screen task editor: a form to add or edit tasks, the status
filter and sort selectors, and the list of tasks.

In the form, tab moves between fields and enter submits. In the list, e edits
the selected task, d deletes it, s advances its status, f cycles the filter
and o cycles the sort order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		p := tea.NewProgram(newUIModel(m), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
