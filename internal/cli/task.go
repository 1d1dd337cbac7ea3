package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

var (
	taskTitle       string
	taskDescription string
	taskDue         string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task",
	Long: `Add a Pending task. Title and description are required; the due date is
optional and must be a YYYY-MM-DD date no later than 2031-12-31.`,
	Example: `  todo add --title "Buy milk" --description "2%" --due 2025-01-01`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}

		f := m.Form()
		f.Cancel()
		f.Title, f.Description, f.DueDate = taskTitle, taskDescription, taskDue

		task, err := m.Submit()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", task.ID)
		printTask(cmd.OutOrStdout(), *task)
		warnIfUnsaved(cmd, m)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task's title, description, or due date",
	Long: `Load a task into the form, apply the given flags, and save it. Flags
that are not given keep their current value; pass --due "" to clear the due
date. The status is never changed by edit.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		if !m.Edit(id) {
			return fmt.Errorf("task %d not found", id)
		}
		f := m.Form()
		if cmd.Flags().Changed("title") {
			f.Title = taskTitle
		}
		if cmd.Flags().Changed("description") {
			f.Description = taskDescription
		}
		if cmd.Flags().Changed("due") {
			f.DueDate = taskDue
		}

		task, err := m.Submit()
		if err != nil {
			f.Cancel()
			return err
		}
		if task == nil {
			return fmt.Errorf("task %d not found", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", task.ID)
		printTask(cmd.OutOrStdout(), *task)
		warnIfUnsaved(cmd, m)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:               "delete <id>",
	Aliases:           []string{"rm"},
	Short:             "Delete a task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		if !m.Delete(id) {
			fmt.Fprintf(cmd.OutOrStdout(), "No task with id %d\n", id)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
		warnIfUnsaved(cmd, m)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&taskTitle, "title", "t", "", "Task title")
		c.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description")
		c.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD, no later than "+models.MaxDueDate+")")
	}
	rootCmd.AddCommand(addCmd, editCmd, deleteCmd)
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func printTask(w io.Writer, t models.Task) {
	due := t.DueDate
	if due == "" {
		due = "-"
	}
	fmt.Fprintf(w, "  %-12s %s\n", "Title:", t.Title)
	fmt.Fprintf(w, "  %-12s %s\n", "Description:", t.Description)
	fmt.Fprintf(w, "  %-12s %s\n", "Due date:", due)
	fmt.Fprintf(w, "  %-12s %s\n", "Status:", t.Status)
}

// warnIfUnsaved reports a failed write. The change is still applied in memory
// but will not survive the process.
func warnIfUnsaved(cmd *cobra.Command, m *core.Manager) {
	if err := m.Store().LastPersistError(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: change not saved: %v\n", err)
	}
}
