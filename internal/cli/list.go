package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

var (
	listFilter string
	listSort   string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, optionally filtered by status and sorted by due date or title.

--filter accepts All, Pending, In progress, or Completed.
--sort accepts None, Due Date, or Title (dashes work too, e.g. due-date).
Without flags the configured view.filter and view.sort apply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		if listFilter != "" {
			f, err := core.ParseFilter(listFilter)
			if err != nil {
				return err
			}
			m.SetFilter(f)
		}
		if listSort != "" {
			o, err := core.ParseSort(listSort)
			if err != nil {
				return err
			}
			m.SetSort(o)
		}

		tasks := m.View()
		if listJSON {
			data, err := json.MarshalIndent(tasks, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting tasks as JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
			return nil
		}
		printTaskTable(cmd.OutOrStdout(), tasks)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Status filter (All, Pending, In progress, Completed)")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort order (None, Due Date, Title)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output tasks as JSON")
	_ = listCmd.RegisterFlagCompletionFunc("filter", completeFilters)
	_ = listCmd.RegisterFlagCompletionFunc("sort", completeSortOrders)
	rootCmd.AddCommand(listCmd)
}

func printTaskTable(w io.Writer, tasks []models.Task) {
	rows := [][]string{{"ID", "STATUS", "DUE", "TITLE", "DESCRIPTION"}}
	for _, t := range tasks {
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		rows = append(rows, []string{strconv.FormatInt(t.ID, 10), string(t.Status), due, t.Title, t.Description})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := lipgloss.NewStyle().Width(widths[i]).MarginRight(2)
			switch {
			case r == 0:
				style = style.Inherit(headerStyle)
			case i == 1:
				style = style.Inherit(styleForStatus(models.TaskStatus(cell)))
			}
			cells[i] = style.Render(cell)
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
}
