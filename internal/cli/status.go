package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set a task's status",
	Long: `Set the status of a task to Pending, In progress, or Completed.

The status is matched case-insensitively and accepts dashes or underscores
for spaces, so "in-progress" and "IN_PROGRESS" both mean "In progress".`,
	Example: `  todo status 1735732800000 completed
  todo status 1735732800000 "In progress"`,
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completeStatusArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		status, err := core.ParseStatus(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		if !m.SetStatus(id, status) {
			fmt.Fprintf(cmd.OutOrStdout(), "No task with id %d\n", id)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", id, styleForStatus(status).Render(string(status)))
		warnIfUnsaved(cmd, m)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
