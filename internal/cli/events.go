package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/observability"
)

var (
	eventsSince string
	eventsType  string
	eventsTask  int64
	eventsLimit int
	eventsJSON  bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent entries from the event log",
	Long: `Show task activity recorded in the event log, newest last.

Filter by age with --since (e.g. 7d, 24h), by event type with --type
(task.created, task.updated, task.deleted, task.status_changed), or by
task id with --task.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not initialized (event_log may be disabled)")
		}

		since, err := parseSinceDuration(eventsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}
		events, err := EventLog.Read(observability.EventFilter{
			Since:  &since,
			Type:   eventsType,
			TaskID: eventsTask,
		})
		if err != nil {
			return fmt.Errorf("reading event log: %w", err)
		}
		if eventsLimit > 0 && len(events) > eventsLimit {
			events = events[len(events)-eventsLimit:]
		}

		out := cmd.OutOrStdout()
		if eventsJSON {
			data, err := json.MarshalIndent(events, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting events as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(events) == 0 {
			fmt.Fprintln(out, "No events recorded.")
			return nil
		}
		for _, e := range events {
			line := fmt.Sprintf("%s  %-20s %s", e.Time.Local().Format(time.DateTime), e.Type, e.Message)
			if id, ok := e.TaskID(); ok {
				line += mutedStyle.Render(fmt.Sprintf("  (task %d)", id))
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSince, "since", "7d", "Time window (e.g. 7d, 30d, 24h)")
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "Only show events of this type")
	eventsCmd.Flags().Int64Var(&eventsTask, "task", 0, "Only show events for this task id")
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 50, "Show at most this many events (0 for all)")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output events as JSON")
	_ = eventsCmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"task.created", "task.updated", "task.deleted", "task.status_changed"}, cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.AddCommand(eventsCmd)
}
