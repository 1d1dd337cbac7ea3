package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/pkg/models"
)

// completeTaskIDs returns a completion function that lists task ids with
// their titles, optionally excluding some statuses.
func completeTaskIDs(excludeStatuses ...models.TaskStatus) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if Manager == nil || len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		exclude := make(map[models.TaskStatus]bool)
		for _, s := range excludeStatuses {
			exclude[s] = true
		}

		var ids []string
		for _, task := range Manager.Store().All() {
			if exclude[task.Status] {
				continue
			}
			id := strconv.FormatInt(task.ID, 10)
			if toComplete == "" || strings.HasPrefix(id, toComplete) {
				ids = append(ids, id+"\t"+task.Title)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeStatusArgs completes "status <id> <status>": ids first, then the
// status names.
func completeStatusArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completeTaskIDs()(cmd, args, toComplete)
	}
	if len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{
		"pending\tNot started",
		"in-progress\tBeing worked on",
		"completed\tDone",
	}, cobra.ShellCompDirectiveNoFileComp
}

func completeFilters(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"all", "pending", "in-progress", "completed"}, cobra.ShellCompDirectiveNoFileComp
}

func completeSortOrders(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"none", "due-date", "title"}, cobra.ShellCompDirectiveNoFileComp
}
