package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// completeReminderIDs completes stored reminder IDs for "reminders show".
func completeReminderIDs(flags *rootFlags, toComplete string) ([]string, cobra.ShellCompDirective) {
	store, err := openStore(flags)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	reminders, err := store.List(50)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, r := range reminders {
		if strings.HasPrefix(r.ID, toComplete) {
			ids = append(ids, r.ID+"\t"+r.Title)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
