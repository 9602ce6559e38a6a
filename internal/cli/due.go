package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List the phrases due for practice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c := a.openProfile(store)
			out := cmd.OutOrStdout()

			due := c.Scheduler.DueItems()
			if len(due) == 0 {
				fmt.Fprintln(out, "Nothing to review.")
				return nil
			}
			for _, item := range due {
				fmt.Fprintf(out, "%s → %s (%s)\n", item.Original, item.Translated, c.Scheduler.MasteryLevel(item))
			}
			return nil
		},
	}
}
