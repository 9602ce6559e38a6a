package cli

import (
	"fmt"
	"strings"

	"github.com/example/voicelingo/internal/companion"
	"github.com/example/voicelingo/pkg/models"
	"github.com/spf13/cobra"
)

func newTranslateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <text>...",
		Short: "Translate a phrase and add it to the practice schedule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c := a.openProfile(store, companion.WithTranslator(a.translator()))
			c.Start(models.DeviceDesktop)
			defer c.Stop()

			item, err := c.Translate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, item.Translated)
			if item.Phonetic != "" {
				fmt.Fprintf(out, "[%s]\n", item.Phonetic)
			}
			for _, achievement := range c.Achievements.NewlyUnlocked() {
				fmt.Fprintf(out, "Achievement unlocked: %s (+%d points)\n", achievement.Title, achievement.Rarity.Points())
			}
			c.Achievements.ClearNewlyUnlocked()
			return nil
		},
	}
}
