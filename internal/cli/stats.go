package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/voicelingo/internal/companion"
	"github.com/example/voicelingo/internal/spaced_repetition"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var showAchievements bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the progress of the profile",
		Long: `Display translation, practice and achievement statistics of the profile.

Example:
  voicelingo stats
  voicelingo stats --achievements --profile 123456789`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c := a.openProfile(store)
			out := cmd.OutOrStdout()
			printStats(out, a.cfg.Profile, c)
			if showAchievements {
				fmt.Fprintln(out)
				printAchievements(out, c)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAchievements, "achievements", false, "List every achievement with its progress")
	return cmd
}

func printStats(out io.Writer, profile string, c *companion.Companion) {
	d := c.Dashboard()
	prefs := c.Preferences.Preferences()

	fmt.Fprintf(out, "Profile:        %s\n", profile)
	fmt.Fprintf(out, "Level:          %s (suggested %s)\n", d.Level, d.SuggestedLevel)
	fmt.Fprintf(out, "Translations:   %d (today %d/%d)\n", prefs.TotalTranslations, prefs.TodayTranslations, prefs.DailyGoal)
	fmt.Fprintf(out, "Practice items: %d (%d due)\n", d.Stats.TotalItems, d.DueItems)
	fmt.Fprintf(out, "Reviews:        %d (accuracy %d%%)\n", d.Stats.TotalSessions, d.Stats.Accuracy)
	fmt.Fprintf(out, "Streak:         %d (best %d)\n", d.Stats.CurrentStreak, d.Stats.BestStreak)
	fmt.Fprintf(out, "Mastery:        %d new, %d reviewing, %d learning, %d mastered\n",
		d.Stats.Mastery[spaced_repetition.MasteryNew],
		d.Stats.Mastery[spaced_repetition.MasteryReviewing],
		d.Stats.Mastery[spaced_repetition.MasteryLearning],
		d.Stats.Mastery[spaced_repetition.MasteryMastered])
	fmt.Fprintf(out, "Achievements:   %d/%d (%d points)\n", d.UnlockedCount, d.TotalCount, d.TotalPoints)
}

func printAchievements(out io.Writer, c *companion.Companion) {
	for _, a := range c.Achievements.Achievements() {
		mark := " "
		if a.Unlocked {
			mark = "x"
		}
		fmt.Fprintf(out, "[%s] %-22s %-10s %d/%d\n",
			mark, a.Title, strings.ToLower(string(a.Category)), min(a.Progress, a.Requirement), a.Requirement)
	}
}
