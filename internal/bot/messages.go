package bot

import (
	"fmt"
	"strings"

	"github.com/example/voicelingo/internal/companion"
	"github.com/example/voicelingo/internal/excel"
	"github.com/example/voicelingo/internal/personalization"
	"github.com/example/voicelingo/internal/spaced_repetition"
	"github.com/example/voicelingo/pkg/models"
)

const helpText = `Commands:
/translate <text> - Translate a phrase (or just send the text)
/practice - Review the phrases that are due
/stats - Show your progress
/achievements - Show your achievements
/tips - Tips and recommendations
/level - Show or change your learning level
/langs <source> <target> - Change the language pair
/goal <n> - Set the daily translation goal
/speak - Pronunciation of the last translation
/history - Your recent translations

Send an .xlsx or .csv file (original, translation, phonetic) to import phrases.`

// iconEmoji maps achievement icon names to the emoji shown in chat
var iconEmoji = map[string]string{
	"Baby":     "👶",
	"Rocket":   "🚀",
	"BookOpen": "📖",
	"Award":    "🏅",
	"Star":     "⭐",
	"Crown":    "👑",
	"Flame":    "🔥",
	"Globe":    "🌍",
	"Target":   "🎯",
	"Moon":     "🌙",
	"Sunrise":  "🌅",
	"Brain":    "🧠",
}

func icon(name string) string {
	if e, ok := iconEmoji[name]; ok {
		return e
	}
	return "🏆"
}

func formatTranslation(item models.HistoryItem) string {
	var text strings.Builder
	fmt.Fprintf(&text, "%s → %s\n\n", strings.ToUpper(item.SourceLang), strings.ToUpper(item.TargetLang))
	fmt.Fprintf(&text, "%s\n%s", item.Original, item.Translated)
	if item.Phonetic != "" {
		fmt.Fprintf(&text, "\n🔊 %s", item.Phonetic)
	}
	return text.String()
}

func formatPrompt(item models.PracticeItem, remaining int) string {
	return fmt.Sprintf("🔁 %s\n\n%s → %s · %d due",
		item.Original, strings.ToUpper(item.SourceLang), strings.ToUpper(item.TargetLang), remaining)
}

func formatRevealed(item models.PracticeItem) string {
	text := fmt.Sprintf("🔁 %s\n\n✅ %s", item.Original, item.Translated)
	if item.Phonetic != "" {
		text += "\n🔊 " + item.Phonetic
	}
	return text + "\n\nHow well did you remember it? (0 = not at all, 5 = perfectly)"
}

func formatReviewed(item models.PracticeItem, mastery spaced_repetition.Mastery) string {
	days := "day"
	if item.Interval != 1 {
		days = "days"
	}
	return fmt.Sprintf("Next review of \"%s\" in %d %s (%s).", item.Original, item.Interval, days, mastery)
}

func formatStats(d companion.Dashboard, prefs models.Preferences) string {
	var text strings.Builder
	text.WriteString("📊 Your statistics\n\n")
	fmt.Fprintf(&text, "Level: %s\n", d.Level)
	fmt.Fprintf(&text, "Translations: %d (today %d/%d, %.0f%%)\n",
		prefs.TotalTranslations, prefs.TodayTranslations, prefs.DailyGoal, d.DailyProgress)
	fmt.Fprintf(&text, "Daily goals completed: %d\n", prefs.DailyGoalsCompleted)
	fmt.Fprintf(&text, "Practice items: %d (%d due)\n", d.Stats.TotalItems, d.DueItems)
	fmt.Fprintf(&text, "Reviews: %d, accuracy %d%%\n", d.Stats.TotalSessions, d.Stats.Accuracy)
	fmt.Fprintf(&text, "Streak: %d (best %d)\n", d.Stats.CurrentStreak, d.Stats.BestStreak)
	fmt.Fprintf(&text, "Achievements: %d/%d, %d points\n", d.UnlockedCount, d.TotalCount, d.TotalPoints)

	if d.Visibility.ShowDetailedStats {
		fmt.Fprintf(&text, "\nMastery: %d new, %d reviewing, %d learning, %d mastered\n",
			d.Stats.Mastery[spaced_repetition.MasteryNew],
			d.Stats.Mastery[spaced_repetition.MasteryReviewing],
			d.Stats.Mastery[spaced_repetition.MasteryLearning],
			d.Stats.Mastery[spaced_repetition.MasteryMastered])
		fmt.Fprintf(&text, "Average ease: %.2f\n", d.Stats.AverageEaseFactor)
	}
	if d.Milestone != "" {
		fmt.Fprintf(&text, "\n%s", d.Milestone)
	}
	return strings.TrimRight(text.String(), "\n")
}

func formatAchievements(list []models.Achievement, points int) string {
	var text strings.Builder
	fmt.Fprintf(&text, "🏆 Achievements (%d points)\n", points)

	var category models.AchievementCategory
	for _, a := range list {
		if a.Category != category {
			category = a.Category
			fmt.Fprintf(&text, "\n%s\n", strings.ToUpper(string(category)))
		}
		if a.Unlocked {
			fmt.Fprintf(&text, "%s %s ✅\n", icon(a.Icon), a.Title)
			continue
		}
		progress := min(a.Progress, a.Requirement)
		fmt.Fprintf(&text, "%s %s %d/%d\n", icon(a.Icon), a.Title, progress, a.Requirement)
	}
	return strings.TrimRight(text.String(), "\n")
}

func formatUnlocked(a models.Achievement) string {
	return fmt.Sprintf("🎉 Achievement unlocked!\n\n%s %s\n%s\n+%d points (%s)",
		icon(a.Icon), a.Title, a.Description, a.Rarity.Points(), a.Rarity)
}

func formatTips(tips []personalization.Tip, recs []personalization.Recommendation) string {
	if len(tips) == 0 && len(recs) == 0 {
		return "No tips right now. Keep translating!"
	}

	var text strings.Builder
	if len(tips) > 0 {
		text.WriteString("💡 Tips\n")
		for _, tip := range tips {
			fmt.Fprintf(&text, "\n%s\n%s\n", tip.Title, tip.Message)
		}
	}
	if len(recs) > 0 {
		if len(tips) > 0 {
			text.WriteString("\n")
		}
		text.WriteString("⭐ Recommendations\n")
		for _, rec := range recs {
			fmt.Fprintf(&text, "\n%s\n%s\n", rec.Title, rec.Description)
		}
	}
	return strings.TrimRight(text.String(), "\n")
}

func formatHistory(items []models.HistoryItem, limit int) string {
	if len(items) == 0 {
		return "No translations yet."
	}
	var text strings.Builder
	text.WriteString("🕘 Recent translations\n")
	for i, item := range items {
		if i == limit {
			break
		}
		fmt.Fprintf(&text, "\n%s → %s", item.Original, item.Translated)
	}
	return text.String()
}

func formatImport(result *excel.ImportResult, added int) string {
	var text strings.Builder
	text.WriteString("📥 Import finished\n\n")
	fmt.Fprintf(&text, "Rows processed: %d\n", result.TotalProcessed)
	fmt.Fprintf(&text, "New phrases: %d\n", added)
	fmt.Fprintf(&text, "Already known: %d\n", len(result.Candidates)-added)
	fmt.Fprintf(&text, "Skipped: %d", result.Skipped)
	if len(result.Errors) > 0 {
		fmt.Fprintf(&text, "\nErrors: %d", len(result.Errors))
		for i, e := range result.Errors {
			if i == 5 {
				fmt.Fprintf(&text, "\n...and %d more", len(result.Errors)-i)
				break
			}
			fmt.Fprintf(&text, "\n%s", e)
		}
	}
	return text.String()
}

func formatReminder(count int) string {
	if count == 1 {
		return "🔔 You have 1 phrase to review. Keep your memory fresh!"
	}
	return fmt.Sprintf("🔔 You have %d phrases to review. Keep your memory fresh!", count)
}

const reviewTimeLayout = "Jan 2, 15:04"

func formatAlreadyReviewed(item models.PracticeItem) string {
	return fmt.Sprintf("\"%s\" was already reviewed. Next review: %s", item.Original, item.NextReview.Format(reviewTimeLayout))
}
