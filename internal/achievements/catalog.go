package achievements

import "github.com/example/voicelingo/pkg/models"

// Achievement ids referenced by CheckAchievements
const (
	FirstTranslation        = "first_translation"
	TenTranslations         = "ten_translations"
	FiftyTranslations       = "fifty_translations"
	HundredTranslations     = "hundred_translations"
	FiveHundredTranslations = "five_hundred_translations"
	ThousandTranslations    = "thousand_translations"

	Streak3   = "streak_3"
	Streak7   = "streak_7"
	Streak14  = "streak_14"
	Streak30  = "streak_30"
	Streak100 = "streak_100"

	Explorer2  = "explorer_2"
	Explorer5  = "explorer_5"
	Explorer10 = "explorer_10"

	DailyGoal1  = "daily_goal_1"
	DailyGoal7  = "daily_goal_7"
	DailyGoal30 = "daily_goal_30"

	NightOwl       = "night_owl"
	EarlyBird      = "early_bird"
	PracticeMaster = "practice_master"
)

func def(id, title, description, icon string, category models.AchievementCategory, requirement int, rarity models.Rarity) models.Achievement {
	return models.Achievement{
		ID:          id,
		Title:       title,
		Description: description,
		Icon:        icon,
		Category:    category,
		Requirement: requirement,
		Rarity:      rarity,
	}
}

// Catalog returns the achievement definitions in display order, all locked
// with zero progress. Each call returns a fresh slice.
func Catalog() []models.Achievement {
	return []models.Achievement{
		// Milestones
		def(FirstTranslation, "First Words", "Complete your first translation", "Baby", models.CategoryMilestone, 1, models.RarityCommon),
		def(TenTranslations, "Getting Started", "Complete 10 translations", "Rocket", models.CategoryMilestone, 10, models.RarityCommon),
		def(FiftyTranslations, "Dedicated Learner", "Complete 50 translations", "BookOpen", models.CategoryMilestone, 50, models.RarityRare),
		def(HundredTranslations, "Century Club", "Complete 100 translations", "Award", models.CategoryMilestone, 100, models.RarityRare),
		def(FiveHundredTranslations, "Language Enthusiast", "Complete 500 translations", "Star", models.CategoryMilestone, 500, models.RarityEpic),
		def(ThousandTranslations, "Polyglot Master", "Complete 1000 translations", "Crown", models.CategoryMilestone, 1000, models.RarityLegendary),

		// Streaks
		def(Streak3, "Consistent", "Maintain a 3-day streak", "Flame", models.CategoryStreak, 3, models.RarityCommon),
		def(Streak7, "Week Warrior", "Maintain a 7-day streak", "Flame", models.CategoryStreak, 7, models.RarityRare),
		def(Streak14, "Fortnight Fighter", "Maintain a 14-day streak", "Flame", models.CategoryStreak, 14, models.RarityRare),
		def(Streak30, "Monthly Master", "Maintain a 30-day streak", "Flame", models.CategoryStreak, 30, models.RarityEpic),
		def(Streak100, "Unstoppable", "Maintain a 100-day streak", "Flame", models.CategoryStreak, 100, models.RarityLegendary),

		// Explorer
		def(Explorer2, "Curious Mind", "Learn 2 different languages", "Globe", models.CategoryExplorer, 2, models.RarityCommon),
		def(Explorer5, "World Traveler", "Learn 5 different languages", "Globe", models.CategoryExplorer, 5, models.RarityRare),
		def(Explorer10, "Global Citizen", "Learn 10 different languages", "Globe", models.CategoryExplorer, 10, models.RarityEpic),

		// Mastery
		def(DailyGoal1, "Goal Getter", "Complete your daily goal once", "Target", models.CategoryMastery, 1, models.RarityCommon),
		def(DailyGoal7, "Goal Crusher", "Complete your daily goal 7 times", "Target", models.CategoryMastery, 7, models.RarityRare),
		def(DailyGoal30, "Goal Legend", "Complete your daily goal 30 times", "Target", models.CategoryMastery, 30, models.RarityEpic),

		// Special
		def(NightOwl, "Night Owl", "Practice after midnight", "Moon", models.CategorySpecial, 1, models.RarityRare),
		def(EarlyBird, "Early Bird", "Practice before 6 AM", "Sunrise", models.CategorySpecial, 1, models.RarityRare),
		def(PracticeMaster, "Practice Master", "Complete 50 practice sessions", "Brain", models.CategorySpecial, 50, models.RarityEpic),
	}
}

// Merge lays persisted progress over the catalog. The result follows catalog
// order; persisted entries with unknown ids are dropped and catalog entries
// missing from storage start locked. Definition fields always come from the
// catalog, so a changed title or threshold takes effect on load.
func Merge(catalog, persisted []models.Achievement) []models.Achievement {
	byID := make(map[string]models.Achievement, len(persisted))
	for _, a := range persisted {
		if _, dup := byID[a.ID]; !dup {
			byID[a.ID] = a
		}
	}

	merged := make([]models.Achievement, 0, len(catalog))
	for _, d := range catalog {
		a := d
		a.Progress, a.Unlocked, a.UnlockedAt = 0, false, nil
		if old, ok := byID[d.ID]; ok {
			if old.Progress > 0 {
				a.Progress = old.Progress
			}
			// Unlocks survive a raised requirement
			if old.Unlocked {
				a.Unlocked = true
				a.UnlockedAt = old.UnlockedAt
				a.Progress = max(a.Progress, a.Requirement)
			}
		}
		merged = append(merged, a)
	}
	return merged
}

// Points sums the rarity points of the unlocked achievements
func Points(list []models.Achievement) int {
	total := 0
	for _, a := range list {
		if a.Unlocked {
			total += a.Rarity.Points()
		}
	}
	return total
}
