package personalization

import (
	"fmt"
	"sort"

	"github.com/example/voicelingo/pkg/models"
)

// Tip is a one-off hint shown until the user acknowledges it
type Tip struct {
	ID       string
	Title    string
	Message  string
	Trigger  string
	Priority int // Lower is more urgent
}

// RecommendationType groups recommendations by what they suggest
type RecommendationType string

const (
	RecommendLanguage RecommendationType = "language"
	RecommendFeature  RecommendationType = "feature"
	RecommendGoal     RecommendationType = "goal"
	RecommendPractice RecommendationType = "practice"
)

// Recommendation is a suggestion the user can dismiss
type Recommendation struct {
	ID          string
	Type        RecommendationType
	Title       string
	Description string
	Action      string
	Priority    int // Lower is more urgent
}

type tipRule struct {
	tip  Tip
	when func(models.PersonalizationState) bool
}

var tipRules = []tipRule{
	{
		tip: Tip{
			ID:       "first_translation",
			Title:    "Getting Started",
			Message:  "Tap the microphone and speak clearly. VoiceLingo will translate your words instantly!",
			Trigger:  "first_visit",
			Priority: 1,
		},
		when: func(s models.PersonalizationState) bool { return s.LearningLevel == models.LevelBeginner },
	},
	{
		tip: Tip{
			ID:       "speak_feature",
			Title:    "Listen & Learn",
			Message:  "Tap the speaker icon on any translation to hear the correct pronunciation.",
			Trigger:  "after_first_translation",
			Priority: 2,
		},
		when: func(s models.PersonalizationState) bool { return s.Behavior.SpeakFeatureUsage == 0 },
	},
	{
		tip: Tip{
			ID:       "swap_feature",
			Title:    "Quick Swap",
			Message:  "Use the swap button to quickly reverse your language pair!",
			Trigger:  "multiple_translations",
			Priority: 3,
		},
		when: func(s models.PersonalizationState) bool {
			return s.Behavior.SwapFeatureUsage == 0 && s.Behavior.TranslationsPerSession > 3
		},
	},
	{
		tip: Tip{
			ID:       "streak_tip",
			Title:    "Keep It Up!",
			Trigger:  "streak",
			Priority: 2,
		},
		when: func(s models.PersonalizationState) bool { return s.Behavior.ConsecutiveDays >= 3 },
	},
	{
		tip: Tip{
			ID:       "advanced_features",
			Title:    "Level Up",
			Message:  "Try practicing with longer sentences to improve your fluency!",
			Trigger:  "intermediate_level",
			Priority: 3,
		},
		when: func(s models.PersonalizationState) bool { return s.LearningLevel == models.LevelIntermediate },
	},
	{
		tip: Tip{
			ID:       "night_study",
			Title:    "Night Owl Mode",
			Message:  "Studies show learning before sleep helps retention. Great time to practice!",
			Trigger:  "night_session",
			Priority: 4,
		},
		when: func(s models.PersonalizationState) bool { return s.Behavior.PreferredTimeOfDay == models.Night },
	},
}

// ContextualTips evaluates the tip rules against state. Tips already shown
// are left out; the rest are ordered by priority, ties in rule order.
func ContextualTips(state models.PersonalizationState) []Tip {
	tips := []Tip{}
	for _, rule := range tipRules {
		if contains(state.TipsShown, rule.tip.ID) || !rule.when(state) {
			continue
		}
		tip := rule.tip
		if tip.ID == "streak_tip" {
			tip.Message = fmt.Sprintf("You're on a %d-day streak! Consistency is key to language learning.", state.Behavior.ConsecutiveDays)
		}
		tips = append(tips, tip)
	}
	sort.SliceStable(tips, func(i, j int) bool { return tips[i].Priority < tips[j].Priority })
	return tips
}

type recommendationRule struct {
	rec  Recommendation
	when func(models.PersonalizationState) bool
}

var recommendationRules = []recommendationRule{
	{
		rec: Recommendation{
			ID:          "try_new_language",
			Type:        RecommendLanguage,
			Title:       "Explore New Languages",
			Description: "Try translating to a different language to expand your horizons!",
			Action:      "/langs",
			Priority:    1,
		},
		when: func(s models.PersonalizationState) bool { return s.Behavior.UniqueLanguagesUsed < 2 },
	},
	{
		rec: Recommendation{
			ID:          "set_goal",
			Type:        RecommendGoal,
			Title:       "Set a Daily Goal",
			Description: "Challenge yourself with 10 translations per day to build a habit.",
			Action:      "/goal",
			Priority:    2,
		},
		when: func(s models.PersonalizationState) bool { return s.Behavior.TranslationsPerSession < 5 },
	},
	{
		rec: Recommendation{
			ID:          "practice_basics",
			Type:        RecommendPractice,
			Title:       "Start with Common Phrases",
			Description: `Try greetings like "Hello", "Thank you", and "Goodbye" to build confidence.`,
			Priority:    1,
		},
		when: func(s models.PersonalizationState) bool { return s.LearningLevel == models.LevelBeginner },
	},
	{
		rec: Recommendation{
			ID:          "practice_sentences",
			Type:        RecommendPractice,
			Title:       "Practice Full Sentences",
			Description: "Move beyond words to complete sentences for better fluency.",
			Priority:    2,
		},
		when: func(s models.PersonalizationState) bool { return s.LearningLevel == models.LevelIntermediate },
	},
	{
		rec: Recommendation{
			ID:          "practice_complex",
			Type:        RecommendPractice,
			Title:       "Master Complex Expressions",
			Description: "Try idioms and complex phrases to sound like a native speaker.",
			Priority:    2,
		},
		when: func(s models.PersonalizationState) bool { return s.LearningLevel == models.LevelAdvanced },
	},
	{
		rec: Recommendation{
			ID:          "use_history",
			Type:        RecommendFeature,
			Title:       "Review Your History",
			Description: "Check your translation history to reinforce what you've learned.",
			Action:      "/practice",
			Priority:    3,
		},
		when: func(s models.PersonalizationState) bool {
			return s.Behavior.HistoryFeatureUsage == 0 && s.Behavior.TranslationsPerSession > 5
		},
	},
	{
		rec: Recommendation{
			ID:          "start_streak",
			Type:        RecommendGoal,
			Title:       "Start a Learning Streak",
			Description: "Visit daily to build a streak and accelerate your learning!",
			Priority:    2,
		},
		when: func(s models.PersonalizationState) bool { return s.Behavior.ConsecutiveDays == 0 },
	},
}

// Recommendations evaluates the recommendation rules against state, leaving
// out dismissed ones, ordered by priority
func Recommendations(state models.PersonalizationState) []Recommendation {
	recs := []Recommendation{}
	for _, rule := range recommendationRules {
		if contains(state.DismissedRecommendations, rule.rec.ID) || !rule.when(state) {
			continue
		}
		recs = append(recs, rule.rec)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
	return recs
}

// ContextualTips returns the tips that apply right now
func (e *Engine) ContextualTips() []Tip {
	return ContextualTips(e.state)
}

// Recommendations returns the recommendations that apply right now
func (e *Engine) Recommendations() []Recommendation {
	return Recommendations(e.state)
}
