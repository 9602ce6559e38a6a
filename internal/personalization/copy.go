package personalization

import (
	"fmt"

	"github.com/example/voicelingo/pkg/models"
)

// Copy keys known to PersonalizedCopy
const (
	CopyWelcomeTitle    = "welcomeTitle"
	CopyRecordPrompt    = "recordPrompt"
	CopyEmptyState      = "emptyState"
	CopyProgressMessage = "progressMessage"
)

var copyTable = map[string]map[models.LearningLevel]string{
	CopyWelcomeTitle: {
		models.LevelBeginner:     "Start Your Journey",
		models.LevelIntermediate: "Keep Growing",
		models.LevelAdvanced:     "Master New Languages",
	},
	CopyRecordPrompt: {
		models.LevelBeginner:     "Tap to speak (try simple words first!)",
		models.LevelIntermediate: "Tap to speak your sentence",
		models.LevelAdvanced:     "Tap to translate complex phrases",
	},
	CopyEmptyState: {
		models.LevelBeginner:     `Say "Hello" to get started!`,
		models.LevelIntermediate: `Try a full sentence like "How are you?"`,
		models.LevelAdvanced:     "Challenge yourself with idioms or technical terms",
	},
	CopyProgressMessage: {
		models.LevelBeginner:     "You're doing great! Every word counts.",
		models.LevelIntermediate: "Solid progress! Keep pushing your limits.",
		models.LevelAdvanced:     "Impressive dedication! You're almost fluent.",
	},
}

// PersonalizedCopy returns the text for key at the given level, or "" for unknown keys
func PersonalizedCopy(level models.LearningLevel, key string) string {
	return copyTable[key][level]
}

// PersonalizedCopy returns the text for key at the user's level
func (e *Engine) PersonalizedCopy(key string) string {
	return PersonalizedCopy(e.state.LearningLevel, key)
}

// Visibility tells the front end which UI elements to show
type Visibility struct {
	ShowAdvancedOptions bool
	ShowTutorialHints   bool
	ShowDetailedStats   bool
	ShowRecommendations bool
	ShowStreakBadge     bool
	ShowProgressRing    bool
	SimplifiedLayout    bool
	ShowHistoryPanel    bool
}

// UIVisibility derives the visibility flags from state
func UIVisibility(state models.PersonalizationState) Visibility {
	mode := state.AdaptiveUIMode
	b := state.Behavior
	return Visibility{
		ShowAdvancedOptions: mode == models.UIModeAdvanced,
		ShowTutorialHints:   mode == models.UIModeSimple,
		ShowDetailedStats:   mode != models.UIModeSimple,
		ShowRecommendations: true,
		ShowStreakBadge:     b.ConsecutiveDays >= 2,
		ShowProgressRing:    true,
		SimplifiedLayout:    mode == models.UIModeSimple,
		ShowHistoryPanel:    b.HistoryFeatureUsage > 0 || b.TranslationsPerSession > 3,
	}
}

func (e *Engine) UIVisibility() Visibility {
	return UIVisibility(e.state)
}

var timeGreetings = map[models.TimeOfDay]string{
	models.Morning:   "Good morning",
	models.Afternoon: "Good afternoon",
	models.Evening:   "Good evening",
	models.Night:     "Burning the midnight oil",
}

// SmartGreeting greets by time of day and mentions the streak when there is one
func SmartGreeting(state models.PersonalizationState) string {
	greeting, ok := timeGreetings[state.Behavior.PreferredTimeOfDay]
	if !ok {
		greeting = "Hello"
	}

	streak := state.Behavior.ConsecutiveDays
	switch {
	case streak >= 7:
		return fmt.Sprintf("%s! 🔥 %d-day streak!", greeting, streak)
	case streak >= 3:
		return fmt.Sprintf("%s! %d days strong!", greeting, streak)
	case state.LearningLevel == models.LevelBeginner:
		return greeting + "! Ready to learn?"
	default:
		return greeting + "!"
	}
}

func (e *Engine) SmartGreeting() string {
	return SmartGreeting(e.state)
}
