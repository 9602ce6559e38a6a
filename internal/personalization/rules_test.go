package personalization

import (
	"testing"

	"github.com/example/voicelingo/pkg/models"
	"github.com/stretchr/testify/assert"
)

func tipIDs(tips []Tip) []string {
	ids := []string{}
	for _, tip := range tips {
		ids = append(ids, tip.ID)
	}
	return ids
}

func recIDs(recs []Recommendation) []string {
	ids := []string{}
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	return ids
}

func TestContextualTips(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.PersonalizationState)
		want   []string
	}{
		{
			name:   "new user",
			mutate: func(*models.PersonalizationState) {},
			want:   []string{"first_translation", "speak_feature"},
		},
		{
			name: "night streak beginner",
			mutate: func(s *models.PersonalizationState) {
				s.Behavior.ConsecutiveDays = 4
				s.Behavior.TranslationsPerSession = 6
				s.Behavior.PreferredTimeOfDay = models.Night
			},
			want: []string{"first_translation", "speak_feature", "streak_tip", "swap_feature", "night_study"},
		},
		{
			name: "intermediate who used everything",
			mutate: func(s *models.PersonalizationState) {
				s.LearningLevel = models.LevelIntermediate
				s.Behavior.SpeakFeatureUsage = 1
				s.Behavior.SwapFeatureUsage = 1
				s.Behavior.TranslationsPerSession = 30
			},
			want: []string{"advanced_features"},
		},
		{
			name: "shown tips stay hidden",
			mutate: func(s *models.PersonalizationState) {
				s.TipsShown = []string{"first_translation", "speak_feature"}
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state := DefaultState()
			tt.mutate(&state)
			assert.Equal(t, tt.want, tipIDs(ContextualTips(state)))
		})
	}
}

func TestStreakTipMentionsDays(t *testing.T) {
	state := DefaultState()
	state.Behavior.ConsecutiveDays = 12
	for _, tip := range ContextualTips(state) {
		if tip.ID == "streak_tip" {
			assert.Equal(t, "You're on a 12-day streak! Consistency is key to language learning.", tip.Message)
			return
		}
	}
	t.Fatal("streak tip missing")
}

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.PersonalizationState)
		want   []string
	}{
		{
			name:   "new user",
			mutate: func(*models.PersonalizationState) {},
			want:   []string{"try_new_language", "practice_basics", "set_goal", "start_streak"},
		},
		{
			name: "busy intermediate",
			mutate: func(s *models.PersonalizationState) {
				s.LearningLevel = models.LevelIntermediate
				s.Behavior.ConsecutiveDays = 2
				s.Behavior.UniqueLanguagesUsed = 3
				s.Behavior.TranslationsPerSession = 8
			},
			want: []string{"practice_sentences", "use_history"},
		},
		{
			name: "advanced history user",
			mutate: func(s *models.PersonalizationState) {
				s.LearningLevel = models.LevelAdvanced
				s.Behavior.ConsecutiveDays = 9
				s.Behavior.UniqueLanguagesUsed = 5
				s.Behavior.TranslationsPerSession = 40
				s.Behavior.HistoryFeatureUsage = 2
			},
			want: []string{"practice_complex"},
		},
		{
			name: "dismissed",
			mutate: func(s *models.PersonalizationState) {
				s.DismissedRecommendations = []string{"try_new_language", "start_streak"}
			},
			want: []string{"practice_basics", "set_goal"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state := DefaultState()
			tt.mutate(&state)
			assert.Equal(t, tt.want, recIDs(Recommendations(state)))
		})
	}
}

func TestPersonalizedCopy(t *testing.T) {
	assert.Equal(t, "Start Your Journey", PersonalizedCopy(models.LevelBeginner, CopyWelcomeTitle))
	assert.Equal(t, "Tap to speak your sentence", PersonalizedCopy(models.LevelIntermediate, CopyRecordPrompt))
	assert.Equal(t, "Challenge yourself with idioms or technical terms", PersonalizedCopy(models.LevelAdvanced, CopyEmptyState))
	assert.Equal(t, "Impressive dedication! You're almost fluent.", PersonalizedCopy(models.LevelAdvanced, CopyProgressMessage))
	assert.Equal(t, "", PersonalizedCopy(models.LevelBeginner, "footer"))
}

func TestUIVisibility(t *testing.T) {
	state := DefaultState()
	v := UIVisibility(state)
	assert.Equal(t, Visibility{
		ShowTutorialHints:   true,
		ShowRecommendations: true,
		ShowProgressRing:    true,
		SimplifiedLayout:    true,
	}, v)

	state.AdaptiveUIMode = models.UIModeAdvanced
	state.Behavior.ConsecutiveDays = 2
	state.Behavior.TranslationsPerSession = 4
	v = UIVisibility(state)
	assert.True(t, v.ShowAdvancedOptions)
	assert.True(t, v.ShowDetailedStats)
	assert.True(t, v.ShowStreakBadge)
	assert.True(t, v.ShowHistoryPanel)
	assert.False(t, v.SimplifiedLayout)
	assert.False(t, v.ShowTutorialHints)
}

func TestSmartGreeting(t *testing.T) {
	state := DefaultState()
	assert.Equal(t, "Good morning! Ready to learn?", SmartGreeting(state))

	state.LearningLevel = models.LevelAdvanced
	state.Behavior.PreferredTimeOfDay = models.Evening
	assert.Equal(t, "Good evening!", SmartGreeting(state))

	state.Behavior.ConsecutiveDays = 3
	assert.Equal(t, "Good evening! 3 days strong!", SmartGreeting(state))

	state.Behavior.PreferredTimeOfDay = models.Night
	state.Behavior.ConsecutiveDays = 10
	assert.Equal(t, "Burning the midnight oil! 🔥 10-day streak!", SmartGreeting(state))
}
