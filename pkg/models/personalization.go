package models

import "time"

// LearningLevel is the user's classified proficiency
type LearningLevel string

const (
	LevelBeginner     LearningLevel = "beginner"
	LevelIntermediate LearningLevel = "intermediate"
	LevelAdvanced     LearningLevel = "advanced"
)

// Valid reports whether the level is one of the known levels
func (l LearningLevel) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

// UIMode is the coarse UI complexity derived from the learning level
type UIMode string

const (
	UIModeSimple   UIMode = "simple"
	UIModeStandard UIMode = "standard"
	UIModeAdvanced UIMode = "advanced"
)

// TimeOfDay buckets the hour a session started in
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// DeviceType is the inferred device class of the client
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
)

// Tone is the preferred register of UI copy
type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	ToneEncouraging  Tone = "encouraging"
)

// BehaviorMetrics accumulates what the user does across sessions
type BehaviorMetrics struct {
	AvgSessionDuration     float64    `json:"avgSessionDuration"` // Minutes
	TranslationsPerSession int        `json:"translationsPerSession"`
	UniqueLanguagesUsed    int        `json:"uniqueLanguagesUsed"`
	ConsecutiveDays        int        `json:"consecutiveDays"`
	LastActiveDate         string     `json:"lastActiveDate"` // YYYY-MM-DD, empty before the first session
	FeaturesUsed           []string   `json:"featuresUsed"`
	PreferredTimeOfDay     TimeOfDay  `json:"preferredTimeOfDay"`
	DeviceType             DeviceType `json:"deviceType"`
	TotalTimeSpent         float64    `json:"totalTimeSpent"` // Minutes
	ErrorRate              float64    `json:"errorRate"`      // Percentage of failed translations, decayed
	SpeakFeatureUsage      int        `json:"speakFeatureUsage"`
	HistoryFeatureUsage    int        `json:"historyFeatureUsage"`
	SwapFeatureUsage       int        `json:"swapFeatureUsage"`
	LanguagesSeen          []string   `json:"languagesSeen,omitempty"`
}

// PersonalizationState is the persisted record of the personalization engine
type PersonalizationState struct {
	LearningLevel            LearningLevel   `json:"learningLevel"`
	Behavior                 BehaviorMetrics `json:"behavior"`
	OnboardingComplete       bool            `json:"onboardingComplete"`
	TipsShown                []string        `json:"tipsShown"`
	DismissedRecommendations []string        `json:"dismissedRecommendations"`
	AdaptiveUIMode           UIMode          `json:"adaptiveUIMode"`
	PreferredTone            Tone            `json:"preferredTone"`
	LastLevelAssessment      *time.Time      `json:"lastLevelAssessment,omitempty"`
}
