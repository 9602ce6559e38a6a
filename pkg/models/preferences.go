package models

import "time"

// HistoryItem is one completed translation
type HistoryItem struct {
	ID         string    `json:"id"`
	Original   string    `json:"original"`
	Translated string    `json:"translated"`
	Phonetic   string    `json:"phonetic"`
	SourceLang string    `json:"sourceLang"`
	TargetLang string    `json:"targetLang"`
	Timestamp  time.Time `json:"timestamp"`
}

// Preferences holds the user's language choices, translation history and daily goal
type Preferences struct {
	SourceLanguage      string        `json:"sourceLanguage"`
	TargetLanguage      string        `json:"targetLanguage"`
	RecentLanguages     []string      `json:"recentLanguages"`
	TotalTranslations   int           `json:"totalTranslations"`
	SessionCount        int           `json:"sessionCount"`
	LastVisit           time.Time     `json:"lastVisit"`
	TranslationHistory  []HistoryItem `json:"translationHistory"` // Newest first
	FavoriteLanguages   []string      `json:"favoriteLanguages"`
	DailyGoal           int           `json:"dailyGoal"`
	TodayTranslations   int           `json:"todayTranslations"`
	LastDayReset        string        `json:"lastDayReset"` // YYYY-MM-DD
	DailyGoalsCompleted int           `json:"dailyGoalsCompleted"`
}
