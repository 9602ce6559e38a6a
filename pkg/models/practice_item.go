package models

import "time"

// PracticeItem is a phrase pair scheduled for review with the SM-2 algorithm
type PracticeItem struct {
	ID          string     `json:"id"`
	Original    string     `json:"original"`
	Translated  string     `json:"translated"`
	Phonetic    string     `json:"phonetic"`
	SourceLang  string     `json:"sourceLang"`
	TargetLang  string     `json:"targetLang"`
	EaseFactor  float64    `json:"easeFactor"`  // SM-2 EF parameter, never below 1.3
	Interval    int        `json:"interval"`    // Current interval in days
	Repetitions int        `json:"repetitions"` // Consecutive successful reviews
	NextReview  time.Time  `json:"nextReview"`
	LastReview  *time.Time `json:"lastReview,omitempty"` // Unset until the first review
}

// ImportCandidate is a translated phrase offered to the scheduler for import
type ImportCandidate struct {
	ID         string `json:"id"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Phonetic   string `json:"phonetic"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}
