package models

import "time"

// PracticeSession is one answered review, kept for auditing only
type PracticeSession struct {
	ItemID    string    `json:"itemId"`
	Quality   int       `json:"quality"` // 0-5 rating of the recall
	Timestamp time.Time `json:"timestamp"`
}

// SchedulerState is the persisted record of the spaced repetition engine
type SchedulerState struct {
	Items          []PracticeItem    `json:"items"`
	Sessions       []PracticeSession `json:"sessions"` // Most recent sessions, oldest first
	TotalSessions  int               `json:"totalSessions"`
	CorrectAnswers int               `json:"correctAnswers"`
	CurrentStreak  int               `json:"currentStreak"`
	BestStreak     int               `json:"bestStreak"`
}
