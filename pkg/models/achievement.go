package models

import "time"

// AchievementCategory groups achievements by theme
type AchievementCategory string

const (
	CategoryMilestone AchievementCategory = "milestone"
	CategoryStreak    AchievementCategory = "streak"
	CategoryExplorer  AchievementCategory = "explorer"
	CategoryMastery   AchievementCategory = "mastery"
	CategorySpecial   AchievementCategory = "special"
)

// Rarity determines how many points an unlocked achievement is worth
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Points returns the point value of the rarity
func (r Rarity) Points() int {
	switch r {
	case RarityCommon:
		return 10
	case RarityRare:
		return 25
	case RarityEpic:
		return 50
	case RarityLegendary:
		return 100
	}
	return 0
}

// Achievement is a catalog definition together with the user's progress on it
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Requirement int                 `json:"requirement"` // Progress needed to unlock
	Rarity      Rarity              `json:"rarity"`
	Progress    int                 `json:"progress"`
	Unlocked    bool                `json:"unlocked"`
	UnlockedAt  *time.Time          `json:"unlockedAt,omitempty"` // Set once, on unlock
}

// AchievementState is the persisted record of the achievement tracker
type AchievementState struct {
	Achievements []Achievement `json:"achievements"`
	TotalPoints  int           `json:"totalPoints"`
	LastChecked  time.Time     `json:"lastChecked"`
}
