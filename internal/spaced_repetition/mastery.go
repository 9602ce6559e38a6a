package spaced_repetition

import "github.com/example/voicelingo/pkg/models"

// Mastery is a coarse bucket of how well an item is known
type Mastery string

const (
	MasteryNew       Mastery = "new"
	MasteryReviewing Mastery = "reviewing"
	MasteryLearning  Mastery = "learning"
	MasteryMastered  Mastery = "mastered"
)

// MasteryLevel classifies an item by its consecutive successful reviews
func MasteryLevel(item models.PracticeItem) Mastery {
	switch {
	case item.Repetitions >= 5:
		return MasteryMastered
	case item.Repetitions >= 3:
		return MasteryLearning
	case item.Repetitions >= 1:
		return MasteryReviewing
	default:
		return MasteryNew
	}
}
