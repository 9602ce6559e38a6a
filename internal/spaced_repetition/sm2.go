package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/voicelingo/pkg/models"
)

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Answers at or above this quality count as a successful recall
	PassThreshold QualityResponse
	// Lower bound of the easiness factor
	MinEaseFactor float64
	// Easiness factor given to newly imported items
	DefaultEaseFactor float64
	// Fixed intervals in days for the first successful repetitions;
	// later intervals grow by the easiness factor
	InitialIntervals []int
	// Interval after a failed recall
	FailInterval int
	// Upper bound of the interval in days
	MaxInterval int
}

// NewSM2 creates a new SM2 instance with the classic SM-2 settings
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold:     QualityCorrectDifficult,
		MinEaseFactor:     1.3,
		DefaultEaseFactor: 2.5,
		InitialIntervals:  []int{1, 6},
		FailInterval:      1,
		MaxInterval:       36500, // 100 years
	}
}

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// Clamp limits the quality to the 0-5 scale
func (q QualityResponse) Clamp() QualityResponse {
	if q < QualityBlackout {
		return QualityBlackout
	}
	if q > QualityPerfect {
		return QualityPerfect
	}
	return q
}

// NextEaseFactor applies the SM-2 easiness update. Worse-than-good answers
// lower the factor increasingly; a perfect answer raises it by 0.1.
func (sm *SM2) NextEaseFactor(ef float64, quality QualityResponse) float64 {
	miss := 5.0 - float64(quality.Clamp())
	newEF := ef + (0.1 - miss*(0.08+miss*0.02))
	if newEF < sm.MinEaseFactor {
		newEF = sm.MinEaseFactor
	}
	return newEF
}

// NextInterval returns the interval in days and the repetition count that
// follow an answer of the given quality
func (sm *SM2) NextInterval(item models.PracticeItem, quality QualityResponse) (interval, repetitions int) {
	if quality.Clamp() < sm.PassThreshold {
		// Incorrect response - the item starts over
		return sm.FailInterval, 0
	}

	if item.Repetitions < len(sm.InitialIntervals) {
		interval = sm.InitialIntervals[item.Repetitions]
	} else {
		next := math.Round(float64(item.Interval) * item.EaseFactor)
		if next > float64(sm.MaxInterval) {
			next = float64(sm.MaxInterval)
		}
		interval = int(next)
	}
	if interval > sm.MaxInterval {
		interval = sm.MaxInterval
	}
	return interval, item.Repetitions + 1
}

// Process returns the item as rescheduled by an answer given at now.
// The interval grows by the easiness factor held before this answer.
func (sm *SM2) Process(item models.PracticeItem, quality QualityResponse, now time.Time) models.PracticeItem {
	quality = quality.Clamp()

	item.Interval, item.Repetitions = sm.NextInterval(item, quality)
	item.EaseFactor = sm.NextEaseFactor(item.EaseFactor, quality)
	item.NextReview = now.AddDate(0, 0, item.Interval)
	reviewed := now
	item.LastReview = &reviewed

	return item
}

// IsPassing reports whether the answer counts as a correct recall
func (sm *SM2) IsPassing(quality QualityResponse) bool {
	return quality.Clamp() >= sm.PassThreshold
}
