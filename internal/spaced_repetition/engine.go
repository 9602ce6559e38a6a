package spaced_repetition

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/example/voicelingo/internal/database"
	"github.com/example/voicelingo/pkg/models"
)

// StorageKey is the key the engine persists its state under
const StorageKey = "voicelingo_spaced_repetition"

// MaxSessions bounds the practice session log
const MaxSessions = 100

// Engine owns the practice items of one user and schedules them with SM-2.
// It is not safe for concurrent use.
type Engine struct {
	store  database.Store
	sm2    *SM2
	now    func() time.Time
	logger *slog.Logger

	state models.SchedulerState
	index map[string]int
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger persistence warnings are reported to
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithAlgorithm replaces the default SM-2 settings
func WithAlgorithm(sm *SM2) Option {
	return func(e *Engine) { e.sm2 = sm }
}

// New creates an engine and loads its state from store. Missing or corrupt
// state falls back to an empty schedule.
func New(store database.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		sm2:    NewSM2(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.load()
	return e
}

func defaultState() models.SchedulerState {
	return models.SchedulerState{
		Items:    []models.PracticeItem{},
		Sessions: []models.PracticeSession{},
	}
}

func (e *Engine) load() {
	var state models.SchedulerState
	err := database.LoadJSON(e.store, StorageKey, &state)
	switch {
	case errors.Is(err, database.ErrNotFound):
		state = defaultState()
	case err != nil:
		e.logger.Warn("failed to load spaced repetition state, starting empty", "key", StorageKey, "error", err)
		state = defaultState()
	}
	e.setState(normalize(state, e.sm2))
}

// normalize drops duplicate ids and repairs values a well-formed state never holds
func normalize(state models.SchedulerState, sm *SM2) models.SchedulerState {
	seen := make(map[string]bool, len(state.Items))
	items := make([]models.PracticeItem, 0, len(state.Items))
	for _, item := range state.Items {
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		if item.EaseFactor < sm.MinEaseFactor {
			item.EaseFactor = sm.MinEaseFactor
		}
		if item.Repetitions > 0 && item.Interval < 1 {
			item.Interval = 1
		}
		if item.Interval > sm.MaxInterval {
			item.Interval = sm.MaxInterval
		}
		items = append(items, item)
	}
	state.Items = items

	if state.Sessions == nil {
		state.Sessions = []models.PracticeSession{}
	}
	if len(state.Sessions) > MaxSessions {
		state.Sessions = state.Sessions[len(state.Sessions)-MaxSessions:]
	}
	if state.BestStreak < state.CurrentStreak {
		state.BestStreak = state.CurrentStreak
	}
	return state
}

func (e *Engine) setState(state models.SchedulerState) {
	e.state = state
	e.index = make(map[string]int, len(state.Items))
	for i, item := range state.Items {
		e.index[item.ID] = i
	}
}

// commit persists next in a single write and makes it the current state.
// A failed write is reported as a warning; the in-memory state stays authoritative.
func (e *Engine) commit(next models.SchedulerState) {
	if err := database.SaveJSON(e.store, StorageKey, next); err != nil {
		e.logger.Warn("failed to persist spaced repetition state", "key", StorageKey, "error", err)
	}
	e.setState(next)
}

func (e *Engine) clone() models.SchedulerState {
	next := e.state
	next.Items = append([]models.PracticeItem{}, e.state.Items...)
	next.Sessions = append([]models.PracticeSession{}, e.state.Sessions...)
	return next
}

// ImportItems adds every candidate whose id is not scheduled yet. Existing
// items are never overwritten. It returns the number of items created.
func (e *Engine) ImportItems(candidates []models.ImportCandidate) int {
	now := e.now()
	next := e.clone()
	seen := make(map[string]bool, len(candidates))

	created := 0
	for _, c := range candidates {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if _, exists := e.index[c.ID]; exists {
			continue
		}
		next.Items = append(next.Items, models.PracticeItem{
			ID:          c.ID,
			Original:    c.Original,
			Translated:  c.Translated,
			Phonetic:    c.Phonetic,
			SourceLang:  c.SourceLang,
			TargetLang:  c.TargetLang,
			EaseFactor:  e.sm2.DefaultEaseFactor,
			Interval:    0,
			Repetitions: 0,
			NextReview:  now,
		})
		created++
	}

	if created > 0 {
		e.commit(next)
	}
	return created
}

// DueItems returns the items whose review time has come, earliest first.
// Items due at the same moment keep their insertion order.
func (e *Engine) DueItems() []models.PracticeItem {
	now := e.now()
	return e.filterSorted(func(item models.PracticeItem) bool {
		return !item.NextReview.After(now)
	})
}

// UpcomingItems returns the items that are not due yet, earliest first
func (e *Engine) UpcomingItems() []models.PracticeItem {
	now := e.now()
	return e.filterSorted(func(item models.PracticeItem) bool {
		return item.NextReview.After(now)
	})
}

func (e *Engine) filterSorted(keep func(models.PracticeItem) bool) []models.PracticeItem {
	result := []models.PracticeItem{}
	for _, item := range e.state.Items {
		if keep(item) {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].NextReview.Before(result[j].NextReview)
	})
	return result
}

// SubmitAnswer reschedules the item after an answer of the given quality
// (0-5, clamped) and updates the session counters. Unknown ids are ignored,
// since the host may race a removal against an in-flight answer.
func (e *Engine) SubmitAnswer(itemID string, quality int) (models.PracticeItem, bool) {
	i, ok := e.index[itemID]
	if !ok {
		return models.PracticeItem{}, false
	}

	now := e.now()
	q := QualityResponse(quality).Clamp()
	next := e.clone()

	updated := e.sm2.Process(next.Items[i], q, now)
	next.Items[i] = updated

	next.Sessions = append(next.Sessions, models.PracticeSession{
		ItemID:    itemID,
		Quality:   int(q),
		Timestamp: now,
	})
	if len(next.Sessions) > MaxSessions {
		next.Sessions = next.Sessions[len(next.Sessions)-MaxSessions:]
	}

	next.TotalSessions++
	if e.sm2.IsPassing(q) {
		next.CorrectAnswers++
		next.CurrentStreak++
	} else {
		next.CurrentStreak = 0
	}
	if next.CurrentStreak > next.BestStreak {
		next.BestStreak = next.CurrentStreak
	}

	e.commit(next)
	return updated, true
}

// RemoveItem deletes an item. The session log and counters are kept.
func (e *Engine) RemoveItem(itemID string) bool {
	i, ok := e.index[itemID]
	if !ok {
		return false
	}

	next := e.clone()
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	e.commit(next)
	return true
}

// Accuracy returns the percentage of correct answers, 0 before any answer
func (e *Engine) Accuracy() int {
	if e.state.TotalSessions == 0 {
		return 0
	}
	return int(math.Round(100 * float64(e.state.CorrectAnswers) / float64(e.state.TotalSessions)))
}

// MasteryLevel classifies an item, see the package level MasteryLevel
func (e *Engine) MasteryLevel(item models.PracticeItem) Mastery {
	return MasteryLevel(item)
}

// Item returns the item with the given id
func (e *Engine) Item(itemID string) (models.PracticeItem, bool) {
	i, ok := e.index[itemID]
	if !ok {
		return models.PracticeItem{}, false
	}
	return e.state.Items[i], true
}

// Items returns all items in insertion order
func (e *Engine) Items() []models.PracticeItem {
	return append([]models.PracticeItem{}, e.state.Items...)
}

// State returns a copy of the persisted record
func (e *Engine) State() models.SchedulerState {
	return e.clone()
}

// Stats summarizes the schedule
type Stats struct {
	TotalItems        int
	DueItems          int
	TotalSessions     int
	CorrectAnswers    int
	CurrentStreak     int
	BestStreak        int
	Accuracy          int
	AverageEaseFactor float64
	Mastery           map[Mastery]int
}

// Stats returns statistics about the user's progress
func (e *Engine) Stats() Stats {
	stats := Stats{
		TotalItems:        len(e.state.Items),
		DueItems:          len(e.DueItems()),
		TotalSessions:     e.state.TotalSessions,
		CorrectAnswers:    e.state.CorrectAnswers,
		CurrentStreak:     e.state.CurrentStreak,
		BestStreak:        e.state.BestStreak,
		Accuracy:          e.Accuracy(),
		AverageEaseFactor: e.sm2.DefaultEaseFactor,
		Mastery: map[Mastery]int{
			MasteryNew:       0,
			MasteryReviewing: 0,
			MasteryLearning:  0,
			MasteryMastered:  0,
		},
	}

	var sum float64
	for _, item := range e.state.Items {
		sum += item.EaseFactor
		stats.Mastery[MasteryLevel(item)]++
	}
	if len(e.state.Items) > 0 {
		stats.AverageEaseFactor = sum / float64(len(e.state.Items))
	}
	return stats
}
