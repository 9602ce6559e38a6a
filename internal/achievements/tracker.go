package achievements

import (
	"errors"
	"log/slog"
	"time"

	"github.com/example/voicelingo/internal/database"
	"github.com/example/voicelingo/pkg/models"
)

// StorageKey is the key the tracker persists its state under
const StorageKey = "voicelingo_achievements"

// Tracker holds the user's progress towards each catalog achievement.
// It is not safe for concurrent use.
type Tracker struct {
	store   database.Store
	catalog []models.Achievement
	now     func() time.Time
	logger  *slog.Logger

	state models.AchievementState
	index map[string]int
	// Achievements unlocked since the last ClearNewlyUnlocked, in unlock order
	newlyUnlocked []models.Achievement
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock replaces the wall clock. The hour of the returned time decides
// the time of day achievements.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger persistence warnings are reported to
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// WithCatalog replaces the built-in achievement definitions
func WithCatalog(catalog []models.Achievement) Option {
	return func(t *Tracker) { t.catalog = catalog }
}

// New creates a tracker and merges the persisted progress into the catalog
func New(store database.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:   store,
		catalog: Catalog(),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.load()
	return t
}

func (t *Tracker) load() {
	var persisted models.AchievementState
	err := database.LoadJSON(t.store, StorageKey, &persisted)
	switch {
	case errors.Is(err, database.ErrNotFound):
		persisted = models.AchievementState{LastChecked: t.now()}
	case err != nil:
		t.logger.Warn("failed to load achievements, starting fresh", "key", StorageKey, "error", err)
		persisted = models.AchievementState{LastChecked: t.now()}
	}

	persisted.Achievements = Merge(t.catalog, persisted.Achievements)
	persisted.TotalPoints = Points(persisted.Achievements)
	t.setState(persisted)
}

func (t *Tracker) setState(state models.AchievementState) {
	t.state = state
	t.index = make(map[string]int, len(state.Achievements))
	for i, a := range state.Achievements {
		t.index[a.ID] = i
	}
}

func (t *Tracker) clone() models.AchievementState {
	next := t.state
	next.Achievements = append([]models.Achievement{}, t.state.Achievements...)
	return next
}

func (t *Tracker) commit(next models.AchievementState) {
	next.TotalPoints = Points(next.Achievements)
	if err := database.SaveJSON(t.store, StorageKey, next); err != nil {
		t.logger.Warn("failed to persist achievements", "key", StorageKey, "error", err)
	}
	t.setState(next)
}

// advance raises the progress of one achievement inside next and reports
// whether it unlocked. Unlocked achievements are queued for NewlyUnlocked.
func (t *Tracker) advance(next *models.AchievementState, id string, progress int, now time.Time) bool {
	i, ok := t.index[id]
	if !ok {
		return false
	}

	a := &next.Achievements[i]
	if progress > a.Progress {
		a.Progress = progress
	}
	if a.Unlocked || a.Progress < a.Requirement {
		return false
	}

	unlockedAt := now
	a.Unlocked = true
	a.UnlockedAt = &unlockedAt
	t.newlyUnlocked = append(t.newlyUnlocked, *a)
	return true
}

// UpdateProgress raises the progress of an achievement to at least progress.
// Progress never decreases and an achievement unlocks at most once.
// It reports whether this call unlocked the achievement; unknown ids are ignored.
func (t *Tracker) UpdateProgress(id string, progress int) bool {
	if _, ok := t.index[id]; !ok {
		return false
	}

	next := t.clone()
	unlocked := t.advance(&next, id, progress, t.now())
	t.commit(next)
	return unlocked
}

// Counters is a partial snapshot of the user's activity. Nil fields are skipped.
type Counters struct {
	TotalTranslations   *int
	Streak              *int
	LanguagesUsed       *int
	DailyGoalsCompleted *int
	PracticeSessions    *int
}

// Count returns a pointer to n, for filling Counters
func Count(n int) *int {
	return &n
}

var (
	translationIDs = []string{FirstTranslation, TenTranslations, FiftyTranslations, HundredTranslations, FiveHundredTranslations, ThousandTranslations}
	streakIDs      = []string{Streak3, Streak7, Streak14, Streak30, Streak100}
	explorerIDs    = []string{Explorer2, Explorer5, Explorer10}
	dailyGoalIDs   = []string{DailyGoal1, DailyGoal7, DailyGoal30}
	practiceIDs    = []string{PracticeMaster}
)

// CheckAchievements fans the counters out to every related achievement and
// evaluates the time of day achievements against the current hour. Night owl
// covers hours 0-4 and early bird hours 4-5, so both can fire at 4 AM.
// All changes are persisted in one write. It returns the achievements this
// call unlocked.
func (t *Tracker) CheckAchievements(c Counters) []models.Achievement {
	now := t.now()
	next := t.clone()
	before := len(t.newlyUnlocked)

	hour := now.Hour()
	if hour >= 0 && hour < 5 {
		t.advance(&next, NightOwl, 1, now)
	}
	if hour >= 4 && hour < 6 {
		t.advance(&next, EarlyBird, 1, now)
	}

	fanOut := func(ids []string, value *int) {
		if value == nil {
			return
		}
		for _, id := range ids {
			t.advance(&next, id, *value, now)
		}
	}
	fanOut(translationIDs, c.TotalTranslations)
	fanOut(streakIDs, c.Streak)
	fanOut(explorerIDs, c.LanguagesUsed)
	fanOut(dailyGoalIDs, c.DailyGoalsCompleted)
	fanOut(practiceIDs, c.PracticeSessions)

	next.LastChecked = now
	t.commit(next)

	return append([]models.Achievement{}, t.newlyUnlocked[before:]...)
}

// NewlyUnlocked returns the achievements unlocked since the queue was last cleared
func (t *Tracker) NewlyUnlocked() []models.Achievement {
	return append([]models.Achievement{}, t.newlyUnlocked...)
}

// ClearNewlyUnlocked empties the newly unlocked queue
func (t *Tracker) ClearNewlyUnlocked() {
	t.newlyUnlocked = nil
}

// Achievements returns all achievements in catalog order
func (t *Tracker) Achievements() []models.Achievement {
	return append([]models.Achievement{}, t.state.Achievements...)
}

// Achievement returns the achievement with the given id
func (t *Tracker) Achievement(id string) (models.Achievement, bool) {
	i, ok := t.index[id]
	if !ok {
		return models.Achievement{}, false
	}
	return t.state.Achievements[i], true
}

// ByCategory groups the achievements by category, keeping catalog order
func (t *Tracker) ByCategory() map[models.AchievementCategory][]models.Achievement {
	grouped := make(map[models.AchievementCategory][]models.Achievement)
	for _, a := range t.state.Achievements {
		grouped[a.Category] = append(grouped[a.Category], a)
	}
	return grouped
}

func (t *Tracker) UnlockedCount() int {
	count := 0
	for _, a := range t.state.Achievements {
		if a.Unlocked {
			count++
		}
	}
	return count
}

func (t *Tracker) TotalCount() int {
	return len(t.state.Achievements)
}

// TotalPoints returns the points of all unlocked achievements
func (t *Tracker) TotalPoints() int {
	return t.state.TotalPoints
}

// LastChecked returns when CheckAchievements last ran
func (t *Tracker) LastChecked() time.Time {
	return t.state.LastChecked
}

// State returns a copy of the persisted record
func (t *Tracker) State() models.AchievementState {
	return t.clone()
}
