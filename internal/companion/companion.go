// Package companion routes user events into the learning engines and
// composes their views. The engines never call each other; counters one
// engine needs from another are passed here.
package companion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/voicelingo/internal/achievements"
	"github.com/example/voicelingo/internal/database"
	"github.com/example/voicelingo/internal/personalization"
	"github.com/example/voicelingo/internal/preferences"
	"github.com/example/voicelingo/internal/spaced_repetition"
	"github.com/example/voicelingo/internal/translate"
	"github.com/example/voicelingo/pkg/models"
	"github.com/google/uuid"
)

// ErrNoTranslator is returned by Translate when no provider is configured
var ErrNoTranslator = errors.New("no translation provider configured")

// Features tracked by the companion itself
const (
	FeaturePractice = "practice"
	FeatureImport   = "import"
)

// Translator is the translation provider
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (translate.Translation, error)
}

// Companion is one user's learning session. It is not safe for concurrent use.
type Companion struct {
	ID string

	Scheduler       *spaced_repetition.Engine
	Achievements    *achievements.Tracker
	Personalization *personalization.Engine
	Preferences     *preferences.Manager

	translator Translator
	logger     *slog.Logger
}

type options struct {
	now        func() time.Time
	logger     *slog.Logger
	translator Translator
}

// Option configures a Companion
type Option func(*options)

// WithClock replaces the wall clock of every engine
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithTranslator(t Translator) Option {
	return func(o *options) { o.translator = t }
}

// Open loads all engines from store
func Open(store database.Store, opts ...Option) *Companion {
	o := options{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	logger := o.logger.With("session", id)

	return &Companion{
		ID:              id,
		Scheduler:       spaced_repetition.New(store, spaced_repetition.WithClock(o.now), spaced_repetition.WithLogger(logger)),
		Achievements:    achievements.New(store, achievements.WithClock(o.now), achievements.WithLogger(logger)),
		Personalization: personalization.New(store, personalization.WithClock(o.now), personalization.WithLogger(logger)),
		Preferences:     preferences.New(store, preferences.WithClock(o.now), preferences.WithLogger(logger)),
		translator:      o.translator,
		logger:          logger,
	}
}

// Start begins a session: registers the visit, seeds the scheduler from the
// translation history and evaluates achievements
func (c *Companion) Start(device models.DeviceType) {
	c.Preferences.Bootstrap()
	c.Personalization.BeginSession(device)
	if n := c.Scheduler.ImportItems(c.Preferences.ImportCandidates()); n > 0 {
		c.logger.Debug("imported history into practice", "items", n)
	}
	c.Personalization.TrackLanguageUsage(c.Preferences.LanguagesUsed())
	c.checkAchievements()
}

// Stop ends the session
func (c *Companion) Stop() {
	c.Personalization.EndSession()
}

func (c *Companion) checkAchievements() []models.Achievement {
	prefs := c.Preferences.Preferences()
	behavior := c.Personalization.Behavior()
	return c.Achievements.CheckAchievements(achievements.Counters{
		TotalTranslations:   achievements.Count(prefs.TotalTranslations),
		Streak:              achievements.Count(behavior.ConsecutiveDays),
		LanguagesUsed:       achievements.Count(behavior.UniqueLanguagesUsed),
		DailyGoalsCompleted: achievements.Count(prefs.DailyGoalsCompleted),
		PracticeSessions:    achievements.Count(c.Scheduler.State().TotalSessions),
	})
}

// Translate translates text with the current language pair. A successful
// translation lands in the history and the practice schedule.
func (c *Companion) Translate(ctx context.Context, text string) (models.HistoryItem, error) {
	if c.translator == nil {
		return models.HistoryItem{}, ErrNoTranslator
	}
	source, target := c.Preferences.Languages()

	result, err := c.translator.Translate(ctx, text, source, target)
	if err != nil {
		if !errors.Is(err, translate.ErrEmptyText) {
			c.Personalization.TrackTranslation(false, target)
		}
		return models.HistoryItem{}, fmt.Errorf("failed to translate: %w", err)
	}

	item := c.Preferences.RecordTranslation(text, result.Text, result.Phonetic, source, target)
	c.Personalization.TrackTranslation(true, target)
	c.Personalization.TrackLanguageUsage(c.Preferences.LanguagesUsed())
	c.Scheduler.ImportItems([]models.ImportCandidate{preferences.Candidate(item)})
	c.checkAchievements()

	return item, nil
}

// SubmitAnswer grades a practice item. Unknown ids are ignored.
func (c *Companion) SubmitAnswer(itemID string, quality int) (models.PracticeItem, bool) {
	item, ok := c.Scheduler.SubmitAnswer(itemID, quality)
	if !ok {
		return item, false
	}
	c.Personalization.TrackFeatureUsage(FeaturePractice)
	c.checkAchievements()
	return item, true
}

// UseFeature records the use of a front end feature such as speak or history
func (c *Companion) UseFeature(feature string) {
	c.Personalization.TrackFeatureUsage(feature)
}

// SwapLanguages reverses the language pair
func (c *Companion) SwapLanguages() {
	c.Preferences.SwapLanguages()
	c.Personalization.TrackFeatureUsage(personalization.FeatureSwap)
}

// SetLanguages changes the language pair
func (c *Companion) SetLanguages(source, target string) {
	c.Preferences.SetSourceLanguage(source)
	c.Preferences.SetTargetLanguage(target)
	c.Personalization.TrackLanguageUsage(c.Preferences.LanguagesUsed())
	c.checkAchievements()
}

// ImportPhrases schedules externally supplied phrases and returns how many were new
func (c *Companion) ImportPhrases(candidates []models.ImportCandidate) int {
	n := c.Scheduler.ImportItems(candidates)
	if n > 0 {
		c.Personalization.TrackFeatureUsage(FeatureImport)
	}
	return n
}

// Dashboard is a snapshot of everything a front end shows on its home screen
type Dashboard struct {
	Greeting        string
	Welcome         string
	Milestone       string
	Level           models.LearningLevel
	SuggestedLevel  models.LearningLevel
	DueItems        int
	Stats           spaced_repetition.Stats
	DailyProgress   float64
	TotalPoints     int
	UnlockedCount   int
	TotalCount      int
	Tips            []personalization.Tip
	Recommendations []personalization.Recommendation
	Visibility      personalization.Visibility
	NewlyUnlocked   []models.Achievement
}

// Dashboard collects the current views of all engines
func (c *Companion) Dashboard() Dashboard {
	stats := c.Scheduler.Stats()
	return Dashboard{
		Greeting:        c.Personalization.SmartGreeting(),
		Welcome:         c.Preferences.WelcomeMessage(),
		Milestone:       c.Preferences.MilestoneMessage(),
		Level:           c.Personalization.LearningLevel(),
		SuggestedLevel:  c.Personalization.AssessLearningLevel(),
		DueItems:        stats.DueItems,
		Stats:           stats,
		DailyProgress:   c.Preferences.ProgressPercentage(),
		TotalPoints:     c.Achievements.TotalPoints(),
		UnlockedCount:   c.Achievements.UnlockedCount(),
		TotalCount:      c.Achievements.TotalCount(),
		Tips:            c.Personalization.ContextualTips(),
		Recommendations: c.Personalization.Recommendations(),
		Visibility:      c.Personalization.UIVisibility(),
		NewlyUnlocked:   c.Achievements.NewlyUnlocked(),
	}
}
