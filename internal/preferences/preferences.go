package preferences

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/example/voicelingo/internal/database"
	"github.com/example/voicelingo/pkg/models"
	"github.com/oklog/ulid/v2"
)

// StorageKey is the key the preferences are persisted under
const StorageKey = "voicelingo_preferences"

const (
	DefaultSourceLanguage = "en"
	DefaultTargetLanguage = "es"
	DefaultDailyGoal      = 10

	MaxHistory   = 50
	MaxRecent    = 5
	MaxFavorites = 5

	dateLayout = "2006-01-02"
)

// SessionGap is the idle time after which a visit counts as a new session
const SessionGap = time.Hour

var milestones = []int{10, 25, 50, 100, 250, 500, 1000}

// Manager owns the user's language choices, translation history and daily goal.
// It is not safe for concurrent use.
type Manager struct {
	store  database.Store
	now    func() time.Time
	logger *slog.Logger

	prefs models.Preferences
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger persistence warnings are reported to
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New creates a manager and loads the stored preferences
func New(store database.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.load()
	return m
}

// Defaults returns the preferences of a user never seen before
func Defaults() models.Preferences {
	return models.Preferences{
		SourceLanguage:     DefaultSourceLanguage,
		TargetLanguage:     DefaultTargetLanguage,
		RecentLanguages:    []string{},
		TranslationHistory: []models.HistoryItem{},
		FavoriteLanguages:  []string{},
		DailyGoal:          DefaultDailyGoal,
	}
}

func (m *Manager) load() {
	prefs := Defaults()
	err := database.LoadJSON(m.store, StorageKey, &prefs)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		m.logger.Warn("failed to load preferences, using defaults", "key", StorageKey, "error", err)
		prefs = Defaults()
	}

	if prefs.SourceLanguage == "" {
		prefs.SourceLanguage = DefaultSourceLanguage
	}
	if prefs.TargetLanguage == "" {
		prefs.TargetLanguage = DefaultTargetLanguage
	}
	if prefs.DailyGoal < 1 {
		prefs.DailyGoal = DefaultDailyGoal
	}
	if prefs.RecentLanguages == nil {
		prefs.RecentLanguages = []string{}
	}
	if prefs.FavoriteLanguages == nil {
		prefs.FavoriteLanguages = []string{}
	}
	if prefs.TranslationHistory == nil {
		prefs.TranslationHistory = []models.HistoryItem{}
	}
	if len(prefs.TranslationHistory) > MaxHistory {
		prefs.TranslationHistory = prefs.TranslationHistory[:MaxHistory]
	}
	m.prefs = prefs
}

func (m *Manager) clone() models.Preferences {
	next := m.prefs
	next.RecentLanguages = append([]string{}, m.prefs.RecentLanguages...)
	next.FavoriteLanguages = append([]string{}, m.prefs.FavoriteLanguages...)
	next.TranslationHistory = append([]models.HistoryItem{}, m.prefs.TranslationHistory...)
	return next
}

func (m *Manager) commit(next models.Preferences) {
	if err := database.SaveJSON(m.store, StorageKey, next); err != nil {
		m.logger.Warn("failed to persist preferences", "key", StorageKey, "error", err)
	}
	m.prefs = next
}

// rollover resets the today counter when the calendar day changed
func rollover(p *models.Preferences, now time.Time) {
	today := now.Format(dateLayout)
	if p.LastDayReset != today {
		p.TodayTranslations = 0
		p.LastDayReset = today
	}
}

// Bootstrap registers a visit. A visit more than an hour after the last one
// starts a new session; the first visit ever is session one.
func (m *Manager) Bootstrap() {
	now := m.now()
	next := m.clone()

	switch {
	case next.LastVisit.IsZero():
		next.SessionCount = 1
	case now.Sub(next.LastVisit) > SessionGap:
		next.SessionCount++
	}
	next.LastVisit = now
	rollover(&next, now)

	m.commit(next)
}

func (m *Manager) SetSourceLanguage(lang string) {
	if lang == "" || lang == m.prefs.SourceLanguage {
		return
	}
	next := m.clone()
	next.SourceLanguage = lang
	m.commit(next)
}

// SetTargetLanguage switches the target language and moves it to the front
// of the recent languages
func (m *Manager) SetTargetLanguage(lang string) {
	if lang == "" {
		return
	}
	next := m.clone()
	next.TargetLanguage = lang
	next.RecentLanguages = pushRecent(next.RecentLanguages, lang)
	m.commit(next)
}

// SwapLanguages exchanges the source and target language
func (m *Manager) SwapLanguages() {
	next := m.clone()
	next.SourceLanguage, next.TargetLanguage = next.TargetLanguage, next.SourceLanguage
	next.RecentLanguages = pushRecent(next.RecentLanguages, next.TargetLanguage)
	m.commit(next)
}

func pushRecent(recent []string, lang string) []string {
	out := []string{lang}
	for _, l := range recent {
		if l != lang && len(out) < MaxRecent {
			out = append(out, l)
		}
	}
	return out
}

// AddFavoriteLanguage adds lang to the favorites unless it is already there
// or the list is full
func (m *Manager) AddFavoriteLanguage(lang string) bool {
	if lang == "" || len(m.prefs.FavoriteLanguages) >= MaxFavorites {
		return false
	}
	for _, l := range m.prefs.FavoriteLanguages {
		if l == lang {
			return false
		}
	}
	next := m.clone()
	next.FavoriteLanguages = append(next.FavoriteLanguages, lang)
	m.commit(next)
	return true
}

// SetDailyGoal changes the number of translations per day to aim for
func (m *Manager) SetDailyGoal(goal int) error {
	if goal < 1 {
		return fmt.Errorf("daily goal must be at least 1, got %d", goal)
	}
	next := m.clone()
	next.DailyGoal = goal
	m.commit(next)
	return nil
}

// RecordTranslation stores a completed translation at the head of the
// history and bumps the counters. Reaching the daily goal counts as one
// completed goal.
func (m *Manager) RecordTranslation(original, translated, phonetic, sourceLang, targetLang string) models.HistoryItem {
	now := m.now()
	item := models.HistoryItem{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Original:   original,
		Translated: translated,
		Phonetic:   phonetic,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Timestamp:  now,
	}

	next := m.clone()
	rollover(&next, now)

	history := make([]models.HistoryItem, 0, MaxHistory)
	history = append(history, item)
	for _, h := range next.TranslationHistory {
		if len(history) == MaxHistory {
			break
		}
		history = append(history, h)
	}
	next.TranslationHistory = history

	next.TotalTranslations++
	next.TodayTranslations++
	if next.TodayTranslations == next.DailyGoal {
		next.DailyGoalsCompleted++
	}

	m.commit(next)
	return item
}

func (m *Manager) ClearHistory() {
	next := m.clone()
	next.TranslationHistory = []models.HistoryItem{}
	m.commit(next)
}

// History returns the translation history, newest first
func (m *Manager) History() []models.HistoryItem {
	return append([]models.HistoryItem{}, m.prefs.TranslationHistory...)
}

// ImportCandidates turns the history into practice items for the scheduler
func (m *Manager) ImportCandidates() []models.ImportCandidate {
	candidates := make([]models.ImportCandidate, 0, len(m.prefs.TranslationHistory))
	for _, h := range m.prefs.TranslationHistory {
		candidates = append(candidates, Candidate(h))
	}
	return candidates
}

// Candidate converts one history item into a scheduler import candidate
func Candidate(h models.HistoryItem) models.ImportCandidate {
	return models.ImportCandidate{
		ID:         h.ID,
		Original:   h.Original,
		Translated: h.Translated,
		Phonetic:   h.Phonetic,
		SourceLang: h.SourceLang,
		TargetLang: h.TargetLang,
	}
}

// Languages returns the current language pair
func (m *Manager) Languages() (source, target string) {
	return m.prefs.SourceLanguage, m.prefs.TargetLanguage
}

// LanguagesUsed lists every distinct language found in the history and the
// current pair
func (m *Manager) LanguagesUsed() []string {
	seen := map[string]bool{}
	var langs []string
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			langs = append(langs, l)
		}
	}
	add(m.prefs.SourceLanguage)
	add(m.prefs.TargetLanguage)
	for _, h := range m.prefs.TranslationHistory {
		add(h.SourceLang)
		add(h.TargetLang)
	}
	return langs
}

// WelcomeMessage greets the user depending on how far along they are
func (m *Manager) WelcomeMessage() string {
	p := m.prefs
	hour := m.now().Hour()
	greeting := "Good evening"
	switch {
	case hour < 12:
		greeting = "Good morning"
	case hour < 18:
		greeting = "Good afternoon"
	}

	switch {
	case p.SessionCount <= 1:
		return greeting + "! Welcome to VoiceLingo. Start speaking to translate."
	case p.SessionCount <= 5:
		return fmt.Sprintf("%s! You've translated %d phrases so far.", greeting, p.TotalTranslations)
	case p.TodayTranslations >= p.DailyGoal:
		return fmt.Sprintf("Amazing! You've hit your daily goal of %d translations!", p.DailyGoal)
	default:
		return fmt.Sprintf("%s! %d more translations to reach today's goal.", greeting, p.DailyGoal-p.TodayTranslations)
	}
}

// ProgressPercentage returns today's progress towards the daily goal, capped at 100
func (m *Manager) ProgressPercentage() float64 {
	return math.Min(float64(m.prefs.TodayTranslations)/float64(m.prefs.DailyGoal)*100, 100)
}

// MilestoneMessage tells how far the next translation milestone is
func (m *Manager) MilestoneMessage() string {
	for _, milestone := range milestones {
		if milestone > m.prefs.TotalTranslations {
			return fmt.Sprintf("%d more to reach %d translations!", milestone-m.prefs.TotalTranslations, milestone)
		}
	}
	return "You're a VoiceLingo master!"
}

// Preferences returns a copy of the persisted record
func (m *Manager) Preferences() models.Preferences {
	return m.clone()
}
