package personalization

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/example/voicelingo/internal/database"
	"github.com/example/voicelingo/pkg/models"
)

// StorageKey is the key the engine persists its state under
const StorageKey = "voicelingo_hyper_personalization"

// DateLayout is the layout of BehaviorMetrics.LastActiveDate
const DateLayout = "2006-01-02"

// Features with dedicated usage counters
const (
	FeatureSpeak   = "speak"
	FeatureHistory = "history"
	FeatureSwap    = "swap"
)

// Engine infers the user's level from behavior and derives tips,
// recommendations, copy and UI flags from it. It is not safe for concurrent use.
type Engine struct {
	store  database.Store
	now    func() time.Time
	logger *slog.Logger

	state        models.PersonalizationState
	sessionStart *time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock. Dates and the time of day are taken
// in the location of the returned time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger persistence warnings are reported to
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an engine and loads its state from store. No session is
// started; call BeginSession when the user shows up.
func New(store database.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.load()
	return e
}

// DefaultState returns the state of a user never seen before
func DefaultState() models.PersonalizationState {
	return models.PersonalizationState{
		LearningLevel: models.LevelBeginner,
		Behavior: models.BehaviorMetrics{
			FeaturesUsed:       []string{},
			PreferredTimeOfDay: models.Morning,
			DeviceType:         models.DeviceDesktop,
		},
		TipsShown:                []string{},
		DismissedRecommendations: []string{},
		AdaptiveUIMode:           models.UIModeSimple,
		PreferredTone:            models.ToneFriendly,
	}
}

func (e *Engine) load() {
	var state models.PersonalizationState
	err := database.LoadJSON(e.store, StorageKey, &state)
	switch {
	case errors.Is(err, database.ErrNotFound):
		state = DefaultState()
	case err != nil:
		e.logger.Warn("failed to load personalization state, starting fresh", "key", StorageKey, "error", err)
		state = DefaultState()
	}
	e.state = normalize(state)
}

// normalize fills in fields an older or partial record lacks
func normalize(state models.PersonalizationState) models.PersonalizationState {
	defaults := DefaultState()
	if !state.LearningLevel.Valid() {
		state.LearningLevel = defaults.LearningLevel
	}
	state.AdaptiveUIMode = ModeForLevel(state.LearningLevel)
	switch state.PreferredTone {
	case models.ToneFriendly, models.ToneProfessional, models.ToneEncouraging:
	default:
		state.PreferredTone = defaults.PreferredTone
	}

	b := &state.Behavior
	if b.PreferredTimeOfDay == "" {
		b.PreferredTimeOfDay = defaults.Behavior.PreferredTimeOfDay
	}
	if b.DeviceType == "" {
		b.DeviceType = defaults.Behavior.DeviceType
	}
	b.FeaturesUsed = dedupe(b.FeaturesUsed)
	state.TipsShown = dedupe(state.TipsShown)
	state.DismissedRecommendations = dedupe(state.DismissedRecommendations)
	if len(b.LanguagesSeen) > 0 {
		b.LanguagesSeen = dedupe(b.LanguagesSeen)
	}
	return state
}

func dedupe(values []string) []string {
	out := []string{}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func (e *Engine) clone() models.PersonalizationState {
	next := e.state
	next.Behavior.FeaturesUsed = append([]string{}, e.state.Behavior.FeaturesUsed...)
	if e.state.Behavior.LanguagesSeen != nil {
		next.Behavior.LanguagesSeen = append([]string{}, e.state.Behavior.LanguagesSeen...)
	}
	next.TipsShown = append([]string{}, e.state.TipsShown...)
	next.DismissedRecommendations = append([]string{}, e.state.DismissedRecommendations...)
	if e.state.LastLevelAssessment != nil {
		at := *e.state.LastLevelAssessment
		next.LastLevelAssessment = &at
	}
	return next
}

func (e *Engine) commit(next models.PersonalizationState) {
	if err := database.SaveJSON(e.store, StorageKey, next); err != nil {
		e.logger.Warn("failed to persist personalization state", "key", StorageKey, "error", err)
	}
	e.state = next
}

// TimeOfDayAt buckets the hour of t: morning 5-11, afternoon 12-16,
// evening 17-20, night otherwise
func TimeOfDayAt(t time.Time) models.TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return models.Morning
	case hour >= 12 && hour < 17:
		return models.Afternoon
	case hour >= 17 && hour < 21:
		return models.Evening
	default:
		return models.Night
	}
}

// DeviceForWidth classifies a client by its viewport width in pixels
func DeviceForWidth(width int) models.DeviceType {
	switch {
	case width < 768:
		return models.DeviceMobile
	case width < 1024:
		return models.DeviceTablet
	default:
		return models.DeviceDesktop
	}
}

// BeginSession starts a session and updates the daily streak. Calling it
// again before EndSession does nothing.
func (e *Engine) BeginSession(device models.DeviceType) {
	if e.sessionStart != nil {
		return
	}
	now := e.now()
	e.sessionStart = &now

	today := now.Format(DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(DateLayout)

	next := e.clone()
	b := &next.Behavior
	switch b.LastActiveDate {
	case today:
	case yesterday:
		b.ConsecutiveDays++
	default:
		b.ConsecutiveDays = 1
	}
	b.LastActiveDate = today
	if device != "" {
		b.DeviceType = device
	}
	b.PreferredTimeOfDay = TimeOfDayAt(now)

	e.commit(next)
}

// EndSession folds the session length into the duration metrics.
// It does nothing when no session was begun.
func (e *Engine) EndSession() {
	if e.sessionStart == nil {
		return
	}
	minutes := e.now().Sub(*e.sessionStart).Minutes()
	e.sessionStart = nil
	if minutes < 0 {
		minutes = 0
	}

	next := e.clone()
	b := &next.Behavior
	if b.AvgSessionDuration > 0 {
		b.AvgSessionDuration = math.Round((b.AvgSessionDuration + minutes) / 2)
	} else {
		b.AvgSessionDuration = minutes
	}
	b.TotalTimeSpent += minutes

	e.commit(next)
}

// InSession reports whether BeginSession was called without a matching EndSession
func (e *Engine) InSession() bool {
	return e.sessionStart != nil
}

// Score rates the behavior on a 0-9 scale
func Score(b models.BehaviorMetrics) int {
	score := 0

	switch {
	case b.TotalTimeSpent > 120:
		score += 2
	case b.TotalTimeSpent > 30:
		score++
	}

	switch {
	case b.UniqueLanguagesUsed >= 4:
		score += 2
	case b.UniqueLanguagesUsed >= 2:
		score++
	}

	switch {
	case b.TranslationsPerSession > 20:
		score += 2
	case b.TranslationsPerSession > 10:
		score++
	}

	switch {
	case b.ConsecutiveDays >= 7:
		score += 2
	case b.ConsecutiveDays >= 3:
		score++
	}

	if len(b.FeaturesUsed) >= 5 {
		score++
	}
	return score
}

// LevelForScore maps a behavior score to a learning level
func LevelForScore(score int) models.LearningLevel {
	switch {
	case score >= 7:
		return models.LevelAdvanced
	case score >= 3:
		return models.LevelIntermediate
	default:
		return models.LevelBeginner
	}
}

// ModeForLevel returns the UI mode that goes with a learning level
func ModeForLevel(level models.LearningLevel) models.UIMode {
	switch level {
	case models.LevelAdvanced:
		return models.UIModeAdvanced
	case models.LevelIntermediate:
		return models.UIModeStandard
	default:
		return models.UIModeSimple
	}
}

// AssessLearningLevel suggests a level from the current behavior.
// The suggestion is not applied; see UpdateLearningLevel.
func (e *Engine) AssessLearningLevel() models.LearningLevel {
	return LevelForScore(Score(e.state.Behavior))
}

// UpdateLearningLevel commits a level and the UI mode derived from it.
// Unknown levels are ignored.
func (e *Engine) UpdateLearningLevel(level models.LearningLevel) bool {
	if !level.Valid() {
		return false
	}
	now := e.now()
	next := e.clone()
	next.LearningLevel = level
	next.AdaptiveUIMode = ModeForLevel(level)
	next.LastLevelAssessment = &now
	e.commit(next)
	return true
}

// TrackFeatureUsage records a use of feature. The feature set never holds
// duplicates; the speak, history and swap counters count every use.
func (e *Engine) TrackFeatureUsage(feature string) {
	if feature == "" {
		return
	}
	next := e.clone()
	b := &next.Behavior
	if !contains(b.FeaturesUsed, feature) {
		b.FeaturesUsed = append(b.FeaturesUsed, feature)
	}
	switch feature {
	case FeatureSpeak:
		b.SpeakFeatureUsage++
	case FeatureHistory:
		b.HistoryFeatureUsage++
	case FeatureSwap:
		b.SwapFeatureUsage++
	}
	e.commit(next)
}

// TrackTranslation counts a translation attempt. Successes decay the error
// rate by 10%, failures add 10 points up to 100.
func (e *Engine) TrackTranslation(success bool, language string) {
	next := e.clone()
	b := &next.Behavior
	b.TranslationsPerSession++
	if success {
		b.ErrorRate *= 0.9
	} else {
		b.ErrorRate = math.Min(b.ErrorRate+10, 100)
	}
	if language != "" && !contains(b.LanguagesSeen, language) {
		b.LanguagesSeen = append(b.LanguagesSeen, language)
	}
	if n := len(b.LanguagesSeen); n > b.UniqueLanguagesUsed {
		b.UniqueLanguagesUsed = n
	}
	e.commit(next)
}

// TrackLanguageUsage reports the languages the user has worked with.
// The unique language count never decreases.
func (e *Engine) TrackLanguageUsage(languages []string) {
	next := e.clone()
	b := &next.Behavior
	distinct := 0
	for _, lang := range dedupe(languages) {
		if lang == "" {
			continue
		}
		distinct++
		if !contains(b.LanguagesSeen, lang) {
			b.LanguagesSeen = append(b.LanguagesSeen, lang)
		}
	}
	if distinct > b.UniqueLanguagesUsed {
		b.UniqueLanguagesUsed = distinct
	}
	if n := len(b.LanguagesSeen); n > b.UniqueLanguagesUsed {
		b.UniqueLanguagesUsed = n
	}
	e.commit(next)
}

func (e *Engine) CompleteOnboarding() {
	if e.state.OnboardingComplete {
		return
	}
	next := e.clone()
	next.OnboardingComplete = true
	e.commit(next)
}

// MarkTipShown suppresses a tip permanently
func (e *Engine) MarkTipShown(id string) {
	if id == "" || contains(e.state.TipsShown, id) {
		return
	}
	next := e.clone()
	next.TipsShown = append(next.TipsShown, id)
	e.commit(next)
}

// DismissRecommendation suppresses a recommendation permanently
func (e *Engine) DismissRecommendation(id string) {
	if id == "" || contains(e.state.DismissedRecommendations, id) {
		return
	}
	next := e.clone()
	next.DismissedRecommendations = append(next.DismissedRecommendations, id)
	e.commit(next)
}

// SetPreferredTone changes the register of the copy. Unknown tones are ignored.
func (e *Engine) SetPreferredTone(tone models.Tone) bool {
	switch tone {
	case models.ToneFriendly, models.ToneProfessional, models.ToneEncouraging:
	default:
		return false
	}
	next := e.clone()
	next.PreferredTone = tone
	e.commit(next)
	return true
}

func (e *Engine) LearningLevel() models.LearningLevel {
	return e.state.LearningLevel
}

func (e *Engine) Behavior() models.BehaviorMetrics {
	return e.clone().Behavior
}

// State returns a copy of the persisted record
func (e *Engine) State() models.PersonalizationState {
	return e.clone()
}
