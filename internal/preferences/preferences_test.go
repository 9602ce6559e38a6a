package preferences

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/example/voicelingo/internal/database"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newClock() *clock {
	return &clock{t: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)}
}

func TestDefaults(t *testing.T) {
	m := New(database.NewMemoryStore(), WithClock(newClock().Now))
	p := m.Preferences()
	assert.Equal(t, "en", p.SourceLanguage)
	assert.Equal(t, "es", p.TargetLanguage)
	assert.Equal(t, 10, p.DailyGoal)
	assert.Empty(t, p.TranslationHistory)
	assert.Equal(t, 0, p.SessionCount)
}

func TestBootstrapSessions(t *testing.T) {
	c := newClock()
	store := database.NewMemoryStore()

	m := New(store, WithClock(c.Now))
	m.Bootstrap()
	assert.Equal(t, 1, m.Preferences().SessionCount)
	assert.Equal(t, "2025-04-02", m.Preferences().LastDayReset)

	// A quick return is the same session
	c.t = c.t.Add(30 * time.Minute)
	m = New(store, WithClock(c.Now))
	m.Bootstrap()
	assert.Equal(t, 1, m.Preferences().SessionCount)

	c.t = c.t.Add(2 * time.Hour)
	m = New(store, WithClock(c.Now))
	m.Bootstrap()
	assert.Equal(t, 2, m.Preferences().SessionCount)
	assert.Equal(t, c.t, m.Preferences().LastVisit)
}

func TestBootstrapResetsToday(t *testing.T) {
	c := newClock()
	store := database.NewMemoryStore()
	m := New(store, WithClock(c.Now))
	m.Bootstrap()
	m.RecordTranslation("hi", "hola", "OH-lah", "en", "es")
	assert.Equal(t, 1, m.Preferences().TodayTranslations)

	c.t = c.t.Add(24 * time.Hour)
	m = New(store, WithClock(c.Now))
	m.Bootstrap()
	p := m.Preferences()
	assert.Equal(t, 0, p.TodayTranslations)
	assert.Equal(t, 1, p.TotalTranslations)
	assert.Equal(t, "2025-04-03", p.LastDayReset)
}

func TestRecordTranslationHistory(t *testing.T) {
	c := newClock()
	m := New(database.NewMemoryStore(), WithClock(c.Now))
	m.Bootstrap()

	var last string
	for i := 0; i < MaxHistory+5; i++ {
		c.t = c.t.Add(time.Second)
		item := m.RecordTranslation(fmt.Sprintf("phrase %d", i), "x", "", "en", "fr")
		_, err := ulid.ParseStrict(item.ID)
		require.NoError(t, err)
		assert.NotEqual(t, last, item.ID)
		last = item.ID
	}

	history := m.History()
	require.Len(t, history, MaxHistory)
	assert.Equal(t, fmt.Sprintf("phrase %d", MaxHistory+4), history[0].Original)
	assert.Equal(t, c.t, history[0].Timestamp)
	assert.Equal(t, MaxHistory+5, m.Preferences().TotalTranslations)

	m.ClearHistory()
	assert.Empty(t, m.History())
	assert.Equal(t, MaxHistory+5, m.Preferences().TotalTranslations)
}

func TestDailyGoalCompletion(t *testing.T) {
	c := newClock()
	m := New(database.NewMemoryStore(), WithClock(c.Now))
	require.NoError(t, m.SetDailyGoal(3))
	assert.Error(t, m.SetDailyGoal(0))

	for i := 0; i < 5; i++ {
		m.RecordTranslation("a", "b", "", "en", "es")
	}
	assert.Equal(t, 1, m.Preferences().DailyGoalsCompleted)
	assert.Equal(t, 100.0, m.ProgressPercentage())

	// The next day counts again
	c.t = c.t.Add(24 * time.Hour)
	for i := 0; i < 3; i++ {
		m.RecordTranslation("a", "b", "", "en", "es")
	}
	assert.Equal(t, 2, m.Preferences().DailyGoalsCompleted)
	assert.Equal(t, 3, m.Preferences().TodayTranslations)
}

func TestLanguages(t *testing.T) {
	m := New(database.NewMemoryStore(), WithClock(newClock().Now))
	for _, l := range []string{"fr", "de", "it", "ja", "zh", "fr", "pt"} {
		m.SetTargetLanguage(l)
	}
	p := m.Preferences()
	assert.Equal(t, "pt", p.TargetLanguage)
	assert.Equal(t, []string{"pt", "fr", "zh", "ja", "it"}, p.RecentLanguages)

	m.SetSourceLanguage("de")
	m.SwapLanguages()
	src, tgt := m.Languages()
	assert.Equal(t, "pt", src)
	assert.Equal(t, "de", tgt)
	assert.Equal(t, "de", m.Preferences().RecentLanguages[0])

	for _, l := range []string{"a", "b", "a", "c", "d", "e"} {
		m.AddFavoriteLanguage(l)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, m.Preferences().FavoriteLanguages)
	assert.False(t, m.AddFavoriteLanguage("f"))
}

func TestLanguagesUsed(t *testing.T) {
	m := New(database.NewMemoryStore(), WithClock(newClock().Now))
	m.RecordTranslation("hi", "salut", "", "en", "fr")
	m.RecordTranslation("hi", "hallo", "", "en", "de")
	assert.Equal(t, []string{"en", "es", "de", "fr"}, m.LanguagesUsed())
}

func TestImportCandidates(t *testing.T) {
	m := New(database.NewMemoryStore(), WithClock(newClock().Now))
	item := m.RecordTranslation("thanks", "gracias", "GRAH-syahs", "en", "es")

	candidates := m.ImportCandidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, item.ID, candidates[0].ID)
	assert.Equal(t, "gracias", candidates[0].Translated)
	assert.Equal(t, "GRAH-syahs", candidates[0].Phonetic)
}

func TestMessages(t *testing.T) {
	c := newClock()
	m := New(database.NewMemoryStore(), WithClock(c.Now))
	m.Bootstrap()
	assert.Equal(t, "Good morning! Welcome to VoiceLingo. Start speaking to translate.", m.WelcomeMessage())
	assert.Equal(t, "10 more to reach 10 translations!", m.MilestoneMessage())

	for i := 0; i < 3; i++ {
		c.t = c.t.Add(2 * time.Hour)
		m.Bootstrap()
	}
	m.RecordTranslation("a", "b", "", "en", "es")
	assert.Equal(t, "Good afternoon! You've translated 1 phrases so far.", m.WelcomeMessage())
	assert.InDelta(t, 10.0, m.ProgressPercentage(), 1e-9)

	for i := 0; i < 3; i++ {
		c.t = c.t.Add(2 * time.Hour)
		m.Bootstrap()
	}
	assert.Equal(t, 7, m.Preferences().SessionCount)
	assert.Equal(t, "Good evening! 9 more translations to reach today's goal.", m.WelcomeMessage())
	assert.Equal(t, "9 more to reach 10 translations!", m.MilestoneMessage())
}

func TestMilestoneMaster(t *testing.T) {
	store := database.NewMemoryStore()
	p := Defaults()
	p.TotalTranslations = 1000
	require.NoError(t, database.SaveJSON(store, StorageKey, p))

	m := New(store)
	assert.Equal(t, "You're a VoiceLingo master!", m.MilestoneMessage())
}

func TestRoundTripAndCorruption(t *testing.T) {
	c := newClock()
	store := database.NewMemoryStore()
	m := New(store, WithClock(c.Now))
	m.Bootstrap()
	m.SetTargetLanguage("fr")
	m.RecordTranslation("hello", "bonjour", "bohn-ZHOOR", "en", "fr")

	assert.Equal(t, m.Preferences(), New(store, WithClock(c.Now)).Preferences())

	require.NoError(t, store.Set(StorageKey, []byte("[]")))
	var logs bytes.Buffer
	fresh := New(store, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	assert.Equal(t, Defaults(), fresh.Preferences())
	assert.Contains(t, logs.String(), "failed to load preferences")
}
