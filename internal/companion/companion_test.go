package companion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/voicelingo/internal/achievements"
	"github.com/example/voicelingo/internal/database"
	"github.com/example/voicelingo/internal/translate"
	"github.com/example/voicelingo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranslator struct {
	calls int
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, target string) (translate.Translation, error) {
	f.calls++
	if f.err != nil {
		return translate.Translation{}, f.err
	}
	return translate.Translation{Text: target + ":" + text, Phonetic: "PH"}, nil
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func open(t *testing.T, store database.Store, c *clock, tr Translator) *Companion {
	t.Helper()
	return Open(store, WithClock(c.Now), WithTranslator(tr))
}

func TestTranslateFeedsEngines(t *testing.T) {
	c := &clock{t: time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC)}
	tr := &fakeTranslator{}
	comp := open(t, database.NewMemoryStore(), c, tr)
	comp.Start(models.DeviceMobile)

	item, err := comp.Translate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "es:hello", item.Translated)

	// History, schedule, behavior and achievements all saw the translation
	assert.Len(t, comp.Preferences.History(), 1)
	practice, ok := comp.Scheduler.Item(item.ID)
	require.True(t, ok)
	assert.Equal(t, "PH", practice.Phonetic)
	assert.Equal(t, 1, comp.Personalization.Behavior().TranslationsPerSession)

	first, _ := comp.Achievements.Achievement(achievements.FirstTranslation)
	assert.True(t, first.Unlocked)

	dash := comp.Dashboard()
	assert.Equal(t, 1, dash.DueItems)
	// First words plus two languages in play
	assert.Equal(t, 20, dash.TotalPoints)
	assert.NotEmpty(t, dash.Greeting)
	assert.Len(t, dash.NewlyUnlocked, 2)
}

func TestTranslateFailure(t *testing.T) {
	c := &clock{t: time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC)}
	comp := open(t, database.NewMemoryStore(), c, &fakeTranslator{err: errors.New("rate limited")})
	comp.Start(models.DeviceDesktop)

	_, err := comp.Translate(context.Background(), "hello")
	assert.ErrorContains(t, err, "rate limited")
	assert.Empty(t, comp.Preferences.History())
	assert.Empty(t, comp.Scheduler.Items())
	assert.Equal(t, 10.0, comp.Personalization.Behavior().ErrorRate)
}

func TestTranslateWithoutProvider(t *testing.T) {
	comp := Open(database.NewMemoryStore())
	_, err := comp.Translate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoTranslator)
}

func TestStartImportsHistory(t *testing.T) {
	c := &clock{t: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)}
	store := database.NewMemoryStore()

	comp := open(t, store, c, &fakeTranslator{})
	comp.Preferences.RecordTranslation("cat", "gato", "", "en", "es")
	comp.Preferences.RecordTranslation("dog", "perro", "", "en", "es")
	assert.Empty(t, comp.Scheduler.Items())

	comp.Start(models.DeviceDesktop)
	assert.Len(t, comp.Scheduler.Items(), 2)

	// A second start does not duplicate
	c.t = c.t.Add(26 * time.Hour)
	again := open(t, store, c, &fakeTranslator{})
	again.Start(models.DeviceDesktop)
	assert.Len(t, again.Scheduler.Items(), 2)
	assert.Equal(t, 2, again.Personalization.Behavior().ConsecutiveDays)
}

func TestSubmitAnswerCountsPracticeSessions(t *testing.T) {
	c := &clock{t: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
	comp := open(t, database.NewMemoryStore(), c, &fakeTranslator{})
	comp.Start(models.DeviceDesktop)
	comp.ImportPhrases([]models.ImportCandidate{{ID: "p1", Original: "one", Translated: "uno"}})

	for i := 0; i < 50; i++ {
		_, ok := comp.SubmitAnswer("p1", 4)
		require.True(t, ok)
	}
	_, ok := comp.SubmitAnswer("missing", 4)
	assert.False(t, ok)

	master, _ := comp.Achievements.Achievement(achievements.PracticeMaster)
	assert.True(t, master.Unlocked)
	assert.Contains(t, comp.Personalization.Behavior().FeaturesUsed, FeaturePractice)
	assert.Contains(t, comp.Personalization.Behavior().FeaturesUsed, FeatureImport)
}

func TestLanguagesAndSwap(t *testing.T) {
	c := &clock{t: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
	comp := open(t, database.NewMemoryStore(), c, &fakeTranslator{})
	comp.Start(models.DeviceDesktop)

	comp.SetLanguages("de", "fr")
	comp.SwapLanguages()
	src, tgt := comp.Preferences.Languages()
	assert.Equal(t, "fr", src)
	assert.Equal(t, "de", tgt)
	assert.Equal(t, 1, comp.Personalization.Behavior().SwapFeatureUsage)

	explorer, _ := comp.Achievements.Achievement(achievements.Explorer2)
	assert.True(t, explorer.Unlocked)
}

func TestStopEndsSession(t *testing.T) {
	c := &clock{t: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
	comp := open(t, database.NewMemoryStore(), c, &fakeTranslator{})
	comp.Start(models.DeviceDesktop)
	c.t = c.t.Add(12 * time.Minute)
	comp.Stop()

	assert.Equal(t, 12.0, comp.Personalization.Behavior().TotalTimeSpent)
	assert.False(t, comp.Personalization.InSession())
}

func TestProfilesAreIsolated(t *testing.T) {
	c := &clock{t: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
	store := database.NewMemoryStore()
	alice := open(t, database.WithPrefix(store, database.ProfilePrefix("1")), c, &fakeTranslator{})

	_, err := alice.Translate(context.Background(), "hi")
	require.NoError(t, err)

	bob := open(t, database.WithPrefix(store, database.ProfilePrefix("2")), c, &fakeTranslator{})
	assert.Empty(t, bob.Preferences.History())
	assert.NotEqual(t, alice.ID, bob.ID)
}
