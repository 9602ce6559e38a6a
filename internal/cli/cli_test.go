package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/voicelingo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv points the configuration at a fresh sqlite database and moves
// into an empty directory so no stray .env file is picked up
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "test.db"))
	t.Setenv("PROFILE", "default")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "phrases.csv")
	content := "original,translation,phonetic\nhello,hola,OH-lah\nthank you,gracias,\nempty,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestHelpListsCommands(t *testing.T) {
	testEnv(t)

	out, err := run(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"bot", "import", "stats", "due", "translate"} {
		assert.Contains(t, out, name)
	}
}

func TestImportThenStats(t *testing.T) {
	dir := testEnv(t)
	path := writeCSV(t, dir)

	out, err := run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows processed: 3")
	assert.Contains(t, out, "New phrases:    2")
	assert.Contains(t, out, "Skipped:        1")

	out, err = run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "New phrases:    0")
	assert.Contains(t, out, "Already known:  2")

	out, err = run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile:        default")
	assert.Contains(t, out, "Practice items: 2 (2 due)")
	assert.Contains(t, out, "Mastery:        2 new, 0 reviewing, 0 learning, 0 mastered")

	out, err = run(t, "due")
	require.NoError(t, err)
	assert.Contains(t, out, "hello → hola (new)")
	assert.Contains(t, out, "thank you → gracias (new)")
}

func TestProfilesAreSeparate(t *testing.T) {
	dir := testEnv(t)
	path := writeCSV(t, dir)

	_, err := run(t, "import", path, "--profile", "alice")
	require.NoError(t, err)

	out, err := run(t, "stats", "--profile", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile:        bob")
	assert.Contains(t, out, "Practice items: 0 (0 due)")

	out, err = run(t, "due", "--profile", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to review.\n", out)
}

func TestImportMissingFile(t *testing.T) {
	dir := testEnv(t)

	_, err := run(t, "import", filepath.Join(dir, "missing.xlsx"))
	assert.ErrorContains(t, err, "failed to import")
}

func TestTranslateCommand(t *testing.T) {
	testEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hello world", r.URL.Query().Get("q"))
		assert.Equal(t, "en|es", r.URL.Query().Get("langpair"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responseData":{"translatedText":"hola mundo"},"responseStatus":200}`))
	}))
	defer srv.Close()
	t.Setenv("TRANSLATE_API_URL", srv.URL)

	out, err := run(t, "translate", "hello", "world")
	require.NoError(t, err)
	assert.Contains(t, out, "hola mundo\n")
	assert.Contains(t, out, "Achievement unlocked: First Words (+10 points)")

	out, err = run(t, "stats", "--achievements")
	require.NoError(t, err)
	assert.Contains(t, out, "Translations:   1 (today 1/10)")
	assert.Contains(t, out, "Practice items: 1 (1 due)")
	assert.Contains(t, out, "[x] First Words")
}

func TestBotRequiresToken(t *testing.T) {
	testEnv(t)

	_, err := run(t, "bot")
	assert.ErrorIs(t, err, config.ErrMissingToken)
}

func TestInvalidConfigAborts(t *testing.T) {
	testEnv(t)
	t.Setenv("DB_TYPE", "oracle")

	_, err := run(t, "stats")
	assert.ErrorContains(t, err, "invalid config")
}
