package excel

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestImportCSV(t *testing.T) {
	data := strings.Join([]string{
		"phrase,translation,phonetic",
		"Greetings,,",
		"hello,hola,",
		"thank you,gracias,GRAH-syahs",
		",,",
		",sin frase,",
		"good night,buenas noches,",
	}, "\n")

	result, err := Import(strings.NewReader(data), ".csv", DefaultImportConfig())
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalProcessed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"Row 6: phrase cannot be empty"}, result.Errors)
	require.Len(t, result.Candidates, 3)

	hello := result.Candidates[0]
	assert.Equal(t, "hello", hello.Original)
	assert.Equal(t, "hola", hello.Translated)
	assert.Equal(t, "OH-lah", hello.Phonetic)
	assert.Equal(t, "en", hello.SourceLang)
	assert.Equal(t, "es", hello.TargetLang)
	assert.Equal(t, "GRAH-syahs", result.Candidates[1].Phonetic)
	assert.Equal(t, "BUENAS NOCHES", result.Candidates[2].Phonetic)
}

func TestImportExcel(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Phrase", "Translation", "Phonetic", "From", "To"},
		{"thanks", "merci", "", "", "FR"},
		{"good day", "guten Tag", "", "en", "de"},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &row))
	}
	path := filepath.Join(t.TempDir(), "phrases.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	config := DefaultImportConfig()
	config.SourceLangColumn = "D"
	config.TargetLangColumn = "E"
	result, err := ImportFile(path, config)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "fr", result.Candidates[0].TargetLang)
	assert.Equal(t, "mehr-SEE", result.Candidates[0].Phonetic)
	assert.Equal(t, "de", result.Candidates[1].TargetLang)
	assert.Equal(t, "GOO-ten TAHK", result.Candidates[1].Phonetic)
	assert.Empty(t, result.Errors)
}

func TestImportUnsupportedFormat(t *testing.T) {
	_, err := Import(strings.NewReader(""), ".pdf", DefaultImportConfig())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPhraseIDIsStable(t *testing.T) {
	a := PhraseID("en", "es", "Hello ")
	assert.Equal(t, a, PhraseID("EN", "es", "hello"))
	assert.NotEqual(t, a, PhraseID("en", "fr", "hello"))
	assert.Len(t, a, 36)
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 2, columnToIndex("c"))
	assert.Equal(t, 26, columnToIndex("AA"))
	assert.Equal(t, -1, columnToIndex("1"))
}
