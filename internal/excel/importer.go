package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/voicelingo/internal/translate"
	"github.com/example/voicelingo/pkg/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv
var ErrUnsupportedFormat = errors.New("unsupported file format")

// phraseNamespace scopes the ids of imported phrases
var phraseNamespace = uuid.MustParse("5b0c6a47-3d9e-4f61-9a2e-6f1d8c7b2e10")

// ImportConfig defines the import configuration
type ImportConfig struct {
	OriginalColumn    string // Column with the phrase
	TranslationColumn string // Column with the translation
	PhoneticColumn    string // Column with the pronunciation, optional
	SourceLangColumn  string // Column overriding SourceLang per row, optional
	TargetLangColumn  string // Column overriding TargetLang per row, optional
	SourceLang        string // Language of the phrases
	TargetLang        string // Language of the translations
	SheetName         string // Sheet to import, the first sheet when empty
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		OriginalColumn:    "A",
		TranslationColumn: "B",
		PhoneticColumn:    "C",
		SourceLang:        "en",
		TargetLang:        "es",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Skipped        int
	Errors         []string
	Candidates     []models.ImportCandidate
}

// ImportFile reads phrase pairs from an Excel or CSV file
func ImportFile(path string, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return Import(file, filepath.Ext(path), config)
}

// Import reads phrase pairs from r. The format is a file extension such
// as ".xlsx" or ".csv".
func Import(r io.Reader, format string, config ImportConfig) (*ImportResult, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "csv":
		return importFromCSV(r, config)
	case "xlsx", "xlsm":
		return importFromExcel(r, config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// importFromExcel imports phrases from an Excel workbook
func importFromExcel(r io.Reader, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: []string{}, Candidates: []models.ImportCandidate{}}
	for i, row := range rows {
		processRow(row, i+1, config, result)
	}
	return result, nil
}

// importFromCSV imports phrases from a CSV file
func importFromCSV(r io.Reader, config ImportConfig) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: []string{}, Candidates: []models.ImportCandidate{}}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rowNum++
		processRow(row, rowNum, config, result)
	}
	return result, nil
}

// processRow turns one row into a candidate. Blank rows and section
// headers (a phrase without a translation) are skipped.
func processRow(row []string, rowNum int, config ImportConfig, result *ImportResult) {
	if rowNum < config.StartRow {
		return
	}

	original := cell(row, config.OriginalColumn)
	translated := cell(row, config.TranslationColumn)
	if original == "" && translated == "" {
		return
	}

	result.TotalProcessed++
	if original == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: phrase cannot be empty", rowNum))
		return
	}
	if translated == "" {
		result.Skipped++
		return
	}

	source := config.SourceLang
	if lang := cell(row, config.SourceLangColumn); lang != "" {
		source = strings.ToLower(lang)
	}
	target := config.TargetLang
	if lang := cell(row, config.TargetLangColumn); lang != "" {
		target = strings.ToLower(lang)
	}

	phonetic := cell(row, config.PhoneticColumn)
	if phonetic == "" {
		phonetic = translate.Phonetic(translated, target)
	}

	result.Candidates = append(result.Candidates, models.ImportCandidate{
		ID:         PhraseID(source, target, original),
		Original:   original,
		Translated: translated,
		Phonetic:   phonetic,
		SourceLang: source,
		TargetLang: target,
	})
}

// PhraseID derives a stable id for an imported phrase, so importing the
// same sheet twice does not duplicate practice items
func PhraseID(source, target, original string) string {
	key := strings.ToLower(source + "|" + target + "|" + strings.TrimSpace(original))
	return uuid.NewSHA1(phraseNamespace, []byte(key)).String()
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
