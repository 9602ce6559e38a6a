package cli

import (
	"fmt"

	"github.com/example/voicelingo/internal/excel"
	"github.com/spf13/cobra"
)

type importOptions struct {
	source   string
	target   string
	sheet    string
	startRow int
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import phrases for practice from an .xlsx or .csv file",
		Long: `Import phrase pairs into the practice schedule of the profile.

Column A holds the phrase, column B the translation and column C an
optional pronunciation. The first row is treated as a header. Phrases
that were imported before are left untouched.

Example:
  voicelingo import phrases.xlsx --source en --target de`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Language of the phrases (default: the profile's source language)")
	cmd.Flags().StringVar(&opts.target, "target", "", "Language of the translations (default: the profile's target language)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet to import (default: the first sheet)")
	cmd.Flags().IntVar(&opts.startRow, "start-row", 2, "First row to import (1-based)")
	return cmd
}

func (a *app) runImport(cmd *cobra.Command, path string, opts importOptions) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	c := a.openProfile(store)

	config := excel.DefaultImportConfig()
	config.SourceLang, config.TargetLang = c.Preferences.Languages()
	if opts.source != "" {
		config.SourceLang = opts.source
	}
	if opts.target != "" {
		config.TargetLang = opts.target
	}
	config.SheetName = opts.sheet
	if opts.startRow > 0 {
		config.StartRow = opts.startRow
	}

	result, err := excel.ImportFile(path, config)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	added := c.ImportPhrases(result.Candidates)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows processed: %d\n", result.TotalProcessed)
	fmt.Fprintf(out, "New phrases:    %d\n", added)
	fmt.Fprintf(out, "Already known:  %d\n", len(result.Candidates)-added)
	fmt.Fprintf(out, "Skipped:        %d\n", result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  %s\n", e)
	}
	return nil
}
