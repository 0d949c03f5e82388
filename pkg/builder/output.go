package builder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

// Diagnostics file names, written under Config.DiagnosticsDir.
const (
	MissingTranslationsFile = "missing_translations.txt"
	MissingConjugationsFile = "missing_conjugations.txt"
	MismatchesFile          = "conjugation_mismatches.txt"
)

func (b *Builder) writeOutputs(res *Result) error {
	if b.Config.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(b.Config.OutputPath), 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := verbs.SaveDataset(b.Config.OutputPath, res.Dataset); err != nil {
			return fmt.Errorf("write dataset: %w", err)
		}
	}

	if b.Config.DiagnosticsDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.Config.DiagnosticsDir, 0755); err != nil {
		return fmt.Errorf("create diagnostics dir: %w", err)
	}
	files := map[string][]Diagnostic{
		MissingTranslationsFile: res.MissingTranslations,
		MissingConjugationsFile: res.MissingConjugations,
		MismatchesFile:          res.Mismatches,
	}
	for name, diags := range files {
		if err := writeDiagnostics(filepath.Join(b.Config.DiagnosticsDir, name), res.RunID, diags); err != nil {
			return err
		}
	}
	return nil
}

// writeDiagnostics writes a "# run <id>" header followed by one
// "lemma: reason" line per diagnostic.
func writeDiagnostics(path, runID string, diags []Diagnostic) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# run %s\n", runID)
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
