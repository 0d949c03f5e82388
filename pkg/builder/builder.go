// Package builder assembles the canonical verb dataset from a frequency list,
// a bilingual dictionary and a conjugation-reference site.
package builder

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/japaniel/verbdrill/pkg/conjtable"
	"github.com/japaniel/verbdrill/pkg/db"
	"github.com/japaniel/verbdrill/pkg/dictionary"
	"github.com/japaniel/verbdrill/pkg/fetch"
	"github.com/japaniel/verbdrill/pkg/frequency"
	"github.com/japaniel/verbdrill/pkg/verbs"
)

// Frequency list formats.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Config controls one build.
type Config struct {
	FrequencyURL    string
	FrequencyFormat string // FormatText or FormatHTML
	DictionaryURL   string
	// DictionaryMember is the file suffix looked up inside the dictionary archive.
	DictionaryMember string
	// ConjugationURL contains "{infinitive}", replaced by the path-escaped infinitive.
	ConjugationURL string

	MaxVerbs          int // 0 means no limit
	EagerRegular      bool
	CrossCheckSample  int
	CrossCheckWorkers int

	OutputPath     string
	DiagnosticsDir string
}

// Diagnostic is one advisory line: the lemma and why it was dropped or flagged.
type Diagnostic struct {
	Lemma  string
	Reason string
}

func (d Diagnostic) String() string {
	return d.Lemma + ": " + d.Reason
}

// Stats summarizes the inputs of a build.
type Stats struct {
	FrequencyWords  int
	Candidates      int
	Deferred        int
	DictionaryVerbs int
	TablesFetched   int
	Duration        time.Duration
}

// Result is the outcome of Build.
type Result struct {
	RunID               string
	Dataset             verbs.Dataset
	MissingTranslations []Diagnostic
	MissingConjugations []Diagnostic
	Mismatches          []Diagnostic
	Stats               Stats
}

// HasDiagnostics reports whether any advisory list is non-empty.
func (r *Result) HasDiagnostics() bool {
	return len(r.MissingTranslations) > 0 || len(r.MissingConjugations) > 0 || len(r.Mismatches) > 0
}

// Builder runs the dataset pipeline. Runs is optional; when set, each build
// records a provenance row and its diagnostics there.
type Builder struct {
	Fetcher *fetch.Fetcher
	Config  Config
	Logger  *slog.Logger
	Runs    *sql.DB
}

// New creates a Builder.
func New(f *fetch.Fetcher, cfg Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		Fetcher: f,
		Config:  cfg,
		Logger:  logger.With("component", "builder"),
	}
}

// candidate is an accepted frequency-list word awaiting conjugation.
type candidate struct {
	infinitive  string
	translation string
	position    int
	alternating bool
}

// Build fetches and parses the sources, selects and conjugates verbs, and
// writes the dataset and diagnostics files. Source acquisition failures are
// fatal; per-verb failures become diagnostics.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if b.Logger == nil {
		b.Logger = slog.Default()
	}
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := b.Logger.With(slog.String("run_id", res.RunID))
	b.recordRun(ctx, log, res, start, time.Time{})

	words, glosses, err := b.loadFrequency(ctx)
	if err != nil {
		return nil, err
	}
	translations, err := b.loadDictionary(ctx, res)
	if err != nil {
		return nil, err
	}
	if n := translations.Merge(glosses); n > 0 {
		log.Info("frequency table glosses used as fallback translations", slog.Int("added", n))
	}

	selected := b.selectVerbs(words, translations, res)
	log.Info("verbs selected",
		slog.Int("selected", len(selected)),
		slog.Int("deferred", res.Stats.Deferred),
		slog.Int("missing_translations", len(res.MissingTranslations)),
	)

	ds, err := b.conjugate(ctx, log, selected, res)
	if err != nil {
		return nil, err
	}
	if b.Config.CrossCheckSample > 0 {
		res.Mismatches = b.crossCheck(ctx, log, ds)
	}
	for i := range ds {
		ds[i].FrequencyRank = i + 1
	}
	res.Dataset = ds

	if err := b.writeOutputs(res); err != nil {
		return nil, err
	}

	res.Stats.Duration = time.Since(start)
	b.recordRun(ctx, log, res, start, time.Now())
	b.recordDiagnostics(log, res)
	log.Info("build completed",
		slog.Int("verbs", len(ds)),
		slog.Int("missing_conjugations", len(res.MissingConjugations)),
		slog.Int("mismatches", len(res.Mismatches)),
		slog.Duration("duration", res.Stats.Duration),
	)
	return res, nil
}

func (b *Builder) loadFrequency(ctx context.Context) (iter.Seq[string], map[string]string, error) {
	body, err := b.Fetcher.Fetch(ctx, b.Config.FrequencyURL)
	if err != nil {
		return nil, nil, fmt.Errorf("frequency list: %w", err)
	}
	if b.Config.FrequencyFormat != FormatHTML {
		return frequency.Words(bytes.NewReader(body)), nil, nil
	}

	entries, err := frequency.ParseHTMLTable(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("frequency list: %w", err)
	}
	return frequency.Words(bytes.NewReader(frequency.FormatLines(entries))), frequency.Glosses(entries), nil
}

func (b *Builder) loadDictionary(ctx context.Context, res *Result) (dictionary.Translations, error) {
	body, err := b.Fetcher.FetchArchiveMember(ctx, b.Config.DictionaryURL, b.Config.DictionaryMember)
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	m, stats, err := dictionary.ParseTEI(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	b.Logger.Info("dictionary parsed",
		slog.Int("entries", stats.Entries),
		slog.Int("verbs", stats.Verbs),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("incomplete", stats.Incomplete),
	)
	res.Stats.DictionaryVerbs = stats.Verbs
	return dictionary.Translations(m), nil
}

// selectVerbs walks the frequency sequence once. Alternating candidates are
// deferred and only fill capacity left after the main pass, so with a tight
// MaxVerbs some of them never make it in.
func (b *Builder) selectVerbs(words iter.Seq[string], translations dictionary.Translations, res *Result) []candidate {
	limit := b.Config.MaxVerbs
	full := func(n int) bool { return limit > 0 && n >= limit }

	var accepted, deferred []candidate
	seen := make(map[string]bool)
	pos := 0
	for word := range words {
		pos++
		res.Stats.FrequencyWords++

		w := verbs.NormalizeLemma(word)
		if !verbs.IsVerbCandidate(w) || seen[w] {
			continue
		}
		seen[w] = true
		res.Stats.Candidates++

		tr, ok := translations.Get(w)
		if !ok {
			res.MissingTranslations = append(res.MissingTranslations, Diagnostic{Lemma: w, Reason: "missing translation"})
			continue
		}

		c := candidate{infinitive: w, translation: tr, position: pos, alternating: verbs.IsAlternating(w)}
		if c.alternating {
			deferred = append(deferred, c)
			res.Stats.Deferred++
			continue
		}
		accepted = append(accepted, c)
		if full(len(accepted)) {
			break
		}
	}

	for _, c := range deferred {
		if full(len(accepted)) {
			break
		}
		accepted = append(accepted, c)
	}

	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].position < accepted[j].position })
	return accepted
}

// conjugate turns candidates into entries. Irregular and alternating verbs
// need a complete scraped table; a failure excludes the verb.
func (b *Builder) conjugate(ctx context.Context, log *slog.Logger, selected []candidate, res *Result) (verbs.Dataset, error) {
	ds := make(verbs.Dataset, 0, len(selected))
	for _, c := range selected {
		group := verbs.GroupOf(c.infinitive)
		entry := verbs.VerbEntry{
			Infinitive:  c.infinitive,
			Translation: verbs.NormalizeTranslation(c.translation),
			IsRegular:   true,
			MorphGroup:  group,
		}

		irregular := verbs.IsKnownIrregular(c.infinitive)
		switch {
		case irregular || c.alternating:
			conj, err := b.FetchConjugation(ctx, c.infinitive)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				log.Warn("conjugation unavailable, verb excluded",
					slog.String("verb", c.infinitive),
					slog.String("error", err.Error()),
				)
				res.MissingConjugations = append(res.MissingConjugations, Diagnostic{Lemma: c.infinitive, Reason: err.Error()})
				continue
			}
			res.Stats.TablesFetched++
			entry.Conjugations = conj
			entry.IsRegular = !irregular && len(compareRegular(c.infinitive, group, conj)) == 0
		case b.Config.EagerRegular:
			entry.Conjugations = verbs.RegularTable(c.infinitive, group)
		}
		ds = append(ds, entry)
	}
	return ds, nil
}

// FetchConjugation downloads and parses the conjugation page of infinitive.
func (b *Builder) FetchConjugation(ctx context.Context, infinitive string) (verbs.Conjugations, error) {
	body, err := b.Fetcher.Fetch(ctx, ConjugationURL(b.Config.ConjugationURL, infinitive))
	if err != nil {
		return nil, err
	}
	return conjtable.Parse(infinitive, bytes.NewReader(body))
}

// ConjugationURL fills the {infinitive} placeholder of tmpl.
func ConjugationURL(tmpl, infinitive string) string {
	return strings.ReplaceAll(tmpl, "{infinitive}", url.PathEscape(infinitive))
}

func (b *Builder) recordRun(ctx context.Context, log *slog.Logger, res *Result, started, finished time.Time) {
	if b.Runs == nil {
		return
	}
	run := db.BuildRun{
		ID:                  res.RunID,
		StartedAt:           started,
		FinishedAt:          finished,
		Verbs:               len(res.Dataset),
		MissingTranslations: len(res.MissingTranslations),
		MissingConjugations: len(res.MissingConjugations),
		Mismatches:          len(res.Mismatches),
	}
	if err := db.RecordBuildRun(ctx, b.Runs, run); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("could not record build run", slog.String("error", err.Error()))
	}
}

func (b *Builder) recordDiagnostics(log *slog.Logger, res *Result) {
	if b.Runs == nil || !res.HasDiagnostics() {
		return
	}
	bw := db.NewBatchWriter(b.Runs, 50)
	for _, group := range []struct {
		kind  string
		lines []Diagnostic
	}{
		{db.KindMissingTranslation, res.MissingTranslations},
		{db.KindMissingConjugation, res.MissingConjugations},
		{db.KindMismatch, res.Mismatches},
	} {
		for _, d := range group.lines {
			if err := bw.Add(db.Diagnostic{RunID: res.RunID, Kind: group.kind, Lemma: d.Lemma, Reason: d.Reason}); err != nil {
				break
			}
		}
	}
	if err := bw.Close(); err != nil {
		log.Warn("could not record build diagnostics", slog.String("error", err.Error()))
	}
}
