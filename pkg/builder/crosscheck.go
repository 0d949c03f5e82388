package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

// compareRegular lists the cells where conj disagrees with the regular
// formulas. Cells absent from conj are not compared.
func compareRegular(infinitive string, group verbs.Group, conj verbs.Conjugations) []string {
	var out []string
	for _, t := range verbs.AllTenses {
		for _, p := range verbs.AllPersons {
			live := conj.Form(t, p)
			if live == "" {
				continue
			}
			if gen := verbs.RegularForm(infinitive, group, t, p); gen != live {
				out = append(out, fmt.Sprintf("%s %s: generated %q, source %q", t, p, gen, live))
			}
		}
	}
	return out
}

// crossCheck fetches live tables for the first CrossCheckSample formula-only
// verbs and reports every disagreeing cell. It never fails the build.
func (b *Builder) crossCheck(ctx context.Context, log *slog.Logger, ds verbs.Dataset) []Diagnostic {
	var sample []verbs.VerbEntry
	for _, v := range ds {
		if len(sample) >= b.Config.CrossCheckSample {
			break
		}
		if v.IsRegular && !verbs.IsKnownIrregular(v.Infinitive) && !verbs.IsAlternating(v.Infinitive) {
			sample = append(sample, v)
		}
	}
	if len(sample) == 0 {
		return nil
	}

	// One slot per sampled verb keeps the report in dataset order.
	results := make([][]Diagnostic, len(sample))

	pool := NewWorkerPool(b.Config.CrossCheckWorkers, len(sample))
	pool.OnError = func(err error) {
		log.Warn("cross-check fetch failed", slog.String("error", err.Error()))
	}
	pool.Start(ctx)
	for i, v := range sample {
		i, v := i, v
		err := pool.SubmitCtx(ctx, func(ctx context.Context) error {
			conj, err := b.FetchConjugation(ctx, v.Infinitive)
			if err != nil {
				results[i] = []Diagnostic{{Lemma: v.Infinitive, Reason: "cross-check unavailable: " + err.Error()}}
				return err
			}
			for _, m := range compareRegular(v.Infinitive, v.MorphGroup, conj) {
				results[i] = append(results[i], Diagnostic{Lemma: v.Infinitive, Reason: m})
			}
			return nil
		})
		if err != nil {
			log.Warn("cross-check stopped", slog.String("error", err.Error()))
			break
		}
	}
	pool.Close()

	var out []Diagnostic
	for _, r := range results {
		out = append(out, r...)
	}
	log.Info("cross-check completed", slog.Int("sampled", len(sample)), slog.Int("mismatches", len(out)))
	return out
}
