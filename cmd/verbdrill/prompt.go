package main

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/spf13/cobra"

	"github.com/japaniel/verbdrill/pkg/practice"
	"github.com/japaniel/verbdrill/pkg/verbs"
)

// filterFlags are shared by prompt and drill.
type filterFlags struct {
	dataset     string
	persons     []string
	tenses      []string
	noRegular   bool
	noIrregular bool
	rankLimit   int
	seed        uint64
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.dataset, "dataset", "", "Dataset path (default: build.output_path)")
	cmd.Flags().StringSliceVar(&ff.persons, "person", nil, "Persons to ask (default: all)")
	cmd.Flags().StringSliceVar(&ff.tenses, "tense", nil, "Tenses to ask (default: all but imperative)")
	cmd.Flags().BoolVar(&ff.noRegular, "no-regular", false, "Skip regular verbs")
	cmd.Flags().BoolVar(&ff.noIrregular, "no-irregular", false, "Skip irregular verbs")
	cmd.Flags().IntVar(&ff.rankLimit, "rank-limit", 0, fmt.Sprintf("Only verbs ranked at or above this (one of %v)", practice.RankLimits))
	cmd.Flags().Uint64Var(&ff.seed, "seed", 0, "Random seed (0 = random)")
}

func (ff *filterFlags) filters() (practice.FilterState, error) {
	f := practice.DefaultFilters()
	if len(ff.persons) > 0 {
		f.Persons = make(map[verbs.Person]bool, len(ff.persons))
		for _, s := range ff.persons {
			p, ok := verbs.ParsePerson(s)
			if !ok {
				return f, fmt.Errorf("unknown person %q (want one of %v)", s, verbs.AllPersons)
			}
			f.Persons[p] = true
		}
	}
	if len(ff.tenses) > 0 {
		f.Tenses = make(map[verbs.Tense]bool, len(ff.tenses))
		for _, s := range ff.tenses {
			t, ok := verbs.ParseTense(s)
			if !ok {
				return f, fmt.Errorf("unknown tense %q (want one of %v)", s, verbs.AllTenses)
			}
			f.Tenses[t] = true
		}
	}
	f.Regular = !ff.noRegular
	f.Irregular = !ff.noIrregular
	if !slices.Contains(practice.RankLimits, ff.rankLimit) {
		return f, fmt.Errorf("rank limit %d not one of %v", ff.rankLimit, practice.RankLimits)
	}
	f.RankLimit = ff.rankLimit
	return f, nil
}

func (ff *filterFlags) rng() *rand.Rand {
	if ff.seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(ff.seed, ff.seed))
}

func newPromptCmd(a *app) *cobra.Command {
	var (
		ff      filterFlags
		lastKey string
		count   int
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print practice prompts for the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadDataset(ff.dataset)
			if err != nil {
				return err
			}
			f, err := ff.filters()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				for _, inst := range practice.ListValidInstances(ds, f) {
					fmt.Fprintf(out, "%s\t%s\n", inst.Key, inst.Form)
				}
				return nil
			}

			rng := ff.rng()
			for range count {
				inst, ok := practice.PickNext(ds, f, lastKey, rng)
				if !ok {
					return practice.ErrConfigurationExhausted
				}
				fmt.Fprintf(out, "%s\t%s\n", formatPrompt(inst), inst.Form)
				lastKey = inst.Key
			}
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVar(&lastKey, "last-key", "", "Key of the previous prompt, never repeated")
	cmd.Flags().IntVar(&count, "count", 1, "Number of prompts")
	cmd.Flags().BoolVar(&list, "list", false, "List every valid prompt instead of sampling")
	return cmd
}

func formatPrompt(inst practice.Instance) string {
	return fmt.Sprintf("%s (%s) [%s, %s]", inst.Verb.Infinitive, inst.Verb.Translation, inst.Tense, inst.Person)
}
