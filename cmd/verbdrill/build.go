package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/japaniel/verbdrill/pkg/builder"
	"github.com/japaniel/verbdrill/pkg/fetch"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		maxVerbs    int
		eager       bool
		crossCheck  int
		output      string
		diagnostics string
		flushFirst  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch the sources and write the canonical verb dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if err := cfg.Sources.Validate(); err != nil {
				return err
			}

			bc := builder.Config{
				FrequencyURL:      cfg.Sources.FrequencyURL,
				FrequencyFormat:   cfg.Sources.FrequencyFormat,
				DictionaryURL:     cfg.Sources.DictionaryURL,
				DictionaryMember:  cfg.Sources.DictionaryMember,
				ConjugationURL:    cfg.Sources.ConjugationURL,
				MaxVerbs:          cfg.Build.MaxVerbs,
				EagerRegular:      cfg.Build.EagerRegular,
				CrossCheckSample:  cfg.Build.CrossCheckSample,
				CrossCheckWorkers: cfg.Build.CrossCheckWorkers,
				OutputPath:        cfg.Build.OutputPath,
				DiagnosticsDir:    cfg.Build.DiagnosticsDir,
			}
			if cmd.Flags().Changed("max-verbs") {
				bc.MaxVerbs = maxVerbs
			}
			if cmd.Flags().Changed("eager-regular") {
				bc.EagerRegular = eager
			}
			if cmd.Flags().Changed("cross-check") {
				bc.CrossCheckSample = crossCheck
			}
			if output != "" {
				bc.OutputPath = output
			}
			if diagnostics != "" {
				bc.DiagnosticsDir = diagnostics
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cache, conn, err := a.openCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			if flushFirst {
				if err := cache.Flush(ctx); err != nil {
					return fmt.Errorf("flush cache: %w", err)
				}
			}

			f := fetch.NewFetcher(cache, a.logger)
			f.Client.Timeout = cfg.HTTP.Timeout
			f.UserAgent = cfg.HTTP.UserAgent
			f.MaxBodySize = cfg.HTTP.MaxBodySize

			b := builder.New(f, bc, a.logger)
			if conn != nil {
				b.Runs = conn
			}

			res, err := b.Build(ctx)
			if err != nil {
				return err
			}
			return printBuildSummary(cmd, res, bc)
		},
	}

	cmd.Flags().IntVar(&maxVerbs, "max-verbs", 0, "Maximum number of verbs (0 = no limit)")
	cmd.Flags().BoolVar(&eager, "eager-regular", false, "Store generated tables for regular verbs")
	cmd.Flags().IntVar(&crossCheck, "cross-check", 0, "Cross-check this many regular verbs against the conjugation source")
	cmd.Flags().StringVar(&output, "output", "", "Dataset output path (overrides config)")
	cmd.Flags().StringVar(&diagnostics, "diagnostics", "", "Diagnostics directory (overrides config)")
	cmd.Flags().BoolVar(&flushFirst, "flush-cache", false, "Flush the fetch cache before building")

	return cmd
}

func printBuildSummary(cmd *cobra.Command, res *builder.Result, bc builder.Config) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Build %s: %d verbs written to %s\n", res.RunID, len(res.Dataset), bc.OutputPath)
	fmt.Fprintf(out, "  missing translations: %d\n", len(res.MissingTranslations))
	fmt.Fprintf(out, "  missing conjugations: %d\n", len(res.MissingConjugations))
	fmt.Fprintf(out, "  conjugation mismatches: %d\n", len(res.Mismatches))
	if res.HasDiagnostics() && bc.DiagnosticsDir != "" {
		fmt.Fprintf(out, "Diagnostics written to %s\n", bc.DiagnosticsDir)
	}
	return nil
}
