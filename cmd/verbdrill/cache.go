package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/japaniel/verbdrill/pkg/db"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the fetch cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Remove every cached source body",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, _, err := a.openCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			if err := cache.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("flush cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache flushed")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached URLs and the last build run (sqlite backend only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, conn, err := a.openCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			if conn == nil {
				return errors.New("cache list needs the sqlite cache backend")
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			fetches, err := db.ListFetches(ctx, conn)
			if err != nil {
				return err
			}
			for _, f := range fetches {
				fmt.Fprintf(out, "%s\t%d\t%s\n", f.URL, f.Size, f.FetchedAt.Format(time.RFC3339))
			}

			run, err := db.LastBuildRun(ctx, conn)
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "last build %s: %d verbs, %d missing translations, %d missing conjugations, %d mismatches\n",
				run.ID, run.Verbs, run.MissingTranslations, run.MissingConjugations, run.Mismatches)

			diags, err := db.ListDiagnostics(ctx, conn, run.ID)
			if err != nil {
				return err
			}
			for _, d := range diags {
				fmt.Fprintf(out, "  %s\t%s: %s\n", d.Kind, d.Lemma, d.Reason)
			}
			return nil
		},
	})
	return cmd
}
