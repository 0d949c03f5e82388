package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/japaniel/verbdrill/pkg/validate"
	"github.com/japaniel/verbdrill/pkg/verbs"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dataset.json]",
		Short: "Check a dataset file against the canonical format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Build.OutputPath
			if len(args) == 1 {
				path = args[0]
			}
			ds, err := verbs.LoadDataset(path)
			if err != nil {
				return err
			}

			issues := validate.Validate(ds)
			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%s: %d issues", path, len(issues))
			}

			a.logger.Debug("dataset valid", slog.String("path", path), slog.Int("verbs", len(ds)))
			fmt.Fprintf(out, "%s: %d verbs, OK\n", path, len(ds))
			return nil
		},
	}
}

// loadDataset reads the dataset named by flag, falling back to the build output.
func (a *app) loadDataset(flag string) (verbs.Dataset, error) {
	path := flag
	if path == "" {
		path = a.cfg.Build.OutputPath
	}
	return verbs.LoadDataset(path)
}
