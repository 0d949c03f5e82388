package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/japaniel/verbdrill/pkg/config"
	"github.com/japaniel/verbdrill/pkg/db"
	"github.com/japaniel/verbdrill/pkg/fetch"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "verbdrill",
		Short:         "Build a Catalan verb dataset and drill conjugations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = os.Getenv("VERBDRILL_CONFIG")
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = config.NewLogger(cfg.Log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to YAML config (default: $VERBDRILL_CONFIG, else environment only)")

	root.AddCommand(
		newBuildCmd(a),
		newValidateCmd(a),
		newPromptCmd(a),
		newDrillCmd(a),
		newCacheCmd(a),
	)
	return root
}

// openCache opens the configured cache backend. conn is non-nil only for
// the sqlite backend, which also records build runs.
func (a *app) openCache() (cache fetch.Cache, conn *sql.DB, err error) {
	switch a.cfg.Cache.Backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(a.cfg.Cache.SQLitePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("create cache dir: %w", err)
		}
		conn, err = db.Open(a.cfg.Cache.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache database %s: %w", a.cfg.Cache.SQLitePath, err)
		}
		return db.NewStore(conn), conn, nil
	default:
		dc, err := fetch.NewDirCache(a.cfg.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		return dc, nil, nil
	}
}
