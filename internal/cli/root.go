// Package cli implements the anger-log CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/anger-log/internal/config"
	"github.com/rcliao/anger-log/internal/journal"
	"github.com/rcliao/anger-log/internal/logging"
	"github.com/rcliao/anger-log/internal/store"
)

var (
	dbPath     string
	configPath string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "anger-log",
	Short: "Anger management journal with cognitive distortion detection",
	Long:  "Record anger journal entries, detect cognitive distortions in your thoughts, and review statistics. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $ANGERLOG_DB or ~/.anger-log/journal.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.anger-log/config.yaml if present)")
	RootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// app bundles what a command needs to talk to the journal.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  store.Store
	svc    *journal.Service
}

func (a *app) Close() {
	a.store.Close()
	a.logger.Sync()
}

// openApp loads config and opens the configured store. One-shot commands
// log at warn unless --log-level says otherwise, keeping stdout clean.
func openApp(cmd *cobra.Command, oneShot bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logCfg := cfg.Log
	if lvl, _ := cmd.Flags().GetString("log-level"); oneShot && lvl == "" {
		logCfg.Level = "warn"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}

	var s store.Store
	switch cfg.Store.Driver {
	case "memory":
		s = store.NewMemoryStore()
	default:
		s, err = store.NewSQLiteStore(cfg.Store.Path, store.WithLogger(logger.Named("store")))
		if err != nil {
			return nil, err
		}
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  s,
		svc:    journal.NewService(s, nil, logger.Named("journal")),
	}, nil
}

func printJSON(w io.Writer, v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
