package main

import (
	"fmt"
	"io"

	"codeberg.org/mutker/vitalmon/internal/config"
	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/logger"
	"codeberg.org/mutker/vitalmon/internal/prefs"
	"github.com/spf13/cobra"
)

// app carries the state shared by every command.
type app struct {
	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "vitalmon",
		Short: "Compact CPU, memory and network status line",
		Long: `vitalmon samples CPU utilisation, memory pressure and network latency
on independent schedules and renders them as a single status line.

Display events (show_cpu, toggle_alert, mode_rotation, exit, ...) are read
one per line from stdin.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.persistentPreRunE,
		RunE:              a.runMonitor,
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newPrefsCommand(a))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func (a *app) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Flags(), config.WithConfigFile(configFile))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel.String())
	if err != nil {
		return err
	}
	logger.InitWithWriter(cmd.ErrOrStderr(), level, logger.IsService())
	logger.Debug().Str("config_file", cfg.ConfigFile).Msg("Config loaded")

	a.cfg = cfg

	return nil
}

// openPersister builds the configured preference backend. The returned
// closer is never nil.
func (a *app) openPersister() (prefs.Persister, func() error, error) {
	switch a.cfg.PrefsBackend {
	case config.BackendSQLite:
		store, err := prefs.NewSQLiteStore(a.cfg.PrefsPath, logger.For("prefs"))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := prefs.NewFileStore(a.cfg.PrefsPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "vitalmon %s (commit %s, built %s)\n", version, gitCommit, buildDate)
	if err != nil {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}
