package main

import (
	"context"
	"fmt"

	"codeberg.org/mutker/vitalmon/internal/prefs"
	"github.com/spf13/cobra"
)

func newPrefsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or change the stored display preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored display preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withPersister(cmd.Context(), func(ctx context.Context, p prefs.Persister) error {
				return printPrefs(cmd, prefs.LoadOrDefault(ctx, p))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default display preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withPersister(cmd.Context(), func(ctx context.Context, p prefs.Persister) error {
				cfg := prefs.Default()
				if err := p.Save(ctx, cfg); err != nil {
					return err
				}
				return printPrefs(cmd, cfg)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <event>...",
		Short: "Apply display events to the stored preferences",
		Long:  "Apply display events in order, e.g. `vitalmon prefs set show_cpu_nw mode_rotation`.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events := make([]prefs.Event, 0, len(args))
			for _, arg := range args {
				e, err := prefs.ParseEvent(arg)
				if err != nil {
					return err
				}
				events = append(events, e)
			}

			return a.withPersister(cmd.Context(), func(ctx context.Context, p prefs.Persister) error {
				cfg := prefs.LoadOrDefault(ctx, p)
				for _, e := range events {
					cfg = prefs.Apply(cfg, e)
				}
				if err := p.Save(ctx, cfg); err != nil {
					return err
				}
				return printPrefs(cmd, cfg)
			})
		},
	})

	return cmd
}

func (a *app) withPersister(ctx context.Context, fn func(context.Context, prefs.Persister) error) error {
	p, closePersister, err := a.openPersister()
	if err != nil {
		return err
	}
	defer closePersister()

	return fn(ctx, p)
}

func printPrefs(cmd *cobra.Command, cfg prefs.DisplayConfig) error {
	data, err := prefs.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return err
}
