package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"codeberg.org/mutker/vitalmon/internal/config"
	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/logger"
	"codeberg.org/mutker/vitalmon/internal/metrics"
	"codeberg.org/mutker/vitalmon/internal/pid"
	"codeberg.org/mutker/vitalmon/internal/poller"
	"codeberg.org/mutker/vitalmon/internal/prefs"
	"codeberg.org/mutker/vitalmon/internal/reader"
	"codeberg.org/mutker/vitalmon/internal/render"
	"codeberg.org/mutker/vitalmon/internal/sink"
	"codeberg.org/mutker/vitalmon/internal/ui"
	"github.com/spf13/cobra"
)

func (a *app) runMonitor(cmd *cobra.Command, _ []string) error {
	errFactory := errors.New()

	if err := pid.Write(a.cfg.PIDDir); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(a.cfg.PIDDir); err != nil {
			logger.ErrorWithCode(errFactory.Wrap(errors.ErrShutdownFailed, err)).Msg("Failed to remove PID file")
		}
	}()

	persister, closePersister, err := a.openPersister()
	if err != nil {
		return errFactory.Wrap(errors.ErrInitFailed, err).WithMessage("Failed to open preference storage")
	}
	defer func() {
		if err := closePersister(); err != nil {
			logger.ErrorWithCode(errFactory.Wrap(errors.ErrShutdownFailed, err)).Msg("Failed to close preference storage")
		}
	}()

	policies, err := a.cfg.Policies()
	if err != nil {
		return err
	}

	out, finish, err := openSink(a.cfg, cmd)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitFailed, err).WithMessage("Failed to open display sink")
	}
	defer finish()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go handleSignals(ctx, cancel)

	initial := prefs.LoadOrDefault(ctx, persister)
	controller := prefs.NewController(initial, persister,
		prefs.WithSyncer(ui.NewMenu(initial)),
		prefs.WithExitHook(cancel),
		prefs.WithSaveTimeout(a.cfg.PrefsSaveTimeout),
	)

	store := metrics.NewStore()
	acquisition := poller.New(reader.NewSystem(a.cfg.Reader()), store, a.cfg.Poller())
	scheduler := render.NewScheduler(store, controller, policies, out, a.cfg.Render())

	logger.Info().
		Str("prefs_backend", string(a.cfg.PrefsBackend)).
		Str("prefs_path", a.cfg.PrefsPath).
		Str("sink", string(a.cfg.Sink)).
		Msg("Monitor started")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		acquisition.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	// Input closing ends event delivery, not the monitor.
	go func() {
		if err := ui.ReadEvents(ctx, cmd.InOrStdin(), controller); err != nil {
			logger.Warn().Err(err).Msg("Event input failed")
		}
	}()

	wg.Wait()
	controller.Stop()
	controller.Wait()
	logger.Info().Msg("Exiting...")

	return nil
}

func openSink(cfg *config.Config, cmd *cobra.Command) (render.Sink, func(), error) {
	if cfg.Sink == config.SinkFile {
		f, err := sink.NewFile(cfg.SinkPath)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil
	}

	t := sink.NewTerminal(cmd.OutOrStdout())
	return t, t.Finish, nil
}

func handleSignals(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal.")
		cancel()
	case <-ctx.Done():
	}
}

// asCoded returns the coded error in err's chain. Uncoded errors come from
// cobra's flag and argument checks.
func asCoded(err error) errors.Error {
	var coded errors.Error
	if errors.As(err, &coded) {
		return coded
	}

	return errors.New().Wrap(errors.ErrInvalidArgument, err)
}
