package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/syntheme/internal/desktop"
	"github.com/jmylchreest/syntheme/internal/theme"
)

var watchOpts struct {
	noSignals bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the themes directory and announce changes",
	Long: `Watch the user themes directory and rescan when theme files change.

With desktop signals enabled, every change is broadcast on the session bus
as io.github.jmylchreest.Syntheme.ListChanged or .ContentChanged, and
signals from other syntheme processes trigger a rescan.

Every change is also printed to stdout, one event per line.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchOpts.noSignals, "no-signals", false,
		"Do not broadcast or listen for session bus signals")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := getConfig()
	m := getManager()

	events := m.Subscribe()
	defer m.Unsubscribe(events)

	watcher := theme.NewWatcher(m, c.Watch.Debounce.Duration(), logger)
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch %s: %w", m.UserDir(), err)
	}
	defer watcher.Stop()

	if c.Desktop.Signals && !watchOpts.noSignals {
		stopSignals, err := startSignals(ctx, m)
		if err != nil {
			logger.Warn("desktop signals unavailable", "error", err)
		} else {
			defer stopSignals()
		}
	}

	logger.Info("watching themes", "dir", m.UserDir())

	for {
		select {
		case <-ctx.Done():
			logger.Info("received signal, shutting down")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stdout, ev.String())
		}
	}
}

// startSignals connects the manager to the session bus in both directions.
func startSignals(ctx context.Context, m *theme.Manager) (func(), error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	path := dbus.ObjectPath(getConfig().Desktop.SignalPath)
	if err := desktop.Export(conn, path); err != nil {
		logger.Warn("failed to export introspection data", "error", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	broadcaster := desktop.NewBroadcaster(conn, path, m, logger)
	broadcaster.Start(ctx)

	listener := desktop.NewListener(conn, m, logger)
	if err := listener.Start(ctx); err != nil {
		cancel()
		broadcaster.Stop()
		return nil, err
	}

	return func() {
		cancel()
		broadcaster.Stop()
		listener.Wait()
	}, nil
}
