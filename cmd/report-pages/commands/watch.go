package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/serverless-qa/report-pages/internal/maintainer"
)

const watchDebounce = 500 * time.Millisecond

func (a *App) installWatch() {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the reports directory maintained as new reports arrive",
		Long: "Watch runs a maintenance pass whenever new report files land in the reports " +
			"directory, and optionally on a cron schedule. It runs until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Running watch command")
			return a.watchRun(cmd.Context())
		},
	}

	watchCmd.Flags().StringVar(&a.config.Schedule, "schedule", "", "standard cron expression triggering additional maintenance passes")
	watchCmd.Flags().BoolVar(&a.config.DryRun, "dry-run", false, "log what would be deleted and written without touching anything")

	a.cmd.AddCommand(watchCmd)
}

func (a *App) watchRun(ctx context.Context) error {
	m, err := a.newMaintainer()
	if err != nil {
		return fmt.Errorf("failed to create maintainer: %v", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.watchStop = cancel

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(a.config.Dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %v", a.config.Dir, err)
	}
	slog.Info("Watching reports directory", "dir", a.config.Dir)

	scheduled := make(chan struct{}, 1)
	if a.config.Schedule != "" {
		if _, err := cron.ParseStandard(a.config.Schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", a.config.Schedule, err)
		}

		c := cron.New()
		if _, err := c.AddFunc(a.config.Schedule, func() {
			select {
			case scheduled <- struct{}{}:
			default:
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule maintenance: %v", err)
		}
		c.Start()
		defer c.Stop()
		slog.Info("Scheduled maintenance passes", "schedule", a.config.Schedule)
	}

	pass := func() {
		runPass(ctx, m)
		if a.watchPassHook != nil {
			a.watchPassHook()
		}
	}

	// Initial pass so a restart repairs whatever the last run left behind.
	pass()
	close(a.ready)

	// Debounce timer for handling bursts of arriving reports.
	debounceTimer := time.NewTimer(watchDebounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	defer debounceTimer.Stop()

	indexPath := filepath.Join(a.config.Dir, a.config.IndexName)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed unexpectedly")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// The index rewrite and its temporary files are our own doing.
			if event.Name == indexPath || strings.HasSuffix(event.Name, ".tmp") {
				continue
			}

			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(watchDebounce)

		case <-debounceTimer.C:
			slog.Debug("Reports directory changed, running maintenance pass")
			pass()

		case <-scheduled:
			slog.Debug("Schedule fired, running maintenance pass")
			pass()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed unexpectedly")
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// runPass runs one maintenance pass, absorbing its errors: in watch mode a
// failed pass is retried on the next trigger rather than killing the process.
func runPass(ctx context.Context, m maintainer.Maintainer) {
	summary, err := m.Run(ctx)
	if err != nil {
		slog.Error("Maintenance pass failed", "error", err)
		return
	}
	for _, failure := range summary.Failures {
		slog.Warn("Stale report could not be removed", "file", failure.Name, "error", failure.Err)
	}
}
