package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/spectrace/workflow"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <feature>",
		Short: "Recompute status whenever the feature's documents change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := opts.engine()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return watchFeature(ctx, engine, args[0], debounce, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "Quiet period before recomputing after a change")

	return cmd
}

// watchFeature recomputes and renders status on every debounced change to
// the feature's documents until ctx is done.
func watchFeature(ctx context.Context, engine *workflow.Engine, slug string, debounce time.Duration, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	m := engine.Manager()
	// Watch every directory documents can appear in. Directories that do
	// not exist yet are skipped; a change in the feature dir re-adds them.
	dirs := []string{
		m.FeaturePath(slug),
		m.ChecklistsPath(slug),
		m.TestifyPath(slug),
		filepath.Join(m.RootPath(), workflow.MemoryDir),
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			slog.Debug("Not watching directory", "path", dir, "error", err)
		}
	}

	recompute := func() {
		status, err := engine.Compute(ctx, slug)
		if err != nil {
			slog.Error("Recompute failed", "feature", slug, "error", err)
			return
		}
		renderStatus(out, status)
	}

	// Initial computation before any change arrives.
	recompute()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			slog.Debug("Document change", "path", event.Name, "op", event.Op.String())
			// Newly created subdirectories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)

		case <-pending:
			recompute()
		}
	}
}
