package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hoist/hoist/internal/project"
)

var watchPath string

// debounce window: builds touch the output directory many times in quick
// succession; one install per burst is enough.
const watchSettle = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the build output and auto-register new binaries",
	Long: `Watch the project's build-output directory and re-run install whenever
binaries are rebuilt. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := project.ResolveRoot(watchPath)
		if err != nil {
			return err
		}
		targetRoot := filepath.Join(root, cfg.TargetDir)
		if _, err := os.Stat(targetRoot); err != nil {
			return fmt.Errorf("no build output to watch at %s: %w", targetRoot, err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(targetRoot); err != nil {
			return fmt.Errorf("watch %s: %w", targetRoot, err)
		}
		entries, err := os.ReadDir(targetRoot)
		if err != nil {
			return fmt.Errorf("read %s: %w", targetRoot, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if err := watcher.Add(filepath.Join(targetRoot, e.Name())); err != nil {
				logger.Warn("cannot watch target", "dir", e.Name(), "err", err)
			}
		}

		eng := newEngine()
		defer eng.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("watching build output", "dir", targetRoot)

		var settle *time.Timer
		var settleC <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Chmod|fsnotify.Rename) == 0 {
					continue
				}
				// A new build profile directory needs its own watch.
				if event.Op&fsnotify.Create != 0 {
					if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							logger.Warn("cannot watch new target", "dir", event.Name, "err", err)
						}
					}
				}
				if settle == nil {
					settle = time.NewTimer(watchSettle)
					settleC = settle.C
				} else {
					settle.Reset(watchSettle)
				}
			case <-settleC:
				settle = nil
				settleC = nil
				res, err := eng.Install(root, nil)
				if err != nil {
					logger.Error("install failed", "err", err)
					continue
				}
				if res.Saved {
					logger.Info("registered build output", "binaries", len(res.Discovered))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watch error", "err", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchPath, "path", "p", "", "project root (default: enclosing git worktree or current directory)")
}
