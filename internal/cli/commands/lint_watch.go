package commands

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// runWatch lints files once, then re-lints each file that changes until
// ctx is cancelled. Violations never end the watch.
func runWatch(ctx context.Context, cmdCtx *CommandContext, paths, files []string, cfg lint.Config, threshold core.Severity) error {
	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(paths) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching", "dir", dir)
	}

	explicit := make(map[string]bool)
	for _, f := range files {
		explicit[f] = true
	}

	results, err := lintFiles(ctx, cmdCtx.Linter, files, cfg, len(files))
	if err != nil {
		return err
	}
	_ = report(r, results, len(files), threshold)
	r.Println(r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)"))

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if !skipDir(filepath.Base(event.Name)) {
					_ = watcher.Add(event.Name)
				}
				continue
			}
			if !explicit[event.Name] && !cmdCtx.Cfg.HasExtension(event.Name) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(watchDebounce)

		case <-timer.C:
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			logger.Debug("re-linting", "files", changed)
			results, err := lintFiles(ctx, cmdCtx.Linter, changed, cfg, len(changed))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			r.Println(r.Styles().Muted.Render(fmt.Sprintf("[%s] %d changed", time.Now().Format(time.TimeOnly), len(changed))))
			_ = report(r, results, len(changed), threshold)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Warn(fmt.Sprintf("watch error: %v", err))
		}
	}
}

// watchDirs returns the directories to register with the watcher: every
// directory under the given paths, and the parent of each file path.
func watchDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			add(filepath.Dir(p))
			continue
		}
		_ = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if path != p && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
	}
	return dirs
}
