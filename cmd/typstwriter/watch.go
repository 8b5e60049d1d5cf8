package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce groups the burst of events an editor save produces.
const watchDebounce = 300 * time.Millisecond

// watchedInputs decides which filesystem events concern the build inputs.
type watchedInputs struct {
	files map[string]bool // explicit file arguments
	dirs  []string        // directory arguments, watched recursively
}

func newWatchedInputs(paths []string) (*watchedInputs, error) {
	w := &watchedInputs{files: make(map[string]bool)}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
		} else {
			w.files[abs] = true
		}
	}
	return w, nil
}

// triggersRebuild reports whether ev changes a Markdown input.
func (w *watchedInputs) triggersRebuild(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if isEditorArtifact(ev.Name) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	if w.files[name] {
		return true
	}
	return isMarkdown(name) && w.underDir(name)
}

// isEditorArtifact matches hidden, swap and backup files.
func isEditorArtifact(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasPrefix(base, "#") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp")
}

// addTo registers the directories holding the inputs.
func (w *watchedInputs) addTo(watcher *fsnotify.Watcher) error {
	for f := range w.files {
		if err := watcher.Add(filepath.Dir(f)); err != nil {
			return fmt.Errorf("watching %s: %w", filepath.Dir(f), err)
		}
	}
	for _, d := range w.dirs {
		if err := addDirsRecursive(watcher, d); err != nil {
			return err
		}
	}
	return nil
}

// addDirsRecursive watches root and every non-hidden directory below it.
func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// watchInputs calls rebuild after input changes settle, until ctx is done.
func watchInputs(ctx context.Context, paths []string, logger *zap.Logger, rebuild func()) error {
	inputs, err := newWatchedInputs(paths)
	if err != nil {
		return fmt.Errorf("watching inputs: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := inputs.addTo(watcher); err != nil {
		return err
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New subdirectories of a watched tree are watched too
			if ev.Has(fsnotify.Create) && inputs.underDir(ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addDirsRecursive(watcher, ev.Name); err != nil {
						logger.Warn("watch add failed", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			if !inputs.triggersRebuild(ev) {
				continue
			}
			logger.Debug("change detected", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			rebuild()
		}
	}
}

// underDir reports whether path lies inside a watched directory tree.
func (w *watchedInputs) underDir(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, d := range w.dirs {
		if strings.HasPrefix(abs, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
