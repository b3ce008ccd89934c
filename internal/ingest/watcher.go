// Package ingest discovers poster images dropped into watched folders.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/poster-outreach/constants"
)

// ErrNoRoots is returned when Watch is called without directories.
var ErrNoRoots = errors.New("no roots provided")

type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // emit poster files already present under Roots
	SkipHidden  bool          // ignore dot files and dot directories
	Debounce    time.Duration // coalesce create/write bursts per path
}

// Watch emits paths of poster images created or rewritten under cfg.Roots.
// Both channels are closed once ctx is done or the underlying watcher fails.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, ErrNoRoots
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}

	pending := map[string]struct{}{}
	for _, root := range cfg.Roots {
		if err := addTree(w, root, cfg, pending, cfg.InitialScan); err != nil {
			_ = w.Close()
			logger.Error("ingest.watch.add_root.failed", "root", root, "error", err)
			return nil, nil, fmt.Errorf("watch %s: %w", root, err)
		}
	}
	logger.Info("ingest.watch.started", "roots", cfg.Roots, "initial", len(pending))

	out := make(chan string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("ingest.watch.close.failed", "error", err)
			}
		}()

		flush := func() bool {
			for p := range pending {
				delete(pending, p)
				select {
				case out <- p:
				case <-ctx.Done():
					return false
				}
			}
			return true
		}
		if !flush() {
			return
		}

		var (
			timer *time.Timer
			fire  <-chan time.Time
		)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if !e.Op.Has(fsnotify.Create) && !e.Op.Has(fsnotify.Write) {
					continue
				}
				if cfg.SkipHidden && isHidden(e.Name) {
					continue
				}
				if e.Op.Has(fsnotify.Create) {
					if fi, err := os.Stat(e.Name); err == nil && fi.IsDir() {
						// files written before the directory was added are caught by the scan
						if err := addTree(w, e.Name, cfg, pending, true); err != nil {
							logger.Warn("ingest.watch.add_dir.failed", "path", e.Name, "error", err)
						}
					}
				}
				if constants.IsPosterFile(e.Name) {
					pending[e.Name] = struct{}{}
				}
				if len(pending) == 0 {
					continue
				}
				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					timer.Reset(cfg.Debounce)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				if !flush() {
					return
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("ingest.watch.error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return out, errCh, nil
}

// Scan returns the poster files currently under root, sorted by walk order.
func Scan(root string, skipHidden bool) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && constants.IsPosterFile(path) {
			found = append(found, path)
		}
		return nil
	})
	return found, err
}

func addTree(w *fsnotify.Watcher, root string, cfg WatchConfig, pending map[string]struct{}, scan bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if cfg.SkipHidden && path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if scan && constants.IsPosterFile(path) {
			pending[path] = struct{}{}
		}
		return nil
	})
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
