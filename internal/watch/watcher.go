// Package watch mirrors external edits of a local content tree onto the
// event stream. It is only used with the filesystem store, where files can
// change underneath the server (an editor, a git pull).
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/virel/pagesmith/internal/slug"
	"github.com/virel/pagesmith/internal/sse"
)

// Watch starts an fsnotify watcher on the content root and publishes
// content events until ctx is cancelled. New directories created at
// runtime are automatically added to the watch list.
func Watch(ctx context.Context, root string, broker *sse.Broker, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			// Temp files from atomic writes are not content.
			if strings.Contains(filepath.Base(rel), ".pagesmith-tmp-") {
				continue
			}

			scope := classify(rel)
			if scope == "" {
				continue
			}

			switch {
			case ev.Op&fsnotify.Create != 0:
				logger.Debug("watcher: created", slog.String("path", rel))
				broker.PublishContentEvent(scope, "created", rel)
			case ev.Op&fsnotify.Write != 0:
				logger.Debug("watcher: updated", slog.String("path", rel))
				broker.PublishContentEvent(scope, "updated", rel)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("watcher: deleted", slog.String("path", rel))
				broker.PublishContentEvent(scope, "deleted", rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// classify maps a repository-relative path to an event scope, or "" when
// the file is of no interest.
func classify(rel string) string {
	switch {
	case strings.HasPrefix(rel, slug.PostsDir+"/") && strings.HasSuffix(rel, ".md"):
		return "post"
	case rel == "_config.yml" || rel == "_data/theme.yml":
		return "settings"
	case strings.HasPrefix(rel, "assets/images/"):
		return "media"
	case !strings.Contains(rel, "/") && strings.HasSuffix(rel, ".md") && !strings.HasPrefix(rel, "_"):
		return "page"
	default:
		return ""
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
