// Package watch rebuilds a source directory when its Markdown files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/tocnav/internal/build"
	"git.home.luguber.info/inful/tocnav/internal/logfields"
)

// Builder is the build entry point used on every change.
type Builder interface {
	Run(ctx context.Context, req build.Request) (*build.Result, error)
}

// Watcher monitors a source tree and triggers debounced builds.
type Watcher struct {
	builder  Builder
	req      build.Request
	debounce time.Duration
	watcher  *fsnotify.Watcher
	trigger  chan struct{}

	// OnBuild, when set, receives every build outcome.
	OnBuild func(*build.Result, error)
}

// New creates a watcher for req.SourceDir. Call Run to start it.
func New(builder Builder, req build.Request, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := addTree(fw, req.SourceDir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{
		builder:  builder,
		req:      req,
		debounce: debounce,
		watcher:  fw,
		trigger:  make(chan struct{}, 1),
	}, nil
}

// addTree watches dir and every non-hidden directory below it.
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Run performs an initial build and then rebuilds after changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	slog.Info("Watching for changes", logfields.Path(w.req.SourceDir), "debounce", w.debounce)
	w.rebuild(ctx)

	go w.eventLoop(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-w.trigger:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		// New directories need their own watch.
		if err := addTree(w.watcher, event.Name); err == nil {
			slog.Debug("Watching new path", logfields.Path(event.Name))
		}
	}
	if !Relevant(event) {
		return
	}
	slog.Debug("Change detected", logfields.Path(event.Name), "op", event.Op.String())
	select {
	case w.trigger <- struct{}{}:
	default:
		// Rebuild already pending.
	}
}

// Relevant reports whether an event should trigger a rebuild.
func Relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if event.Op == fsnotify.Chmod {
		return false
	}
	// Removing or renaming a directory has no extension to inspect.
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return filepath.Ext(event.Name) == "" || build.IsMarkdown(event.Name)
	}
	return build.IsMarkdown(event.Name)
}

func (w *Watcher) rebuild(ctx context.Context) {
	res, err := w.builder.Run(ctx, w.req)
	if err != nil && ctx.Err() == nil {
		slog.Error("Rebuild failed", logfields.Error(err))
	}
	if w.OnBuild != nil {
		w.OnBuild(res, err)
	}
}
