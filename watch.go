package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/DarkbitNetwork/osu/journal"
)

// Watcher reports changes to a single file. Bursts of events closer together
// than the debounce interval are reported once, after the last one.
type Watcher struct {
	watcher  *fsnotify.Watcher
	file     string
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
}

// NewWatcher watches file. Its directory is watched rather than the file
// itself so that editors which save by renaming are still seen.
func NewWatcher(file string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	file = filepath.Clean(file)
	if err := w.Add(filepath.Dir(file)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher:  w,
		file:     file,
		debounce: debounce,
		Events:   make(chan string, 1),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	Run("watcher", watcher.run)
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.Events <- w.file:
			default:
				// a change is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

// watch reverses cfg.Input once and again after every change until ctx is
// done.
func watch(ctx context.Context, cfg Config, j *journal.Journal) error {
	w, err := NewWatcher(cfg.Input, cfg.Debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := reverseFile(ctx, cfg, j); err != nil {
		slog.Error("reverse failed", "in", cfg.Input, "err", err)
	}
	slog.Info("watching", "in", cfg.Input, "out", cfg.OutputPath())

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
			if err := reverseFile(ctx, cfg, j); err != nil {
				slog.Error("reverse failed", "in", cfg.Input, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		}
	}
}
