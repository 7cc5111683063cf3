package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codalotl/diffy/internal/diff"
)

// fileWatcher reports the contents of one file each time it settles after a change.
//
// The parent directory is watched rather than the file, so editors that save by writing a temp file and renaming it over the original are still seen.
type fileWatcher struct {
	path     string // absolute, cleaned
	debounce time.Duration
	log      *slog.Logger
	read     func(path string) (string, error)
	onChange func(content string) error
}

// run blocks until ctx is done, onChange fails, or the underlying watcher breaks. ready, if non-nil, is closed once events are being delivered.
func (w *fileWatcher) run(ctx context.Context, ready chan<- struct{}) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	if ready != nil {
		close(ready)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			w.log.Debug("watch event", "path", ev.Name, "op", ev.Op.String())
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			content, err := w.read(w.path)
			if errors.Is(err, os.ErrNotExist) {
				w.log.Info("watched file is gone; waiting for it to come back", "path", w.path)
				continue
			}
			if errors.Is(err, ErrInputTooLarge) {
				w.log.Warn("skipping change", "path", w.path, "err", err)
				continue
			}
			if err != nil {
				return err
			}
			if err := w.onChange(content); err != nil {
				return err
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "path", w.path, "err", err)
		}
	}
}

// runWatch snapshots path, then prints decorations of each new version against the snapshot.
func runWatch(ctx context.Context, env *runEnv, path string) error {
	return watchAndReport(ctx, env, path, nil)
}

func watchAndReport(ctx context.Context, env *runEnv, path string, ready chan<- struct{}) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	src, err := diff.Source(env.cfg.Source)
	if err != nil {
		return err
	}

	opts := inputOptions{maxBytes: env.cfg.MaxBytes, mmap: env.cfg.Mmap}
	read := func(p string) (string, error) { return readInput(p, opts) }

	snapshot, err := read(abs)
	if err != nil {
		return err
	}
	env.log.Info("watching", "path", abs, "source", src.Name(), "bytes", len(snapshot))

	w := &fileWatcher{
		path:     filepath.Clean(abs),
		debounce: time.Duration(env.cfg.DebounceMillis) * time.Millisecond,
		log:      env.log,
		read:     read,
		onChange: func(content string) error {
			dec := diff.Decorate(diff.BlocksFrom(src, snapshot, content))
			env.log.Info("changed", "path", abs, "line_blocks", len(dec.LineBlocks), "inline_spans", len(dec.InlineSpans))
			return writeDecorations(env, dec)
		},
	}
	return w.run(ctx, ready)
}
