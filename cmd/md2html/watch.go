package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// defaultDebounce groups the burst of events editors emit for one save.
const defaultDebounce = 200 * time.Millisecond

// watcher reconverts markdown files when they change.
type watcher struct {
	job      batchJob
	root     string // file or directory given on the command line
	output   string
	options  discoveryOptions
	flags    *convertFlags
	env      *Environment
	logger   logrus.FieldLogger
	debounce time.Duration
}

// run converts files once, then watches until ctx is canceled.
// Failed conversions are reported and watching continues.
func (w *watcher) run(ctx context.Context, files []FileToConvert) error {
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if len(files) > 0 {
		w.convert(ctx, files)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fw.Close()

	dirs, err := w.watchDirs()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	if !w.flags.common.quiet {
		fmt.Fprintf(w.env.Stdout, "Watching %s (Ctrl+C to stop)\n", w.root)
	}

	pending := map[string]bool{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && w.isDirTree() && w.options.recursive && isDir(ev.Name) {
				if err := fw.Add(ev.Name); err != nil {
					w.logger.WithError(err).WithField("dir", ev.Name).Warn("cannot watch directory")
				}
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !w.relevant(ev.Name) {
				continue
			}
			w.logger.WithField("file", ev.Name).Debug("change detected")
			pending[ev.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("watch error")

		case <-timer.C:
			files := w.filesFor(pending)
			pending = map[string]bool{}
			if len(files) > 0 {
				w.convert(ctx, files)
			}
		}
	}
}

// convert runs one batch and reports it; errors never stop the watch.
func (w *watcher) convert(ctx context.Context, files []FileToConvert) {
	if err := runBatch(ctx, w.job, files, w.flags, w.env); err != nil {
		w.logger.WithError(err).Debug("batch finished with failures")
	}
}

// isDirTree reports whether the watched root is a directory.
func (w *watcher) isDirTree() bool {
	return isDir(w.root)
}

// watchDirs returns the directories to subscribe to.
func (w *watcher) watchDirs() ([]string, error) {
	if !w.isDirTree() {
		return []string{filepath.Dir(w.root)}, nil
	}
	if !w.options.recursive {
		return []string{w.root}, nil
	}

	var dirs []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// relevant reports whether a changed path should be reconverted.
func (w *watcher) relevant(path string) bool {
	if !w.isDirTree() {
		return filepath.Clean(path) == filepath.Clean(w.root)
	}
	if !fileutil.IsMarkdown(path) || !matchesPatterns(filepath.Base(path), w.options.patterns) {
		return false
	}
	if !w.options.recursive && filepath.Dir(filepath.Clean(path)) != filepath.Clean(w.root) {
		return false
	}
	return isRegular(path)
}

// filesFor maps changed paths to conversions, sorted by path.
func (w *watcher) filesFor(changed map[string]bool) []FileToConvert {
	base := ""
	if w.isDirTree() {
		base = w.root
	}

	paths := make([]string, 0, len(changed))
	for p := range changed {
		if isRegular(p) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	files := make([]FileToConvert, len(paths))
	for i, p := range paths {
		files[i] = FileToConvert{InputPath: p, OutputPath: resolveOutputPath(p, w.output, base)}
	}
	return files
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
