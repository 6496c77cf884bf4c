package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// watchDebounce groups the bursts of events editors produce when saving.
var watchDebounce = 100 * time.Millisecond

// watchedFiles returns the absolute paths of every input read from disk.
func (r *runner) watchedFiles() (map[string]bool, error) {
	paths := append([]string{r.cfg.Template}, r.cfg.Data.Value()...)
	files := make(map[string]bool, len(paths))
	for _, path := range paths {
		if path == stdinName {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", path)
		}
		files[abs] = true
	}
	return files, nil
}

// watch renders once and then again after every change to the template or a
// data file, until ctx is done. Render failures are logged and do not stop
// the loop.
func (r *runner) watch(ctx context.Context) error {
	files, err := r.watchedFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("nothing to watch: template and data are read from stdin")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	// Directories are watched rather than files so that editors replacing a
	// file by rename are still noticed.
	dirs := make(map[string]bool)
	for file := range files {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	r.renderLogged()
	r.logger.Infof("Watching %d files for changes", len(files))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !files[name] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			r.logger.Debugf("File %s changed: %s", event.Name, event.Op)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Stop()
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			r.renderLogged()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Errorf("File watcher error: %v", err)
		}
	}
}

func (r *runner) renderLogged() {
	if err := r.render(); err != nil {
		r.logger.Errorf("Failed to render %s: %v", r.cfg.Template, err)
	}
}
