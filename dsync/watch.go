package dsync

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/bobg/watcher/crawl"
)

// Watch watches every directory under root (apart from those under `exclude`)
// and does a non-blocking send on `wake` whenever something changes.
// Directories created later are watched too.
// It returns when ctx is canceled.
//
// Events only hasten the next pass (see Run).
// Changes are still detected by comparing mtimes.
func Watch(ctx context.Context, root string, exclude []string, wake chan<- struct{}) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return errors.Wrapf(err, "getting absolute path of %s", root)
	}
	absExclude := make([]string, 0, len(exclude))
	for _, ex := range exclude {
		abs, err := filepath.Abs(ex)
		if err != nil {
			return errors.Wrapf(err, "getting absolute path of %s", ex)
		}
		absExclude = append(absExclude, abs)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating filesystem watcher")
	}
	defer w.Close()

	isExcluded := func(path string) bool {
		for _, ex := range absExclude {
			if crawl.Under(path, ex) {
				return true
			}
		}
		return false
	}

	addTree := func(dir string) error {
		return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir {
					return err
				}
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if isExcluded(path) {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				return errors.Wrapf(err, "watching %s", path)
			}
			return nil
		})
	}

	if err = addTree(root); err != nil {
		return errors.Wrapf(err, "watching tree at %s", root)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("filesystem events channel closed")
			}
			if isExcluded(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// Errors here are common (the new thing may already be gone, or not be a dir).
				_ = addTree(ev.Name)
			}
			select {
			case wake <- struct{}{}:
			default:
			}

		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("filesystem errors channel closed")
			}
			log.Printf("ERROR from filesystem watcher: %s", err)
		}
	}
}
