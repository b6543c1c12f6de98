// Package crawl enumerates the regular files in a directory tree.
package crawl

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Crawler walks the tree beneath Root.
//
// Symbolic links to regular files are reported like regular files,
// under the link's own path.
// Symbolic links to directories are not followed,
// so the walk cannot loop.
// Dangling links, devices, pipes, and sockets are skipped.
type Crawler struct {
	// Root is the directory to walk.
	// If it is relative it is made absolute first.
	Root string

	// Exclude is a list of paths
	// (files or whole subtrees)
	// to leave out of the walk.
	Exclude []string
}

// Walk calls f on the absolute path of every regular file under c.Root,
// in lexical depth-first order.
// Hidden files are included.
//
// A subdirectory that cannot be read is skipped,
// but failing to read c.Root itself is an error.
// If f returns an error,
// or if ctx is canceled,
// Walk stops and returns that error.
func (c Crawler) Walk(ctx context.Context, f func(path string) error) error {
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return errors.Wrapf(err, "making %s absolute", c.Root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "statting root %s", root)
	}
	if !info.IsDir() {
		return errors.Errorf("root %s is not a directory", root)
	}

	exclude, err := absPaths(c.Exclude)
	if err != nil {
		return err
	}

	// WalkDir does not descend into a root that is itself a symlink,
	// unless it's spelled with a trailing separator.
	walkRoot := root
	if linfo, err := os.Lstat(root); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		walkRoot += string(filepath.Separator)
	}

	return filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == walkRoot {
				return errors.Wrapf(err, "reading root %s", root)
			}
			if d != nil && d.IsDir() {
				// Unreadable subdir.
				return fs.SkipDir
			}
			return nil
		}
		if excluded(path, exclude) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		typ := d.Type()
		if typ&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !typ.IsRegular() {
			return nil
		}

		return f(path)
	})
}

func absPaths(paths []string) ([]string, error) {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "making %s absolute", p)
		}
		result = append(result, abs)
	}
	return result, nil
}

func excluded(path string, exclude []string) bool {
	for _, e := range exclude {
		if path == e || strings.HasPrefix(path, e+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Under tells whether path is inside the tree rooted at dir
// (or is dir itself).
// Both must be absolute and clean.
func Under(path, dir string) bool {
	return excluded(path, []string{dir})
}
