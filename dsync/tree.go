// Package dsync keeps an index of a directory tree in sync with the files in it.
package dsync

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/crawl"
)

// Defaults for the Tree fields of the same names.
const (
	DefaultCheckpointEvery = 200
	DefaultProgressEvery   = 500
)

// Tree is a directory tree whose index lives in S.
type Tree struct {
	S       watcher.Store
	Root    string
	Exclude []string

	// Hasher computes the digest of new or modified files.
	// If nil, watcher.DefaultHasher is used.
	Hasher watcher.Hasher

	// Observer, if not nil, is notified of progress during each pass.
	Observer watcher.Observer

	// CheckpointEvery is how many changes go by between intermediate saves.
	// ProgressEvery is how many crawled files go by between FilesCrawled notifications.
	// Zero means the default.
	CheckpointEvery, ProgressEvery int
}

// Pass brings the index of t up to date.
// It loads the index,
// walks the tree adding new files and rehashing those whose mtime advanced,
// removes records for files no longer present,
// and saves the result.
//
// The index is also saved every CheckpointEvery changes,
// so an interrupted pass keeps most of its work.
// The final save happens even when the walk fails or ctx is canceled,
// but in that case no records are removed,
// since the walk did not see every file.
//
// Files that cannot be statted or read are skipped and reported to the observer.
func (t *Tree) Pass(ctx context.Context) (stats watcher.Stats, err error) {
	var (
		obs             = t.observer()
		hasher          = t.hasher()
		checkpointEvery = t.CheckpointEvery
		progressEvery   = t.ProgressEvery
	)
	if checkpointEvery <= 0 {
		checkpointEvery = DefaultCheckpointEvery
	}
	if progressEvery <= 0 {
		progressEvery = DefaultProgressEvery
	}

	tbl, err := t.S.Load(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "loading index")
	}

	obs.IndexingStarted(t.Root)

	// Records not (yet) seen in this walk.
	pending := make(map[string]watcher.Record, tbl.Len())
	tbl.Each(func(rec watcher.Record) error {
		pending[rec.Path] = rec
		return nil
	})

	defer func() {
		// Save even if ctx is canceled.
		saveErr := t.S.Save(context.WithoutCancel(ctx), tbl)
		if saveErr != nil {
			if err != nil {
				log.Printf("ERROR saving index after failed pass: %s", saveErr)
			} else {
				err = errors.Wrap(saveErr, "saving index")
			}
		}
		obs.IndexingFinished(stats)
	}()

	skip := func(path string, err error) {
		stats.Skipped++
		obs.FileSkipped(path, err)
	}

	c := crawl.Crawler{Root: t.Root, Exclude: t.Exclude}
	err = c.Walk(ctx, func(path string) error {
		stats.Crawled++
		if stats.Crawled%progressEvery == 0 {
			obs.FilesCrawled(stats.Crawled)
		}

		info, err := os.Stat(path)
		if err != nil {
			skip(path, err)
			return nil
		}
		mtime := watcher.Mtime(info.ModTime())

		old, found := tbl.Get(path)
		if found {
			delete(pending, path)
			if old.Mtime >= mtime {
				return nil
			}
		}

		digest, err := hasher.HashFile(path, info)
		if err != nil {
			skip(path, err)
			return nil
		}
		rec := watcher.Record{Path: path, Mtime: mtime, Digest: digest}

		if found {
			if _, err = tbl.Replace(rec); err != nil {
				return errors.Wrapf(err, "replacing record for %s", path)
			}
			stats.Replaced++
			obs.DocumentReplaced(old, rec)
		} else {
			if err = tbl.Add(rec); err != nil {
				return errors.Wrapf(err, "adding record for %s", path)
			}
			stats.Added++
			obs.DocumentAdded(rec)
		}

		stats.Changed++
		if stats.Changed%checkpointEvery == 0 {
			if err = t.S.Save(ctx, tbl); err != nil {
				return errors.Wrapf(err, "saving checkpoint after %d changes", stats.Changed)
			}
			stats.Checkpoints++
			obs.CheckpointWritten(stats.Changed)
		}
		return nil
	})
	if err != nil {
		return stats, errors.Wrapf(err, "walking %s", t.Root)
	}

	// Walk the table rather than the map for a stable removal order.
	for _, rec := range tbl.Records() {
		if _, ok := pending[rec.Path]; !ok {
			continue
		}
		tbl.Remove(rec.Path)
		stats.Removed++
		obs.DocumentRemoved(rec)
	}

	return stats, nil
}

func (t *Tree) observer() watcher.Observer {
	if t.Observer == nil {
		return watcher.NopObserver{}
	}
	return t.Observer
}

func (t *Tree) hasher() watcher.Hasher {
	if t.Hasher == nil {
		return watcher.DefaultHasher
	}
	return t.Hasher
}
