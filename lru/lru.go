// Package lru implements a Hasher that remembers the digests of hard-linked files,
// so that several paths naming one file are read only once.
package lru

import (
	"io/fs"

	lru "github.com/hashicorp/golang-lru"

	"github.com/bobg/watcher"
)

var _ watcher.Hasher = &Hasher{}

// Hasher is a least-recently-used cache of digests in front of another Hasher.
// Only files with more than one link are cached,
// keyed by device, inode, size, and modification time.
// Everything else goes straight to the nested Hasher.
type Hasher struct {
	c *lru.Cache // fileKey->watcher.Digest
	h watcher.Hasher
}

type fileKey struct {
	dev, ino uint64
	size     int64
	mtime    int64
}

// New produces a new Hasher backed by `h` and caching up to `size` digests.
func New(h watcher.Hasher, size int) (*Hasher, error) {
	c, err := lru.New(size)
	return &Hasher{c: c, h: h}, err
}

// HashFile implements watcher.Hasher.
func (h *Hasher) HashFile(path string, info fs.FileInfo) (watcher.Digest, error) {
	key, ok := keyFor(info)
	if !ok {
		return h.h.HashFile(path, info)
	}
	if got, ok := h.c.Get(key); ok {
		return got.(watcher.Digest), nil
	}
	d, err := h.h.HashFile(path, info)
	if err != nil {
		return d, err
	}
	h.c.Add(key, d)
	return d, nil
}

// Len is the number of digests in the cache.
func (h *Hasher) Len() int {
	return h.c.Len()
}
