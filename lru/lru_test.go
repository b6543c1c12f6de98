//go:build unix

package lru

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobg/watcher"
)

func TestHardLinks(t *testing.T) {
	tmpdir, err := os.MkdirTemp("", "lrutest")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpdir)

	var (
		a     = filepath.Join(tmpdir, "a")
		b     = filepath.Join(tmpdir, "b")
		plain = filepath.Join(tmpdir, "plain")
	)
	if err = os.WriteFile(a, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err = os.Link(a, b); err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(plain, []byte("bye"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls int
	counter := watcher.HasherFunc(func(path string, info fs.FileInfo) (watcher.Digest, error) {
		calls++
		return watcher.DefaultHasher.HashFile(path, info)
	})

	h, err := New(counter, 10)
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{a, b, plain, plain} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := h.HashFile(path, info)
		if err != nil {
			t.Fatal(err)
		}
		want, err := watcher.HashFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", path, got, want)
		}
	}

	// One call for the linked pair, two for the unlinked file.
	if calls != 3 {
		t.Errorf("got %d calls to the nested hasher, want 3", calls)
	}
	if h.Len() != 1 {
		t.Errorf("got %d cached digests, want 1", h.Len())
	}

	// Modifying the file (through either name) changes its mtime and so its key.
	if err = os.WriteFile(b, []byte("bye now"), 0644); err != nil {
		t.Fatal(err)
	}
	later := mustStat(t, a).ModTime().Add(1e9)
	if err = os.Chtimes(a, later, later); err != nil {
		t.Fatal(err)
	}
	got, err := h.HashFile(a, mustStat(t, a))
	if err != nil {
		t.Fatal(err)
	}
	if want := watcher.Sum([]byte("bye now")); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func mustStat(t *testing.T, path string) fs.FileInfo {
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info
}
