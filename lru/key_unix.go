//go:build unix

package lru

import (
	"io/fs"
	"syscall"
)

func keyFor(info fs.FileInfo) (fileKey, bool) {
	if info == nil {
		return fileKey{}, false
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || st.Nlink < 2 {
		return fileKey{}, false
	}
	return fileKey{
		dev:   uint64(st.Dev),
		ino:   uint64(st.Ino),
		size:  info.Size(),
		mtime: info.ModTime().UnixNano(),
	}, true
}
