package watcher

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
)

// Digest is the content digest of a file: a git blob object name.
// The zero Digest means "not yet hashed."
type Digest [sha1.Size]byte

// Zero is the zero value of a Digest.
var Zero Digest

// Sum computes the Digest of the given content.
func Sum(data []byte) Digest {
	h := sha1.New()
	writeHeader(h, int64(len(data)))
	h.Write(data)

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// The header is "blob <decimal length>\x00".
func writeHeader(w io.Writer, size int64) {
	io.WriteString(w, "blob ")
	io.WriteString(w, strconv.FormatInt(size, 10))
	w.Write([]byte{0})
}

// HashFile reads the whole file at path and returns the Digest of its content.
func HashFile(path string) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Zero, err
	}
	return Sum(data), nil
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero tells whether d is the zero Digest.
func (d Digest) IsZero() bool {
	return d == Zero
}

// DigestFromHex parses the hex encoding of a Digest.
func DigestFromHex(s string) (Digest, error) {
	var out Digest
	if len(s) != 2*sha1.Size {
		return out, errors.New("wrong length")
	}
	_, err := hex.Decode(out[:], []byte(s))
	return out, err
}

// Hasher computes the Digest of a file.
// The FileInfo is the result of statting path just beforehand;
// implementations may use it (e.g. for caching) or ignore it.
type Hasher interface {
	HashFile(path string, info fs.FileInfo) (Digest, error)
}

// HasherFunc is a function implementing Hasher.
type HasherFunc func(path string, info fs.FileInfo) (Digest, error)

// HashFile implements Hasher.
func (f HasherFunc) HashFile(path string, info fs.FileInfo) (Digest, error) {
	return f(path, info)
}

// DefaultHasher reads and hashes the whole file with HashFile.
var DefaultHasher Hasher = HasherFunc(func(path string, _ fs.FileInfo) (Digest, error) {
	return HashFile(path)
})
