// Package watcher keeps a persistent, content-addressed index of the files in a directory tree.
//
// The index is a table of records,
// one per regular file,
// each holding the file's absolute path,
// its modification time as of the last time it was looked at,
// and a digest of its content.
//
// The digest is computed the way git names blob objects:
// the SHA-1 hash of the string "blob ",
// the content length in decimal,
// a NUL byte,
// and then the content itself.
// So the digest of a file here is the same as what
// `git hash-object` reports for it.
//
// Reading and hashing every file on every pass would be slow for a large tree.
// Instead each synchronization pass
// (see the dsync subpackage)
// compares each file's modification time against the one recorded in the index,
// and reads and hashes only the files that are new or whose mtime moved forward.
// A file whose mtime has not changed is assumed unchanged,
// even if its content was altered behind the mtime's back.
//
// The index is kept in a Store.
// The default store
// (in the store/file subpackage)
// is a CSV file that is always replaced atomically,
// so an interrupted pass never leaves a torn index behind.
// Other stores keep the index in SQLite, Postgresql, or memory.
package watcher
