package watcher

import "context"

// Store is durable storage for an index.
//
// Load always returns a newly constructed Table,
// and Save never modifies or retains the Table it is given.
// A Save must be all-or-nothing:
// if it fails,
// the previously saved index must remain intact.
type Store interface {
	// Bootstrap makes sure there is a valid (possibly empty) index to Load.
	// It does not disturb an existing one.
	Bootstrap(context.Context) error

	// Load reads the stored index.
	Load(context.Context) (*Table, error)

	// Save replaces the stored index with the contents of the given Table.
	Save(context.Context, *Table) error
}
