package watcher

// Observer receives notifications about the progress of a synchronization pass.
// Presentation (console, log, metrics) is up to the implementation.
type Observer interface {
	IndexingStarted(root string)
	DocumentAdded(Record)
	DocumentReplaced(old, new Record)
	DocumentRemoved(Record)

	// CheckpointWritten is called after an intermediate save of the index,
	// with the number of changes so far in the pass.
	CheckpointWritten(changes int)

	// FilesCrawled is called periodically with the number of files seen so far in the pass.
	FilesCrawled(count int)

	// FileSkipped is called when a file cannot be statted or read.
	// The file is left alone for this pass.
	FileSkipped(path string, err error)

	IndexingFinished(Stats)
}

// Stats summarizes a synchronization pass.
type Stats struct {
	Crawled     int // files seen
	Changed     int // Added + Replaced
	Added       int
	Replaced    int
	Removed     int
	Skipped     int // files that could not be statted or read
	Checkpoints int // intermediate saves (not counting the final one)
}

// NopObserver is an Observer that ignores everything.
// It can be embedded in a struct that cares about only some notifications.
type NopObserver struct{}

var _ Observer = NopObserver{}

func (NopObserver) IndexingStarted(string)       {}
func (NopObserver) DocumentAdded(Record)         {}
func (NopObserver) DocumentReplaced(_, _ Record) {}
func (NopObserver) DocumentRemoved(Record)       {}
func (NopObserver) CheckpointWritten(int)        {}
func (NopObserver) FilesCrawled(int)             {}
func (NopObserver) FileSkipped(string, error)    {}
func (NopObserver) IndexingFinished(Stats)       {}
