package dsync

import (
	"log"

	"github.com/bobg/watcher"
)

var _ watcher.Observer = LogObserver{}

// LogObserver is a watcher.Observer that reports progress with the standard logger.
type LogObserver struct {
	// Verbose adds a line for every added, replaced, or removed record.
	Verbose bool
}

func (LogObserver) IndexingStarted(root string) {
	log.Printf("start indexing %s", root)
}

func (o LogObserver) DocumentAdded(rec watcher.Record) {
	if o.Verbose {
		log.Printf("append document in index: %s", rec.Path)
	}
}

func (o LogObserver) DocumentReplaced(_, rec watcher.Record) {
	if o.Verbose {
		log.Printf("replace document: %s", rec.Path)
	}
}

func (o LogObserver) DocumentRemoved(rec watcher.Record) {
	if o.Verbose {
		log.Printf("remove document: %s", rec.Path)
	}
}

func (LogObserver) CheckpointWritten(changes int) {
	log.Printf("write index %d", changes)
}

func (LogObserver) FilesCrawled(count int) {
	log.Printf("file crawled %d", count)
}

func (LogObserver) FileSkipped(path string, err error) {
	log.Printf("ERROR skipping %s: %s", path, err)
}

func (LogObserver) IndexingFinished(stats watcher.Stats) {
	log.Printf("end indexing: %d crawled, %d added, %d replaced, %d removed, %d skipped", stats.Crawled, stats.Added, stats.Replaced, stats.Removed, stats.Skipped)
}
