package dsync

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
)

// Run bootstraps t's store and then runs passes until ctx is canceled.
// After each pass it waits for `interval` to elapse or for a value on `wake`,
// whichever comes first.
// A nil `wake` channel is never ready.
//
// A failed pass is logged and retried on the next round.
// Run returns an error only if bootstrapping fails;
// otherwise it returns ctx.Err() once ctx is canceled.
func (t *Tree) Run(ctx context.Context, interval time.Duration, wake <-chan struct{}) error {
	if err := t.S.Bootstrap(ctx); err != nil {
		return errors.Wrap(err, "bootstrapping index store")
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-wake:
			if !timer.Stop() {
				<-timer.C
			}
		}

		if _, err := t.Pass(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("ERROR in pass over %s: %s", t.Root, err)
		}

		timer.Reset(interval)
	}
}
