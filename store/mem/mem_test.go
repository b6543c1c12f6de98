package mem

import (
	"context"
	"testing"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/testutil"
)

func TestRoundTrip(t *testing.T) {
	testutil.RoundTrip(context.Background(), t, func() watcher.Store { return New() }, true)
}

func TestEmpty(t *testing.T) {
	testutil.Empty(context.Background(), t, New())
}
