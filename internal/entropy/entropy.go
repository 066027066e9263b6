// Package entropy provides a concurrency safe ULID entropy source.
// Photo uploads draw from it to mint unique blob keys, so reads must
// stay valid when several uploads run at once.
package entropy

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// safeMonotonicReader guards the library's monotonic reader with a
// mutex; the reader itself is not safe for concurrent use.
type safeMonotonicReader struct {
	mtx sync.Mutex
	ulid.MonotonicReader
}

func (r *safeMonotonicReader) MonotonicRead(ms uint64, p []byte) (err error) {
	r.mtx.Lock()
	err = r.MonotonicReader.MonotonicRead(ms, p)
	r.mtx.Unlock()

	return err
}

// New returns a MonotonicReader that may be shared across goroutines.
func New() ulid.MonotonicReader {
	// nolint:gosec // blob keys are identifiers, not secrets
	monotonic := ulid.Monotonic(rand.New(
		rand.NewSource(time.Now().UnixNano()),
	), 0)

	return &safeMonotonicReader{MonotonicReader: monotonic}
}
