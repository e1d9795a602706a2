package gesture

import (
	"sync"

	"github.com/brainboard/brainboard/shared/metrics"
)

// Inflight tracks deferred persistence calls. They are never cancelled;
// Wait lets teardown and tests block until they settle.
type Inflight struct {
	wg sync.WaitGroup
}

func (f *Inflight) Go(fn func()) {
	f.wg.Add(1)
	metrics.PersistInFlight.Inc()
	go func() {
		defer f.wg.Done()
		defer metrics.PersistInFlight.Dec()
		fn()
	}()
}

func (f *Inflight) Wait() {
	f.wg.Wait()
}
