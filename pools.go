package epub

import (
	"runtime"

	"golang.org/x/sync/semaphore"
)

// DefaultWriteWorkers bounds concurrent container writes when NewPools is
// given a non-positive write size. Two keeps the disk busy while the next
// directory compresses without thrashing seeks.
const DefaultWriteWorkers = 2

// Pools holds the two process-wide worker budgets the engine runs on: a
// CPU-bound compression pool and an I/O-bound write pool. Construct them
// once and hand the same Pools to every Packager and Runner; the budgets
// are shared across all directories in flight.
type Pools struct {
	compress *semaphore.Weighted
	write    *semaphore.Weighted
}

// NewPools creates bounded compression and write pools. A non-positive
// compression size defaults to GOMAXPROCS; a non-positive write size
// defaults to DefaultWriteWorkers.
func NewPools(compressWorkers, writeWorkers int) *Pools {
	if compressWorkers <= 0 {
		compressWorkers = runtime.GOMAXPROCS(0)
	}
	if writeWorkers <= 0 {
		writeWorkers = DefaultWriteWorkers
	}
	return &Pools{
		compress: semaphore.NewWeighted(int64(compressWorkers)),
		write:    semaphore.NewWeighted(int64(writeWorkers)),
	}
}
