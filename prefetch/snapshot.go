package prefetch

import "github.com/sarchlab/banditprefetch/eventsys"

// EpochSnapshot captures everything computed during one epoch handler
// invocation. It is a read model: the CSV logger, the optional SQLite
// history store, and the optional HTTP monitor all consume it, but the
// Controller's own correctness never depends on any of them seeing it.
type EpochSnapshot struct {
	Epoch                 uint64
	Tick                  eventsys.Tick
	State                 State
	RawMissRate           float64
	SmoothedMissRate      float64
	DeltaSmoothedMissRate float64
	IPC                   float64
	DeltaIPC              float64
	Accuracy              float64
	Action                Action
	ExploreRate           float64
}
