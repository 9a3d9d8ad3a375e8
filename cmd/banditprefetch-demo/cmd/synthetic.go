package cmd

import (
	"math/rand"

	"github.com/sarchlab/banditprefetch/prefetch"
)

// syntheticCache tracks running access/miss counters like a real cache
// would, but the miss behavior is driven externally by the access
// driver rather than an actual memory hierarchy.
type syntheticCache struct {
	accesses uint64
	misses   uint64
}

func newSyntheticCache() *syntheticCache {
	return &syntheticCache{}
}

func (c *syntheticCache) RuntimeAccesses() uint64 { return c.accesses }
func (c *syntheticCache) RuntimeMisses() uint64   { return c.misses }

// recordAccess folds one simulated access into the running counters,
// returning whether it missed.
func (c *syntheticCache) recordAccess(rng *rand.Rand, baseMissRate float64) bool {
	c.accesses++

	if rng.Float64() < baseMissRate {
		c.misses++
		return true
	}

	return false
}

// syntheticChild is a minimal stand-in for a real prefetcher: it always
// predicts the next sequential block after the accessed address, at a
// fixed stride. Two instances with different strides ("stride",
// "markov" by name only, sharing this same logic) are enough to give
// the bandit a real choice to make.
type syntheticChild struct {
	name   string
	stride uint64
}

func newSyntheticChild(name string) *syntheticChild {
	stride := uint64(64)
	if name == "markov" {
		stride = 128
	}

	return &syntheticChild{name: name, stride: stride}
}

func (c *syntheticChild) Name() string { return c.name }

func (c *syntheticChild) CalculatePrefetch(
	info prefetch.AccessInfo, _ prefetch.CacheView,
) []prefetch.Candidate {
	return []prefetch.Candidate{{Addr: info.Addr + c.stride, Priority: 0}}
}

// syntheticCPU derives IPC from a fixed nominal rate plus small random
// jitter, standing in for a real core's retirement counter.
type syntheticCPU struct {
	ops        uint64
	nominalIPC float64
	rng        *rand.Rand
}

func newSyntheticCPU() *syntheticCPU {
	return &syntheticCPU{
		nominalIPC: 1.5,
		rng:        rand.New(rand.NewSource(2)),
	}
}

func (c *syntheticCPU) TotalOps() uint64 { return c.ops }

// advance folds ticks elapsed into the running op counter.
func (c *syntheticCPU) advance(ticks uint64) {
	jitter := 0.9 + 0.2*c.rng.Float64()
	c.ops += uint64(float64(ticks) * c.nominalIPC * jitter)
}
