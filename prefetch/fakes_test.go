package prefetch_test

import (
	"github.com/sarchlab/banditprefetch/eventsys"
	"github.com/sarchlab/banditprefetch/prefetch"
)

// fakeCache is a hand-written test double, in the style of the
// teacher's MockEngine/MockComponent: simple enough that generating it
// would add ceremony without adding safety.
type fakeCache struct {
	accesses uint64
	misses   uint64
}

func (c *fakeCache) RuntimeAccesses() uint64 { return c.accesses }
func (c *fakeCache) RuntimeMisses() uint64   { return c.misses }

type fakeCPU struct {
	totalOps uint64
}

func (c *fakeCPU) TotalOps() uint64 { return c.totalOps }

// fakeChild returns a fixed candidate list on every call and records how
// many times it was asked, so tests can assert every child sees every
// access regardless of which one is selected.
type fakeChild struct {
	childName  string
	candidates []prefetch.Candidate
	calls      int
}

func (c *fakeChild) Name() string { return c.childName }

func (c *fakeChild) CalculatePrefetch(_ prefetch.AccessInfo, _ prefetch.CacheView) []prefetch.Candidate {
	c.calls++
	return c.candidates
}

// fakeClock lets tests drive curTick directly without an engine.
type fakeClock struct {
	tick eventsys.Tick
}

func (c *fakeClock) CurTick() eventsys.Tick { return c.tick }

// fakeScheduler records every ScheduleAt call instead of running events,
// so state-machine tests can assert on re-scheduling without needing a
// full engine loop.
type fakeScheduler struct {
	scheduled []eventsys.Tick
}

func (s *fakeScheduler) ScheduleAt(_ eventsys.Event, tick eventsys.Tick) {
	s.scheduled = append(s.scheduled, tick)
}

// fakeStore records every appended snapshot in order.
type fakeStore struct {
	snapshots []prefetch.EpochSnapshot
}

func (s *fakeStore) Append(snap prefetch.EpochSnapshot) {
	s.snapshots = append(s.snapshots, snap)
}
