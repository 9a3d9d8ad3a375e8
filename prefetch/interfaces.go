// Package prefetch implements an RL-bandit controller that decides,
// once per epoch, which of a set of candidate prefetchers (if any) is
// allowed to issue prefetch requests for a cache it manages.
package prefetch

import "github.com/sarchlab/banditprefetch/eventsys"

// Cache is the subset of a host cache's behavior the controller needs:
// running totals of accesses and misses since the cache was created.
type Cache interface {
	RuntimeAccesses() uint64
	RuntimeMisses() uint64
}

// CPU is the subset of a host CPU's behavior the controller needs: a
// running total of retired operations, used to derive IPC.
type CPU interface {
	TotalOps() uint64
}

// AccessInfo describes one cache access, passed to children so they can
// update their own internal prediction tables.
type AccessInfo struct {
	Addr    uint64
	PC      uint64
	IsWrite bool
	Miss    bool
}

// Candidate is one prefetch suggestion produced by a child: a block
// address and a relative priority (higher issues first, when a cache
// enforces a prefetch queue depth).
type Candidate struct {
	Addr     uint64
	Priority int
}

// CacheView is whatever read-only information about the managed cache a
// child needs to compute its predictions (set/way geometry, block size,
// and so on). The controller never interprets it; it only forwards it.
type CacheView interface{}

// Child is the capability every candidate prefetcher must expose. This
// replaces runtime downcasting (the source's dynamic_cast<Queued*>) with
// an explicit interface resolved once, at construction.
type Child interface {
	Name() string
	CalculatePrefetch(info AccessInfo, view CacheView) []Candidate
}

// Clock reports the current tick. It is satisfied by *eventsys.Engine
// and by any other host scheduler that tracks ticks the same way.
type Clock interface {
	CurTick() eventsys.Tick
}

// Scheduler schedules a Handler's event at an absolute tick. It is
// satisfied by *eventsys.Engine.
type Scheduler interface {
	ScheduleAt(e eventsys.Event, tick eventsys.Tick)
}
