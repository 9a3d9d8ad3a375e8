package prefetch

import "github.com/sarchlab/banditprefetch/eventsys"

// MaxTrackedPrefetches bounds the AttributionTable. On overflow the
// table is cleared wholesale before the triggering insertion — a
// simplicity-over-completeness trade-off spec.md accepts explicitly
// rather than an LRU-eviction alternative.
const MaxTrackedPrefetches = 2048

type attributionEntry struct {
	childIndex int
	issueTick  eventsys.Tick
}

// AttributionTable maps a prefetched block address to the child that
// issued it, so a later demand hit on that address can credit the
// right child with a useful prefetch.
type AttributionTable struct {
	entries map[uint64]attributionEntry
}

// NewAttributionTable creates an empty table.
func NewAttributionTable() *AttributionTable {
	return &AttributionTable{entries: make(map[uint64]attributionEntry)}
}

// Len reports the number of tracked addresses.
func (t *AttributionTable) Len() int {
	return len(t.entries)
}

// Track records that childIndex issued a prefetch for addr at now. It
// reports whether addr was already tracked (a redundant candidate) and
// whether tracking it required clearing the table first (overflow).
//
// On overflow the entire table is cleared before the new entry is
// inserted, per spec.md's accepted trade-off; the newest issuer always
// wins for an address, whether or not it was previously tracked.
func (t *AttributionTable) Track(
	addr uint64, childIndex int, now eventsys.Tick,
) (wasRedundant, overflowed bool) {
	_, wasRedundant = t.entries[addr]

	if !wasRedundant && len(t.entries) >= MaxTrackedPrefetches {
		t.entries = make(map[uint64]attributionEntry)
		overflowed = true
	}

	t.entries[addr] = attributionEntry{childIndex: childIndex, issueTick: now}

	return wasRedundant, overflowed
}

// CreditUseful looks up addr; if tracked, it removes the entry (so a
// second demand hit on the same address credits nothing) and returns
// the child that issued it along with true. If addr is not tracked it
// returns (0, false) and does nothing.
func (t *AttributionTable) CreditUseful(addr uint64) (childIndex int, ok bool) {
	entry, ok := t.entries[addr]
	if !ok {
		return 0, false
	}

	delete(t.entries, addr)

	return entry.childIndex, true
}
