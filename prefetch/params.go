package prefetch

import (
	"log"
	"math/rand"
)

// Exploration decay constants, taken verbatim from the source's
// anonymous-namespace constants of the same name.
const (
	ExploreDecay = 0.9995
	ExploreMin   = 0.01
)

// Params holds every construction-time parameter spec.md §6 enumerates.
type Params struct {
	// CacheName resolves the managed cache and derives the persistence
	// file name. May be empty; the fallback name is used instead.
	CacheName string

	// FallbackName is used to derive the persistence file name when
	// CacheName is empty (the controller's own name, in gem5 terms).
	FallbackName string

	// Children is the ordered, immutable set of candidate prefetchers.
	// May be empty: then only OFF is available.
	Children []Child

	// CurrentAction is the initial semantic action: -1 for OFF, or a
	// valid child index. An out-of-range value is reset to 0 with a
	// warning (invariant 1).
	CurrentAction int

	// TicksPerEpoch is the fixed positive epoch length T.
	TicksPerEpoch uint64

	// LearningRate is alpha, in (0,1].
	LearningRate float64

	// ExploreRate is the initial epsilon, in [ExploreMin,1].
	ExploreRate float64

	// DebugLogging gates CSV output.
	DebugLogging bool

	// CPU is optional; if nil, IPC-based signals are disabled.
	CPU CPU

	// Cache is optional; if nil, miss-based signals are disabled.
	Cache Cache

	// ActionPenalties, if non-nil, must have length len(Children)+1 and
	// its last (OFF) entry must be 0. If nil, the default penalty
	// schedule ([0, 0.02, 0.03, 0, ..., 0]) is used, per spec.md §9's
	// "penalty schedule" open question: this makes the schedule a
	// configuration input rather than a hardcoded assumption about
	// child ordering.
	ActionPenalties []float64

	// CSVLogger is optional; DebugLogging with a nil CSVLogger disables
	// logging silently.
	CSVLogger *CSVLogger

	// Store is optional; when set, one EpochSnapshot is appended to it
	// per epoch, in addition to the mandatory Q-table persistence.
	Store EpochHistoryStore

	// PersistPath overrides the derived Q-table file name, mainly for
	// tests. If empty, qTableFileName(CacheName, FallbackName) is used.
	PersistPath string

	// Rand supplies the exploration coin flips and uniform draws used by
	// the epsilon-greedy policy. If nil, a time-seeded source is used.
	// Tests that need reproducible exploration decisions should inject
	// their own.
	Rand *rand.Rand
}

// EpochHistoryStore is the optional collaborator that records one
// EpochSnapshot per epoch for offline analysis. The view returned by
// store.EpochHistoryStore.ForController (SQLite-backed) implements it;
// nil is always a valid value.
type EpochHistoryStore interface {
	Append(snap EpochSnapshot)
}

// defaultActionPenalties builds the default penalty schedule for
// numActions bandit indices: mild, increasing penalties on the first
// few non-OFF actions, with the OFF slot always at 0.
func defaultActionPenalties(numActions int) []float64 {
	penalties := make([]float64, numActions)

	// The last slot is always OFF and must stay at 0; only child slots
	// before it get a nonzero default.
	numChildren := numActions - 1

	if numChildren >= 2 {
		penalties[1] = 0.02
	}

	if numChildren >= 3 {
		penalties[2] = 0.03
	}

	return penalties
}

// normalizeActionPenalties validates or defaults p for numActions
// bandit indices, warning and falling back to the default schedule if p
// has the wrong length or a nonzero OFF entry.
func normalizeActionPenalties(p []float64, numActions int) []float64 {
	if p == nil {
		return defaultActionPenalties(numActions)
	}

	if len(p) != numActions || p[numActions-1] != 0 {
		log.Printf("prefetch: action penalties %v invalid for %d actions, using default",
			p, numActions)
		return defaultActionPenalties(numActions)
	}

	out := make([]float64, numActions)
	copy(out, p)

	return out
}
