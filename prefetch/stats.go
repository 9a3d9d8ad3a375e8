package prefetch

// ChildStats accumulates the per-child prefetch attribution counters
// spec.md §4.5 describes: how many prefetches were issued (first-time
// insertions), how many turned out useful (credited on a later demand
// hit), and how many were redundant (candidates for an address already
// tracked).
type ChildStats struct {
	Issued    uint64
	Useful    uint64
	Redundant uint64
}

// StatRegistry holds the Controller's statistics: per-epoch action
// usage (one counter per bandit index, sized to numActions instead of
// the teacher's hardcoded four slots) and cumulative per-child
// issued/useful/redundant counts.
type StatRegistry struct {
	ActionUse []uint64
	Children  []ChildStats
}

// NewStatRegistry allocates counters for numActions bandit indices and
// numChildren candidate prefetchers.
func NewStatRegistry(numActions, numChildren int) *StatRegistry {
	return &StatRegistry{
		ActionUse: make([]uint64, numActions),
		Children:  make([]ChildStats, numChildren),
	}
}

// RecordActionUse increments the usage counter for the given bandit
// index.
func (s *StatRegistry) RecordActionUse(banditIdx int) {
	s.ActionUse[banditIdx]++
}

// RecordIssued increments the issued counter for childIndex, if it is a
// valid child slot (OFF has no per-child counters).
func (s *StatRegistry) RecordIssued(childIndex int) {
	if childIndex >= 0 && childIndex < len(s.Children) {
		s.Children[childIndex].Issued++
	}
}

// RecordRedundant increments the redundant counter for childIndex.
func (s *StatRegistry) RecordRedundant(childIndex int) {
	if childIndex >= 0 && childIndex < len(s.Children) {
		s.Children[childIndex].Redundant++
	}
}

// RecordUseful increments the useful counter for childIndex.
func (s *StatRegistry) RecordUseful(childIndex int) {
	if childIndex >= 0 && childIndex < len(s.Children) {
		s.Children[childIndex].Useful++
	}
}

// EpochsElapsed returns the sum of every action-use counter, which must
// equal the number of epochs that have completed (spec.md §8).
func (s *StatRegistry) EpochsElapsed() uint64 {
	var total uint64
	for _, v := range s.ActionUse {
		total += v
	}

	return total
}
