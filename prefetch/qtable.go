package prefetch

import "sort"

// QTable maps an observed State to a row of Q-values, one per bandit
// index in [0,K]. Rows are created lazily, on first touch, and are
// always widened to numActions before being handed back to a caller —
// this is invariant 2 from spec.md §3.
type QTable struct {
	rows       map[State][]float64
	numActions int
}

// NewQTable creates an empty table sized for numActions bandit indices.
func NewQTable(numActions int) *QTable {
	return &QTable{
		rows:       make(map[State][]float64),
		numActions: numActions,
	}
}

// Row returns the row for state, creating and/or widening it to
// numActions first if necessary. The returned slice aliases the table's
// storage; callers may mutate it in place.
func (t *QTable) Row(state State) []float64 {
	row, ok := t.rows[state]
	if !ok || len(row) < t.numActions {
		widened := make([]float64, t.numActions)
		copy(widened, row)
		row = widened
		t.rows[state] = row
	}

	return row
}

// Len returns the number of distinct states with a row.
func (t *QTable) Len() int {
	return len(t.rows)
}

// States returns every observed state, sorted ascending. Persistence
// relies on this order to make repeated saves of an unchanged table
// byte-identical.
func (t *QTable) States() []State {
	states := make([]State, 0, len(t.rows))
	for s := range t.rows {
		states = append(states, s)
	}

	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	return states
}
