package prefetch

import "math/rand"

// selectBanditIndex runs one step of epsilon-greedy selection over
// table's row for state, using rng to draw the exploration coin flip
// and the uniform action when exploring. Ties among the highest values
// are broken toward the lowest index, by using a strict "greater than"
// comparison while scanning left to right.
func selectBanditIndex(table *QTable, state State, epsilon float64, rng *rand.Rand) int {
	row := table.Row(state)

	if rng.Float64() < epsilon {
		return rng.Intn(len(row))
	}

	bestIdx := 0
	bestVal := row[0]

	for i := 1; i < len(row); i++ {
		if row[i] > bestVal {
			bestVal = row[i]
			bestIdx = i
		}
	}

	return bestIdx
}
