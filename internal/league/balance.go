package league

import (
	"fmt"
	"math/rand"
)

// ShuffleDivisions randomly reassigns every team to a division so that
// division sizes differ by at most one. Teams are visited in enumeration
// order; each picks uniformly among the divisions that still have room.
func (l *League) ShuffleDivisions(rng *rand.Rand) error {
	divisions := l.Divisions()
	if len(divisions) == 0 {
		return fmt.Errorf("shuffling divisions: no divisions defined: %w", ErrInvalidState)
	}

	teams := l.Teams()
	capacity := len(teams) / len(divisions)
	largeRemaining := len(teams) % len(divisions)
	if largeRemaining > 0 {
		capacity++
	}

	open := make([]string, len(divisions))
	copy(open, divisions)
	sizes := make(map[string]int, len(divisions))

	for _, t := range teams {
		i := rng.Intn(len(open))
		d := open[i]
		t.Division = d
		sizes[d]++

		if sizes[d] < capacity {
			continue
		}
		// Division is full; it leaves the pool.
		open = append(open[:i], open[i+1:]...)
		if largeRemaining > 0 {
			largeRemaining--
			if largeRemaining == 0 {
				capacity--
				open = withRoom(open, sizes, capacity)
			}
		}
	}
	return nil
}

// withRoom drops divisions that are already at capacity.
func withRoom(open []string, sizes map[string]int, capacity int) []string {
	kept := open[:0]
	for _, d := range open {
		if sizes[d] < capacity {
			kept = append(kept, d)
		}
	}
	return kept
}
