package schedule

// Side is the role a team takes in a matchup.
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// pairKey is an ordered (team, opponent) pair.
type pairKey struct {
	team, opponent string
}

// Counts is how often a team has hosted and visited one opponent.
type Counts struct {
	Home int
	Away int
}

// Total is the number of meetings regardless of side.
func (c Counts) Total() int { return c.Home + c.Away }

// Frequencies tracks how often each ordered pair of teams has met, split by
// side. For any A and B, Get(A, B).Home == Get(B, A).Away.
type Frequencies struct {
	counts map[pairKey]Counts
}

// NewFrequencies returns a tracker with every ordered pair of distinct teams
// at zero.
func NewFrequencies(teams []string) *Frequencies {
	f := &Frequencies{counts: make(map[pairKey]Counts, len(teams)*len(teams))}
	for _, t := range teams {
		for _, o := range teams {
			if t != o {
				f.counts[pairKey{t, o}] = Counts{}
			}
		}
	}
	return f
}

// Record notes that home hosted away.
func (f *Frequencies) Record(home, away string) {
	h := f.counts[pairKey{home, away}]
	h.Home++
	f.counts[pairKey{home, away}] = h

	a := f.counts[pairKey{away, home}]
	a.Away++
	f.counts[pairKey{away, home}] = a
}

// Get returns the counts for team against opponent.
func (f *Frequencies) Get(team, opponent string) Counts {
	return f.counts[pairKey{team, opponent}]
}

// Count returns the total meetings of team and opponent.
func (f *Frequencies) Count(team, opponent string) int {
	return f.Get(team, opponent).Total()
}

// Side returns the side team should take against opponent: home unless it
// has already hosted more often than it has visited.
func (f *Frequencies) Side(team, opponent string) Side {
	c := f.Get(team, opponent)
	if c.Home <= c.Away {
		return Home
	}
	return Away
}

// eligible reports whether team may meet opponent again under limit, and on
// which side.
func (f *Frequencies) eligible(team, opponent string, limit int) (Side, bool) {
	if f.Count(team, opponent) >= limit {
		return 0, false
	}
	return f.Side(team, opponent), true
}
