package schedule

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// interdivisionalMatchups searches for a perfect matching of all teams in
// which every pair crosses divisions and is still under limit.
func (s *scheduler) interdivisionalMatchups(limit int, log logrus.FieldLogger) ([]pairing, bool) {
	m := &matcher{
		teams:    s.teams,
		division: s.division,
		freq:     s.freq,
		rng:      s.rng,
		limit:    limit,
		budget:   s.budget,
		log:      log,
	}
	pairs, ok := m.match(make([]bool, len(s.teams)), 0)
	log.WithFields(logrus.Fields{
		"steps":     m.steps,
		"exhausted": m.exhausted,
	}).Debug("interdivisional search finished")
	return pairs, ok
}

// matcher is a depth-first search over one week. Each level matches the
// first unused team; an opponent whose subtree fails goes into that level's
// ignore set and the level retries with the used set it started from.
type matcher struct {
	teams    []string
	division map[string]string
	freq     *Frequencies
	rng      *rand.Rand
	limit    int
	log      logrus.FieldLogger

	budget    int
	steps     int
	exhausted bool
}

type candidate struct {
	index int
	pairing
}

func (m *matcher) match(used []bool, depth int) ([]pairing, bool) {
	current := -1
	for i, u := range used {
		if !u {
			current = i
			break
		}
	}
	if current < 0 {
		return []pairing{}, true
	}

	ignore := make(map[int]bool)
	for {
		if m.budget > 0 && m.steps >= m.budget {
			m.exhausted = true
			return nil, false
		}
		m.steps++

		candidates := m.candidates(current, used, ignore)
		if len(candidates) == 0 {
			m.log.WithFields(logrus.Fields{
				"team":    m.teams[current],
				"depth":   depth,
				"ignored": len(ignore),
			}).Trace("dead end")
			return nil, false
		}

		c := candidates[m.rng.Intn(len(candidates))]
		next := make([]bool, len(used))
		copy(next, used)
		next[current] = true
		next[c.index] = true

		rest, ok := m.match(next, depth+1)
		if ok {
			return append([]pairing{c.pairing}, rest...), true
		}
		ignore[c.index] = true
	}
}

func (m *matcher) candidates(current int, used []bool, ignore map[int]bool) []candidate {
	team := m.teams[current]
	var out []candidate
	for i, opp := range m.teams {
		if i == current || used[i] || ignore[i] {
			continue
		}
		if m.division[opp] == m.division[team] {
			continue
		}
		side, ok := m.freq.eligible(team, opp, m.limit)
		if !ok {
			continue
		}
		out = append(out, candidate{index: i, pairing: pairing{team: team, opponent: opp, side: side}})
	}
	return out
}
