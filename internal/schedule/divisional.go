package schedule

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// divisionalMatchups pairs every team with an opponent from its own
// division. Divisions are walked in name order and their members in
// enumeration order; each unmatched team picks uniformly among the pool
// members it may still meet under cap.
//
// When a team is left without an opponent the week is reported as not ok,
// or, in strict mode, as ErrUnmatchedTeam.
func (s *scheduler) divisionalMatchups(week, limit int) ([]pairing, bool, error) {
	var pairs []pairing
	for _, d := range s.divisions {
		pool := make([]string, len(s.members[d]))
		copy(pool, s.members[d])

		for len(pool) > 0 {
			team := pool[0]
			pool = pool[1:]

			var candidates []pairing
			for _, opp := range pool {
				if side, ok := s.freq.eligible(team, opp, limit); ok {
					candidates = append(candidates, pairing{team: team, opponent: opp, side: side})
				}
			}
			if len(candidates) == 0 {
				s.log.WithFields(logrus.Fields{
					"week":     week,
					"team":     team,
					"division": d,
				}).Debug("no divisional opponent left")
				if s.strict {
					return nil, false, fmt.Errorf("week %d: %s (division %s): %w", week, team, d, ErrUnmatchedTeam)
				}
				return nil, false, nil
			}

			p := candidates[s.rng.Intn(len(candidates))]
			pairs = append(pairs, p)
			pool = remove(pool, p.opponent)
		}
	}
	return pairs, true, nil
}

func remove(pool []string, team string) []string {
	for i, t := range pool {
		if t == team {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}
