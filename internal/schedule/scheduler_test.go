package schedule

import (
	"io"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekprior/ffl/internal/league"
	"github.com/derekprior/ffl/internal/strategy"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// testLeague builds a league from division -> members, creating teams in the
// order given.
func testLeague(t *testing.T, divisions []string, members map[string][]string) *league.League {
	t.Helper()
	lg := league.New("Test League")
	for _, d := range divisions {
		lg.AddDivision(d)
		for _, name := range members[d] {
			_, err := lg.CreateTeam(name)
			require.NoError(t, err)
			require.NoError(t, lg.AssignTeamToDivision(name, d))
		}
	}
	return lg
}

func twelveTeamLeague(t *testing.T) *league.League {
	return testLeague(t, []string{"Beer", "Cheese", "Sausage"}, map[string][]string{
		"Beer":    {"Training Camp Hookie", "T-bone Chicken", "Dark Helmet", "Wish Sandwiches"},
		"Cheese":  {"Flaming Moes", "Jello Puddin' Pops", "The Schlubs", "Kentucky Clears"},
		"Sausage": {"Mother of Dragons", "Demaryius Targaryen", "Winter is Coming", "King in the North"},
	})
}

func options(seed int64) Options {
	return Options{Rand: rand.New(rand.NewSource(seed)), Logger: quietLogger()}
}

func TestGenerateTwelveTeams(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		lg := twelveTeamLeague(t)
		sched, err := Generate(lg, 14, options(seed))
		require.NoError(t, err)
		require.Len(t, sched.Weeks, 14)
		assert.Equal(t, "Test League", sched.League)

		division := make(map[string]string)
		for _, team := range lg.Teams() {
			division[team.Name] = team.Division
		}
		type pair struct{ a, b string }
		met := make(map[pair]int)

		for i, week := range sched.Weeks {
			number := i + 1
			assert.Equal(t, number, week.Number)

			wantKind := strategy.Interdivisional
			if pos := (number-1)%11 + 1; pos <= 3 {
				wantKind = strategy.Divisional
			}
			assert.Equal(t, wantKind, week.Kind, "seed %d week %d", seed, number)

			wantCap := 1
			if number >= 12 {
				wantCap = 2
			}
			assert.Equal(t, wantCap, week.Cap, "seed %d week %d", seed, number)

			if week.Infeasible {
				assert.Empty(t, week.Matchups, "seed %d week %d", seed, number)
				continue
			}
			require.Len(t, week.Matchups, 6, "seed %d week %d", seed, number)

			seen := make(map[string]bool)
			for _, m := range week.Matchups {
				assert.NotEqual(t, m.Home, m.Away)
				assert.False(t, seen[m.Home], "seed %d week %d: %s plays twice", seed, number, m.Home)
				assert.False(t, seen[m.Away], "seed %d week %d: %s plays twice", seed, number, m.Away)
				seen[m.Home], seen[m.Away] = true, true
				assert.Nil(t, m.HomeScore)
				assert.Nil(t, m.AwayScore)

				if week.Kind == strategy.Divisional {
					assert.Equal(t, division[m.Home], division[m.Away], "seed %d week %d: %s", seed, number, m)
				} else {
					assert.NotEqual(t, division[m.Home], division[m.Away], "seed %d week %d: %s", seed, number, m)
				}

				a, b := m.Home, m.Away
				if a > b {
					a, b = b, a
				}
				met[pair{a, b}]++
				assert.LessOrEqual(t, met[pair{a, b}], week.Cap, "seed %d week %d: %s", seed, number, m)
			}
		}

		for _, number := range []int{1, 2, 3, 4, 12, 13, 14} {
			assert.False(t, sched.Weeks[number-1].Infeasible, "seed %d week %d", seed, number)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(twelveTeamLeague(t), 14, options(99))
	require.NoError(t, err)
	b, err := Generate(twelveTeamLeague(t), 14, options(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateTwoTeams(t *testing.T) {
	lg := testLeague(t, []string{"Only"}, map[string][]string{"Only": {"A", "B"}})

	t.Run("cap grows every two weeks", func(t *testing.T) {
		sched, err := Generate(lg, 6, options(1))
		require.NoError(t, err)

		for _, w := range sched.Weeks {
			assert.Equal(t, strategy.Divisional, w.Kind, "week %d", w.Number)
		}
		assert.Equal(t, []int{3, 5}, sched.InfeasibleWeeks())

		want := map[int]Matchup{
			1: {Home: "A", Away: "B"},
			2: {Home: "B", Away: "A"},
			4: {Home: "A", Away: "B"},
			6: {Home: "B", Away: "A"},
		}
		for number, m := range want {
			require.Len(t, sched.Weeks[number-1].Matchups, 1, "week %d", number)
			assert.Equal(t, m, sched.Weeks[number-1].Matchups[0], "week %d", number)
		}
	})

	t.Run("strict mode fails on a dead end", func(t *testing.T) {
		opts := options(1)
		opts.StrictDivisional = true
		_, err := Generate(lg, 3, opts)
		assert.ErrorIs(t, err, ErrUnmatchedTeam)
	})
}

func TestGeneratePreconditions(t *testing.T) {
	t.Run("zero weeks", func(t *testing.T) {
		_, err := Generate(twelveTeamLeague(t), 0, options(1))
		assert.ErrorIs(t, err, league.ErrInvalidState)
	})

	t.Run("odd team count", func(t *testing.T) {
		lg := testLeague(t, []string{"X"}, map[string][]string{"X": {"A", "B", "C"}})
		_, err := Generate(lg, 1, options(1))
		assert.ErrorIs(t, err, league.ErrInvalidState)
	})

	t.Run("no teams", func(t *testing.T) {
		lg := league.New("Empty")
		lg.AddDivision("X")
		_, err := Generate(lg, 1, options(1))
		assert.ErrorIs(t, err, league.ErrInvalidState)
	})

	t.Run("no divisions", func(t *testing.T) {
		lg := league.New("Flat")
		for _, n := range []string{"A", "B"} {
			_, err := lg.CreateTeam(n)
			require.NoError(t, err)
		}
		_, err := Generate(lg, 1, options(1))
		assert.ErrorIs(t, err, league.ErrInvalidState)
	})

	t.Run("unassigned team", func(t *testing.T) {
		lg := testLeague(t, []string{"X"}, map[string][]string{"X": {"A"}})
		_, err := lg.CreateTeam("B")
		require.NoError(t, err)
		_, err = Generate(lg, 1, options(1))
		assert.ErrorIs(t, err, league.ErrInvalidState)
	})
}

func TestGenerateCalendar(t *testing.T) {
	opts := options(3)
	opts.Calendar = Calendar{Start: day(2026, 9, 10)}
	sched, err := Generate(twelveTeamLeague(t), 3, opts)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 9, 10), sched.Weeks[0].Date)
	assert.Equal(t, day(2026, 9, 24), sched.Weeks[2].Date)
}

func TestDivisionalDeadEnd(t *testing.T) {
	// Five-team divisions always leave somebody out.
	lg := testLeague(t, []string{"East", "West"}, map[string][]string{
		"East": {"A", "B", "C", "D", "E"},
		"West": {"F", "G", "H", "I", "J"},
	})
	s, err := newScheduler(lg, options(1))
	require.NoError(t, err)

	pairs, ok, err := s.divisionalMatchups(1, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, pairs)

	week, err := s.week(1)
	require.NoError(t, err)
	assert.True(t, week.Infeasible)
	assert.Empty(t, week.Matchups)
	for _, a := range s.teams {
		for _, b := range s.teams {
			assert.Zero(t, s.freq.Count(a, b))
		}
	}
}

func TestInterdivisionalAllAtCap(t *testing.T) {
	lg := testLeague(t, []string{"X", "Y"}, map[string][]string{
		"X": {"A", "B"},
		"Y": {"C", "D"},
	})
	s, err := newScheduler(lg, options(1))
	require.NoError(t, err)
	for _, p := range [][2]string{{"A", "C"}, {"D", "A"}, {"B", "C"}, {"B", "D"}} {
		s.freq.Record(p[0], p[1])
	}

	pairs, ok := s.interdivisionalMatchups(1, quietLogger())
	assert.False(t, ok)
	assert.Nil(t, pairs)

	week, err := s.week(2)
	require.NoError(t, err)
	assert.Equal(t, strategy.Interdivisional, week.Kind)
	assert.True(t, week.Infeasible)
	assert.Empty(t, week.Matchups)
	assert.Equal(t, 1, s.freq.Count("A", "C"))
}

// backtrackLeague has two cross-division matchings left, both of which
// require A to meet C. Choosing A-D first forces a retry.
func backtrackLeague(t *testing.T, opts Options) *scheduler {
	lg := testLeague(t, []string{"X", "Y", "Z"}, map[string][]string{
		"X": {"A", "B"},
		"Y": {"C", "D"},
		"Z": {"E", "F"},
	})
	s, err := newScheduler(lg, opts)
	require.NoError(t, err)
	for _, p := range [][2]string{{"A", "E"}, {"A", "F"}, {"C", "E"}, {"C", "F"}} {
		s.freq.Record(p[0], p[1])
	}
	return s
}

func TestInterdivisionalBacktracks(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		s := backtrackLeague(t, options(seed))
		pairs, ok := s.interdivisionalMatchups(1, quietLogger())
		require.True(t, ok, "seed %d", seed)
		require.Len(t, pairs, 3)

		partner := make(map[string]string)
		for _, p := range pairs {
			partner[p.team] = p.opponent
			partner[p.opponent] = p.team
		}
		assert.Equal(t, "C", partner["A"], "seed %d", seed)
		assert.Contains(t, []string{"B", "D"}, partner["E"], "seed %d", seed)
		assert.Contains(t, []string{"B", "D"}, partner["F"], "seed %d", seed)
	}
}

func TestInterdivisionalBudget(t *testing.T) {
	opts := options(1)
	opts.Budget = 1
	s := backtrackLeague(t, opts)

	m := &matcher{
		teams:    s.teams,
		division: s.division,
		freq:     s.freq,
		rng:      s.rng,
		limit:    1,
		budget:   s.budget,
		log:      quietLogger(),
	}
	pairs, ok := m.match(make([]bool, len(s.teams)), 0)
	assert.False(t, ok)
	assert.Nil(t, pairs)
	assert.True(t, m.exhausted)
	assert.Equal(t, 1, m.steps)
}

func TestBudgetDefaults(t *testing.T) {
	lg := twelveTeamLeague(t)

	s, err := newScheduler(lg, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, DefaultBudget, s.budget)

	s, err = newScheduler(lg, Options{Logger: quietLogger(), Budget: -1})
	require.NoError(t, err)
	assert.Equal(t, -1, s.budget)

	sched, err := Generate(lg, 14, Options{Rand: rand.New(rand.NewSource(3)), Logger: quietLogger(), Budget: -1})
	require.NoError(t, err)
	assert.Len(t, sched.Weeks, 14)
}

func TestMatchupString(t *testing.T) {
	assert.Equal(t, "Dark Helmet at The Schlubs", Matchup{Home: "The Schlubs", Away: "Dark Helmet"}.String())
}
