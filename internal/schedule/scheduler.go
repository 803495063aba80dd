package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/derekprior/ffl/internal/league"
	"github.com/derekprior/ffl/internal/strategy"
)

// ErrUnmatchedTeam is returned in strict mode when a divisional week leaves a
// team without an eligible opponent.
var ErrUnmatchedTeam = errors.New("no eligible opponent")

// DefaultSeed seeds the random source when Options.Rand is nil.
const DefaultSeed = 42

// DefaultBudget is the per-week step limit used when Options.Budget is zero.
const DefaultBudget = 1000000

// Matchup is a single game. Scores are filled in by whoever records results.
type Matchup struct {
	Home      string
	Away      string
	HomeScore *float64
	AwayScore *float64
}

func (m Matchup) String() string {
	return m.Away + " at " + m.Home
}

// Week is one round of a season. An infeasible week has no matchups because
// no complete legal pairing was found; that is distinct from an empty week.
type Week struct {
	Number     int
	Kind       strategy.Kind
	Cap        int
	Date       time.Time // zero when the season has no calendar
	Matchups   []Matchup
	Infeasible bool
}

// Schedule is the output of Generate.
type Schedule struct {
	League string
	Weeks  []Week
}

// InfeasibleWeeks returns the numbers of the weeks that could not be paired.
func (s *Schedule) InfeasibleWeeks() []int {
	var weeks []int
	for _, w := range s.Weeks {
		if w.Infeasible {
			weeks = append(weeks, w.Number)
		}
	}
	return weeks
}

// Options tunes Generate. The zero value is usable.
type Options struct {
	// Rand drives every random choice. Defaults to a source seeded with
	// DefaultSeed.
	Rand *rand.Rand
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// Rotation decides week kinds and caps. Defaults to the division cycle.
	Rotation strategy.Rotation
	// Budget bounds the interdivisional search to this many steps per week.
	// Zero means DefaultBudget and a negative value means unlimited. The
	// search is exhaustive, so an unlimited budget can take exponential time
	// on large leagues with few eligible opponents left.
	Budget int
	// StrictDivisional turns a divisional dead end into ErrUnmatchedTeam
	// instead of an infeasible week.
	StrictDivisional bool
	// Calendar dates each week when Start is set.
	Calendar Calendar
}

// Generate builds a season of the given number of weeks for a league whose
// teams are all assigned to divisions.
func Generate(lg *league.League, weeks int, opts Options) (*Schedule, error) {
	s, err := newScheduler(lg, opts)
	if err != nil {
		return nil, err
	}
	if weeks < 1 {
		return nil, fmt.Errorf("generating schedule: week count %d: %w", weeks, league.ErrInvalidState)
	}

	dates := opts.Calendar.Dates(weeks)
	sched := &Schedule{League: lg.Name(), Weeks: make([]Week, 0, weeks)}
	for w := 1; w <= weeks; w++ {
		week, err := s.week(w)
		if err != nil {
			return nil, err
		}
		if dates != nil {
			week.Date = dates[w-1]
		}
		sched.Weeks = append(sched.Weeks, week)
	}

	s.log.WithFields(logrus.Fields{
		"weeks":      weeks,
		"infeasible": len(sched.InfeasibleWeeks()),
	}).Info("schedule generated")
	return sched, nil
}

type scheduler struct {
	teams     []string
	divisions []string
	members   map[string][]string
	division  map[string]string

	freq     *Frequencies
	rng      *rand.Rand
	log      logrus.FieldLogger
	rotation strategy.Rotation
	budget   int
	strict   bool
}

func newScheduler(lg *league.League, opts Options) (*scheduler, error) {
	teams := lg.TeamNames()
	if len(teams) == 0 {
		return nil, fmt.Errorf("generating schedule: league has no teams: %w", league.ErrInvalidState)
	}
	if len(teams)%2 != 0 {
		return nil, fmt.Errorf("generating schedule: %d teams cannot be paired: %w", len(teams), league.ErrInvalidState)
	}
	divisions := lg.Divisions()
	if len(divisions) == 0 {
		return nil, fmt.Errorf("generating schedule: league has no divisions: %w", league.ErrInvalidState)
	}

	members := lg.Membership()
	if unassigned := members[league.Unassigned]; len(unassigned) > 0 {
		return nil, fmt.Errorf("generating schedule: teams without a division: %v: %w", unassigned, league.ErrInvalidState)
	}
	division := make(map[string]string, len(teams))
	for d, names := range members {
		for _, n := range names {
			division[n] = d
		}
	}

	s := &scheduler{
		teams:     teams,
		divisions: divisions,
		members:   members,
		division:  division,
		freq:      NewFrequencies(teams),
		rng:       opts.Rand,
		log:       opts.Logger,
		rotation:  opts.Rotation,
		budget:    opts.Budget,
		strict:    opts.StrictDivisional,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(DefaultSeed))
	}
	if s.budget == 0 {
		s.budget = DefaultBudget
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.rotation == nil {
		r, err := strategy.NewDivisionCycle(len(teams), len(divisions))
		if err != nil {
			return nil, fmt.Errorf("generating schedule: %w", err)
		}
		s.rotation = r
	}
	return s, nil
}

// pairing is a tentative matchup seen from the team that chose it.
type pairing struct {
	team     string
	opponent string
	side     Side
}

func (p pairing) matchup() Matchup {
	if p.side == Home {
		return Matchup{Home: p.team, Away: p.opponent}
	}
	return Matchup{Home: p.opponent, Away: p.team}
}

func (s *scheduler) week(number int) (Week, error) {
	week := Week{
		Number: number,
		Kind:   s.rotation.Kind(number),
		Cap:    s.rotation.Cap(number),
	}
	log := s.log.WithFields(logrus.Fields{
		"week": number,
		"kind": week.Kind,
		"cap":  week.Cap,
	})

	var (
		pairs []pairing
		ok    bool
	)
	switch week.Kind {
	case strategy.Divisional:
		var err error
		pairs, ok, err = s.divisionalMatchups(number, week.Cap)
		if err != nil {
			return Week{}, err
		}
	default:
		pairs, ok = s.interdivisionalMatchups(week.Cap, log)
	}

	if !ok {
		week.Infeasible = true
		log.Warn("no complete pairing found")
		return week, nil
	}

	// Pairs never repeat within a week, so recording them only once the week
	// is complete sees the same counts the search did.
	week.Matchups = make([]Matchup, 0, len(pairs))
	for _, p := range pairs {
		m := p.matchup()
		s.freq.Record(m.Home, m.Away)
		week.Matchups = append(week.Matchups, m)
	}
	log.WithField("matchups", len(week.Matchups)).Debug("week scheduled")
	return week, nil
}
