package league

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Unassigned is the membership bucket for teams with no division or a
// division name the league no longer knows about.
const Unassigned = "<Not Assigned>"

var (
	// ErrNotFound is returned when a team or division name is unknown.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when creating a team whose name is taken.
	ErrExists = errors.New("already exists")
	// ErrInvalidState is returned when an operation's preconditions on the
	// league as a whole are not met.
	ErrInvalidState = errors.New("invalid state")
)

// Team is a fantasy team. Division holds a division name, or "" when the
// team has not been assigned.
type Team struct {
	Name     string
	Owner    string
	Division string
}

// League holds teams keyed by name and a set of division names.
// Teams enumerate in creation order.
type League struct {
	name      string
	teams     map[string]*Team
	order     []string
	divisions map[string]struct{}
}

// New returns an empty league.
func New(name string) *League {
	return &League{
		name:      name,
		teams:     make(map[string]*Team),
		divisions: make(map[string]struct{}),
	}
}

func (l *League) Name() string { return l.name }

func (l *League) SetName(name string) { l.name = name }

// CreateTeam adds a team with no owner and no division.
func (l *League) CreateTeam(name string) (*Team, error) {
	if _, ok := l.teams[name]; ok {
		return nil, fmt.Errorf("team %q: %w", name, ErrExists)
	}
	t := &Team{Name: name}
	l.teams[name] = t
	l.order = append(l.order, name)
	return t, nil
}

// RemoveTeam deletes a team from the league.
func (l *League) RemoveTeam(name string) error {
	if _, ok := l.teams[name]; !ok {
		return fmt.Errorf("team %q: %w", name, ErrNotFound)
	}
	delete(l.teams, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// Team looks up a team by name.
func (l *League) Team(name string) (*Team, error) {
	t, ok := l.teams[name]
	if !ok {
		return nil, fmt.Errorf("team %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// Teams returns every team in enumeration order.
func (l *League) Teams() []*Team {
	teams := make([]*Team, 0, len(l.order))
	for _, name := range l.order {
		teams = append(teams, l.teams[name])
	}
	return teams
}

// TeamNames returns every team name in enumeration order.
func (l *League) TeamNames() []string {
	names := make([]string, len(l.order))
	copy(names, l.order)
	return names
}

func (l *League) SetOwner(team, owner string) error {
	t, err := l.Team(team)
	if err != nil {
		return err
	}
	t.Owner = owner
	return nil
}

// AddDivision adds a division name. Adding a known name is a no-op.
func (l *League) AddDivision(name string) {
	l.divisions[name] = struct{}{}
}

// RemoveDivision drops a division name. Teams still carrying the name are
// left alone and show up as unassigned in Membership.
func (l *League) RemoveDivision(name string) error {
	if _, ok := l.divisions[name]; !ok {
		return fmt.Errorf("division %q: %w", name, ErrNotFound)
	}
	delete(l.divisions, name)
	return nil
}

// HasDivision reports whether name is one of the league's divisions.
func (l *League) HasDivision(name string) bool {
	_, ok := l.divisions[name]
	return ok
}

// Divisions returns the division names in sorted order.
func (l *League) Divisions() []string {
	names := make([]string, 0, len(l.divisions))
	for d := range l.divisions {
		names = append(names, d)
	}
	sort.Strings(names)
	return names
}

// AssignTeamToDivision sets a team's division after checking both exist.
func (l *League) AssignTeamToDivision(team, division string) error {
	t, err := l.Team(team)
	if err != nil {
		return err
	}
	if !l.HasDivision(division) {
		return fmt.Errorf("division %q: %w", division, ErrNotFound)
	}
	t.Division = division
	return nil
}

// DivisionOf returns the division a team belongs to, or Unassigned.
func (l *League) DivisionOf(team string) (string, error) {
	t, err := l.Team(team)
	if err != nil {
		return "", err
	}
	if !l.HasDivision(t.Division) {
		return Unassigned, nil
	}
	return t.Division, nil
}

// Membership groups team names by division. Every known division is present,
// possibly empty. Teams without a known division land under Unassigned, which
// only appears when it has members.
func (l *League) Membership() map[string][]string {
	m := make(map[string][]string, len(l.divisions))
	for d := range l.divisions {
		m[d] = []string{}
	}
	for _, name := range l.order {
		t := l.teams[name]
		if l.HasDivision(t.Division) {
			m[t.Division] = append(m[t.Division], name)
			continue
		}
		m[Unassigned] = append(m[Unassigned], name)
	}
	return m
}

// SortedDivisionNames returns the keys of a membership map ordered
// case-insensitively, for display.
func SortedDivisionNames(membership map[string][]string) []string {
	names := make([]string, 0, len(membership))
	for d := range membership {
		names = append(names, d)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
	return names
}
