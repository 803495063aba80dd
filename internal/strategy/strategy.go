package strategy

import "fmt"

// Kind says which pool a week draws opponents from.
type Kind int

const (
	Divisional Kind = iota
	Interdivisional
)

func (k Kind) String() string {
	switch k {
	case Divisional:
		return "Divisional"
	case Interdivisional:
		return "Interdivisional"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Divisional":
		return Divisional, nil
	case "Interdivisional":
		return Interdivisional, nil
	default:
		return 0, fmt.Errorf("unknown week kind: %q", s)
	}
}

// Rotation decides, for each 1-based week of a season, whether the week is
// divisional and how many times any pair may have met by the end of it.
type Rotation interface {
	Kind(week int) Kind
	Cap(week int) int
}

// Default is the rotation used when none is configured.
const Default = "division_cycle"

// Get returns a Rotation by name for a league of the given shape.
func Get(name string, teams, divisions int) (Rotation, error) {
	switch name {
	case "", Default:
		return NewDivisionCycle(teams, divisions)
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

// DivisionCycle repeats a round-robin period of teams-1 weeks. The first
// divisionSize-1 weeks of every period are divisional, the rest
// interdivisional. The cap starts at 1 and grows by one every `teams` weeks.
type DivisionCycle struct {
	Teams        int
	DivisionSize int
}

func NewDivisionCycle(teams, divisions int) (*DivisionCycle, error) {
	if teams < 2 {
		return nil, fmt.Errorf("division cycle needs at least 2 teams, got %d", teams)
	}
	if divisions < 1 {
		return nil, fmt.Errorf("division cycle needs at least 1 division, got %d", divisions)
	}
	return &DivisionCycle{Teams: teams, DivisionSize: teams / divisions}, nil
}

// Position returns the week's 1-based position inside its period.
func (c *DivisionCycle) Position(week int) int {
	period := c.Teams - 1
	return (week-1)%period + 1
}

func (c *DivisionCycle) Kind(week int) Kind {
	if p := c.Position(week); p > 0 && p < c.DivisionSize {
		return Divisional
	}
	return Interdivisional
}

func (c *DivisionCycle) Cap(week int) int {
	return week/c.Teams + 1
}
