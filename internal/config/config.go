package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/derekprior/ffl/internal/league"
)

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

type ByeDate struct {
	Date   Date   `yaml:"date"`
	Reason string `yaml:"reason"`
}

type Season struct {
	Weeks     int       `yaml:"weeks"`
	StartDate *Date     `yaml:"start_date"`
	ByeDates  []ByeDate `yaml:"bye_dates"`
}

type Team struct {
	Name     string `yaml:"name"`
	Owner    string `yaml:"owner"`
	Division string `yaml:"division"`
}

// Search tunes the matchup search.
type Search struct {
	// Budget caps the steps spent on one interdivisional week. 0 uses the
	// scheduler default and a negative value is unlimited.
	Budget int `yaml:"budget"`
	// StrictDivisional aborts generation when a divisional week dead-ends
	// instead of leaving that week unscheduled.
	StrictDivisional bool `yaml:"strict_divisional"`
}

type Config struct {
	League           string   `yaml:"league"`
	Seed             *int64   `yaml:"seed"`
	Season           Season   `yaml:"season"`
	Divisions        []string `yaml:"divisions"`
	ShuffleDivisions bool     `yaml:"shuffle_divisions"`
	Teams            []Team   `yaml:"teams"`
	Strategy         string   `yaml:"strategy"`
	Search           Search   `yaml:"search"`
}

// AllTeams returns all team names in file order.
func (c *Config) AllTeams() []string {
	teams := make([]string, 0, len(c.Teams))
	for _, t := range c.Teams {
		teams = append(teams, t.Name)
	}
	return teams
}

// StartDate returns the first week's date, or the zero time.
func (c *Config) StartDate() time.Time {
	if c.Season.StartDate == nil {
		return time.Time{}
	}
	return c.Season.StartDate.Time
}

// ByeDates returns the dates on which no week is played.
func (c *Config) ByeDates() []time.Time {
	dates := make([]time.Time, 0, len(c.Season.ByeDates))
	for _, b := range c.Season.ByeDates {
		dates = append(dates, b.Date.Time)
	}
	return dates
}

// NewLeague builds the registry described by the config. Divisions named on
// teams are assigned; balancing is left to the caller.
func (c *Config) NewLeague() (*league.League, error) {
	lg := league.New(c.League)
	for _, d := range c.Divisions {
		lg.AddDivision(d)
	}
	for _, t := range c.Teams {
		if _, err := lg.CreateTeam(t.Name); err != nil {
			return nil, err
		}
		if err := lg.SetOwner(t.Name, t.Owner); err != nil {
			return nil, err
		}
		if t.Division == "" {
			continue
		}
		if err := lg.AssignTeamToDivision(t.Name, t.Division); err != nil {
			return nil, err
		}
	}
	return lg, nil
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if c.League == "" {
		return fmt.Errorf("league name is required")
	}

	if c.Season.Weeks < 1 {
		return fmt.Errorf("season must have at least one week, got %d", c.Season.Weeks)
	}

	if len(c.Divisions) == 0 {
		return fmt.Errorf("at least one division is required")
	}
	divisions := make(map[string]bool)
	for _, d := range c.Divisions {
		if d == "" {
			return fmt.Errorf("division names cannot be empty")
		}
		if divisions[d] {
			return fmt.Errorf("division %q is listed twice", d)
		}
		divisions[d] = true
	}

	if len(c.Teams) == 0 {
		return fmt.Errorf("at least one team is required")
	}
	if len(c.Teams)%2 != 0 {
		return fmt.Errorf("an even number of teams is required, got %d", len(c.Teams))
	}

	// Check for duplicate team names and division references
	seen := make(map[string]bool)
	for _, t := range c.Teams {
		if t.Name == "" {
			return fmt.Errorf("team names cannot be empty")
		}
		if seen[t.Name] {
			return fmt.Errorf("team %q is listed twice", t.Name)
		}
		seen[t.Name] = true

		if t.Division != "" && !divisions[t.Division] {
			return fmt.Errorf("team %q: unknown division %q", t.Name, t.Division)
		}
		if t.Division == "" && !c.ShuffleDivisions {
			return fmt.Errorf("team %q has no division; set one or enable shuffle_divisions", t.Name)
		}
	}

	return nil
}
