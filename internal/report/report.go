// Package report renders leagues and schedules as plain text.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/derekprior/ffl/internal/league"
	"github.com/derekprior/ffl/internal/schedule"
)

// Infeasible is printed in place of a week's matchups when none were found.
const Infeasible = "NO VALID SCHEDULE"

// WriteLeague prints the league name and its teams grouped by division.
func WriteLeague(w io.Writer, lg *league.League) error {
	ew := &errWriter{w: w}
	ew.printf("League Name: %s\n", lg.Name())
	ew.printf("Teams and Divisions:\n")

	membership := lg.Membership()
	for _, d := range league.SortedDivisionNames(membership) {
		ew.printf("Division Name: %s\n", d)
		if len(membership[d]) == 0 {
			ew.printf("\t<empty>\n")
			continue
		}
		for _, team := range membership[d] {
			ew.printf("\t%s\n", team)
		}
	}
	return ew.err
}

// WriteSchedule prints each week followed by its "away at home" matchups.
func WriteSchedule(w io.Writer, s *schedule.Schedule) error {
	ew := &errWriter{w: w}
	for _, week := range s.Weeks {
		if week.Date.IsZero() {
			ew.printf("Week %d (%s)\n", week.Number, week.Kind)
		} else {
			ew.printf("Week %d (%s, %s)\n", week.Number, week.Kind, week.Date.Format("01/02/2006"))
		}
		if week.Infeasible {
			ew.printf("\t%s\n", Infeasible)
			continue
		}
		for _, m := range week.Matchups {
			ew.printf("\t%s\n", m)
		}
	}
	return ew.err
}

// Totals is how many games a team plays in a schedule, by side.
type Totals struct {
	Games int
	Home  int
	Away  int
}

// TeamTotals counts each team's games across all scheduled weeks.
func TeamTotals(s *schedule.Schedule) map[string]*Totals {
	totals := make(map[string]*Totals)
	get := func(team string) *Totals {
		t, ok := totals[team]
		if !ok {
			t = &Totals{}
			totals[team] = t
		}
		return t
	}
	for _, week := range s.Weeks {
		for _, m := range week.Matchups {
			h, a := get(m.Home), get(m.Away)
			h.Games++
			h.Home++
			a.Games++
			a.Away++
		}
	}
	return totals
}

// WriteTeamTotals prints a per-team games/home/away table. Teams are listed
// in the order given; teams with no games still get a row.
func WriteTeamTotals(w io.Writer, s *schedule.Schedule, teams []string) error {
	totals := TeamTotals(s)
	if teams == nil {
		for team := range totals {
			teams = append(teams, team)
		}
		sort.Strings(teams)
	}

	width := len("Team")
	for _, team := range teams {
		if len(team) > width {
			width = len(team)
		}
	}

	ew := &errWriter{w: w}
	ew.printf("  %-*s %6s %5s %5s\n", width, "Team", "Games", "Home", "Away")
	for _, team := range teams {
		t := totals[team]
		if t == nil {
			t = &Totals{}
		}
		ew.printf("  %-*s %6d %5d %5d\n", width, team, t.Games, t.Home, t.Away)
	}
	return ew.err
}

// errWriter keeps the first write error so callers check once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
