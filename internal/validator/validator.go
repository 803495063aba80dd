package validator

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/ffl/internal/excel"
	"github.com/derekprior/ffl/internal/league"
	"github.com/derekprior/ffl/internal/strategy"
)

// Violation represents a rule broken by a schedule workbook.
type Violation struct {
	Row     int    // sheet row, 0 when the violation is not tied to one
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a schedule workbook and checks it against the pairing rules.
// A nil rotation means the default rotation for the league shape found in the
// divisions sheet.
func Validate(path string, rotation strategy.Rotation) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := excel.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	members, err := excel.ReadMembers(f)
	if err != nil {
		return nil, fmt.Errorf("reading divisions: %w", err)
	}

	if rotation == nil {
		rotation, err = strategy.Get(strategy.Default, len(members), countDivisions(members))
		if err != nil {
			return nil, fmt.Errorf("building rotation: %w", err)
		}
	}

	division := make(map[string]string, len(members))
	teams := make([]string, 0, len(members))
	for _, m := range members {
		division[m.Team] = m.Division
		teams = append(teams, m.Team)
	}

	var violations []Violation

	// Errors
	violations = append(violations, checkTeams(rows, division)...)
	violations = append(violations, checkOncePerWeek(rows)...)
	violations = append(violations, checkWeekKinds(rows, division, rotation)...)
	violations = append(violations, checkCaps(rows, rotation)...)

	// Warnings
	violations = append(violations, checkInfeasible(rows)...)
	violations = append(violations, checkHomeAway(rows, teams)...)

	return violations, nil
}

func countDivisions(members []excel.Member) int {
	seen := make(map[string]bool)
	for _, m := range members {
		if m.Division != league.Unassigned {
			seen[m.Division] = true
		}
	}
	return len(seen)
}

func games(rows []excel.Row) []excel.Row {
	var out []excel.Row
	for _, r := range rows {
		if !r.Infeasible {
			out = append(out, r)
		}
	}
	return out
}

func checkTeams(rows []excel.Row, division map[string]string) []Violation {
	var violations []Violation
	for _, r := range games(rows) {
		if r.Home == r.Away {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("%s plays itself in week %d", r.Home, r.Week),
			})
		}
		for _, team := range []string{r.Away, r.Home} {
			if _, ok := division[team]; !ok {
				violations = append(violations, Violation{
					Row:     r.Row,
					Type:    "error",
					Message: fmt.Sprintf("unknown team %q in week %d", team, r.Week),
				})
			}
		}
	}
	return violations
}

func checkOncePerWeek(rows []excel.Row) []Violation {
	type teamWeek struct {
		team string
		week int
	}
	firstRow := make(map[teamWeek]int)

	var violations []Violation
	for _, r := range games(rows) {
		teams := []string{r.Away, r.Home}
		if r.Away == r.Home {
			teams = teams[:1]
		}
		for _, team := range teams {
			key := teamWeek{team, r.Week}
			if first, ok := firstRow[key]; ok {
				violations = append(violations, Violation{
					Row:     r.Row,
					Type:    "error",
					Message: fmt.Sprintf("%s plays twice in week %d (rows %d and %d)", team, r.Week, first, r.Row),
				})
				continue
			}
			firstRow[key] = r.Row
		}
	}
	return violations
}

func checkWeekKinds(rows []excel.Row, division map[string]string, rotation strategy.Rotation) []Violation {
	var violations []Violation
	reported := make(map[int]bool)
	for _, r := range rows {
		want := rotation.Kind(r.Week)
		if r.Kind != want && !reported[r.Week] {
			reported[r.Week] = true
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("week %d is marked %s but should be %s", r.Week, r.Kind, want),
			})
		}
		if r.Infeasible || r.Home == r.Away {
			continue
		}

		homeDiv, ok1 := division[r.Home]
		awayDiv, ok2 := division[r.Away]
		if !ok1 || !ok2 {
			continue
		}
		switch {
		case want == strategy.Divisional && homeDiv != awayDiv:
			violations = append(violations, Violation{
				Row:  r.Row,
				Type: "error",
				Message: fmt.Sprintf("week %d is divisional but %s (%s) and %s (%s) are in different divisions",
					r.Week, r.Away, awayDiv, r.Home, homeDiv),
			})
		case want == strategy.Interdivisional && homeDiv == awayDiv:
			violations = append(violations, Violation{
				Row:  r.Row,
				Type: "error",
				Message: fmt.Sprintf("week %d is interdivisional but %s and %s are both in %s",
					r.Week, r.Away, r.Home, homeDiv),
			})
		}
	}
	return violations
}

func checkCaps(rows []excel.Row, rotation strategy.Rotation) []Violation {
	type pair struct{ a, b string }

	played := games(rows)
	sort.SliceStable(played, func(i, j int) bool { return played[i].Week < played[j].Week })

	counts := make(map[pair]int)
	var violations []Violation
	for _, r := range played {
		if r.Home == r.Away {
			continue
		}
		p := pair{r.Home, r.Away}
		if p.a > p.b {
			p.a, p.b = p.b, p.a
		}
		counts[p]++
		if limit := rotation.Cap(r.Week); counts[p] > limit {
			violations = append(violations, Violation{
				Row:  r.Row,
				Type: "error",
				Message: fmt.Sprintf("%s and %s have met %d times by week %d (max %d)",
					p.a, p.b, counts[p], r.Week, limit),
			})
		}
	}
	return violations
}

func checkInfeasible(rows []excel.Row) []Violation {
	var violations []Violation
	for _, r := range rows {
		if r.Infeasible {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "warning",
				Message: fmt.Sprintf("week %d has no valid schedule", r.Week),
			})
		}
	}
	return violations
}

func checkHomeAway(rows []excel.Row, teams []string) []Violation {
	home := make(map[string]int)
	away := make(map[string]int)
	for _, r := range games(rows) {
		home[r.Home]++
		away[r.Away]++
	}

	var violations []Violation
	for _, team := range teams {
		diff := home[team] - away[team]
		if diff < 0 {
			diff = -diff
		}
		if diff > 2 {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("%s has %d home and %d away games", team, home[team], away[team]),
			})
		}
	}
	return violations
}
