package excel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/ffl/internal/league"
	"github.com/derekprior/ffl/internal/report"
	"github.com/derekprior/ffl/internal/schedule"
	"github.com/derekprior/ffl/internal/strategy"
)

const (
	ScheduleSheet  = "Schedule"
	DivisionsSheet = "Divisions"

	defaultSheet = "Sheet1"
	maxSheetName = 31
	dateFormat   = "01/02/2006"
)

var scheduleHeaders = []string{"Week", "Date", "Type", "Away", "Home", "Away Score", "Home Score"}

// Row is one line of the schedule sheet: a matchup, or the marker for a week
// that could not be paired.
type Row struct {
	Row        int // 1-based sheet row
	Week       int
	Date       time.Time
	Kind       strategy.Kind
	Away       string
	Home       string
	AwayScore  *float64
	HomeScore  *float64
	Infeasible bool
}

// Member is one line of the divisions sheet.
type Member struct {
	Division string
	Team     string
	Owner    string
}

// Generate creates a workbook with the schedule, the division membership and
// one sheet per team.
func Generate(lg *league.League, s *schedule.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	if err := f.SetDefaultFont("Arial"); err != nil {
		return nil, fmt.Errorf("setting font: %w", err)
	}

	rows := scheduleRows(s)
	if err := writeScheduleSheet(f, rows); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}

	members := membersOf(lg)
	if err := writeDivisionsSheet(f, members); err != nil {
		return nil, fmt.Errorf("writing divisions sheet: %w", err)
	}

	if err := writeTeamSheets(f, teamNames(members), rows); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(ScheduleSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// UpdateTeamSheets rebuilds every team sheet in the workbook at path from its
// schedule sheet, so hand edits to the schedule carry through.
func UpdateTeamSheets(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return err
	}
	members, err := ReadMembers(f)
	if err != nil {
		return err
	}

	teams := teamNames(members)
	sheets := sheetNames(teams)
	for _, team := range teams {
		if err := f.DeleteSheet(sheets[team]); err != nil {
			return fmt.Errorf("removing sheet for %s: %w", team, err)
		}
	}
	if err := writeTeamSheets(f, teams, rows); err != nil {
		return fmt.Errorf("writing team sheets: %w", err)
	}
	return f.Save()
}

func scheduleRows(s *schedule.Schedule) []Row {
	var rows []Row
	for _, w := range s.Weeks {
		if w.Infeasible {
			rows = append(rows, Row{Week: w.Number, Date: w.Date, Kind: w.Kind, Infeasible: true})
			continue
		}
		for _, m := range w.Matchups {
			rows = append(rows, Row{
				Week:      w.Number,
				Date:      w.Date,
				Kind:      w.Kind,
				Away:      m.Away,
				Home:      m.Home,
				AwayScore: m.AwayScore,
				HomeScore: m.HomeScore,
			})
		}
	}
	for i := range rows {
		rows[i].Row = i + 2
	}
	return rows
}

func membersOf(lg *league.League) []Member {
	membership := lg.Membership()
	var members []Member
	for _, d := range league.SortedDivisionNames(membership) {
		for _, name := range membership[d] {
			team, err := lg.Team(name)
			if err != nil {
				continue
			}
			members = append(members, Member{Division: d, Team: name, Owner: team.Owner})
		}
	}
	return members
}

func teamNames(members []Member) []string {
	teams := make([]string, 0, len(members))
	for _, m := range members {
		teams = append(teams, m.Team)
	}
	return teams
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cellRef(i+1, 1), h); err != nil {
			return err
		}
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), style)
}

func writeScheduleSheet(f *excelize.File, rows []Row) error {
	sheet := ScheduleSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeaders(f, sheet, scheduleHeaders); err != nil {
		return err
	}

	for _, r := range rows {
		values := []any{r.Week, formatDate(r.Date), r.Kind.String(), r.Away, r.Home, score(r.AwayScore), score(r.HomeScore)}
		if r.Infeasible {
			values = []any{r.Week, formatDate(r.Date), r.Kind.String(), report.Infeasible, "", "", ""}
		}
		for col, v := range values {
			if err := f.SetCellValue(sheet, cellRef(col+1, r.Row), v); err != nil {
				return err
			}
		}
	}

	widths := map[string]float64{"A": 8, "B": 14, "C": 18, "D": 28, "E": 28, "F": 12, "G": 12}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	// Infeasible weeks get a light red row.
	if len(rows) == 0 {
		return nil
	}
	redFill, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
	})
	if err != nil {
		return err
	}
	lastRow := rows[len(rows)-1].Row
	return f.SetConditionalFormat(sheet, fmt.Sprintf("A2:G%d", lastRow), []excelize.ConditionalFormatOptions{
		{
			Type:     "formula",
			Criteria: fmt.Sprintf(`$D2="%s"`, report.Infeasible),
			Format:   &redFill,
		},
	})
}

func writeDivisionsSheet(f *excelize.File, members []Member) error {
	sheet := DivisionsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeaders(f, sheet, []string{"Division", "Team", "Owner"}); err != nil {
		return err
	}
	for i, m := range members {
		row := i + 2
		for col, v := range []string{m.Division, m.Team, m.Owner} {
			if err := f.SetCellValue(sheet, cellRef(col+1, row), v); err != nil {
				return err
			}
		}
	}
	for col, w := range map[string]float64{"A": 18, "B": 28, "C": 18} {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func writeTeamSheets(f *excelize.File, teams []string, rows []Row) error {
	type teamGame struct {
		week     int
		date     time.Time
		opponent string
		homeAway string
	}

	games := make(map[string][]teamGame)
	for _, r := range rows {
		if r.Infeasible {
			continue
		}
		games[r.Home] = append(games[r.Home], teamGame{week: r.Week, date: r.Date, opponent: r.Away, homeAway: "Home"})
		games[r.Away] = append(games[r.Away], teamGame{week: r.Week, date: r.Date, opponent: r.Home, homeAway: "Away"})
	}

	sheets := sheetNames(teams)
	for _, team := range teams {
		sheet := sheets[team]
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeHeaders(f, sheet, []string{"Week", "Date", "Opponent", "Home/Away"}); err != nil {
			return err
		}

		list := games[team]
		sort.SliceStable(list, func(i, j int) bool { return list[i].week < list[j].week })
		for i, g := range list {
			row := i + 2
			for col, v := range []any{g.week, formatDate(g.date), g.opponent, g.homeAway} {
				if err := f.SetCellValue(sheet, cellRef(col+1, row), v); err != nil {
					return err
				}
			}
		}

		for col, w := range map[string]float64{"A": 8, "B": 14, "C": 28, "D": 12} {
			if err := f.SetColWidth(sheet, col, col, w); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadRows parses the schedule sheet back into rows. Rows without a week
// number are skipped.
func ReadRows(f *excelize.File) ([]Row, error) {
	sheetRows, err := f.GetRows(ScheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ScheduleSheet, err)
	}
	if len(sheetRows) == 0 {
		return nil, fmt.Errorf("%s is empty", ScheduleSheet)
	}

	var rows []Row
	for i, cells := range sheetRows {
		if i == 0 {
			continue
		}
		cell := func(col int) string {
			if col < len(cells) {
				return strings.TrimSpace(cells[col])
			}
			return ""
		}
		if cell(0) == "" {
			continue
		}

		r := Row{Row: i + 1}
		if r.Week, err = strconv.Atoi(cell(0)); err != nil {
			return nil, fmt.Errorf("row %d: invalid week %q", r.Row, cell(0))
		}
		if d := cell(1); d != "" {
			if r.Date, err = time.Parse(dateFormat, d); err != nil {
				return nil, fmt.Errorf("row %d: invalid date %q", r.Row, d)
			}
		}
		if r.Kind, err = strategy.ParseKind(cell(2)); err != nil {
			return nil, fmt.Errorf("row %d: %w", r.Row, err)
		}
		if cell(3) == report.Infeasible {
			r.Infeasible = true
			rows = append(rows, r)
			continue
		}
		r.Away, r.Home = cell(3), cell(4)
		if r.AwayScore, err = parseScore(cell(5)); err != nil {
			return nil, fmt.Errorf("row %d: %w", r.Row, err)
		}
		if r.HomeScore, err = parseScore(cell(6)); err != nil {
			return nil, fmt.Errorf("row %d: %w", r.Row, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// ReadMembers parses the divisions sheet back.
func ReadMembers(f *excelize.File) ([]Member, error) {
	sheetRows, err := f.GetRows(DivisionsSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", DivisionsSheet, err)
	}

	var members []Member
	for i, cells := range sheetRows {
		if i == 0 || len(cells) < 2 || cells[1] == "" {
			continue
		}
		m := Member{Division: cells[0], Team: cells[1]}
		if len(cells) > 2 {
			m.Owner = cells[2]
		}
		members = append(members, m)
	}
	return members, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

func score(s *float64) any {
	if s == nil {
		return ""
	}
	return *s
}

func parseScore(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid score %q", s)
	}
	return &v, nil
}

// sheetNames maps each team to its own worksheet name. Names are cleaned of
// characters Excel rejects, cut to 31 characters and made unique ignoring
// case, both among teams and against the workbook's fixed sheets. Teams are
// numbered in the order given, so the same order always yields the same map.
func sheetNames(teams []string) map[string]string {
	taken := make(map[string]bool)
	for _, name := range []string{ScheduleSheet, DivisionsSheet, defaultSheet} {
		taken[strings.ToLower(name)] = true
	}

	names := make(map[string]string, len(teams))
	for _, team := range teams {
		if _, ok := names[team]; ok {
			continue
		}
		base := cleanSheetName(team)
		name := cleanSheetName(truncate(base, maxSheetName))
		for n := 2; taken[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, maxSheetName-len(suffix)) + suffix
		}
		taken[strings.ToLower(name)] = true
		names[team] = name
	}
	return names
}

// cleanSheetName replaces the characters []:*?/\ and a leading or trailing
// apostrophe, none of which Excel allows in a sheet name.
func cleanSheetName(team string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, team)
	if name == "" {
		return "_"
	}
	if strings.HasPrefix(name, "'") {
		name = "_" + name[1:]
	}
	if strings.HasSuffix(name, "'") {
		name = name[:len(name)-1] + "_"
	}
	return name
}

func truncate(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
