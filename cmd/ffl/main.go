package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/derekprior/ffl/internal/config"
	"github.com/derekprior/ffl/internal/excel"
	"github.com/derekprior/ffl/internal/league"
	"github.com/derekprior/ffl/internal/report"
	"github.com/derekprior/ffl/internal/schedule"
	"github.com/derekprior/ffl/internal/strategy"
	"github.com/derekprior/ffl/internal/validator"
)

const (
	defaultConfigFile = "league.yaml"
	xdgConfigFile     = "ffl/league.yaml"
)

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	if path, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("no config file found. Create %s in the current directory or %s under your config home, or pass --config",
		defaultConfigFile, xdgConfigFile)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "ffl",
		Short: "Fantasy football league schedule generator",
		Long: heredoc.Doc(`
			ffl builds head-to-head fantasy football schedules. Teams are
			split into divisions and every season rotates between weeks
			played inside a division and weeks played across divisions,
			without any pair meeting more often than the season allows.`),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.SetOut(out)

	var configFile string
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: league.yaml in current directory)")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter league.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	leagueCmd := &cobra.Command{
		Use:   "league",
		Short: "Inspect the configured league",
	}

	showCmd := &cobra.Command{
		Use:          "show",
		Short:        "Print the league's teams grouped by division",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runShow(cmd.OutOrStdout(), configPath)
		},
	}
	leagueCmd.AddCommand(showCmd)

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and validate schedules",
	}

	var (
		outputFile string
		seed       int64
		weeks      int
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a schedule from a config file",
		Long: heredoc.Doc(`
			generate pairs every team for each week of the season, prints
			the schedule with per-team home and away totals, and writes it
			to an Excel workbook.

			Weeks where no legal pairing exists are kept in the schedule
			and marked as having no valid schedule.`),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			opts := generateOptions{outputPath: outputFile, weeks: weeks}
			if cmd.Flags().Changed("seed") {
				opts.seed = &seed
			}
			return runGenerate(cmd.OutOrStdout(), configPath, opts)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")
	generateCmd.Flags().Int64Var(&seed, "seed", schedule.DefaultSeed, "Random seed (overrides the config)")
	generateCmd.Flags().IntVar(&weeks, "weeks", 0, "Number of weeks (overrides the config)")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule workbook and refresh its team sheets",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rotation, err := validationRotation(configFile)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), args[0], rotation)
		},
	}

	scheduleCmd.AddCommand(generateCmd, validateCmd)
	rootCmd.AddCommand(initCmd, leagueCmd, scheduleCmd)
	return rootCmd
}

func runInit(out io.Writer, outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "✓ Created %s\n", outputPath)
	return nil
}

var configTemplate = heredoc.Doc(`
	# Fantasy Football League Configuration
	# =====================================

	# League name, printed at the top of reports.
	league: Frozen Grassmasters of Lambeau

	# Seed for every random choice. The same seed and config always produce
	# the same divisions and schedule. Override with --seed.
	seed: 42

	season:
	  # Number of head-to-head weeks. Override with --weeks.
	  weeks: 14
	  # Optional. When set, week 1 is played on this date and every later
	  # week seven days after the previous one.
	  start_date: "2026-09-10"
	  # Dates with no games; the week moves to the following slot.
	  bye_dates:
	    - date: "2026-11-26"
	      reason: "Thanksgiving"

	# Division names. Every team must be in one of them unless
	# shuffle_divisions is true.
	divisions: [Beer, Cheese, Sausage]

	# When true, teams are randomly spread across the divisions so that
	# division sizes differ by at most one. Divisions set below are ignored.
	shuffle_divisions: false

	# Team names must be unique and the team count must be even.
	teams:
	  - name: Training Camp Hookie
	    owner: ""
	    division: Beer
	  - name: T-bone Chicken
	    division: Beer
	  - name: Dark Helmet
	    division: Beer
	  - name: Wish Sandwiches
	    division: Beer
	  - name: Flaming Moes
	    division: Cheese
	  - name: Jello Puddin' Pops
	    division: Cheese
	  - name: The Schlubs
	    division: Cheese
	  - name: Kentucky Clears
	    division: Cheese
	  - name: Mother of Dragons
	    division: Sausage
	  - name: Demaryius Targaryen
	    division: Sausage
	  - name: Winter is Coming
	    division: Sausage
	  - name: King in the North
	    division: Sausage

	# Strategy decides which weeks are divisional and how often any two
	# teams may meet. "division_cycle" repeats a round-robin period of
	# (teams - 1) weeks whose first (division size - 1) weeks are divisional.
	strategy: division_cycle

	search:
	  # Upper bound on search steps per interdivisional week. 0 uses the
	  # default of 1000000; a negative value is unlimited.
	  budget: 1000000
	  # When true, a divisional week with an unpairable team is an error
	  # instead of a week with no valid schedule.
	  strict_divisional: false
	`)

// buildLeague creates the configured league, balancing divisions with rng
// when the config asks for it.
func buildLeague(cfg *config.Config, rng *rand.Rand) (*league.League, error) {
	lg, err := cfg.NewLeague()
	if err != nil {
		return nil, fmt.Errorf("building league: %w", err)
	}
	if cfg.ShuffleDivisions {
		if err := lg.ShuffleDivisions(rng); err != nil {
			return nil, err
		}
	}
	return lg, nil
}

func seedFor(cfg *config.Config, flag *int64) int64 {
	switch {
	case flag != nil:
		return *flag
	case cfg.Seed != nil:
		return *cfg.Seed
	default:
		return schedule.DefaultSeed
	}
}

func runShow(out io.Writer, configPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	lg, err := buildLeague(cfg, rand.New(rand.NewSource(seedFor(cfg, nil))))
	if err != nil {
		return err
	}
	return report.WriteLeague(out, lg)
}

type generateOptions struct {
	outputPath string
	seed       *int64
	weeks      int
}

func runGenerate(out io.Writer, configPath string, opts generateOptions) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	seed := seedFor(cfg, opts.seed)
	rng := rand.New(rand.NewSource(seed))

	lg, err := buildLeague(cfg, rng)
	if err != nil {
		return err
	}

	weeks := cfg.Season.Weeks
	if opts.weeks > 0 {
		weeks = opts.weeks
	}

	rotation, err := strategy.Get(cfg.Strategy, len(lg.TeamNames()), len(lg.Divisions()))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Scheduling %d weeks for %d teams in %d divisions (seed %d)...\n",
		weeks, len(lg.TeamNames()), len(lg.Divisions()), seed)

	sched, err := schedule.Generate(lg, weeks, schedule.Options{
		Rand:             rng,
		Logger:           logrus.StandardLogger(),
		Rotation:         rotation,
		Budget:           cfg.Search.Budget,
		StrictDivisional: cfg.Search.StrictDivisional,
		Calendar:         schedule.Calendar{Start: cfg.StartDate(), Byes: cfg.ByeDates()},
	})
	if err != nil {
		return fmt.Errorf("generating schedule: %w", err)
	}

	fmt.Fprintln(out)
	if err := report.WriteLeague(out, lg); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := report.WriteSchedule(out, sched); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nPer Team Totals:")
	if err := report.WriteTeamTotals(out, sched, lg.TeamNames()); err != nil {
		return err
	}

	if infeasible := sched.InfeasibleWeeks(); len(infeasible) > 0 {
		fmt.Fprintf(out, "\n⚠ No valid schedule for weeks %v\n", infeasible)
	} else {
		fmt.Fprintf(out, "\n✓ All %d weeks scheduled\n", weeks)
	}

	f, err := excel.Generate(lg, sched)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(opts.outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Fprintf(out, "✓ Schedule saved to %s\n", opts.outputPath)
	return nil
}

// validationRotation builds the rotation from the config found the same way
// as for generate. It returns nil when no config can be found, leaving the
// validator to rebuild the rotation from the workbook.
func validationRotation(configFlag string) (strategy.Rotation, error) {
	configPath, err := resolveConfigPath(configFlag)
	if err != nil {
		return nil, nil
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return strategy.Get(cfg.Strategy, len(cfg.Teams), len(cfg.Divisions))
}

// runValidate checks the workbook at schedulePath. A nil rotation is rebuilt
// from the workbook's divisions sheet.
func runValidate(out io.Writer, schedulePath string, rotation strategy.Rotation) error {
	violations, err := validator.Validate(schedulePath, rotation)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Fprintf(out, "✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Fprintf(out, "⚠ Warning: %s\n", v.Message)
		}
	}

	fmt.Fprintf(out, "\nValidation complete: %d rule violations, %d warnings\n", errors, warnings)

	// Regenerate team sheets from the schedule sheet
	if err := excel.UpdateTeamSheets(schedulePath); err != nil {
		return fmt.Errorf("updating team sheets: %w", err)
	}
	fmt.Fprintf(out, "✓ Team sheets updated in %s\n", schedulePath)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}
