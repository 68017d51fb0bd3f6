// Command create-meetings adds a batch of meeting groups and meetings.
//
//	create-meetings -name Winter -begin 2024-01-08 -final 2024-02-02 -times 17:00,18:30 -days MON,WED
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"homevisit/config"
	"homevisit/internal/db"
	"homevisit/internal/parse"
	"homevisit/internal/schedule"
	"homevisit/internal/store"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	if err := run(os.Args[1:], &logger); err != nil {
		logger.Error().Err(err).Msg("create-meetings failed")
		os.Exit(1)
	}
}

func run(args []string, logger *zerolog.Logger) error {
	fs := flag.NewFlagSet("create-meetings", flag.ContinueOnError)
	var (
		name         = fs.String("name", "", "The name of this batch of meetings")
		begin        = fs.String("begin", "", "The initial date of this meeting batch: YYYY-MM-DD")
		final        = fs.String("final", "", "The last date of this meeting batch: YYYY-MM-DD")
		times        = fs.String("times", "", "The meetings' starting times, comma separated: HH:MM (24 hour clock)")
		days         = fs.String("days", "", "The days of the week the meetings occur. Ex: MON,WED,FRI")
		durationMins = fs.Int("duration-mins", 60, "The meetings' duration in minutes")
		configPath   = fs.String("config", os.Getenv("CONFIG_PATH"), "Path to the configuration file")
		dryRun       = fs.Bool("dry-run", false, "Print the meetings without saving them")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("failed to read .env file")
	}
	if *configPath == "" {
		*configPath = "./config/config.yaml"
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load configuration %s: %w", *configPath, err)
	}
	loc, err := cfg.Site.Location()
	if err != nil {
		return err
	}

	plan, err := buildPlan(*name, *begin, *final, *times, *days, *durationMins)
	if err != nil {
		return err
	}
	groups, err := schedule.Build(plan, loc)
	if err != nil {
		return err
	}

	logger.Info().
		Str("name", plan.Name).
		Str("begin_date", *begin).
		Str("final_date", *final).
		Str("start_times", *times).
		Str("days", *days).
		Int("duration_mins", *durationMins).
		Str("timezone", loc.String()).
		Msg("Creating meeting batch")

	if !*dryRun {
		gormDB, err := db.Init(&cfg.Database)
		if err != nil {
			return err
		}
		if err := store.NewGormStore(gormDB).CreateMeetingGroups(context.Background(), groups); err != nil {
			return err
		}
	}

	for _, g := range groups {
		logger.Info().Int64("id", g.ID).Str("group", g.Name).Msg("Meeting group")
		for _, m := range g.Meetings {
			logger.Info().Int64("id", m.ID).Str("meeting", m.Label(loc)).Msg("Meeting")
		}
	}
	logger.Info().Int("groups", len(groups)).Msg("Done!")
	return nil
}

func buildPlan(name, begin, final, times, days string, durationMins int) (schedule.Plan, error) {
	beginDate, err := parse.ParseDate(begin)
	if err != nil {
		return schedule.Plan{}, err
	}
	finalDate, err := parse.ParseDate(final)
	if err != nil {
		return schedule.Plan{}, err
	}
	startTimes, err := parse.ParseList(times, parse.ParseClock)
	if err != nil {
		return schedule.Plan{}, err
	}
	weekdays, err := parse.ParseList(days, parse.ParseWeekday)
	if err != nil {
		return schedule.Plan{}, err
	}
	if durationMins <= 0 {
		return schedule.Plan{}, fmt.Errorf("duration-mins must be positive, got %d", durationMins)
	}
	return schedule.Plan{
		Name:       name,
		Begin:      beginDate,
		Final:      finalDate,
		StartTimes: startTimes,
		Weekdays:   weekdays,
		Duration:   time.Duration(durationMins) * time.Minute,
	}, nil
}
