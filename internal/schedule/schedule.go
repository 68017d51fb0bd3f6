// Package schedule turns a recurring weekly plan into meeting groups ready to
// be stored.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"homevisit/internal/model"
	"homevisit/internal/parse"
)

// DefaultDuration applies when a plan leaves Duration unset.
const DefaultDuration = 60 * time.Minute

// Plan describes a batch of meetings: every listed start time on every listed
// weekday between Begin and Final inclusive.
type Plan struct {
	Name       string
	Begin      time.Time // calendar date, UTC midnight
	Final      time.Time // calendar date, UTC midnight
	StartTimes []parse.Clock
	Weekdays   []time.Weekday
	Duration   time.Duration
}

func (p Plan) validate() error {
	switch {
	case p.Name == "":
		return errors.New("plan needs a name")
	case p.Final.Before(p.Begin):
		return fmt.Errorf("final date %s is before begin date %s", p.Final.Format(parse.DateLayout), p.Begin.Format(parse.DateLayout))
	case len(p.StartTimes) == 0:
		return errors.New("plan needs at least one start time")
	case len(p.Weekdays) == 0:
		return errors.New("plan needs at least one weekday")
	case p.Duration < 0:
		return fmt.Errorf("duration %s must be positive", p.Duration)
	}
	return nil
}

// Build expands p into one MeetingGroup per matching date, named
// "<name>: YYYY-MM-DD". Start times are read as wall clock in loc and stored in UTC.
func Build(p Plan, loc *time.Location) ([]model.MeetingGroup, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	duration := p.Duration
	if duration == 0 {
		duration = DefaultDuration
	}

	days := make(map[time.Weekday]bool, len(p.Weekdays))
	for _, d := range p.Weekdays {
		days[d] = true
	}

	var groups []model.MeetingGroup
	for day := dateOf(p.Begin); !day.After(dateOf(p.Final)); day = day.AddDate(0, 0, 1) {
		if !days[day.Weekday()] {
			continue
		}
		group := model.MeetingGroup{
			Name: fmt.Sprintf("%s: %s", p.Name, day.Format(parse.DateLayout)),
			Date: day,
		}
		for _, clock := range p.StartTimes {
			start := clock.On(day, loc).UTC()
			group.Meetings = append(group.Meetings, model.Meeting{
				Name:  p.Name,
				Start: start,
				End:   start.Add(duration),
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
