// Package gate decides whether registrations are currently accepted.
package gate

import (
	"fmt"
	"time"
)

// Gate is a pure predicate over wall-clock time.
type Gate interface {
	IsOpen(now time.Time) bool
}

// Always never closes. It is used when no window is configured.
type Always struct{}

func (Always) IsOpen(time.Time) bool { return true }

// Deadline is open until ClosesAt, exclusive.
type Deadline struct {
	ClosesAt time.Time
}

func (d Deadline) IsOpen(now time.Time) bool {
	return now.Before(d.ClosesAt)
}

// Daily is open every day between two times of day in Location. A window
// whose close precedes its open spans midnight.
type Daily struct {
	Open     time.Duration
	Close    time.Duration
	Location *time.Location
}

// ParseDaily builds a Daily gate from "HH:MM" strings.
func ParseDaily(open, close string, loc *time.Location) (Daily, error) {
	o, err := parseClock(open)
	if err != nil {
		return Daily{}, fmt.Errorf("parse open time: %w", err)
	}
	c, err := parseClock(close)
	if err != nil {
		return Daily{}, fmt.Errorf("parse close time: %w", err)
	}
	if o == c {
		return Daily{}, fmt.Errorf("daily window %s-%s is empty", open, close)
	}
	if loc == nil {
		loc = time.UTC
	}
	return Daily{Open: o, Close: c, Location: loc}, nil
}

func (d Daily) IsOpen(now time.Time) bool {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	h, m, s := local.Clock()
	tod := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second +
		time.Duration(local.Nanosecond())

	if d.Open < d.Close {
		return tod >= d.Open && tod < d.Close
	}
	return tod >= d.Open || tod < d.Close
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
