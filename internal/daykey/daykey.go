// Package daykey derives canonical calendar-day identifiers from wall-clock time.
//
// A day key is a "YYYY-MM-DD" string in local calendar time. Day keys are the
// bucketing unit for tasks and the trigger for day rollover, so the clock that
// produces them is injectable for deterministic tests.
package daykey

import (
	"fmt"
	"time"
)

// Layout is the time layout of a day key.
const Layout = "2006-01-02"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant until it is moved.
//
// It is not safe for concurrent mutation; tests advance it between operations.
type FixedClock struct {
	T time.Time
}

// Now returns the stored instant.
func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// AdvanceDays moves the clock forward by n calendar days.
func (c *FixedClock) AdvanceDays(n int) { c.T = c.T.AddDate(0, 0, n) }

// Key formats t as a day key in t's location.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the day key for the clock's current instant.
func Today(c Clock) string {
	return Key(c.Now())
}

// Yesterday returns the day key one calendar day before the clock's current instant.
func Yesterday(c Clock) string {
	return Key(c.Now().AddDate(0, 0, -1))
}

// Parse converts a day key back to midnight of that day in loc.
func Parse(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// Valid reports whether key is a well-formed day key.
func Valid(key string) bool {
	_, err := Parse(key, time.UTC)
	return err == nil
}

// AddDays returns the day key n calendar days after key.
func AddDays(key string, n int) (string, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return "", err
	}
	return Key(t.AddDate(0, 0, n)), nil
}
