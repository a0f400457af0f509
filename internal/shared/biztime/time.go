// Package biztime provides utilities for business timezone calculations.
// Timestamps are stored in UTC; the business timezone only decides which
// calendar date and hour an event belongs to for the daily and hourly rollups.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is used when the configuration leaves server.timezone empty.
	DefaultTimezone = "UTC"

	// DateLayout is the layout of the date key used by every rollup table.
	DateLayout = "2006-01-02"
)

var (
	bizLocation *time.Location
	bizMu       sync.RWMutex
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}

	bizMu.Lock()
	bizLocation = loc
	bizMu.Unlock()
	return nil
}

// Location returns the business timezone, falling back to UTC when Init was
// never called.
func Location() *time.Location {
	bizMu.RLock()
	defer bizMu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DateKey returns the business-timezone calendar date of t.
func DateKey(t time.Time) string {
	return t.In(Location()).Format(DateLayout)
}

// HourOf returns the business-timezone hour (0-23) of t.
func HourOf(t time.Time) int {
	return t.In(Location()).Hour()
}

// StartOfDayUTC returns business-timezone midnight of t's date, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	biz := t.In(Location())
	return time.Date(biz.Year(), biz.Month(), biz.Day(), 0, 0, 0, 0, Location()).UTC()
}

// WindowStartDateKey returns the date key of the first day in a trailing
// window of days that ends with t's date.
func WindowStartDateKey(t time.Time, days int) string {
	if days < 1 {
		days = 1
	}
	return t.In(Location()).AddDate(0, 0, -(days - 1)).Format(DateLayout)
}
