// Package businessday derives the operational day that keys checklist state.
//
// A business day normally starts at midnight. A non-zero cutover hour moves
// the start of the day later, so that a shift closing at 01:30 still belongs
// to the previous day. The archive offset used by the rollover is derived from
// the same policy, so the two can never disagree.
package businessday

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the time layout of a Key.
const Layout = "2006-01-02"

// ErrInvalidKey is returned by ParseKey for a value that is not a date.
var ErrInvalidKey = errors.New("invalid day")

// Key identifies one business day, formatted as YYYY-MM-DD.
type Key string

// ParseKey validates a user-supplied day.
func ParseKey(value string) (Key, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return "", fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidKey, value)
	}
	return Key(t.Format(Layout)), nil
}

// String returns the key as stored.
func (k Key) String() string {
	return string(k)
}

// Time returns midnight of the key's calendar date in loc.
func (k Key) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(Layout, string(k), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the key n calendar days away.
func (k Key) AddDays(n int) Key {
	t := k.Time(time.UTC)
	if t.IsZero() {
		return k
	}
	return Key(t.AddDate(0, 0, n).Format(Layout))
}

// Weekday returns the day of the week of the key's calendar date.
func (k Key) Weekday() time.Weekday {
	return k.Time(time.UTC).Weekday()
}

// Policy decides which business day a timestamp belongs to.
type Policy struct {
	// CutoverHour is the hour (0-23) at which a new business day starts.
	// Zero means midnight.
	CutoverHour int

	// Location is the zone whose wall clock defines the day. Nil means UTC.
	Location *time.Location
}

// DefaultPolicy is the midnight cutover in UTC.
func DefaultPolicy() Policy {
	return Policy{CutoverHour: 0, Location: time.UTC}
}

// Validate reports whether the cutover hour is usable.
func (p Policy) Validate() error {
	if p.CutoverHour < 0 || p.CutoverHour > 23 {
		return fmt.Errorf("cutover hour must be between 0 and 23, got %d", p.CutoverHour)
	}
	return nil
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// KeyFor returns the business day containing t.
func (p Policy) KeyFor(t time.Time) Key {
	local := t.In(p.location())
	if local.Hour() < p.CutoverHour {
		local = local.AddDate(0, 0, -1)
	}
	return Key(local.Format(Layout))
}

// Previous returns the business day before the one containing t.
func (p Policy) Previous(t time.Time) Key {
	return p.KeyFor(t).AddDays(-1)
}

// Describe renders the policy for status output.
func (p Policy) Describe() string {
	return fmt.Sprintf("cutover %02d:00 %s", p.CutoverHour, p.location())
}
