// Package checklist implements the daily business-cycle state of the shop
// checklist.
//
// A Book owns five entries in a key-value store: the task template, one day
// record per business day, the archive of past days, and the rollover marker
// that makes the once-per-day archive-and-reset idempotent. Every operation is
// synchronous; a mutation is visible to the next load.
package checklist

import (
	"fmt"
	"math"
	"time"

	internalstrings "github.com/amonks/shiftbook/internal/strings"
	"github.com/amonks/shiftbook/internal/validation"
)

// Shift is one of the task groupings.
type Shift string

const (
	// ShiftMorning is the opening shift.
	ShiftMorning Shift = "morning"
	// ShiftEvening is the closing shift.
	ShiftEvening Shift = "evening"
	// ShiftSunday holds tasks that only apply on Sundays.
	ShiftSunday Shift = "sunday"
)

// Shifts returns all shifts in display order.
func Shifts() []Shift {
	return []Shift{ShiftMorning, ShiftEvening, ShiftSunday}
}

// IsValid returns true if the shift is a known value.
func (s Shift) IsValid() bool {
	return validation.Contains(Shifts(), s)
}

// Label returns the heading shown for the shift.
func (s Shift) Label() string {
	switch s {
	case ShiftMorning:
		return "Frühschicht"
	case ShiftEvening:
		return "Spätschicht"
	case ShiftSunday:
		return "Sonntag"
	default:
		return string(s)
	}
}

// ParseShift normalizes and validates a shift name.
func ParseShift(value string) (Shift, error) {
	shift := Shift(internalstrings.NormalizeLowerTrimSpace(value))
	if !shift.IsValid() {
		return "", validation.InvalidValueError(ErrUnknownShift, value, Shifts())
	}
	return shift, nil
}

// VisibleShifts returns the shifts that apply on the given weekday.
// Sunday tasks are only shown on Sundays.
func VisibleShifts(weekday time.Weekday) []Shift {
	if weekday == time.Sunday {
		return Shifts()
	}
	return []Shift{ShiftMorning, ShiftEvening}
}

// TaskItem is one checklist entry of a day.
type TaskItem struct {
	Text string `json:"t" yaml:"text"`
	Done bool   `json:"done" yaml:"done"`
}

// Tasks holds a day's task lists per shift.
type Tasks struct {
	Morning []TaskItem `json:"morning" yaml:"morning"`
	Evening []TaskItem `json:"evening" yaml:"evening"`
	Sunday  []TaskItem `json:"sunday" yaml:"sunday"`
}

// List returns the items for shift.
func (t Tasks) List(shift Shift) []TaskItem {
	switch shift {
	case ShiftMorning:
		return t.Morning
	case ShiftEvening:
		return t.Evening
	case ShiftSunday:
		return t.Sunday
	default:
		return nil
	}
}

func (t *Tasks) ref(shift Shift) *[]TaskItem {
	switch shift {
	case ShiftMorning:
		return &t.Morning
	case ShiftEvening:
		return &t.Evening
	case ShiftSunday:
		return &t.Sunday
	default:
		return nil
	}
}

// Quick holds the two free-form quick fields of a day.
type Quick struct {
	// TooGoodToGo records the surplus bags handed to Too Good To Go.
	TooGoodToGo string `json:"tgtg" yaml:"tgtg"`
	// WriteOff records the day's write-off.
	WriteOff string `json:"absch" yaml:"writeoff"`
}

// QuickField names one of the quick fields.
type QuickField string

const (
	// QuickTooGoodToGo selects Quick.TooGoodToGo.
	QuickTooGoodToGo QuickField = "tgtg"
	// QuickWriteOff selects Quick.WriteOff.
	QuickWriteOff QuickField = "writeoff"
)

// ParseQuickField normalizes a quick field name. "absch" is accepted as an
// alias for writeoff.
func ParseQuickField(value string) (QuickField, error) {
	switch internalstrings.NormalizeLowerTrimSpace(value) {
	case "tgtg":
		return QuickTooGoodToGo, nil
	case "writeoff", "absch":
		return QuickWriteOff, nil
	default:
		return "", fmt.Errorf("%w: %q (want tgtg or writeoff)", ErrUnknownQuickField, value)
	}
}

// DayRecord is the state of one business day.
type DayRecord struct {
	Note  string `json:"note" yaml:"note"`
	Quick Quick  `json:"quick" yaml:"quick"`
	Tasks Tasks  `json:"tasks" yaml:"tasks"`
}

// Clone returns a deep copy of the record.
func (r DayRecord) Clone() DayRecord {
	clone := r
	clone.Tasks.Morning = append([]TaskItem{}, r.Tasks.Morning...)
	clone.Tasks.Evening = append([]TaskItem{}, r.Tasks.Evening...)
	clone.Tasks.Sunday = append([]TaskItem{}, r.Tasks.Sunday...)
	return clone
}

// HasNote reports whether the handover note has visible content.
func (r DayRecord) HasNote() bool {
	return internalstrings.TrimSpace(r.Note) != ""
}

// OpenTasks counts incomplete tasks in the given shifts.
func (r DayRecord) OpenTasks(shifts []Shift) int {
	open := 0
	for _, shift := range shifts {
		for _, item := range r.Tasks.List(shift) {
			if !item.Done {
				open++
			}
		}
	}
	return open
}

// Progress returns the number of done items, the total and the rounded
// completion percentage. An empty list is 0%.
func Progress(items []TaskItem) (done, total, percent int) {
	total = len(items)
	for _, item := range items {
		if item.Done {
			done++
		}
	}
	if total == 0 {
		return done, total, 0
	}
	percent = int(math.Round(float64(done) / float64(total) * 100))
	return done, total, percent
}
