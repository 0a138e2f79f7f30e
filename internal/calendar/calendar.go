// Package calendar defines the pluggable calendar structures used by the
// time-arithmetic core: how years divide into cycles (months, seasons, ...),
// how cycles divide into days, and optionally what a leap year is.
//
// Years are uniform across all calendars. A day always has 24 hours, an hour
// 60 minutes, a minute 60 seconds; only the year/cycle/day structure varies.
package calendar

import (
	"cfcal/internal/timeerr"
)

// DaySeq is the ordered set of valid day values in one cycle. Values are
// strictly increasing and 1-based. An unbounded sequence marks an "open"
// cycle with no upper day limit.
type DaySeq struct {
	values    []int
	unbounded bool
}

// Days builds a bounded DaySeq from explicit day values.
func Days(values ...int) DaySeq {
	return DaySeq{values: values}
}

// DayRange builds the DaySeq {1, 2, ..., n}.
func DayRange(n int) DaySeq {
	values := make([]int, n)
	for i := range values {
		values[i] = i + 1
	}
	return DaySeq{values: values}
}

// UnboundedDays marks a cycle whose days never run out.
func UnboundedDays() DaySeq {
	return DaySeq{unbounded: true}
}

func (s DaySeq) Unbounded() bool { return s.unbounded }

// Len reports the number of days, or -1 for an unbounded sequence.
func (s DaySeq) Len() int {
	if s.unbounded {
		return -1
	}
	return len(s.values)
}

// First returns the first day value.
func (s DaySeq) First() int {
	if s.unbounded || len(s.values) == 0 {
		return 1
	}
	return s.values[0]
}

// Last returns the last day value. Undefined for unbounded sequences.
func (s DaySeq) Last() int {
	if s.unbounded || len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

// At returns the i-th day value, 1-based.
func (s DaySeq) At(i int) int {
	if s.unbounded {
		return i
	}
	return s.values[i-1]
}

// Index returns the 1-based position of day within the sequence, or 0 when
// the day is not part of the cycle.
func (s DaySeq) Index(day int) int {
	if s.unbounded {
		if day >= 1 {
			return day
		}
		return 0
	}
	for i, v := range s.values {
		if v == day {
			return i + 1
		}
	}
	return 0
}

// Contains reports whether day is a valid day of the cycle.
func (s DaySeq) Contains(day int) bool {
	return s.Index(day) != 0
}

// CyclesFunc returns the ordered cycle names of a year; index i names cycle
// i+1.
type CyclesFunc func(year int) []string

// DaysFunc returns the valid day values of a cycle in a year.
type DaysFunc func(cycle, year int) (DaySeq, error)

// LeapFunc reports whether a year is a leap year, given the calendar's own
// structure functions.
type LeapFunc func(year int, cycles CyclesFunc, days DaysFunc) (bool, error)

// Calendar is an immutable calendar definition. Identity and equality are
// carried by Alias alone, never by structure.
type Calendar struct {
	yearCycles  CyclesFunc
	daysInCycle DaysFunc
	isLeap      LeapFunc

	// Alias uniquely identifies the calendar (CF-convention name or a
	// library extension).
	Alias string
	// CyclesAlias names what a cycle is ("month", "season", "").
	CyclesAlias string
}

// New assembles a calendar definition. isLeap may be nil for calendars
// without a leap-year concept.
func New(cycles CyclesFunc, days DaysFunc, isLeap LeapFunc, alias, cyclesAlias string) *Calendar {
	return &Calendar{
		yearCycles:  cycles,
		daysInCycle: days,
		isLeap:      isLeap,
		Alias:       alias,
		CyclesAlias: cyclesAlias,
	}
}

func (c *Calendar) String() string { return c.Alias }

// Equal compares calendars by alias.
func (c *Calendar) Equal(other *Calendar) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Alias == other.Alias
}

// YearCycles returns the ordered cycle names of the year.
func (c *Calendar) YearCycles(year int) []string {
	return c.yearCycles(year)
}

// DaysInCycle returns the valid day values of the cycle.
func (c *Calendar) DaysInCycle(cycle, year int) (DaySeq, error) {
	return c.daysInCycle(cycle, year)
}

// IsLeap reports whether year is a leap year. Calendars without a leap
// concept fail with ErrUnsupportedOperation.
func (c *Calendar) IsLeap(year int) (bool, error) {
	if c.isLeap == nil {
		return false, timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
			"leap year concept not defined for %q calendar", c.Alias)
	}
	return c.isLeap(year, c.yearCycles, c.daysInCycle)
}

// CountCyclesInYear returns the number of cycles in the year.
func (c *Calendar) CountCyclesInYear(year int) int {
	return len(c.yearCycles(year))
}

// CountDaysInCycle returns the number of days in the cycle, or -1 for an
// open cycle.
func (c *Calendar) CountDaysInCycle(cycle, year int) (int, error) {
	days, err := c.daysInCycle(cycle, year)
	if err != nil {
		return 0, err
	}
	return days.Len(), nil
}

// CountDaysInYear returns the number of days in the year, or -1 when any
// cycle is open.
func (c *Calendar) CountDaysInYear(year int) (int, error) {
	total := 0
	for cycle := 1; cycle <= c.CountCyclesInYear(year); cycle++ {
		n, err := c.CountDaysInCycle(cycle, year)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return -1, nil
		}
		total += n
	}
	return total, nil
}

// PreviousCycle returns the cycle preceding (cycle, year), wrapping into the
// previous year from cycle 1.
func (c *Calendar) PreviousCycle(cycle, year int) (int, int) {
	if cycle == 1 {
		return c.CountCyclesInYear(year - 1), year - 1
	}
	return cycle - 1, year
}

// leapFeb29 is the built-in leap predicate: a year is leap when the last day
// of its 2nd cycle is the 29th. Calendars whose 2nd cycle is not a
// Gregorian-like February simply never report leap years through it.
func leapFeb29(year int, cycles CyclesFunc, days DaysFunc) (bool, error) {
	seq, err := days(2, year)
	if err != nil {
		return false, err
	}
	return !seq.Unbounded() && seq.Last() == 29, nil
}
