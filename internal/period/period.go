// Package period implements time intervals between two dates of one
// calendar, with independently open or closed endpoints, plus the derived
// operations: interval relations, regular sampling, regular division and
// exact length counts at every granularity.
package period

import (
	"fmt"

	"cfcal/internal/calendar"
	"cfcal/internal/date"
	"cfcal/internal/timeerr"
	"cfcal/internal/timevec"
)

// Period is an interval between two dates on the same calendar. LeftOpen and
// RightOpen mark which endpoints are excluded; they affect sampling and
// counting, not the identity of the endpoints themselves.
type Period struct {
	initial date.Date
	final   date.Date

	LeftOpen  bool
	RightOpen bool
}

// New builds a period. Both dates must share a calendar and initial must be
// strictly before final.
func New(initial, final date.Date, leftOpen, rightOpen bool) (Period, error) {
	before, err := initial.Before(final)
	if err != nil {
		return Period{}, err
	}
	if !before {
		return Period{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"period end %s does not follow its start %s", final, initial)
	}
	return Period{initial: initial, final: final,
		LeftOpen: leftOpen, RightOpen: rightOpen}, nil
}

// Implicit builds the period a partial time vector stands for: [1961] means
// the whole of 1961, that is [1961, 1962[. The interval is left-closed and
// right-open, one unit of the vector's resolution wide.
func Implicit(vec timevec.Vector, cal *calendar.Calendar) (Period, error) {
	initial, err := date.New(vec, cal)
	if err != nil {
		return Period{}, err
	}
	final, err := initial.Add(timevec.Unit(initial.Resolution()-1, 1))
	if err != nil {
		return Period{}, err
	}
	return New(initial, final, false, true)
}

// Initial returns the start date.
func (p Period) Initial() date.Date { return p.initial }

// Final returns the end date.
func (p Period) Final() date.Date { return p.final }

// Calendar returns the calendar both endpoints share.
func (p Period) Calendar() *calendar.Calendar { return p.initial.Calendar() }

// Equal compares the endpoint dates; the open flags do not take part.
func (p Period) Equal(other Period) bool {
	return p.initial.Equal(other.initial) && p.final.Equal(other.final)
}

func (p Period) String() string {
	return fmt.Sprintf("%s to %s", p.initial, p.final)
}

// Overlap reports whether the two periods share any time. Matching endpoints
// count as overlap regardless of the open flags.
func (p Period) Overlap(other Period) (bool, error) {
	after, err := p.initial.After(other.final)
	if err != nil {
		return false, err
	}
	if after {
		return false, nil
	}
	after, err = other.initial.After(p.final)
	if err != nil {
		return false, err
	}
	return !after, nil
}

// Contains reports whether d lies strictly between the endpoints. The open
// flags do not take part.
func (p Period) Contains(d date.Date) (bool, error) {
	after, err := d.After(p.initial)
	if err != nil || !after {
		return false, err
	}
	return d.Before(p.final)
}

// Continuous reports whether other starts exactly where p ends, or exactly
// one gap later when gap is given. Equality is strict, so the endpoint dates
// must match in calendar, resolution and values.
func (p Period) Continuous(other Period, gap *timevec.Duration) (bool, error) {
	if p.final.Equal(other.initial) {
		return true, nil
	}
	if gap == nil {
		return false, nil
	}
	shifted, err := p.final.Add(*gap)
	if err != nil {
		return false, err
	}
	return shifted.Equal(other.initial), nil
}

// SampleConfig tunes RegularSample and RegularDivision. Buffer shifts the
// first sample off the period start; Calendar rebinds the endpoints to
// another calendar before sampling.
type SampleConfig struct {
	Buffer   *timevec.Duration
	Calendar *calendar.Calendar
}

// rebind rebuilds d on cal, keeping values and resolution.
func rebind(d date.Date, cal *calendar.Calendar) (date.Date, error) {
	vals, set := d.Raw()
	vec, err := timevec.FromMasked(vals[:], set[:])
	if err != nil {
		return date.Date{}, err
	}
	return date.New(vec, cal)
}

// samplePoints runs the shared emit loop of RegularSample and
// RegularDivision.
func (p Period) samplePoints(step timevec.Duration, cfg SampleConfig) ([]date.Date, error) {
	if step.IsZero() {
		return nil, timeerr.Wrap(timeerr.ErrNonProgressingStep,
			"sampling step is zero")
	}
	start := p.initial
	final := p.final
	var err error
	if cfg.Buffer != nil {
		if start, err = start.Add(*cfg.Buffer); err != nil {
			return nil, err
		}
	}
	if cfg.Calendar != nil {
		if start, err = rebind(start, cfg.Calendar); err != nil {
			return nil, err
		}
		if final, err = rebind(final, cfg.Calendar); err != nil {
			return nil, err
		}
	}
	// A left-open period excludes its start, but only when the buffer left
	// the first sample exactly there; a buffered start is already inside.
	if p.LeftOpen && start.Equal(p.initial) {
		if start, err = start.Add(step); err != nil {
			return nil, err
		}
	}
	cmp, err := start.Compare(final)
	if err != nil {
		return nil, err
	}
	if cmp > 0 || (p.RightOpen && cmp == 0) {
		return nil, nil
	}
	points := []date.Date{start}
	next, err := start.Add(step)
	if err != nil {
		return nil, err
	}
	for {
		cmp, err = next.Compare(final)
		if err != nil {
			return nil, err
		}
		if cmp > 0 || (p.RightOpen && cmp == 0) {
			break
		}
		points = append(points, next)
		if next, err = next.Add(step); err != nil {
			return nil, err
		}
	}
	return points, nil
}

// RegularSample returns the dates obtained by stepping through the period
// from the (possibly buffered) start, honoring the open flags. A zero step
// fails with ErrNonProgressingStep.
func (p Period) RegularSample(step timevec.Duration, cfg SampleConfig) (date.Collection, error) {
	points, err := p.samplePoints(step, cfg)
	if err != nil {
		return date.Collection{}, err
	}
	return date.NewCollection(points...), nil
}

// RegularDivision anchors a closed sub-period of the given length at every
// sampled point: the month-window builder behind climatology extraction.
func (p Period) RegularDivision(step, length timevec.Duration, cfg SampleConfig) ([]Period, error) {
	points, err := p.samplePoints(step, cfg)
	if err != nil {
		return nil, err
	}
	out := make([]Period, 0, len(points))
	for _, pt := range points {
		end, err := pt.Add(length)
		if err != nil {
			return nil, err
		}
		sub, err := New(pt, end, false, false)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

// slot values with defaults filled; the set mask is irrelevant to counting.
func parts(d date.Date) (y, c, dy, h, mi, s int) {
	vec := d.Vector()
	at := func(i int) int { v, _ := vec.At(i); return int(v) }
	return at(timevec.SlotYear), at(timevec.SlotCycle), at(timevec.SlotDay),
		at(timevec.SlotHour), at(timevec.SlotMinute), at(timevec.SlotSecond)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// firstDay and lastDay return the boundary day values of a cycle; lastDay is
// 0 for open cycles, which can never satisfy a boundary condition.
func (p Period) firstDay(cycle, year int) (int, error) {
	days, err := p.Calendar().DaysInCycle(cycle, year)
	if err != nil {
		return 0, err
	}
	return days.First(), nil
}

func (p Period) lastDay(cycle, year int) (int, error) {
	days, err := p.Calendar().DaysInCycle(cycle, year)
	if err != nil {
		return 0, err
	}
	if days.Unbounded() {
		return 0, nil
	}
	return days.Last(), nil
}

// CountYears counts the calendar years the period touches. An open endpoint
// removes its boundary year only when the period covers just the single
// outermost second of that year.
func (p Period) CountYears() (int, error) {
	cal := p.Calendar()
	y0, c0, d0, h0, mi0, s0 := parts(p.initial)
	y1, c1, d1, h1, mi1, s1 := parts(p.final)

	last, err := p.lastDay(c0, y0)
	if err != nil {
		return 0, err
	}
	left := p.LeftOpen && c0 == cal.CountCyclesInYear(y0) && d0 == last &&
		h0 == 23 && mi0 == 59 && s0 == 59
	first, err := p.firstDay(1, y1)
	if err != nil {
		return 0, err
	}
	right := p.RightOpen && c1 == 1 && d1 == first &&
		h1 == 0 && mi1 == 0 && s1 == 0

	return y1 - y0 + 1 - btoi(left) - btoi(right), nil
}

// CountCycles counts the cycles the period touches, with the analogous
// single-second open-endpoint exclusions at cycle granularity.
func (p Period) CountCycles() (int, error) {
	cal := p.Calendar()
	y0, c0, d0, h0, mi0, s0 := parts(p.initial)
	y1, c1, d1, h1, mi1, s1 := parts(p.final)

	last, err := p.lastDay(c0, y0)
	if err != nil {
		return 0, err
	}
	left := p.LeftOpen && d0 == last && h0 == 23 && mi0 == 59 && s0 == 59
	first, err := p.firstDay(c1, y1)
	if err != nil {
		return 0, err
	}
	right := p.RightOpen && d1 == first && h1 == 0 && mi1 == 0 && s1 == 0

	n := 0
	for y := y0; y <= y1; y++ {
		n += cal.CountCyclesInYear(y)
	}
	n -= c0 - 1
	n -= cal.CountCyclesInYear(y1) - c1
	return n - btoi(left) - btoi(right), nil
}

// CountDays counts the days the period touches: whole in-between years plus
// the day ordinals in the boundary years. Calendars with open cycles have no
// day ordinal and fail.
func (p Period) CountDays() (int, error) {
	cal := p.Calendar()
	y0, _, _, h0, mi0, s0 := parts(p.initial)
	y1, _, _, h1, mi1, s1 := parts(p.final)

	left := p.LeftOpen && h0 == 23 && mi0 == 59 && s0 == 59
	right := p.RightOpen && h1 == 0 && mi1 == 0 && s1 == 0

	n := 0
	for y := y0; y < y1; y++ {
		days, err := cal.CountDaysInYear(y)
		if err != nil {
			return 0, err
		}
		if days < 0 {
			return 0, timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
				"day counts undefined for open cycles in %q calendar", cal.Alias)
		}
		n += days
	}
	startOrdinal, err := p.initial.DayNumberInYear()
	if err != nil {
		return 0, err
	}
	endOrdinal, err := p.final.DayNumberInYear()
	if err != nil {
		return 0, err
	}
	n += endOrdinal - (startOrdinal - 1)
	return n - btoi(left) - btoi(right), nil
}

// CountHours refines CountDays. An open endpoint subtracts one extra hour
// only when it falls on the last (or first) second of its hour, and boundary
// hours already excluded at day granularity are not excluded twice.
func (p Period) CountHours() (int, error) {
	_, _, _, h0, mi0, s0 := parts(p.initial)
	_, _, _, h1, mi1, s1 := parts(p.final)

	leftHour := p.LeftOpen && mi0 == 59 && s0 == 59
	leftDay := leftHour && h0 == 23
	rightHour := p.RightOpen && mi1 == 0 && s1 == 0
	rightDay := rightHour && h1 == 0

	days, err := p.CountDays()
	if err != nil {
		return 0, err
	}
	n := days * 24
	if !leftDay {
		n -= h0 + btoi(leftHour)
	}
	if !rightDay {
		n -= 23 - h1 + btoi(rightHour)
	}
	return n, nil
}

// CountMinutes refines CountHours under the same exclusion cascade.
func (p Period) CountMinutes() (int, error) {
	_, _, _, _, mi0, s0 := parts(p.initial)
	_, _, _, _, mi1, s1 := parts(p.final)

	leftHour := p.LeftOpen && mi0 == 59 && s0 == 59
	leftMinute := p.LeftOpen && s0 == 59
	rightHour := p.RightOpen && mi1 == 0 && s1 == 0
	rightMinute := p.RightOpen && s1 == 0

	hours, err := p.CountHours()
	if err != nil {
		return 0, err
	}
	n := hours * 60
	if !leftHour {
		n -= mi0 + btoi(leftMinute)
	}
	if !rightHour {
		n -= 59 - mi1 + btoi(rightMinute)
	}
	return n, nil
}

// CountSeconds refines CountMinutes; here the open flags always exclude
// exactly their endpoint second unless a coarser level already did.
func (p Period) CountSeconds() (int, error) {
	_, _, _, _, _, s0 := parts(p.initial)
	_, _, _, _, _, s1 := parts(p.final)

	leftMinute := p.LeftOpen && s0 == 59
	rightMinute := p.RightOpen && s1 == 0

	minutes, err := p.CountMinutes()
	if err != nil {
		return 0, err
	}
	n := minutes * 60
	if !leftMinute {
		n -= s0 + btoi(p.LeftOpen)
	}
	if !rightMinute {
		n -= 59 - s1 + btoi(p.RightOpen)
	}
	return n, nil
}

// Len expresses the period's length in the given unit by reducing through
// the exact second count. Cycle and year lengths use the tables of the
// period's start.
func (p Period) Len(slot int) (float64, error) {
	secs, err := p.CountSeconds()
	if err != nil {
		return 0, err
	}
	switch slot {
	case timevec.SlotSecond:
		return float64(secs), nil
	case timevec.SlotMinute:
		return float64(secs) / 60, nil
	case timevec.SlotHour:
		return float64(secs) / 3600, nil
	case timevec.SlotDay:
		return float64(secs) / 86400, nil
	case timevec.SlotCycle:
		y0, c0, _, _, _, _ := parts(p.initial)
		days, err := p.Calendar().CountDaysInCycle(c0, y0)
		if err != nil {
			return 0, err
		}
		if days < 0 {
			return 0, timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
				"cycle length undefined for open cycle in %q calendar", p.Calendar().Alias)
		}
		return float64(secs) / (86400 * float64(days)), nil
	case timevec.SlotYear:
		y0, _, _, _, _, _ := parts(p.initial)
		days, err := p.Calendar().CountDaysInYear(y0)
		if err != nil {
			return 0, err
		}
		if days < 0 {
			return 0, timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
				"year length undefined for open cycles in %q calendar", p.Calendar().Alias)
		}
		return float64(secs) / (86400 * float64(days)), nil
	default:
		return 0, timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
			"unknown length unit %d", slot)
	}
}
