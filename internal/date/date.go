// Package date binds partial-precision time vectors to calendar definitions
// and implements calendar-aware date arithmetic: carries and borrows cross
// cycle and year boundaries by re-deriving the calendar's tables at every
// crossing, so year-dependent cycle lengths (leap years, the 1582 Gregorian
// reform) are honored exactly.
package date

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cfcal/internal/calendar"
	"cfcal/internal/timeerr"
	"cfcal/internal/timevec"
)

// secondThreshold is the rounding threshold applied to residual fractional
// seconds on dates that carry no decimals.
const secondThreshold = 1e-4

// Date is an immutable time vector bound to one calendar. Unset slots carry
// calendar defaults (cycle 1, first day of the cycle, midnight) in their
// values while the set mask keeps the original resolution for comparison and
// rendering.
type Date struct {
	vec      timevec.Vector
	cal      *calendar.Calendar
	decimals bool
}

// New validates vec against cal and fills defaults into the unset slots.
// Fractional values are only accepted in the second slot; coarser fractions
// must be pre-normalized with Implicit.
func New(vec timevec.Vector, cal *calendar.Calendar) (Date, error) {
	if cal == nil {
		return Date{}, timeerr.Wrap(timeerr.ErrUnknownCalendar, "date has no calendar")
	}
	if _, ok := vec.Year(); !ok {
		return Date{}, timeerr.Wrap(timeerr.ErrInvalidTimeVector, "empty time vector")
	}
	for i := timevec.SlotYear; i < timevec.SlotSecond; i++ {
		if val, ok := vec.At(i); ok {
			if _, frac := math.Modf(val); frac != 0 {
				return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
					"unprocessed decimals in %s slot of date", timevec.SlotNames[i])
			}
		}
	}
	for i := timevec.SlotCycle; i <= timevec.SlotSecond; i++ {
		if val, ok := vec.At(i); ok && val < 0 {
			return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"negative %s value in date", timevec.SlotNames[i])
		}
	}

	year := intAt(vec, timevec.SlotYear)

	// Cycle: default 1, else must exist in the year's cycle range.
	if cv, ok := vec.Cycle(); ok {
		if int(cv) < 1 || int(cv) > cal.CountCyclesInYear(year) {
			return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"cycle value %d outside of %q calendar", int(cv), cal.Alias)
		}
	} else {
		vec = vec.Fill(timevec.SlotCycle, 1)
	}
	cycle := intAt(vec, timevec.SlotCycle)

	days, err := cal.DaysInCycle(cycle, year)
	if err != nil {
		return Date{}, err
	}
	if dv, ok := vec.Day(); ok {
		if !days.Contains(int(dv)) {
			return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"day value %d outside of %q calendar", int(dv), cal.Alias)
		}
	} else {
		vec = vec.Fill(timevec.SlotDay, float64(days.First()))
	}

	if hv, ok := vec.Hour(); ok && hv >= 24 {
		return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"hour value %g outside of range", hv)
	}
	if mv, ok := vec.Minute(); ok && mv >= 60 {
		return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"minute value %g outside of range", mv)
	}
	sv, sok := vec.Second()
	if sok && sv >= 60 {
		return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"second value %g outside of range", sv)
	}
	_, sfrac := math.Modf(sv)

	return Date{vec: vec, cal: cal, decimals: sok && sfrac != 0}, nil
}

// Must builds a date from leading vector values and panics on failure.
// Intended for tests and package-level constants.
func Must(cal *calendar.Calendar, vals ...float64) Date {
	vec, err := timevec.New(vals...)
	if err != nil {
		panic(err)
	}
	d, err := New(vec, cal)
	if err != nil {
		panic(err)
	}
	return d
}

// Implicit splits the fractional part off the last set slot, builds the
// integral date, and applies the fraction as a duration of that unit.
func Implicit(vec timevec.Vector, cal *calendar.Calendar) (Date, error) {
	res := vec.Resolution()
	if res == 0 {
		return Date{}, timeerr.Wrap(timeerr.ErrInvalidTimeVector, "empty time vector")
	}
	last := res - 1
	val, _ := vec.At(last)
	whole, frac := math.Modf(val)
	d, err := New(vec.With(last, whole), cal)
	if err != nil {
		return Date{}, err
	}
	if frac == 0 {
		return d, nil
	}
	return d.Add(timevec.Unit(last, frac))
}

func intAt(v timevec.Vector, i int) int {
	val, _ := v.At(i)
	return int(val)
}

// Calendar returns the calendar the date is bound to.
func (d Date) Calendar() *calendar.Calendar { return d.cal }

// Vector returns the underlying time vector, defaults filled.
func (d Date) Vector() timevec.Vector { return d.vec }

// Resolution is the number of explicitly set slots.
func (d Date) Resolution() int { return d.vec.Resolution() }

// Raw decomposes the date into six values plus the set mask for storage.
func (d Date) Raw() ([timevec.Slots]float64, [timevec.Slots]bool) { return d.vec.Raw() }

func (d Date) year() int       { return intAt(d.vec, timevec.SlotYear) }
func (d Date) cycle() int      { return intAt(d.vec, timevec.SlotCycle) }
func (d Date) day() int        { return intAt(d.vec, timevec.SlotDay) }
func (d Date) hour() int       { return intAt(d.vec, timevec.SlotHour) }
func (d Date) minute() int     { return intAt(d.vec, timevec.SlotMinute) }
func (d Date) second() float64 { v, _ := d.vec.Second(); return v }

// Equal is strict representation equality: same calendar, same set mask and
// same slot values.
func (d Date) Equal(other Date) bool {
	return d.cal.Equal(other.cal) && d.vec.Equal(other.vec)
}

// Compare orders two dates of the same calendar lexicographically over the
// slots set on both sides. It returns -1, 0 or +1, ErrIncompatibleCalendars
// across calendars, and ErrAmbiguousComparison when no shared slot differs
// but the resolutions do.
func (d Date) Compare(other Date) (int, error) {
	if !d.cal.Equal(other.cal) {
		return 0, timeerr.Wrapf(timeerr.ErrIncompatibleCalendars,
			"comparing %q with %q", d.cal.Alias, other.cal.Alias)
	}
	for i := 0; i < timevec.Slots; i++ {
		av, aok := d.vec.At(i)
		bv, bok := other.vec.At(i)
		if !aok || !bok {
			continue
		}
		if av < bv {
			return -1, nil
		}
		if av > bv {
			return 1, nil
		}
	}
	if d.Resolution() != other.Resolution() {
		return 0, timeerr.Wrapf(timeerr.ErrAmbiguousComparison,
			"resolutions %d and %d share no differing slot",
			d.Resolution(), other.Resolution())
	}
	return 0, nil
}

// Before reports d < other.
func (d Date) Before(other Date) (bool, error) {
	c, err := d.Compare(other)
	return c < 0, err
}

// After reports d > other.
func (d Date) After(other Date) (bool, error) {
	c, err := d.Compare(other)
	return c > 0, err
}

// DayNumberInYear returns the 1-based ordinal of the date's day within its
// year.
func (d Date) DayNumberInYear() (int, error) {
	w := d.work()
	return w.dayNumberInYear()
}

// work is the mutable scalar representation used by the arithmetic.
type work struct {
	cal      *calendar.Calendar
	y, c, dy int
	h, mi    int
	s        float64
	set      [timevec.Slots]bool
	decimals bool
}

func (d Date) work() *work {
	_, set := d.vec.Raw()
	return &work{
		cal: d.cal,
		y:   d.year(), c: d.cycle(), dy: d.day(),
		h: d.hour(), mi: d.minute(), s: d.second(),
		set:      set,
		decimals: d.decimals,
	}
}

func (w *work) date() (Date, error) {
	vals := []float64{float64(w.y), float64(w.c), float64(w.dy),
		float64(w.h), float64(w.mi), w.s}
	var vec timevec.Vector
	for i, v := range vals {
		if w.set[i] {
			vec = vec.With(i, v)
		} else {
			vec = vec.Fill(i, v)
		}
	}
	return New(vec, w.cal)
}

// markSet extends the resolution down to slot i; the defaults already stored
// in the coarser slots become explicit.
func (w *work) markSet(i int) {
	for j := 0; j <= i; j++ {
		w.set[j] = true
	}
}

func (w *work) dayNumberInYear() (int, error) {
	n := 0
	for i := 1; i < w.c; i++ {
		count, err := w.cal.CountDaysInCycle(i, w.y)
		if err != nil {
			return 0, err
		}
		if count < 0 {
			return 0, timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
				"day ordinal undefined for open cycle in %q calendar", w.cal.Alias)
		}
		n += count
	}
	days, err := w.cal.DaysInCycle(w.c, w.y)
	if err != nil {
		return 0, err
	}
	idx := days.Index(w.dy)
	if idx == 0 {
		return 0, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"day value %d outside of %q calendar", w.dy, w.cal.Alias)
	}
	return n + idx, nil
}

func (w *work) addYears(inc float64) error {
	whole, frac := math.Modf(inc)
	w.y += int(whole)
	if inc != 0 {
		w.markSet(timevec.SlotYear)
	}
	if frac != 0 {
		daysInYear, err := w.cal.CountDaysInYear(w.y)
		if err != nil {
			return err
		}
		if daysInYear < 0 {
			return timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
				"fractional years undefined for open cycles in %q calendar", w.cal.Alias)
		}
		return w.addDays(frac * float64(daysInYear))
	}
	return nil
}

func (w *work) addCycles(inc float64) error {
	whole, frac := math.Modf(inc)
	n := int(whole)
	if inc != 0 {
		w.markSet(timevec.SlotCycle)
	}
	cycles := w.cal.CountCyclesInYear(w.y)
	for w.c+n > cycles {
		n -= cycles - w.c + 1
		w.y++
		w.c = 1
		cycles = w.cal.CountCyclesInYear(w.y)
	}
	for w.c+n < 1 {
		n += w.c
		w.y--
		w.c = w.cal.CountCyclesInYear(w.y)
	}
	w.c += n
	if frac != 0 {
		daysInCycle, err := w.cal.CountDaysInCycle(w.c, w.y)
		if err != nil {
			return err
		}
		if daysInCycle < 0 {
			return timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
				"fractional cycles undefined for open cycle in %q calendar", w.cal.Alias)
		}
		return w.addDays(frac * float64(daysInCycle))
	}
	return nil
}

func (w *work) addDays(inc float64) error {
	whole, frac := math.Modf(inc)
	n := int(whole)
	if inc != 0 {
		w.markSet(timevec.SlotDay)
	}
	days, err := w.cal.DaysInCycle(w.c, w.y)
	if err != nil {
		return err
	}
	if days.Unbounded() {
		w.dy += n
	} else if err := w.addBoundedDays(n); err != nil {
		return err
	}
	if frac != 0 {
		return w.addHours(24 * frac)
	}
	return nil
}

// addBoundedDays walks whole years first, then whole cycles, re-deriving the
// day tables at every boundary crossing.
func (w *work) addBoundedDays(n int) error {
	dayInYear, err := w.dayNumberInYear()
	if err != nil {
		return err
	}
	daysInYear, err := w.cal.CountDaysInYear(w.y)
	if err != nil {
		return err
	}
	for dayInYear+n > daysInYear {
		n -= daysInYear - dayInYear + 1
		w.y++
		w.c = 1
		if err := w.firstDayOfCycle(); err != nil {
			return err
		}
		dayInYear = 1
		if daysInYear, err = w.cal.CountDaysInYear(w.y); err != nil {
			return err
		}
	}
	for dayInYear+n < 1 {
		n += dayInYear
		w.y--
		w.c = w.cal.CountCyclesInYear(w.y)
		if err := w.lastDayOfCycle(); err != nil {
			return err
		}
		if dayInYear, err = w.cal.CountDaysInYear(w.y); err != nil {
			return err
		}
	}
	days, err := w.cal.DaysInCycle(w.c, w.y)
	if err != nil {
		return err
	}
	dayInCycle := days.Index(w.dy)
	for dayInCycle+n > days.Len() {
		n -= days.Len() - dayInCycle + 1
		w.c++
		if days, err = w.cal.DaysInCycle(w.c, w.y); err != nil {
			return err
		}
		w.dy = days.First()
		dayInCycle = 1
	}
	for dayInCycle+n < 1 {
		n += dayInCycle
		w.c--
		if days, err = w.cal.DaysInCycle(w.c, w.y); err != nil {
			return err
		}
		w.dy = days.Last()
		dayInCycle = days.Len()
	}
	w.dy = days.At(dayInCycle + n)
	return nil
}

func (w *work) firstDayOfCycle() error {
	days, err := w.cal.DaysInCycle(w.c, w.y)
	if err != nil {
		return err
	}
	w.dy = days.First()
	return nil
}

func (w *work) lastDayOfCycle() error {
	days, err := w.cal.DaysInCycle(w.c, w.y)
	if err != nil {
		return err
	}
	w.dy = days.Last()
	return nil
}

func (w *work) addHours(inc float64) error {
	whole, frac := math.Modf(inc)
	if inc != 0 {
		w.markSet(timevec.SlotHour)
	}
	total := w.h + int(whole)
	if total >= 24 || total < 0 {
		if err := w.addDays(math.Floor(float64(total) / 24)); err != nil {
			return err
		}
		total = floorMod(total, 24)
	}
	w.h = total
	if frac != 0 {
		return w.addMinutes(60 * frac)
	}
	return nil
}

func (w *work) addMinutes(inc float64) error {
	whole, frac := math.Modf(inc)
	if inc != 0 {
		w.markSet(timevec.SlotMinute)
	}
	total := w.mi + int(whole)
	if total >= 60 || total < 0 {
		if err := w.addHours(math.Floor(float64(total) / 60)); err != nil {
			return err
		}
		total = floorMod(total, 60)
	}
	w.mi = total
	if frac != 0 {
		return w.addSeconds(60 * frac)
	}
	return nil
}

func (w *work) addSeconds(inc float64) error {
	if inc != 0 {
		w.markSet(timevec.SlotSecond)
	}
	total := w.s + inc
	if total >= 60 || total < 0 {
		if err := w.addMinutes(math.Floor(total / 60)); err != nil {
			return err
		}
		total = total - 60*math.Floor(total/60)
	}
	whole, frac := math.Modf(total)
	if frac != 0 && !w.decimals {
		// Dates without decimals stay that way when the residue is noise.
		switch {
		case frac < secondThreshold:
			total = whole
		case frac > 1-secondThreshold:
			total = whole + 1
			if total >= 60 {
				if err := w.addMinutes(1); err != nil {
					return err
				}
				total -= 60
			}
		default:
			w.decimals = true
		}
	}
	w.s = total
	return nil
}

// AddYears adds a possibly fractional number of years; the fraction is
// interpreted as that fraction of the resulting year's exact day count.
func (d Date) AddYears(inc float64) (Date, error) { return d.apply((*work).addYears, inc) }

// AddCycles adds cycles with year carry; a fraction becomes that fraction of
// the landing cycle's day count.
func (d Date) AddCycles(inc float64) (Date, error) { return d.apply((*work).addCycles, inc) }

// AddDays adds days with cycle and year carry; a fraction becomes hours.
func (d Date) AddDays(inc float64) (Date, error) { return d.apply((*work).addDays, inc) }

// AddHours adds hours with day carry; a fraction becomes minutes.
func (d Date) AddHours(inc float64) (Date, error) { return d.apply((*work).addHours, inc) }

// AddMinutes adds minutes with hour carry; a fraction becomes seconds.
func (d Date) AddMinutes(inc float64) (Date, error) { return d.apply((*work).addMinutes, inc) }

// AddSeconds adds seconds with minute carry. On dates without decimals a
// residual fraction below the rounding threshold is discarded.
func (d Date) AddSeconds(inc float64) (Date, error) { return d.apply((*work).addSeconds, inc) }

func (d Date) apply(op func(*work, float64) error, inc float64) (Date, error) {
	w := d.work()
	if err := op(w, inc); err != nil {
		return Date{}, err
	}
	return w.date()
}

// Add applies a duration component by component in the fixed order years,
// cycles, days, hours, minutes, seconds. The order matters: adding one cycle
// then one day is not the same as one day then one cycle, so combined
// durations depend on this documented sequence.
func (d Date) Add(dur timevec.Duration) (Date, error) {
	w := d.work()
	steps := []func(*work, float64) error{
		(*work).addYears, (*work).addCycles, (*work).addDays,
		(*work).addHours, (*work).addMinutes, (*work).addSeconds,
	}
	for i, step := range steps {
		if err := step(w, dur.At(i)); err != nil {
			return Date{}, err
		}
	}
	return w.date()
}

// Sub subtracts a duration (Add of the negated duration, same ordering).
func (d Date) Sub(dur timevec.Duration) (Date, error) {
	return d.Add(dur.Scale(-1))
}

// String renders the canonical form YYYY[-CC[-DD[THH[:MM[:SS]]]]]Z with
// trailing components only when set; the Z appears once the hour is.
func (d Date) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d", d.year())
	if _, ok := d.vec.Cycle(); ok {
		fmt.Fprintf(&b, "-%02d", d.cycle())
	}
	if _, ok := d.vec.Day(); ok {
		fmt.Fprintf(&b, "-%02d", d.day())
	}
	hourSet := false
	if _, ok := d.vec.Hour(); ok {
		hourSet = true
		fmt.Fprintf(&b, "T%02d", d.hour())
	}
	if _, ok := d.vec.Minute(); ok {
		fmt.Fprintf(&b, ":%02d", d.minute())
	}
	if _, ok := d.vec.Second(); ok {
		if d.decimals {
			fmt.Fprintf(&b, ":%09.6f", d.second())
		} else {
			fmt.Fprintf(&b, ":%02d", int(d.second()))
		}
	}
	if hourSet {
		b.WriteByte('Z')
	}
	return b.String()
}

// Parse reads the canonical string form back into a date of the given
// calendar.
func Parse(s string, cal *calendar.Calendar) (Date, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if s == "" {
		return Date{}, timeerr.Wrap(timeerr.ErrInvalidTimeVector, "empty date string")
	}
	datePart := s
	var clockPart string
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart, clockPart = s[:i], s[i+1:]
	}

	var vals []float64
	neg := strings.HasPrefix(datePart, "-")
	if neg {
		datePart = datePart[1:]
	}
	fields := strings.Split(datePart, "-")
	if len(fields) > 3 {
		return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"date string %q has too many components", s)
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"date component %q is not numerical", f)
		}
		if i == 0 && neg {
			v = -v
		}
		vals = append(vals, v)
	}
	if clockPart != "" {
		if len(vals) != 3 {
			return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"date string %q has a clock but no full day", s)
		}
		clockFields := strings.Split(clockPart, ":")
		if len(clockFields) > 3 {
			return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"clock in %q has too many components", s)
		}
		for _, f := range clockFields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return Date{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
					"clock component %q is not numerical", f)
			}
			vals = append(vals, v)
		}
	}
	vec, err := timevec.New(vals...)
	if err != nil {
		return Date{}, err
	}
	return New(vec, cal)
}

func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
