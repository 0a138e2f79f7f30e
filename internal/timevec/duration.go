package timevec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cfcal/internal/timeerr"
)

// Duration is a signed time interval over the six vector units. Unlike a
// Vector it carries no mask: every slot is present and defaults to zero. No
// calendar is attached, so normalization folds seconds/minutes/hours into
// days but never crosses into cycles or years.
type Duration struct {
	d [Slots]float64
}

// NewDuration builds a Duration from up to six values, year first. It panics
// when given more than six values.
func NewDuration(vals ...float64) Duration {
	if len(vals) > Slots {
		panic("timevec: too many duration elements")
	}
	var out Duration
	copy(out.d[:], vals)
	return out
}

// DurationFromVector converts a Vector into a Duration; unset slots become
// zero.
func DurationFromVector(v Vector) Duration {
	var out Duration
	for i := 0; i < Slots; i++ {
		if val, ok := v.At(i); ok {
			out.d[i] = val
		}
	}
	return out
}

// Canonical single-unit durations.
var (
	OneYear   = NewDuration(1)
	OneCycle  = NewDuration(0, 1)
	OneDay    = NewDuration(0, 0, 1)
	OneHour   = NewDuration(0, 0, 0, 1)
	OneMinute = NewDuration(0, 0, 0, 0, 1)
	OneSecond = NewDuration(0, 0, 0, 0, 0, 1)
)

// Unit builds a duration of n in the given slot.
func Unit(slot int, n float64) Duration {
	var out Duration
	out.d[slot] = n
	return out
}

func (d Duration) Year() float64   { return d.d[SlotYear] }
func (d Duration) Cycle() float64  { return d.d[SlotCycle] }
func (d Duration) Day() float64    { return d.d[SlotDay] }
func (d Duration) Hour() float64   { return d.d[SlotHour] }
func (d Duration) Minute() float64 { return d.d[SlotMinute] }
func (d Duration) Second() float64 { return d.d[SlotSecond] }

// At returns the value in the given slot.
func (d Duration) At(slot int) float64 { return d.d[slot] }

// IsZero reports whether every slot is zero.
func (d Duration) IsZero() bool {
	return d.d == Duration{}.d
}

func (d Duration) Add(other Duration) Duration {
	out := d
	for i := range out.d {
		out.d[i] += other.d[i]
	}
	return out
}

func (d Duration) Sub(other Duration) Duration {
	return d.Add(other.Scale(-1))
}

func (d Duration) Scale(k float64) Duration {
	out := d
	for i := range out.d {
		out.d[i] *= k
	}
	return out
}

// fold moves the overloaded or negative value of slot from into slot to,
// using the given modulus with floor semantics: -5 seconds becomes
// -1 minute + 55 seconds, never a truncation toward zero.
func (d Duration) fold(from, to int, modulus float64) Duration {
	out := d
	val := out.d[from]
	if abs := math.Abs(val); abs >= modulus {
		out.d[to] += math.Trunc(val / modulus)
		out.d[from] = math.Copysign(math.Mod(abs, modulus), val)
	}
	if out.d[from] < 0 {
		out.d[from] += modulus
		out.d[to]--
	}
	return out
}

// SecondsToMinutes folds an out-of-range second value into minutes.
// Idempotent once the second slot is within [0,60).
func (d Duration) SecondsToMinutes() Duration { return d.fold(SlotSecond, SlotMinute, 60) }

// SecondsToHours folds an out-of-range second value directly into hours.
func (d Duration) SecondsToHours() Duration { return d.fold(SlotSecond, SlotHour, 3600) }

// SecondsToDays folds an out-of-range second value directly into days.
func (d Duration) SecondsToDays() Duration { return d.fold(SlotSecond, SlotDay, 86400) }

// MinutesToHours folds an out-of-range minute value into hours.
func (d Duration) MinutesToHours() Duration { return d.fold(SlotMinute, SlotHour, 60) }

// MinutesToDays folds an out-of-range minute value directly into days.
func (d Duration) MinutesToDays() Duration { return d.fold(SlotMinute, SlotDay, 1440) }

// HoursToDays folds an out-of-range hour value into days.
func (d Duration) HoursToDays() Duration { return d.fold(SlotHour, SlotDay, 24) }

// propagateDecimals pushes fractional day, hour and minute parts down into
// the next finer unit. Year and cycle fractions stay put: without a calendar
// they have no fixed day equivalent.
func (d Duration) propagateDecimals() Duration {
	out := d
	day, dayFrac := math.Modf(out.d[SlotDay])
	out.d[SlotDay] = day
	out.d[SlotHour] += 24 * dayFrac
	hour, hourFrac := math.Modf(out.d[SlotHour])
	out.d[SlotHour] = hour
	out.d[SlotMinute] += 60 * hourFrac
	minute, minuteFrac := math.Modf(out.d[SlotMinute])
	out.d[SlotMinute] = minute
	out.d[SlotSecond] += 60 * minuteFrac
	return out
}

// Normalize propagates sub-day decimals downward and folds out-of-range
// seconds, minutes and hours upward into days.
func (d Duration) Normalize() Duration {
	return d.propagateDecimals().SecondsToMinutes().MinutesToHours().HoursToDays()
}

// Equal compares two durations after normalization. When they differ and
// either side mixes years with cycles/days, or cycles with days, the
// comparison is inherently ambiguous (a cycle has no fixed day count) and
// fails with ErrAmbiguousComparison. Only these pairwise checks apply.
func (d Duration) Equal(other Duration) (bool, error) {
	a := d.Normalize()
	b := other.Normalize()
	if a.d == b.d {
		return true, nil
	}
	cross := func(x, y Duration) bool {
		return x.Year() != 0 && (y.Cycle() != 0 || y.Day() != 0)
	}
	if cross(a, b) || cross(b, a) {
		return false, timeerr.Wrap(timeerr.ErrAmbiguousComparison,
			"year value mixed with cycles or days")
	}
	if (a.Cycle() != 0 && b.Day() != 0) || (b.Cycle() != 0 && a.Day() != 0) {
		return false, timeerr.Wrap(timeerr.ErrAmbiguousComparison,
			"cycle value mixed with days")
	}
	return false, nil
}

// Vector re-expresses the duration as a fully set Vector.
func (d Duration) Vector() Vector {
	var v Vector
	for i := 0; i < Slots; i++ {
		v.values[i] = d.d[i]
		v.set[i] = true
	}
	return v
}

func (d Duration) String() string {
	var parts []string
	for i := 0; i < Slots; i++ {
		if d.d[i] != 0 {
			parts = append(parts, fmt.Sprintf("%g %s", d.d[i], SlotNames[i]))
		}
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}

var unitSlots = map[byte]int{
	'y': SlotYear,
	'c': SlotCycle,
	'd': SlotDay,
	'h': SlotHour,
	'm': SlotMinute,
	's': SlotSecond,
}

// ParseDuration reads either a shorthand like "1d", "6h", "2c" (unit letters
// y c d h m s) or a comma-separated vector like "0,0,1,6".
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, timeerr.Wrap(timeerr.ErrInvalidTimeVector, "empty duration")
	}
	if strings.Contains(s, ",") {
		fields := strings.Split(s, ",")
		if len(fields) > Slots {
			return Duration{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"duration vector has %d elements, at most %d allowed", len(fields), Slots)
		}
		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return Duration{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
					"duration element %q is not numerical", f)
			}
			vals[i] = v
		}
		return NewDuration(vals...), nil
	}
	slot, ok := unitSlots[s[len(s)-1]]
	if !ok {
		return Duration{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"duration %q has no unit suffix", s)
	}
	n, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return Duration{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"duration %q is not numerical", s)
	}
	return Unit(slot, n), nil
}
