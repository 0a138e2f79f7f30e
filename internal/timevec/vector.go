// Package timevec implements the 6-slot partial-precision time vector
// [year, cycle, day, hour, minute, second] and its relative counterpart,
// Duration. Each slot of a Vector is a tagged optional: a numeric value plus
// a set flag, never a sentinel number, so "unset" and "zero" stay distinct.
package timevec

import (
	"fmt"
	"math"
	"strings"

	"cfcal/internal/timeerr"
)

// Slots is the fixed length of a time vector.
const Slots = 6

// Slot indices.
const (
	SlotYear = iota
	SlotCycle
	SlotDay
	SlotHour
	SlotMinute
	SlotSecond
)

// SlotNames maps slot indices to their unit names.
var SlotNames = [Slots]string{"years", "cycles", "days", "hours", "minutes", "seconds"}

// Vector is an immutable partial-precision time vector. The zero value has
// every slot unset.
type Vector struct {
	values [Slots]float64
	set    [Slots]bool
}

// New builds a Vector whose leading len(vals) slots are set.
func New(vals ...float64) (Vector, error) {
	if len(vals) > Slots {
		return Vector{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"time vector has %d elements, at most %d allowed", len(vals), Slots)
	}
	set := make([]bool, len(vals))
	for i := range set {
		set[i] = true
	}
	return FromMasked(vals, set)
}

// FromMasked builds a Vector from values and a parallel set mask; a false
// entry marks the slot unset. vals and set must have equal length of at most
// six; trailing slots default to unset.
func FromMasked(vals []float64, set []bool) (Vector, error) {
	if len(vals) != len(set) {
		return Vector{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"values and mask lengths differ (%d vs %d)", len(vals), len(set))
	}
	if len(vals) > Slots {
		return Vector{}, timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"time vector has %d elements, at most %d allowed", len(vals), Slots)
	}
	var v Vector
	for i := range vals {
		if set[i] {
			v.values[i] = vals[i]
			v.set[i] = true
		}
	}
	if err := v.validate(); err != nil {
		return Vector{}, err
	}
	return v, nil
}

func (v Vector) validate() error {
	seenUnset := false
	for i := 0; i < Slots; i++ {
		if !v.set[i] {
			seenUnset = true
			continue
		}
		if seenUnset {
			return timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"set %s slot follows an unset slot", SlotNames[i])
		}
		if math.IsNaN(v.values[i]) || math.IsInf(v.values[i], 0) {
			return timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"%s value is not finite", SlotNames[i])
		}
	}
	// A fractional part is only legal in the last set slot.
	res := v.Resolution()
	for i := 0; i < res-1; i++ {
		if _, frac := math.Modf(v.values[i]); frac != 0 {
			return timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
				"unprocessed decimals in %s slot", SlotNames[i])
		}
	}
	return nil
}

// Resolution is the number of leading set slots (1 = year only, 6 = full).
func (v Vector) Resolution() int {
	n := 0
	for n < Slots && v.set[n] {
		n++
	}
	return n
}

// At returns the value of slot i and whether it is set.
func (v Vector) At(i int) (float64, bool) {
	return v.values[i], v.set[i]
}

func (v Vector) Year() (float64, bool)   { return v.At(SlotYear) }
func (v Vector) Cycle() (float64, bool)  { return v.At(SlotCycle) }
func (v Vector) Day() (float64, bool)    { return v.At(SlotDay) }
func (v Vector) Hour() (float64, bool)   { return v.At(SlotHour) }
func (v Vector) Minute() (float64, bool) { return v.At(SlotMinute) }
func (v Vector) Second() (float64, bool) { return v.At(SlotSecond) }

// With returns a copy with slot i set to value. The no-gap invariant is the
// caller's responsibility; it is re-checked on construction paths only.
func (v Vector) With(i int, value float64) Vector {
	v.values[i] = value
	v.set[i] = true
	return v
}

// Fill returns a copy with the value of slot i replaced but the set flag
// untouched. Used to store calendar defaults behind an unset slot.
func (v Vector) Fill(i int, value float64) Vector {
	v.values[i] = value
	return v
}

// Equal reports strict equality: identical masks and identical values.
func (v Vector) Equal(other Vector) bool {
	return v.set == other.set && v.values == other.values
}

// Add sums two vectors slot-wise. Adding a non-zero value into an unset slot
// on the other side fails with ErrMaskedOperand.
func (v Vector) Add(other Vector) (Vector, error) {
	if err := checkMaskedness(v, other); err != nil {
		return Vector{}, err
	}
	out := v
	for i := 0; i < Slots; i++ {
		if v.set[i] && other.set[i] {
			out.values[i] = v.values[i] + other.values[i]
		}
	}
	return out, nil
}

// Sub subtracts other slot-wise under the same maskedness rules as Add.
func (v Vector) Sub(other Vector) (Vector, error) {
	return v.Add(other.Scale(-1))
}

// Scale multiplies every set slot by k.
func (v Vector) Scale(k float64) Vector {
	out := v
	for i := 0; i < Slots; i++ {
		if v.set[i] {
			out.values[i] = v.values[i] * k
		}
	}
	return out
}

func checkMaskedness(a, b Vector) error {
	for i := 0; i < Slots; i++ {
		if a.set[i] && !b.set[i] && a.values[i] != 0 {
			return timeerr.Wrapf(timeerr.ErrMaskedOperand,
				"non-zero %s meets an unset slot", SlotNames[i])
		}
		if b.set[i] && !a.set[i] && b.values[i] != 0 {
			return timeerr.Wrapf(timeerr.ErrMaskedOperand,
				"non-zero %s meets an unset slot", SlotNames[i])
		}
	}
	return nil
}

// Raw decomposes the vector into its six values and set flags for storage.
func (v Vector) Raw() ([Slots]float64, [Slots]bool) {
	return v.values, v.set
}

func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < Slots; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		if v.set[i] {
			fmt.Fprintf(&b, "%g", v.values[i])
		} else {
			b.WriteByte('-')
		}
	}
	b.WriteByte(']')
	return b.String()
}
