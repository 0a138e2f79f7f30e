package period

import (
	"cfcal/internal/date"
	"cfcal/internal/timeerr"
	"cfcal/internal/timevec"
)

// ConvexHull returns the closed period spanning the collection. A collection
// whose elements all collapse to one instant has no period; that instant is
// returned instead, so exactly one of the two results is non-nil.
func ConvexHull(col date.Collection) (*Period, *date.Date, error) {
	min, err := col.Min()
	if err != nil {
		return nil, nil, err
	}
	max, err := col.Max()
	if err != nil {
		return nil, nil, err
	}
	if min.Equal(max) {
		return nil, &min, nil
	}
	p, err := New(min, max, false, false)
	if err != nil {
		return nil, nil, err
	}
	return &p, nil, nil
}

// Intersection keeps the dates that fall inside p, honoring its open flags.
func Intersection(col date.Collection, p Period) (date.Collection, error) {
	var kept []date.Date
	for i := 0; i < col.Len(); i++ {
		d := col.At(i)
		cmp, err := d.Compare(p.initial)
		if err != nil {
			return date.Collection{}, err
		}
		if cmp < 0 || (p.LeftOpen && cmp == 0) {
			continue
		}
		cmp, err = d.Compare(p.final)
		if err != nil {
			return date.Collection{}, err
		}
		if cmp > 0 || (p.RightOpen && cmp == 0) {
			continue
		}
		kept = append(kept, d)
	}
	return date.NewCollection(kept...), nil
}

func (p Period) countAt(slot int) (int, error) {
	switch slot {
	case timevec.SlotYear:
		return p.CountYears()
	case timevec.SlotCycle:
		return p.CountCycles()
	case timevec.SlotDay:
		return p.CountDays()
	case timevec.SlotHour:
		return p.CountHours()
	case timevec.SlotMinute:
		return p.CountMinutes()
	default:
		return p.CountSeconds()
	}
}

// Timestep recovers the uniform step of a regularly sampled series: the step
// is derived from the first pair at the series' resolution, folded into the
// largest sub-day units, and then verified against every element. Series
// that are not strictly increasing with that exact step fail with
// ErrUnsupportedOperation.
func Timestep(col date.Collection) (timevec.Duration, error) {
	if col.Len() < 2 {
		return timevec.Duration{}, timeerr.Wrap(timeerr.ErrUnsupportedOperation,
			"need more than one date to infer a timestep")
	}
	slot := col.At(0).Resolution() - 1
	first, err := New(col.At(0), col.At(1), false, false)
	if err != nil {
		return timevec.Duration{}, err
	}
	count, err := first.countAt(slot)
	if err != nil {
		return timevec.Duration{}, err
	}
	// A closed count includes both endpoints; the step spans count-1 units.
	n := count - 1
	if n <= 0 {
		return timevec.Duration{}, timeerr.Wrap(timeerr.ErrUnsupportedOperation,
			"could not infer a uniform timestep")
	}
	step := timevec.Unit(slot, float64(n))
	switch slot {
	case timevec.SlotSecond:
		step = step.SecondsToMinutes().MinutesToHours().HoursToDays()
	case timevec.SlotMinute:
		step = step.MinutesToHours().HoursToDays()
	case timevec.SlotHour:
		step = step.HoursToDays()
	}
	cur := col.At(0)
	for i := 1; i < col.Len(); i++ {
		if cur, err = cur.Add(step); err != nil {
			return timevec.Duration{}, err
		}
		if !cur.Equal(col.At(i)) {
			return timevec.Duration{}, timeerr.Wrap(timeerr.ErrUnsupportedOperation,
				"series is not regularly sampled")
		}
	}
	return step, nil
}
