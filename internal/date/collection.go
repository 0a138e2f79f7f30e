package date

import (
	"cfcal/internal/calendar"
	"cfcal/internal/log"
	"cfcal/internal/timeerr"
	"cfcal/internal/timevec"
)

// RowError ties a per-element failure to its position in the input. Failures
// never abort a whole batch; callers decide whether to skip or retry a row.
type RowError struct {
	Index int
	Err   error
}

func (e RowError) Error() string { return e.Err.Error() }

func (e RowError) Unwrap() error { return e.Err }

// Collection is a vector of dates, each potentially bound to a different
// calendar. Calendar-dependent bulk operations partition the elements by
// calendar identity, run the scalar logic per partition, and scatter the
// results back by original index; calendar-agnostic ones work elementwise.
type Collection struct {
	dates []Date
}

// NewCollection wraps existing dates.
func NewCollection(dates ...Date) Collection {
	return Collection{dates: dates}
}

// Bulk builds a collection from an N×k (k ≤ 6) numeric matrix plus an
// optional per-row validity mask and per-row calendars (a single calendar
// broadcasts). This is the boundary used for NetCDF time-vector arrays and
// decoded GRIB date/time fields. Malformed rows are reported individually
// and skipped, never failing the batch.
func Bulk(rows [][]float64, set [][]bool, cals []*calendar.Calendar) (Collection, []RowError) {
	var out Collection
	var errs []RowError
	for i, row := range rows {
		cal := calendarForRow(cals, i)
		var rowSet []bool
		if set != nil {
			rowSet = set[i]
		} else {
			rowSet = make([]bool, len(row))
			for j := range rowSet {
				rowSet[j] = true
			}
		}
		vec, err := timevec.FromMasked(row, rowSet)
		if err != nil {
			errs = append(errs, RowError{Index: i, Err: err})
			continue
		}
		d, err := New(vec, cal)
		if err != nil {
			errs = append(errs, RowError{Index: i, Err: err})
			continue
		}
		out.dates = append(out.dates, d)
	}
	if len(errs) > 0 {
		log.Debug("bulk date construction skipped rows",
			"skipped", len(errs), "total", len(rows))
	}
	return out, errs
}

func calendarForRow(cals []*calendar.Calendar, i int) *calendar.Calendar {
	switch {
	case len(cals) == 0:
		return calendar.CalGregorian
	case len(cals) == 1:
		return cals[0]
	case i < len(cals):
		return cals[i]
	default:
		return cals[len(cals)-1]
	}
}

func (c Collection) Len() int { return len(c.dates) }

// At returns the i-th date.
func (c Collection) At(i int) Date { return c.dates[i] }

// Dates returns a copy of the element slice.
func (c Collection) Dates() []Date {
	out := make([]Date, len(c.dates))
	copy(out, c.dates)
	return out
}

// Append returns a collection with d added.
func (c Collection) Append(d Date) Collection {
	dates := make([]Date, 0, len(c.dates)+1)
	dates = append(dates, c.dates...)
	return Collection{dates: append(dates, d)}
}

// Equal reports elementwise strict equality.
func (c Collection) Equal(other Collection) bool {
	if len(c.dates) != len(other.dates) {
		return false
	}
	for i := range c.dates {
		if !c.dates[i].Equal(other.dates[i]) {
			return false
		}
	}
	return true
}

// calendars returns the distinct calendar aliases, in first-seen order.
func (c Collection) calendars() []*calendar.Calendar {
	var out []*calendar.Calendar
	seen := map[string]bool{}
	for _, d := range c.dates {
		if !seen[d.Calendar().Alias] {
			seen[d.Calendar().Alias] = true
			out = append(out, d.Calendar())
		}
	}
	return out
}

// singleCalendar returns the collection's calendar when it is unique.
func (c Collection) singleCalendar() (*calendar.Calendar, error) {
	cals := c.calendars()
	if len(cals) != 1 {
		return nil, timeerr.Wrapf(timeerr.ErrIncompatibleCalendars,
			"collection holds %d calendars", len(cals))
	}
	return cals[0], nil
}

// Add applies the duration to every element, partitioned per calendar so no
// calendar's tables leak into another's batch. Elements that fail keep their
// original value and are reported in the returned RowErrors.
func (c Collection) Add(dur timevec.Duration) (Collection, []RowError) {
	out := Collection{dates: make([]Date, len(c.dates))}
	copy(out.dates, c.dates)
	var errs []RowError
	for _, cal := range c.calendars() {
		for i, d := range c.dates {
			if !d.Calendar().Equal(cal) {
				continue
			}
			nd, err := d.Add(dur)
			if err != nil {
				errs = append(errs, RowError{Index: i, Err: err})
				continue
			}
			out.dates[i] = nd
		}
	}
	return out, errs
}

// Sub applies the negated duration; see Add.
func (c Collection) Sub(dur timevec.Duration) (Collection, []RowError) {
	return c.Add(dur.Scale(-1))
}

// Min returns the lexicographically smallest date. A single shared calendar
// is required.
func (c Collection) Min() (Date, error) {
	return c.reduce(-1)
}

// Max returns the lexicographically largest date. A single shared calendar
// is required.
func (c Collection) Max() (Date, error) {
	return c.reduce(1)
}

// reduce performs the slot-wise lexicographic reduction: find the extreme
// year, then among the ties the extreme cycle, and so on down the slots.
func (c Collection) reduce(direction int) (Date, error) {
	if _, err := c.singleCalendar(); err != nil {
		return Date{}, err
	}
	if len(c.dates) == 0 {
		return Date{}, timeerr.Wrap(timeerr.ErrInvalidTimeVector, "empty collection")
	}
	remains := c.dates
	for slot := 0; slot < timevec.Slots; slot++ {
		extreme, _ := remains[0].vec.At(slot)
		for _, d := range remains[1:] {
			v, _ := d.vec.At(slot)
			if (direction < 0 && v < extreme) || (direction > 0 && v > extreme) {
				extreme = v
			}
		}
		var next []Date
		for _, d := range remains {
			if v, _ := d.vec.At(slot); v == extreme {
				next = append(next, d)
			}
		}
		remains = next
		if len(remains) == 1 {
			break
		}
	}
	return remains[0], nil
}

// Raw re-exports the collection as an N×6 matrix plus the parallel set mask,
// the storage form consumed by the I/O layers.
func (c Collection) Raw() ([][timevec.Slots]float64, [][timevec.Slots]bool) {
	vals := make([][timevec.Slots]float64, len(c.dates))
	masks := make([][timevec.Slots]bool, len(c.dates))
	for i, d := range c.dates {
		vals[i], masks[i] = d.Raw()
	}
	return vals, masks
}
