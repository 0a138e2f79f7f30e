// Package export renders sampled dates and recurring periods as iCalendar
// payloads. ICS is a civil-Gregorian format, so only the Gregorian-family
// calendars can be exported; model calendars like 360_day have no civil
// equivalent and are rejected.
package export

import (
	"fmt"
	"math"
	"time"

	ical "github.com/arran4/golang-ical"

	"cfcal/internal/calendar"
	"cfcal/internal/date"
	appLog "cfcal/internal/log"
	"cfcal/internal/period"
	"cfcal/internal/timeerr"
	"cfcal/internal/timevec"
)

// exportable reports whether the calendar's dates can be written as civil
// timestamps.
func exportable(cal *calendar.Calendar) bool {
	switch cal.Alias {
	case "gregorian", "proleptic_gregorian", "julian":
		return true
	default:
		return false
	}
}

func checkExportable(cal *calendar.Calendar) error {
	if !exportable(cal) {
		return timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
			"%q calendar has no civil iCalendar form", cal.Alias)
	}
	return nil
}

// hasClock reports whether the date's resolution reaches the hour slot.
func hasClock(d date.Date) bool {
	return d.Resolution() > timevec.SlotHour
}

// civilTime maps a date's slot values onto a UTC time.Time. The cycle slot
// becomes the civil month; callers have already checked the calendar family.
func civilTime(d date.Date) time.Time {
	vec := d.Vector()
	at := func(i int) int { v, _ := vec.At(i); return int(v) }
	sec, _ := vec.Second()
	_, frac := math.Modf(sec)
	nanos := int(frac * 1e9)
	return time.Date(at(timevec.SlotYear), time.Month(at(timevec.SlotCycle)),
		at(timevec.SlotDay), at(timevec.SlotHour), at(timevec.SlotMinute),
		int(sec), nanos, time.UTC)
}

// ICS renders one VEVENT per date of the collection. Dates without a clock
// become all-day events.
func ICS(col date.Collection, name string) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//cfcal//EN")
	now := time.Now().UTC()
	for i := 0; i < col.Len(); i++ {
		d := col.At(i)
		if err := checkExportable(d.Calendar()); err != nil {
			return nil, err
		}
		ev := cal.AddEvent(fmt.Sprintf("%s-%d@cfcal", name, i))
		ev.SetDtStampTime(now)
		ev.SetSummary(name)
		t := civilTime(d)
		if hasClock(d) {
			ev.SetStartAt(t)
			ev.SetEndAt(t)
		} else {
			ev.SetAllDayStartAt(t)
			ev.SetAllDayEndAt(t.AddDate(0, 0, 1))
		}
	}
	appLog.Info("ics export completed", "name", name, "event_count", col.Len())
	return cal, nil
}

// RecurringICS renders the period and step as a single VEVENT carrying an
// RRULE, bounded by an UNTIL at the period end.
func RecurringICS(p period.Period, step timevec.Duration, name string) (*ical.Calendar, error) {
	if err := checkExportable(p.Calendar()); err != nil {
		return nil, err
	}
	rule, err := RRule(step)
	if err != nil {
		return nil, err
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//cfcal//EN")
	ev := cal.AddEvent(fmt.Sprintf("%s@cfcal", name))
	ev.SetDtStampTime(time.Now().UTC())
	ev.SetSummary(name)
	start := civilTime(p.Initial())
	until := civilTime(p.Final())
	if hasClock(p.Initial()) {
		ev.SetStartAt(start)
		ev.SetEndAt(start)
	} else {
		ev.SetAllDayStartAt(start)
	}
	ev.SetProperty(ical.ComponentPropertyRrule,
		fmt.Sprintf("%s;UNTIL=%s", rule, until.Format("20060102T150405Z")))
	return cal, nil
}
