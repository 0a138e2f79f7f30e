package calendar

import (
	"cfcal/internal/timeerr"
)

// Built-in day tables and cycle layouts for the CF-convention calendars plus
// this library's extensions.

var gregorianMonths = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var temperateSeasons = []string{"Spring", "Summer", "Autumn", "Winter"}

func monthsOfGregorianCalendar(int) []string { return gregorianMonths }

func seasonsOfYear(int) []string { return temperateSeasons }

func singleYearCycle(int) []string { return []string{"Year"} }

var (
	monthDays365 = []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	monthDays366 = []int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

	// October 1582: the Gregorian reform removed the 5th through the 14th.
	october1582 = Days(1, 2, 3, 4, 15, 16, 17, 18, 19, 20, 21, 22,
		23, 24, 25, 26, 27, 28, 29, 30, 31)
)

func checkMonth(month int) error {
	if month < 1 || month > 12 {
		return timeerr.Wrapf(timeerr.ErrInvalidTimeVector,
			"month value %d has to be between 1 and 12", month)
	}
	return nil
}

func daysInMonth360(month, _ int) (DaySeq, error) {
	if err := checkMonth(month); err != nil {
		return DaySeq{}, err
	}
	return DayRange(30), nil
}

func daysInMonth365(month, _ int) (DaySeq, error) {
	if err := checkMonth(month); err != nil {
		return DaySeq{}, err
	}
	return DayRange(monthDays365[month-1]), nil
}

func daysInMonth366(month, _ int) (DaySeq, error) {
	if err := checkMonth(month); err != nil {
		return DaySeq{}, err
	}
	return DayRange(monthDays366[month-1]), nil
}

// daysInMonthJulian: leap year every 4 years.
func daysInMonthJulian(month, year int) (DaySeq, error) {
	if year%4 == 0 {
		return daysInMonth366(month, year)
	}
	return daysInMonth365(month, year)
}

// daysInMonthProlepticGregorian: leap every 4 years, except centuries not
// divisible by 400, extended to all years.
func daysInMonthProlepticGregorian(month, year int) (DaySeq, error) {
	if year%100 == 0 && year%400 != 0 {
		return daysInMonth365(month, year)
	}
	return daysInMonthJulian(month, year)
}

// daysInMonthGregorian switches from Julian to proleptic Gregorian day
// tables at the October 1582 reform; October 5-14, 1582 do not exist.
func daysInMonthGregorian(month, year int) (DaySeq, error) {
	if err := checkMonth(month); err != nil {
		return DaySeq{}, err
	}
	switch {
	case year > 1582 || (year == 1582 && month > 10):
		return daysInMonthProlepticGregorian(month, year)
	case year == 1582 && month == 10:
		return october1582, nil
	default:
		return daysInMonthJulian(month, year)
	}
}

func daysInYear365(_, _ int) (DaySeq, error) {
	return DayRange(365), nil
}

// singleDay collapses the day dimension for calendars that do not track days.
func singleDay(_, _ int) (DaySeq, error) {
	return Days(1), nil
}

// Built-in calendars. The catalog is process-wide constant state; concurrent
// reads are safe.
var (
	Cal360         = New(monthsOfGregorianCalendar, daysInMonth360, leapFeb29, "360_day", "month")
	Cal365         = New(monthsOfGregorianCalendar, daysInMonth365, leapFeb29, "noleap", "month")
	Cal366         = New(monthsOfGregorianCalendar, daysInMonth366, leapFeb29, "all_leap", "month")
	CalJulian      = New(monthsOfGregorianCalendar, daysInMonthJulian, leapFeb29, "julian", "month")
	CalProleptic   = New(monthsOfGregorianCalendar, daysInMonthProlepticGregorian, leapFeb29, "proleptic_gregorian", "month")
	CalGregorian   = New(monthsOfGregorianCalendar, daysInMonthGregorian, leapFeb29, "gregorian", "month")
	CalYearsOnly   = New(singleYearCycle, singleDay, leapFeb29, "years_only", "")
	CalMonthsOnly  = New(monthsOfGregorianCalendar, singleDay, nil, "months_only", "month")
	CalSeasons     = New(seasonsOfYear, singleDay, leapFeb29, "seasons", "season")
	Cal365NoMonths = New(singleYearCycle, daysInYear365, leapFeb29, "365_days_no_months", "")
)

// FromAlias resolves a CF-convention calendar name (or one of the library's
// extensions) to its built-in calendar.
func FromAlias(alias string) (*Calendar, error) {
	switch alias {
	case "360_day":
		return Cal360, nil
	case "noleap", "365_day":
		return Cal365, nil
	case "all_leap", "366_day":
		return Cal366, nil
	case "julian":
		return CalJulian, nil
	case "proleptic_gregorian":
		return CalProleptic, nil
	case "gregorian", "standard":
		return CalGregorian, nil
	case "years_only":
		return CalYearsOnly, nil
	case "months_only":
		return CalMonthsOnly, nil
	case "seasons":
		return CalSeasons, nil
	case "365_days_no_months":
		return Cal365NoMonths, nil
	default:
		return nil, timeerr.Wrapf(timeerr.ErrUnknownCalendar, "%s", alias)
	}
}

// Aliases lists every alias FromAlias resolves, in a stable order.
func Aliases() []string {
	return []string{
		"360_day", "noleap", "365_day", "all_leap", "366_day", "julian",
		"proleptic_gregorian", "gregorian", "standard", "years_only",
		"months_only", "seasons", "365_days_no_months",
	}
}
