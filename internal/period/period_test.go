package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfcal/internal/calendar"
	"cfcal/internal/date"
	"cfcal/internal/timeerr"
	"cfcal/internal/timevec"
)

func mustPeriod(t *testing.T, initial, final date.Date, leftOpen, rightOpen bool) Period {
	t.Helper()
	p, err := New(initial, final, leftOpen, rightOpen)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	initial := date.Must(calendar.CalGregorian, 1979, 1, 1)
	final := date.Must(calendar.CalGregorian, 1980, 1, 1)

	p := mustPeriod(t, initial, final, false, true)
	assert.True(t, p.Initial().Equal(initial))
	assert.True(t, p.Final().Equal(final))
	assert.Equal(t, "1979-01-01 to 1980-01-01", p.String())

	_, err := New(final, initial, false, false)
	assert.True(t, timeerr.Is(err, timeerr.ErrInvalidTimeVector))

	_, err = New(initial, date.Must(calendar.Cal360, 1980, 1, 1), false, false)
	assert.True(t, timeerr.Is(err, timeerr.ErrIncompatibleCalendars))
}

func TestImplicit(t *testing.T) {
	v, err := timevec.New(1961)
	require.NoError(t, err)
	p, err := Implicit(v, calendar.CalGregorian)
	require.NoError(t, err)

	assert.Equal(t, "1961", p.Initial().String())
	assert.Equal(t, "1962", p.Final().String())
	assert.False(t, p.LeftOpen)
	assert.True(t, p.RightOpen)

	v, err = timevec.New(1961, 6)
	require.NoError(t, err)
	p, err = Implicit(v, calendar.CalGregorian)
	require.NoError(t, err)
	assert.Equal(t, "1961-06", p.Initial().String())
	assert.Equal(t, "1961-07", p.Final().String())
}

func TestOverlap(t *testing.T) {
	a := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 1, 1),
		date.Must(calendar.Cal365, 1979, 6, 1), false, false)
	b := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 6, 1),
		date.Must(calendar.Cal365, 1980, 1, 1), false, false)
	c := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 7, 1),
		date.Must(calendar.Cal365, 1980, 1, 1), false, false)

	// Shared endpoints overlap even for open periods.
	ok, err := a.Overlap(b)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Overlap(c)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Overlap(a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 1, 1),
		date.Must(calendar.Cal365, 1980, 1, 1), true, true)

	ok, err := p.Contains(date.Must(calendar.Cal365, 1979, 6, 15))
	require.NoError(t, err)
	assert.True(t, ok)

	// Endpoints are never inside, open flags or not.
	ok, err = p.Contains(p.Initial())
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = p.Contains(p.Final())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContinuous(t *testing.T) {
	a := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 1, 1),
		date.Must(calendar.Cal365, 1979, 6, 1), false, false)
	b := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 6, 1),
		date.Must(calendar.Cal365, 1980, 1, 1), false, false)
	c := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 7, 1),
		date.Must(calendar.Cal365, 1980, 1, 1), false, false)

	ok, err := a.Continuous(b, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Continuous(c, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	gap := timevec.OneCycle
	ok, err = a.Continuous(c, &gap)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegularSampleHourly(t *testing.T) {
	initial := date.Must(calendar.CalGregorian, 1979, 1, 1, 0)
	final := date.Must(calendar.CalGregorian, 1979, 1, 1, 6)

	closed := mustPeriod(t, initial, final, false, false)
	col, err := closed.RegularSample(timevec.OneHour, SampleConfig{})
	require.NoError(t, err)
	require.Equal(t, 7, col.Len())
	assert.Equal(t, "1979-01-01T00Z", col.At(0).String())
	assert.Equal(t, "1979-01-01T06Z", col.At(6).String())

	rightOpen := mustPeriod(t, initial, final, false, true)
	col, err = rightOpen.RegularSample(timevec.OneHour, SampleConfig{})
	require.NoError(t, err)
	require.Equal(t, 6, col.Len())
	assert.Equal(t, "1979-01-01T05Z", col.At(5).String())

	leftOpen := mustPeriod(t, initial, final, true, false)
	col, err = leftOpen.RegularSample(timevec.OneHour, SampleConfig{})
	require.NoError(t, err)
	require.Equal(t, 6, col.Len())
	assert.Equal(t, "1979-01-01T01Z", col.At(0).String())
}

func TestRegularSampleDailyYear(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.CalGregorian, 1979, 1, 1),
		date.Must(calendar.CalGregorian, 1980, 1, 1), false, true)

	col, err := p.RegularSample(timevec.OneDay, SampleConfig{})
	require.NoError(t, err)
	require.Equal(t, 365, col.Len())
	assert.Equal(t, "1979-01-01", col.At(0).String())
	assert.Equal(t, "1979-12-31", col.At(364).String())
}

func TestRegularSampleBuffer(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.CalGregorian, 1979, 1, 1),
		date.Must(calendar.CalGregorian, 1979, 1, 10), true, false)

	// Left-open without a buffer steps once off the start.
	col, err := p.RegularSample(timevec.OneDay, SampleConfig{})
	require.NoError(t, err)
	assert.Equal(t, "1979-01-02", col.At(0).String())

	// A buffered start is already off the start; no extra step.
	buffer := timevec.NewDuration(0, 0, 0, 12)
	col, err = p.RegularSample(timevec.OneDay, SampleConfig{Buffer: &buffer})
	require.NoError(t, err)
	assert.Equal(t, "1979-01-01T12Z", col.At(0).String())
}

func TestRegularSampleRebind(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.CalGregorian, 1979, 2, 26),
		date.Must(calendar.CalGregorian, 1979, 3, 2), false, false)

	col, err := p.RegularSample(timevec.OneDay, SampleConfig{Calendar: calendar.Cal360})
	require.NoError(t, err)
	require.Equal(t, 7, col.Len())
	// Day 29 and 30 of February exist once rebound to 360_day.
	assert.Equal(t, "1979-02-29", col.At(3).String())
	assert.Equal(t, "1979-02-30", col.At(4).String())
	assert.Equal(t, "1979-03-02", col.At(6).String())
	assert.True(t, col.At(0).Calendar().Equal(calendar.Cal360))
}

func TestRegularSampleZeroStep(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 1, 1),
		date.Must(calendar.Cal365, 1980, 1, 1), false, false)

	_, err := p.RegularSample(timevec.Duration{}, SampleConfig{})
	assert.True(t, timeerr.Is(err, timeerr.ErrNonProgressingStep))
}

func TestRegularSampleEmpty(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 1, 1),
		date.Must(calendar.Cal365, 1979, 1, 2), false, true)

	buffer := timevec.NewDuration(0, 0, 5)
	col, err := p.RegularSample(timevec.OneDay, SampleConfig{Buffer: &buffer})
	require.NoError(t, err)
	assert.Equal(t, 0, col.Len())
}

func TestRegularDivision(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 1, 1),
		date.Must(calendar.Cal365, 1979, 3, 1), false, false)

	subs, err := p.RegularDivision(timevec.OneCycle, timevec.OneCycle, SampleConfig{})
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "1979-01-01 to 1979-02-01", subs[0].String())
	assert.Equal(t, "1979-03-01 to 1979-04-01", subs[2].String())
	assert.False(t, subs[0].LeftOpen)
	assert.False(t, subs[0].RightOpen)
}

func TestCountYears(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 3, 1),
		date.Must(calendar.Cal365, 1982, 6, 1), false, false)
	n, err := p.CountYears()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// [1961, 1962[ touches exactly one year.
	v, err := timevec.New(1961)
	require.NoError(t, err)
	implicit, err := Implicit(v, calendar.Cal365)
	require.NoError(t, err)
	n, err = implicit.CountYears()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountCycles(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 1, 15),
		date.Must(calendar.Cal365, 1979, 3, 15), false, false)
	n, err := p.CountCycles()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	p = mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 11, 1),
		date.Must(calendar.Cal365, 1980, 2, 1), false, true)
	n, err = p.CountCycles()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCountDays(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.CalProleptic, 2000, 1, 1),
		date.Must(calendar.CalProleptic, 2001, 1, 1), false, true)
	n, err := p.CountDays()
	require.NoError(t, err)
	assert.Equal(t, 366, n)

	p = mustPeriod(t,
		date.Must(calendar.CalGregorian, 1582, 10, 1),
		date.Must(calendar.CalGregorian, 1582, 11, 1), false, true)
	n, err = p.CountDays()
	require.NoError(t, err)
	assert.Equal(t, 21, n)
}

func TestCountClockGranularities(t *testing.T) {
	initial := date.Must(calendar.CalGregorian, 1979, 1, 1, 0)
	final := date.Must(calendar.CalGregorian, 1979, 1, 1, 6)

	closed := mustPeriod(t, initial, final, false, false)
	n, err := closed.CountHours()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	n, err = closed.CountMinutes()
	require.NoError(t, err)
	assert.Equal(t, 361, n)
	n, err = closed.CountSeconds()
	require.NoError(t, err)
	assert.Equal(t, 21601, n)

	rightOpen := mustPeriod(t, initial, final, false, true)
	n, err = rightOpen.CountHours()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	n, err = rightOpen.CountSeconds()
	require.NoError(t, err)
	assert.Equal(t, 21600, n)

	leftOpen := mustPeriod(t, initial, final, true, false)
	n, err = leftOpen.CountSeconds()
	require.NoError(t, err)
	assert.Equal(t, 21600, n)
	n, err = leftOpen.CountHours()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestLen(t *testing.T) {
	p := mustPeriod(t,
		date.Must(calendar.Cal365, 1979, 1, 1, 0),
		date.Must(calendar.Cal365, 1979, 1, 2, 0), false, true)

	secs, err := p.Len(timevec.SlotSecond)
	require.NoError(t, err)
	assert.Equal(t, 86400.0, secs)

	hours, err := p.Len(timevec.SlotHour)
	require.NoError(t, err)
	assert.Equal(t, 24.0, hours)

	days, err := p.Len(timevec.SlotDay)
	require.NoError(t, err)
	assert.Equal(t, 1.0, days)

	cycles, err := p.Len(timevec.SlotCycle)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/31.0, cycles, 1e-12)

	years, err := p.Len(timevec.SlotYear)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/365.0, years, 1e-12)
}
