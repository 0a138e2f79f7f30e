package date

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfcal/internal/calendar"
	"cfcal/internal/timeerr"
	"cfcal/internal/timevec"
)

func TestBulkIsolatesRowFailures(t *testing.T) {
	rows := [][]float64{
		{1979, 1, 1},
		{1979, 2, 29}, // no leap day in noleap
		{1979, 3, 1},
		{1979, 13, 1}, // no 13th month
	}
	col, errs := Bulk(rows, nil, []*calendar.Calendar{calendar.Cal365})

	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, 3, errs[1].Index)
	assert.True(t, timeerr.Is(errs[0].Err, timeerr.ErrInvalidTimeVector))

	require.Equal(t, 2, col.Len())
	assert.Equal(t, "1979-01-01", col.At(0).String())
	assert.Equal(t, "1979-03-01", col.At(1).String())
}

func TestBulkMaskAndCalendars(t *testing.T) {
	rows := [][]float64{
		{1979, 6},
		{1980, 2, 30},
	}
	set := [][]bool{
		{true, false},
		{true, true, true},
	}
	cals := []*calendar.Calendar{calendar.Cal365, calendar.Cal360}
	col, errs := Bulk(rows, set, cals)

	require.Empty(t, errs)
	require.Equal(t, 2, col.Len())
	assert.Equal(t, 1, col.At(0).Resolution())
	assert.Equal(t, "1980-02-30", col.At(1).String())
	assert.True(t, col.At(1).Calendar().Equal(calendar.Cal360))
}

func TestCollectionAddPartitionsByCalendar(t *testing.T) {
	col := NewCollection(
		Must(calendar.Cal360, 2000, 1, 30),
		Must(calendar.Cal365, 2000, 1, 31),
		Must(calendar.Cal360, 2000, 2, 30),
	)
	moved, errs := col.Add(timevec.OneDay)

	require.Empty(t, errs)
	assert.Equal(t, "2000-02-01", moved.At(0).String())
	assert.Equal(t, "2000-02-01", moved.At(1).String())
	assert.Equal(t, "2000-03-01", moved.At(2).String())
}

func TestCollectionAddKeepsFailedElements(t *testing.T) {
	col := NewCollection(
		Must(calendar.CalProleptic, 2000, 2, 29),
		Must(calendar.CalProleptic, 2000, 3, 1),
	)
	moved, errs := col.Add(timevec.OneYear)

	require.Len(t, errs, 1)
	assert.Equal(t, 0, errs[0].Index)
	assert.True(t, timeerr.Is(errs[0].Err, timeerr.ErrInvalidTimeVector))
	require.Equal(t, 2, moved.Len())
	assert.True(t, moved.At(0).Equal(col.At(0)))
	assert.Equal(t, "2001-03-01", moved.At(1).String())
}

func TestMinMax(t *testing.T) {
	col := NewCollection(
		Must(calendar.Cal365, 1980, 1, 1),
		Must(calendar.Cal365, 1979, 6, 1),
		Must(calendar.Cal365, 1979, 1, 15),
	)

	min, err := col.Min()
	require.NoError(t, err)
	assert.Equal(t, "1979-01-15", min.String())

	max, err := col.Max()
	require.NoError(t, err)
	assert.Equal(t, "1980-01-01", max.String())
}

func TestMinMaxRequireOneCalendar(t *testing.T) {
	col := NewCollection(
		Must(calendar.Cal365, 1979, 1, 1),
		Must(calendar.Cal360, 1979, 1, 1),
	)
	_, err := col.Min()
	assert.True(t, timeerr.Is(err, timeerr.ErrIncompatibleCalendars))

	_, err = NewCollection().Max()
	assert.Error(t, err)
}

func TestCollectionRoundTrip(t *testing.T) {
	col := NewCollection(
		Must(calendar.Cal365, 1979, 1, 1),
		Must(calendar.Cal365, 1979, 6),
	)
	vals, masks := col.Raw()
	require.Len(t, vals, 2)

	rows := make([][]float64, len(vals))
	set := make([][]bool, len(masks))
	for i := range vals {
		rows[i] = vals[i][:]
		set[i] = masks[i][:]
	}
	back, errs := Bulk(rows, set, []*calendar.Calendar{calendar.Cal365})
	require.Empty(t, errs)
	assert.True(t, back.Equal(col))
}

func TestCollectionAppend(t *testing.T) {
	col := NewCollection(Must(calendar.Cal365, 1979, 1, 1))
	grown := col.Append(Must(calendar.Cal365, 1979, 1, 2))

	assert.Equal(t, 1, col.Len())
	assert.Equal(t, 2, grown.Len())
	assert.Equal(t, "1979-01-02", grown.At(1).String())
}
