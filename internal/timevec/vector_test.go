package timevec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfcal/internal/timeerr"
)

func TestNew(t *testing.T) {
	v, err := New(2001, 6, 15)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Resolution())

	year, ok := v.Year()
	assert.True(t, ok)
	assert.Equal(t, 2001.0, year)

	_, ok = v.Hour()
	assert.False(t, ok)

	_, err = New(1, 2, 3, 4, 5, 6, 7)
	assert.True(t, timeerr.Is(err, timeerr.ErrInvalidTimeVector))
}

func TestFromMaskedRejectsGaps(t *testing.T) {
	_, err := FromMasked(
		[]float64{2001, 0, 15},
		[]bool{true, false, true})
	assert.True(t, timeerr.Is(err, timeerr.ErrInvalidTimeVector))

	v, err := FromMasked(
		[]float64{2001, 6, 0, 0},
		[]bool{true, true, false, false})
	require.NoError(t, err)
	assert.Equal(t, 2, v.Resolution())
}

func TestFractionOnlyInLastSlot(t *testing.T) {
	_, err := New(2001.5, 6)
	assert.True(t, timeerr.Is(err, timeerr.ErrInvalidTimeVector))

	v, err := New(2001, 6.5)
	require.NoError(t, err)
	cycle, _ := v.Cycle()
	assert.Equal(t, 6.5, cycle)
}

func TestAddMaskedOperand(t *testing.T) {
	a, err := New(2001, 6)
	require.NoError(t, err)
	b, err := New(1, 0, 3)
	require.NoError(t, err)

	// Non-zero day on b meets an unset day on a.
	_, err = a.Add(b)
	assert.True(t, timeerr.Is(err, timeerr.ErrMaskedOperand))

	c, err := New(1, 2)
	require.NoError(t, err)
	sum, err := a.Add(c)
	require.NoError(t, err)
	year, _ := sum.Year()
	cycle, _ := sum.Cycle()
	assert.Equal(t, 2002.0, year)
	assert.Equal(t, 8.0, cycle)
	assert.Equal(t, 2, sum.Resolution())
}

func TestSubAndScale(t *testing.T) {
	a, err := New(2001, 6)
	require.NoError(t, err)
	b, err := New(1, 2)
	require.NoError(t, err)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	year, _ := diff.Year()
	cycle, _ := diff.Cycle()
	assert.Equal(t, 2000.0, year)
	assert.Equal(t, 4.0, cycle)

	scaled := b.Scale(3)
	year, _ = scaled.Year()
	assert.Equal(t, 3.0, year)
}

func TestEqualIsStrict(t *testing.T) {
	a, err := New(2001, 1)
	require.NoError(t, err)
	b, err := New(2001)
	require.NoError(t, err)

	assert.True(t, a.Equal(a))
	// Same instant, different resolution: not equal.
	assert.False(t, a.Equal(b))
}

func TestString(t *testing.T) {
	v, err := New(2001, 6)
	require.NoError(t, err)
	assert.Equal(t, "[2001 6 - - - -]", v.String())
}
