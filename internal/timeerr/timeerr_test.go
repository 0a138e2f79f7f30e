package timeerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinels(t *testing.T) {
	wrapped := Wrapf(ErrInvalidTimeVector, "slot %d", 3)
	require.Error(t, wrapped)
	assert.True(t, Is(wrapped, ErrInvalidTimeVector))
	assert.False(t, Is(wrapped, ErrMaskedOperand))
	assert.Contains(t, wrapped.Error(), "slot 3")
}

func TestWrapKeepsChain(t *testing.T) {
	inner := Wrap(ErrAmbiguousComparison, "outer")
	assert.True(t, Is(inner, ErrAmbiguousComparison))
	assert.Contains(t, inner.Error(), "outer")

	err := Newf("calendar %q", "lunar")
	assert.Contains(t, err.Error(), `"lunar"`)
}
