package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerRangeContains(t *testing.T) {
	r := IntegerRange{Min: 0, Max: 10, Step: 2}
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(4))
	assert.True(t, r.Contains(10))
	assert.False(t, r.Contains(3))
	assert.False(t, r.Contains(-2))
	assert.False(t, r.Contains(12))
}

func TestIntegerRangeZeroStepNeverContains(t *testing.T) {
	r := IntegerRange{Min: 0, Max: 10, Step: 0}
	assert.False(t, r.Contains(5))
}

func TestNewIntegerRangeRejectsZeroStep(t *testing.T) {
	_, err := NewIntegerRange(0, 10, 0)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, InvalidRangeAttachment, perr.Kind)
}

func TestFloatingPointRangeContains(t *testing.T) {
	r := FloatingPointRange{Min: 0, Max: 1, Step: 0.25}
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(0.5))
	assert.True(t, r.Contains(1))
	assert.False(t, r.Contains(0.3))
	assert.False(t, r.Contains(1.5))
}

func TestFloatingPointRangeZeroStepDisablesStride(t *testing.T) {
	r := FloatingPointRange{Min: 0, Max: 1, Step: 0}
	assert.True(t, r.Contains(0.3))
}
