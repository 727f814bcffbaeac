package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateVector_Slice_IsIndependentCopy(t *testing.T) {
	s := StateVector{0.5, 0.25, 0.01, 0.8, 0}
	out := s.Slice()
	assert.Equal(t, []float64{0.5, 0.25, 0.01, 0.8, 0}, out)

	out[0] = 9
	assert.Equal(t, 0.5, s[0])
}

func TestStateVector_Decayed_ScalesDemandSlotsOnly(t *testing.T) {
	s := StateVector{0.8, 0.5, 0.2, 0.8, 0}
	got := s.Decayed(0.9)

	assert.InDelta(t, 0.72, got[0], 1e-12)
	assert.InDelta(t, 0.45, got[1], 1e-12)
	assert.Equal(t, s[2], got[2])
	assert.Equal(t, s[3], got[3])
	assert.Equal(t, s[4], got[4])
	assert.Equal(t, 0.8, s[0], "receiver must be unchanged")
}
