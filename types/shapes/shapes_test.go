package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	s := Make(2, 3, 4)
	assert.Equal(t, 3, s.Rank())
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, "[2 3 4]", s.String())

	require.Panics(t, func() { Make(2, 0, 4) })
	require.Panics(t, func() { Make(-1) })
}

func TestScalar(t *testing.T) {
	s := Scalar()
	assert.True(t, s.IsScalar())
	assert.Equal(t, 0, s.Rank())
	assert.Equal(t, 1, s.NumElements())
}

func TestDim(t *testing.T) {
	s := Make(2, 3, 4)
	assert.Equal(t, 2, s.Dim(0))
	assert.Equal(t, 4, s.Dim(-1))
	assert.Equal(t, 3, s.Dim(-2))
	require.Panics(t, func() { s.Dim(3) })
	require.Panics(t, func() { s.Dim(-4) })
}

func TestEqAndClone(t *testing.T) {
	s := Make(1, 2)
	clone := s.Clone()
	assert.True(t, s.Eq(clone))
	clone.Dimensions[0] = 7
	assert.False(t, s.Eq(clone))
	assert.Equal(t, 1, s.Dimensions[0])
}
