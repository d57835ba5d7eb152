package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestParallel(t *testing.T) {
	assert.True(t, Parallel(Vec{X: 2}, Vec{X: 1}))
	assert.False(t, Parallel(Vec{X: 2}, Vec{X: -1}), "opposite directions")
	assert.False(t, Parallel(Vec{X: 2}, Vec{Y: 2}))
	assert.False(t, Parallel(Vec{}, Vec{}), "zero vectors have no direction")
	assert.True(t, Parallel(Vec{X: 2, Y: 2}, Vec{X: 2.00001, Y: 2}))
}

func TestUnitOfZero(t *testing.T) {
	assert.Equal(t, Vec{}, Unit(Vec{}))
	assert.InDelta(t, 1.0, r3.Norm(Unit(Vec{X: 3, Y: 4})), 1e-12)
}

func TestProjReject(t *testing.T) {
	pos := Vec{X: 2, Y: 2, Z: -2}
	axis := Vec{X: 2}

	assert.True(t, Eq(Vec{X: 2}, Proj(pos, axis)))
	assert.True(t, Eq(Vec{Y: 2, Z: -2}, Reject(pos, axis)))
}

func TestRound(t *testing.T) {
	got := Round(Vec{X: 1.99999, Y: -0.00001, Z: -2.00002})
	assert.Equal(t, Vec{X: 2, Y: 0, Z: -2}, got)
	assert.False(t, math.Signbit(got.Y), "negative zero should fold to zero")
}

func TestPrincipalAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{math.Pi / 2, math.Pi / 2},
		{-math.Pi / 2, -math.Pi / 2},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
	}

	for _, tt := range tests {
		got := PrincipalAngle(tt.in)
		if !Feq(got, tt.want) {
			t.Errorf("PrincipalAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComponent(t *testing.T) {
	v := Vec{X: 1, Y: 2, Z: 3}
	assert.Equal(t, 1.0, Component(v, X))
	assert.Equal(t, 2.0, Component(v, Y))
	assert.Equal(t, 3.0, Component(v, Z))
}
