package caliper3d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAnglesCloseTheCircle(t *testing.T) {
	th := Angles(4)
	require.Len(t, th, 4)
	assert.Equal(t, 0.0, th[0])
	assert.InDelta(t, 2*math.Pi/3, th[1], 1e-12)
	// first and last sensor share an azimuth
	assert.InDelta(t, 2*math.Pi, th[3], 1e-12)
}

func TestDepths(t *testing.T) {
	assert.Equal(t, []float64{0, 5, 10}, Depths(3, 5))
}

func TestProjectRoundTrip(t *testing.T) {
	g := exampleGrid()
	s, err := Project(g, 4, 5)
	require.NoError(t, err)
	D, S := s.Dims()
	require.Equal(t, 3, D)
	require.Equal(t, 4, S)
	for i := 0; i < D; i++ {
		for j := 0; j < S; j++ {
			x, y := s.X.At(i, j), s.Y.At(i, j)
			r := g.At(i, j)
			assert.InDelta(t, r*r, x*x+y*y, 1e-9, "cell (%d,%d)", i, j)
			assert.Equal(t, float64(i)*5, s.Z.At(i, j))
		}
	}
	// sensor 0 lies on +X
	assert.InDelta(t, 100, s.X.At(0, 0), 1e-12)
	assert.InDelta(t, 0, s.Y.At(0, 0), 1e-12)
}

func TestProjectShapeErrors(t *testing.T) {
	_, err := Project(exampleGrid(), 5, 5)
	assert.ErrorIs(t, err, ErrInputShape)

	_, err = Project(mat.NewDense(3, 1, []float64{1, 2, 3}), 1, 5)
	assert.ErrorIs(t, err, ErrDegenerateGrid)

	_, err = Project(nil, 4, 5)
	assert.ErrorIs(t, err, ErrInputShape)
}
