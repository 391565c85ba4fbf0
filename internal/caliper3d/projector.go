package caliper3d

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Surface holds the Cartesian coordinates of a reading grid wrapped around
// the pipe axis. X, Y and Z share the grid's [depth x sensor] shape.
type Surface struct {
	X, Y, Z *mat.Dense
}

// Dims returns the number of depths and sensors.
func (s *Surface) Dims() (depths, sensors int) { return s.X.Dims() }

// Angles returns n angles from 0 to 2π inclusive, 2π/(n-1) apart.
// The first and the last sensor therefore land on the same azimuth.
func Angles(n int) []float64 {
	th := make([]float64, n)
	if n < 2 {
		return th
	}
	step := 2 * math.Pi / Real(n-1)
	for j := range th {
		th[j] = Real(j) * step
	}
	return th
}

// Depths returns n depths spaced by spacing, starting at 0.
func Depths(n int, spacing Real) []float64 {
	z := make([]float64, n)
	for i := range z {
		z[i] = Real(i) * spacing
	}
	return z
}

// Project maps every reading r[i,j] to (r·cosθj, r·sinθj, i·depthSpacing).
func Project(grid *mat.Dense, sensorCount int, depthSpacing Real) (*Surface, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInputShape)
	}
	D, S := grid.Dims()
	if S != sensorCount {
		return nil, fmt.Errorf("%w: grid has %d sensor columns, sensor count is %d", ErrInputShape, S, sensorCount)
	}
	if sensorCount < 2 {
		return nil, fmt.Errorf("%w: need at least 2 sensors, got %d", ErrDegenerateGrid, sensorCount)
	}

	theta := Angles(S)
	cos := make([]float64, S)
	sin := make([]float64, S)
	for j, t := range theta {
		cos[j], sin[j] = math.Cos(t), math.Sin(t)
	}
	z := Depths(D, depthSpacing)

	X := mat.NewDense(D, S, nil)
	Y := mat.NewDense(D, S, nil)
	Z := mat.NewDense(D, S, nil)
	for i := 0; i < D; i++ {
		for j := 0; j < S; j++ {
			r := grid.At(i, j)
			X.Set(i, j, r*cos[j])
			Y.Set(i, j, r*sin[j])
			Z.Set(i, j, z[i])
		}
	}
	DebugLog("Projected %dx%d grid, depth spacing %.2f", D, S, depthSpacing)
	return &Surface{X: X, Y: Y, Z: Z}, nil
}
