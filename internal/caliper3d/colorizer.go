package caliper3d

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/palette"
)

// ColorGrid is one color per reading cell, derived from the reading's
// distance to the expected radius. Min and Max are the deviation bounds the
// normalization used; Norm holds the normalized deviations in [0,1].
type ColorGrid struct {
	Rows, Cols int
	Colors     []color.NRGBA // row-major
	Norm       *mat.Dense
	Min, Max   Real
}

// At returns the color of cell (i, j).
func (c *ColorGrid) At(i, j int) color.NRGBA { return c.Colors[i*c.Cols+j] }

// Deviation returns |grid - expectedRadius| element-wise.
func Deviation(grid mat.Matrix, expectedRadius Real) *mat.Dense {
	var dev mat.Dense
	dev.Apply(func(_, _ int, v float64) float64 {
		return math.Abs(v - expectedRadius)
	}, grid)
	return &dev
}

// Normalize rescales m into [0,1] using its own min and max. A constant
// matrix normalizes to all zeros.
func Normalize(m *mat.Dense) (norm *mat.Dense, lo, hi Real) {
	data := denseData(m)
	lo, hi = floats.Min(data), floats.Max(data)
	r, c := m.Dims()
	norm = mat.NewDense(r, c, nil)
	span := hi - lo
	if span <= epsNorm || !isFinite(span) {
		return norm, lo, hi
	}
	norm.Apply(func(i, j int, _ float64) float64 {
		return clamp01((m.At(i, j) - lo) / span)
	}, norm)
	return norm, lo, hi
}

// Colorize colors every cell of grid by its normalized deviation from
// expectedRadius. The map must cover [0,1]; nil selects Viridis.
func Colorize(grid *mat.Dense, expectedRadius Real, cmap palette.ColorMap) (*ColorGrid, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInputShape)
	}
	if cmap == nil {
		cmap = Viridis()
	}
	norm, lo, hi := Normalize(Deviation(grid, expectedRadius))
	r, c := norm.Dims()
	cg := &ColorGrid{
		Rows:   r,
		Cols:   c,
		Colors: make([]color.NRGBA, r*c),
		Norm:   norm,
		Min:    lo,
		Max:    hi,
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			col, err := cmap.At(norm.At(i, j))
			if err != nil {
				return nil, fmt.Errorf("colormap at (%d,%d)=%g: %w", i, j, norm.At(i, j), err)
			}
			cg.Colors[i*c+j] = color.NRGBAModel.Convert(col).(color.NRGBA)
		}
	}
	if hi == lo {
		DebugLog("Flat deviation grid (%.3f), all cells share the lowest color", lo)
	}
	DebugLog("Colorized %dx%d grid, deviation range [%.3f, %.3f]", r, c, lo, hi)
	return cg, nil
}

// denseData returns the elements of m in row-major order.
func denseData(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}
	out := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		out = append(out, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
	}
	return out
}
