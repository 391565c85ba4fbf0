package caliper3d

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func exampleSurface(t *testing.T) (*Surface, *ColorGrid) {
	t.Helper()
	g := exampleGrid()
	s, err := Project(g, 4, 5)
	require.NoError(t, err)
	cg, err := Colorize(g, 127, nil)
	require.NoError(t, err)
	return s, cg
}

func countNonWhite(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			o := img.PixOffset(x, y)
			if img.Pix[o] != 255 || img.Pix[o+1] != 255 || img.Pix[o+2] != 255 {
				n++
			}
		}
	}
	return n
}

func TestRenderSurfaceDeterministic(t *testing.T) {
	s, cg := exampleSurface(t)
	cam := Camera{Elevation: 42, Azimuth: 90}
	a, err := RenderSurface(s, cg, cam, image.Pt(96, 64))
	require.NoError(t, err)
	b, err := RenderSurface(s, cg, cam, image.Pt(96, 64))
	require.NoError(t, err)

	assert.Equal(t, image.Pt(96, 64), a.Bounds().Size())
	assert.True(t, bytes.Equal(a.Pix, b.Pix), "same input must give identical pixels")
	assert.Positive(t, countNonWhite(a))
}

func TestRenderSurfaceRotates(t *testing.T) {
	s, cg := exampleSurface(t)
	a, err := RenderSurface(s, cg, Camera{Elevation: 42, Azimuth: 0}, image.Pt(96, 64))
	require.NoError(t, err)
	b, err := RenderSurface(s, cg, Camera{Elevation: 42, Azimuth: 45}, image.Pt(96, 64))
	require.NoError(t, err)
	assert.False(t, bytes.Equal(a.Pix, b.Pix))
}

func TestRenderSurfaceSingleDepthIsBlank(t *testing.T) {
	g := mat.NewDense(1, 4, []float64{100, 110, 120, 130})
	s, err := Project(g, 4, 5)
	require.NoError(t, err)
	cg, err := Colorize(g, 127, nil)
	require.NoError(t, err)

	img, err := RenderSurface(s, cg, Camera{Elevation: 42}, image.Pt(32, 32))
	require.NoError(t, err)
	assert.Zero(t, countNonWhite(img))
}

func TestRenderSurfaceErrors(t *testing.T) {
	s, cg := exampleSurface(t)

	_, err := RenderSurface(s, cg, Camera{}, image.Pt(0, 10))
	assert.ErrorIs(t, err, ErrRender)

	other, err := Colorize(mat.NewDense(2, 4, nil), 127, nil)
	require.NoError(t, err)
	_, err = RenderSurface(s, other, Camera{}, image.Pt(10, 10))
	assert.ErrorIs(t, err, ErrInputShape)
}

func TestBoxMapKeepsCrossSection(t *testing.T) {
	s, _ := exampleSurface(t)
	box := newBoxMap(s)
	D, S := s.Dims()
	for i := 0; i < D; i++ {
		for j := 0; j < S; j++ {
			v := box.at(s, i, j)
			assert.LessOrEqual(t, v.Z, BoxAspectZ+1e-12)
			assert.GreaterOrEqual(t, v.Z, -BoxAspectZ-1e-12)
			assert.LessOrEqual(t, r3.Norm(v), box.radius()+1e-12)
		}
	}
	// depth 0 and the last depth sit on the box faces
	assert.InDelta(t, -BoxAspectZ, box.at(s, 0, 0).Z, 1e-12)
	assert.InDelta(t, BoxAspectZ, box.at(s, D-1, 0).Z, 1e-12)
}

func TestRenderSurfaceFlatFill(t *testing.T) {
	// every reading is 7 off the radius, so every cell shares one color
	g := mat.NewDense(3, 5, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 5; j++ {
			g.Set(i, j, []float64{120, 134}[(i+j)%2])
		}
	}
	s, err := Project(g, 5, 5)
	require.NoError(t, err)
	cg, err := Colorize(g, 127, nil)
	require.NoError(t, err)
	want := cg.At(0, 0)

	const size = 80
	img, err := RenderSurface(s, cg, Camera{Elevation: 0, Azimuth: 0}, image.Pt(size, size))
	require.NoError(t, err)

	// Side on, the tube fills a 2 x 1.5 box around the center; depth and
	// sensor edges cross the center, so sample the middle of each quadrant.
	scale := PanelFill * size / 2 / newBoxMap(s).radius()
	dx, dy := int(0.5*scale), int(0.375*scale)
	for _, p := range []image.Point{{-dx, -dy}, {dx, -dy}, {-dx, dy}, {dx, dy}} {
		c := img.RGBAAt(size/2+p.X, size/2+p.Y)
		assert.Equal(t, want, color.NRGBA{c.R, c.G, c.B, c.A}, "pixel at offset %v", p)
	}

	// Anything else is white or an anti-aliased mix of white and the fill:
	// no shading, outlines or panes.
	mix := func(c uint8, f float64) float64 { return 255 - f*(255-float64(c)) }
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			require.Equal(t, uint8(255), c.A)
			f := (255 - float64(c.G)) / (255 - float64(want.G))
			require.InDelta(t, mix(want.R, f), float64(c.R), 3, "pixel (%d,%d) = %v", x, y, c)
			require.InDelta(t, mix(want.B, f), float64(c.B), 3, "pixel (%d,%d) = %v", x, y, c)
		}
	}
}
