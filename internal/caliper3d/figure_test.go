package caliper3d

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasBlack(img *image.RGBA, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			o := img.PixOffset(x, y)
			if img.Pix[o] == 0 && img.Pix[o+1] == 0 && img.Pix[o+2] == 0 {
				return true
			}
		}
	}
	return false
}

func exampleFigure(t *testing.T, titles bool) *Figure {
	t.Helper()
	s, cg := exampleSurface(t)
	return NewFigure(240, 120, titles,
		Panel{Title: "Offset Readings", Surface: s, Colors: cg},
		Panel{Title: "Centralized Readings", Surface: s, Colors: cg},
	)
}

func TestFigurePanelRects(t *testing.T) {
	f := exampleFigure(t, true)
	rects := f.panelRects()
	require.Len(t, rects, 2)
	assert.Equal(t, image.Rect(0, 0, 120, 120), rects[0])
	assert.Equal(t, image.Rect(120, 0, 240, 120), rects[1])
}

func TestFigureRenderTitles(t *testing.T) {
	cam := Camera{Elevation: 30, Azimuth: -60}

	img, err := exampleFigure(t, true).Render(cam)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(240, 120), img.Bounds().Size())
	for _, r := range exampleFigure(t, true).panelRects() {
		band := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+titleHeight())
		assert.True(t, hasBlack(img, band), "title missing in %v", r)
		assert.Positive(t, countNonWhite(img.SubImage(image.Rect(r.Min.X, band.Max.Y, r.Max.X, r.Max.Y)).(*image.RGBA)))
	}

	// surfaces never use pure black, titles do
	plain, err := exampleFigure(t, false).Render(cam)
	require.NoError(t, err)
	assert.False(t, hasBlack(plain, plain.Bounds()))
}

func TestFigureRenderErrors(t *testing.T) {
	_, err := NewFigure(10, 10, true).Render(Camera{})
	assert.ErrorIs(t, err, ErrRender)

	f := exampleFigure(t, true)
	f.Width = 0
	_, err = f.Render(Camera{})
	assert.ErrorIs(t, err, ErrRender)
}

func TestFigureSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "3d.png")
	require.NoError(t, exampleFigure(t, true).SavePNG(path, Camera{Elevation: 30, Azimuth: -60}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(240, 120), img.Bounds().Size())
}
