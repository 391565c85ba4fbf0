package caliper3d

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
)

// Panel is one surface of a figure with its colors and title.
type Panel struct {
	Title   string
	Surface *Surface
	Colors  *ColorGrid
}

// Figure is the render context for the static plot and for every animation
// frame: panels are laid out left to right in a Width×Height image.
// Render only reads the figure, so one figure can serve concurrent renders.
type Figure struct {
	Width, Height int
	Panels        []Panel
	ShowTitles    bool
}

// RenderFunc renders one still for a camera pose.
type RenderFunc func(cam Camera) (image.Image, error)

// NewFigure creates a figure holding panels.
func NewFigure(width, height int, showTitles bool, panels ...Panel) *Figure {
	return &Figure{Width: width, Height: height, Panels: panels, ShowTitles: showTitles}
}

// Render draws all panels from the same camera pose.
func (f *Figure) Render(cam Camera) (*image.RGBA, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("%w: figure size %dx%d", ErrRender, f.Width, f.Height)
	}
	if len(f.Panels) == 0 {
		return nil, fmt.Errorf("%w: figure has no panels", ErrRender)
	}
	c := newCanvas(image.Pt(f.Width, f.Height))
	rects := f.panelRects()
	for i, p := range f.Panels {
		plot := rects[i]
		if f.ShowTitles && p.Title != "" {
			plot.Min.Y += titleHeight()
		}
		if err := drawSurface(c, f.vgRect(plot), p.Surface, p.Colors, cam); err != nil {
			return nil, fmt.Errorf("panel %d (%s): %w", i, p.Title, err)
		}
	}
	img := toRGBA(c.Image())
	if f.ShowTitles {
		for i, p := range f.Panels {
			drawTitle(img, rects[i], p.Title)
		}
	}
	return img, nil
}

// RenderFunc adapts the figure to the rotation sequencer.
func (f *Figure) RenderFunc() RenderFunc {
	return func(cam Camera) (image.Image, error) {
		return f.Render(cam)
	}
}

// SavePNG renders the figure once and writes it to path.
func (f *Figure) SavePNG(path string, cam Camera) error {
	img, err := f.Render(cam)
	if err != nil {
		return err
	}
	return writePNG(path, img)
}

// panelRects splits the figure into equal columns, in image coordinates.
func (f *Figure) panelRects() []image.Rectangle {
	n := len(f.Panels)
	rects := make([]image.Rectangle, n)
	for i := 0; i < n; i++ {
		x0 := i * f.Width / n
		x1 := (i + 1) * f.Width / n
		rects[i] = image.Rect(x0, 0, x1, f.Height)
	}
	return rects
}

// vgRect flips an image rectangle (Y down) into canvas space (Y up).
func (f *Figure) vgRect(r image.Rectangle) vg.Rectangle {
	return vg.Rectangle{
		Min: vg.Point{X: vg.Length(r.Min.X), Y: vg.Length(f.Height - r.Max.Y)},
		Max: vg.Point{X: vg.Length(r.Max.X), Y: vg.Length(f.Height - r.Min.Y)},
	}
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
