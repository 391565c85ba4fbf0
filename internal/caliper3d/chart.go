package caliper3d

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ChartOptions configures the finger comparison chart.
type ChartOptions struct {
	ExpectedRadius Real
	DepthSpacing   Real
	Width, Height  vg.Length
}

var (
	rawLineColor     = color.RGBA{B: 255, A: 255}
	centralLineColor = color.RGBA{R: 255, A: 255}
	radiusLineColor  = color.RGBA{G: 128, A: 255}
)

// ComparisonChart plots every finger's reading against depth: raw readings
// as solid blue lines, centralized ones dashed red, and the expected radius
// as a green reference line.
func ComparisonChart(raw, central *mat.Dense, opts ChartOptions) (*plot.Plot, error) {
	if raw == nil || central == nil {
		return nil, fmt.Errorf("%w: missing grid", ErrInputShape)
	}
	if err := sameShape(raw, central); err != nil {
		return nil, err
	}
	D, S := raw.Dims()

	p := plot.New()
	p.Title.Text = "Finger readings through pipe"
	p.X.Label.Text = "Depth (mm)"
	p.Y.Label.Text = "Reading (mm)"

	depths := Depths(D, opts.DepthSpacing)
	column := func(m *mat.Dense, j int) plotter.XYs {
		pts := make(plotter.XYs, D)
		for i := 0; i < D; i++ {
			pts[i] = plotter.XY{X: depths[i], Y: m.At(i, j)}
		}
		return pts
	}

	var rawLegend, centralLegend *plotter.Line
	for j := 0; j < S; j++ {
		l, err := plotter.NewLine(column(raw, j))
		if err != nil {
			return nil, fmt.Errorf("raw finger %d: %w", j, err)
		}
		l.Color = rawLineColor
		l.Width = vg.Points(1)
		p.Add(l)
		if rawLegend == nil {
			rawLegend = l
		}
	}
	for j := 0; j < S; j++ {
		l, err := plotter.NewLine(column(central, j))
		if err != nil {
			return nil, fmt.Errorf("centralized finger %d: %w", j, err)
		}
		l.Color = centralLineColor
		l.Width = vg.Points(1)
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(l)
		if centralLegend == nil {
			centralLegend = l
		}
	}

	last := depths[D-1]
	radius, err := plotter.NewLine(plotter.XYs{{X: 0, Y: opts.ExpectedRadius}, {X: last, Y: opts.ExpectedRadius}})
	if err != nil {
		return nil, fmt.Errorf("radius line: %w", err)
	}
	radius.Color = radiusLineColor
	radius.Width = vg.Points(1.5)
	p.Add(radius)

	p.Legend.Add("Noncentralized Readings", rawLegend)
	p.Legend.Add("Centralized Readings", centralLegend)
	p.Legend.Add(fmt.Sprintf("Pipe Radius (%g mm)", opts.ExpectedRadius), radius)
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SaveComparisonChart builds the comparison chart and saves it; the image
// format follows the file extension.
func SaveComparisonChart(path string, raw, central *mat.Dense, opts ChartOptions) error {
	p, err := ComparisonChart(raw, central, opts)
	if err != nil {
		return err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 14*vg.Inch, 6*vg.Inch
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("save comparison chart: %w", err)
	}
	return nil
}
