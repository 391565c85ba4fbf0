package caliper3d

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
)

// canvasDPI makes one vg point one pixel.
const canvasDPI = 72

// facet is one projected quad of the surface.
type facet struct {
	pts   [4]vg.Point
	depth Real // larger is closer to the eye
	idx   int
	color color.NRGBA
}

// RenderSurface draws s, filled with colors, as seen from cam into a new
// image of the given size. Nothing but the surface is drawn.
func RenderSurface(s *Surface, colors *ColorGrid, cam Camera, size image.Point) (*image.RGBA, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: empty image size %v", ErrRender, size)
	}
	c := newCanvas(size)
	rect := vg.Rectangle{Max: vg.Point{X: vg.Length(size.X), Y: vg.Length(size.Y)}}
	if err := drawSurface(c, rect, s, colors, cam); err != nil {
		return nil, err
	}
	return toRGBA(c.Image()), nil
}

func newCanvas(size image.Point) *vgimg.Canvas {
	return vgimg.NewWith(
		vgimg.UseWH(vg.Length(size.X), vg.Length(size.Y)),
		vgimg.UseDPI(canvasDPI),
		vgimg.UseBackgroundColor(color.White),
	)
}

// drawSurface paints the surface's facets back to front inside rect.
// Facets are flat filled with their cell color, no lighting is applied.
func drawSurface(c vg.Canvas, rect vg.Rectangle, s *Surface, colors *ColorGrid, cam Camera) error {
	if s == nil || colors == nil {
		return fmt.Errorf("%w: missing surface or colors", ErrInputShape)
	}
	D, S := s.Dims()
	if colors.Rows != D || colors.Cols != S {
		return fmt.Errorf("%w: surface is %dx%d, colors are %dx%d", ErrInputShape, D, S, colors.Rows, colors.Cols)
	}
	if sz := rect.Size(); sz.X <= 0 || sz.Y <= 0 {
		return nil
	}
	facets := projectFacets(s, colors, cam, rect)
	sort.Slice(facets, func(a, b int) bool {
		if facets[a].depth != facets[b].depth {
			return facets[a].depth < facets[b].depth
		}
		return facets[a].idx < facets[b].idx
	})

	// A hairline in the facet's own color closes the anti-aliasing seams
	// between neighbouring quads.
	c.SetLineWidth(vg.Points(0.5))
	for _, f := range facets {
		var p vg.Path
		p.Move(f.pts[0])
		p.Line(f.pts[1])
		p.Line(f.pts[2])
		p.Line(f.pts[3])
		p.Close()
		c.SetColor(f.color)
		c.Fill(p)
		c.Stroke(p)
	}
	DebugLogOnce("Surface mesh: %d facets per panel", len(facets))
	return nil
}

// projectFacets maps the surface into the unit box, rotates it into view
// space and scales it into rect. The scale depends only on the box, so it
// does not change with the camera.
func projectFacets(s *Surface, colors *ColorGrid, cam Camera, rect vg.Rectangle) []facet {
	D, S := s.Dims()
	box := newBoxMap(s)
	view := cam.View()

	size := rect.Size()
	half := math.Min(Real(size.X), Real(size.Y)) / 2
	scale := PanelFill * half / box.radius()
	ox := Real(rect.Min.X) + Real(size.X)/2
	oy := Real(rect.Min.Y) + Real(size.Y)/2

	pts := make([]vg.Point, D*S)
	depth := make([]Real, D*S)
	for i := 0; i < D; i++ {
		for j := 0; j < S; j++ {
			v := r3.Scale(scale, view.MulVec(box.at(s, i, j)))
			pts[i*S+j] = vg.Point{X: vg.Length(ox + v.X), Y: vg.Length(oy + v.Y)}
			depth[i*S+j] = v.Z
		}
	}

	if D < 2 {
		return nil
	}
	facets := make([]facet, 0, (D-1)*(S-1))
	for i := 0; i < D-1; i++ {
		for j := 0; j < S-1; j++ {
			a, b := i*S+j, i*S+j+1
			c, d := (i+1)*S+j+1, (i+1)*S+j
			facets = append(facets, facet{
				pts:   [4]vg.Point{pts[a], pts[b], pts[c], pts[d]},
				depth: (depth[a] + depth[b] + depth[c] + depth[d]) / 4,
				idx:   i*(S-1) + j,
				color: colors.At(i, j),
			})
		}
	}
	return facets
}

// boxMap normalizes surface coordinates: X and Y share one scale so the
// pipe's cross-section keeps its shape, Z is squeezed into ±BoxAspectZ.
type boxMap struct {
	center, scale r3.Vec
}

func newBoxMap(s *Surface) boxMap {
	minX, maxX := floats.Min(denseData(s.X)), floats.Max(denseData(s.X))
	minY, maxY := floats.Min(denseData(s.Y)), floats.Max(denseData(s.Y))
	minZ, maxZ := floats.Min(denseData(s.Z)), floats.Max(denseData(s.Z))

	b := boxMap{center: r3.Vec{X: (minX + maxX) / 2, Y: (minY + maxY) / 2, Z: (minZ + maxZ) / 2}}
	if hxy := math.Max(maxX-minX, maxY-minY) / 2; hxy > epsNorm {
		b.scale.X = 1 / hxy
		b.scale.Y = b.scale.X
	}
	if hz := (maxZ - minZ) / 2; hz > epsNorm {
		b.scale.Z = BoxAspectZ / hz
	}
	return b
}

func (b boxMap) at(s *Surface, i, j int) r3.Vec {
	p := r3.Sub(r3.Vec{X: s.X.At(i, j), Y: s.Y.At(i, j), Z: s.Z.At(i, j)}, b.center)
	return r3.Vec{X: p.X * b.scale.X, Y: p.Y * b.scale.Y, Z: p.Z * b.scale.Z}
}

// radius of the sphere enclosing the normalized box.
func (b boxMap) radius() Real {
	return r3.Norm(r3.Vec{X: 1, Y: 1, Z: BoxAspectZ})
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
