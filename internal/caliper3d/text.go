package caliper3d

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawTitle centers str horizontally in rect, just below its top edge.
func drawTitle(dst draw.Image, rect image.Rectangle, str string) {
	if str == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(str).Ceil()
	x := rect.Min.X + (rect.Dx()-w)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	y := rect.Min.Y + titleMargin + basicfont.Face7x13.Ascent
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d.DrawString(str)
}

// titleMargin is the padding above and below a panel title, in pixels.
const titleMargin = 8

func titleHeight() int { return 2*titleMargin + basicfont.Face7x13.Height }
