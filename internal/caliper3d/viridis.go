package caliper3d

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// viridis control points at t = 0, 0.1, ..., 1. CIE L* rises strictly along
// the ramp, which is what moreland.NewLuminance requires.
var viridisControls = []color.Color{
	color.NRGBA{0x44, 0x01, 0x54, 0xff},
	color.NRGBA{0x48, 0x24, 0x75, 0xff},
	color.NRGBA{0x41, 0x44, 0x87, 0xff},
	color.NRGBA{0x35, 0x5f, 0x8d, 0xff},
	color.NRGBA{0x2a, 0x78, 0x8e, 0xff},
	color.NRGBA{0x21, 0x91, 0x8c, 0xff},
	color.NRGBA{0x22, 0xa8, 0x84, 0xff},
	color.NRGBA{0x44, 0xbf, 0x70, 0xff},
	color.NRGBA{0x7a, 0xd1, 0x51, 0xff},
	color.NRGBA{0xbd, 0xdf, 0x26, 0xff},
	color.NRGBA{0xfd, 0xe7, 0x25, 0xff},
}

// Viridis returns a perceptually ordered purple-to-yellow map over [0,1].
func Viridis() palette.ColorMap {
	cm, err := moreland.NewLuminance(viridisControls)
	if err != nil {
		// control points are constant and strictly increasing in luminance
		panic(err)
	}
	return unitRange(cm)
}

// ColorMapByName resolves the config's colormap key.
func ColorMapByName(name string) (palette.ColorMap, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "viridis":
		return Viridis(), nil
	case "blackbody":
		return unitRange(moreland.ExtendedBlackBody()), nil
	case "kindlmann":
		return unitRange(moreland.ExtendedKindlmann()), nil
	}
	return nil, fmt.Errorf("%w: unknown colormap %q", ErrInvalidConfig, name)
}

func unitRange(cm palette.ColorMap) palette.ColorMap {
	cm.SetMin(0)
	cm.SetMax(1)
	cm.SetAlpha(1)
	return cm
}
