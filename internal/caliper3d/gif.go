package caliper3d

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/palette"
)

// GIFOptions controls the animated output.
type GIFOptions struct {
	Loop    bool // loop forever, otherwise play once
	DelayMs int  // per frame
	Palette color.Palette
	Dither  bool // Floyd-Steinberg error diffusion when quantizing
}

// Artifact describes a written animation.
type Artifact struct {
	Path      string
	Frames    int
	DelayCS   int // 100ths of a second per frame
	LoopCount int
}

// FramePalette builds the GIF palette: samples of the colormap used for the
// surfaces followed by a gray ramp from black to white for the background,
// anti-aliased edges and titles.
func FramePalette(cmap palette.ColorMap) color.Palette {
	if cmap == nil {
		cmap = Viridis()
	}
	pal := make(color.Palette, 0, PaletteColormapColors+PaletteGrayColors)
	pal = append(pal, cmap.Palette(PaletteColormapColors).Colors()...)
	for i := 0; i < PaletteGrayColors; i++ {
		v := uint8(i * 255 / (PaletteGrayColors - 1))
		pal = append(pal, color.Gray{Y: v})
	}
	return pal
}

// AssembleGIF reads frames in index order from store, writes them to path as
// one animated GIF with a uniform frame delay and then releases the store.
// On failure the frames are left in the store.
func AssembleGIF(path string, frames []FrameHandle, store FrameStore, opts GIFOptions) (*Artifact, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: empty frame sequence", ErrAssembly)
	}
	pal := opts.Palette
	if len(pal) == 0 {
		pal = FramePalette(nil)
	}
	if len(pal) > 256 {
		return nil, fmt.Errorf("%w: palette has %d colors, GIF allows 256", ErrAssembly, len(pal))
	}
	delay := (opts.DelayMs + 5) / 10
	if delay < 1 {
		delay = 1
	}
	loopCount := -1
	if opts.Loop {
		loopCount = 0
	}

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: loopCount,
	}
	n := len(frames)
	for k, h := range frames {
		if h.Index != k {
			return nil, fmt.Errorf("%w: frame at position %d has index %d", ErrAssembly, k, h.Index)
		}
		if k%imax(1, n/100) == 0 { // ~1% steps
			fmt.Printf("[GIF] %.2f%%\n", Real(k+1)*100/Real(n))
		}
		img, err := store.Get(h)
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrAssembly, k, err)
		}
		if k > 0 && img.Bounds().Size() != out.Image[0].Bounds().Size() {
			return nil, fmt.Errorf("%w: frame %d is %v, first frame is %v", ErrAssembly, k, img.Bounds().Size(), out.Image[0].Bounds().Size())
		}
		out.Image = append(out.Image, quantize(img, pal, opts.Dither))
		out.Delay = append(out.Delay, delay)
	}

	if err := writeGIF(path, out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	if err := store.Release(frames); err != nil {
		return nil, fmt.Errorf("release frames: %w", err)
	}
	DebugLog("Saved animated GIF %s: %d frames, delay %d cs, loop %d", path, n, delay, loopCount)
	return &Artifact{Path: path, Frames: n, DelayCS: delay, LoopCount: loopCount}, nil
}

// quantize maps img onto pal, with error diffusion when dither is set.
func quantize(img image.Image, pal color.Palette, dither bool) *image.Paletted {
	b := img.Bounds()
	pimg := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	if dither {
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, b.Min)
	} else {
		draw.Draw(pimg, pimg.Bounds(), img, b.Min, draw.Src)
	}
	return pimg
}

func writeGIF(path string, g *gif.GIF) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
