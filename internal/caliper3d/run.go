package caliper3d

import (
	"log"
	"time"
)

// Run loads the config at cfgPath and produces every output.
func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return stageErr("config", err)
	}
	_, err = RunConfig(cfg)
	return err
}

// RunConfig renders the static figure, the comparison chart and the
// rotation animation. Any failure aborts the run and names its stage.
func RunConfig(cfg *Config) (*Artifact, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, stageErr("config", err)
	}
	cmap, err := ColorMapByName(cfg.ColorMap)
	if err != nil {
		return nil, stageErr("config", err)
	}

	raw, central, err := LoadPair(cfg.RawPath, cfg.CentralizedPath)
	if err != nil {
		return nil, stageErr("load", err)
	}
	_, sensors := raw.Dims()

	rawSurf, err := Project(raw, sensors, cfg.DepthSpacing)
	if err != nil {
		return nil, stageErr("project", err)
	}
	centralSurf, err := Project(central, sensors, cfg.DepthSpacing)
	if err != nil {
		return nil, stageErr("project", err)
	}

	// Each grid is normalized on its own deviation range.
	rawColors, err := Colorize(raw, cfg.ExpectedRadius, cmap)
	if err != nil {
		return nil, stageErr("colorize", err)
	}
	centralColors, err := Colorize(central, cfg.ExpectedRadius, cmap)
	if err != nil {
		return nil, stageErr("colorize", err)
	}

	fig := NewFigure(cfg.Width, cfg.Height, *cfg.ShowTitles,
		Panel{Title: "Offset Readings", Surface: rawSurf, Colors: rawColors},
		Panel{Title: "Centralized Readings", Surface: centralSurf, Colors: centralColors},
	)

	if err := fig.SavePNG(cfg.StaticPath(), cfg.StaticCamera()); err != nil {
		return nil, stageErr("static", err)
	}
	log.Printf("Saved static plot: %s", cfg.StaticPath())

	if err := SaveComparisonChart(cfg.ChartPath(), raw, central, cfg.ChartOptions()); err != nil {
		return nil, stageErr("chart", err)
	}
	log.Printf("Saved comparison chart: %s", cfg.ChartPath())

	var store FrameStore
	if cfg.FramesOnDisk || FramesOnDisk {
		ds, err := NewDiskFrames(cfg.ScratchDir(), cfg.FrameCount)
		if err != nil {
			return nil, stageErr("sequence", err)
		}
		store = ds
	} else {
		store = NewMemoryFrames()
	}

	log.Printf("Animating %d frames... (this may take a bit)", cfg.FrameCount)
	start := time.Now()
	frames, err := Sequence(fig.RenderFunc(), store, cfg.SequenceOptions())
	if err != nil {
		return nil, stageErr("sequence", err)
	}
	DebugLog("Rendered %d frames in %s", len(frames), time.Since(start))

	art, err := AssembleGIF(cfg.GIFPath(), frames, store, GIFOptions{
		Loop:    *cfg.Loop,
		DelayMs: cfg.FrameDelayMs,
		Palette: FramePalette(cmap),
		Dither:  cfg.Dither,
	})
	if err != nil {
		return nil, stageErr("assemble", err)
	}
	log.Printf("Saved animated GIF: %s (%d frames)", art.Path, art.Frames)
	return art, nil
}
