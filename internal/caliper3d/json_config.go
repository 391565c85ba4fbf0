package caliper3d

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
)

// Config is the JSON run configuration. Zero or omitted values take the
// defaults from const.go; negative sizes are rejected by Validate.
type Config struct {
	RawPath         string `json:"rawPath"`
	CentralizedPath string `json:"centralizedPath"`
	OutputDir       string `json:"outputDir"`
	StaticName      string `json:"staticName,omitempty"`
	ChartName       string `json:"chartName,omitempty"`
	GIFName         string `json:"gifName,omitempty"`

	ExpectedRadius Real `json:"expectedRadius"`
	DepthSpacing   Real `json:"depthSpacing"`

	// Rotation
	AzimuthStart *Real `json:"azimuthStart,omitempty"`
	AzimuthEnd   *Real `json:"azimuthEnd,omitempty"`
	FrameCount   int   `json:"frameCount"`
	Elevation    *Real `json:"elevation,omitempty"`
	Workers      int   `json:"workers,omitempty"`

	// Static figure pose
	StaticElevation *Real `json:"staticElevation,omitempty"`
	StaticAzimuth   *Real `json:"staticAzimuth,omitempty"`

	// Output
	FrameDelayMs int    `json:"frameDelayMs,omitempty"`
	Loop         *bool  `json:"loop,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	ColorMap     string `json:"colormap,omitempty"`
	Dither       bool   `json:"dither,omitempty"`
	FramesOnDisk bool   `json:"framesOnDisk,omitempty"`
	ShowTitles   *bool  `json:"showTitles,omitempty"`
}

func realPtr(v Real) *Real { return &v }
func boolPtr(v bool) *bool { return &v }

// DefaultConfig returns a config with every default filled in.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.RawPath == "" {
		cfg.RawPath = RawPath
	}
	if cfg.CentralizedPath == "" {
		cfg.CentralizedPath = CentralizedPath
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = OutputDir
	}
	if cfg.StaticName == "" {
		cfg.StaticName = StaticName
	}
	if cfg.ChartName == "" {
		cfg.ChartName = ChartName
	}
	if cfg.GIFName == "" {
		cfg.GIFName = GIFName
	}
	if cfg.ExpectedRadius == 0 {
		cfg.ExpectedRadius = ExpectedRadius
	}
	if cfg.DepthSpacing == 0 {
		cfg.DepthSpacing = DepthSpacing
	}
	if cfg.AzimuthStart == nil {
		cfg.AzimuthStart = realPtr(AzimuthStart)
	}
	if cfg.AzimuthEnd == nil {
		cfg.AzimuthEnd = realPtr(AzimuthEnd)
	}
	if cfg.FrameCount == 0 {
		cfg.FrameCount = FrameCount
	}
	if cfg.Elevation == nil {
		cfg.Elevation = realPtr(Elevation)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.StaticElevation == nil {
		cfg.StaticElevation = realPtr(StaticElevation)
	}
	if cfg.StaticAzimuth == nil {
		cfg.StaticAzimuth = realPtr(StaticAzimuth)
	}
	if cfg.FrameDelayMs == 0 {
		cfg.FrameDelayMs = FrameDelayMs
	}
	if cfg.Loop == nil {
		cfg.Loop = boolPtr(true)
	}
	if cfg.Width == 0 {
		cfg.Width = FigureWidth
	}
	if cfg.Height == 0 {
		cfg.Height = FigureHeight
	}
	if cfg.ColorMap == "" {
		cfg.ColorMap = ColorMapName
	}
	if cfg.ShowTitles == nil {
		cfg.ShowTitles = boolPtr(true)
	}
}

// Validate rejects values the pipeline cannot run with.
func (cfg *Config) Validate() error {
	for name, v := range map[string]Real{
		"expectedRadius":  cfg.ExpectedRadius,
		"depthSpacing":    cfg.DepthSpacing,
		"azimuthStart":    *cfg.AzimuthStart,
		"azimuthEnd":      *cfg.AzimuthEnd,
		"elevation":       *cfg.Elevation,
		"staticElevation": *cfg.StaticElevation,
		"staticAzimuth":   *cfg.StaticAzimuth,
	} {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidConfig, name, v)
		}
	}
	if cfg.ExpectedRadius <= 0 || cfg.DepthSpacing <= 0 {
		return fmt.Errorf("%w: expectedRadius and depthSpacing must be positive", ErrInvalidConfig)
	}
	for name, v := range map[string]int{
		"frameCount":   cfg.FrameCount,
		"frameDelayMs": cfg.FrameDelayMs,
		"width":        cfg.Width,
		"height":       cfg.Height,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, name, v)
		}
	}
	if math.Abs(*cfg.Elevation) > 90 || math.Abs(*cfg.StaticElevation) > 90 {
		return fmt.Errorf("%w: elevation must be within [-90, 90]", ErrInvalidConfig)
	}
	if _, err := ColorMapByName(cfg.ColorMap); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) StaticPath() string { return filepath.Join(cfg.OutputDir, cfg.StaticName) }
func (cfg *Config) ChartPath() string  { return filepath.Join(cfg.OutputDir, cfg.ChartName) }
func (cfg *Config) GIFPath() string    { return filepath.Join(cfg.OutputDir, cfg.GIFName) }
func (cfg *Config) ScratchDir() string { return filepath.Join(cfg.OutputDir, scratchDirName) }

func (cfg *Config) SequenceOptions() SequenceOptions {
	return SequenceOptions{
		FrameCount:   cfg.FrameCount,
		AzimuthStart: *cfg.AzimuthStart,
		AzimuthEnd:   *cfg.AzimuthEnd,
		Elevation:    *cfg.Elevation,
		Workers:      cfg.Workers,
	}
}

func (cfg *Config) StaticCamera() Camera {
	return Camera{Elevation: *cfg.StaticElevation, Azimuth: *cfg.StaticAzimuth}
}

func (cfg *Config) ChartOptions() ChartOptions {
	return ChartOptions{
		ExpectedRadius: cfg.ExpectedRadius,
		DepthSpacing:   cfg.DepthSpacing,
		Width:          14 * vg.Inch,
		Height:         6 * vg.Inch,
	}
}

// loadConfig reads path; a missing file at the default location means defaults.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == ConfigPath:
		DebugLog("No %s, using defaults", path)
	default:
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	DebugLog("Loaded config from %s: raw=%s centralized=%s radius=%.2f spacing=%.2f frames=%d elevation=%.2f azimuth=[%.2f, %.2f)",
		path, cfg.RawPath, cfg.CentralizedPath, cfg.ExpectedRadius, cfg.DepthSpacing,
		cfg.FrameCount, *cfg.Elevation, *cfg.AzimuthStart, *cfg.AzimuthEnd)
	return &cfg, nil
}
