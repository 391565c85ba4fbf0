package caliper3d

// Run defaults. Every value can be overridden from the JSON config.
const (
	ConfigPath      = "config.json"
	RawPath         = "data/data.txt"
	CentralizedPath = "data/transformed_data.txt"
	OutputDir       = "images"
	StaticName      = "3d.png"
	ChartName       = "finger_readings_plot.png"
	GIFName         = "3d.gif"
	ExpectedRadius  = 127.0 // nominal pipe radius, mm
	DepthSpacing    = 5.0   // mm between two depth samples
	AzimuthStart    = 0.0
	AzimuthEnd      = 360.0
	FrameCount      = 100
	Elevation       = 42.0
	StaticElevation = 30.0
	StaticAzimuth   = -60.0
	FrameDelayMs    = 120
	FigureWidth     = 1000
	FigureHeight    = 600
	ColorMapName    = "viridis"
	// box the surface is scaled into: x, y in [-1,1], z in [-BoxAspectZ,BoxAspectZ]
	BoxAspectZ = 0.75
	// fraction of the panel the bounding sphere of the box may fill
	PanelFill = 0.92
	// GIF palette split: colormap samples + gray ramp = 256
	PaletteColormapColors = 192
	PaletteGrayColors     = 64
	scratchDirName        = "frames"
	epsNorm               = 1e-12
)
