package caliper3d

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
)

// DiskFrames spools frames as a PNG sequence in a scratch directory.
// Release deletes the frames and then the directory itself.
type DiskFrames struct {
	Dir   string
	width int // zero-padding of the frame number
}

// NewDiskFrames creates dir (if absent) for a sequence of frameCount frames
// and clears frames a previous run left in it.
func NewDiskFrames(dir string, frameCount int) (*DiskFrames, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// A failed run may have left frames behind.
	stale, err := filepath.Glob(filepath.Join(dir, "frame_*.png"))
	if err != nil {
		return nil, err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if len(stale) > 0 {
		DebugLog("Removed %d stale frames from %s", len(stale), dir)
	}
	// Zero-padding width based on the last frame number.
	width := len(strconv.Itoa(imax(frameCount-1, 0)))
	DebugLog("Scratch frame directory: %s", dir)
	return &DiskFrames{Dir: dir, width: width}, nil
}

// FramePath returns the file a frame index is stored in.
func (d *DiskFrames) FramePath(index int) string {
	return filepath.Join(d.Dir, fmt.Sprintf("frame_%0*d.png", d.width, index))
}

func (d *DiskFrames) Put(index int, azimuth Real, img image.Image) (FrameHandle, error) {
	full := d.FramePath(index)
	f, err := os.Create(full)
	if err != nil {
		return FrameHandle{}, err
	}
	// Frames are read back once, favour speed over size.
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return FrameHandle{}, err
	}
	if err := f.Close(); err != nil {
		return FrameHandle{}, err
	}
	return FrameHandle{Index: index, Azimuth: azimuth, Path: full}, nil
}

func (d *DiskFrames) Get(h FrameHandle) (image.Image, error) {
	path := h.Path
	if path == "" {
		path = d.FramePath(h.Index)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func (d *DiskFrames) Release(handles []FrameHandle) error {
	var errs []error
	for _, h := range handles {
		path := h.Path
		if path == "" {
			path = d.FramePath(h.Index)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	if err := os.Remove(d.Dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	DebugLog("Removed %d frames and %s", len(handles), d.Dir)
	return nil
}
