package caliper3d

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// SequenceOptions describes a rotation: FrameCount stills with azimuths
// evenly stepped from AzimuthStart towards AzimuthEnd (end excluded) at a
// fixed elevation. Workers > 1 renders frames in parallel, a negative value
// uses every CPU, 0 and 1 render one frame at a time.
type SequenceOptions struct {
	FrameCount   int
	AzimuthStart Real
	AzimuthEnd   Real
	Elevation    Real
	Workers      int
}

// Azimuths returns the azimuth of every frame, in degrees.
func Azimuths(opts SequenceOptions) []Real {
	if opts.FrameCount < 1 {
		return nil
	}
	step := (opts.AzimuthEnd - opts.AzimuthStart) / Real(opts.FrameCount)
	az := make([]Real, opts.FrameCount)
	for i := range az {
		az[i] = opts.AzimuthStart + Real(i)*step
	}
	return az
}

// Sequence renders one frame per azimuth step into store and returns the
// handles ordered by frame index. The first failing frame (lowest index)
// aborts the whole sequence.
func Sequence(render RenderFunc, store FrameStore, opts SequenceOptions) ([]FrameHandle, error) {
	if opts.FrameCount < 1 {
		return nil, fmt.Errorf("%w: frame count must be positive, got %d", ErrInvalidConfig, opts.FrameCount)
	}
	if render == nil || store == nil {
		return nil, fmt.Errorf("%w: sequence needs a renderer and a frame store", ErrInvalidConfig)
	}
	az := Azimuths(opts)
	workers := opts.Workers
	if workers < 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(az) {
		workers = len(az)
	}
	DebugLog("Sequencing %d frames, azimuth %.2f..%.2f, elevation %.2f, workers=%d",
		len(az), opts.AzimuthStart, opts.AzimuthEnd, opts.Elevation, workers)

	if workers == 1 {
		return sequenceSerial(render, store, opts.Elevation, az)
	}
	return sequenceParallel(render, store, opts.Elevation, az, workers)
}

func renderFrame(render RenderFunc, store FrameStore, i int, elevation, azimuth Real) (FrameHandle, error) {
	img, err := render(Camera{Elevation: elevation, Azimuth: azimuth})
	if err != nil {
		return FrameHandle{}, &RenderError{Index: i, Azimuth: azimuth, Err: err}
	}
	h, err := store.Put(i, azimuth, img)
	if err != nil {
		return FrameHandle{}, &RenderError{Index: i, Azimuth: azimuth, Err: err}
	}
	return h, nil
}

func sequenceSerial(render RenderFunc, store FrameStore, elevation Real, az []Real) ([]FrameHandle, error) {
	n := len(az)
	step := imax(1, n/100) // ~1% steps
	handles := make([]FrameHandle, 0, n)
	for i, a := range az {
		if i%step == 0 {
			fmt.Printf("[FRAMES] %.2f%%\n", Real(i+1)*100/Real(n))
		}
		h, err := renderFrame(render, store, i, elevation, a)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// sequenceParallel hands frame indices to a fixed pool of workers. Results
// land in their index slot, so order does not depend on scheduling.
func sequenceParallel(render RenderFunc, store FrameStore, elevation Real, az []Real, workers int) ([]FrameHandle, error) {
	n := len(az)
	handles := make([]FrameHandle, n)
	errs := make([]error, n)

	var next, done, failed int64
	step := int64(imax(1, n/100))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				if atomic.LoadInt64(&failed) != 0 {
					return
				}
				i := int(atomic.AddInt64(&next, 1) - 1)
				if i >= n {
					return
				}
				h, err := renderFrame(render, store, i, elevation, az[i])
				if err != nil {
					errs[i] = err
					atomic.StoreInt64(&failed, 1)
					return
				}
				handles[i] = h
				if d := atomic.AddInt64(&done, 1); d%step == 0 {
					fmt.Printf("[FRAMES] %.2f%%\n", Real(d)*100/Real(n))
				}
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return handles, nil
}
