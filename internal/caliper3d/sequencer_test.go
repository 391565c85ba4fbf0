package caliper3d

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidRender draws a 4x4 frame whose color encodes the azimuth.
func solidRender(cam Camera) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c := color.RGBA{R: uint8(int(cam.Azimuth) % 256), G: 10, B: 20, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

func TestAzimuthsExample(t *testing.T) {
	got := Azimuths(SequenceOptions{FrameCount: 4, AzimuthStart: 0, AzimuthEnd: 360})
	if diff := cmp.Diff([]Real{0, 90, 180, 270}, got); diff != "" {
		t.Fatalf("azimuths mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceFrameCount(t *testing.T) {
	ranges := [][2]Real{{0, 360}, {360, 0}, {-720, 720}, {10, 10}, {0, 1e-9}}
	for _, r := range ranges {
		for _, n := range []int{1, 7, 100} {
			for _, workers := range []int{1, 3} {
				t.Run(fmt.Sprintf("%g..%g/n=%d/w=%d", r[0], r[1], n, workers), func(t *testing.T) {
					opts := SequenceOptions{FrameCount: n, AzimuthStart: r[0], AzimuthEnd: r[1], Elevation: 42, Workers: workers}
					store := NewMemoryFrames()
					handles, err := Sequence(solidRender, store, opts)
					require.NoError(t, err)
					require.Len(t, handles, n)
					assert.Equal(t, n, store.Len())
					az := Azimuths(opts)
					for i, h := range handles {
						assert.Equal(t, i, h.Index)
						assert.Equal(t, az[i], h.Azimuth)
					}
				})
			}
		}
	}
}

func TestSequenceUsesFixedElevation(t *testing.T) {
	var seen []Camera
	render := func(cam Camera) (image.Image, error) {
		seen = append(seen, cam)
		return solidRender(cam)
	}
	_, err := Sequence(render, NewMemoryFrames(), SequenceOptions{FrameCount: 4, AzimuthEnd: 360, Elevation: 42})
	require.NoError(t, err)
	want := []Camera{{42, 0}, {42, 90}, {42, 180}, {42, 270}}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("cameras mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceParallelMatchesSerial(t *testing.T) {
	opts := SequenceOptions{FrameCount: 36, AzimuthEnd: 360, Elevation: 42}
	serialStore := NewMemoryFrames()
	serial, err := Sequence(solidRender, serialStore, opts)
	require.NoError(t, err)

	opts.Workers = -1
	parallelStore := NewMemoryFrames()
	parallel, err := Sequence(solidRender, parallelStore, opts)
	require.NoError(t, err)

	require.Equal(t, serial, parallel)
	for _, h := range serial {
		a, err := serialStore.Get(h)
		require.NoError(t, err)
		b, err := parallelStore.Get(h)
		require.NoError(t, err)
		assert.Equal(t, a.(*image.RGBA).Pix, b.(*image.RGBA).Pix, "frame %d", h.Index)
	}
}

func TestSequenceFailsFast(t *testing.T) {
	boom := errors.New("boom")
	for _, workers := range []int{1, 4} {
		var calls int64
		render := func(cam Camera) (image.Image, error) {
			atomic.AddInt64(&calls, 1)
			if cam.Azimuth >= 180 {
				return nil, boom
			}
			return solidRender(cam)
		}
		handles, err := Sequence(render, NewMemoryFrames(), SequenceOptions{FrameCount: 8, AzimuthEnd: 360, Workers: workers})
		require.Error(t, err)
		assert.Nil(t, handles)
		assert.ErrorIs(t, err, ErrRender)
		assert.ErrorIs(t, err, boom)

		var re *RenderError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, 4, re.Index, "workers=%d", workers)
		assert.Equal(t, 180.0, re.Azimuth)
		if workers == 1 {
			assert.EqualValues(t, 5, atomic.LoadInt64(&calls))
		}
	}
}

func TestSequenceInvalid(t *testing.T) {
	_, err := Sequence(solidRender, NewMemoryFrames(), SequenceOptions{FrameCount: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = Sequence(nil, NewMemoryFrames(), SequenceOptions{FrameCount: 2})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = Sequence(solidRender, nil, SequenceOptions{FrameCount: 2})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
