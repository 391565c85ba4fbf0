package caliper3d

import (
	"fmt"
	"image"
	"sync"
)

// FrameHandle identifies one rendered still of a rotation sequence.
// Path is set only when the frame lives on disk.
type FrameHandle struct {
	Index   int
	Azimuth Real
	Path    string
}

// FrameStore keeps the stills between the sequencer and the assembler.
// Put may be called concurrently for distinct indices.
type FrameStore interface {
	Put(index int, azimuth Real, img image.Image) (FrameHandle, error)
	Get(h FrameHandle) (image.Image, error)
	// Release drops every frame; the store is not usable afterwards.
	Release(handles []FrameHandle) error
}

// MemoryFrames keeps captured frames in memory.
type MemoryFrames struct {
	mu     sync.Mutex
	frames map[int]image.Image
}

func NewMemoryFrames() *MemoryFrames {
	return &MemoryFrames{frames: make(map[int]image.Image)}
}

func (m *MemoryFrames) Put(index int, azimuth Real, img image.Image) (FrameHandle, error) {
	if img == nil {
		return FrameHandle{}, fmt.Errorf("frame %d: nil image", index)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.frames[index]; dup {
		return FrameHandle{}, fmt.Errorf("frame %d stored twice", index)
	}
	m.frames[index] = img
	return FrameHandle{Index: index, Azimuth: azimuth}, nil
}

func (m *MemoryFrames) Get(h FrameHandle) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.frames[h.Index]
	if !ok {
		return nil, fmt.Errorf("frame %d not found", h.Index)
	}
	return img, nil
}

// Len returns the number of frames held.
func (m *MemoryFrames) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

func (m *MemoryFrames) Release(handles []FrameHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = make(map[int]image.Image)
	DebugLog("Released %d in-memory frames", len(handles))
	return nil
}
