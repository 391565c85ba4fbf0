package caliper3d

import "os"

var (
	Debug        = false // set to true for verbose debug output
	FramesOnDisk = false // set to true to spool animation frames through a scratch directory
	// Compile time checks
	_ FrameStore = (*MemoryFrames)(nil)
	_ FrameStore = (*DiskFrames)(nil)
)

// SwitchesFromEnv turns Debug and FramesOnDisk on when DEBUG or
// FRAMES_ON_DISK are set. A switch already on (debug build tag) stays on.
func SwitchesFromEnv() {
	Debug = Debug || os.Getenv("DEBUG") != ""
	FramesOnDisk = FramesOnDisk || os.Getenv("FRAMES_ON_DISK") != ""
}
