//go:build debug

package caliper3d

// Builds tagged debug always log.
func init() { Debug = true }
