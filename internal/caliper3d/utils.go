package caliper3d

import (
	"math"
)

type Real = float64

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func clamp01(x Real) Real {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func deg2rad(d Real) Real { return d * math.Pi / 180 }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
