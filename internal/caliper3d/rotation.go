package caliper3d

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a viewpoint on the surface, angles in degrees. Elevation is
// measured up from the XY plane, azimuth counter-clockwise from +X.
type Camera struct {
	Elevation, Azimuth Real
}

var (
	axisX = r3.Vec{X: 1}
	axisZ = r3.Vec{Z: 1}
)

// View returns the rotation taking world coordinates to view coordinates:
// X to the right of the screen, Y up the screen, Z towards the eye.
// The eye sits at (cos el·cos az, cos el·sin az, sin el).
func (c Camera) View() *r3.Mat {
	el, az := deg2rad(c.Elevation), deg2rad(c.Azimuth)
	spin := r3.NewRotation(-(az + math.Pi/2), axisZ).Mat()
	tilt := r3.NewRotation(el-math.Pi/2, axisX).Mat()
	var v r3.Mat
	v.Mul(tilt, spin)
	return &v
}

// Eye returns the unit vector pointing from the scene towards the viewer,
// the view-space +Z axis taken back to world space.
func (c Camera) Eye() r3.Vec {
	return c.View().MulVecTrans(axisZ)
}
