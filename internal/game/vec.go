package game

import "math"

// Vec3 is a position in zone space. Y is up; movement and range checks
// happen on the full vector so flying or falling entities still resolve.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(f float32) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// DistSq returns the squared distance to o. Range checks compare against
// squared thresholds to stay off the sqrt path.
func (v Vec3) DistSq(o Vec3) float32 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

func (v Vec3) Dist(o Vec3) float32 {
	return float32(math.Sqrt(float64(v.DistSq(o))))
}

// StepToward moves up to maxStep toward target, landing exactly on it when
// the remaining distance is shorter than the step.
func (v Vec3) StepToward(target Vec3, maxStep float32) Vec3 {
	if maxStep <= 0 {
		return v
	}
	d := v.Dist(target)
	if d <= maxStep {
		return target
	}
	return v.Add(target.Sub(v).Scale(maxStep / d))
}
