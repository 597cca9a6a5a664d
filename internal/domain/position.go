package domain

import "math"

// Point is a 2-D coordinate in the unit square
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StepToward moves the point a fixed fraction of the remaining vector
// toward target, returning the new position. Once the remaining distance
// is below epsilon on both axes the point snaps exactly onto the target.
func (p Point) StepToward(target Point, fraction, epsilon float64) Point {
	moved := Point{
		X: p.X + (target.X-p.X)*fraction,
		Y: p.Y + (target.Y-p.Y)*fraction,
	}

	if math.Abs(target.X-moved.X) < epsilon && math.Abs(target.Y-moved.Y) < epsilon {
		return target
	}
	return moved
}
