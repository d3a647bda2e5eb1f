package engine

import "math"

const (
	fovAngleStepDeg = 2
	fovRayStep      = 0.5
)

// CalculateFOV computes the set of tile keys visible from origin within
// sight range r on origin's floor, per spec §4.3: a 360-degree ray cast
// in 2-degree increments, each ray stepping 0.5 units at a time and
// stopping once it leaves the floor or hits an opaque tile (the opaque
// tile itself is revealed, nothing beyond it is).
func CalculateFOV(origin Coordinate, r int, floors []*FloorData) map[string]bool {
	visible := map[string]bool{origin.Key(): true}
	if origin.Floor < 0 || origin.Floor >= len(floors) {
		return visible
	}
	fd := floors[origin.Floor]

	maxSteps := int(float64(r) / fovRayStep)
	ox, oy := float64(origin.X)+0.5, float64(origin.Y)+0.5

	for angleDeg := 0; angleDeg < 360; angleDeg += fovAngleStepDeg {
		rad := float64(angleDeg) * math.Pi / 180
		dx, dy := math.Cos(rad), math.Sin(rad)

		for step := 1; step <= maxSteps; step++ {
			px := ox + dx*fovRayStep*float64(step)
			py := oy + dy*fovRayStep*float64(step)
			tx, ty := int(math.Floor(px)), int(math.Floor(py))

			if !fd.inBounds(tx, ty) {
				break
			}
			tile := fd.at(tx, ty)
			visible[Coordinate{X: tx, Y: ty, Floor: origin.Floor}.Key()] = true
			if tile.Metadata.Opacity >= 1 {
				break
			}
		}
	}
	return visible
}
