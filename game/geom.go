package game

import "math"

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Dist returns the distance between two points
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// DistSq returns the squared distance between two points
func DistSq(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// AngleTo returns the heading from (ax,ay) toward (bx,by)
func AngleTo(ax, ay, bx, by float64) float64 {
	return math.Atan2(by-ay, bx-ax)
}

// CheckCollision checks if two circles overlap (touching counts)
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	radSum := r1 + r2
	return DistSq(x1, y1, x2, y2) <= radSum*radSum
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// ClampToMap keeps a circle of radius r fully inside a w×h map.
func ClampToMap(x, y, r, w, h float64) (float64, float64) {
	return Clamp(x, r, w-r), Clamp(y, r, h-r)
}

// InsideMap reports whether a point lies on the map (edges inclusive).
func InsideMap(x, y, w, h float64) bool {
	return x >= 0 && x <= w && y >= 0 && y <= h
}
