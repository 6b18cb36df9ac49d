package nesting

import (
	"math"

	"github.com/bitfantasy/nimo-yield/internal/geom"
)

// polygonsIntersect 边相交或一方包含另一方即视为相交
func polygonsIntersect(a, b geom.Polygon) bool {
	for i := range a {
		a1, a2 := a[i], a[(i+1)%len(a)]
		for j := range b {
			b1, b2 := b[j], b[(j+1)%len(b)]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	if len(a) > 0 && b.Contains(a[0]) {
		return true
	}
	if len(b) > 0 && a.Contains(b[0]) {
		return true
	}
	return false
}

// polygonDistance 两多边形边界的最小距离。相交时也只按边距算，
// 调用方先做相交检查。
func polygonDistance(a, b geom.Polygon) float64 {
	min := math.MaxFloat64
	for i := range a {
		a1, a2 := a[i], a[(i+1)%len(a)]
		for j := range b {
			b1, b2 := b[j], b[(j+1)%len(b)]
			if d := segmentDistance(a1, a2, b1, b2); d < min {
				min = d
			}
		}
	}
	return min
}

func cross(o, a, b geom.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func segmentsIntersect(p1, p2, q1, q2 geom.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(q1, q2, p1) {
		return true
	}
	if d2 == 0 && onSegment(q1, q2, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, q2) {
		return true
	}
	return false
}

func onSegment(a, b, p geom.Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// segmentDistance 两线段最小距离
func segmentDistance(p1, p2, q1, q2 geom.Point) float64 {
	if segmentsIntersect(p1, p2, q1, q2) {
		return 0
	}
	d := pointSegmentDistance(p1, q1, q2)
	if v := pointSegmentDistance(p2, q1, q2); v < d {
		d = v
	}
	if v := pointSegmentDistance(q1, p1, p2); v < d {
		d = v
	}
	if v := pointSegmentDistance(q2, p1, p2); v < d {
		d = v
	}
	return d
}

func pointSegmentDistance(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
