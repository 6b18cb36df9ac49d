// Package geom 多边形几何工具。坐标无单位，调用方保证同一多边形内单位一致。
package geom

import "math"

type Point struct {
	X float64
	Y float64
}

// Polygon 顶点序列表示的简单多边形，首尾不必重复
type Polygon []Point

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Bounds 包围盒。空多边形返回零值。
func (p Polygon) Bounds() BBox {
	if len(p) == 0 {
		return BBox{}
	}
	b := BBox{MinX: p[0].X, MinY: p[0].Y, MaxX: p[0].X, MaxY: p[0].Y}
	for _, pt := range p[1:] {
		if pt.X < b.MinX {
			b.MinX = pt.X
		}
		if pt.X > b.MaxX {
			b.MaxX = pt.X
		}
		if pt.Y < b.MinY {
			b.MinY = pt.Y
		}
		if pt.Y > b.MaxY {
			b.MaxY = pt.Y
		}
	}
	return b
}

// Area 鞋带公式求面积，恒为正
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math.Abs(sum) / 2
}

// Centroid 面积加权质心。退化多边形退回顶点均值。
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	var cx, cy, a float64
	for i := range p {
		j := (i + 1) % len(p)
		cross := p[i].X*p[j].Y - p[j].X*p[i].Y
		a += cross
		cx += (p[i].X + p[j].X) * cross
		cy += (p[i].Y + p[j].Y) * cross
	}
	if math.Abs(a) < 1e-12 {
		var sx, sy float64
		for _, pt := range p {
			sx += pt.X
			sy += pt.Y
		}
		n := float64(len(p))
		return Point{X: sx / n, Y: sy / n}
	}
	a /= 2
	return Point{X: cx / (6 * a), Y: cy / (6 * a)}
}

// Contains 射线法判定点在多边形内。边界上的点结果不保证。
func (p Polygon) Contains(pt Point) bool {
	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		if (p[i].Y > pt.Y) != (p[j].Y > pt.Y) {
			x := p[j].X + (pt.Y-p[i].Y)/(p[j].Y-p[i].Y)*(p[j].X-p[i].X)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Translate 平移副本
func (p Polygon) Translate(dx, dy float64) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	return out
}

// Scale 按原点等比缩放副本
func (p Polygon) Scale(s float64) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X * s, Y: pt.Y * s}
	}
	return out
}

// Rotate180 绕包围盒中心旋转 180 度
func (p Polygon) Rotate180() Polygon {
	b := p.Bounds()
	cx := (b.MinX + b.MaxX) / 2
	cy := (b.MinY + b.MaxY) / 2
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{X: 2*cx - pt.X, Y: 2*cy - pt.Y}
	}
	return out
}
