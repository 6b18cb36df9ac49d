package geom

// EdgeParams 横边判定阈值，全部相对于样板自身尺寸
type EdgeParams struct {
	BandRatio         float64 // 上/下边缘带占高度比例
	StraightTolerance float64 // 直线判定允许的 Y 波动比例
	ParallelRatio     float64 // 平行判定的横向长度比下限
}

// EdgeCharacter 横边形态
type EdgeCharacter struct {
	Straight bool // 上边或下边是近似水平直线
	Parallel bool // 上下边横向长度接近，可视为平行
}

// CheckEdges 判定上下横边形态，两个标志独立判定，可同时成立。
// 取包围盒上下各 BandRatio 高度带内的顶点：某条带内 Y 波动小于
// StraightTolerance×高度即为直线边；两条带的横向跨度
// 短边/长边 ≥ ParallelRatio 即为平行边。
func CheckEdges(p Polygon, params EdgeParams) EdgeCharacter {
	if len(p) < 4 {
		return EdgeCharacter{}
	}
	b := p.Bounds()
	height := b.Height()
	if height <= 0 {
		return EdgeCharacter{}
	}

	topThreshold := b.MaxY - height*params.BandRatio
	bottomThreshold := b.MinY + height*params.BandRatio

	var top, bottom []Point
	for _, pt := range p {
		if pt.Y >= topThreshold {
			top = append(top, pt)
		}
		if pt.Y <= bottomThreshold {
			bottom = append(bottom, pt)
		}
	}

	straightTol := height * params.StraightTolerance
	ec := EdgeCharacter{
		Straight: isLevel(top, straightTol) || isLevel(bottom, straightTol),
	}

	topLen := xSpan(top)
	bottomLen := xSpan(bottom)
	if topLen > 0 && bottomLen > 0 {
		similarity := min(topLen, bottomLen) / max(topLen, bottomLen)
		ec.Parallel = similarity >= params.ParallelRatio
	}
	return ec
}

func isLevel(points []Point, tolerance float64) bool {
	if len(points) < 2 {
		return false
	}
	minY, maxY := points[0].Y, points[0].Y
	for _, pt := range points[1:] {
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return maxY-minY < tolerance
}

func xSpan(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	minX, maxX := points[0].X, points[0].X
	for _, pt := range points[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
	}
	return maxX - minX
}
