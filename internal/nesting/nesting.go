// Package nesting 面料排料求解器。坐标单位 mm，X 为布幅方向，Y 为布长方向。
// Bottom-Left 贪心：按面积降序放置，先试邻接候选位，再 5mm 网格扫描。
package nesting

import (
	"sort"
	"time"

	"github.com/bitfantasy/nimo-yield/internal/geom"
)

// Piece 待排的一片样板
type Piece struct {
	ID      string
	Outline geom.Polygon // mm
}

// Request 一次排料请求
type Request struct {
	Pieces     []Piece
	BinWidthMM float64
	Allow180   bool
	SpacingMM  float64
	GridStepMM float64
	TimeLimit  time.Duration
}

// Placement 一片样板的落位
type Placement struct {
	ID         string       `json:"id"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	RotationCW int          `json:"rotation_cw"`
	Outline    geom.Polygon `json:"-"`
}

// Result 排料结果
type Result struct {
	Placed         int         `json:"placed"`
	Total          int         `json:"total"`
	UsedLengthMM   float64     `json:"used_length_mm"`
	UtilizationPct float64     `json:"utilization_pct"`
	TimedOut       bool        `json:"timed_out"`
	Placements     []Placement `json:"placements"`
}

type engine struct {
	req      Request
	deadline time.Time

	placed []geom.Polygon
	bounds []geom.BBox
}

// Solve 执行排料。超时后停止放新片并返回已完成的部分结果。
func Solve(req Request) Result {
	if req.GridStepMM <= 0 {
		req.GridStepMM = 5
	}
	e := &engine{req: req}
	if req.TimeLimit > 0 {
		e.deadline = time.Now().Add(req.TimeLimit)
	}

	// 面积降序，大片先放
	pieces := make([]Piece, len(req.Pieces))
	copy(pieces, req.Pieces)
	sortByAreaDesc(pieces)

	res := Result{Total: len(pieces)}
	for _, piece := range pieces {
		if e.expired() {
			res.TimedOut = true
			break
		}
		candidates := []geom.Polygon{normalize(piece.Outline)}
		rotations := []int{0}
		if req.Allow180 {
			candidates = append(candidates, normalize(piece.Outline.Rotate180()))
			rotations = append(rotations, 180)
		}

		bestY := -1.0
		var bestOutline geom.Polygon
		bestRot := 0
		var bestX float64
		for i, cand := range candidates {
			x, y, ok := e.findPosition(cand)
			if ok && (bestY < 0 || y < bestY) {
				bestX, bestY = x, y
				bestOutline = cand
				bestRot = rotations[i]
			}
		}
		if bestY < 0 {
			continue
		}

		final := bestOutline.Translate(bestX, bestY)
		e.placed = append(e.placed, final)
		e.bounds = append(e.bounds, final.Bounds())
		res.Placements = append(res.Placements, Placement{
			ID:         piece.ID,
			X:          bestX,
			Y:          bestY,
			RotationCW: bestRot,
			Outline:    final,
		})
	}

	res.Placed = len(res.Placements)
	if res.Placed > 0 {
		maxY, totalArea := 0.0, 0.0
		for i, p := range e.placed {
			if e.bounds[i].MaxY > maxY {
				maxY = e.bounds[i].MaxY
			}
			totalArea += p.Area()
		}
		res.UsedLengthMM = maxY + req.SpacingMM
		sheetArea := req.BinWidthMM * res.UsedLengthMM
		if sheetArea > 0 {
			res.UtilizationPct = totalArea / sheetArea * 100
			if res.UtilizationPct > 99.9 {
				res.UtilizationPct = 99.9
			}
		}
	}
	return res
}

func (e *engine) expired() bool {
	return !e.deadline.IsZero() && time.Now().After(e.deadline)
}

// findPosition 先试已放样板的右侧/上方候选位，再走网格扫描
func (e *engine) findPosition(p geom.Polygon) (float64, float64, bool) {
	b := p.Bounds()
	width, height := b.Width(), b.Height()
	if width > e.req.BinWidthMM {
		return 0, 0, false
	}
	if len(e.placed) == 0 {
		return 0, 0, true
	}

	spacing := e.req.SpacingMM
	maxUsedY := 0.0
	var candidates []geom.Point
	for _, pb := range e.bounds {
		if pb.MaxY > maxUsedY {
			maxUsedY = pb.MaxY
		}
		rightX := pb.MaxX + spacing
		if rightX+width <= e.req.BinWidthMM {
			candidates = append(candidates, geom.Point{X: rightX, Y: pb.MinY})
		}
		topY := pb.MaxY + spacing
		candidates = append(candidates, geom.Point{X: 0, Y: topY}, geom.Point{X: pb.MinX, Y: topY})
	}
	sortCandidates(candidates)

	for _, c := range candidates {
		if c.X < 0 || c.Y < 0 {
			continue
		}
		if e.fits(p, c.X, c.Y) {
			return c.X, c.Y, true
		}
	}

	// 网格扫描
	step := e.req.GridStepMM
	searchHeight := maxUsedY + height + spacing*2
	for y := 0.0; y <= searchHeight; y += step {
		if e.expired() {
			return 0, 0, false
		}
		for x := 0.0; x <= e.req.BinWidthMM-width; x += step {
			if e.fits(p, x, y) {
				return x, y, true
			}
		}
	}

	// 兜底：另起一行
	newY := maxUsedY + spacing
	for x := 0.0; x <= e.req.BinWidthMM-width; x += step {
		if e.fits(p, x, newY) {
			return x, newY, true
		}
	}
	return 0, newY + height + spacing, true
}

func (e *engine) fits(p geom.Polygon, x, y float64) bool {
	test := p.Translate(x, y)
	tb := test.Bounds()
	if tb.MinX < 0 || tb.MaxX > e.req.BinWidthMM || tb.MinY < 0 {
		return false
	}
	return !e.collides(test, tb)
}

// collides 包围盒(含间距)粗筛 + 精确相交/间距检查
func (e *engine) collides(test geom.Polygon, tb geom.BBox) bool {
	margin := e.req.SpacingMM
	for i, placed := range e.placed {
		pb := e.bounds[i]
		if tb.MaxX+margin < pb.MinX || tb.MinX-margin > pb.MaxX ||
			tb.MaxY+margin < pb.MinY || tb.MinY-margin > pb.MaxY {
			continue
		}
		if polygonsIntersect(test, placed) {
			return true
		}
		if polygonDistance(test, placed) < margin {
			return true
		}
	}
	return false
}

// normalize 把轮廓平移到第一象限原点
func normalize(p geom.Polygon) geom.Polygon {
	b := p.Bounds()
	return p.Translate(-b.MinX, -b.MinY)
}

func sortByAreaDesc(pieces []Piece) {
	type keyed struct {
		piece Piece
		area  float64
	}
	ks := make([]keyed, len(pieces))
	for i, p := range pieces {
		ks[i] = keyed{piece: p, area: p.Outline.Area()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].area > ks[j].area })
	for i, k := range ks {
		pieces[i] = k.piece
	}
}

func sortCandidates(pts []geom.Point) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
}
