package geom

// 对称采样网格边长。64×64 对样板尺度足够稳定，且结果可复现。
const symmetryGridSize = 64

// Symmetry 镜像对称判定结果
type Symmetry struct {
	LeftRight bool
	TopBottom bool
}

// CheckSymmetry 在包围盒上铺 64×64 网格，比较原形与过质心镜像的覆盖差异。
// 不一致采样点占覆盖点的比例小于 tolerance 视为对称。
// 等价于“对称差面积 < tolerance × 面积”的确定性近似。
func CheckSymmetry(p Polygon, tolerance float64) Symmetry {
	if len(p) < 3 {
		return Symmetry{}
	}
	c := p.Centroid()
	return Symmetry{
		LeftRight: mirrorMatch(p, c, tolerance, true),
		TopBottom: mirrorMatch(p, c, tolerance, false),
	}
}

func mirrorMatch(p Polygon, c Point, tolerance float64, vertical bool) bool {
	b := p.Bounds()
	if b.Width() <= 0 || b.Height() <= 0 {
		return false
	}
	stepX := b.Width() / float64(symmetryGridSize)
	stepY := b.Height() / float64(symmetryGridSize)

	covered, mismatch := 0, 0
	for i := 0; i < symmetryGridSize; i++ {
		for j := 0; j < symmetryGridSize; j++ {
			pt := Point{
				X: b.MinX + (float64(i)+0.5)*stepX,
				Y: b.MinY + (float64(j)+0.5)*stepY,
			}
			mirrored := pt
			if vertical {
				mirrored.X = 2*c.X - pt.X
			} else {
				mirrored.Y = 2*c.Y - pt.Y
			}
			in := p.Contains(pt)
			inMirror := p.Contains(mirrored)
			if in || inMirror {
				covered++
				if in != inMirror {
					mismatch++
				}
			}
		}
	}
	if covered == 0 {
		return false
	}
	return float64(mismatch)/float64(covered) < tolerance
}
