package entity

// 样板分类常量
const (
	CategoryBody      = "BODY"
	CategoryAccessory = "부속"
	CategoryFlap      = "FLAP"
)

// CopyPrefix 复制样板时加在面料名前的标记
const CopyPrefix = "복사_"

// ColorblockMarker 片名中出现该词则视为配色片，不参与提取
const ColorblockMarker = "배색"

// PatternRecord 一块样板的完整记录。尺寸统一为 cm，面积为 cm²。
// ID 是记录集内的序号，删除后会重新编号。
type PatternRecord struct {
	ID          int       `json:"id"`
	SourceFile  string    `json:"source_file"`
	StyleNumber string    `json:"style_number"`
	BlockName   string    `json:"block_name"`
	FabricName  string    `json:"fabric_name"`
	PieceName   string    `json:"piece_name"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	WidthCM     float64   `json:"width_cm"`
	HeightCM    float64   `json:"height_cm"`
	AreaCM2     float64   `json:"area_cm2"`
	Color       string    `json:"color"`
	Symmetry    Symmetry  `json:"symmetry"`
	Outline     []PointCM `json:"-"`
}

// Symmetry 左右/上下镜像判定结果。数量规则只看左右。
type Symmetry struct {
	LeftRight bool `json:"left_right"`
	TopBottom bool `json:"top_bottom"`
}

// PointCM 轮廓顶点，cm 坐标
type PointCM struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TotalAreaCM2 面积 × 数量
func (r *PatternRecord) TotalAreaCM2() float64 {
	return r.AreaCM2 * float64(r.Quantity)
}
