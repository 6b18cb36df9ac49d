package entity

// 宽度单位
const (
	WidthUnitCM = "cm"
	WidthUnitIn = "in"
)

// YieldInput 单种面料的要尺计算输入
type YieldInput struct {
	FabricName  string  `json:"fabric_name"`
	Width       float64 `json:"width"`
	Unit        string  `json:"unit"` // cm | in
	LossRatePct float64 `json:"loss_rate_pct"`
}

// FabricYieldEntry 单种面料的要尺计算结果。
// 输入非法时数值全部留空，Error 记原因，其余面料不受影响。
type FabricYieldEntry struct {
	FabricName   string  `json:"fabric_name"`
	Color        string  `json:"color"`
	PieceCount   int     `json:"piece_count"`
	TotalAreaM2  float64 `json:"total_area_m2"`
	WidthCM      float64 `json:"width_cm"`
	Unit         string  `json:"unit"`
	LossRatePct  float64 `json:"loss_rate_pct"`
	RequiredM    float64 `json:"required_m"`
	RequiredYard float64 `json:"required_yard"`
	Error        string  `json:"error,omitempty"`
}
