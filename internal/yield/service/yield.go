package service

import (
	"fmt"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

// 米 → 码
const meterToYard = 1.09361

// 英寸 → 厘米
const inchToCM = 2.54

// YieldCalculator 要尺计算。纯函数，不持状态。
type YieldCalculator struct{}

func NewYieldCalculator() *YieldCalculator {
	return &YieldCalculator{}
}

// Compute 按面料分组算需求量。
// 公式：需求(m) = 总面积(m²) / 幅宽(m) / ((100-损耗)/100)，码数再乘 1.09361。
// 单条输入非法只作废该面料的条目（Error 记原因，数值留空），其余面料照常计算。
// 没有对应记录的面料也产出条目（面积 0），方便 UI 保持输入行。
func (c *YieldCalculator) Compute(records []entity.PatternRecord, inputs []entity.YieldInput) []entity.FabricYieldEntry {
	entries := make([]entity.FabricYieldEntry, 0, len(inputs))
	for _, in := range inputs {
		if err := validateInput(in); err != nil {
			entries = append(entries, entity.FabricYieldEntry{
				FabricName: in.FabricName,
				Color:      entity.FabricColor(in.FabricName),
				Error:      err.Error(),
			})
			continue
		}

		widthCM := in.Width
		if in.Unit == entity.WidthUnitIn {
			widthCM = in.Width * inchToCM
		}

		totalAreaCM2 := 0.0
		pieces := 0
		for _, r := range records {
			if r.FabricName != in.FabricName {
				continue
			}
			totalAreaCM2 += r.TotalAreaCM2()
			pieces += r.Quantity
		}
		totalAreaM2 := totalAreaCM2 / 10000

		widthM := widthCM / 100
		efficiency := (100 - in.LossRatePct) / 100
		requiredM := totalAreaM2 / widthM / efficiency

		entries = append(entries, entity.FabricYieldEntry{
			FabricName:   in.FabricName,
			Color:        entity.FabricColor(in.FabricName),
			PieceCount:   pieces,
			TotalAreaM2:  totalAreaM2,
			WidthCM:      widthCM,
			Unit:         in.Unit,
			LossRatePct:  in.LossRatePct,
			RequiredM:    requiredM,
			RequiredYard: requiredM * meterToYard,
		})
	}
	return entries
}

func validateInput(in entity.YieldInput) error {
	if in.FabricName == "" {
		return fmt.Errorf("%w: fabric name must not be empty", entity.ErrInvalidYieldInput)
	}
	if in.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %v", entity.ErrInvalidYieldInput, in.Width)
	}
	if in.Unit != entity.WidthUnitCM && in.Unit != entity.WidthUnitIn {
		return fmt.Errorf("%w: unknown width unit %q", entity.ErrInvalidYieldInput, in.Unit)
	}
	if in.LossRatePct < 0 || in.LossRatePct >= 100 {
		return fmt.Errorf("%w: loss rate must be in [0,100), got %v", entity.ErrInvalidYieldInput, in.LossRatePct)
	}
	return nil
}
