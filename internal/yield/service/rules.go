package service

import (
	"github.com/bitfantasy/nimo-yield/internal/config"
	"github.com/bitfantasy/nimo-yield/internal/geom"
	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

// RuleEngine 数量/分类规则表。规则严格按序匹配，命中即停。
type RuleEngine struct {
	cfg config.PatternConfig
}

func NewRuleEngine(cfg config.PatternConfig) *RuleEngine {
	return &RuleEngine{cfg: cfg}
}

// Decide 按样板形态决定分类和裁剪数量。
// 优先级（来自打版师的经验规则）：
//  1. 左右对称 + 宽≥35 + 高≤15 + 横边直线或平行 → BODY / 1
//  2. 左右对称 + 宽≥25 + 高≤15 → 부속 / 2
//  3. 任一对称 + 宽≤25 + 高≤25 → FLAP / 4
//  4. 任一对称 → BODY / 1
//  5. 其余 → 부속 / 2
func (e *RuleEngine) Decide(sym entity.Symmetry, edge geom.EdgeCharacter, widthCM, heightCM float64) (string, int) {
	anySym := sym.LeftRight || sym.TopBottom
	switch {
	case sym.LeftRight && widthCM >= e.cfg.BodyMinWidthCM && heightCM <= e.cfg.WideMaxHeightCM &&
		(edge.Straight || edge.Parallel):
		return entity.CategoryBody, 1
	case sym.LeftRight && widthCM >= e.cfg.AccessoryMinWidthCM && heightCM <= e.cfg.WideMaxHeightCM:
		return entity.CategoryAccessory, 2
	case anySym && widthCM <= e.cfg.FlapMaxCM && heightCM <= e.cfg.FlapMaxCM:
		return entity.CategoryFlap, 4
	case anySym:
		return entity.CategoryBody, 1
	default:
		return entity.CategoryAccessory, 2
	}
}
