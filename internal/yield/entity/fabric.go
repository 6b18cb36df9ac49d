package entity

import "strings"

// DefaultFabricName 分类文本缺失时的默认面料
const DefaultFabricName = "겉감"

// FabricMap DXF CATEGORY/ANNOTATION 文本 → 标准面料名。
// YUKA 导出的图纸里英文和韩文混用，两套键都收。
var FabricMap = map[string]string{
	"LINING":      "안감",
	"SHELL":       "겉감",
	"INTERLINING": "심지",
	"MESH":        "메쉬",
	"겉감":          "겉감",
	"안감":          "안감",
	"심지":          "심지",
	"메쉬":          "메쉬",
	"니트":          "니트",
}

// FabricColors 面料展示色（Tableau 调色板）
var FabricColors = map[string]string{
	"겉감":  "#4c78a8",
	"안감":  "#e45756",
	"심지":  "#edc948",
	"배색":  "#f58518",
	"주머니": "#54a24b",
	"메쉬":  "#72b7b2",
	"니트":  "#9d755d",
}

// DefaultFabricColor 未命中调色板时的灰色
const DefaultFabricColor = "#dddddd"

// FabricColor 按子串匹配返回面料颜色。复制出来的 "복사_겉감" 也能命中。
func FabricColor(fabricName string) string {
	for key, color := range FabricColors {
		if strings.Contains(fabricName, key) {
			return color
		}
	}
	return DefaultFabricColor
}
