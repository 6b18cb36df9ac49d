package service

import (
	"strings"
	"unicode"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

// Classification 块内文本归类结果
type Classification struct {
	FabricName string
	PieceName  string
}

// 文本字段前缀。YUKA 导出的块文本都带这两种前缀。
const (
	prefixCategory   = "CATEGORY:"
	prefixAnnotation = "ANNOTATION:"
)

// 面料关键词，作为片名时排除
var fabricKeywords = []string{"LINING", "SHELL", "INTERLINING", "안감", "겉감", "심지"}

// ClassifyTexts 把块内文本归类为面料名和片名。
// CATEGORY 决定面料；ANNOTATION 里面料词只在 CATEGORY 缺失时生效，
// 其余 ANNOTATION 按排除规则过滤后作为片名，韩文片名覆盖英文。
// 面料最终缺失时取默认 겉감。
func ClassifyTexts(texts []string) Classification {
	var c Classification
	for _, text := range texts {
		text = strings.TrimSpace(text)
		switch {
		case strings.HasPrefix(text, prefixCategory):
			val := strings.TrimSpace(strings.TrimPrefix(text, prefixCategory))
			if val == "" {
				continue
			}
			if mapped, ok := lookupFabric(val); ok {
				c.FabricName = mapped
			} else if c.FabricName == "" {
				// 没映射上就保留原文
				c.FabricName = val
			}
		case strings.HasPrefix(text, prefixAnnotation):
			val := strings.TrimSpace(strings.TrimPrefix(text, prefixAnnotation))
			if val == "" {
				continue
			}
			if mapped, ok := lookupFabric(val); ok {
				if c.FabricName == "" {
					c.FabricName = mapped
				}
				continue
			}
			if excludedPieceName(val) {
				continue
			}
			if containsHangul(val) {
				c.PieceName = val
			} else if c.PieceName == "" {
				c.PieceName = val
			}
		}
	}
	if c.FabricName == "" {
		c.FabricName = entity.DefaultFabricName
	}
	return c
}

// lookupFabric 大小写不敏感地查面料映射表
func lookupFabric(val string) (string, bool) {
	upper := strings.ToUpper(val)
	for key, mapped := range entity.FabricMap {
		if strings.ToUpper(key) == upper {
			return mapped, true
		}
	}
	return "", false
}

// excludedPieceName 不能当片名的 ANNOTATION 值
func excludedPieceName(val string) bool {
	// 尺码标记 <S> <M> <L>
	if strings.HasPrefix(val, "<") {
		return true
	}
	// 款号 S/#5535 M/#... #...
	if strings.HasPrefix(val, "S/") || strings.HasPrefix(val, "M/") ||
		strings.HasPrefix(val, "L/") || strings.HasPrefix(val, "#") {
		return true
	}
	// 纯数字或数字开头（尺码 130、款名 35717요척）
	r := []rune(val)
	if allDigits(r) || unicode.IsDigit(r[0]) {
		return true
	}
	upper := strings.ToUpper(val)
	for _, kw := range fabricKeywords {
		if upper == strings.ToUpper(kw) {
			return true
		}
	}
	// 配色标记
	if strings.Contains(val, entity.ColorblockMarker) {
		return true
	}
	return false
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(rs) > 0
}

func containsHangul(s string) bool {
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7A3 {
			return true
		}
	}
	return false
}
