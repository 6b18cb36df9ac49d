package service

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/bitfantasy/nimo-yield/internal/config"
	"github.com/bitfantasy/nimo-yield/internal/dxf"
	"github.com/bitfantasy/nimo-yield/internal/geom"
	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

// Extraction 一次图纸提取的完整结果
type Extraction struct {
	SourceFile  string                 `json:"source_file"`
	StyleNumber string                 `json:"style_number"`
	Records     []entity.PatternRecord `json:"records"`
	Diagnostics []entity.Diagnostic    `json:"diagnostics"`
}

// forSource 复制一份提取结果并把文件名改写到结果和每条记录上。
// 缓存命中时用，各会话互不共享可变状态。
func (e *Extraction) forSource(fileName string) *Extraction {
	clone := &Extraction{
		SourceFile:  fileName,
		StyleNumber: e.StyleNumber,
		Records:     make([]entity.PatternRecord, len(e.Records)),
		Diagnostics: append([]entity.Diagnostic(nil), e.Diagnostics...),
	}
	for i, r := range e.Records {
		r.SourceFile = fileName
		clone.Records[i] = r
	}
	return clone
}

// Extractor 从 DXF 图纸提取样板记录
type Extractor struct {
	cfg    config.PatternConfig
	rules  *RuleEngine
	logger *zap.Logger
}

func NewExtractor(cfg config.PatternConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		rules:  NewRuleEngine(cfg),
		logger: logger,
	}
}

// Extract 解析图纸并产出记录集。
// 按块定义顺序处理被 INSERT 引用的块，单块失败记入诊断后继续；
// 最终记录按面积降序编号（同面积保持提取顺序）。
func (x *Extractor) Extract(sourceFile string, raw []byte) (*Extraction, error) {
	doc, err := dxf.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDrawingUnreadable, err)
	}

	result := &Extraction{
		SourceFile:  sourceFile,
		StyleNumber: extractStyleNumber(doc),
	}

	for _, block := range doc.Blocks {
		if doc.InsertCount(block.Name) == 0 {
			result.Diagnostics = append(result.Diagnostics, entity.Diagnostic{
				Block: block.Name, Reason: entity.SkipNoInsert,
			})
			continue
		}
		rec, diag := x.extractBlock(sourceFile, block)
		if diag != nil {
			x.logger.Debug("block skipped",
				zap.String("file", sourceFile),
				zap.String("block", diag.Block),
				zap.String("reason", diag.Reason))
			result.Diagnostics = append(result.Diagnostics, *diag)
			continue
		}
		rec.StyleNumber = result.StyleNumber
		result.Records = append(result.Records, *rec)
	}

	// 面积降序编号，大片在前
	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].AreaCM2 > result.Records[j].AreaCM2
	})
	for i := range result.Records {
		result.Records[i].ID = i + 1
	}

	x.logger.Info("drawing extracted",
		zap.String("file", sourceFile),
		zap.String("style_number", result.StyleNumber),
		zap.Int("records", len(result.Records)),
		zap.Int("skipped", len(result.Diagnostics)))
	return result, nil
}

// extractBlock 单块提取。返回记录或跳过诊断，二者必有其一。
func (x *Extractor) extractBlock(sourceFile string, block *dxf.Block) (*entity.PatternRecord, *entity.Diagnostic) {
	outline := largestClosedOutline(block)
	if outline == nil {
		return nil, &entity.Diagnostic{Block: block.Name, Reason: entity.SkipNoClosedOutline}
	}

	// 原生单位 → cm
	poly := make(geom.Polygon, len(outline))
	for i, v := range outline {
		poly[i] = geom.Point{X: v.X * x.cfg.UnitScale, Y: v.Y * x.cfg.UnitScale}
	}
	area := poly.Area()
	if area <= 0 {
		return nil, &entity.Diagnostic{Block: block.Name, Reason: entity.SkipDegenerate}
	}
	if area < x.cfg.MinAreaCM2 {
		return nil, &entity.Diagnostic{
			Block:  block.Name,
			Reason: entity.SkipBelowMinArea,
			Detail: fmt.Sprintf("%.1f cm²", area),
		}
	}

	texts := make([]string, 0, len(block.Texts))
	for _, t := range block.Texts {
		texts = append(texts, t.Value)
	}
	cls := ClassifyTexts(texts)

	b := poly.Bounds()
	sym := geom.CheckSymmetry(poly, x.cfg.SymmetryTolerance)
	edge := geom.CheckEdges(poly, geom.EdgeParams{
		BandRatio:         x.cfg.EdgeBandRatio,
		StraightTolerance: x.cfg.EdgeStraightTolerance,
		ParallelRatio:     x.cfg.EdgeParallelRatio,
	})
	category, quantity := x.rules.Decide(entity.Symmetry(sym), edge, b.Width(), b.Height())
	if cls.PieceName != "" {
		category = cls.PieceName
	}

	pts := make([]entity.PointCM, len(poly))
	for i, p := range poly {
		pts[i] = entity.PointCM{X: p.X, Y: p.Y}
	}
	return &entity.PatternRecord{
		SourceFile: sourceFile,
		BlockName:  block.Name,
		FabricName: cls.FabricName,
		PieceName:  cls.PieceName,
		Category:   category,
		Quantity:   quantity,
		WidthCM:    b.Width(),
		HeightCM:   b.Height(),
		AreaCM2:    area,
		Color:      entity.FabricColor(cls.FabricName),
		Symmetry:   entity.Symmetry(sym),
		Outline:    pts,
	}, nil
}

// largestClosedOutline 块内面积最大的闭合折线，没有则返回 nil。
// 零面积的闭合折线也会被选中，由调用方按退化几何记诊断。
func largestClosedOutline(block *dxf.Block) []dxf.Vertex {
	var best []dxf.Vertex
	bestArea := -1.0
	for _, pl := range block.Polylines {
		if !pl.Closed || len(pl.Vertices) < 3 {
			continue
		}
		poly := make(geom.Polygon, len(pl.Vertices))
		for i, v := range pl.Vertices {
			poly[i] = geom.Point{X: v.X, Y: v.Y}
		}
		if a := poly.Area(); a > bestArea {
			bestArea = a
			best = pl.Vertices
		}
	}
	return best
}

// extractStyleNumber 第一个被引用块里 "ANNOTATION:S/#5535-731" 形式的文本 → "5535-731"
func extractStyleNumber(doc *dxf.Document) string {
	for _, ins := range doc.Inserts {
		block := doc.BlockByName(ins.BlockName)
		if block == nil {
			continue
		}
		for _, t := range block.Texts {
			if !strings.HasPrefix(t.Value, prefixAnnotation) {
				continue
			}
			val := strings.TrimSpace(strings.TrimPrefix(t.Value, prefixAnnotation))
			if idx := strings.Index(val, "/#"); idx >= 0 {
				return val[idx+2:]
			}
		}
		break // 只看第一个块
	}
	return ""
}
