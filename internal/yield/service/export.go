package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

var (
	detailSheetHeaders = []string{"파일명", "스타일번호", "번호", "원단", "구분", "수량", "가로(cm)", "세로(cm)", "면적(cm²)"}
	yieldSheetHeaders  = []string{"파일명", "스타일번호", "원단명", "폭(cm)", "단위", "효율(%)", "필요요척(M)", "필요요척(YD)"}
)

// Exporter 导出要尺产出表（xlsx）
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 两张表：상세리스트（逐条记录）、요척결과（按面料汇总）。
// 文件名列取图纸文件名去掉扩展名。
func (e *Exporter) Export(sess *Session, entries []entity.FabricYieldEntry) (*excelize.File, string, error) {
	fileName := strings.TrimSuffix(strings.TrimSuffix(sess.SourceFile, ".dxf"), ".DXF")

	f := excelize.NewFile()
	detailSheet := "상세리스트"
	f.SetSheetName("Sheet1", detailSheet)
	yieldSheet := "요척결과"
	if _, err := f.NewSheet(yieldSheet); err != nil {
		return nil, "", fmt.Errorf("create yield sheet: %w", err)
	}

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	writeHeader(f, detailSheet, detailSheetHeaders, boldStyle)
	for rowIdx, r := range sess.Store.Records() {
		row := rowIdx + 2
		f.SetCellValue(detailSheet, fmt.Sprintf("A%d", row), fileName)
		f.SetCellValue(detailSheet, fmt.Sprintf("B%d", row), sess.StyleNumber)
		f.SetCellValue(detailSheet, fmt.Sprintf("C%d", row), r.ID)
		f.SetCellValue(detailSheet, fmt.Sprintf("D%d", row), r.FabricName)
		f.SetCellValue(detailSheet, fmt.Sprintf("E%d", row), r.Category)
		f.SetCellValue(detailSheet, fmt.Sprintf("F%d", row), r.Quantity)
		f.SetCellValue(detailSheet, fmt.Sprintf("G%d", row), round1(r.WidthCM))
		f.SetCellValue(detailSheet, fmt.Sprintf("H%d", row), round1(r.HeightCM))
		f.SetCellValue(detailSheet, fmt.Sprintf("I%d", row), round1(r.AreaCM2))
	}

	writeHeader(f, yieldSheet, yieldSheetHeaders, boldStyle)
	row := 2
	for _, y := range entries {
		// 输入非法的条目没有数值，不进表
		if y.Error != "" {
			continue
		}
		f.SetCellValue(yieldSheet, fmt.Sprintf("A%d", row), fileName)
		f.SetCellValue(yieldSheet, fmt.Sprintf("B%d", row), sess.StyleNumber)
		f.SetCellValue(yieldSheet, fmt.Sprintf("C%d", row), y.FabricName)
		f.SetCellValue(yieldSheet, fmt.Sprintf("D%d", row), round1(y.WidthCM))
		f.SetCellValue(yieldSheet, fmt.Sprintf("E%d", row), y.Unit)
		f.SetCellValue(yieldSheet, fmt.Sprintf("F%d", row), 100-y.LossRatePct)
		f.SetCellValue(yieldSheet, fmt.Sprintf("G%d", row), round2(y.RequiredM))
		f.SetCellValue(yieldSheet, fmt.Sprintf("H%d", row), round2(y.RequiredYard))
		row++
	}

	downloadName := fileName + "_요척산출.xlsx"
	return f, downloadName, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
