package service

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

// buildDXF 把组码/值对拼成 DXF 文本
func buildDXF(pairs ...string) []byte {
	return []byte(strings.Join(pairs, "\r\n") + "\r\n")
}

// closedRect 生成矩形 POLYLINE 实体的 tag 序列，单位 mm
func closedRect(w, h string) []string {
	return []string{
		"0", "POLYLINE",
		"70", "1",
		"0", "VERTEX", "10", "0", "20", "0",
		"0", "VERTEX", "10", w, "20", "0",
		"0", "VERTEX", "10", w, "20", h,
		"0", "VERTEX", "10", "0", "20", h,
		"0", "SEQEND",
	}
}

func fixtureDrawing() []byte {
	var pairs []string
	add := func(ps ...string) { pairs = append(pairs, ps...) }

	add("0", "SECTION", "2", "BLOCKS")

	// 대형 몸판: 40×10 cm, 좌우대칭 직선변
	add("0", "BLOCK", "2", "BODY40")
	add(closedRect("400", "100")...)
	add("0", "TEXT", "1", "ANNOTATION:S/#5535-731")
	add("0", "TEXT", "1", "CATEGORY:SHELL")
	add("0", "TEXT", "1", "ANNOTATION:앞판")
	add("0", "ENDBLK")

	// 부속: 30×10 cm
	add("0", "BLOCK", "2", "ACC30")
	add(closedRect("300", "100")...)
	add("0", "TEXT", "1", "CATEGORY:LINING")
	add("0", "ENDBLK")

	// 면적 미달: 5×5 cm = 25 cm²
	add("0", "BLOCK", "2", "TINY")
	add(closedRect("50", "50")...)
	add("0", "ENDBLK")

	// 닫힌 윤곽 없음
	add("0", "BLOCK", "2", "OPEN")
	add("0", "LWPOLYLINE", "70", "0", "10", "0", "20", "0", "10", "100", "20", "100")
	add("0", "ENDBLK")

	// INSERT 없는 블록
	add("0", "BLOCK", "2", "LONELY")
	add(closedRect("200", "200")...)
	add("0", "ENDBLK")

	add("0", "ENDSEC")
	add("0", "SECTION", "2", "ENTITIES")
	add("0", "INSERT", "2", "BODY40")
	add("0", "INSERT", "2", "ACC30")
	add("0", "INSERT", "2", "TINY")
	add("0", "INSERT", "2", "OPEN")
	add("0", "ENDSEC")
	add("0", "EOF")

	return buildDXF(pairs...)
}

func newTestExtractor() *Extractor {
	return NewExtractor(testPatternConfig(), zap.NewNop())
}

func TestExtract(t *testing.T) {
	extraction, err := newTestExtractor().Extract("5535.dxf", fixtureDrawing())
	if err != nil {
		t.Fatalf("expected extract success, got %v", err)
	}

	if extraction.StyleNumber != "5535-731" {
		t.Fatalf("expected style number 5535-731, got %q", extraction.StyleNumber)
	}
	if len(extraction.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(extraction.Records))
	}

	// 면적 내림차순 번호
	body := extraction.Records[0]
	acc := extraction.Records[1]
	if body.ID != 1 || acc.ID != 2 {
		t.Fatalf("expected ids 1,2, got %d,%d", body.ID, acc.ID)
	}
	if body.BlockName != "BODY40" || acc.BlockName != "ACC30" {
		t.Fatalf("expected area-desc order, got %s,%s", body.BlockName, acc.BlockName)
	}

	if body.WidthCM != 40 || body.HeightCM != 10 || body.AreaCM2 != 400 {
		t.Fatalf("unexpected body dims: %v x %v = %v", body.WidthCM, body.HeightCM, body.AreaCM2)
	}
	if body.FabricName != "겉감" {
		t.Fatalf("expected SHELL → 겉감, got %q", body.FabricName)
	}
	if body.PieceName != "앞판" || body.Category != "앞판" {
		t.Fatalf("expected piece name 앞판, got %q / %q", body.PieceName, body.Category)
	}
	// 좌우대칭 + 가로 40 + 세로 10 + 직선변 → 1장
	if body.Quantity != 1 {
		t.Fatalf("expected body quantity 1, got %d", body.Quantity)
	}
	if !body.Symmetry.LeftRight {
		t.Fatalf("expected body left-right symmetric")
	}
	if body.Color != entity.FabricColor("겉감") {
		t.Fatalf("unexpected color %q", body.Color)
	}
	if body.StyleNumber != "5535-731" || body.SourceFile != "5535.dxf" {
		t.Fatalf("expected record carries style/source, got %q/%q", body.StyleNumber, body.SourceFile)
	}

	if acc.FabricName != "안감" {
		t.Fatalf("expected LINING → 안감, got %q", acc.FabricName)
	}
	// 좌우대칭 + 가로 30 + 세로 10 → 2장 부속
	if acc.Category != entity.CategoryAccessory || acc.Quantity != 2 {
		t.Fatalf("expected 부속/2, got %s/%d", acc.Category, acc.Quantity)
	}

	// 진단: TINY 면적미달, OPEN 닫힌윤곽없음, LONELY insert없음
	reasons := map[string]string{}
	for _, d := range extraction.Diagnostics {
		reasons[d.Block] = d.Reason
	}
	if reasons["TINY"] != entity.SkipBelowMinArea {
		t.Fatalf("expected TINY below min area, got %q", reasons["TINY"])
	}
	if reasons["OPEN"] != entity.SkipNoClosedOutline {
		t.Fatalf("expected OPEN no closed outline, got %q", reasons["OPEN"])
	}
	if reasons["LONELY"] != entity.SkipNoInsert {
		t.Fatalf("expected LONELY no insert, got %q", reasons["LONELY"])
	}
	if len(extraction.Diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(extraction.Diagnostics))
	}
}

func TestExtractDegenerateBlock(t *testing.T) {
	// FLAT 块闭合但顶点共线，面积为零：跳过并继续提取其他块
	var pairs []string
	add := func(ps ...string) { pairs = append(pairs, ps...) }

	add("0", "SECTION", "2", "BLOCKS")
	add("0", "BLOCK", "2", "FLAT")
	add("0", "POLYLINE", "70", "1")
	add("0", "VERTEX", "10", "0", "20", "0")
	add("0", "VERTEX", "10", "100", "20", "0")
	add("0", "VERTEX", "10", "200", "20", "0")
	add("0", "SEQEND")
	add("0", "ENDBLK")
	add("0", "BLOCK", "2", "GOOD")
	add(closedRect("400", "100")...)
	add("0", "ENDBLK")
	add("0", "ENDSEC")
	add("0", "SECTION", "2", "ENTITIES")
	add("0", "INSERT", "2", "FLAT")
	add("0", "INSERT", "2", "GOOD")
	add("0", "ENDSEC")
	add("0", "EOF")

	extraction, err := newTestExtractor().Extract("flat.dxf", buildDXF(pairs...))
	if err != nil {
		t.Fatalf("expected extract success, got %v", err)
	}
	if len(extraction.Records) != 1 || extraction.Records[0].BlockName != "GOOD" {
		t.Fatalf("expected only GOOD extracted, got %+v", extraction.Records)
	}
	if len(extraction.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(extraction.Diagnostics))
	}
	d := extraction.Diagnostics[0]
	if d.Block != "FLAT" || d.Reason != entity.SkipDegenerate {
		t.Fatalf("expected FLAT degenerate, got %+v", d)
	}
}

func TestExtractUnreadable(t *testing.T) {
	_, err := newTestExtractor().Extract("bad.dxf", []byte("not a drawing"))
	if !errors.Is(err, entity.ErrDrawingUnreadable) {
		t.Fatalf("expected ErrDrawingUnreadable, got %v", err)
	}
}

func TestExtractDeterministic(t *testing.T) {
	x := newTestExtractor()
	first, err := x.Extract("5535.dxf", fixtureDrawing())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := x.Extract("5535.dxf", fixtureDrawing())
		if err != nil {
			t.Fatalf("re-extract: %v", err)
		}
		if len(again.Records) != len(first.Records) {
			t.Fatalf("expected stable record count")
		}
		for j := range again.Records {
			a, b := first.Records[j], again.Records[j]
			if a.ID != b.ID || a.BlockName != b.BlockName || a.Quantity != b.Quantity || a.AreaCM2 != b.AreaCM2 {
				t.Fatalf("expected deterministic extraction, record %d differs", j)
			}
		}
	}
}
