package nesting

import (
	"testing"
	"time"

	"github.com/bitfantasy/nimo-yield/internal/geom"
)

func rectPiece(id string, w, h float64) Piece {
	return Piece{ID: id, Outline: geom.Polygon{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}}
}

func TestSolveSinglePiece(t *testing.T) {
	res := Solve(Request{
		Pieces:     []Piece{rectPiece("a", 300, 200)},
		BinWidthMM: 1000,
		SpacingMM:  5,
	})
	if res.Placed != 1 || res.Total != 1 {
		t.Fatalf("expected 1/1 placed, got %d/%d", res.Placed, res.Total)
	}
	p := res.Placements[0]
	if p.X != 0 || p.Y != 0 {
		t.Fatalf("expected first piece at origin, got (%v,%v)", p.X, p.Y)
	}
	if res.UsedLengthMM != 205 {
		t.Fatalf("expected used length 205 (200 + spacing), got %v", res.UsedLengthMM)
	}
}

func TestSolveNoOverlapAndSpacing(t *testing.T) {
	res := Solve(Request{
		Pieces: []Piece{
			rectPiece("a", 400, 300),
			rectPiece("b", 400, 300),
			rectPiece("c", 300, 200),
			rectPiece("d", 200, 200),
		},
		BinWidthMM: 900,
		SpacingMM:  5,
	})
	if res.Placed != 4 {
		t.Fatalf("expected all 4 placed, got %d", res.Placed)
	}
	for i := range res.Placements {
		for j := i + 1; j < len(res.Placements); j++ {
			a, b := res.Placements[i].Outline, res.Placements[j].Outline
			if polygonsIntersect(a, b) {
				t.Fatalf("pieces %s and %s overlap", res.Placements[i].ID, res.Placements[j].ID)
			}
			if d := polygonDistance(a, b); d < 5 {
				t.Fatalf("pieces %s and %s too close: %v mm", res.Placements[i].ID, res.Placements[j].ID, d)
			}
		}
	}
	for _, p := range res.Placements {
		b := p.Outline.Bounds()
		if b.MinX < 0 || b.MaxX > 900 || b.MinY < 0 {
			t.Fatalf("piece %s outside sheet: %+v", p.ID, b)
		}
	}
}

func TestSolveAreaDescOrder(t *testing.T) {
	// 大片先放：最大的片应落在原点
	res := Solve(Request{
		Pieces: []Piece{
			rectPiece("small", 100, 100),
			rectPiece("big", 500, 400),
		},
		BinWidthMM: 1000,
		SpacingMM:  5,
	})
	if res.Placed != 2 {
		t.Fatalf("expected 2 placed, got %d", res.Placed)
	}
	if res.Placements[0].ID != "big" {
		t.Fatalf("expected big piece placed first, got %s", res.Placements[0].ID)
	}
	if res.Placements[0].X != 0 || res.Placements[0].Y != 0 {
		t.Fatalf("expected big piece at origin")
	}
}

func TestSolveTooWidePieceSkipped(t *testing.T) {
	res := Solve(Request{
		Pieces: []Piece{
			rectPiece("fits", 300, 100),
			rectPiece("toowide", 2000, 100),
		},
		BinWidthMM: 1000,
		SpacingMM:  5,
	})
	if res.Placed != 1 {
		t.Fatalf("expected only fitting piece placed, got %d", res.Placed)
	}
	if res.Placements[0].ID != "fits" {
		t.Fatalf("expected fits placed, got %s", res.Placements[0].ID)
	}
}

func TestSolveRotation180(t *testing.T) {
	// 直角梯形允许 180° 旋转后排得更紧
	trap := Piece{ID: "t", Outline: geom.Polygon{{X: 0, Y: 0}, {X: 400, Y: 0}, {X: 400, Y: 200}, {X: 200, Y: 200}}}
	res := Solve(Request{
		Pieces:     []Piece{trap, trap},
		BinWidthMM: 1000,
		Allow180:   true,
		SpacingMM:  5,
	})
	if res.Placed != 2 {
		t.Fatalf("expected 2 placed, got %d", res.Placed)
	}
}

func TestSolveUtilization(t *testing.T) {
	res := Solve(Request{
		Pieces:     []Piece{rectPiece("a", 500, 100)},
		BinWidthMM: 500,
		SpacingMM:  0,
	})
	if res.Placed != 1 {
		t.Fatalf("expected piece placed")
	}
	// 正好铺满：利用率封顶 99.9
	if res.UtilizationPct > 99.9 {
		t.Fatalf("expected utilization capped at 99.9, got %v", res.UtilizationPct)
	}
	if res.UtilizationPct < 99 {
		t.Fatalf("expected near-full utilization, got %v", res.UtilizationPct)
	}
}

func TestSolveDeadline(t *testing.T) {
	pieces := make([]Piece, 0, 40)
	for i := 0; i < 40; i++ {
		pieces = append(pieces, rectPiece("p", 100, 100))
	}
	res := Solve(Request{
		Pieces:     pieces,
		BinWidthMM: 1000,
		SpacingMM:  5,
		TimeLimit:  time.Nanosecond,
	})
	if !res.TimedOut {
		t.Fatalf("expected timeout flag")
	}
	if res.Placed >= res.Total {
		t.Fatalf("expected partial placement under deadline")
	}
}
