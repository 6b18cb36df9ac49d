package service

import (
	"math"
	"strings"
	"testing"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

func TestYieldCompute(t *testing.T) {
	calc := NewYieldCalculator()
	// 总面积 2 m²：10000 cm² × 2
	records := []entity.PatternRecord{
		{ID: 1, FabricName: "겉감", Quantity: 2, AreaCM2: 10000},
		{ID: 2, FabricName: "안감", Quantity: 1, AreaCM2: 5000},
	}
	entries := calc.Compute(records, []entity.YieldInput{
		{FabricName: "겉감", Width: 150, Unit: "cm", LossRatePct: 10},
	})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Error != "" {
		t.Fatalf("expected no error, got %q", e.Error)
	}
	if e.PieceCount != 2 {
		t.Fatalf("expected 2 pieces, got %d", e.PieceCount)
	}
	if math.Abs(e.TotalAreaM2-2.0) > 1e-9 {
		t.Fatalf("expected 2.0 m², got %v", e.TotalAreaM2)
	}
	// 2.0 / 1.5 / 0.9 = 1.4815 m
	if math.Abs(e.RequiredM-1.481481481) > 1e-6 {
		t.Fatalf("expected 1.4815 m, got %v", e.RequiredM)
	}
	// × 1.09361 = 1.6202 yd
	if math.Abs(e.RequiredYard-1.481481481*1.09361) > 1e-6 {
		t.Fatalf("expected %.4f yd, got %v", 1.481481481*1.09361, e.RequiredYard)
	}
}

func TestYieldComputeInchWidth(t *testing.T) {
	calc := NewYieldCalculator()
	records := []entity.PatternRecord{{ID: 1, FabricName: "겉감", Quantity: 1, AreaCM2: 10000}}

	cmEntries := calc.Compute(records, []entity.YieldInput{
		{FabricName: "겉감", Width: 147.32, Unit: "cm", LossRatePct: 15},
	})
	inEntries := calc.Compute(records, []entity.YieldInput{
		{FabricName: "겉감", Width: 58, Unit: "in", LossRatePct: 15},
	})
	// 58 in = 147.32 cm
	if math.Abs(cmEntries[0].RequiredYard-inEntries[0].RequiredYard) > 1e-9 {
		t.Fatalf("expected identical yield for 58in and 147.32cm, got %v vs %v",
			cmEntries[0].RequiredYard, inEntries[0].RequiredYard)
	}
	if inEntries[0].WidthCM != 147.32 {
		t.Fatalf("expected width normalized to cm, got %v", inEntries[0].WidthCM)
	}
	if inEntries[0].Unit != "in" {
		t.Fatalf("expected entry keeps input unit, got %q", inEntries[0].Unit)
	}
}

func TestYieldComputeZeroGroup(t *testing.T) {
	calc := NewYieldCalculator()
	entries := calc.Compute(nil, []entity.YieldInput{
		{FabricName: "메쉬", Width: 150, Unit: "cm", LossRatePct: 10},
	})
	if entries[0].RequiredYard != 0 || entries[0].PieceCount != 0 {
		t.Fatalf("expected zero entry, got %+v", entries[0])
	}
	if entries[0].Error != "" {
		t.Fatalf("expected zero group without error, got %q", entries[0].Error)
	}
}

func TestYieldComputeInvalidInputs(t *testing.T) {
	calc := NewYieldCalculator()
	records := []entity.PatternRecord{{ID: 1, FabricName: "겉감", Quantity: 1, AreaCM2: 10000}}

	bad := []entity.YieldInput{
		{FabricName: "", Width: 150, Unit: "cm", LossRatePct: 10},
		{FabricName: "겉감", Width: 0, Unit: "cm", LossRatePct: 10},
		{FabricName: "겉감", Width: -5, Unit: "cm", LossRatePct: 10},
		{FabricName: "겉감", Width: 150, Unit: "mm", LossRatePct: 10},
		{FabricName: "겉감", Width: 150, Unit: "cm", LossRatePct: -1},
		{FabricName: "겉감", Width: 150, Unit: "cm", LossRatePct: 100},
	}
	for i, in := range bad {
		entries := calc.Compute(records, []entity.YieldInput{in})
		if len(entries) != 1 {
			t.Fatalf("case %d: expected flagged entry, got %d entries", i, len(entries))
		}
		if entries[0].Error == "" {
			t.Fatalf("case %d: expected error on entry, got %+v", i, entries[0])
		}
		if entries[0].RequiredM != 0 || entries[0].RequiredYard != 0 {
			t.Fatalf("case %d: expected values withheld, got %+v", i, entries[0])
		}
	}
}

func TestYieldComputeInvalidInputIsolated(t *testing.T) {
	calc := NewYieldCalculator()
	records := []entity.PatternRecord{
		{ID: 1, FabricName: "겉감", Quantity: 2, AreaCM2: 10000},
		{ID: 2, FabricName: "안감", Quantity: 1, AreaCM2: 5000},
	}
	// 안감 输入非法，겉감 不受影响
	entries := calc.Compute(records, []entity.YieldInput{
		{FabricName: "겉감", Width: 150, Unit: "cm", LossRatePct: 10},
		{FabricName: "안감", Width: 0, Unit: "cm", LossRatePct: 10},
	})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	good, flagged := entries[0], entries[1]
	if good.Error != "" || good.RequiredYard <= 0 {
		t.Fatalf("expected valid fabric still computed, got %+v", good)
	}
	if math.Abs(good.RequiredM-1.481481481) > 1e-6 {
		t.Fatalf("expected 1.4815 m, got %v", good.RequiredM)
	}
	if flagged.FabricName != "안감" || flagged.Error == "" {
		t.Fatalf("expected flagged 안감 entry, got %+v", flagged)
	}
	if !strings.Contains(flagged.Error, "width") {
		t.Fatalf("expected error names the bad field, got %q", flagged.Error)
	}
	if flagged.RequiredM != 0 || flagged.RequiredYard != 0 {
		t.Fatalf("expected flagged values withheld, got %+v", flagged)
	}
}

func TestYieldComputeIdempotent(t *testing.T) {
	calc := NewYieldCalculator()
	records := []entity.PatternRecord{{ID: 1, FabricName: "겉감", Quantity: 3, AreaCM2: 4321}}
	inputs := []entity.YieldInput{{FabricName: "겉감", Width: 110, Unit: "cm", LossRatePct: 12}}

	first := calc.Compute(records, inputs)
	for i := 0; i < 5; i++ {
		again := calc.Compute(records, inputs)
		if again[0] != first[0] {
			t.Fatalf("expected idempotent result, got %+v then %+v", first[0], again[0])
		}
	}
}
