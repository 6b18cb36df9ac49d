package service

import (
	"errors"
	"testing"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

func seedRecords(n int) []entity.PatternRecord {
	records := make([]entity.PatternRecord, n)
	for i := range records {
		records[i] = entity.PatternRecord{
			ID:         i + 1,
			FabricName: "겉감",
			Category:   entity.CategoryBody,
			Quantity:   1,
			AreaCM2:    float64(100 * (i + 1)),
		}
	}
	return records
}

func TestStoreRecordsSnapshot(t *testing.T) {
	store := NewRecordStore(seedRecords(3), nil)
	snap := store.Records()
	snap[0].FabricName = "변경"
	if got := store.Records()[0].FabricName; got != "겉감" {
		t.Fatalf("expected snapshot isolation, store shows %q", got)
	}
}

func TestStoreDuplicate(t *testing.T) {
	store := NewRecordStore(seedRecords(3), nil)
	if err := store.Duplicate([]int{2}); err != nil {
		t.Fatalf("expected duplicate success, got %v", err)
	}
	records := store.Records()
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	dup := records[3]
	if dup.ID != 4 {
		t.Fatalf("expected duplicate id 4, got %d", dup.ID)
	}
	if dup.FabricName != entity.CopyPrefix+"겉감" {
		t.Fatalf("expected copy prefix, got %q", dup.FabricName)
	}
	if dup.AreaCM2 != 200 {
		t.Fatalf("expected copied area 200, got %v", dup.AreaCM2)
	}
}

func TestStoreDuplicateUnknownID(t *testing.T) {
	store := NewRecordStore(seedRecords(3), nil)
	err := store.Duplicate([]int{2, 99})
	if !errors.Is(err, entity.ErrInvalidMutation) {
		t.Fatalf("expected ErrInvalidMutation, got %v", err)
	}
	if got := len(store.Records()); got != 3 {
		t.Fatalf("expected record set unchanged, got %d records", got)
	}
}

func TestStoreDeleteRenumbers(t *testing.T) {
	store := NewRecordStore(seedRecords(5), nil)
	if err := store.Delete([]int{3}); err != nil {
		t.Fatalf("expected delete success, got %v", err)
	}
	records := store.Records()
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	for i, r := range records {
		if r.ID != i+1 {
			t.Fatalf("expected contiguous ids, record %d has id %d", i, r.ID)
		}
	}
	// 原 id=4 的记录（面积 400）现在应是 id=3
	if records[2].AreaCM2 != 400 {
		t.Fatalf("expected area 400 at position 3, got %v", records[2].AreaCM2)
	}
}

func TestStoreSetFabric(t *testing.T) {
	store := NewRecordStore(seedRecords(3), nil)
	if err := store.SetFabric([]int{1, 3}, "안감"); err != nil {
		t.Fatalf("expected set fabric success, got %v", err)
	}
	records := store.Records()
	if records[0].FabricName != "안감" || records[2].FabricName != "안감" {
		t.Fatalf("expected fabric updated on 1 and 3")
	}
	if records[1].FabricName != "겉감" {
		t.Fatalf("expected record 2 untouched, got %q", records[1].FabricName)
	}
	if records[0].Color != entity.FabricColor("안감") {
		t.Fatalf("expected color refreshed, got %q", records[0].Color)
	}
}

func TestStoreSetFabricEmptyRejected(t *testing.T) {
	store := NewRecordStore(seedRecords(2), nil)
	err := store.SetFabric([]int{1}, "")
	if !errors.Is(err, entity.ErrInvalidMutation) {
		t.Fatalf("expected ErrInvalidMutation, got %v", err)
	}
	if got := store.Records()[0].FabricName; got != "겉감" {
		t.Fatalf("expected record unchanged, got %q", got)
	}
}

func TestStoreSetQuantity(t *testing.T) {
	store := NewRecordStore(seedRecords(3), nil)
	if err := store.SetQuantity([]int{1, 2}, 4); err != nil {
		t.Fatalf("expected set quantity success, got %v", err)
	}
	records := store.Records()
	if records[0].Quantity != 4 || records[1].Quantity != 4 || records[2].Quantity != 1 {
		t.Fatalf("unexpected quantities: %d %d %d", records[0].Quantity, records[1].Quantity, records[2].Quantity)
	}
}

func TestStoreSetQuantityBelowOneRejected(t *testing.T) {
	store := NewRecordStore(seedRecords(2), nil)
	for _, q := range []int{0, -3} {
		err := store.SetQuantity([]int{1}, q)
		if !errors.Is(err, entity.ErrInvalidMutation) {
			t.Fatalf("quantity %d: expected ErrInvalidMutation, got %v", q, err)
		}
	}
	if got := store.Records()[0].Quantity; got != 1 {
		t.Fatalf("expected quantity unchanged, got %d", got)
	}
}

func TestStoreMutationCallback(t *testing.T) {
	calls := 0
	store := NewRecordStore(seedRecords(3), func() { calls++ })

	store.Duplicate([]int{1})
	store.SetFabric([]int{1}, "메쉬")
	store.SetQuantity([]int{1}, 2)
	store.Delete([]int{4})
	if calls != 4 {
		t.Fatalf("expected 4 mutation callbacks, got %d", calls)
	}

	// 失败的修改不触发回调
	store.SetQuantity([]int{1}, 0)
	store.Delete([]int{99})
	if calls != 4 {
		t.Fatalf("expected failed mutations to skip callback, got %d", calls)
	}
}
