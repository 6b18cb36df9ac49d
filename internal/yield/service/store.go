package service

import (
	"fmt"
	"sync"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

// RecordStore 一次会话内的有序记录集。
// 所有修改走同一把锁，删除后重新编号保证 id 连续。
type RecordStore struct {
	mu       sync.Mutex
	records  []entity.PatternRecord
	onMutate func()
}

// NewRecordStore onMutate 在每次成功修改后调用（用于缓存失效），可为 nil
func NewRecordStore(records []entity.PatternRecord, onMutate func()) *RecordStore {
	copied := make([]entity.PatternRecord, len(records))
	copy(copied, records)
	return &RecordStore{records: copied, onMutate: onMutate}
}

// Records 当前记录集快照
func (s *RecordStore) Records() []entity.PatternRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.PatternRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Duplicate 复制指定记录，副本面料名加 복사_ 前缀，追加到末尾后统一编号。
// 任一 id 不存在则整体失败，记录集不变。
func (s *RecordStore) Duplicate(ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var copies []entity.PatternRecord
	for _, id := range ids {
		idx := s.indexOf(id)
		if idx < 0 {
			return fmt.Errorf("%w: record %d not found", entity.ErrInvalidMutation, id)
		}
		dup := s.records[idx]
		dup.FabricName = entity.CopyPrefix + dup.FabricName
		dup.Color = entity.FabricColor(dup.FabricName)
		copies = append(copies, dup)
	}
	s.records = append(s.records, copies...)
	s.renumber()
	s.mutated()
	return nil
}

// Delete 删除指定记录并重新编号。任一 id 不存在则整体失败。
func (s *RecordStore) Delete(ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		if s.indexOf(id) < 0 {
			return fmt.Errorf("%w: record %d not found", entity.ErrInvalidMutation, id)
		}
		drop[id] = true
	}
	kept := s.records[:0]
	for _, r := range s.records {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	s.records = kept
	s.renumber()
	s.mutated()
	return nil
}

// SetFabric 批量改面料名。空面料名拒绝，记录集不变。
func (s *RecordStore) SetFabric(ids []int, fabricName string) error {
	if fabricName == "" {
		return fmt.Errorf("%w: fabric name must not be empty", entity.ErrInvalidMutation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idxs, err := s.resolveAll(ids)
	if err != nil {
		return err
	}
	color := entity.FabricColor(fabricName)
	for _, idx := range idxs {
		s.records[idx].FabricName = fabricName
		s.records[idx].Color = color
	}
	s.mutated()
	return nil
}

// SetQuantity 批量改数量。数量必须 ≥ 1，否则拒绝，记录集不变。
func (s *RecordStore) SetQuantity(ids []int, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1, got %d", entity.ErrInvalidMutation, quantity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idxs, err := s.resolveAll(ids)
	if err != nil {
		return err
	}
	for _, idx := range idxs {
		s.records[idx].Quantity = quantity
	}
	s.mutated()
	return nil
}

// resolveAll 把 id 列表解析成下标，任一缺失整体报错
func (s *RecordStore) resolveAll(ids []int) ([]int, error) {
	idxs := make([]int, 0, len(ids))
	for _, id := range ids {
		idx := s.indexOf(id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: record %d not found", entity.ErrInvalidMutation, id)
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}

func (s *RecordStore) indexOf(id int) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// renumber 按当前顺序重排 id 为 1..n
func (s *RecordStore) renumber() {
	for i := range s.records {
		s.records[i].ID = i + 1
	}
}

func (s *RecordStore) mutated() {
	if s.onMutate != nil {
		s.onMutate()
	}
}
