package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

// Session 一张图纸的工作会话。记录集只活在会话里，服务重启即失效。
type Session struct {
	ID          string
	SourceFile  string
	StyleNumber string
	ContentHash string
	Store       *RecordStore
	Diagnostics []entity.Diagnostic
	CreatedAt   time.Time

	mu        sync.Mutex
	lastYield []entity.FabricYieldEntry
}

// SetLastYield 记住最近一次要尺结果，导出时复用
func (s *Session) SetLastYield(entries []entity.FabricYieldEntry) {
	s.mu.Lock()
	s.lastYield = entries
	s.mu.Unlock()
}

// LastYield 最近一次要尺结果，没算过返回 nil
func (s *Session) LastYield() []entity.FabricYieldEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastYield
}

// SessionManager 进程内会话表
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Create 新建会话。onMutate 挂到记录集上，修改时触发缓存失效。
func (m *SessionManager) Create(extraction *Extraction, contentHash string, onMutate func()) *Session {
	sess := &Session{
		ID:          uuid.New().String(),
		SourceFile:  extraction.SourceFile,
		StyleNumber: extraction.StyleNumber,
		ContentHash: contentHash,
		Store:       NewRecordStore(extraction.Records, onMutate),
		Diagnostics: extraction.Diagnostics,
		CreatedAt:   time.Now(),
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

// Get 按 id 取会话
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return sess, nil
}

// Delete 结束会话
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
