package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/bitfantasy/nimo-yield/internal/config"
	"github.com/bitfantasy/nimo-yield/internal/geom"
	"github.com/bitfantasy/nimo-yield/internal/nesting"
	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
)

// cm → mm
const cmToMM = 10

// DrawingService 图纸会话的门面：上传提取、记录集编辑、要尺、排料、导出
type DrawingService struct {
	extractor *Extractor
	cache     ExtractionCache
	archive   *DrawingArchive
	sessions  *SessionManager
	calc      *YieldCalculator
	exporter  *Exporter
	nestCfg   config.NestingConfig
	logger    *zap.Logger
}

func NewDrawingService(
	extractor *Extractor,
	cache ExtractionCache,
	archive *DrawingArchive,
	sessions *SessionManager,
	nestCfg config.NestingConfig,
	logger *zap.Logger,
) *DrawingService {
	return &DrawingService{
		extractor: extractor,
		cache:     cache,
		archive:   archive,
		sessions:  sessions,
		calc:      NewYieldCalculator(),
		exporter:  NewExporter(),
		nestCfg:   nestCfg,
		logger:    logger,
	}
}

// Upload 上传图纸，提取样板并开一个新会话。
// 同内容图纸命中缓存时跳过解析；会话内一旦编辑，缓存条目失效。
func (s *DrawingService) Upload(ctx context.Context, fileName string, raw []byte) (*Session, error) {
	hash := ContentHash(raw)

	extraction, hit := s.cache.Get(ctx, hash)
	if hit {
		s.logger.Info("extraction cache hit",
			zap.String("file", fileName),
			zap.String("hash", hash[:12]))
		// 会话持有副本并换上本次文件名，缓存条目不被改写
		extraction = extraction.forSource(fileName)
	} else {
		var err error
		extraction, err = s.extractor.Extract(fileName, raw)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, hash, extraction)
	}

	s.archive.Put(ctx, hash, raw)

	sess := s.sessions.Create(extraction, hash, func() {
		s.cache.Delete(context.Background(), hash)
	})
	return sess, nil
}

// Session 取会话
func (s *DrawingService) Session(id string) (*Session, error) {
	return s.sessions.Get(id)
}

// Records 当前记录集
func (s *DrawingService) Records(sessionID string) ([]entity.PatternRecord, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Store.Records(), nil
}

// Duplicate 复制记录
func (s *DrawingService) Duplicate(sessionID string, ids []int) ([]entity.PatternRecord, error) {
	return s.mutate(sessionID, func(store *RecordStore) error { return store.Duplicate(ids) })
}

// Delete 删除记录
func (s *DrawingService) Delete(sessionID string, ids []int) ([]entity.PatternRecord, error) {
	return s.mutate(sessionID, func(store *RecordStore) error { return store.Delete(ids) })
}

// SetFabric 批量改面料
func (s *DrawingService) SetFabric(sessionID string, ids []int, fabricName string) ([]entity.PatternRecord, error) {
	return s.mutate(sessionID, func(store *RecordStore) error { return store.SetFabric(ids, fabricName) })
}

// SetQuantity 批量改数量
func (s *DrawingService) SetQuantity(sessionID string, ids []int, quantity int) ([]entity.PatternRecord, error) {
	return s.mutate(sessionID, func(store *RecordStore) error { return store.SetQuantity(ids, quantity) })
}

func (s *DrawingService) mutate(sessionID string, fn func(*RecordStore) error) ([]entity.PatternRecord, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess.Store); err != nil {
		return nil, err
	}
	return sess.Store.Records(), nil
}

// Yield 按当前记录集和面料输入计算要尺，结果留在会话里供导出复用
func (s *DrawingService) Yield(sessionID string, inputs []entity.YieldInput) ([]entity.FabricYieldEntry, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	entries := s.calc.Compute(sess.Store.Records(), inputs)
	sess.SetLastYield(entries)
	return entries, nil
}

// Export 导出 xlsx。要尺表用最近一次计算结果，没算过则只有明细表有数据。
func (s *DrawingService) Export(sessionID string) (*excelize.File, string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, "", err
	}
	return s.exporter.Export(sess, sess.LastYield())
}

// NestParams 排料参数
type NestParams struct {
	FabricName string
	WidthCM    float64
	Allow180   bool
	SpacingMM  float64
	TimeLimitS float64
}

// Nest 对会话内某种面料的样板排料。FabricName 为空时排全部。
func (s *DrawingService) Nest(sessionID string, params NestParams) (*nesting.Result, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if params.WidthCM <= 0 {
		return nil, fmt.Errorf("%w: bin width must be positive, got %v", entity.ErrInvalidYieldInput, params.WidthCM)
	}
	spacing := params.SpacingMM
	if spacing <= 0 {
		spacing = s.nestCfg.DefaultSpacingMM
	}
	timeLimit := s.nestCfg.DefaultTimeLimit
	if params.TimeLimitS > 0 {
		timeLimit = time.Duration(params.TimeLimitS * float64(time.Second))
	}

	var pieces []nesting.Piece
	for _, r := range sess.Store.Records() {
		if params.FabricName != "" && r.FabricName != params.FabricName {
			continue
		}
		outline := make(geom.Polygon, len(r.Outline))
		for i, p := range r.Outline {
			outline[i] = geom.Point{X: p.X * cmToMM, Y: p.Y * cmToMM}
		}
		for k := 0; k < r.Quantity; k++ {
			pieces = append(pieces, nesting.Piece{
				ID:      fmt.Sprintf("%d-%d", r.ID, k+1),
				Outline: outline,
			})
		}
	}

	result := nesting.Solve(nesting.Request{
		Pieces:     pieces,
		BinWidthMM: params.WidthCM * cmToMM,
		Allow180:   params.Allow180,
		SpacingMM:  spacing,
		GridStepMM: s.nestCfg.GridStepMM,
		TimeLimit:  timeLimit,
	})
	s.logger.Info("nesting finished",
		zap.String("session", sessionID),
		zap.String("fabric", params.FabricName),
		zap.Int("placed", result.Placed),
		zap.Int("total", result.Total),
		zap.Float64("utilization_pct", result.UtilizationPct))
	return &result, nil
}
