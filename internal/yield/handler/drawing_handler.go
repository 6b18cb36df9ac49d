package handler

import (
	"errors"
	"io"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-yield/internal/yield/entity"
	"github.com/bitfantasy/nimo-yield/internal/yield/service"
)

// DrawingHandler 图纸会话处理器
type DrawingHandler struct {
	svc *service.DrawingService
}

func NewDrawingHandler(svc *service.DrawingService) *DrawingHandler {
	return &DrawingHandler{svc: svc}
}

// SessionResponse 上传返回的会话视图
type SessionResponse struct {
	ID          string                 `json:"id"`
	SourceFile  string                 `json:"source_file"`
	StyleNumber string                 `json:"style_number"`
	Records     []entity.PatternRecord `json:"records"`
	Diagnostics []entity.Diagnostic    `json:"diagnostics"`
}

// Upload 上传 DXF 图纸并提取样板
// POST /drawings
func (h *DrawingHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传DXF文件")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "读取上传文件失败: "+err.Error())
		return
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		InternalError(c, "读取上传文件失败: "+err.Error())
		return
	}

	sess, err := h.svc.Upload(c.Request.Context(), fileHeader.Filename, raw)
	if err != nil {
		if errors.Is(err, entity.ErrDrawingUnreadable) {
			BadRequest(c, "图纸无法解析: "+err.Error())
			return
		}
		InternalError(c, err.Error())
		return
	}

	Created(c, SessionResponse{
		ID:          sess.ID,
		SourceFile:  sess.SourceFile,
		StyleNumber: sess.StyleNumber,
		Records:     sess.Store.Records(),
		Diagnostics: sess.Diagnostics,
	})
}

// ListRecords 当前记录集
// GET /drawings/:id/records
func (h *DrawingHandler) ListRecords(c *gin.Context) {
	records, err := h.svc.Records(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	Success(c, gin.H{"records": records})
}

type idsRequest struct {
	IDs []int `json:"ids" binding:"required,min=1"`
}

// DuplicateRecords 复制记录
// POST /drawings/:id/records/duplicate
func (h *DrawingHandler) DuplicateRecords(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	records, err := h.svc.Duplicate(c.Param("id"), req.IDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	Success(c, gin.H{"records": records})
}

// DeleteRecords 删除记录
// POST /drawings/:id/records/delete
func (h *DrawingHandler) DeleteRecords(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	records, err := h.svc.Delete(c.Param("id"), req.IDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	Success(c, gin.H{"records": records})
}

// SetFabric 批量改面料名
// PUT /drawings/:id/records/fabric
func (h *DrawingHandler) SetFabric(c *gin.Context) {
	var req struct {
		IDs        []int  `json:"ids" binding:"required,min=1"`
		FabricName string `json:"fabric_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	records, err := h.svc.SetFabric(c.Param("id"), req.IDs, req.FabricName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	Success(c, gin.H{"records": records})
}

// SetQuantity 批量改数量
// PUT /drawings/:id/records/quantity
func (h *DrawingHandler) SetQuantity(c *gin.Context) {
	var req struct {
		IDs      []int `json:"ids" binding:"required,min=1"`
		Quantity int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	records, err := h.svc.SetQuantity(c.Param("id"), req.IDs, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	Success(c, gin.H{"records": records})
}

// ComputeYield 按面料输入计算要尺
// POST /drawings/:id/yield
func (h *DrawingHandler) ComputeYield(c *gin.Context) {
	var req struct {
		Fabrics []entity.YieldInput `json:"fabrics" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	entries, err := h.svc.Yield(c.Param("id"), req.Fabrics)
	if err != nil {
		h.respondError(c, err)
		return
	}
	Success(c, gin.H{"entries": entries})
}

// Nest 对某种面料排料
// POST /drawings/:id/nest
func (h *DrawingHandler) Nest(c *gin.Context) {
	var req struct {
		FabricName string  `json:"fabric_name"`
		WidthCM    float64 `json:"width_cm"`
		Allow180   bool    `json:"allow_180_rotation"`
		SpacingMM  float64 `json:"spacing_mm"`
		TimeLimitS float64 `json:"time_limit_s"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	result, err := h.svc.Nest(c.Param("id"), service.NestParams{
		FabricName: req.FabricName,
		WidthCM:    req.WidthCM,
		Allow180:   req.Allow180,
		SpacingMM:  req.SpacingMM,
		TimeLimitS: req.TimeLimitS,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	Success(c, result)
}

// Export 导出要尺产出表
// GET /drawings/:id/export
func (h *DrawingHandler) Export(c *gin.Context) {
	f, fileName, err := h.svc.Export(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(fileName))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// respondError 域内错误 → HTTP 响应
func (h *DrawingHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		NotFound(c, "会话不存在或已过期")
	case errors.Is(err, entity.ErrInvalidMutation):
		UnprocessableEntity(c, err.Error())
	case errors.Is(err, entity.ErrInvalidYieldInput):
		UnprocessableEntity(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}
