package entity

import "errors"

// 域内哨兵错误。handler 层据此映射 HTTP 状态码。
var (
	// ErrDrawingUnreadable 图纸整体无法解析（坏文件、截断、非 DXF）
	ErrDrawingUnreadable = errors.New("drawing unreadable")

	// ErrInvalidYieldInput 要尺计算输入非法（宽度/损耗率越界、未知单位）
	ErrInvalidYieldInput = errors.New("invalid yield input")

	// ErrInvalidMutation 对记录集的非法修改（空面料名、数量<1、id 不存在）
	ErrInvalidMutation = errors.New("invalid mutation")

	// ErrSessionNotFound 会话过期或 id 不存在
	ErrSessionNotFound = errors.New("session not found")
)

// 逐块跳过原因
const (
	SkipNoInsert        = "no_insert"         // 块从未被 INSERT 引用
	SkipNoClosedOutline = "no_closed_outline" // 块内没有闭合轮廓
	SkipBelowMinArea    = "below_min_area"    // 面积低于样板下限
	SkipDegenerate      = "degenerate"        // 顶点不足或面积为零
)

// Diagnostic 提取时被跳过的块。不算错误，随结果一起返回给 UI。
type Diagnostic struct {
	Block  string `json:"block"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}
