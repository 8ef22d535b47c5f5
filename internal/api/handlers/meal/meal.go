package meal

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pfc-analyzer/internal/core/analyzer"
	"pfc-analyzer/internal/core/nutrition"
	"pfc-analyzer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 批次路徑的預設等待上限
const defaultBatchWait = 30 * time.Second

// Handler 餐點分析處理器
type Handler struct {
	engine *analyzer.Engine
}

// NewHandler 創建餐點分析處理器
func NewHandler(engine *analyzer.Engine) *Handler {
	return &Handler{engine: engine}
}

// analyzeRequest 單筆分析請求
type analyzeRequest struct {
	Text           string `json:"text" binding:"required"`
	UseBatch       bool   `json:"use_batch"`
	NoCache        bool   `json:"no_cache"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// analyzeResponse 單筆分析響應。Result 為 null 代表無可萃取內容。
type analyzeResponse struct {
	Result *nutrition.PFCResult `json:"result"`
}

// HandleAnalyze 分析單筆餐點描述
func (h *Handler) HandleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "text is required",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	ctx := c.Request.Context()
	if req.UseBatch {
		// 批次路徑的等待上限由呼叫端決定，沒給就用預設值
		wait := defaultBatchWait
		if req.TimeoutSeconds > 0 {
			wait = time.Duration(req.TimeoutSeconds) * time.Second
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	result, err := h.engine.AnalyzeOne(ctx, req.Text, analyzer.Options{
		UseCache: !req.NoCache,
		UseBatch: req.UseBatch,
	})
	if err != nil {
		var custom *common.CustomError
		status := http.StatusServiceUnavailable
		code := common.ErrCodeServiceUnavailable
		if errors.As(err, &custom) {
			status = custom.Status
			code = custom.Code
		}
		common.LogWarn("餐點分析失敗",
			zap.Error(err),
			zap.Bool("use_batch", req.UseBatch),
		)
		c.JSON(status, gin.H{
			"error": "could not analyze this meal",
			"code":  code,
		})
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{Result: result})
}

// bulkRequest 批量分析請求
type bulkRequest struct {
	Texts []string `json:"texts" binding:"required"`
}

// bulkEntry 批量分析的單筆結果
type bulkEntry struct {
	Input  string               `json:"input"`
	Result *nutrition.PFCResult `json:"result"`
	Error  string               `json:"error,omitempty"`
}

// HandleBulk 併發分析多筆餐點描述，逐筆隔離失敗
func (h *Handler) HandleBulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Texts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "texts is required",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	entries := h.engine.AnalyzeMany(c.Request.Context(), req.Texts)

	results := make([]bulkEntry, len(entries))
	for i, entry := range entries {
		results[i] = bulkEntry{
			Input:  entry.Input,
			Result: entry.Result,
		}
		if entry.Err != nil {
			results[i].Error = entry.Err.Error()
		}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// HandleStats 引擎統計資訊
func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetStats())
}
