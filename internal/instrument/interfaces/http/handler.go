package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/markettracker/internal/instrument/application"
	"github.com/wyfcoding/markettracker/pkg/logger"
	"gorm.io/gorm"
)

// InstrumentHandler HTTP 处理器
type InstrumentHandler struct {
	service *application.InstrumentService
}

// NewInstrumentHandler 创建 HTTP 处理器实例
func NewInstrumentHandler(service *application.InstrumentService) *InstrumentHandler {
	return &InstrumentHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *InstrumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/instruments")
	{
		api.POST("", h.CreateInstrument)
		api.GET("", h.ListInstruments)
		api.GET("/:symbol", h.GetInstrument)
		api.PUT("/:symbol/name", h.RenameInstrument)
	}
}

// CreateInstrumentRequest 创建标的请求
type CreateInstrumentRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency" binding:"required"`
	Feed     string `json:"feed" binding:"required"`
}

// CreateInstrument 创建标的
func (h *InstrumentHandler) CreateInstrument(c *gin.Context) {
	var req CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instrument, err := h.service.Create(c.Request.Context(), application.CreateInstrumentCommand{
		Symbol:   req.Symbol,
		Name:     req.Name,
		Currency: req.Currency,
		Feed:     req.Feed,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create instrument", "symbol", req.Symbol, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, instrument)
}

// ListInstruments 获取全部标的
func (h *InstrumentHandler) ListInstruments(c *gin.Context) {
	instruments, err := h.service.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list instruments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, instruments)
}

// GetInstrument 获取单个标的
func (h *InstrumentHandler) GetInstrument(c *gin.Context) {
	symbol := c.Param("symbol")
	instrument, err := h.service.Get(c.Request.Context(), symbol)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get instrument", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if instrument == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "instrument not found"})
		return
	}
	c.JSON(http.StatusOK, instrument)
}

// RenameInstrumentRequest 修改展示名称请求
type RenameInstrumentRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameInstrument 修改标的展示名称
func (h *InstrumentHandler) RenameInstrument(c *gin.Context) {
	symbol := c.Param("symbol")

	var req RenameInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Rename(c.Request.Context(), symbol, req.Name); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "instrument not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to rename instrument", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
