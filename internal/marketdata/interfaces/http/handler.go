// Package http 行情查询的 HTTP 接口
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/markettracker/internal/marketdata/application"
)

// Handler 行情 HTTP 处理器
type Handler struct {
	service *application.MarketDataService
}

// NewHandler 构造函数
func NewHandler(service *application.MarketDataService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/quotes")
	{
		quotes.GET("/:symbol/latest", h.Latest)
		quotes.GET("/:symbol/history", h.History)
	}
}

// Latest 查询最新行情
func (h *Handler) Latest(c *gin.Context) {
	symbol := c.Param("symbol")
	quote, err := h.service.LatestQuote(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if quote == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no quote committed for symbol"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// History 查询历史行情
func (h *Handler) History(c *gin.Context) {
	symbol := c.Param("symbol")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	quotes, err := h.service.History(c.Request.Context(), symbol, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "quotes": quotes})
}
