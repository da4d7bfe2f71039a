// Package http 订单上下文的 HTTP 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/markettracker/internal/order/application"
	"github.com/wyfcoding/markettracker/internal/order/domain"
)

// Handler 订单 HTTP 处理器
type Handler struct {
	service *application.OrderService
}

// NewHandler 构造函数
func NewHandler(service *application.OrderService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.Submit)
		orders.GET("/:order_id", h.Get)
	}
	router.GET("/accounts/:account_id/orders", h.ListByAccount)
}

// SubmitRequest 订单提交请求
type SubmitRequest struct {
	AccountID   string `json:"account_id" binding:"required"`
	Symbol      string `json:"symbol" binding:"required"`
	Side        string `json:"side" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	ScheduledAt int64  `json:"scheduled_at" binding:"required"`
}

// Submit 提交定时订单
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}

	order, err := h.service.Submit(c.Request.Context(),
		req.AccountID, req.Symbol, domain.OrderSide(req.Side), quantity, req.ScheduledAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSide), errors.Is(err, domain.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, application.ErrUnknownSymbol):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get 查询订单
func (h *Handler) Get(c *gin.Context) {
	order, err := h.service.Get(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListByAccount 查询账户全部订单
func (h *Handler) ListByAccount(c *gin.Context) {
	orders, err := h.service.ListByAccount(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": c.Param("account_id"), "orders": orders})
}
