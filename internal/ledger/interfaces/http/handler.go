// Package http 账本上下文的 HTTP 接口
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/markettracker/internal/ledger/application"
	"github.com/wyfcoding/markettracker/internal/ledger/domain"
)

// Handler 账本 HTTP 处理器
type Handler struct {
	service *application.LedgerService
}

// NewHandler 构造函数
func NewHandler(service *application.LedgerService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	accounts := router.Group("/accounts")
	{
		accounts.POST("", h.OpenAccount)
		accounts.GET("/:account_id", h.GetAccount)
		accounts.POST("/:account_id/deposit", h.Deposit)
		accounts.POST("/:account_id/withdraw", h.Withdraw)
		accounts.GET("/:account_id/holdings", h.ListHoldings)
		accounts.GET("/:account_id/holdings/:symbol", h.GetHolding)
	}
}

// OpenAccountRequest 开户请求
type OpenAccountRequest struct {
	Currency       string `json:"currency" binding:"required"`
	InitialBalance string `json:"initial_balance"`
}

// AmountRequest 出入金请求
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// OpenAccount 开户
func (h *Handler) OpenAccount(c *gin.Context) {
	var req OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance := decimal.Zero
	if req.InitialBalance != "" {
		var err error
		balance, err = decimal.NewFromString(req.InitialBalance)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid initial_balance"})
			return
		}
	}

	account, err := h.service.OpenAccount(c.Request.Context(), req.Currency, balance)
	if err != nil {
		if errors.Is(err, application.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, account)
}

// GetAccount 查询账户
func (h *Handler) GetAccount(c *gin.Context) {
	account, err := h.service.GetAccount(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}

// Deposit 入金
func (h *Handler) Deposit(c *gin.Context) {
	h.applyAmount(c, h.service.Deposit)
}

// Withdraw 出金
func (h *Handler) Withdraw(c *gin.Context) {
	h.applyAmount(c, h.service.Withdraw)
}

func (h *Handler) applyAmount(c *gin.Context, fn func(ctx context.Context, accountID string, amount decimal.Decimal) error) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	err = fn(c.Request.Context(), c.Param("account_id"), amount)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, application.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListHoldings 查询账户全部持仓
func (h *Handler) ListHoldings(c *gin.Context) {
	holdings, err := h.service.ListHoldings(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": c.Param("account_id"), "holdings": holdings})
}

// GetHolding 查询单个持仓
func (h *Handler) GetHolding(c *gin.Context) {
	holding, err := h.service.GetHolding(c.Request.Context(), c.Param("account_id"), c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if holding == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "holding not found"})
		return
	}
	c.JSON(http.StatusOK, holding)
}
