package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
)

func respondTransactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTransactionNotFound):
		respondError(c, response.CodeNotFound, "error.transaction_not_found", nil)
	case errors.Is(err, service.ErrTransactionStatusInvalid):
		respondError(c, response.CodeBadRequest, "error.transaction_status_invalid", nil)
	case errors.Is(err, service.ErrInvalidPoints):
		respondError(c, response.CodeBadRequest, "error.invalid_points", nil)
	case errors.Is(err, service.ErrInsufficientPoints):
		respondError(c, response.CodeBadRequest, "error.insufficient_points", nil)
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// GetAdminPointTransactions 获取积分流水列表 (Admin)
func (h *Handler) GetAdminPointTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PointTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     strings.TrimSpace(c.Query("type")),
		Source:   strings.TrimSpace(c.Query("source")),
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil {
		filter.UserID = uint(userID)
	}
	if from, err := time.Parse(time.RFC3339, c.Query("created_from")); err == nil {
		filter.CreatedFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("created_to")); err == nil {
		filter.CreatedTo = &to
	}

	transactions, total, err := h.PointsService.ListTransactions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, transactions, pagination)
}

// GetAdminPointTransaction 获取积分流水详情 (Admin)
func (h *Handler) GetAdminPointTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	transaction, err := h.PointsService.GetTransaction(id)
	if err != nil {
		respondTransactionError(c, err)
		return
	}
	response.Success(c, transaction)
}

// CreatePointTransactionRequest 人工积分调整请求
type CreatePointTransactionRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Points      int    `json:"points" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// CreatePointTransaction 人工调整积分（earn/spend）
func (h *Handler) CreatePointTransaction(c *gin.Context) {
	var req CreatePointTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	transaction, err := h.PointsService.CreateTransaction(service.CreateTransactionInput{
		UserID:      req.UserID,
		Points:      req.Points,
		Type:        models.TransactionType(strings.ToLower(strings.TrimSpace(req.Type))),
		Source:      models.TransactionSourceManual,
		Status:      models.TransactionStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		Description: req.Description,
	})
	if err != nil {
		respondTransactionError(c, err)
		return
	}

	requestLog(c).Infow("admin_points_adjusted",
		"user_id", req.UserID,
		"points", req.Points,
		"type", req.Type,
	)
	response.Success(c, transaction)
}

// ConfirmPointTransaction 确认待处理积分流水
func (h *Handler) ConfirmPointTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	transaction, err := h.PointsService.ConfirmTransaction(id)
	if err != nil {
		respondTransactionError(c, err)
		return
	}
	response.Success(c, transaction)
}

// CancelPointTransaction 取消积分流水并回滚余额
func (h *Handler) CancelPointTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	transaction, err := h.PointsService.CancelTransaction(id)
	if err != nil {
		respondTransactionError(c, err)
		return
	}
	response.Success(c, transaction)
}

// ReconcileUserPoints 对账修复单个用户积分余额
func (h *Handler) ReconcileUserPoints(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fixed, err := h.PointsService.ReconcileUserBalance(id)
	if err != nil {
		respondTransactionError(c, err)
		return
	}

	if fixed {
		requestLog(c).Warnw("admin_points_reconciled",
			"user_id", id,
		)
	}
	response.Success(c, gin.H{"fixed": fixed})
}
