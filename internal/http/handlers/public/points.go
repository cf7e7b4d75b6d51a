package public

import (
	"strconv"
	"strings"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetMyPointsSummary 获取当前用户积分汇总
func (h *Handler) GetMyPointsSummary(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.PointsService.GetSummary(c.Request.Context(), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, summary)
}

// ListMyPointTransactions 获取当前用户积分流水
func (h *Handler) ListMyPointTransactions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	transactions, total, err := h.PointsService.ListTransactions(repository.PointTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Type:     strings.TrimSpace(c.Query("type")),
		Source:   strings.TrimSpace(c.Query("source")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
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
