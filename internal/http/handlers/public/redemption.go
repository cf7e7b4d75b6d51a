package public

import (
	"strconv"
	"strings"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/repository"

	"github.com/gin-gonic/gin"
)

// RedeemRequest 积分兑换请求
type RedeemRequest struct {
	OptionID uint `json:"option_id" binding:"required"`
}

// RedeemOption 使用积分兑换商品
func (h *Handler) RedeemOption(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	redemption, err := h.RedemptionService.Redeem(uid, req.OptionID)
	if err != nil {
		respondRedemptionRedeemError(c, err)
		return
	}
	response.Success(c, redemption)
}

// ListMyRedemptions 获取当前用户兑换记录
func (h *Handler) ListMyRedemptions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	redemptions, total, err := h.RedemptionService.ListRedemptions(repository.PointRedemptionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
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
	response.SuccessWithPage(c, redemptions, pagination)
}

// GetMyRedemption 获取兑换记录详情
func (h *Handler) GetMyRedemption(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	redemption, err := h.RedemptionService.GetRedemption(uint(id))
	if err != nil {
		respondRedemptionLookupError(c, err)
		return
	}
	// 他人记录视同不存在
	if redemption.UserID != uid {
		respondError(c, response.CodeNotFound, "error.redemption_not_found", nil)
		return
	}
	response.Success(c, redemption)
}

// CancelMyRedemption 取消未核销的兑换并退还积分
func (h *Handler) CancelMyRedemption(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	redemption, err := h.RedemptionService.GetRedemption(uint(id))
	if err != nil {
		respondRedemptionLookupError(c, err)
		return
	}
	if redemption.UserID != uid {
		respondError(c, response.CodeNotFound, "error.redemption_not_found", nil)
		return
	}

	canceled, err := h.RedemptionService.CancelRedemption(uint(id), "canceled by user")
	if err != nil {
		respondRedemptionCancelError(c, err)
		return
	}
	response.Success(c, canceled)
}
