package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/repository"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
)

// ListRedemptionOptions 获取可兑换商品列表（仅上架）
func (h *Handler) ListRedemptionOptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	maxPoints, _ := strconv.Atoi(c.DefaultQuery("max_points", "0"))
	inStock := c.Query("in_stock") == "true"
	active := true

	filter := repository.RedemptionOptionListFilter{
		Page:      page,
		PageSize:  pageSize,
		IsActive:  &active,
		Category:  strings.TrimSpace(c.Query("category")),
		MaxPoints: maxPoints,
		InStock:   inStock,
		Search:    strings.TrimSpace(c.Query("search")),
	}
	if partnerID, err := strconv.ParseUint(c.Query("partner_id"), 10, 64); err == nil {
		filter.PartnerID = uint(partnerID)
	}

	options, total, err := h.RedemptionService.ListOptions(c.Request.Context(), filter)
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
	response.SuccessWithPage(c, options, pagination)
}

// GetRedemptionOption 获取兑换商品详情（仅上架）
func (h *Handler) GetRedemptionOption(c *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	option, err := h.RedemptionService.GetOption(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOptionNotFound) {
			respondError(c, response.CodeNotFound, "error.option_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	// 下架商品对外视同不存在
	if !option.IsActive {
		respondError(c, response.CodeNotFound, "error.option_not_found", nil)
		return
	}
	response.Success(c, option)
}
