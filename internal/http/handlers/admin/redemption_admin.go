package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
)

// RedemptionOptionRequest 创建/更新兑换商品请求
type RedemptionOptionRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	PointsRequired int    `json:"points_required" binding:"required"`
	Stock          *int   `json:"stock"`
	IsActive       *bool  `json:"is_active"`
	PartnerID      *uint  `json:"partner_id"`
	Category       string `json:"category"`
	Image          string `json:"image"`
	SortOrder      int    `json:"sort_order"`
}

func (r *RedemptionOptionRequest) toServiceInput() service.RedemptionOptionInput {
	stock := -1
	if r.Stock != nil {
		stock = *r.Stock
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.RedemptionOptionInput{
		Name:           r.Name,
		Description:    r.Description,
		PointsRequired: r.PointsRequired,
		Stock:          stock,
		IsActive:       active,
		PartnerID:      r.PartnerID,
		Category:       r.Category,
		Image:          r.Image,
		SortOrder:      r.SortOrder,
	}
}

func respondOptionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOptionNotFound):
		respondError(c, response.CodeNotFound, "error.option_not_found", nil)
	case errors.Is(err, service.ErrInvalidPoints):
		respondError(c, response.CodeBadRequest, "error.invalid_points", nil)
	case errors.Is(err, service.ErrPartnerNotFound):
		respondError(c, response.CodeBadRequest, "error.partner_not_found", nil)
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(c, response.CodeBadRequest, "error.insufficient_stock", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// GetAdminRedemptionOptions 获取兑换商品列表 (Admin)
func (h *Handler) GetAdminRedemptionOptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.RedemptionOptionListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
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

// GetAdminRedemptionOption 获取兑换商品详情 (Admin)
func (h *Handler) GetAdminRedemptionOption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	option, err := h.RedemptionService.GetOption(id)
	if err != nil {
		respondOptionError(c, err)
		return
	}
	response.Success(c, option)
}

// CreateRedemptionOption 创建兑换商品
func (h *Handler) CreateRedemptionOption(c *gin.Context) {
	var req RedemptionOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	option, err := h.RedemptionService.CreateOption(req.toServiceInput())
	if err != nil {
		respondOptionError(c, err)
		return
	}
	response.Success(c, option)
}

// UpdateRedemptionOption 更新兑换商品
func (h *Handler) UpdateRedemptionOption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RedemptionOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	option, err := h.RedemptionService.UpdateOption(id, req.toServiceInput())
	if err != nil {
		respondOptionError(c, err)
		return
	}
	response.Success(c, option)
}

// DeleteRedemptionOption 删除兑换商品（软删除）
func (h *Handler) DeleteRedemptionOption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.RedemptionService.DeleteOption(id); err != nil {
		respondOptionError(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdateStockRequest 库存调整请求
type UpdateStockRequest struct {
	Change int `json:"change" binding:"required"`
}

// UpdateRedemptionOptionStock 调整兑换商品库存（正减负加）
func (h *Handler) UpdateRedemptionOptionStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	option, err := h.RedemptionService.UpdateStock(id, req.Change)
	if err != nil {
		respondOptionError(c, err)
		return
	}

	requestLog(c).Infow("admin_stock_adjusted",
		"option_id", id,
		"change", req.Change,
		"stock", option.Stock,
	)
	response.Success(c, option)
}

// GetAdminRedemptions 获取兑换记录列表 (Admin)
func (h *Handler) GetAdminRedemptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PointRedemptionListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil {
		filter.UserID = uint(userID)
	}
	if optionID, err := strconv.ParseUint(c.Query("option_id"), 10, 64); err == nil {
		filter.OptionID = uint(optionID)
	}

	redemptions, total, err := h.RedemptionService.ListRedemptions(filter)
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

// GetAdminRedemption 根据 ID 或兑换码获取兑换记录 (Admin)
func (h *Handler) GetAdminRedemption(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("id"))
	if raw == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var (
		redemption *models.PointRedemption
		err        error
	)
	if id, parseErr := strconv.ParseUint(raw, 10, 64); parseErr == nil && id > 0 {
		redemption, err = h.RedemptionService.GetRedemption(uint(id))
	} else {
		redemption, err = h.RedemptionService.GetRedemptionByCode(raw)
	}
	if err != nil {
		respondRedemptionAdminError(c, err)
		return
	}
	response.Success(c, redemption)
}

// RedemptionNotesRequest 核销/关闭备注
type RedemptionNotesRequest struct {
	Notes string `json:"notes"`
}

// FulfillRedemption 核销兑换
func (h *Handler) FulfillRedemption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RedemptionNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Notes = ""
	}

	redemption, err := h.RedemptionService.FulfillRedemption(id, req.Notes)
	if err != nil {
		respondRedemptionAdminError(c, err)
		return
	}

	requestLog(c).Infow("admin_redemption_fulfilled",
		"redemption_id", id,
		"code", redemption.RedemptionCode,
	)
	response.Success(c, redemption)
}

// CancelRedemption 关闭兑换并退还积分
func (h *Handler) CancelRedemption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RedemptionNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Notes = ""
	}

	redemption, err := h.RedemptionService.CancelRedemption(id, req.Notes)
	if err != nil {
		respondRedemptionAdminError(c, err)
		return
	}

	requestLog(c).Infow("admin_redemption_canceled",
		"redemption_id", id,
		"code", redemption.RedemptionCode,
	)
	response.Success(c, redemption)
}

func respondRedemptionAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRedemptionNotFound):
		respondError(c, response.CodeNotFound, "error.redemption_not_found", nil)
	case errors.Is(err, service.ErrRedemptionStatusInvalid):
		respondError(c, response.CodeBadRequest, "error.redemption_status_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
