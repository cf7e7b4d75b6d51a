package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/repository"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
)

// PartnerRequest 创建/更新合作伙伴请求
type PartnerRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contact_email"`
	Website      string `json:"website"`
	IsActive     *bool  `json:"is_active"`
}

func (r *PartnerRequest) toServiceInput() service.PartnerInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.PartnerInput{
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		Website:      r.Website,
		IsActive:     active,
	}
}

func respondPartnerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPartnerNotFound):
		respondError(c, response.CodeNotFound, "error.partner_not_found", nil)
	case errors.Is(err, service.ErrPartnerHasOptions):
		respondError(c, response.CodeBadRequest, "error.partner_has_options", nil)
	case errors.Is(err, service.ErrInvalidEmail):
		respondError(c, response.CodeBadRequest, "error.invalid_email", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// GetAdminPartners 获取合作伙伴列表 (Admin)
func (h *Handler) GetAdminPartners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	partners, total, err := h.PartnerService.ListPartners(repository.PartnerListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		ActiveOnly: c.Query("active_only") == "true",
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
	response.SuccessWithPage(c, partners, pagination)
}

// GetAdminPartner 获取合作伙伴详情 (Admin)
func (h *Handler) GetAdminPartner(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	partner, err := h.PartnerService.GetPartner(id)
	if err != nil {
		respondPartnerError(c, err)
		return
	}
	response.Success(c, partner)
}

// CreatePartner 创建合作伙伴
func (h *Handler) CreatePartner(c *gin.Context) {
	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	partner, err := h.PartnerService.CreatePartner(req.toServiceInput())
	if err != nil {
		respondPartnerError(c, err)
		return
	}
	response.Success(c, partner)
}

// UpdatePartner 更新合作伙伴
func (h *Handler) UpdatePartner(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	partner, err := h.PartnerService.UpdatePartner(id, req.toServiceInput())
	if err != nil {
		respondPartnerError(c, err)
		return
	}
	response.Success(c, partner)
}

// DeletePartner 删除合作伙伴（存在在架兑换商品时拒绝）
func (h *Handler) DeletePartner(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.PartnerService.DeletePartner(id); err != nil {
		respondPartnerError(c, err)
		return
	}
	response.Success(c, nil)
}
