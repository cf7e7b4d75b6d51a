package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
)

// SchedulePickupRequest 预约上门回收请求
type SchedulePickupRequest struct {
	Address        string    `json:"address" binding:"required"`
	ScheduledAt    time.Time `json:"scheduled_at" binding:"required"`
	WeightEstimate string    `json:"weight_estimate" binding:"required"`
	Notes          string    `json:"notes"`
}

func (r *SchedulePickupRequest) toServiceInput(userID uint) (service.SchedulePickupInput, error) {
	weight, err := models.NewWeightFromString(r.WeightEstimate)
	if err != nil {
		return service.SchedulePickupInput{}, service.ErrInvalidWeight
	}
	return service.SchedulePickupInput{
		UserID:         userID,
		Address:        strings.TrimSpace(r.Address),
		ScheduledAt:    r.ScheduledAt,
		WeightEstimate: weight,
		Notes:          strings.TrimSpace(r.Notes),
	}, nil
}

// SchedulePickup 创建回收预约
func (h *Handler) SchedulePickup(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req SchedulePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, err := req.toServiceInput(uid)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_weight", nil)
		return
	}

	pickup, err := h.PickupService.SchedulePickup(input)
	if err != nil {
		respondPickupError(c, err)
		return
	}
	response.Success(c, pickup)
}

// UpdateMyPickup 修改待确认的回收预约
func (h *Handler) UpdateMyPickup(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	pickupID, ok := parsePickupIDParam(c)
	if !ok {
		return
	}

	var req SchedulePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, err := req.toServiceInput(uid)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_weight", nil)
		return
	}

	pickup, err := h.PickupService.UpdatePickup(uid, pickupID, input)
	if err != nil {
		respondPickupError(c, err)
		return
	}
	response.Success(c, pickup)
}

// CancelMyPickup 取消回收预约
func (h *Handler) CancelMyPickup(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	pickupID, ok := parsePickupIDParam(c)
	if !ok {
		return
	}

	pickup, err := h.PickupService.CancelPickup(uid, pickupID)
	if err != nil {
		respondPickupError(c, err)
		return
	}
	response.Success(c, pickup)
}

// GetMyPickup 获取回收预约详情
func (h *Handler) GetMyPickup(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	pickupID, ok := parsePickupIDParam(c)
	if !ok {
		return
	}

	pickup, err := h.PickupService.GetUserPickup(uid, pickupID)
	if err != nil {
		respondPickupError(c, err)
		return
	}
	response.Success(c, pickup)
}

// ListMyPickups 获取当前用户回收预约列表
func (h *Handler) ListMyPickups(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	pickups, total, err := h.PickupService.ListPickups(repository.PickupRequestListFilter{
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
	response.SuccessWithPage(c, pickups, pagination)
}

func parsePickupIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
