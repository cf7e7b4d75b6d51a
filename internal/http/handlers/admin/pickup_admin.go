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

func respondPickupAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPickupNotFound):
		respondError(c, response.CodeNotFound, "error.pickup_not_found", nil)
	case errors.Is(err, service.ErrPickupStatusInvalid):
		respondError(c, response.CodeBadRequest, "error.pickup_status_invalid", nil)
	case errors.Is(err, service.ErrInvalidWeight):
		respondError(c, response.CodeBadRequest, "error.invalid_weight", nil)
	case errors.Is(err, service.ErrCompanyNotFound):
		respondError(c, response.CodeBadRequest, "error.company_not_found", nil)
	case errors.Is(err, service.ErrCompanyInactive):
		respondError(c, response.CodeBadRequest, "error.company_inactive", nil)
	case errors.Is(err, service.ErrVehicleNotFound):
		respondError(c, response.CodeBadRequest, "error.vehicle_not_found", nil)
	case errors.Is(err, service.ErrVehicleInactive):
		respondError(c, response.CodeBadRequest, "error.vehicle_inactive", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// GetAdminPickups 获取回收预约列表 (Admin)
func (h *Handler) GetAdminPickups(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PickupRequestListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil {
		filter.UserID = uint(userID)
	}
	if companyID, err := strconv.ParseUint(c.Query("company_id"), 10, 64); err == nil {
		filter.CompanyID = uint(companyID)
	}
	if vehicleID, err := strconv.ParseUint(c.Query("vehicle_id"), 10, 64); err == nil {
		filter.VehicleID = uint(vehicleID)
	}
	if from, err := time.Parse(time.RFC3339, c.Query("scheduled_from")); err == nil {
		filter.ScheduledFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("scheduled_to")); err == nil {
		filter.ScheduledTo = &to
	}

	pickups, total, err := h.PickupService.ListPickups(filter)
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

// GetAdminPickup 获取回收预约详情 (Admin)
func (h *Handler) GetAdminPickup(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	pickup, err := h.PickupService.GetPickup(id)
	if err != nil {
		respondPickupAdminError(c, err)
		return
	}
	response.Success(c, pickup)
}

// AssignPickupRequest 派单请求
type AssignPickupRequest struct {
	CompanyID uint `json:"company_id" binding:"required"`
	VehicleID uint `json:"vehicle_id" binding:"required"`
}

// AssignPickup 派单：确认预约并指派回收公司与车辆
func (h *Handler) AssignPickup(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AssignPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	pickup, err := h.PickupService.AssignPickup(service.AssignPickupInput{
		PickupID:  id,
		CompanyID: req.CompanyID,
		VehicleID: req.VehicleID,
	})
	if err != nil {
		respondPickupAdminError(c, err)
		return
	}

	requestLog(c).Infow("admin_pickup_assigned",
		"pickup_id", id,
		"company_id", req.CompanyID,
		"vehicle_id", req.VehicleID,
	)
	response.Success(c, pickup)
}

// CollectPickup 标记已上门收取
func (h *Handler) CollectPickup(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	pickup, err := h.PickupService.MarkCollected(id)
	if err != nil {
		respondPickupAdminError(c, err)
		return
	}
	response.Success(c, pickup)
}

// CompletePickupRequest 完成回收请求
type CompletePickupRequest struct {
	WeightActual string `json:"weight_actual" binding:"required"`
}

// CompletePickup 完成回收：录入实际称重并发放积分
func (h *Handler) CompletePickup(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CompletePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	weight, err := models.NewWeightFromString(req.WeightActual)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_weight", nil)
		return
	}

	pickup, err := h.PickupService.CompletePickup(id, weight)
	if err != nil {
		respondPickupAdminError(c, err)
		return
	}

	requestLog(c).Infow("admin_pickup_completed",
		"pickup_id", id,
		"weight_actual", weight.String(),
		"points_earned", pickup.PointsEarned,
	)
	response.Success(c, pickup)
}
