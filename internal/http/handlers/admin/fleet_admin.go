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

func respondFleetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCompanyNotFound):
		respondError(c, response.CodeNotFound, "error.company_not_found", nil)
	case errors.Is(err, service.ErrVehicleNotFound):
		respondError(c, response.CodeNotFound, "error.vehicle_not_found", nil)
	case errors.Is(err, service.ErrCompanyInactive):
		respondError(c, response.CodeBadRequest, "error.company_inactive", nil)
	case errors.Is(err, service.ErrLicensePlateUsed):
		respondError(c, response.CodeBadRequest, "error.license_plate_used", nil)
	case errors.Is(err, service.ErrInvalidWeight):
		respondError(c, response.CodeBadRequest, "error.invalid_weight", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// CompanyRequest 创建/更新回收公司请求
type CompanyRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactPhone string `json:"contact_phone"`
	ServiceArea  string `json:"service_area"`
	IsActive     *bool  `json:"is_active"`
}

func (r *CompanyRequest) toServiceInput() service.CompanyInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.CompanyInput{
		Name:         r.Name,
		ContactPhone: r.ContactPhone,
		ServiceArea:  r.ServiceArea,
		IsActive:     active,
	}
}

// GetAdminCompanies 获取回收公司列表 (Admin)
func (h *Handler) GetAdminCompanies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	companies, total, err := h.FleetService.ListCompanies(repository.CompanyListFilter{
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
	response.SuccessWithPage(c, companies, pagination)
}

// GetAdminCompany 获取回收公司详情 (Admin)
func (h *Handler) GetAdminCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	company, err := h.FleetService.GetCompany(id)
	if err != nil {
		respondFleetError(c, err)
		return
	}
	response.Success(c, company)
}

// CreateCompany 创建回收公司
func (h *Handler) CreateCompany(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	company, err := h.FleetService.CreateCompany(req.toServiceInput())
	if err != nil {
		respondFleetError(c, err)
		return
	}
	response.Success(c, company)
}

// UpdateCompany 更新回收公司
func (h *Handler) UpdateCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	company, err := h.FleetService.UpdateCompany(id, req.toServiceInput())
	if err != nil {
		respondFleetError(c, err)
		return
	}
	response.Success(c, company)
}

// DeleteCompany 删除回收公司（软删除）
func (h *Handler) DeleteCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.FleetService.DeleteCompany(id); err != nil {
		respondFleetError(c, err)
		return
	}
	response.Success(c, nil)
}

// VehicleRequest 创建/更新回收车辆请求
type VehicleRequest struct {
	CompanyID    uint   `json:"company_id" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
	CapacityKg   string `json:"capacity_kg"`
	IsActive     *bool  `json:"is_active"`
}

func (r *VehicleRequest) toServiceInput() (service.VehicleInput, error) {
	capacity := models.Weight{}
	if strings.TrimSpace(r.CapacityKg) != "" {
		parsed, err := models.NewWeightFromString(r.CapacityKg)
		if err != nil {
			return service.VehicleInput{}, service.ErrInvalidWeight
		}
		capacity = parsed
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.VehicleInput{
		CompanyID:    r.CompanyID,
		LicensePlate: r.LicensePlate,
		CapacityKg:   capacity,
		IsActive:     active,
	}, nil
}

// GetAdminVehicles 获取回收车辆列表 (Admin)
func (h *Handler) GetAdminVehicles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.VehicleListFilter{
		Page:       page,
		PageSize:   pageSize,
		ActiveOnly: c.Query("active_only") == "true",
	}
	if companyID, err := strconv.ParseUint(c.Query("company_id"), 10, 64); err == nil {
		filter.CompanyID = uint(companyID)
	}

	vehicles, total, err := h.FleetService.ListVehicles(filter)
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
	response.SuccessWithPage(c, vehicles, pagination)
}

// GetAdminVehicle 获取回收车辆详情 (Admin)
func (h *Handler) GetAdminVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	vehicle, err := h.FleetService.GetVehicle(id)
	if err != nil {
		respondFleetError(c, err)
		return
	}
	response.Success(c, vehicle)
}

// CreateVehicle 创建回收车辆
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, err := req.toServiceInput()
	if err != nil {
		respondFleetError(c, err)
		return
	}

	vehicle, err := h.FleetService.CreateVehicle(input)
	if err != nil {
		respondFleetError(c, err)
		return
	}
	response.Success(c, vehicle)
}

// UpdateVehicle 更新回收车辆
func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, err := req.toServiceInput()
	if err != nil {
		respondFleetError(c, err)
		return
	}

	vehicle, err := h.FleetService.UpdateVehicle(id, input)
	if err != nil {
		respondFleetError(c, err)
		return
	}
	response.Success(c, vehicle)
}

// DeleteVehicle 删除回收车辆（软删除）
func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.FleetService.DeleteVehicle(id); err != nil {
		respondFleetError(c, err)
		return
	}
	response.Success(c, nil)
}
