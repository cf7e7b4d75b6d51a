package repository

import (
	"errors"
	"strings"

	"github.com/greencycle/internal/models"

	"gorm.io/gorm"
)

// VehicleRepository 回收车辆数据访问接口
type VehicleRepository interface {
	Create(vehicle *models.Vehicle) error
	GetByID(id uint) (*models.Vehicle, error)
	GetByLicensePlate(plate string) (*models.Vehicle, error)
	Update(vehicle *models.Vehicle) error
	Delete(id uint) error
	List(filter VehicleListFilter) ([]models.Vehicle, int64, error)
}

// GormVehicleRepository GORM 回收车辆仓储实现
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository 创建回收车辆仓储
func NewVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// Create 创建回收车辆
func (r *GormVehicleRepository) Create(vehicle *models.Vehicle) error {
	return r.db.Create(vehicle).Error
}

// GetByID 按 ID 获取回收车辆
func (r *GormVehicleRepository) GetByID(id uint) (*models.Vehicle, error) {
	if id == 0 {
		return nil, nil
	}
	var vehicle models.Vehicle
	if err := r.db.Preload("Company").First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetByLicensePlate 按车牌号获取回收车辆
func (r *GormVehicleRepository) GetByLicensePlate(plate string) (*models.Vehicle, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, nil
	}
	var vehicle models.Vehicle
	if err := r.db.Where("license_plate = ?", plate).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

// Update 更新回收车辆
func (r *GormVehicleRepository) Update(vehicle *models.Vehicle) error {
	return r.db.Save(vehicle).Error
}

// Delete 软删除回收车辆
func (r *GormVehicleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Vehicle{}, id).Error
}

// List 分页查询回收车辆
func (r *GormVehicleRepository) List(filter VehicleListFilter) ([]models.Vehicle, int64, error) {
	query := r.db.Model(&models.Vehicle{})
	if filter.CompanyID != 0 {
		query = query.Where("company_id = ?", filter.CompanyID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var vehicles []models.Vehicle
	if err := query.Preload("Company").Order("id desc").Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}
