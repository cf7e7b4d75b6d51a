package repository

import (
	"errors"

	"github.com/greencycle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PickupRequestRepository 回收预约数据访问接口
type PickupRequestRepository interface {
	Create(request *models.PickupRequest) error
	GetByID(id uint) (*models.PickupRequest, error)
	GetByIDForUpdate(id uint) (*models.PickupRequest, error)
	Update(request *models.PickupRequest) error
	List(filter PickupRequestListFilter) ([]models.PickupRequest, int64, error)
	CountByStatus(status string) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormPickupRequestRepository
}

// GormPickupRequestRepository GORM 回收预约仓储实现
type GormPickupRequestRepository struct {
	db *gorm.DB
}

// NewPickupRequestRepository 创建回收预约仓储
func NewPickupRequestRepository(db *gorm.DB) *GormPickupRequestRepository {
	return &GormPickupRequestRepository{db: db}
}

// Transaction 在事务中执行
func (r *GormPickupRequestRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormPickupRequestRepository) WithTx(tx *gorm.DB) *GormPickupRequestRepository {
	if tx == nil {
		return r
	}
	return &GormPickupRequestRepository{db: tx}
}

// Create 创建回收预约
func (r *GormPickupRequestRepository) Create(request *models.PickupRequest) error {
	return r.db.Create(request).Error
}

// GetByID 按 ID 获取回收预约
func (r *GormPickupRequestRepository) GetByID(id uint) (*models.PickupRequest, error) {
	if id == 0 {
		return nil, nil
	}
	var request models.PickupRequest
	if err := r.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// GetByIDForUpdate 按 ID 加锁获取回收预约，用于完成计积分
func (r *GormPickupRequestRepository) GetByIDForUpdate(id uint) (*models.PickupRequest, error) {
	if id == 0 {
		return nil, nil
	}
	var request models.PickupRequest
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// Update 更新回收预约
func (r *GormPickupRequestRepository) Update(request *models.PickupRequest) error {
	return r.db.Save(request).Error
}

// List 分页查询回收预约
func (r *GormPickupRequestRepository) List(filter PickupRequestListFilter) ([]models.PickupRequest, int64, error) {
	query := r.db.Model(&models.PickupRequest{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CompanyID != 0 {
		query = query.Where("company_id = ?", filter.CompanyID)
	}
	if filter.VehicleID != 0 {
		query = query.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ScheduledFrom != nil {
		query = query.Where("scheduled_at >= ?", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		query = query.Where("scheduled_at <= ?", *filter.ScheduledTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var requests []models.PickupRequest
	if err := query.Order("id desc").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// CountByStatus 按状态统计回收预约数量
func (r *GormPickupRequestRepository) CountByStatus(status string) (int64, error) {
	var count int64
	query := r.db.Model(&models.PickupRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
