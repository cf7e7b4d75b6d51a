package repository

import (
	"errors"

	"github.com/greencycle/internal/models"

	"gorm.io/gorm"
)

// PartnerRepository 合作伙伴数据访问接口
type PartnerRepository interface {
	Create(partner *models.Partner) error
	GetByID(id uint) (*models.Partner, error)
	GetByName(name string) (*models.Partner, error)
	Update(partner *models.Partner) error
	Delete(id uint) error
	List(filter PartnerListFilter) ([]models.Partner, int64, error)
}

// GormPartnerRepository GORM 合作伙伴仓储实现
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository 创建合作伙伴仓储
func NewPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// Create 创建合作伙伴
func (r *GormPartnerRepository) Create(partner *models.Partner) error {
	return r.db.Create(partner).Error
}

// GetByID 按 ID 获取合作伙伴
func (r *GormPartnerRepository) GetByID(id uint) (*models.Partner, error) {
	if id == 0 {
		return nil, nil
	}
	var partner models.Partner
	if err := r.db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// GetByName 按名称获取合作伙伴
func (r *GormPartnerRepository) GetByName(name string) (*models.Partner, error) {
	if name == "" {
		return nil, nil
	}
	var partner models.Partner
	if err := r.db.Where("name = ?", name).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// Update 更新合作伙伴
func (r *GormPartnerRepository) Update(partner *models.Partner) error {
	return r.db.Save(partner).Error
}

// Delete 软删除合作伙伴
func (r *GormPartnerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Partner{}, id).Error
}

// List 分页查询合作伙伴
func (r *GormPartnerRepository) List(filter PartnerListFilter) ([]models.Partner, int64, error) {
	query := r.db.Model(&models.Partner{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR contact_email LIKE ?", like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var partners []models.Partner
	if err := query.Order("id desc").Find(&partners).Error; err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}
