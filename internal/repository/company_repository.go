package repository

import (
	"errors"

	"github.com/greencycle/internal/models"

	"gorm.io/gorm"
)

// CompanyRepository 回收公司数据访问接口
type CompanyRepository interface {
	Create(company *models.Company) error
	GetByID(id uint) (*models.Company, error)
	Update(company *models.Company) error
	Delete(id uint) error
	List(filter CompanyListFilter) ([]models.Company, int64, error)
}

// GormCompanyRepository GORM 回收公司仓储实现
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository 创建回收公司仓储
func NewCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Create 创建回收公司
func (r *GormCompanyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

// GetByID 按 ID 获取回收公司
func (r *GormCompanyRepository) GetByID(id uint) (*models.Company, error) {
	if id == 0 {
		return nil, nil
	}
	var company models.Company
	if err := r.db.First(&company, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// Update 更新回收公司
func (r *GormCompanyRepository) Update(company *models.Company) error {
	return r.db.Save(company).Error
}

// Delete 软删除回收公司
func (r *GormCompanyRepository) Delete(id uint) error {
	return r.db.Delete(&models.Company{}, id).Error
}

// List 分页查询回收公司
func (r *GormCompanyRepository) List(filter CompanyListFilter) ([]models.Company, int64, error) {
	query := r.db.Model(&models.Company{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR service_area LIKE ?", like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var companies []models.Company
	if err := query.Order("id desc").Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}
