package repository

import (
	"errors"

	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RedemptionOptionRepository 兑换商品数据访问接口
type RedemptionOptionRepository interface {
	Create(option *models.RedemptionOption) error
	GetByID(id uint) (*models.RedemptionOption, error)
	GetByIDForUpdate(id uint) (*models.RedemptionOption, error)
	ListByIDs(ids []uint) ([]models.RedemptionOption, error)
	Update(option *models.RedemptionOption) error
	Delete(id uint) error
	List(filter RedemptionOptionListFilter) ([]models.RedemptionOption, int64, error)
	DecrementStock(id uint) (int64, error)
	IncrementStock(id uint) (int64, error)
	AdjustStock(id uint, change int) (int64, error)
	WithTx(tx *gorm.DB) *GormRedemptionOptionRepository
}

// GormRedemptionOptionRepository GORM 兑换商品仓储实现
type GormRedemptionOptionRepository struct {
	db *gorm.DB
}

// NewRedemptionOptionRepository 创建兑换商品仓储
func NewRedemptionOptionRepository(db *gorm.DB) *GormRedemptionOptionRepository {
	return &GormRedemptionOptionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRedemptionOptionRepository) WithTx(tx *gorm.DB) *GormRedemptionOptionRepository {
	if tx == nil {
		return r
	}
	return &GormRedemptionOptionRepository{db: tx}
}

// Create 创建兑换商品
func (r *GormRedemptionOptionRepository) Create(option *models.RedemptionOption) error {
	return r.db.Create(option).Error
}

// GetByID 按 ID 获取兑换商品
func (r *GormRedemptionOptionRepository) GetByID(id uint) (*models.RedemptionOption, error) {
	if id == 0 {
		return nil, nil
	}
	var option models.RedemptionOption
	if err := r.db.Preload("Partner").First(&option, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

// GetByIDForUpdate 按 ID 加锁获取兑换商品
func (r *GormRedemptionOptionRepository) GetByIDForUpdate(id uint) (*models.RedemptionOption, error) {
	if id == 0 {
		return nil, nil
	}
	var option models.RedemptionOption
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&option, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

// ListByIDs 批量获取兑换商品
func (r *GormRedemptionOptionRepository) ListByIDs(ids []uint) ([]models.RedemptionOption, error) {
	if len(ids) == 0 {
		return []models.RedemptionOption{}, nil
	}
	var options []models.RedemptionOption
	if err := r.db.Where("id IN ?", ids).Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// Update 更新兑换商品
func (r *GormRedemptionOptionRepository) Update(option *models.RedemptionOption) error {
	return r.db.Save(option).Error
}

// Delete 软删除兑换商品
func (r *GormRedemptionOptionRepository) Delete(id uint) error {
	return r.db.Delete(&models.RedemptionOption{}, id).Error
}

// List 分页查询兑换商品
func (r *GormRedemptionOptionRepository) List(filter RedemptionOptionListFilter) ([]models.RedemptionOption, int64, error) {
	query := r.db.Model(&models.RedemptionOption{})
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.PartnerID != 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.MaxPoints > 0 {
		query = query.Where("points_required <= ?", filter.MaxPoints)
	}
	if filter.InStock {
		query = query.Where("stock = ? OR stock > 0", constants.RedemptionStockUnlimited)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var options []models.RedemptionOption
	if err := query.Preload("Partner").Order("id desc").Find(&options).Error; err != nil {
		return nil, 0, err
	}
	return options, total, nil
}

// DecrementStock 条件扣减一件库存，余量不足时不生效
func (r *GormRedemptionOptionRepository) DecrementStock(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid redemption option id")
	}
	result := r.db.Model(&models.RedemptionOption{}).
		Where("id = ? AND stock >= 1", id).
		Update("stock", gorm.Expr("stock - 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementStock 回补一件库存（取消兑换时使用），无限库存不生效
func (r *GormRedemptionOptionRepository) IncrementStock(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid redemption option id")
	}
	result := r.db.Model(&models.RedemptionOption{}).
		Where("id = ? AND stock >= 0", id).
		Update("stock", gorm.Expr("stock + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AdjustStock 按增减量调整库存，减少时余量不足不生效
func (r *GormRedemptionOptionRepository) AdjustStock(id uint, change int) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid redemption option id")
	}
	query := r.db.Model(&models.RedemptionOption{})
	if change < 0 {
		query = query.Where("id = ? AND stock >= ?", id, -change)
	} else {
		query = query.Where("id = ? AND stock >= 0", id)
	}
	result := query.Update("stock", gorm.Expr("stock + ?", change))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
