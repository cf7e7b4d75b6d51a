package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/greencycle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointRedemptionRepository 兑换记录数据访问接口
type PointRedemptionRepository interface {
	Create(redemption *models.PointRedemption) error
	GetByID(id uint) (*models.PointRedemption, error)
	GetByIDForUpdate(id uint) (*models.PointRedemption, error)
	GetByCode(code string) (*models.PointRedemption, error)
	Update(redemption *models.PointRedemption) error
	List(filter PointRedemptionListFilter) ([]models.PointRedemption, int64, error)
	ListPendingBefore(cutoff time.Time, limit int) ([]models.PointRedemption, error)
	CountByOptionID(optionID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormPointRedemptionRepository
}

// GormPointRedemptionRepository GORM 兑换记录仓储实现
type GormPointRedemptionRepository struct {
	db *gorm.DB
}

// NewPointRedemptionRepository 创建兑换记录仓储
func NewPointRedemptionRepository(db *gorm.DB) *GormPointRedemptionRepository {
	return &GormPointRedemptionRepository{db: db}
}

// Transaction 在事务中执行
func (r *GormPointRedemptionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormPointRedemptionRepository) WithTx(tx *gorm.DB) *GormPointRedemptionRepository {
	if tx == nil {
		return r
	}
	return &GormPointRedemptionRepository{db: tx}
}

// Create 创建兑换记录
func (r *GormPointRedemptionRepository) Create(redemption *models.PointRedemption) error {
	return r.db.Create(redemption).Error
}

// GetByID 按 ID 获取兑换记录
func (r *GormPointRedemptionRepository) GetByID(id uint) (*models.PointRedemption, error) {
	if id == 0 {
		return nil, nil
	}
	var redemption models.PointRedemption
	if err := r.db.Preload("Option").First(&redemption, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &redemption, nil
}

// GetByIDForUpdate 按 ID 加锁获取兑换记录
func (r *GormPointRedemptionRepository) GetByIDForUpdate(id uint) (*models.PointRedemption, error) {
	if id == 0 {
		return nil, nil
	}
	var redemption models.PointRedemption
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&redemption, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &redemption, nil
}

// GetByCode 按兑换码获取兑换记录
func (r *GormPointRedemptionRepository) GetByCode(code string) (*models.PointRedemption, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var redemption models.PointRedemption
	if err := r.db.Preload("Option").Where("redemption_code = ?", code).First(&redemption).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &redemption, nil
}

// Update 更新兑换记录
func (r *GormPointRedemptionRepository) Update(redemption *models.PointRedemption) error {
	return r.db.Save(redemption).Error
}

// List 分页查询兑换记录
func (r *GormPointRedemptionRepository) List(filter PointRedemptionListFilter) ([]models.PointRedemption, int64, error) {
	query := r.db.Model(&models.PointRedemption{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OptionID != 0 {
		query = query.Where("option_id = ?", filter.OptionID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var redemptions []models.PointRedemption
	if err := query.Preload("Option").Order("id desc").Find(&redemptions).Error; err != nil {
		return nil, 0, err
	}
	return redemptions, total, nil
}

// ListPendingBefore 获取指定时间前创建、仍待处理的兑换记录（超时清理用）
func (r *GormPointRedemptionRepository) ListPendingBefore(cutoff time.Time, limit int) ([]models.PointRedemption, error) {
	if limit <= 0 {
		limit = 100
	}
	var redemptions []models.PointRedemption
	if err := r.db.Where("status = ? AND created_at < ?", models.RedemptionStatusPending, cutoff).
		Order("id").
		Limit(limit).
		Find(&redemptions).Error; err != nil {
		return nil, err
	}
	return redemptions, nil
}

// CountByOptionID 统计某兑换商品的兑换次数
func (r *GormPointRedemptionRepository) CountByOptionID(optionID uint) (int64, error) {
	if optionID == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&models.PointRedemption{}).
		Where("option_id = ?", optionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
