package repository

import (
	"errors"

	"github.com/greencycle/internal/models"

	"gorm.io/gorm"
)

// PointTransactionRepository 积分流水数据访问接口
type PointTransactionRepository interface {
	Create(txn *models.PointTransaction) error
	GetByID(id uint) (*models.PointTransaction, error)
	Update(txn *models.PointTransaction) error
	List(filter PointTransactionListFilter) ([]models.PointTransaction, int64, error)
	SumBalanceByUserID(userID uint) (int, error)
	SumPointsByType(userID uint, txnType models.TransactionType) (int, error)
	ListUserIDsWithTransactions() ([]uint, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormPointTransactionRepository
}

// GormPointTransactionRepository GORM 积分流水仓储实现
type GormPointTransactionRepository struct {
	db *gorm.DB
}

// NewPointTransactionRepository 创建积分流水仓储
func NewPointTransactionRepository(db *gorm.DB) *GormPointTransactionRepository {
	return &GormPointTransactionRepository{db: db}
}

// Transaction 在事务中执行
func (r *GormPointTransactionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormPointTransactionRepository) WithTx(tx *gorm.DB) *GormPointTransactionRepository {
	if tx == nil {
		return r
	}
	return &GormPointTransactionRepository{db: tx}
}

// Create 创建积分流水
func (r *GormPointTransactionRepository) Create(txn *models.PointTransaction) error {
	return r.db.Create(txn).Error
}

// GetByID 按 ID 获取积分流水
func (r *GormPointTransactionRepository) GetByID(id uint) (*models.PointTransaction, error) {
	if id == 0 {
		return nil, nil
	}
	var txn models.PointTransaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// Update 更新积分流水
func (r *GormPointTransactionRepository) Update(txn *models.PointTransaction) error {
	return r.db.Save(txn).Error
}

// List 分页查询积分流水
func (r *GormPointTransactionRepository) List(filter PointTransactionListFilter) ([]models.PointTransaction, int64, error) {
	query := r.db.Model(&models.PointTransaction{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
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

	var txns []models.PointTransaction
	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// SumBalanceByUserID 按流水重算用户积分余额（earn 为正、spend 为负，仅计已完成）
func (r *GormPointTransactionRepository) SumBalanceByUserID(userID uint) (int, error) {
	if userID == 0 {
		return 0, nil
	}
	var balance int64
	err := r.db.Model(&models.PointTransaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN points ELSE -points END), 0)", models.TransactionTypeEarn).
		Where("user_id = ? AND status = ?", userID, models.TransactionStatusCompleted).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return int(balance), nil
}

// SumPointsByType 统计用户某类型的已完成积分总量
func (r *GormPointTransactionRepository) SumPointsByType(userID uint, txnType models.TransactionType) (int, error) {
	if userID == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.Model(&models.PointTransaction{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ? AND type = ? AND status = ?", userID, txnType, models.TransactionStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// ListUserIDsWithTransactions 获取存在积分流水的用户ID列表（用于对账）
func (r *GormPointTransactionRepository) ListUserIDsWithTransactions() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.PointTransaction{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
