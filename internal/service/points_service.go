package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greencycle/internal/cache"
	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"

	"gorm.io/gorm"
)

const summaryCacheTTL = 5 * time.Minute

// PointsService 积分台账服务
// 说明：users.points 冗余余额仅在本服务的事务单元内写入。
type PointsService struct {
	txnRepo  repository.PointTransactionRepository
	userRepo repository.UserRepository
}

// CreateTransactionInput 创建积分流水输入
type CreateTransactionInput struct {
	UserID       uint
	Points       int
	Type         models.TransactionType
	Source       models.TransactionSource
	Status       models.TransactionStatus
	RedemptionID *uint
	Description  string
}

// PointsSummary 用户积分汇总
type PointsSummary struct {
	Balance     int `json:"balance"`
	TotalEarned int `json:"total_earned"`
	TotalSpent  int `json:"total_spent"`
}

// NewPointsService 创建积分台账服务
func NewPointsService(
	txnRepo repository.PointTransactionRepository,
	userRepo repository.UserRepository,
) *PointsService {
	return &PointsService{
		txnRepo:  txnRepo,
		userRepo: userRepo,
	}
}

func normalizeTransactionInput(input *CreateTransactionInput) error {
	if input.UserID == 0 {
		return ErrUserNotFound
	}
	if input.Points <= 0 {
		return ErrInvalidPoints
	}
	if input.Status == "" {
		input.Status = models.TransactionStatusCompleted
	}
	if !input.Type.Valid() || !input.Source.Valid() || !input.Status.Valid() {
		return ErrInvalidPoints
	}
	input.Description = strings.TrimSpace(input.Description)
	return nil
}

// CreateTransaction 创建积分流水；completed 状态同事务内更新用户余额
func (s *PointsService) CreateTransaction(input CreateTransactionInput) (*models.PointTransaction, error) {
	if err := normalizeTransactionInput(&input); err != nil {
		return nil, err
	}
	var result *models.PointTransaction
	if err := s.txnRepo.Transaction(func(tx *gorm.DB) error {
		txn, err := s.CreateTransactionTx(tx, input)
		if err != nil {
			return err
		}
		result = txn
		return nil
	}); err != nil {
		return nil, err
	}
	logger.Infow("point_transaction_created",
		"transaction_id", result.ID,
		"user_id", result.UserID,
		"type", result.Type,
		"source", result.Source,
		"status", result.Status,
		"points", result.Points,
	)
	if result.Status == models.TransactionStatusCompleted {
		s.invalidateUserCache()
	}
	return result, nil
}

// CreateTransactionTx 在既有事务内创建积分流水（兑换、回收完成复用）
func (s *PointsService) CreateTransactionTx(tx *gorm.DB, input CreateTransactionInput) (*models.PointTransaction, error) {
	if err := normalizeTransactionInput(&input); err != nil {
		return nil, err
	}

	userRepo := s.userRepo.WithTx(tx)
	user, err := userRepo.GetByIDForUpdate(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	txn := &models.PointTransaction{
		UserID:       input.UserID,
		Points:       input.Points,
		Type:         input.Type,
		Source:       input.Source,
		Status:       input.Status,
		RedemptionID: input.RedemptionID,
		Description:  input.Description,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// pending 流水不动余额,确认时才入账
	if input.Status == models.TransactionStatusCompleted {
		after := user.Points + txn.BalanceDelta()
		if after < 0 {
			return nil, ErrInsufficientPoints
		}
		if err := userRepo.UpdatePoints(user.ID, after); err != nil {
			return nil, err
		}
	}

	if err := s.txnRepo.WithTx(tx).Create(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ConfirmTransaction 确认 pending 流水并入账
func (s *PointsService) ConfirmTransaction(id uint) (*models.PointTransaction, error) {
	var result *models.PointTransaction
	if err := s.txnRepo.Transaction(func(tx *gorm.DB) error {
		txnRepo := s.txnRepo.WithTx(tx)
		txn, err := lockTransaction(tx, id)
		if err != nil {
			return err
		}
		if txn.Status != models.TransactionStatusPending {
			return ErrTransactionStatusInvalid
		}

		userRepo := s.userRepo.WithTx(tx)
		user, err := userRepo.GetByIDForUpdate(txn.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		after := user.Points + txn.BalanceDelta()
		if after < 0 {
			return ErrInsufficientPoints
		}
		if err := userRepo.UpdatePoints(user.ID, after); err != nil {
			return err
		}

		txn.Status = models.TransactionStatusCompleted
		txn.UpdatedAt = time.Now()
		if err := txnRepo.Update(txn); err != nil {
			return err
		}
		result = txn
		return nil
	}); err != nil {
		return nil, err
	}
	logger.Infow("point_transaction_confirmed", "transaction_id", result.ID, "user_id", result.UserID)
	s.invalidateUserCache()
	return result, nil
}

// CancelTransaction 取消积分流水；completed 流水恰好冲正一次，重复取消幂等
func (s *PointsService) CancelTransaction(id uint) (*models.PointTransaction, error) {
	var result *models.PointTransaction
	if err := s.txnRepo.Transaction(func(tx *gorm.DB) error {
		txn, err := s.CancelTransactionTx(tx, id)
		if err != nil {
			return err
		}
		result = txn
		return nil
	}); err != nil {
		return nil, err
	}
	s.invalidateUserCache()
	return result, nil
}

// CancelTransactionTx 在既有事务内取消积分流水（兑换取消复用）
func (s *PointsService) CancelTransactionTx(tx *gorm.DB, id uint) (*models.PointTransaction, error) {
	txn, err := lockTransaction(tx, id)
	if err != nil {
		return nil, err
	}
	// 已取消直接返回，保证幂等
	if txn.Status == models.TransactionStatusCancelled {
		return txn, nil
	}

	if txn.Status == models.TransactionStatusCompleted {
		userRepo := s.userRepo.WithTx(tx)
		user, err := userRepo.GetByIDForUpdate(txn.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		// 冲正不设余额下限：余额始终等于流水之和，撤销已入账的
		// earn 流水时允许余额为负，与对账口径保持一致。
		after := user.Points - txn.BalanceDelta()
		if err := userRepo.UpdatePoints(user.ID, after); err != nil {
			return nil, err
		}
	}

	txn.Status = models.TransactionStatusCancelled
	txn.UpdatedAt = time.Now()
	if err := s.txnRepo.WithTx(tx).Update(txn); err != nil {
		return nil, err
	}
	logger.Infow("point_transaction_cancelled", "transaction_id", txn.ID, "user_id", txn.UserID)
	return txn, nil
}

// GetTransaction 获取积分流水
func (s *PointsService) GetTransaction(id uint) (*models.PointTransaction, error) {
	txn, err := s.txnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	return txn, nil
}

// ListTransactions 分页查询积分流水
func (s *PointsService) ListTransactions(filter repository.PointTransactionListFilter) ([]models.PointTransaction, int64, error) {
	return s.txnRepo.List(filter)
}

// GetSummary 获取用户积分汇总
func (s *PointsService) GetSummary(ctx context.Context, userID uint) (*PointsSummary, error) {
	cacheKey := cache.NamespacedKey(ctx, constants.CacheNamespaceUser, fmt.Sprintf("summary:%d", userID))
	var cached PointsSummary
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	earned, err := s.txnRepo.SumPointsByType(userID, models.TransactionTypeEarn)
	if err != nil {
		return nil, err
	}
	spent, err := s.txnRepo.SumPointsByType(userID, models.TransactionTypeSpend)
	if err != nil {
		return nil, err
	}
	summary := &PointsSummary{
		Balance:     user.Points,
		TotalEarned: earned,
		TotalSpent:  spent,
	}
	_ = cache.SetJSON(ctx, cacheKey, summary, summaryCacheTTL)
	return summary, nil
}

// ReconcileUserBalance 按流水重算单个用户余额，发现漂移时纠偏并告警
func (s *PointsService) ReconcileUserBalance(userID uint) (bool, error) {
	corrected := false
	if err := s.txnRepo.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		user, err := userRepo.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		expected, err := s.txnRepo.WithTx(tx).SumBalanceByUserID(userID)
		if err != nil {
			return err
		}
		if user.Points == expected {
			return nil
		}
		logger.Warnw("points_balance_drift_detected",
			"user_id", userID,
			"stored", user.Points,
			"expected", expected,
		)
		if err := userRepo.UpdatePoints(userID, expected); err != nil {
			return err
		}
		corrected = true
		return nil
	}); err != nil {
		return false, err
	}
	if corrected {
		s.invalidateUserCache()
	}
	return corrected, nil
}

// ReconcileAll 对所有有流水的用户执行余额对账
func (s *PointsService) ReconcileAll() (int, error) {
	ids, err := s.txnRepo.ListUserIDsWithTransactions()
	if err != nil {
		return 0, err
	}
	correctedCount := 0
	for _, id := range ids {
		corrected, err := s.ReconcileUserBalance(id)
		if err != nil {
			logger.Errorw("points_reconcile_user_failed", "user_id", id, "error", err)
			continue
		}
		if corrected {
			correctedCount++
		}
	}
	return correctedCount, nil
}

func (s *PointsService) invalidateUserCache() {
	_ = cache.BumpNamespace(context.Background(), constants.CacheNamespaceUser)
}

// lockTransaction 加锁加载积分流水
func lockTransaction(tx *gorm.DB, id uint) (*models.PointTransaction, error) {
	if id == 0 {
		return nil, ErrTransactionNotFound
	}
	var txn models.PointTransaction
	if err := tx.Clauses(lockForUpdate()).First(&txn, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}
