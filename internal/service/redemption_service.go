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
	"github.com/greencycle/internal/queue"
	"github.com/greencycle/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	optionCacheTTL        = 5 * time.Minute
	defaultExpireHours    = 72
	expireSweepBatchLimit = 200
)

// RedemptionService 积分兑换服务
type RedemptionService struct {
	optionRepo     repository.RedemptionOptionRepository
	redemptionRepo repository.PointRedemptionRepository
	partnerRepo    repository.PartnerRepository
	pointsSvc      *PointsService
	queueClient    *queue.Client
	codePrefix     string
	expireHours    int
}

// RedemptionOptionInput 兑换商品创建/更新输入
type RedemptionOptionInput struct {
	Name           string
	Description    string
	PointsRequired int
	Stock          int
	IsActive       bool
	PartnerID      *uint
	Category       string
	Image          string
	SortOrder      int
}

// NewRedemptionService 创建积分兑换服务
func NewRedemptionService(
	optionRepo repository.RedemptionOptionRepository,
	redemptionRepo repository.PointRedemptionRepository,
	partnerRepo repository.PartnerRepository,
	pointsSvc *PointsService,
	queueClient *queue.Client,
	codePrefix string,
	expireHours int,
) *RedemptionService {
	codePrefix = strings.TrimSpace(codePrefix)
	if codePrefix == "" {
		codePrefix = constants.RedemptionCodePrefixDefault
	}
	if expireHours <= 0 {
		expireHours = defaultExpireHours
	}
	return &RedemptionService{
		optionRepo:     optionRepo,
		redemptionRepo: redemptionRepo,
		partnerRepo:    partnerRepo,
		pointsSvc:      pointsSvc,
		queueClient:    queueClient,
		codePrefix:     codePrefix,
		expireHours:    expireHours,
	}
}

// Redeem 积分兑换：锁定商品与用户、校验余额、条件扣库存、落兑换记录与扣分流水。
// 任一步失败整体回滚。
func (s *RedemptionService) Redeem(userID, optionID uint) (*models.PointRedemption, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	if optionID == 0 {
		return nil, ErrOptionNotFound
	}

	var result *models.PointRedemption
	if err := s.redemptionRepo.Transaction(func(tx *gorm.DB) error {
		optionRepo := s.optionRepo.WithTx(tx)
		option, err := optionRepo.GetByIDForUpdate(optionID)
		if err != nil {
			return err
		}
		if option == nil {
			return ErrOptionNotFound
		}
		if !option.IsActive {
			return ErrOptionInactive
		}

		// 条件扣减保证库存不为负：受影响行数为 0 即售罄
		if !option.Unlimited() {
			affected, err := optionRepo.DecrementStock(option.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrOptionOutOfStock
			}
		}

		redemption := &models.PointRedemption{
			UserID:         userID,
			OptionID:       option.ID,
			PointsSpent:    option.PointsRequired,
			Status:         models.RedemptionStatusPending,
			RedemptionCode: s.generateRedemptionCode(),
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if err := s.redemptionRepo.WithTx(tx).Create(redemption); err != nil {
			return err
		}

		txn, err := s.pointsSvc.CreateTransactionTx(tx, CreateTransactionInput{
			UserID:       userID,
			Points:       option.PointsRequired,
			Type:         models.TransactionTypeSpend,
			Source:       models.TransactionSourceRedemption,
			Status:       models.TransactionStatusCompleted,
			RedemptionID: &redemption.ID,
			Description:  fmt.Sprintf("兑换 %s", option.Name),
		})
		if err != nil {
			return err
		}

		redemption.TransactionID = &txn.ID
		redemption.UpdatedAt = time.Now()
		if err := s.redemptionRepo.WithTx(tx).Update(redemption); err != nil {
			return err
		}
		result = redemption
		return nil
	}); err != nil {
		return nil, err
	}

	s.invalidateOptionCache()
	s.pointsSvc.invalidateUserCache()
	logger.Infow("redemption_created",
		"redemption_id", result.ID,
		"user_id", result.UserID,
		"option_id", result.OptionID,
		"points_spent", result.PointsSpent,
		"redemption_code", result.RedemptionCode,
	)
	s.notifyStatus(result)
	s.scheduleExpire(result)
	return result, nil
}

// UpdateStock 调整库存：正数消耗，负数回补；不限量商品直接跳过
func (s *RedemptionService) UpdateStock(optionID uint, change int) (*models.RedemptionOption, error) {
	option, err := s.optionRepo.GetByID(optionID)
	if err != nil {
		return nil, err
	}
	if option == nil {
		return nil, ErrOptionNotFound
	}
	if change == 0 || option.Unlimited() {
		return option, nil
	}

	affected, err := s.optionRepo.AdjustStock(optionID, -change)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInsufficientStock
	}

	s.invalidateOptionCache()

	updated, err := s.optionRepo.GetByID(optionID)
	if err != nil {
		return nil, err
	}
	logger.Infow("redemption_option_stock_updated", "option_id", optionID, "change", change, "stock", updated.Stock)
	return updated, nil
}

// FulfillRedemption 核销兑换：pending → completed，记录核销时间
func (s *RedemptionService) FulfillRedemption(id uint, notes string) (*models.PointRedemption, error) {
	var result *models.PointRedemption
	if err := s.redemptionRepo.Transaction(func(tx *gorm.DB) error {
		redemptionRepo := s.redemptionRepo.WithTx(tx)
		redemption, err := redemptionRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if redemption == nil {
			return ErrRedemptionNotFound
		}
		if redemption.Status == models.RedemptionStatusCompleted {
			result = redemption
			return nil
		}
		if redemption.Status != models.RedemptionStatusPending {
			return ErrRedemptionStatusInvalid
		}

		now := time.Now()
		redemption.Status = models.RedemptionStatusCompleted
		redemption.FulfilledAt = &now
		if notes = strings.TrimSpace(notes); notes != "" {
			redemption.Notes = notes
		}
		redemption.UpdatedAt = now
		if err := redemptionRepo.Update(redemption); err != nil {
			return err
		}
		result = redemption
		return nil
	}); err != nil {
		return nil, err
	}
	logger.Infow("redemption_fulfilled", "redemption_id", result.ID, "user_id", result.UserID)
	s.notifyStatus(result)
	return result, nil
}

// CancelRedemption 取消兑换：冲正扣分流水并回补一件库存
func (s *RedemptionService) CancelRedemption(id uint, notes string) (*models.PointRedemption, error) {
	result, err := s.closeRedemption(id, models.RedemptionStatusCancelled, notes)
	if err != nil {
		return nil, err
	}
	logger.Infow("redemption_cancelled", "redemption_id", result.ID, "user_id", result.UserID)
	s.notifyStatus(result)
	return result, nil
}

// ExpireRedemption 到期失效单笔兑换：仅处理仍 pending 且已超过有效期的记录，幂等
func (s *RedemptionService) ExpireRedemption(id uint, now time.Time) (*models.PointRedemption, error) {
	redemption, err := s.redemptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if redemption == nil {
		return nil, ErrRedemptionNotFound
	}
	if redemption.Status != models.RedemptionStatusPending {
		return redemption, nil
	}
	if redemption.CreatedAt.Add(time.Duration(s.expireHours) * time.Hour).After(now) {
		return redemption, nil
	}
	result, err := s.closeRedemption(id, models.RedemptionStatusExpired, "超时未核销自动失效")
	if err != nil {
		return nil, err
	}
	if result.Status == models.RedemptionStatusExpired {
		logger.Infow("redemption_expired", "redemption_id", result.ID, "user_id", result.UserID)
		s.notifyStatus(result)
	}
	return result, nil
}

// ExpireDueRedemptions 清理超时未核销的兑换，退还积分并回补库存
func (s *RedemptionService) ExpireDueRedemptions(now time.Time) (int, error) {
	cutoff := now.Add(-time.Duration(s.expireHours) * time.Hour)
	rows, err := s.redemptionRepo.ListPendingBefore(cutoff, expireSweepBatchLimit)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, row := range rows {
		if _, err := s.closeRedemption(row.ID, models.RedemptionStatusExpired, "超时未核销自动失效"); err != nil {
			logger.Errorw("redemption_expire_failed", "redemption_id", row.ID, "error", err)
			continue
		}
		expired++
	}
	if expired > 0 {
		logger.Infow("redemptions_expired", "count", expired)
	}
	return expired, nil
}

// closeRedemption 以取消语义关闭兑换（cancelled/expired 共用退款回补逻辑），幂等
func (s *RedemptionService) closeRedemption(id uint, status models.RedemptionStatus, notes string) (*models.PointRedemption, error) {
	var result *models.PointRedemption
	if err := s.redemptionRepo.Transaction(func(tx *gorm.DB) error {
		redemptionRepo := s.redemptionRepo.WithTx(tx)
		redemption, err := redemptionRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if redemption == nil {
			return ErrRedemptionNotFound
		}
		if redemption.Status == status {
			result = redemption
			return nil
		}
		if redemption.Status != models.RedemptionStatusPending {
			return ErrRedemptionStatusInvalid
		}

		if redemption.TransactionID != nil {
			if _, err := s.pointsSvc.CancelTransactionTx(tx, *redemption.TransactionID); err != nil {
				return err
			}
		}
		if _, err := s.optionRepo.WithTx(tx).IncrementStock(redemption.OptionID); err != nil {
			return err
		}

		redemption.Status = status
		if notes = strings.TrimSpace(notes); notes != "" {
			redemption.Notes = notes
		}
		redemption.UpdatedAt = time.Now()
		if err := redemptionRepo.Update(redemption); err != nil {
			return err
		}
		result = redemption
		return nil
	}); err != nil {
		return nil, err
	}
	s.invalidateOptionCache()
	s.pointsSvc.invalidateUserCache()
	return result, nil
}

func (s *RedemptionService) notifyStatus(redemption *models.PointRedemption) {
	if redemption == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueRedemptionStatusEmail(queue.RedemptionStatusEmailPayload{
		RedemptionID: redemption.ID,
		Status:       string(redemption.Status),
	}); err != nil {
		logger.Warnw("redemption_status_email_enqueue_failed", "redemption_id", redemption.ID, "error", err)
	}
}

func (s *RedemptionService) scheduleExpire(redemption *models.PointRedemption) {
	if redemption == nil || !s.queueClient.Enabled() {
		return
	}
	delay := time.Duration(s.expireHours) * time.Hour
	if err := s.queueClient.EnqueueRedemptionExpire(queue.RedemptionExpirePayload{
		RedemptionID: redemption.ID,
	}, delay); err != nil {
		logger.Warnw("redemption_expire_enqueue_failed", "redemption_id", redemption.ID, "error", err)
	}
}

// GetRedemption 获取兑换记录
func (s *RedemptionService) GetRedemption(id uint) (*models.PointRedemption, error) {
	redemption, err := s.redemptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if redemption == nil {
		return nil, ErrRedemptionNotFound
	}
	return redemption, nil
}

// GetRedemptionByCode 按兑换码获取兑换记录
func (s *RedemptionService) GetRedemptionByCode(code string) (*models.PointRedemption, error) {
	redemption, err := s.redemptionRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if redemption == nil {
		return nil, ErrRedemptionNotFound
	}
	return redemption, nil
}

// ListRedemptions 分页查询兑换记录
func (s *RedemptionService) ListRedemptions(filter repository.PointRedemptionListFilter) ([]models.PointRedemption, int64, error) {
	return s.redemptionRepo.List(filter)
}

// ListOptions 分页查询兑换商品目录
func (s *RedemptionService) ListOptions(ctx context.Context, filter repository.RedemptionOptionListFilter) ([]models.RedemptionOption, int64, error) {
	type cachedList struct {
		Options []models.RedemptionOption `json:"options"`
		Total   int64                     `json:"total"`
	}

	cacheKey := cache.NamespacedKey(ctx, constants.CacheNamespaceRedemptionOptions, fmt.Sprintf(
		"list:%v:%s:%d:%d:%d:%v:%s",
		filter.IsActive, filter.Category, filter.PartnerID, filter.MaxPoints, filter.Page, filter.InStock, filter.Search,
	))
	var cached cachedList
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached.Options, cached.Total, nil
	}

	options, total, err := s.optionRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	_ = cache.SetJSON(ctx, cacheKey, cachedList{Options: options, Total: total}, optionCacheTTL)
	return options, total, nil
}

// GetOption 获取兑换商品
func (s *RedemptionService) GetOption(id uint) (*models.RedemptionOption, error) {
	option, err := s.optionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if option == nil {
		return nil, ErrOptionNotFound
	}
	return option, nil
}

// CreateOption 创建兑换商品
func (s *RedemptionService) CreateOption(input RedemptionOptionInput) (*models.RedemptionOption, error) {
	if err := s.validateOptionInput(&input); err != nil {
		return nil, err
	}
	option := &models.RedemptionOption{
		Name:           input.Name,
		Description:    input.Description,
		PointsRequired: input.PointsRequired,
		Stock:          input.Stock,
		IsActive:       input.IsActive,
		PartnerID:      input.PartnerID,
		Category:       input.Category,
		Image:          input.Image,
		SortOrder:      input.SortOrder,
	}
	if err := s.optionRepo.Create(option); err != nil {
		return nil, err
	}
	s.invalidateOptionCache()
	logger.Infow("redemption_option_created", "option_id", option.ID, "name", option.Name)
	return option, nil
}

// UpdateOption 更新兑换商品
func (s *RedemptionService) UpdateOption(id uint, input RedemptionOptionInput) (*models.RedemptionOption, error) {
	option, err := s.optionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if option == nil {
		return nil, ErrOptionNotFound
	}
	if err := s.validateOptionInput(&input); err != nil {
		return nil, err
	}
	option.Name = input.Name
	option.Description = input.Description
	option.PointsRequired = input.PointsRequired
	option.Stock = input.Stock
	option.IsActive = input.IsActive
	option.PartnerID = input.PartnerID
	option.Category = input.Category
	option.Image = input.Image
	option.SortOrder = input.SortOrder
	if err := s.optionRepo.Update(option); err != nil {
		return nil, err
	}
	s.invalidateOptionCache()
	return option, nil
}

// DeleteOption 下架并软删除兑换商品
func (s *RedemptionService) DeleteOption(id uint) error {
	option, err := s.optionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if option == nil {
		return ErrOptionNotFound
	}
	if err := s.optionRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateOptionCache()
	logger.Infow("redemption_option_deleted", "option_id", id)
	return nil
}

func (s *RedemptionService) validateOptionInput(input *RedemptionOptionInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" || input.PointsRequired <= 0 {
		return ErrInvalidPoints
	}
	if input.Stock < constants.RedemptionStockUnlimited {
		return ErrInsufficientStock
	}
	if input.PartnerID != nil {
		partner, err := s.partnerRepo.GetByID(*input.PartnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return ErrPartnerNotFound
		}
	}
	return nil
}

// generateRedemptionCode 生成兑换码：前缀-日期-8位随机段
func (s *RedemptionService) generateRedemptionCode() string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%s-%s", s.codePrefix, time.Now().Format("20060102"), random)
}

func (s *RedemptionService) invalidateOptionCache() {
	_ = cache.BumpNamespace(context.Background(), constants.CacheNamespaceRedemptionOptions)
}
