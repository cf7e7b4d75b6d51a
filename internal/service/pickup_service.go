package service

import (
	"strings"
	"time"

	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/queue"
	"github.com/greencycle/internal/repository"

	"gorm.io/gorm"
)

// PickupService 回收预约服务
type PickupService struct {
	pickupRepo  repository.PickupRequestRepository
	companyRepo repository.CompanyRepository
	vehicleRepo repository.VehicleRepository
	pointsSvc   *PointsService
	queueClient *queue.Client
	pointsPerKg int
}

// SchedulePickupInput 用户预约回收输入
type SchedulePickupInput struct {
	UserID         uint
	Address        string
	ScheduledAt    time.Time
	WeightEstimate models.Weight
	Notes          string
}

// AssignPickupInput 管理员派单输入
type AssignPickupInput struct {
	PickupID  uint
	CompanyID uint
	VehicleID uint
}

// NewPickupService 创建回收预约服务
func NewPickupService(
	pickupRepo repository.PickupRequestRepository,
	companyRepo repository.CompanyRepository,
	vehicleRepo repository.VehicleRepository,
	pointsSvc *PointsService,
	queueClient *queue.Client,
	pointsPerKg int,
) *PickupService {
	if pointsPerKg <= 0 {
		pointsPerKg = constants.DefaultPointsPerKg
	}
	return &PickupService{
		pickupRepo:  pickupRepo,
		companyRepo: companyRepo,
		vehicleRepo: vehicleRepo,
		pointsSvc:   pointsSvc,
		queueClient: queueClient,
		pointsPerKg: pointsPerKg,
	}
}

// SchedulePickup 创建回收预约，按预估重量预估积分
func (s *PickupService) SchedulePickup(input SchedulePickupInput) (*models.PickupRequest, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	input.Address = strings.TrimSpace(input.Address)
	if input.Address == "" || input.ScheduledAt.IsZero() {
		return nil, ErrPickupStatusInvalid
	}
	if input.WeightEstimate.Decimal.IsNegative() {
		return nil, ErrInvalidWeight
	}

	pickup := &models.PickupRequest{
		UserID:         input.UserID,
		Address:        input.Address,
		ScheduledAt:    input.ScheduledAt,
		WeightEstimate: input.WeightEstimate,
		PointsEstimate: CalculatePoints(input.WeightEstimate, s.pointsPerKg),
		Status:         constants.PickupStatusPending,
		Notes:          strings.TrimSpace(input.Notes),
	}
	if err := s.pickupRepo.Create(pickup); err != nil {
		return nil, err
	}
	s.notifyStatus(pickup)
	logger.Infow("pickup_scheduled",
		"pickup_id", pickup.ID,
		"user_id", pickup.UserID,
		"scheduled_at", pickup.ScheduledAt,
		"points_estimate", pickup.PointsEstimate,
	)
	return pickup, nil
}

// UpdatePickup 修改待确认的预约（地址、时间、预估重量）
func (s *PickupService) UpdatePickup(userID, pickupID uint, input SchedulePickupInput) (*models.PickupRequest, error) {
	pickup, err := s.getOwnedPickup(userID, pickupID)
	if err != nil {
		return nil, err
	}
	if pickup.Status != constants.PickupStatusPending {
		return nil, ErrPickupStatusInvalid
	}
	if input.WeightEstimate.Decimal.IsNegative() {
		return nil, ErrInvalidWeight
	}
	if address := strings.TrimSpace(input.Address); address != "" {
		pickup.Address = address
	}
	if !input.ScheduledAt.IsZero() {
		pickup.ScheduledAt = input.ScheduledAt
	}
	if !input.WeightEstimate.Decimal.IsZero() {
		pickup.WeightEstimate = input.WeightEstimate
		pickup.PointsEstimate = CalculatePoints(input.WeightEstimate, s.pointsPerKg)
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		pickup.Notes = notes
	}
	if err := s.pickupRepo.Update(pickup); err != nil {
		return nil, err
	}
	return pickup, nil
}

// CancelPickup 取消预约（完成/已取消不可再取消）
func (s *PickupService) CancelPickup(userID, pickupID uint) (*models.PickupRequest, error) {
	pickup, err := s.getOwnedPickup(userID, pickupID)
	if err != nil {
		return nil, err
	}
	switch pickup.Status {
	case constants.PickupStatusCompleted, constants.PickupStatusCanceled:
		return nil, ErrPickupStatusInvalid
	}
	pickup.Status = constants.PickupStatusCanceled
	if err := s.pickupRepo.Update(pickup); err != nil {
		return nil, err
	}
	s.notifyStatus(pickup)
	logger.Infow("pickup_cancelled", "pickup_id", pickup.ID, "user_id", pickup.UserID)
	return pickup, nil
}

// GetPickup 获取预约
func (s *PickupService) GetPickup(id uint) (*models.PickupRequest, error) {
	pickup, err := s.pickupRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pickup == nil {
		return nil, ErrPickupNotFound
	}
	return pickup, nil
}

// GetUserPickup 获取属于指定用户的预约
func (s *PickupService) GetUserPickup(userID, pickupID uint) (*models.PickupRequest, error) {
	return s.getOwnedPickup(userID, pickupID)
}

// ListPickups 分页查询预约
func (s *PickupService) ListPickups(filter repository.PickupRequestListFilter) ([]models.PickupRequest, int64, error) {
	return s.pickupRepo.List(filter)
}

// AssignPickup 管理员指派回收公司与车辆，预约进入已确认
func (s *PickupService) AssignPickup(input AssignPickupInput) (*models.PickupRequest, error) {
	pickup, err := s.GetPickup(input.PickupID)
	if err != nil {
		return nil, err
	}
	switch pickup.Status {
	case constants.PickupStatusPending, constants.PickupStatusConfirmed:
	default:
		return nil, ErrPickupStatusInvalid
	}

	company, err := s.companyRepo.GetByID(input.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}
	if !company.IsActive {
		return nil, ErrCompanyInactive
	}

	if input.VehicleID != 0 {
		vehicle, err := s.vehicleRepo.GetByID(input.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil {
			return nil, ErrVehicleNotFound
		}
		if !vehicle.IsActive {
			return nil, ErrVehicleInactive
		}
		pickup.VehicleID = &vehicle.ID
	}

	pickup.CompanyID = &company.ID
	pickup.Status = constants.PickupStatusConfirmed
	if err := s.pickupRepo.Update(pickup); err != nil {
		return nil, err
	}
	s.notifyStatus(pickup)
	logger.Infow("pickup_assigned",
		"pickup_id", pickup.ID,
		"company_id", company.ID,
		"vehicle_id", input.VehicleID,
	)
	return pickup, nil
}

// MarkCollected 标记已上门收运
func (s *PickupService) MarkCollected(pickupID uint) (*models.PickupRequest, error) {
	pickup, err := s.GetPickup(pickupID)
	if err != nil {
		return nil, err
	}
	switch pickup.Status {
	case constants.PickupStatusPending, constants.PickupStatusConfirmed:
	default:
		return nil, ErrPickupStatusInvalid
	}
	pickup.Status = constants.PickupStatusCollected
	if err := s.pickupRepo.Update(pickup); err != nil {
		return nil, err
	}
	s.notifyStatus(pickup)
	return pickup, nil
}

// CompletePickup 完成回收：按实际重量计算积分并在同一事务内入账
func (s *PickupService) CompletePickup(pickupID uint, weightActual models.Weight) (*models.PickupRequest, error) {
	if weightActual.Decimal.IsNegative() {
		return nil, ErrInvalidWeight
	}

	var result *models.PickupRequest
	if err := s.pickupRepo.Transaction(func(tx *gorm.DB) error {
		pickupRepo := s.pickupRepo.WithTx(tx)
		pickup, err := pickupRepo.GetByIDForUpdate(pickupID)
		if err != nil {
			return err
		}
		if pickup == nil {
			return ErrPickupNotFound
		}
		switch pickup.Status {
		case constants.PickupStatusCompleted, constants.PickupStatusCanceled:
			return ErrPickupStatusInvalid
		}

		now := time.Now()
		points := CalculatePoints(weightActual, s.pointsPerKg)
		pickup.WeightActual = &weightActual
		pickup.PointsEarned = points
		pickup.Status = constants.PickupStatusCompleted
		pickup.CompletedAt = &now
		if err := pickupRepo.Update(pickup); err != nil {
			return err
		}

		if points > 0 {
			if _, err := s.pointsSvc.CreateTransactionTx(tx, CreateTransactionInput{
				UserID:      pickup.UserID,
				Points:      points,
				Type:        models.TransactionTypeEarn,
				Source:      models.TransactionSourcePickup,
				Status:      models.TransactionStatusCompleted,
				Description: "回收完成积分",
			}); err != nil {
				return err
			}
		}
		result = pickup
		return nil
	}); err != nil {
		return nil, err
	}

	s.notifyStatus(result)
	s.pointsSvc.invalidateUserCache()
	logger.Infow("pickup_completed",
		"pickup_id", result.ID,
		"user_id", result.UserID,
		"weight_actual", weightActual.String(),
		"points_earned", result.PointsEarned,
	)
	return result, nil
}

func (s *PickupService) getOwnedPickup(userID, pickupID uint) (*models.PickupRequest, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	pickup, err := s.pickupRepo.GetByID(pickupID)
	if err != nil {
		return nil, err
	}
	if pickup == nil || pickup.UserID != userID {
		return nil, ErrPickupNotFound
	}
	return pickup, nil
}

func (s *PickupService) notifyStatus(pickup *models.PickupRequest) {
	if pickup == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueuePickupStatusEmail(queue.PickupStatusEmailPayload{
		PickupID: pickup.ID,
		Status:   pickup.Status,
	}); err != nil {
		logger.Warnw("pickup_status_email_enqueue_failed", "pickup_id", pickup.ID, "error", err)
	}
}
