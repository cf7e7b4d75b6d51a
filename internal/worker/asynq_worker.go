package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/provider"
	"github.com/greencycle/internal/queue"
	"github.com/greencycle/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPickupStatusEmail, c.handlePickupStatusEmail)
	mux.HandleFunc(queue.TaskRedemptionStatusEmail, c.handleRedemptionStatusEmail)
	mux.HandleFunc(queue.TaskRedemptionExpire, c.handleRedemptionExpire)
	mux.HandleFunc(queue.TaskPointsReconcile, c.handlePointsReconcile)
}

func (c *Consumer) handlePickupStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_pickup_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PickupStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_pickup_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.PickupID == 0 {
		logger.Debugw("worker_pickup_status_email_skip_invalid_payload", "pickup_id", payload.PickupID)
		return nil
	}
	pickup, err := c.PickupRequestRepo.GetByID(payload.PickupID)
	if err != nil {
		logger.Warnw("worker_pickup_status_email_fetch_pickup_failed", "pickup_id", payload.PickupID, "error", err)
		return err
	}
	if pickup == nil {
		logger.Debugw("worker_pickup_status_email_skip_pickup_not_found", "pickup_id", payload.PickupID)
		return nil
	}
	user, err := c.UserRepo.GetByID(pickup.UserID)
	if err != nil {
		logger.Warnw("worker_pickup_status_email_fetch_user_failed", "pickup_id", pickup.ID, "user_id", pickup.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_pickup_status_email_skip_empty_receiver", "pickup_id", pickup.ID, "user_id", pickup.UserID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_pickup_status_email_skip_email_service_nil", "pickup_id", pickup.ID)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = pickup.Status
	}
	var weightActual models.Weight
	if pickup.WeightActual != nil {
		weightActual = *pickup.WeightActual
	}
	input := service.PickupStatusEmailInput{
		PickupID:     pickup.ID,
		Status:       status,
		ScheduledAt:  pickup.ScheduledAt.Format("2006-01-02 15:04"),
		Address:      pickup.Address,
		WeightActual: weightActual,
		PointsEarned: pickup.PointsEarned,
	}
	if err := c.EmailService.SendPickupStatusEmail(strings.TrimSpace(user.Email), input, strings.TrimSpace(user.Locale)); err != nil {
		logger.Warnw("worker_pickup_status_email_send_failed",
			"pickup_id", pickup.ID,
			"user_id", pickup.UserID,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleRedemptionStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_redemption_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.RedemptionStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_redemption_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.RedemptionID == 0 {
		logger.Debugw("worker_redemption_status_email_skip_invalid_payload", "redemption_id", payload.RedemptionID)
		return nil
	}
	redemption, err := c.PointRedemptionRepo.GetByID(payload.RedemptionID)
	if err != nil {
		logger.Warnw("worker_redemption_status_email_fetch_failed", "redemption_id", payload.RedemptionID, "error", err)
		return err
	}
	if redemption == nil {
		logger.Debugw("worker_redemption_status_email_skip_not_found", "redemption_id", payload.RedemptionID)
		return nil
	}
	user, err := c.UserRepo.GetByID(redemption.UserID)
	if err != nil {
		logger.Warnw("worker_redemption_status_email_fetch_user_failed", "redemption_id", redemption.ID, "user_id", redemption.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_redemption_status_email_skip_empty_receiver", "redemption_id", redemption.ID, "user_id", redemption.UserID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_redemption_status_email_skip_email_service_nil", "redemption_id", redemption.ID)
		return nil
	}
	optionName := ""
	if redemption.Option != nil {
		optionName = redemption.Option.Name
	}
	if optionName == "" {
		option, err := c.RedemptionOptionRepo.GetByID(redemption.OptionID)
		if err != nil {
			logger.Warnw("worker_redemption_status_email_fetch_option_failed", "redemption_id", redemption.ID, "option_id", redemption.OptionID, "error", err)
			return err
		}
		if option != nil {
			optionName = option.Name
		}
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = string(redemption.Status)
	}
	input := service.RedemptionStatusEmailInput{
		Code:       redemption.RedemptionCode,
		OptionName: optionName,
		Status:     status,
		PointsCost: redemption.PointsSpent,
	}
	if err := c.EmailService.SendRedemptionStatusEmail(strings.TrimSpace(user.Email), input, strings.TrimSpace(user.Locale)); err != nil {
		logger.Warnw("worker_redemption_status_email_send_failed",
			"redemption_id", redemption.ID,
			"user_id", redemption.UserID,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleRedemptionExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_redemption_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.RedemptionExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_redemption_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.RedemptionID == 0 {
		logger.Debugw("worker_redemption_expire_skip_invalid_payload", "redemption_id", payload.RedemptionID)
		return nil
	}
	if c.RedemptionService == nil {
		logger.Warnw("worker_redemption_expire_skip_service_nil", "redemption_id", payload.RedemptionID)
		return nil
	}
	_, err := c.RedemptionService.ExpireRedemption(payload.RedemptionID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRedemptionNotFound):
			logger.Debugw("worker_redemption_expire_skip_not_found", "redemption_id", payload.RedemptionID)
			return nil
		case errors.Is(err, service.ErrRedemptionStatusInvalid):
			logger.Debugw("worker_redemption_expire_skip_invalid_status", "redemption_id", payload.RedemptionID)
			return nil
		default:
			logger.Warnw("worker_redemption_expire_failed", "redemption_id", payload.RedemptionID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handlePointsReconcile(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_points_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PointsReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_points_reconcile_unmarshal_failed", "error", err)
		return err
	}
	if c.PointsService == nil {
		logger.Warnw("worker_points_reconcile_skip_service_nil", "user_id", payload.UserID)
		return nil
	}
	if payload.UserID == 0 {
		fixed, err := c.PointsService.ReconcileAll()
		if err != nil {
			logger.Warnw("worker_points_reconcile_all_failed", "error", err)
			return err
		}
		if fixed > 0 {
			logger.Infow("worker_points_reconcile_all_fixed", "count", fixed)
		}
		return nil
	}
	fixed, err := c.PointsService.ReconcileUserBalance(payload.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			logger.Debugw("worker_points_reconcile_skip_user_not_found", "user_id", payload.UserID)
			return nil
		default:
			logger.Warnw("worker_points_reconcile_failed", "user_id", payload.UserID, "error", err)
			return err
		}
	}
	if fixed {
		logger.Infow("worker_points_reconcile_fixed", "user_id", payload.UserID)
	}
	return nil
}
