package queue

import (
	"encoding/json"

	"github.com/greencycle/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPickupStatusEmail 回收预约状态邮件通知任务
	TaskPickupStatusEmail = constants.TaskPickupStatusEmail
	// TaskRedemptionStatusEmail 兑换状态邮件通知任务
	TaskRedemptionStatusEmail = constants.TaskRedemptionStatusEmail
	// TaskRedemptionExpire 兑换超时失效任务
	TaskRedemptionExpire = constants.TaskRedemptionExpire
	// TaskPointsReconcile 积分余额对账任务
	TaskPointsReconcile = constants.TaskPointsReconcile
)

// PickupStatusEmailPayload 回收预约状态邮件任务载荷
type PickupStatusEmailPayload struct {
	PickupID uint   `json:"pickup_id"`
	Status   string `json:"status"`
}

// RedemptionStatusEmailPayload 兑换状态邮件任务载荷
type RedemptionStatusEmailPayload struct {
	RedemptionID uint   `json:"redemption_id"`
	Status       string `json:"status"`
}

// RedemptionExpirePayload 兑换超时失效任务载荷
type RedemptionExpirePayload struct {
	RedemptionID uint `json:"redemption_id"`
}

// PointsReconcilePayload 积分对账任务载荷
type PointsReconcilePayload struct {
	UserID uint `json:"user_id"`
}

// NewPickupStatusEmailTask 创建回收预约状态邮件任务
func NewPickupStatusEmailTask(payload PickupStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPickupStatusEmail, body), nil
}

// NewRedemptionStatusEmailTask 创建兑换状态邮件任务
func NewRedemptionStatusEmailTask(payload RedemptionStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRedemptionStatusEmail, body), nil
}

// NewRedemptionExpireTask 创建兑换超时失效任务
func NewRedemptionExpireTask(payload RedemptionExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRedemptionExpire, body), nil
}

// NewPointsReconcileTask 创建积分对账任务
func NewPointsReconcileTask(payload PointsReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPointsReconcile, body), nil
}
