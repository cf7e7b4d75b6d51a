package models

import (
	"time"
)

// TransactionType 积分交易类型
type TransactionType string

// TransactionSource 积分交易来源
type TransactionSource string

// TransactionStatus 积分交易状态
type TransactionStatus string

// 积分交易类型常量
const (
	TransactionTypeEarn  TransactionType = "earn"
	TransactionTypeSpend TransactionType = "spend"
)

// 积分交易来源常量
const (
	TransactionSourcePickup     TransactionSource = "pickup"
	TransactionSourceReward     TransactionSource = "reward"
	TransactionSourceReferral   TransactionSource = "referral"
	TransactionSourceSystem     TransactionSource = "system"
	TransactionSourceManual     TransactionSource = "manual"
	TransactionSourceRedemption TransactionSource = "redemption"
)

// 积分交易状态常量
const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Valid 校验交易类型是否合法
func (t TransactionType) Valid() bool {
	return t == TransactionTypeEarn || t == TransactionTypeSpend
}

// Valid 校验交易来源是否合法
func (s TransactionSource) Valid() bool {
	switch s {
	case TransactionSourcePickup, TransactionSourceReward, TransactionSourceReferral,
		TransactionSourceSystem, TransactionSourceManual, TransactionSourceRedemption:
		return true
	}
	return false
}

// Valid 校验交易状态是否合法
func (s TransactionStatus) Valid() bool {
	return s == TransactionStatusPending || s == TransactionStatusCompleted || s == TransactionStatusCancelled
}

// PointTransaction 积分交易流水表
// points 恒为正数，方向由 type 表达；除 status 外不可变更。
type PointTransaction struct {
	ID           uint              `gorm:"primarykey" json:"id"`                    // 主键
	UserID       uint              `gorm:"not null;index" json:"user_id"`           // 用户ID
	Points       int               `gorm:"not null" json:"points"`                  // 积分数量（恒为正）
	Type         TransactionType   `gorm:"type:varchar(16);not null" json:"type"`   // 类型（earn/spend）
	Source       TransactionSource `gorm:"type:varchar(16);not null" json:"source"` // 来源
	Status       TransactionStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	RedemptionID *uint             `gorm:"index" json:"redemption_id"` // 关联兑换记录（仅兑换扣减流水）
	Description  string            `gorm:"default:''" json:"description"`
	CreatedAt    time.Time         `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt    time.Time         `json:"updated_at"`              // 更新时间
}

// TableName 指定表名
func (PointTransaction) TableName() string {
	return "point_transactions"
}

// BalanceDelta 返回该交易对余额的带符号影响
func (t *PointTransaction) BalanceDelta() int {
	if t.Type == TransactionTypeSpend {
		return -t.Points
	}
	return t.Points
}
