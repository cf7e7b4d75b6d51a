package models

import (
	"time"
)

// RedemptionStatus 兑换记录状态
type RedemptionStatus string

// 兑换记录状态常量
const (
	RedemptionStatusPending   RedemptionStatus = "pending"
	RedemptionStatusCompleted RedemptionStatus = "completed"
	RedemptionStatusCancelled RedemptionStatus = "cancelled"
	RedemptionStatusExpired   RedemptionStatus = "expired"
)

// Valid 校验兑换状态是否合法
func (s RedemptionStatus) Valid() bool {
	switch s {
	case RedemptionStatusPending, RedemptionStatusCompleted, RedemptionStatusCancelled, RedemptionStatusExpired:
		return true
	}
	return false
}

// PointRedemption 积分兑换记录表
// points_spent 为兑换时刻选项成本的快照；与一条 spend/redemption 流水互相关联。
type PointRedemption struct {
	ID             uint             `gorm:"primarykey" json:"id"`            // 主键
	UserID         uint             `gorm:"not null;index" json:"user_id"`   // 用户ID
	OptionID       uint             `gorm:"not null;index" json:"option_id"` // 兑换选项ID
	PointsSpent    int              `gorm:"not null" json:"points_spent"`    // 消耗积分（快照）
	Status         RedemptionStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	RedemptionCode string           `gorm:"uniqueIndex;not null" json:"redemption_code"` // 兑换码
	Notes          string           `gorm:"type:text" json:"notes"`
	TransactionID  *uint            `gorm:"index" json:"transaction_id"` // 关联扣减流水
	FulfilledAt    *time.Time       `json:"fulfilled_at"`                // 核销时间
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`     // 创建时间
	UpdatedAt      time.Time        `json:"updated_at"`                  // 更新时间

	Option *RedemptionOption `gorm:"foreignKey:OptionID" json:"option,omitempty"`
}

// TableName 指定表名
func (PointRedemption) TableName() string {
	return "point_redemptions"
}
