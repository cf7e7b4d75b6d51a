package models

import (
	"time"

	"gorm.io/gorm"
)

// PickupRequest 上门回收订单表
// 完成（completed）时写入 weight_actual/points_earned，并在同一事务内
// 生成 earn/pickup 积分流水。
type PickupRequest struct {
	ID             uint           `gorm:"primarykey" json:"id"`          // 主键
	UserID         uint           `gorm:"not null;index" json:"user_id"` // 用户ID
	CompanyID      *uint          `gorm:"index" json:"company_id"`       // 承接回收公司
	VehicleID      *uint          `gorm:"index" json:"vehicle_id"`       // 派遣车辆
	Address        string         `gorm:"not null" json:"address"`       // 取件地址
	ScheduledAt    time.Time      `gorm:"index" json:"scheduled_at"`     // 预约时间
	WeightEstimate Weight         `gorm:"type:decimal(10,2);not null;default:0" json:"weight_estimate"` // 预估重量（kg）
	WeightActual   *Weight        `gorm:"type:decimal(10,2)" json:"weight_actual"`                      // 实际称重（kg）
	PointsEstimate int            `gorm:"not null;default:0" json:"points_estimate"`                    // 预估积分
	PointsEarned   int            `gorm:"not null;default:0" json:"points_earned"`                      // 实得积分
	Status         string         `gorm:"not null;index;default:'pending'" json:"status"`               // 状态
	Notes          string         `gorm:"type:text" json:"notes"`
	CompletedAt    *time.Time     `json:"completed_at"`            // 完成时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"` // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (PickupRequest) TableName() string {
	return "pickup_requests"
}
