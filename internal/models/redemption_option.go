package models

import (
	"time"

	"gorm.io/gorm"
)

// RedemptionOption 积分兑换选项表
// stock 为 -1 表示不限量，>=0 表示剩余可兑换件数；
// stock 只允许通过兑换流程的条件更新语句变更。
type RedemptionOption struct {
	ID             uint           `gorm:"primarykey" json:"id"`                        // 主键
	Name           string         `gorm:"not null" json:"name"`                        // 名称
	Description    string         `gorm:"type:text" json:"description"`                // 描述
	PointsRequired int            `gorm:"not null" json:"points_required"`             // 兑换所需积分
	// stock/is_active 不设 DB default：零值（售罄、未上架）是合法业务状态，
	// 带 default 标签时 gorm 会在 Create 时跳过零值字段。
	Stock          int            `gorm:"not null" json:"stock"` // 库存（-1 不限量，0 售罄）
	IsActive       bool           `gorm:"not null;index" json:"is_active"`
	PartnerID      *uint          `gorm:"index" json:"partner_id,omitempty"` // 合作商家ID（可为空）
	Category       string         `gorm:"index;default:''" json:"category"` // 分类
	Image          string         `gorm:"default:''" json:"image"`          // 图片地址
	SortOrder      int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"` // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间

	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

// TableName 指定表名
func (RedemptionOption) TableName() string {
	return "redemption_options"
}

// Unlimited 是否不限量
func (o *RedemptionOption) Unlimited() bool {
	return o.Stock == -1
}

// InStock 是否仍可兑换
func (o *RedemptionOption) InStock() bool {
	return o.Stock == -1 || o.Stock > 0
}
