package models

import (
	"time"

	"gorm.io/gorm"
)

// Partner 合作商家表（提供兑换奖励的商家）
type Partner struct {
	ID           uint           `gorm:"primarykey" json:"id"`                 // 主键
	Name         string         `gorm:"uniqueIndex;not null" json:"name"`     // 名称
	ContactEmail string         `gorm:"default:''" json:"contact_email"`      // 联系邮箱
	Website      string         `gorm:"default:''" json:"website"`            // 官网
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`              // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (Partner) TableName() string {
	return "partners"
}
