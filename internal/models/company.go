package models

import (
	"time"

	"gorm.io/gorm"
)

// Company 回收公司表
type Company struct {
	ID           uint           `gorm:"primarykey" json:"id"`             // 主键
	Name         string         `gorm:"uniqueIndex;not null" json:"name"` // 名称
	ContactPhone string         `gorm:"default:''" json:"contact_phone"`  // 联系电话
	ServiceArea  string         `gorm:"default:''" json:"service_area"`   // 服务区域
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`              // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (Company) TableName() string {
	return "companies"
}
