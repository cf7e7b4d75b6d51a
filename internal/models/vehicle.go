package models

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle 回收车辆表
type Vehicle struct {
	ID           uint           `gorm:"primarykey" json:"id"`                     // 主键
	CompanyID    uint           `gorm:"index;not null" json:"company_id"`         // 所属公司
	LicensePlate string         `gorm:"uniqueIndex;not null" json:"license_plate"` // 车牌号
	CapacityKg   Weight         `gorm:"type:decimal(10,2);not null" json:"capacity_kg"` // 载重(公斤)
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"` // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"` // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"` // 所属公司信息
}

// TableName 指定表名
func (Vehicle) TableName() string {
	return "vehicles"
}
