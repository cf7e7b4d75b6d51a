package repository

import "time"

// PointTransactionListFilter 查询积分流水列表的过滤条件
type PointTransactionListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Type        string
	Source      string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// RedemptionOptionListFilter 查询兑换商品列表的过滤条件
type RedemptionOptionListFilter struct {
	Page      int
	PageSize  int
	IsActive  *bool
	Category  string
	PartnerID uint
	MaxPoints int
	InStock   bool
	Search    string
}

// PointRedemptionListFilter 查询兑换记录列表的过滤条件
type PointRedemptionListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	OptionID    uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PickupRequestListFilter 查询回收预约列表的过滤条件
type PickupRequestListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	CompanyID     uint
	VehicleID     uint
	Status        string
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
}

// PartnerListFilter 查询合作伙伴列表的过滤条件
type PartnerListFilter struct {
	Page       int
	PageSize   int
	Search     string
	ActiveOnly bool
}

// CompanyListFilter 查询回收公司列表的过滤条件
type CompanyListFilter struct {
	Page       int
	PageSize   int
	Search     string
	ActiveOnly bool
}

// VehicleListFilter 查询回收车辆列表的过滤条件
type VehicleListFilter struct {
	Page       int
	PageSize   int
	CompanyID  uint
	ActiveOnly bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page          int
	PageSize      int
	Keyword       string
	Status        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	LastLoginFrom *time.Time
	LastLoginTo   *time.Time
}

// UserLoginLogListFilter 查询用户登录日志列表的过滤条件
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Email       string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuthzAuditLogListFilter 查询权限审计日志列表的过滤条件
type AuthzAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	TargetAdminID   uint
	Action          string
	Role            string
	Object          string
	Method          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
