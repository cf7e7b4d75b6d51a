package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 回收订单（上门回收）状态常量
const (
	PickupStatusPending   = "pending"
	PickupStatusConfirmed = "confirmed"
	PickupStatusCollected = "collected"
	PickupStatusCompleted = "completed"
	PickupStatusCanceled  = "canceled"
)

// 积分规则默认值
const (
	DefaultPointsPerKg = 50
)

// 兑换库存无限哨兵值
const (
	RedemptionStockUnlimited = -1
)

// 兑换码前缀默认值
const (
	RedemptionCodePrefixDefault = "GC"
)

// 队列常量
const (
	QueueDefault              = "default"
	TaskPickupStatusEmail     = "pickup:status_email"
	TaskRedemptionStatusEmail = "redemption:status_email"
	TaskRedemptionExpire      = "redemption:timeout_expire"
	TaskPointsReconcile       = "points:reconcile"
)

// 缓存命名空间常量
const (
	CacheNamespaceRedemptionOptions = "redemption_options"
	CacheNamespaceUser              = "user"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "gc"
)

// 站点语言常量
const (
	LocaleZhCN = "zh-CN"
	LocaleZhTW = "zh-TW"
	LocaleEnUS = "en-US"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleZhCN, LocaleZhTW, LocaleEnUS}

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录来源常量
const (
	LoginLogSourceWeb = "web"
	LoginLogSourceApp = "app"
)

// 登录失败原因常量
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonInvalidEmail       = "invalid_email"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonUserDisabled       = "user_disabled"
	LoginLogFailReasonInternalError      = "internal_error"
)
