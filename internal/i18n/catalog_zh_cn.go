package i18n

var catalogZH = map[string]string{
	"error.internal":              "服务器内部错误",
	"error.bad_request":           "请求参数错误",
	"error.validation_failed":     "请求校验失败",
	"error.unauthorized":          "未登录或登录已过期",
	"error.forbidden":             "没有权限执行该操作",
	"error.not_found":             "资源不存在",
	"error.user_id_invalid":             "用户 ID 无效",
	"error.user_id_type_invalid":        "用户 ID 类型无效",
	"error.admin_id_invalid":            "管理员 ID 无效",
	"error.admin_id_type_invalid":       "管理员 ID 类型无效",
	"error.config_fetch_failed":         "配置获取失败",
	"error.save_failed":                 "保存失败",
	"error.password_weak":               "密码强度不足",
	"error.admin_username_invalid":      "管理员用户名无效",
	"error.admin_create_failed":         "管理员创建失败",
	"error.admin_update_failed":         "管理员更新失败",
	"error.admin_delete_failed":         "管理员删除失败",
	"error.admin_delete_self_forbidden": "不能删除当前登录管理员",
	"error.admin_delete_protected":      "该管理员受保护，禁止删除",
	"error.admin_delete_last_forbidden": "至少保留一名管理员",
	"error.user_login_log_fetch_failed": "登录日志获取失败",
	"error.rate_limited":          "请求过于频繁，请 %d 秒后再试",
	"error.rate_limit_unavailable": "限流服务暂不可用",
	"error.auth_header_missing":   "缺少认证头",
	"error.auth_header_invalid":   "认证头格式错误",
	"error.token_invalid":         "登录凭证无效",
	"error.token_revoked":         "登录已失效，请重新登录",
	"error.jwt_secret_missing":    "服务端未配置签名密钥",
	"error.user_not_found":        "用户不存在",
	"error.user_disabled":         "账号已被禁用",
	"error.email_exists":          "邮箱已被注册",
	"error.invalid_credentials":   "邮箱或密码错误",
	"error.invalid_password":      "原密码不正确",
	"error.invalid_email":         "邮箱格式不正确",
	"error.profile_empty":         "没有可更新的资料字段",
	"error.password_policy":       "密码不符合安全要求",

	"error.password_min_length":      "密码长度至少 %d 位",
	"error.password_require_upper":   "密码需包含大写字母",
	"error.password_require_lower":   "密码需包含小写字母",
	"error.password_require_number":  "密码需包含数字",
	"error.password_require_special": "密码需包含特殊字符",
	"error.admin_not_found":       "管理员不存在",
	"error.admin_username_exists": "管理员用户名已存在",

	"error.transaction_not_found":      "积分流水不存在",
	"error.transaction_status_invalid": "积分流水状态不允许该操作",
	"error.invalid_points":             "积分数量无效",
	"error.insufficient_points":        "积分余额不足",

	"error.option_not_found":           "兑换商品不存在",
	"error.option_inactive":            "兑换商品已下架",
	"error.option_out_of_stock":        "兑换商品库存不足",
	"error.insufficient_stock":         "库存不足",
	"error.redemption_not_found":       "兑换记录不存在",
	"error.redemption_status_invalid":  "兑换记录状态不允许该操作",

	"error.pickup_not_found":      "回收订单不存在",
	"error.pickup_status_invalid": "回收订单状态不允许该操作",
	"error.invalid_weight":        "重量无效",

	"error.partner_not_found":    "合作商户不存在",
	"error.partner_has_options":  "合作商户名下仍有兑换商品",
	"error.company_not_found":    "回收公司不存在",
	"error.company_inactive":     "回收公司已停用",
	"error.vehicle_not_found":    "回收车辆不存在",
	"error.vehicle_inactive":     "回收车辆已停用",
	"error.license_plate_used":   "车牌号已被占用",

	"error.email_disabled":           "邮件服务未启用",
	"error.email_not_configured":     "邮件服务未配置",
	"error.email_recipient_rejected": "收件地址被拒收",

	"pickup.status.pending":   "待确认",
	"pickup.status.confirmed": "已确认",
	"pickup.status.collected": "已收运",
	"pickup.status.completed": "已完成",
	"pickup.status.canceled":  "已取消",

	"redemption.status.pending":   "待核销",
	"redemption.status.completed": "已完成",
	"redemption.status.cancelled": "已取消",
	"redemption.status.expired":   "已过期",

	"email.pickup_status.subject":        "回收订单状态更新：%s",
	"email.pickup_status.body":           "您的回收订单 #%d 状态已更新为「%s」。\n预约时间：%s",
	"email.pickup_status.body_confirmed": "您的回收订单 #%d 已确认（%s）。\n预约时间：%s\n上门地址：%s",
	"email.pickup_status.body_completed": "您的回收订单 #%d 已完成（%s）。\n实际称重：%s kg\n本次获得积分：%d",
	"email.pickup_status.body_canceled":  "您的回收订单 #%d 已取消（%s）。",

	"email.redemption_status.subject":        "积分兑换状态更新：%s",
	"email.redemption_status.body":           "您兑换的「%s」（兑换码 %s）状态已更新为「%s」。",
	"email.redemption_status.body_pending":   "您已成功兑换「%s」。\n兑换码：%s\n消耗积分：%d\n请凭兑换码到合作门店核销。",
	"email.redemption_status.body_completed": "您兑换的「%s」（兑换码 %s）已完成核销，感谢参与环保回收。",
	"email.redemption_status.body_closed":    "您兑换的「%s」（兑换码 %s）已%s，消耗的 %d 积分已退回账户。",
}
