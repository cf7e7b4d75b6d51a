package i18n

var catalogTW = map[string]string{
	"error.internal":              "伺服器內部錯誤",
	"error.bad_request":           "請求參數錯誤",
	"error.validation_failed":     "請求校驗失敗",
	"error.unauthorized":          "未登入或登入已過期",
	"error.forbidden":             "沒有權限執行該操作",
	"error.not_found":             "資源不存在",
	"error.user_id_invalid":             "使用者 ID 無效",
	"error.user_id_type_invalid":        "使用者 ID 類型無效",
	"error.admin_id_invalid":            "管理員 ID 無效",
	"error.admin_id_type_invalid":       "管理員 ID 類型無效",
	"error.config_fetch_failed":         "設定取得失敗",
	"error.save_failed":                 "儲存失敗",
	"error.password_weak":               "密碼強度不足",
	"error.admin_username_invalid":      "管理員帳號無效",
	"error.admin_create_failed":         "管理員建立失敗",
	"error.admin_update_failed":         "管理員更新失敗",
	"error.admin_delete_failed":         "管理員刪除失敗",
	"error.admin_delete_self_forbidden": "不能刪除目前登入的管理員",
	"error.admin_delete_protected":      "該管理員受保護，禁止刪除",
	"error.admin_delete_last_forbidden": "至少保留一名管理員",
	"error.user_login_log_fetch_failed": "登入日誌取得失敗",
	"error.rate_limited":          "請求過於頻繁，請 %d 秒後再試",
	"error.rate_limit_unavailable": "限流服務暫不可用",
	"error.auth_header_missing":   "缺少認證標頭",
	"error.auth_header_invalid":   "認證標頭格式錯誤",
	"error.token_invalid":         "登入憑證無效",
	"error.token_revoked":         "登入已失效，請重新登入",
	"error.jwt_secret_missing":    "服務端未配置簽名密鑰",
	"error.user_not_found":        "用戶不存在",
	"error.user_disabled":         "帳號已被禁用",
	"error.email_exists":          "郵箱已被註冊",
	"error.invalid_credentials":   "郵箱或密碼錯誤",
	"error.invalid_password":      "原密碼不正確",
	"error.invalid_email":         "郵箱格式不正確",
	"error.profile_empty":         "沒有可更新的資料欄位",
	"error.password_policy":       "密碼不符合安全要求",

	"error.password_min_length":      "密碼長度至少 %d 位",
	"error.password_require_upper":   "密碼需包含大寫字母",
	"error.password_require_lower":   "密碼需包含小寫字母",
	"error.password_require_number":  "密碼需包含數字",
	"error.password_require_special": "密碼需包含特殊字元",
	"error.admin_not_found":       "管理員不存在",
	"error.admin_username_exists": "管理員用戶名已存在",

	"error.transaction_not_found":      "積分流水不存在",
	"error.transaction_status_invalid": "積分流水狀態不允許該操作",
	"error.invalid_points":             "積分數量無效",
	"error.insufficient_points":        "積分餘額不足",

	"error.option_not_found":          "兌換商品不存在",
	"error.option_inactive":           "兌換商品已下架",
	"error.option_out_of_stock":       "兌換商品庫存不足",
	"error.insufficient_stock":        "庫存不足",
	"error.redemption_not_found":      "兌換記錄不存在",
	"error.redemption_status_invalid": "兌換記錄狀態不允許該操作",

	"error.pickup_not_found":      "回收訂單不存在",
	"error.pickup_status_invalid": "回收訂單狀態不允許該操作",
	"error.invalid_weight":        "重量無效",

	"error.partner_not_found":   "合作商戶不存在",
	"error.partner_has_options": "合作商戶名下仍有兌換商品",
	"error.company_not_found":   "回收公司不存在",
	"error.company_inactive":    "回收公司已停用",
	"error.vehicle_not_found":   "回收車輛不存在",
	"error.vehicle_inactive":    "回收車輛已停用",
	"error.license_plate_used":  "車牌號已被佔用",

	"error.email_disabled":           "郵件服務未啟用",
	"error.email_not_configured":     "郵件服務未配置",
	"error.email_recipient_rejected": "收件地址被拒收",

	"pickup.status.pending":   "待確認",
	"pickup.status.confirmed": "已確認",
	"pickup.status.collected": "已收運",
	"pickup.status.completed": "已完成",
	"pickup.status.canceled":  "已取消",

	"redemption.status.pending":   "待核銷",
	"redemption.status.completed": "已完成",
	"redemption.status.cancelled": "已取消",
	"redemption.status.expired":   "已過期",

	"email.pickup_status.subject":        "回收訂單狀態更新：%s",
	"email.pickup_status.body":           "您的回收訂單 #%d 狀態已更新為「%s」。\n預約時間：%s",
	"email.pickup_status.body_confirmed": "您的回收訂單 #%d 已確認（%s）。\n預約時間：%s\n上門地址：%s",
	"email.pickup_status.body_completed": "您的回收訂單 #%d 已完成（%s）。\n實際稱重：%s kg\n本次獲得積分：%d",
	"email.pickup_status.body_canceled":  "您的回收訂單 #%d 已取消（%s）。",

	"email.redemption_status.subject":        "積分兌換狀態更新：%s",
	"email.redemption_status.body":           "您兌換的「%s」（兌換碼 %s）狀態已更新為「%s」。",
	"email.redemption_status.body_pending":   "您已成功兌換「%s」。\n兌換碼：%s\n消耗積分：%d\n請憑兌換碼到合作門店核銷。",
	"email.redemption_status.body_completed": "您兌換的「%s」（兌換碼 %s）已完成核銷，感謝參與環保回收。",
	"email.redemption_status.body_closed":    "您兌換的「%s」（兌換碼 %s）已%s，消耗的 %d 積分已退回帳戶。",
}
