package service

import "errors"

// 业务错误定义，handler 层据此映射响应码与文案。
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserDisabled         = errors.New("user disabled")
	ErrEmailExists          = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrProfileEmpty         = errors.New("profile has no updatable fields")
	ErrNotFound             = errors.New("record not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrAdminUsernameExists  = errors.New("admin username already exists")
	ErrWeakPassword         = errors.New("weak password")

	ErrTransactionNotFound      = errors.New("point transaction not found")
	ErrTransactionStatusInvalid = errors.New("point transaction status invalid")
	ErrInvalidPoints            = errors.New("invalid points amount")
	ErrInsufficientPoints       = errors.New("insufficient points")

	ErrOptionNotFound    = errors.New("redemption option not found")
	ErrOptionInactive    = errors.New("redemption option inactive")
	ErrOptionOutOfStock  = errors.New("redemption option out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrRedemptionNotFound      = errors.New("redemption not found")
	ErrRedemptionStatusInvalid = errors.New("redemption status invalid")

	ErrPickupNotFound      = errors.New("pickup request not found")
	ErrPickupStatusInvalid = errors.New("pickup status invalid")
	ErrInvalidWeight       = errors.New("invalid pickup weight")

	ErrPartnerNotFound   = errors.New("partner not found")
	ErrPartnerHasOptions = errors.New("partner still has redemption options")
	ErrCompanyNotFound   = errors.New("company not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrVehicleInactive   = errors.New("vehicle inactive")
	ErrCompanyInactive   = errors.New("company inactive")
	ErrLicensePlateUsed  = errors.New("license plate already used")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")

	ErrDashboardRangeInvalid = errors.New("dashboard range invalid")
)
