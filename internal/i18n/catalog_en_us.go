package i18n

var catalogEN = map[string]string{
	"error.internal":              "Internal server error",
	"error.bad_request":           "Invalid request parameters",
	"error.validation_failed":     "Request validation failed",
	"error.unauthorized":          "Not logged in or session expired",
	"error.forbidden":             "Permission denied",
	"error.not_found":             "Resource not found",
	"error.user_id_invalid":             "Invalid user ID",
	"error.user_id_type_invalid":        "Invalid user ID type",
	"error.admin_id_invalid":            "Invalid admin ID",
	"error.admin_id_type_invalid":       "Invalid admin ID type",
	"error.config_fetch_failed":         "Failed to fetch configuration",
	"error.save_failed":                 "Failed to save",
	"error.password_weak":               "Password is too weak",
	"error.admin_username_invalid":      "Invalid admin username",
	"error.admin_create_failed":         "Failed to create admin",
	"error.admin_update_failed":         "Failed to update admin",
	"error.admin_delete_failed":         "Failed to delete admin",
	"error.admin_delete_self_forbidden": "Cannot delete the current admin",
	"error.admin_delete_protected":      "This admin is protected",
	"error.admin_delete_last_forbidden": "At least one admin must remain",
	"error.user_login_log_fetch_failed": "Failed to fetch login logs",
	"error.rate_limited":          "Too many requests, retry in %d seconds",
	"error.rate_limit_unavailable": "Rate limiter unavailable",
	"error.auth_header_missing":   "Missing authorization header",
	"error.auth_header_invalid":   "Invalid authorization header",
	"error.token_invalid":         "Invalid token",
	"error.token_revoked":         "Session expired, please sign in again",
	"error.jwt_secret_missing":    "Server signing key not configured",
	"error.user_not_found":        "User not found",
	"error.user_disabled":         "Account disabled",
	"error.email_exists":          "Email already registered",
	"error.invalid_credentials":   "Incorrect email or password",
	"error.invalid_password":      "Current password incorrect",
	"error.invalid_email":         "Invalid email format",
	"error.profile_empty":         "No profile fields to update",
	"error.password_policy":       "Password does not meet security requirements",

	"error.password_min_length":      "Password must be at least %d characters",
	"error.password_require_upper":   "Password must contain an uppercase letter",
	"error.password_require_lower":   "Password must contain a lowercase letter",
	"error.password_require_number":  "Password must contain a digit",
	"error.password_require_special": "Password must contain a special character",
	"error.admin_not_found":       "Admin not found",
	"error.admin_username_exists": "Admin username already exists",

	"error.transaction_not_found":      "Point transaction not found",
	"error.transaction_status_invalid": "Point transaction status does not allow this operation",
	"error.invalid_points":             "Invalid points amount",
	"error.insufficient_points":        "Insufficient points balance",

	"error.option_not_found":          "Redemption item not found",
	"error.option_inactive":           "Redemption item is inactive",
	"error.option_out_of_stock":       "Redemption item out of stock",
	"error.insufficient_stock":        "Insufficient stock",
	"error.redemption_not_found":      "Redemption not found",
	"error.redemption_status_invalid": "Redemption status does not allow this operation",

	"error.pickup_not_found":      "Pickup request not found",
	"error.pickup_status_invalid": "Pickup status does not allow this operation",
	"error.invalid_weight":        "Invalid weight",

	"error.partner_not_found":   "Partner not found",
	"error.partner_has_options": "Partner still has redemption items",
	"error.company_not_found":   "Recycling company not found",
	"error.company_inactive":    "Recycling company inactive",
	"error.vehicle_not_found":   "Vehicle not found",
	"error.vehicle_inactive":    "Vehicle inactive",
	"error.license_plate_used":  "License plate already in use",

	"error.email_disabled":           "Email service disabled",
	"error.email_not_configured":     "Email service not configured",
	"error.email_recipient_rejected": "Recipient address rejected",

	"pickup.status.pending":   "Pending",
	"pickup.status.confirmed": "Confirmed",
	"pickup.status.collected": "Collected",
	"pickup.status.completed": "Completed",
	"pickup.status.canceled":  "Canceled",

	"redemption.status.pending":   "Pending",
	"redemption.status.completed": "Completed",
	"redemption.status.cancelled": "Cancelled",
	"redemption.status.expired":   "Expired",

	"email.pickup_status.subject":        "Pickup status updated: %s",
	"email.pickup_status.body":           "Your pickup request #%d is now %s.\nScheduled at: %s",
	"email.pickup_status.body_confirmed": "Your pickup request #%d has been confirmed (%s).\nScheduled at: %s\nAddress: %s",
	"email.pickup_status.body_completed": "Your pickup request #%d is completed (%s).\nWeight collected: %s kg\nPoints earned: %d",
	"email.pickup_status.body_canceled":  "Your pickup request #%d has been canceled (%s).",

	"email.redemption_status.subject":        "Redemption status updated: %s",
	"email.redemption_status.body":           "Your redemption of %s (code %s) is now %s.",
	"email.redemption_status.body_pending":   "You have redeemed %s.\nCode: %s\nPoints spent: %d\nShow the code at a partner store to collect it.",
	"email.redemption_status.body_completed": "Your redemption of %s (code %s) has been fulfilled. Thank you for recycling.",
	"email.redemption_status.body_closed":    "Your redemption of %s (code %s) is %s. The %d points have been refunded to your account.",
}
