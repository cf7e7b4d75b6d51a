package public

import (
	"errors"
	"strings"

	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/i18n"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.invalid_email", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "error.email_exists", nil)
		case errors.Is(err, service.ErrWeakPassword):
			locale := i18n.ResolveLocale(c)
			if perr, ok := err.(interface {
				Key() string
				Args() []interface{}
			}); ok {
				msg := i18n.Sprintf(locale, perr.Key(), perr.Args()...)
				respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
				return
			}
			respondError(c, response.CodeBadRequest, "error.password_policy", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       userProfileResponse(user),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest, constants.LoginLogSourceWeb)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.LoginWithRememberMe(req.Email, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidEmail, constants.LoginLogSourceWeb)
			respondError(c, response.CodeBadRequest, "error.invalid_email", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidCredentials, constants.LoginLogSourceWeb)
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
		case errors.Is(err, service.ErrUserDisabled):
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonUserDisabled, constants.LoginLogSourceWeb)
			respondError(c, response.CodeUnauthorized, "error.user_disabled", nil)
		default:
			h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError, constants.LoginLogSourceWeb)
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.recordUserLogin(c, user.Email, user.ID, constants.LoginLogStatusSuccess, "", constants.LoginLogSourceWeb)
	response.Success(c, gin.H{
		"user":       userProfileResponse(user),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *Handler) recordUserLogin(c *gin.Context, email string, userID uint, status, failReason, source string) {
	if h == nil || h.UserLoginLogService == nil {
		return
	}
	requestID := ""
	if c != nil {
		if rid, ok := c.Get("request_id"); ok {
			if value, ok := rid.(string); ok {
				requestID = strings.TrimSpace(value)
			}
		}
	}
	_ = h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:      userID,
		Email:       email,
		Status:      status,
		FailReason:  failReason,
		ClientIP:    c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
		LoginSource: source,
		RequestID:   requestID,
	})
}

// GetCurrentUser 获取当前用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}

	response.Success(c, userProfileResponse(user))
}

func userProfileResponse(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"nickname":      user.DisplayName,
		"phone":         user.Phone,
		"locale":        user.Locale,
		"points":        user.Points,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	}
}

// UserProfileUpdateRequest 更新资料请求
type UserProfileUpdateRequest struct {
	Nickname *string `json:"nickname"`
	Phone    *string `json:"phone"`
	Locale   *string `json:"locale"`
}

// UpdateUserProfile 更新用户资料
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req UserProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAuthService.UpdateProfile(id, req.Nickname, req.Phone, req.Locale)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileEmpty):
			respondError(c, response.CodeBadRequest, "error.profile_empty", nil)
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, userProfileResponse(user))
}

// ChangeUserPasswordRequest 用户改密请求
type ChangeUserPasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangeUserPassword 用户登录态修改密码
func (h *Handler) ChangeUserPassword(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req ChangeUserPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.UserAuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "error.invalid_password", nil)
		case errors.Is(err, service.ErrWeakPassword):
			locale := i18n.ResolveLocale(c)
			if perr, ok := err.(interface {
				Key() string
				Args() []interface{}
			}); ok {
				msg := i18n.Sprintf(locale, perr.Key(), perr.Args()...)
				respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
				return
			}
			respondError(c, response.CodeBadRequest, "error.password_policy", nil)
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{"updated": true})
}
