package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/greencycle/internal/cache"
	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/repository"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UpdateAdminUserRequest 管理员更新用户请求
type UpdateAdminUserRequest struct {
	Nickname *string `json:"nickname"`
	Phone    *string `json:"phone"`
	Locale   *string `json:"locale"`
	Status   *string `json:"status"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// BatchUpdateUserStatusRequest 批量更新用户状态请求
type BatchUpdateUserStatusRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// GetAdminUsers 获取用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	keyword := strings.TrimSpace(c.Query("keyword"))
	status := strings.TrimSpace(c.Query("status"))
	createdFromRaw := strings.TrimSpace(c.Query("created_from"))
	createdToRaw := strings.TrimSpace(c.Query("created_to"))
	lastLoginFromRaw := strings.TrimSpace(c.Query("last_login_from"))
	lastLoginToRaw := strings.TrimSpace(c.Query("last_login_to"))

	createdFrom, err := parseTimeNullable(createdFromRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(createdToRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	lastLoginFrom, err := parseTimeNullable(lastLoginFromRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	lastLoginTo, err := parseTimeNullable(lastLoginToRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	users, total, err := h.UserRepo.List(repository.UserListFilter{
		Page:          page,
		PageSize:      pageSize,
		Keyword:       keyword,
		Status:        status,
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
		LastLoginFrom: lastLoginFrom,
		LastLoginTo:   lastLoginTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, users, pagination)
}

// GetAdminUser 获取用户详情
func (h *Handler) GetAdminUser(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	user, err := h.UserRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}

	response.Success(c, user)
}

// GetAdminUserPointsSummary 获取用户积分汇总（台账口径）
func (h *Handler) GetAdminUserPointsSummary(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	summary, err := h.PointsService.GetSummary(c.Request.Context(), uint(rawID))
	if err != nil {
		respondTransactionError(c, err)
		return
	}
	response.Success(c, summary)
}

// UpdateAdminUser 更新用户信息
func (h *Handler) UpdateAdminUser(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req UpdateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}

	updated := false
	revokeToken := false
	if req.Email != nil {
		normalized, err := service.NormalizeEmail(*req.Email)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.invalid_email", nil)
			return
		}
		existing, err := h.UserRepo.GetByEmail(normalized)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		if existing != nil && existing.ID != user.ID {
			respondError(c, response.CodeBadRequest, "error.email_exists", nil)
			return
		}
		if normalized != user.Email {
			user.Email = normalized
			updated = true
		}
	}
	if req.Nickname != nil {
		trimmed := strings.TrimSpace(*req.Nickname)
		if trimmed != "" {
			user.DisplayName = trimmed
			updated = true
		}
	}
	if req.Phone != nil {
		trimmed := strings.TrimSpace(*req.Phone)
		if trimmed != user.Phone {
			user.Phone = trimmed
			updated = true
		}
	}
	if req.Password != nil {
		trimmed := strings.TrimSpace(*req.Password)
		if trimmed != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(trimmed), bcrypt.DefaultCost)
			if err != nil {
				respondError(c, response.CodeInternal, "error.internal", err)
				return
			}
			user.PasswordHash = string(hashed)
			updated = true
			revokeToken = true
		}
	}
	if req.Locale != nil {
		trimmed := strings.TrimSpace(*req.Locale)
		if trimmed != "" {
			user.Locale = trimmed
			updated = true
		}
	}
	if req.Status != nil {
		trimmed := strings.ToLower(strings.TrimSpace(*req.Status))
		if trimmed == constants.UserStatusActive || trimmed == constants.UserStatusDisabled {
			if user.Status != trimmed {
				user.Status = trimmed
				updated = true
			}
			if trimmed == constants.UserStatusDisabled {
				revokeToken = true
			}
		}
	}

	if !updated {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	now := time.Now()
	user.UpdatedAt = now
	if revokeToken {
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	if err := h.UserRepo.Update(user); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	_ = cache.SetUserAuthState(c.Request.Context(), cache.BuildUserAuthState(user))

	response.Success(c, user)
}

// BatchUpdateUserStatus 批量更新用户状态
func (h *Handler) BatchUpdateUserStatus(c *gin.Context) {
	var req BatchUpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if len(req.UserIDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	normalizedStatus := strings.ToLower(strings.TrimSpace(req.Status))
	if normalizedStatus != constants.UserStatusActive && normalizedStatus != constants.UserStatusDisabled {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.UserRepo.BatchUpdateStatus(req.UserIDs, normalizedStatus); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	for _, userID := range req.UserIDs {
		_ = cache.DelUserAuthState(c.Request.Context(), userID)
	}

	response.Success(c, gin.H{"updated": len(req.UserIDs)})
}
