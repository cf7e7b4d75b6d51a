package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/greencycle/internal/authz"
	"github.com/greencycle/internal/cache"
	"github.com/greencycle/internal/config"
	adminhandlers "github.com/greencycle/internal/http/handlers/admin"
	publichandlers "github.com/greencycle/internal/http/handlers/public"
	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "gc"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/redemption-options", publicHandler.ListRedemptionOptions)
			public.GET("/redemption-options/:id", publicHandler.GetRedemptionOption)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.GET("/me/login-logs", publicHandler.GetMyLoginLogs)
			user.PUT("/me/profile", publicHandler.UpdateUserProfile)
			user.PUT("/me/password", publicHandler.ChangeUserPassword)
			user.GET("/me/points", publicHandler.GetMyPointsSummary)
			user.GET("/me/points/transactions", publicHandler.ListMyPointTransactions)
			user.POST("/pickups", publicHandler.SchedulePickup)
			user.GET("/pickups", publicHandler.ListMyPickups)
			user.GET("/pickups/:id", publicHandler.GetMyPickup)
			user.PUT("/pickups/:id", publicHandler.UpdateMyPickup)
			user.POST("/pickups/:id/cancel", publicHandler.CancelMyPickup)
			user.POST("/redemptions", publicHandler.RedeemOption)
			user.GET("/redemptions", publicHandler.ListMyRedemptions)
			user.GET("/redemptions/:id", publicHandler.GetMyRedemption)
			user.POST("/redemptions/:id/cancel", publicHandler.CancelMyRedemption)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
				authorized.GET("/dashboard/rankings", adminHandler.GetDashboardRankings)

				// 兑换商品管理
				authorized.GET("/redemption-options", adminHandler.GetAdminRedemptionOptions)
				authorized.GET("/redemption-options/:id", adminHandler.GetAdminRedemptionOption)
				authorized.POST("/redemption-options", adminHandler.CreateRedemptionOption)
				authorized.PUT("/redemption-options/:id", adminHandler.UpdateRedemptionOption)
				authorized.DELETE("/redemption-options/:id", adminHandler.DeleteRedemptionOption)
				authorized.POST("/redemption-options/:id/stock", adminHandler.UpdateRedemptionOptionStock)

				// 兑换记录管理
				authorized.GET("/redemptions", adminHandler.GetAdminRedemptions)
				authorized.GET("/redemptions/:id", adminHandler.GetAdminRedemption)
				authorized.POST("/redemptions/:id/fulfill", adminHandler.FulfillRedemption)
				authorized.POST("/redemptions/:id/cancel", adminHandler.CancelRedemption)

				// 回收预约管理
				authorized.GET("/pickups", adminHandler.GetAdminPickups)
				authorized.GET("/pickups/:id", adminHandler.GetAdminPickup)
				authorized.POST("/pickups/:id/assign", adminHandler.AssignPickup)
				authorized.POST("/pickups/:id/collect", adminHandler.CollectPickup)
				authorized.POST("/pickups/:id/complete", adminHandler.CompletePickup)

				// 积分流水管理
				authorized.GET("/point-transactions", adminHandler.GetAdminPointTransactions)
				authorized.GET("/point-transactions/:id", adminHandler.GetAdminPointTransaction)
				authorized.POST("/point-transactions", adminHandler.CreatePointTransaction)
				authorized.POST("/point-transactions/:id/confirm", adminHandler.ConfirmPointTransaction)
				authorized.POST("/point-transactions/:id/cancel", adminHandler.CancelPointTransaction)

				// 合作伙伴管理
				authorized.GET("/partners", adminHandler.GetAdminPartners)
				authorized.GET("/partners/:id", adminHandler.GetAdminPartner)
				authorized.POST("/partners", adminHandler.CreatePartner)
				authorized.PUT("/partners/:id", adminHandler.UpdatePartner)
				authorized.DELETE("/partners/:id", adminHandler.DeletePartner)

				// 回收公司与车辆管理
				authorized.GET("/companies", adminHandler.GetAdminCompanies)
				authorized.GET("/companies/:id", adminHandler.GetAdminCompany)
				authorized.POST("/companies", adminHandler.CreateCompany)
				authorized.PUT("/companies/:id", adminHandler.UpdateCompany)
				authorized.DELETE("/companies/:id", adminHandler.DeleteCompany)
				authorized.GET("/vehicles", adminHandler.GetAdminVehicles)
				authorized.GET("/vehicles/:id", adminHandler.GetAdminVehicle)
				authorized.POST("/vehicles", adminHandler.CreateVehicle)
				authorized.PUT("/vehicles/:id", adminHandler.UpdateVehicle)
				authorized.DELETE("/vehicles/:id", adminHandler.DeleteVehicle)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.GET("/authz/audit-logs", adminHandler.ListAuthzAuditLogs)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword) // 修改密码

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.GET("/user-login-logs", adminHandler.GetUserLoginLogs)
				authorized.PUT("/users/batch-status", adminHandler.BatchUpdateUserStatus)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.PUT("/users/:id", adminHandler.UpdateAdminUser)
				authorized.GET("/users/:id/points", adminHandler.GetAdminUserPointsSummary)
				authorized.POST("/users/:id/reconcile", adminHandler.ReconcileUserPoints)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
