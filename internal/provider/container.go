package provider

import (
	"github.com/greencycle/internal/authz"
	"github.com/greencycle/internal/cache"
	"github.com/greencycle/internal/config"
	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/queue"
	"github.com/greencycle/internal/repository"
	"github.com/greencycle/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo            repository.AdminRepository
	UserRepo             repository.UserRepository
	PointTransactionRepo repository.PointTransactionRepository
	RedemptionOptionRepo repository.RedemptionOptionRepository
	PointRedemptionRepo  repository.PointRedemptionRepository
	PickupRequestRepo    repository.PickupRequestRepository
	PartnerRepo          repository.PartnerRepository
	CompanyRepo          repository.CompanyRepository
	VehicleRepo          repository.VehicleRepository
	UserLoginLogRepo     repository.UserLoginLogRepository
	AuthzAuditLogRepo    repository.AuthzAuditLogRepository
	DashboardRepo        repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	EmailService        *service.EmailService
	PointsService       *service.PointsService
	RedemptionService   *service.RedemptionService
	PickupService       *service.PickupService
	PartnerService      *service.PartnerService
	FleetService        *service.FleetService
	UserLoginLogService *service.UserLoginLogService
	AuthzAuditService   *service.AuthzAuditService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.PointTransactionRepo = repository.NewPointTransactionRepository(db)
	c.RedemptionOptionRepo = repository.NewRedemptionOptionRepository(db)
	c.PointRedemptionRepo = repository.NewPointRedemptionRepository(db)
	c.PickupRequestRepo = repository.NewPickupRequestRepository(db)
	c.PartnerRepo = repository.NewPartnerRepository(db)
	c.CompanyRepo = repository.NewCompanyRepository(db)
	c.VehicleRepo = repository.NewVehicleRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.PointsService = service.NewPointsService(c.PointTransactionRepo, c.UserRepo)
	c.RedemptionService = service.NewRedemptionService(
		c.RedemptionOptionRepo,
		c.PointRedemptionRepo,
		c.PartnerRepo,
		c.PointsService,
		c.QueueClient,
		c.Config.Redemption.CodePrefix,
		c.Config.Redemption.ExpireHours,
	)
	c.PickupService = service.NewPickupService(
		c.PickupRequestRepo,
		c.CompanyRepo,
		c.VehicleRepo,
		c.PointsService,
		c.QueueClient,
		c.Config.Points.PerKg,
	)
	c.PartnerService = service.NewPartnerService(c.PartnerRepo, c.RedemptionOptionRepo)
	c.FleetService = service.NewFleetService(c.CompanyRepo, c.VehicleRepo)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, service.DashboardSettingFromConfig(c.Config.Dashboard))
}
