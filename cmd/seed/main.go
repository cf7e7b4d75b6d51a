package main

import (
	"time"

	"github.com/greencycle/internal/config"
	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 合作商家
	partners := []models.Partner{
		{Name: "绿叶咖啡", ContactEmail: "hello@greenleaf.example", Website: "https://greenleaf.example", IsActive: true},
		{Name: "城市书店", ContactEmail: "contact@citybooks.example", Website: "https://citybooks.example", IsActive: true},
	}
	partnerIDs := map[string]uint{}
	for _, p := range partners {
		var existing models.Partner
		if err := models.DB.Where("name = ?", p.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create partner %s: %v", p.Name, err)
				continue
			}
			stdLog.Printf("Created partner: %s", p.Name)
			partnerIDs[p.Name] = p.ID
		} else {
			stdLog.Printf("Partner already exists: %s", existing.Name)
			partnerIDs[existing.Name] = existing.ID
		}
	}

	// 兑换商品
	coffeePartner := partnerIDs["绿叶咖啡"]
	bookPartner := partnerIDs["城市书店"]
	options := []models.RedemptionOption{
		{Name: "环保帆布袋", Description: "可重复使用的棉质帆布袋", PointsRequired: 100, Stock: 200, IsActive: true, Category: "lifestyle", SortOrder: 10},
		{Name: "不锈钢保温杯", Description: "500ml 双层真空保温杯", PointsRequired: 350, Stock: 80, IsActive: true, Category: "lifestyle", SortOrder: 20},
		{Name: "咖啡兑换券", Description: "绿叶咖啡任意中杯饮品一杯", PointsRequired: 150, Stock: -1, IsActive: true, Category: "voucher", SortOrder: 30},
		{Name: "图书优惠券", Description: "城市书店满 50 减 20", PointsRequired: 120, Stock: 500, IsActive: true, Category: "voucher", SortOrder: 40},
	}
	if coffeePartner != 0 {
		options[2].PartnerID = &coffeePartner
	}
	if bookPartner != 0 {
		options[3].PartnerID = &bookPartner
	}
	for _, opt := range options {
		var existing models.RedemptionOption
		if err := models.DB.Where("name = ?", opt.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&opt).Error; err != nil {
				stdLog.Printf("Failed to create option %s: %v", opt.Name, err)
			} else {
				stdLog.Printf("Created redemption option: %s", opt.Name)
			}
		} else {
			stdLog.Printf("Redemption option already exists: %s", opt.Name)
		}
	}

	// 回收公司与车辆
	companies := []models.Company{
		{Name: "绿源回收", ContactPhone: "021-5550101", ServiceArea: "浦东新区", IsActive: true},
		{Name: "城北环保", ContactPhone: "021-5550202", ServiceArea: "静安区、普陀区", IsActive: true},
	}
	companyIDs := map[string]uint{}
	for _, co := range companies {
		var existing models.Company
		if err := models.DB.Where("name = ?", co.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&co).Error; err != nil {
				stdLog.Printf("Failed to create company %s: %v", co.Name, err)
				continue
			}
			stdLog.Printf("Created company: %s", co.Name)
			companyIDs[co.Name] = co.ID
		} else {
			stdLog.Printf("Company already exists: %s", existing.Name)
			companyIDs[existing.Name] = existing.ID
		}
	}

	vehicles := []models.Vehicle{
		{CompanyID: companyIDs["绿源回收"], LicensePlate: "沪A·R1001", CapacityKg: models.NewWeightFromFloat(1500), IsActive: true},
		{CompanyID: companyIDs["绿源回收"], LicensePlate: "沪A·R1002", CapacityKg: models.NewWeightFromFloat(800), IsActive: true},
		{CompanyID: companyIDs["城北环保"], LicensePlate: "沪B·E2001", CapacityKg: models.NewWeightFromFloat(1200), IsActive: true},
	}
	for _, v := range vehicles {
		if v.CompanyID == 0 {
			continue
		}
		var existing models.Vehicle
		if err := models.DB.Where("license_plate = ?", v.LicensePlate).First(&existing).Error; err != nil {
			if err := models.DB.Create(&v).Error; err != nil {
				stdLog.Printf("Failed to create vehicle %s: %v", v.LicensePlate, err)
			} else {
				stdLog.Printf("Created vehicle: %s", v.LicensePlate)
			}
		} else {
			stdLog.Printf("Vehicle already exists: %s", v.LicensePlate)
		}
	}

	// 演示用户
	users := []struct {
		Email       string
		DisplayName string
		Points      int
	}{
		{Email: "demo@greencycle.dev", DisplayName: "演示用户", Points: 500},
		{Email: "eco@greencycle.dev", DisplayName: "环保达人", Points: 1200},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("GreenCycle@2025"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err != nil {
			user := models.User{
				Email:        u.Email,
				PasswordHash: string(hash),
				DisplayName:  u.DisplayName,
				Status:       constants.UserStatusActive,
				Points:       u.Points,
			}
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", u.Email, err)
				continue
			}
			// 初始积分落一条 system 流水，保证余额可对账
			if u.Points > 0 {
				txn := models.PointTransaction{
					UserID:      user.ID,
					Points:      u.Points,
					Type:        models.TransactionTypeEarn,
					Source:      models.TransactionSourceSystem,
					Status:      models.TransactionStatusCompleted,
					Description: "初始积分",
					CreatedAt:   time.Now(),
					UpdatedAt:   time.Now(),
				}
				if err := models.DB.Create(&txn).Error; err != nil {
					stdLog.Printf("Failed to create initial transaction for %s: %v", u.Email, err)
				}
			}
			stdLog.Printf("Created user: %s", u.Email)
		} else {
			stdLog.Printf("User already exists: %s", u.Email)
		}
	}

	stdLog.Printf("Seed completed")
}
