//go:build integration
// +build integration

package service

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresServiceDB 初始化 PostgreSQL 集成测试数据库（服务层并发场景）。
func setupPostgresServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.PointRedemption{},
		&models.PointTransaction{},
		&models.RedemptionOption{},
		&models.Partner{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Partner{},
		&models.PointTransaction{},
		&models.RedemptionOption{},
		&models.PointRedemption{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresConcurrentRedeemSingleStock(t *testing.T) {
	db := setupPostgresServiceDB(t)

	pointsSvc := NewPointsService(
		repository.NewPointTransactionRepository(db),
		repository.NewUserRepository(db),
	)
	svc := NewRedemptionService(
		repository.NewRedemptionOptionRepository(db),
		repository.NewPointRedemptionRepository(db),
		repository.NewPartnerRepository(db),
		pointsSvc,
		nil,
		"GC",
		72,
	)

	user := models.User{
		Email:        "pg-concurrent@test.dev",
		PasswordHash: "hash",
		Status:       "active",
		Points:       10000,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	option := models.RedemptionOption{
		Name:           "pg-last-one",
		PointsRequired: 100,
		Stock:          1,
		IsActive:       true,
	}
	if err := db.Create(&option).Error; err != nil {
		t.Fatalf("create option failed: %v", err)
	}

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(user.ID, option.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, ErrOptionOutOfStock) {
			t.Fatalf("concurrent redeem unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("want exactly 1 successful redeem got %d", succeeded)
	}

	var stored models.RedemptionOption
	if err := db.First(&stored, option.ID).Error; err != nil {
		t.Fatalf("reload option failed: %v", err)
	}
	if stored.Stock != 0 {
		t.Fatalf("stock want 0 got %d", stored.Stock)
	}

	var redemptions int64
	if err := db.Model(&models.PointRedemption{}).Where("option_id = ?", option.ID).Count(&redemptions).Error; err != nil {
		t.Fatalf("count redemptions failed: %v", err)
	}
	if redemptions != 1 {
		t.Fatalf("redemptions want 1 got %d", redemptions)
	}

	var storedUser models.User
	if err := db.First(&storedUser, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if storedUser.Points != 9900 {
		t.Fatalf("balance want 9900 got %d", storedUser.Points)
	}
}
