//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
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
		&models.PickupRequest{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.User{},
		&models.PickupRequest{},
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

func TestPostgresRedemptionOptionStockCAS(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewRedemptionOptionRepository(db)

	option := &models.RedemptionOption{
		Name:           "pg-option",
		PointsRequired: 100,
		Stock:          1,
		IsActive:       true,
	}
	if err := repo.Create(option); err != nil {
		t.Fatalf("create option failed: %v", err)
	}

	affected, err := repo.DecrementStock(option.ID)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("first decrement want 1 affected got %d", affected)
	}

	affected, err = repo.DecrementStock(option.ID)
	if err != nil {
		t.Fatalf("second decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second decrement want 0 affected got %d", affected)
	}

	unlimited := &models.RedemptionOption{
		Name:           "pg-unlimited",
		PointsRequired: 100,
		Stock:          constants.RedemptionStockUnlimited,
		IsActive:       true,
	}
	if err := repo.Create(unlimited); err != nil {
		t.Fatalf("create unlimited option failed: %v", err)
	}
	affected, err = repo.IncrementStock(unlimited.ID)
	if err != nil {
		t.Fatalf("increment unlimited failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("increment unlimited want 0 affected got %d", affected)
	}
}

func TestPostgresSumBalanceByUserID(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPointTransactionRepository(db)

	txns := []models.PointTransaction{
		{UserID: 7, Points: 500, Type: models.TransactionTypeEarn, Source: models.TransactionSourcePickup, Status: models.TransactionStatusCompleted},
		{UserID: 7, Points: 120, Type: models.TransactionTypeSpend, Source: models.TransactionSourceRedemption, Status: models.TransactionStatusCompleted},
		{UserID: 7, Points: 300, Type: models.TransactionTypeEarn, Source: models.TransactionSourceManual, Status: models.TransactionStatusCancelled},
		{UserID: 7, Points: 50, Type: models.TransactionTypeEarn, Source: models.TransactionSourceReferral, Status: models.TransactionStatusPending},
	}
	for i := range txns {
		if err := repo.Create(&txns[i]); err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	balance, err := repo.SumBalanceByUserID(7)
	if err != nil {
		t.Fatalf("sum balance failed: %v", err)
	}
	if balance != 380 {
		t.Fatalf("balance want 380 got %d", balance)
	}
}
