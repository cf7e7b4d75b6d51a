package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDashboardRepositoryTest(t *testing.T) (*GormDashboardRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.PickupRequest{},
		&models.PointTransaction{},
		&models.RedemptionOption{},
		&models.PointRedemption{},
	); err != nil {
		t.Fatalf("migrate dashboard models failed: %v", err)
	}
	return NewDashboardRepository(db), db
}

func TestGetOverviewAggregatesWindow(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now()
	actual := models.NewWeightFromFloat(12.5)

	pickups := []models.PickupRequest{
		{UserID: 1, Address: "a", ScheduledAt: now, Status: constants.PickupStatusCompleted, WeightActual: &actual, CompletedAt: &now, CreatedAt: now},
		{UserID: 1, Address: "b", ScheduledAt: now, Status: constants.PickupStatusPending, CreatedAt: now},
	}
	for i := range pickups {
		if err := db.Create(&pickups[i]).Error; err != nil {
			t.Fatalf("create pickup failed: %v", err)
		}
	}

	txns := []models.PointTransaction{
		{UserID: 1, Points: 625, Type: models.TransactionTypeEarn, Source: models.TransactionSourcePickup, Status: models.TransactionStatusCompleted, CreatedAt: now},
		{UserID: 1, Points: 100, Type: models.TransactionTypeSpend, Source: models.TransactionSourceRedemption, Status: models.TransactionStatusCompleted, CreatedAt: now},
		{UserID: 1, Points: 999, Type: models.TransactionTypeEarn, Source: models.TransactionSourceManual, Status: models.TransactionStatusCancelled, CreatedAt: now},
	}
	for i := range txns {
		if err := db.Create(&txns[i]).Error; err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	overview, err := repo.GetOverview(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.PickupsTotal != 2 {
		t.Fatalf("pickups total want 2 got %d", overview.PickupsTotal)
	}
	if overview.PickupsCompleted != 1 {
		t.Fatalf("pickups completed want 1 got %d", overview.PickupsCompleted)
	}
	if overview.WeightCollectedKg != 12.5 {
		t.Fatalf("weight collected want 12.5 got %.2f", overview.WeightCollectedKg)
	}
	if overview.PointsEarned != 625 {
		t.Fatalf("points earned want 625 got %d", overview.PointsEarned)
	}
	if overview.PointsSpent != 100 {
		t.Fatalf("points spent want 100 got %d", overview.PointsSpent)
	}
}

func TestGetTopOptionsExcludesCancelled(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now()

	option := &models.RedemptionOption{
		Name:           "水杯",
		PointsRequired: 100,
		Stock:          10,
		IsActive:       true,
	}
	if err := db.Create(option).Error; err != nil {
		t.Fatalf("create option failed: %v", err)
	}

	redemptions := []models.PointRedemption{
		{UserID: 1, OptionID: option.ID, PointsSpent: 100, Status: models.RedemptionStatusCompleted, RedemptionCode: "GC-1", CreatedAt: now},
		{UserID: 2, OptionID: option.ID, PointsSpent: 100, Status: models.RedemptionStatusPending, RedemptionCode: "GC-2", CreatedAt: now},
		{UserID: 3, OptionID: option.ID, PointsSpent: 100, Status: models.RedemptionStatusCancelled, RedemptionCode: "GC-3", CreatedAt: now},
	}
	for i := range redemptions {
		if err := db.Create(&redemptions[i]).Error; err != nil {
			t.Fatalf("create redemption failed: %v", err)
		}
	}

	rows, err := repo.GetTopOptions(now.Add(-time.Hour), now.Add(time.Hour), 5)
	if err != nil {
		t.Fatalf("get top options failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows len want 1 got %d", len(rows))
	}
	if rows[0].OptionID != option.ID {
		t.Fatalf("option id want %d got %d", option.ID, rows[0].OptionID)
	}
	if rows[0].Redemptions != 2 {
		t.Fatalf("redemptions want 2 got %d", rows[0].Redemptions)
	}
	if rows[0].PointsSpent != 200 {
		t.Fatalf("points spent want 200 got %d", rows[0].PointsSpent)
	}
}

func TestGetStockStatsCountsUnlimitedSeparately(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)

	options := []models.RedemptionOption{
		{Name: "无限", PointsRequired: 10, Stock: constants.RedemptionStockUnlimited, IsActive: true},
		{Name: "售罄", PointsRequired: 10, Stock: 0, IsActive: true},
		{Name: "低量", PointsRequired: 10, Stock: 2, IsActive: true},
		{Name: "充足", PointsRequired: 10, Stock: 50, IsActive: true},
		{Name: "下架", PointsRequired: 10, Stock: 5, IsActive: false},
	}
	for i := range options {
		if err := db.Create(&options[i]).Error; err != nil {
			t.Fatalf("create option failed: %v", err)
		}
	}

	stats, err := repo.GetStockStats(5)
	if err != nil {
		t.Fatalf("get stock stats failed: %v", err)
	}
	if stats.UnlimitedOptions != 1 {
		t.Fatalf("unlimited want 1 got %d", stats.UnlimitedOptions)
	}
	if stats.OutOfStockOptions != 1 {
		t.Fatalf("out of stock want 1 got %d", stats.OutOfStockOptions)
	}
	if stats.LowStockOptions != 1 {
		t.Fatalf("low stock want 1 got %d", stats.LowStockOptions)
	}
	if stats.AvailableUnits != 52 {
		t.Fatalf("available units want 52 got %d", stats.AvailableUnits)
	}
}
