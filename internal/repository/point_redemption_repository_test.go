package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/greencycle/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRedemptionRepositoryTest(t *testing.T) *GormPointRedemptionRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PointRedemption{}, &models.RedemptionOption{}); err != nil {
		t.Fatalf("migrate redemption models failed: %v", err)
	}
	return NewPointRedemptionRepository(db)
}

func TestGetByCodeReturnsNilOnMiss(t *testing.T) {
	repo := setupRedemptionRepositoryTest(t)

	redemption := &models.PointRedemption{
		UserID:         1,
		OptionID:       1,
		PointsSpent:    100,
		Status:         models.RedemptionStatusPending,
		RedemptionCode: "GC-20260901-ABCD1234",
	}
	if err := repo.Create(redemption); err != nil {
		t.Fatalf("create redemption failed: %v", err)
	}

	got, err := repo.GetByCode("GC-20260901-ABCD1234")
	if err != nil {
		t.Fatalf("get by code failed: %v", err)
	}
	if got == nil || got.ID != redemption.ID {
		t.Fatalf("get by code want id %d got %+v", redemption.ID, got)
	}

	got, err = repo.GetByCode("GC-UNKNOWN")
	if err != nil {
		t.Fatalf("get by unknown code failed: %v", err)
	}
	if got != nil {
		t.Fatalf("unknown code want nil got %+v", got)
	}
}

func TestListPendingBeforeSelectsExpiredOnly(t *testing.T) {
	repo := setupRedemptionRepositoryTest(t)
	now := time.Now()

	redemptions := []models.PointRedemption{
		{UserID: 1, OptionID: 1, PointsSpent: 100, Status: models.RedemptionStatusPending, RedemptionCode: "GC-1", CreatedAt: now.Add(-48 * time.Hour)},
		{UserID: 2, OptionID: 1, PointsSpent: 100, Status: models.RedemptionStatusPending, RedemptionCode: "GC-2", CreatedAt: now},
		{UserID: 3, OptionID: 1, PointsSpent: 100, Status: models.RedemptionStatusCompleted, RedemptionCode: "GC-3", CreatedAt: now.Add(-48 * time.Hour)},
	}
	for i := range redemptions {
		if err := repo.Create(&redemptions[i]); err != nil {
			t.Fatalf("create redemption failed: %v", err)
		}
	}

	rows, err := repo.ListPendingBefore(now.Add(-24*time.Hour), 10)
	if err != nil {
		t.Fatalf("list pending before failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows len want 1 got %d", len(rows))
	}
	if rows[0].RedemptionCode != "GC-1" {
		t.Fatalf("row want GC-1 got %s", rows[0].RedemptionCode)
	}
}
