package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOptionRepositoryTest(t *testing.T) (*GormRedemptionOptionRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.RedemptionOption{}, &models.Partner{}); err != nil {
		t.Fatalf("migrate option models failed: %v", err)
	}
	return NewRedemptionOptionRepository(db), db
}

func createTestOption(t *testing.T, repo *GormRedemptionOptionRepository, name string, stock int) *models.RedemptionOption {
	t.Helper()
	option := &models.RedemptionOption{
		Name:           name,
		PointsRequired: 100,
		Stock:          stock,
		IsActive:       true,
	}
	if err := repo.Create(option); err != nil {
		t.Fatalf("create option failed: %v", err)
	}
	return option
}

func TestDecrementStockExhaustsExactly(t *testing.T) {
	repo, _ := setupOptionRepositoryTest(t)
	option := createTestOption(t, repo, "limited", 3)

	for i := 0; i < 3; i++ {
		affected, err := repo.DecrementStock(option.ID)
		if err != nil {
			t.Fatalf("decrement %d failed: %v", i, err)
		}
		if affected != 1 {
			t.Fatalf("decrement %d want 1 affected got %d", i, affected)
		}
	}

	affected, err := repo.DecrementStock(option.ID)
	if err != nil {
		t.Fatalf("exhausted decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("exhausted decrement want 0 affected got %d", affected)
	}

	got, err := repo.GetByID(option.ID)
	if err != nil {
		t.Fatalf("get option failed: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("stock want 0 got %d", got.Stock)
	}
}

func TestDecrementStockSkipsUnlimited(t *testing.T) {
	repo, _ := setupOptionRepositoryTest(t)
	option := createTestOption(t, repo, "unlimited", constants.RedemptionStockUnlimited)

	affected, err := repo.DecrementStock(option.ID)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("unlimited decrement want 0 affected got %d", affected)
	}

	got, err := repo.GetByID(option.ID)
	if err != nil {
		t.Fatalf("get option failed: %v", err)
	}
	if got.Stock != constants.RedemptionStockUnlimited {
		t.Fatalf("stock want %d got %d", constants.RedemptionStockUnlimited, got.Stock)
	}
}

func TestIncrementStockRestoresLimitedOnly(t *testing.T) {
	repo, _ := setupOptionRepositoryTest(t)
	limited := createTestOption(t, repo, "limited", 2)
	unlimited := createTestOption(t, repo, "unlimited", constants.RedemptionStockUnlimited)

	affected, err := repo.IncrementStock(limited.ID)
	if err != nil {
		t.Fatalf("increment limited failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("increment limited want 1 affected got %d", affected)
	}
	got, _ := repo.GetByID(limited.ID)
	if got.Stock != 3 {
		t.Fatalf("limited stock want 3 got %d", got.Stock)
	}

	affected, err = repo.IncrementStock(unlimited.ID)
	if err != nil {
		t.Fatalf("increment unlimited failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("increment unlimited want 0 affected got %d", affected)
	}
}

func TestAdjustStockRejectsOverdraw(t *testing.T) {
	repo, _ := setupOptionRepositoryTest(t)
	option := createTestOption(t, repo, "limited", 5)

	affected, err := repo.AdjustStock(option.ID, -3)
	if err != nil {
		t.Fatalf("adjust -3 failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("adjust -3 want 1 affected got %d", affected)
	}
	got, _ := repo.GetByID(option.ID)
	if got.Stock != 2 {
		t.Fatalf("stock want 2 got %d", got.Stock)
	}

	affected, err = repo.AdjustStock(option.ID, -3)
	if err != nil {
		t.Fatalf("overdraw adjust failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("overdraw adjust want 0 affected got %d", affected)
	}

	affected, err = repo.AdjustStock(option.ID, 10)
	if err != nil {
		t.Fatalf("adjust +10 failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("adjust +10 want 1 affected got %d", affected)
	}
	got, _ = repo.GetByID(option.ID)
	if got.Stock != 12 {
		t.Fatalf("stock want 12 got %d", got.Stock)
	}
}

func TestListOptionsFilters(t *testing.T) {
	repo, db := setupOptionRepositoryTest(t)

	partner := &models.Partner{Name: "绿源商城", IsActive: true}
	if err := db.Create(partner).Error; err != nil {
		t.Fatalf("create partner failed: %v", err)
	}

	options := []models.RedemptionOption{
		{Name: "环保水杯", PointsRequired: 200, Stock: 10, IsActive: true, Category: "life", PartnerID: &partner.ID},
		{Name: "购物袋", PointsRequired: 50, Stock: 0, IsActive: true, Category: "life"},
		{Name: "电影票", PointsRequired: 800, Stock: constants.RedemptionStockUnlimited, IsActive: true, Category: "ticket"},
		{Name: "下架商品", PointsRequired: 10, Stock: 5, IsActive: false, Category: "life"},
	}
	for i := range options {
		if err := repo.Create(&options[i]); err != nil {
			t.Fatalf("create option failed: %v", err)
		}
	}

	active := true
	rows, total, err := repo.List(RedemptionOptionListFilter{Page: 1, PageSize: 10, IsActive: &active})
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("active total want 3 got %d", total)
	}

	rows, total, err = repo.List(RedemptionOptionListFilter{Page: 1, PageSize: 10, IsActive: &active, InStock: true})
	if err != nil {
		t.Fatalf("list in stock failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("in stock total want 2 got %d", total)
	}

	rows, total, err = repo.List(RedemptionOptionListFilter{Page: 1, PageSize: 10, MaxPoints: 100})
	if err != nil {
		t.Fatalf("list max points failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("max points total want 2 got %d", total)
	}

	rows, total, err = repo.List(RedemptionOptionListFilter{Page: 1, PageSize: 10, PartnerID: partner.ID})
	if err != nil {
		t.Fatalf("list by partner failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("partner total want 1 got total=%d len=%d", total, len(rows))
	}
	if rows[0].Name != "环保水杯" {
		t.Fatalf("partner option want 环保水杯 got %s", rows[0].Name)
	}
}
