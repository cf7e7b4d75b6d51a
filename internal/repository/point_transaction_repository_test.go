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

func setupTransactionRepositoryTest(t *testing.T) *GormPointTransactionRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PointTransaction{}); err != nil {
		t.Fatalf("migrate transaction models failed: %v", err)
	}
	return NewPointTransactionRepository(db)
}

func TestSumBalanceByUserIDCountsCompletedOnly(t *testing.T) {
	repo := setupTransactionRepositoryTest(t)

	txns := []models.PointTransaction{
		{UserID: 1, Points: 500, Type: models.TransactionTypeEarn, Source: models.TransactionSourcePickup, Status: models.TransactionStatusCompleted},
		{UserID: 1, Points: 120, Type: models.TransactionTypeSpend, Source: models.TransactionSourceRedemption, Status: models.TransactionStatusCompleted},
		{UserID: 1, Points: 300, Type: models.TransactionTypeEarn, Source: models.TransactionSourceManual, Status: models.TransactionStatusCancelled},
		{UserID: 1, Points: 50, Type: models.TransactionTypeEarn, Source: models.TransactionSourceReferral, Status: models.TransactionStatusPending},
		{UserID: 2, Points: 999, Type: models.TransactionTypeEarn, Source: models.TransactionSourceSystem, Status: models.TransactionStatusCompleted},
	}
	for i := range txns {
		if err := repo.Create(&txns[i]); err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	balance, err := repo.SumBalanceByUserID(1)
	if err != nil {
		t.Fatalf("sum balance failed: %v", err)
	}
	if balance != 380 {
		t.Fatalf("balance want 380 got %d", balance)
	}

	balance, err = repo.SumBalanceByUserID(3)
	if err != nil {
		t.Fatalf("sum balance empty failed: %v", err)
	}
	if balance != 0 {
		t.Fatalf("empty balance want 0 got %d", balance)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	repo := setupTransactionRepositoryTest(t)
	now := time.Now()

	txns := []models.PointTransaction{
		{UserID: 1, Points: 100, Type: models.TransactionTypeEarn, Source: models.TransactionSourcePickup, Status: models.TransactionStatusCompleted, CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: 1, Points: 200, Type: models.TransactionTypeEarn, Source: models.TransactionSourceReferral, Status: models.TransactionStatusCompleted, CreatedAt: now},
		{UserID: 1, Points: 50, Type: models.TransactionTypeSpend, Source: models.TransactionSourceRedemption, Status: models.TransactionStatusCompleted, CreatedAt: now},
		{UserID: 2, Points: 80, Type: models.TransactionTypeEarn, Source: models.TransactionSourcePickup, Status: models.TransactionStatusCompleted, CreatedAt: now},
	}
	for i := range txns {
		if err := repo.Create(&txns[i]); err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	rows, total, err := repo.List(PointTransactionListFilter{Page: 1, PageSize: 10, UserID: 1})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("user total want 3 got %d", total)
	}
	if rows[0].ID <= rows[1].ID {
		t.Fatalf("rows should be ordered by id desc")
	}

	_, total, err = repo.List(PointTransactionListFilter{Page: 1, PageSize: 10, UserID: 1, Type: string(models.TransactionTypeSpend)})
	if err != nil {
		t.Fatalf("list by type failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("spend total want 1 got %d", total)
	}

	from := now.Add(-time.Hour)
	_, total, err = repo.List(PointTransactionListFilter{Page: 1, PageSize: 10, UserID: 1, CreatedFrom: &from})
	if err != nil {
		t.Fatalf("list by created from failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("window total want 2 got %d", total)
	}
}

func TestListUserIDsWithTransactions(t *testing.T) {
	repo := setupTransactionRepositoryTest(t)

	txns := []models.PointTransaction{
		{UserID: 3, Points: 10, Type: models.TransactionTypeEarn, Source: models.TransactionSourceSystem, Status: models.TransactionStatusCompleted},
		{UserID: 1, Points: 10, Type: models.TransactionTypeEarn, Source: models.TransactionSourceSystem, Status: models.TransactionStatusCompleted},
		{UserID: 1, Points: 20, Type: models.TransactionTypeSpend, Source: models.TransactionSourceRedemption, Status: models.TransactionStatusCompleted},
	}
	for i := range txns {
		if err := repo.Create(&txns[i]); err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	ids, err := repo.ListUserIDsWithTransactions()
	if err != nil {
		t.Fatalf("list user ids failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids len want 2 got %d", len(ids))
	}
	if ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("ids want [1 3] got %v", ids)
	}
}
