package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.PointTransaction{},
		&models.RedemptionOption{},
		&models.PointRedemption{},
		&models.PickupRequest{},
		&models.Partner{},
		&models.Company{},
		&models.Vehicle{},
	); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

func newPointsServiceForTest(t *testing.T, db *gorm.DB) *PointsService {
	t.Helper()
	return NewPointsService(
		repository.NewPointTransactionRepository(db),
		repository.NewUserRepository(db),
	)
}

func createTestUser(t *testing.T, db *gorm.DB, email string, points int) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  "测试用户",
		Points:       points,
		Status:       "active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	return &user
}

func TestCreateTransactionUpdatesBalance(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "earn@test.dev", 0)

	txn, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 500,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourcePickup,
	})
	if err != nil {
		t.Fatalf("create earn transaction failed: %v", err)
	}
	if txn.Status != models.TransactionStatusCompleted {
		t.Fatalf("default status want completed got %s", txn.Status)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 500 {
		t.Fatalf("balance want 500 got %d", got)
	}

	if _, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 120,
		Type:   models.TransactionTypeSpend,
		Source: models.TransactionSourceRedemption,
	}); err != nil {
		t.Fatalf("create spend transaction failed: %v", err)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 380 {
		t.Fatalf("balance want 380 got %d", got)
	}
}

func TestCreateTransactionRejectsInvalidInput(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "invalid@test.dev", 0)

	if _, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 0,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourcePickup,
	}); !errors.Is(err, ErrInvalidPoints) {
		t.Fatalf("zero points want ErrInvalidPoints got %v", err)
	}

	if _, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: -5,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourcePickup,
	}); !errors.Is(err, ErrInvalidPoints) {
		t.Fatalf("negative points want ErrInvalidPoints got %v", err)
	}

	if _, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: 9999,
		Points: 10,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourcePickup,
	}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user want ErrUserNotFound got %v", err)
	}
}

func TestSpendRejectedWhenBalanceInsufficient(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "poor@test.dev", 30)

	_, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 100,
		Type:   models.TransactionTypeSpend,
		Source: models.TransactionSourceRedemption,
	})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("want ErrInsufficientPoints got %v", err)
	}

	if got := reloadUser(t, db, user.ID).Points; got != 30 {
		t.Fatalf("balance must stay 30, got %d", got)
	}
	var count int64
	if err := db.Model(&models.PointTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed spend must persist nothing, got %d rows", count)
	}
}

func TestPendingTransactionAppliesOnConfirm(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "pending@test.dev", 0)

	txn, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 200,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourceReward,
		Status: models.TransactionStatusPending,
	})
	if err != nil {
		t.Fatalf("create pending transaction failed: %v", err)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 0 {
		t.Fatalf("pending must not touch balance, got %d", got)
	}

	confirmed, err := svc.ConfirmTransaction(txn.ID)
	if err != nil {
		t.Fatalf("confirm transaction failed: %v", err)
	}
	if confirmed.Status != models.TransactionStatusCompleted {
		t.Fatalf("status want completed got %s", confirmed.Status)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 200 {
		t.Fatalf("confirmed balance want 200 got %d", got)
	}

	if _, err := svc.ConfirmTransaction(txn.ID); !errors.Is(err, ErrTransactionStatusInvalid) {
		t.Fatalf("double confirm want ErrTransactionStatusInvalid got %v", err)
	}
}

func TestCancelTransactionReversesAndIsIdempotent(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "cancel@test.dev", 0)

	txn, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 300,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourcePickup,
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 300 {
		t.Fatalf("balance want 300 got %d", got)
	}

	cancelled, err := svc.CancelTransaction(txn.ID)
	if err != nil {
		t.Fatalf("cancel transaction failed: %v", err)
	}
	if cancelled.Status != models.TransactionStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 0 {
		t.Fatalf("cancelled earn must refund to 0, got %d", got)
	}

	// 第二次取消幂等，不再变动余额
	again, err := svc.CancelTransaction(txn.ID)
	if err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if again.Status != models.TransactionStatusCancelled {
		t.Fatalf("second cancel status want cancelled got %s", again.Status)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 0 {
		t.Fatalf("double cancel must not change balance, got %d", got)
	}
}

func TestCancelPendingTransactionLeavesBalance(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "cancel-pending@test.dev", 80)

	txn, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 40,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourceManual,
		Status: models.TransactionStatusPending,
	})
	if err != nil {
		t.Fatalf("create pending transaction failed: %v", err)
	}

	if _, err := svc.CancelTransaction(txn.ID); err != nil {
		t.Fatalf("cancel pending failed: %v", err)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 80 {
		t.Fatalf("cancelling pending must not move balance, got %d", got)
	}
}

func TestGetSummaryMatchesLedger(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "summary@test.dev", 0)

	for _, input := range []CreateTransactionInput{
		{UserID: user.ID, Points: 500, Type: models.TransactionTypeEarn, Source: models.TransactionSourcePickup},
		{UserID: user.ID, Points: 200, Type: models.TransactionTypeEarn, Source: models.TransactionSourceReferral},
		{UserID: user.ID, Points: 120, Type: models.TransactionTypeSpend, Source: models.TransactionSourceRedemption},
	} {
		if _, err := svc.CreateTransaction(input); err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	summary, err := svc.GetSummary(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if summary.TotalEarned != 700 || summary.TotalSpent != 120 || summary.Balance != 580 {
		t.Fatalf("summary = %+v, want earned 700 spent 120 balance 580", summary)
	}
	if got := reloadUser(t, db, user.ID).Points; got != summary.Balance {
		t.Fatalf("denormalized balance %d must equal ledger balance %d", got, summary.Balance)
	}
}

func TestReconcileUserBalanceFixesDrift(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "drift@test.dev", 0)

	if _, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 250,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourcePickup,
	}); err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}

	// 人为制造余额漂移
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("points", 999).Error; err != nil {
		t.Fatalf("force drift failed: %v", err)
	}

	corrected, err := svc.ReconcileUserBalance(user.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if !corrected {
		t.Fatalf("expected drift correction")
	}
	if got := reloadUser(t, db, user.ID).Points; got != 250 {
		t.Fatalf("reconciled balance want 250 got %d", got)
	}

	corrected, err = svc.ReconcileUserBalance(user.ID)
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	if corrected {
		t.Fatalf("no drift expected after reconciliation")
	}
}

func TestCancelEarnAfterSpendDrivesBalanceNegative(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPointsServiceForTest(t, db)
	user := createTestUser(t, db, "reversal@test.dev", 0)

	earn, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 300,
		Type:   models.TransactionTypeEarn,
		Source: models.TransactionSourcePickup,
	})
	if err != nil {
		t.Fatalf("create earn failed: %v", err)
	}
	if _, err := svc.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Points: 200,
		Type:   models.TransactionTypeSpend,
		Source: models.TransactionSourceRedemption,
	}); err != nil {
		t.Fatalf("create spend failed: %v", err)
	}

	// 撤销已消费过的 earn 流水：余额跟随流水之和转负
	if _, err := svc.CancelTransaction(earn.ID); err != nil {
		t.Fatalf("cancel earn failed: %v", err)
	}
	if got := reloadUser(t, db, user.ID).Points; got != -200 {
		t.Fatalf("balance want -200 got %d", got)
	}

	corrected, err := svc.ReconcileUserBalance(user.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if corrected {
		t.Fatalf("negative balance already matches ledger, reconcile must not correct")
	}
}
