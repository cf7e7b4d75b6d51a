package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"

	"gorm.io/gorm"
)

func newRedemptionServiceForTest(t *testing.T, db *gorm.DB) (*RedemptionService, *PointsService) {
	t.Helper()
	pointsSvc := newPointsServiceForTest(t, db)
	svc := NewRedemptionService(
		repository.NewRedemptionOptionRepository(db),
		repository.NewPointRedemptionRepository(db),
		repository.NewPartnerRepository(db),
		pointsSvc,
		nil,
		"GC",
		72,
	)
	return svc, pointsSvc
}

func createTestOption(t *testing.T, db *gorm.DB, name string, points, stock int) *models.RedemptionOption {
	t.Helper()
	option := &models.RedemptionOption{
		Name:           name,
		PointsRequired: points,
		Stock:          stock,
		IsActive:       true,
	}
	if err := db.Create(option).Error; err != nil {
		t.Fatalf("create option failed: %v", err)
	}
	return option
}

func reloadOption(t *testing.T, db *gorm.DB, id uint) *models.RedemptionOption {
	t.Helper()
	var option models.RedemptionOption
	if err := db.First(&option, id).Error; err != nil {
		t.Fatalf("reload option failed: %v", err)
	}
	return &option
}

func TestRedeemHappyPath(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	user := createTestUser(t, db, "redeem@test.dev", 100)
	option := createTestOption(t, db, "环保帆布袋", 100, 1)

	redemption, err := svc.Redeem(user.ID, option.ID)
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	if redemption.Status != models.RedemptionStatusPending {
		t.Fatalf("status want pending got %s", redemption.Status)
	}
	if redemption.PointsSpent != 100 {
		t.Fatalf("points_spent want 100 got %d", redemption.PointsSpent)
	}
	if !strings.HasPrefix(redemption.RedemptionCode, "GC-") {
		t.Fatalf("redemption code %q missing prefix", redemption.RedemptionCode)
	}
	if redemption.TransactionID == nil {
		t.Fatalf("redemption must link its spend transaction")
	}

	if got := reloadUser(t, db, user.ID).Points; got != 0 {
		t.Fatalf("balance want 0 got %d", got)
	}
	if got := reloadOption(t, db, option.ID).Stock; got != 0 {
		t.Fatalf("stock want 0 got %d", got)
	}

	var txn models.PointTransaction
	if err := db.First(&txn, *redemption.TransactionID).Error; err != nil {
		t.Fatalf("load spend transaction failed: %v", err)
	}
	if txn.Type != models.TransactionTypeSpend || txn.Source != models.TransactionSourceRedemption {
		t.Fatalf("spend transaction = %s/%s, want spend/redemption", txn.Type, txn.Source)
	}
	if txn.Status != models.TransactionStatusCompleted || txn.Points != 100 {
		t.Fatalf("spend transaction %d points %s, want 100 completed", txn.Points, txn.Status)
	}
	if txn.RedemptionID == nil || *txn.RedemptionID != redemption.ID {
		t.Fatalf("transaction must link back to redemption %d", redemption.ID)
	}
}

func TestRedeemInsufficientPointsPersistsNothing(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	user := createTestUser(t, db, "short@test.dev", 50)
	option := createTestOption(t, db, "堆肥桶", 100, 3)

	if _, err := svc.Redeem(user.ID, option.ID); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("want ErrInsufficientPoints got %v", err)
	}

	if got := reloadUser(t, db, user.ID).Points; got != 50 {
		t.Fatalf("balance must stay 50, got %d", got)
	}
	if got := reloadOption(t, db, option.ID).Stock; got != 3 {
		t.Fatalf("stock must roll back to 3, got %d", got)
	}
	var count int64
	if err := db.Model(&models.PointRedemption{}).Count(&count).Error; err != nil {
		t.Fatalf("count redemptions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed redeem must persist nothing, got %d rows", count)
	}
}

func TestRedeemStockExhaustion(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	user := createTestUser(t, db, "stock@test.dev", 1000)
	option := createTestOption(t, db, "再生纸本", 10, 2)

	for i := 0; i < 2; i++ {
		if _, err := svc.Redeem(user.ID, option.ID); err != nil {
			t.Fatalf("redeem %d failed: %v", i+1, err)
		}
	}
	if _, err := svc.Redeem(user.ID, option.ID); !errors.Is(err, ErrOptionOutOfStock) {
		t.Fatalf("third redeem want ErrOptionOutOfStock got %v", err)
	}
	if got := reloadOption(t, db, option.ID).Stock; got != 0 {
		t.Fatalf("stock must never go negative, got %d", got)
	}
}

func TestRedeemUnlimitedStockNeverDecrements(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	user := createTestUser(t, db, "unlimited@test.dev", 1000)
	option := createTestOption(t, db, "电子优惠券", 50, -1)

	for i := 0; i < 3; i++ {
		if _, err := svc.Redeem(user.ID, option.ID); err != nil {
			t.Fatalf("redeem %d failed: %v", i+1, err)
		}
	}
	if got := reloadOption(t, db, option.ID).Stock; got != -1 {
		t.Fatalf("unlimited stock must stay -1, got %d", got)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 850 {
		t.Fatalf("balance want 850 got %d", got)
	}
}

func TestRedeemInactiveOption(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	user := createTestUser(t, db, "inactive@test.dev", 500)
	option := createTestOption(t, db, "下架商品", 10, 5)
	if err := db.Model(&models.RedemptionOption{}).Where("id = ?", option.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate option failed: %v", err)
	}

	if _, err := svc.Redeem(user.ID, option.ID); !errors.Is(err, ErrOptionInactive) {
		t.Fatalf("want ErrOptionInactive got %v", err)
	}
}

func TestCancelRedemptionRefundsAndRestoresStock(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	user := createTestUser(t, db, "refund@test.dev", 100)
	option := createTestOption(t, db, "环保水杯", 100, 1)

	redemption, err := svc.Redeem(user.ID, option.ID)
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	cancelled, err := svc.CancelRedemption(redemption.ID, "用户反悔")
	if err != nil {
		t.Fatalf("cancel redemption failed: %v", err)
	}
	if cancelled.Status != models.RedemptionStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 100 {
		t.Fatalf("refunded balance want 100 got %d", got)
	}
	if got := reloadOption(t, db, option.ID).Stock; got != 1 {
		t.Fatalf("restored stock want 1 got %d", got)
	}

	// 再次取消幂等：不重复退款或回补
	if _, err := svc.CancelRedemption(redemption.ID, ""); err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 100 {
		t.Fatalf("double cancel must not refund twice, got %d", got)
	}
	if got := reloadOption(t, db, option.ID).Stock; got != 1 {
		t.Fatalf("double cancel must not restock twice, got %d", got)
	}
}

func TestFulfillRedemption(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	user := createTestUser(t, db, "fulfill@test.dev", 200)
	option := createTestOption(t, db, "有机肥料", 100, 5)

	redemption, err := svc.Redeem(user.ID, option.ID)
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	fulfilled, err := svc.FulfillRedemption(redemption.ID, "门店已核销")
	if err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}
	if fulfilled.Status != models.RedemptionStatusCompleted || fulfilled.FulfilledAt == nil {
		t.Fatalf("fulfilled = %s/%v, want completed with timestamp", fulfilled.Status, fulfilled.FulfilledAt)
	}

	// 已完成后再核销幂等
	if _, err := svc.FulfillRedemption(redemption.ID, ""); err != nil {
		t.Fatalf("second fulfill should be idempotent: %v", err)
	}
	// 已完成的兑换不可取消
	if _, err := svc.CancelRedemption(redemption.ID, ""); !errors.Is(err, ErrRedemptionStatusInvalid) {
		t.Fatalf("cancel after fulfill want ErrRedemptionStatusInvalid got %v", err)
	}
}

func TestExpireDueRedemptions(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	user := createTestUser(t, db, "expire@test.dev", 300)
	option := createTestOption(t, db, "再生购物袋", 100, 10)

	stale, err := svc.Redeem(user.ID, option.ID)
	if err != nil {
		t.Fatalf("redeem stale failed: %v", err)
	}
	fresh, err := svc.Redeem(user.ID, option.ID)
	if err != nil {
		t.Fatalf("redeem fresh failed: %v", err)
	}

	// 把第一条做旧到超时窗口之外
	staleAt := time.Now().Add(-80 * time.Hour)
	if err := db.Model(&models.PointRedemption{}).Where("id = ?", stale.ID).Update("created_at", staleAt).Error; err != nil {
		t.Fatalf("age redemption failed: %v", err)
	}

	expired, err := svc.ExpireDueRedemptions(time.Now())
	if err != nil {
		t.Fatalf("expire sweep failed: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired count want 1 got %d", expired)
	}

	staleRow, err := svc.GetRedemption(stale.ID)
	if err != nil {
		t.Fatalf("load stale redemption failed: %v", err)
	}
	if staleRow.Status != models.RedemptionStatusExpired {
		t.Fatalf("stale status want expired got %s", staleRow.Status)
	}
	freshRow, err := svc.GetRedemption(fresh.ID)
	if err != nil {
		t.Fatalf("load fresh redemption failed: %v", err)
	}
	if freshRow.Status != models.RedemptionStatusPending {
		t.Fatalf("fresh status want pending got %s", freshRow.Status)
	}
	// 过期退款 100，余额 100 + 退回 100 = 200
	if got := reloadUser(t, db, user.ID).Points; got != 200 {
		t.Fatalf("balance after expiry want 200 got %d", got)
	}
	if got := reloadOption(t, db, option.ID).Stock; got != 9 {
		t.Fatalf("stock after expiry want 9 got %d", got)
	}
}

func TestUpdateStock(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)
	option := createTestOption(t, db, "库存调整", 10, 5)

	updated, err := svc.UpdateStock(option.ID, 3)
	if err != nil {
		t.Fatalf("consume stock failed: %v", err)
	}
	if updated.Stock != 2 {
		t.Fatalf("stock want 2 got %d", updated.Stock)
	}

	if _, err := svc.UpdateStock(option.ID, 5); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("overdraw want ErrInsufficientStock got %v", err)
	}
	if got := reloadOption(t, db, option.ID).Stock; got != 2 {
		t.Fatalf("failed overdraw must not change stock, got %d", got)
	}

	updated, err = svc.UpdateStock(option.ID, -4)
	if err != nil {
		t.Fatalf("restore stock failed: %v", err)
	}
	if updated.Stock != 6 {
		t.Fatalf("restored stock want 6 got %d", updated.Stock)
	}

	unlimited := createTestOption(t, db, "不限量", 10, -1)
	updated, err = svc.UpdateStock(unlimited.ID, 99)
	if err != nil {
		t.Fatalf("unlimited update failed: %v", err)
	}
	if updated.Stock != -1 {
		t.Fatalf("unlimited stock must stay -1, got %d", updated.Stock)
	}
}

func TestCreateOptionPersistsZeroValues(t *testing.T) {
	db := setupServiceTestDB(t)
	svc, _ := newRedemptionServiceForTest(t, db)

	created, err := svc.CreateOption(RedemptionOptionInput{
		Name:           "售罄样品",
		PointsRequired: 50,
		Stock:          0,
		IsActive:       false,
	})
	if err != nil {
		t.Fatalf("create option failed: %v", err)
	}

	stored := reloadOption(t, db, created.ID)
	if stored.Stock != 0 {
		t.Fatalf("stock want 0 (exhausted) got %d", stored.Stock)
	}
	if stored.IsActive {
		t.Fatalf("is_active want false got true")
	}
	if stored.Unlimited() || stored.InStock() {
		t.Fatalf("exhausted option must not be redeemable: stock=%d", stored.Stock)
	}
}
