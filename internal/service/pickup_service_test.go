package service

import (
	"errors"
	"testing"
	"time"

	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"

	"gorm.io/gorm"
)

func newPickupServiceForTest(t *testing.T, db *gorm.DB) *PickupService {
	t.Helper()
	return NewPickupService(
		repository.NewPickupRequestRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewVehicleRepository(db),
		newPointsServiceForTest(t, db),
		nil,
		50,
	)
}

func schedulePickupForTest(t *testing.T, svc *PickupService, userID uint, weight string) *models.PickupRequest {
	t.Helper()
	estimate, err := models.NewWeightFromString(weight)
	if err != nil {
		t.Fatalf("parse weight failed: %v", err)
	}
	pickup, err := svc.SchedulePickup(SchedulePickupInput{
		UserID:         userID,
		Address:        "幸福路 12 号",
		ScheduledAt:    time.Now().Add(24 * time.Hour),
		WeightEstimate: estimate,
	})
	if err != nil {
		t.Fatalf("schedule pickup failed: %v", err)
	}
	return pickup
}

func TestSchedulePickupEstimatesPoints(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPickupServiceForTest(t, db)
	user := createTestUser(t, db, "schedule@test.dev", 0)

	pickup := schedulePickupForTest(t, svc, user.ID, "4.5")
	if pickup.Status != constants.PickupStatusPending {
		t.Fatalf("status want pending got %s", pickup.Status)
	}
	if pickup.PointsEstimate != 225 {
		t.Fatalf("points_estimate want 225 got %d", pickup.PointsEstimate)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 0 {
		t.Fatalf("scheduling must not credit points, got %d", got)
	}
}

func TestCompletePickupCreditsPoints(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPickupServiceForTest(t, db)
	user := createTestUser(t, db, "complete@test.dev", 0)
	pickup := schedulePickupForTest(t, svc, user.ID, "3.0")

	actual, err := models.NewWeightFromString("3.2")
	if err != nil {
		t.Fatalf("parse weight failed: %v", err)
	}
	completed, err := svc.CompletePickup(pickup.ID, actual)
	if err != nil {
		t.Fatalf("complete pickup failed: %v", err)
	}

	if completed.Status != constants.PickupStatusCompleted {
		t.Fatalf("status want completed got %s", completed.Status)
	}
	if completed.PointsEarned != 160 {
		t.Fatalf("points_earned want floor(3.2*50)=160 got %d", completed.PointsEarned)
	}
	if completed.WeightActual == nil || completed.WeightActual.String() != "3.20" {
		t.Fatalf("weight_actual = %v, want 3.20", completed.WeightActual)
	}
	if completed.CompletedAt == nil {
		t.Fatalf("completed_at must be set")
	}

	if got := reloadUser(t, db, user.ID).Points; got != 160 {
		t.Fatalf("balance want 160 got %d", got)
	}
	var txn models.PointTransaction
	if err := db.Where("user_id = ?", user.ID).First(&txn).Error; err != nil {
		t.Fatalf("load earn transaction failed: %v", err)
	}
	if txn.Type != models.TransactionTypeEarn || txn.Source != models.TransactionSourcePickup {
		t.Fatalf("earn transaction = %s/%s, want earn/pickup", txn.Type, txn.Source)
	}
	if txn.Points != 160 || txn.Status != models.TransactionStatusCompleted {
		t.Fatalf("earn transaction %d %s, want 160 completed", txn.Points, txn.Status)
	}
}

func TestCompletePickupIsNotRepeatable(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPickupServiceForTest(t, db)
	user := createTestUser(t, db, "repeat@test.dev", 0)
	pickup := schedulePickupForTest(t, svc, user.ID, "2.0")

	actual, _ := models.NewWeightFromString("2.0")
	if _, err := svc.CompletePickup(pickup.ID, actual); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}
	if _, err := svc.CompletePickup(pickup.ID, actual); !errors.Is(err, ErrPickupStatusInvalid) {
		t.Fatalf("second complete want ErrPickupStatusInvalid got %v", err)
	}
	if got := reloadUser(t, db, user.ID).Points; got != 100 {
		t.Fatalf("balance must only be credited once, got %d", got)
	}
}

func TestCompletePickupZeroWeightEarnsNothing(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPickupServiceForTest(t, db)
	user := createTestUser(t, db, "zero@test.dev", 0)
	pickup := schedulePickupForTest(t, svc, user.ID, "5.0")

	actual, _ := models.NewWeightFromString("0")
	completed, err := svc.CompletePickup(pickup.ID, actual)
	if err != nil {
		t.Fatalf("complete with zero weight failed: %v", err)
	}
	if completed.PointsEarned != 0 {
		t.Fatalf("points_earned want 0 got %d", completed.PointsEarned)
	}
	var count int64
	if err := db.Model(&models.PointTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("zero-point completion must not write a transaction, got %d", count)
	}
}

func TestCancelPickupRules(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPickupServiceForTest(t, db)
	user := createTestUser(t, db, "cancel-pickup@test.dev", 0)
	pickup := schedulePickupForTest(t, svc, user.ID, "1.0")

	cancelled, err := svc.CancelPickup(user.ID, pickup.ID)
	if err != nil {
		t.Fatalf("cancel pickup failed: %v", err)
	}
	if cancelled.Status != constants.PickupStatusCanceled {
		t.Fatalf("status want canceled got %s", cancelled.Status)
	}

	// 已取消后不可完成
	actual, _ := models.NewWeightFromString("1.0")
	if _, err := svc.CompletePickup(pickup.ID, actual); !errors.Is(err, ErrPickupStatusInvalid) {
		t.Fatalf("complete after cancel want ErrPickupStatusInvalid got %v", err)
	}

	// 其他用户的订单不可取消
	other := createTestUser(t, db, "other@test.dev", 0)
	second := schedulePickupForTest(t, svc, user.ID, "1.0")
	if _, err := svc.CancelPickup(other.ID, second.ID); !errors.Is(err, ErrPickupNotFound) {
		t.Fatalf("cross-user cancel want ErrPickupNotFound got %v", err)
	}
}

func TestAssignPickupValidatesFleet(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newPickupServiceForTest(t, db)
	user := createTestUser(t, db, "assign@test.dev", 0)
	pickup := schedulePickupForTest(t, svc, user.ID, "2.0")

	company := &models.Company{Name: "绿城回收", IsActive: true}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("create company failed: %v", err)
	}
	vehicle := &models.Vehicle{CompanyID: company.ID, LicensePlate: "沪A-12345", CapacityKg: models.NewWeightFromFloat(500), IsActive: true}
	if err := db.Create(vehicle).Error; err != nil {
		t.Fatalf("create vehicle failed: %v", err)
	}

	assigned, err := svc.AssignPickup(AssignPickupInput{PickupID: pickup.ID, CompanyID: company.ID, VehicleID: vehicle.ID})
	if err != nil {
		t.Fatalf("assign pickup failed: %v", err)
	}
	if assigned.Status != constants.PickupStatusConfirmed {
		t.Fatalf("status want confirmed got %s", assigned.Status)
	}
	if assigned.CompanyID == nil || *assigned.CompanyID != company.ID {
		t.Fatalf("company not recorded on pickup")
	}

	// 停用车辆不可派单
	if err := db.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate vehicle failed: %v", err)
	}
	second := schedulePickupForTest(t, svc, user.ID, "2.0")
	if _, err := svc.AssignPickup(AssignPickupInput{PickupID: second.ID, CompanyID: company.ID, VehicleID: vehicle.ID}); !errors.Is(err, ErrVehicleInactive) {
		t.Fatalf("want ErrVehicleInactive got %v", err)
	}
}
