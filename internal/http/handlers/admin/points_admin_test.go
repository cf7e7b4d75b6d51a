package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/provider"
	"github.com/greencycle/internal/repository"
	"github.com/greencycle/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAdminHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.PointTransaction{},
		&models.RedemptionOption{},
		&models.PointRedemption{},
		&models.Partner{},
		&models.PickupRequest{},
		&models.Company{},
		&models.Vehicle{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	pointsSvc := service.NewPointsService(
		repository.NewPointTransactionRepository(db),
		repository.NewUserRepository(db),
	)
	redemptionSvc := service.NewRedemptionService(
		repository.NewRedemptionOptionRepository(db),
		repository.NewPointRedemptionRepository(db),
		repository.NewPartnerRepository(db),
		pointsSvc,
		nil,
		"GC",
		72,
	)
	pickupSvc := service.NewPickupService(
		repository.NewPickupRequestRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewVehicleRepository(db),
		pointsSvc,
		nil,
		50,
	)

	h := &Handler{Container: &provider.Container{
		PointsService:     pointsSvc,
		RedemptionService: redemptionSvc,
		PickupService:     pickupSvc,
	}}
	return h, db
}

func decodeAdminStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return resp.StatusCode
}

func newAdminDetailContext(t *testing.T, method, path, id string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	return c, w
}

func TestGetAdminPointTransactionMissingReturnsNotFound(t *testing.T) {
	h, _ := setupAdminHandlerTest(t)

	c, w := newAdminDetailContext(t, http.MethodGet, "/api/v1/admin/point-transactions/999", "999")
	h.GetAdminPointTransaction(c)

	if got := decodeAdminStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("status_code want %d got %d", response.CodeNotFound, got)
	}
}

func TestGetAdminPickupMissingReturnsNotFound(t *testing.T) {
	h, _ := setupAdminHandlerTest(t)

	c, w := newAdminDetailContext(t, http.MethodGet, "/api/v1/admin/pickups/999", "999")
	h.GetAdminPickup(c)

	if got := decodeAdminStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("status_code want %d got %d", response.CodeNotFound, got)
	}
}

func TestGetAdminRedemptionOptionMissingReturnsNotFound(t *testing.T) {
	h, _ := setupAdminHandlerTest(t)

	c, w := newAdminDetailContext(t, http.MethodGet, "/api/v1/admin/redemption-options/999", "999")
	h.GetAdminRedemptionOption(c)

	if got := decodeAdminStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("status_code want %d got %d", response.CodeNotFound, got)
	}
}

func TestGetAdminRedemptionUnknownCodeReturnsNotFound(t *testing.T) {
	h, _ := setupAdminHandlerTest(t)

	c, w := newAdminDetailContext(t, http.MethodGet, "/api/v1/admin/redemptions/GC-UNKNOWN", "GC-UNKNOWN")
	h.GetAdminRedemption(c)

	if got := decodeAdminStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("status_code want %d got %d", response.CodeNotFound, got)
	}
}
