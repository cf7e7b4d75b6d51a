package public

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

func setupPublicHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	h := &Handler{Container: &provider.Container{
		PointsService:     pointsSvc,
		RedemptionService: redemptionSvc,
	}}
	return h, db
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return resp.StatusCode
}

func TestGetRedemptionOptionMissingReturnsNotFound(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/public/redemption-options/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	h.GetRedemptionOption(c)

	if got := decodeStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("status_code want %d got %d", response.CodeNotFound, got)
	}
}

func TestGetRedemptionOptionInactiveHidden(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	now := time.Now()
	option := models.RedemptionOption{
		Name:           "未上架样品",
		PointsRequired: 100,
		Stock:          10,
		IsActive:       false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(&option).Error; err != nil {
		t.Fatalf("create option failed: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/public/redemption-options/1", nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(option.ID)}}

	h.GetRedemptionOption(c)

	if got := decodeStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("inactive option status_code want %d got %d", response.CodeNotFound, got)
	}
}

func TestListRedemptionOptionsFilterByPartner(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	now := time.Now()

	partner := models.Partner{Name: "绿叶咖啡", IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	options := []models.RedemptionOption{
		{Name: "咖啡兑换券", PointsRequired: 150, Stock: -1, IsActive: true, PartnerID: &partner.ID, CreatedAt: now, UpdatedAt: now},
		{Name: "环保帆布袋", PointsRequired: 100, Stock: 20, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
	for i := range options {
		if err := db.Create(&options[i]).Error; err != nil {
			t.Fatalf("create option failed: %v", err)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/public/redemption-options?partner_id=%d", partner.ID), nil)

	h.ListRedemptionOptions(c)

	var resp struct {
		StatusCode int                      `json:"status_code"`
		Data       []models.RedemptionOption `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("status_code want %d got %d", response.CodeOK, resp.StatusCode)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "咖啡兑换券" {
		t.Fatalf("partner filter want only partner options, got %+v", resp.Data)
	}
}
