package public

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/greencycle/internal/http/response"
	"github.com/greencycle/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func seedRedemptionRecord(t *testing.T, db *gorm.DB, userID uint) *models.PointRedemption {
	t.Helper()
	now := time.Now()
	redemption := models.PointRedemption{
		UserID:         userID,
		OptionID:       1,
		PointsSpent:    100,
		Status:         models.RedemptionStatusPending,
		RedemptionCode: fmt.Sprintf("GC-20260901-USER%d", userID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(&redemption).Error; err != nil {
		t.Fatalf("create redemption failed: %v", err)
	}
	return &redemption
}

func TestGetMyRedemptionMissingReturnsNotFound(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/redemptions/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	c.Set("user_id", uint(1))

	h.GetMyRedemption(c)

	if got := decodeStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("status_code want %d got %d", response.CodeNotFound, got)
	}
}

func TestGetMyRedemptionHidesOtherUsersRecord(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	redemption := seedRedemptionRecord(t, db, 2)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/redemptions/1", nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(redemption.ID)}}
	c.Set("user_id", uint(1))

	h.GetMyRedemption(c)

	if got := decodeStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("status_code want %d got %d", response.CodeNotFound, got)
	}
}

func TestCancelMyRedemptionMissingReturnsNotFound(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/redemptions/999/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	c.Set("user_id", uint(1))

	h.CancelMyRedemption(c)

	if got := decodeStatusCode(t, w); got != response.CodeNotFound {
		t.Fatalf("status_code want %d got %d", response.CodeNotFound, got)
	}
}
