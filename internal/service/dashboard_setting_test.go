package service

import (
	"testing"
	"time"
)

func TestNormalizeDashboardSetting(t *testing.T) {
	setting := NormalizeDashboardSetting(DashboardSetting{
		Alert: DashboardAlertSetting{
			LowStockThreshold:           9999,
			OutOfStockOptionsThreshold:  -2,
			PendingPickupsThreshold:     200001,
			PendingRedemptionsThreshold: 0,
		},
		Ranking: DashboardRankingSetting{
			TopOptionsLimit: 999,
		},
	})

	if setting.Alert.LowStockThreshold != 5 {
		t.Fatalf("low_stock_threshold = %d, want 5", setting.Alert.LowStockThreshold)
	}
	if setting.Alert.OutOfStockOptionsThreshold != 1 {
		t.Fatalf("out_of_stock_options_threshold = %d, want 1", setting.Alert.OutOfStockOptionsThreshold)
	}
	if setting.Alert.PendingPickupsThreshold != 20 {
		t.Fatalf("pending_pickups_threshold = %d, want 20", setting.Alert.PendingPickupsThreshold)
	}
	if setting.Alert.PendingRedemptionsThreshold != 50 {
		t.Fatalf("pending_redemptions_threshold = %d, want 50", setting.Alert.PendingRedemptionsThreshold)
	}
	if setting.Ranking.TopOptionsLimit != 5 {
		t.Fatalf("top_options_limit = %d, want 5", setting.Ranking.TopOptionsLimit)
	}
}

func TestResolveDashboardWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	window, err := resolveDashboardWindow(DashboardQueryInput{Range: "7d", Timezone: "UTC"}, now)
	if err != nil {
		t.Fatalf("resolve 7d window failed: %v", err)
	}
	if got := window.endAt.Sub(window.startAt); got != 7*24*time.Hour {
		t.Fatalf("7d window length = %v, want 168h", got)
	}

	if _, err := resolveDashboardWindow(DashboardQueryInput{Range: "weird"}, now); err == nil {
		t.Fatalf("expected error for unknown range")
	}

	from := now.AddDate(0, 0, -200)
	to := now
	if _, err := resolveDashboardWindow(DashboardQueryInput{Range: "custom", From: &from, To: &to}, now); err == nil {
		t.Fatalf("expected error for oversized custom range")
	}
}
