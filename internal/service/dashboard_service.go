package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greencycle/internal/cache"
	"github.com/greencycle/internal/repository"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardCustomMaxDays = 90
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心运营数据。
type DashboardService struct {
	repo    repository.DashboardRepository
	setting DashboardSetting
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, setting DashboardSetting) *DashboardService {
	return &DashboardService{repo: repo, setting: NormalizeDashboardSetting(setting)}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Range    string               `json:"range"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Timezone string               `json:"timezone"`
	KPI      DashboardKPI         `json:"kpi"`
	Funnel   DashboardFunnel      `json:"funnel"`
	Alerts   []DashboardAlertItem `json:"alerts"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	PickupsTotal       int64  `json:"pickups_total"`
	PickupsCompleted   int64  `json:"pickups_completed"`
	PickupsPending     int64  `json:"pickups_pending"`
	WeightCollectedKg  string `json:"weight_collected_kg"`
	PointsEarned       int64  `json:"points_earned"`
	PointsSpent        int64  `json:"points_spent"`
	RedemptionsTotal   int64  `json:"redemptions_total"`
	RedemptionsPending int64  `json:"redemptions_pending"`
	NewUsers           int64  `json:"new_users"`
	ActiveOptions      int64  `json:"active_options"`
	OutOfStockOptions  int64  `json:"out_of_stock_options"`
	LowStockOptions    int64  `json:"low_stock_options"`
	AvailableUnits     int64  `json:"available_units"`
}

// DashboardFunnel 回收转化漏斗
type DashboardFunnel struct {
	PickupsCreated   int64  `json:"pickups_created"`
	PickupsCompleted int64  `json:"pickups_completed"`
	PointsEarned     int64  `json:"points_earned"`
	PointsSpent      int64  `json:"points_spent"`
	CompletionRate   string `json:"completion_rate"`
	RedemptionRate   string `json:"redemption_rate"`
}

// DashboardAlertItem 仪表盘告警项
type DashboardAlertItem struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Value int64  `json:"value"`
}

// DashboardTrendResponse 仪表盘趋势响应
type DashboardTrendResponse struct {
	Range    string                `json:"range"`
	From     string                `json:"from"`
	To       string                `json:"to"`
	Timezone string                `json:"timezone"`
	Points   []DashboardTrendPoint `json:"points"`
}

// DashboardTrendPoint 趋势点
type DashboardTrendPoint struct {
	Date             string `json:"date"`
	PickupsTotal     int64  `json:"pickups_total"`
	PickupsCompleted int64  `json:"pickups_completed"`
	PointsEarned     int64  `json:"points_earned"`
	PointsSpent      int64  `json:"points_spent"`
}

// DashboardRankingsResponse 仪表盘排行榜响应
type DashboardRankingsResponse struct {
	Range      string                   `json:"range"`
	From       string                   `json:"from"`
	To         string                   `json:"to"`
	Timezone   string                   `json:"timezone"`
	TopOptions []DashboardOptionRanking `json:"top_options"`
}

// DashboardOptionRanking 兑换商品排行项
type DashboardOptionRanking struct {
	OptionID    uint   `json:"option_id"`
	Name        string `json:"name"`
	Redemptions int64  `json:"redemptions"`
	PointsSpent int64  `json:"points_spent"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:overview:%s:%d:%d:%s:%d:%d:%d:%d",
		window.rangeKey,
		window.startAt.Unix(),
		window.endAt.Unix(),
		window.timezone,
		s.setting.Alert.LowStockThreshold,
		s.setting.Alert.OutOfStockOptionsThreshold,
		s.setting.Alert.PendingPickupsThreshold,
		s.setting.Alert.PendingRedemptionsThreshold,
	)
	if !input.ForceRefresh {
		var cached DashboardOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	stockStats, err := s.repo.GetStockStats(s.setting.Alert.LowStockThreshold)
	if err != nil {
		return nil, err
	}

	completionRate := 0.0
	if overview.PickupsTotal > 0 {
		completionRate = float64(overview.PickupsCompleted) / float64(overview.PickupsTotal) * 100
	}

	redemptionRate := 0.0
	if overview.PointsEarned > 0 {
		redemptionRate = float64(overview.PointsSpent) / float64(overview.PointsEarned) * 100
	}

	response := &DashboardOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		KPI: DashboardKPI{
			PickupsTotal:       overview.PickupsTotal,
			PickupsCompleted:   overview.PickupsCompleted,
			PickupsPending:     overview.PickupsPending,
			WeightCollectedKg:  formatWeightValue(overview.WeightCollectedKg),
			PointsEarned:       overview.PointsEarned,
			PointsSpent:        overview.PointsSpent,
			RedemptionsTotal:   overview.RedemptionsTotal,
			RedemptionsPending: overview.RedemptionsPending,
			NewUsers:           overview.NewUsers,
			ActiveOptions:      overview.ActiveOptions,
			OutOfStockOptions:  stockStats.OutOfStockOptions,
			LowStockOptions:    stockStats.LowStockOptions,
			AvailableUnits:     stockStats.AvailableUnits,
		},
		Funnel: DashboardFunnel{
			PickupsCreated:   overview.PickupsTotal,
			PickupsCompleted: overview.PickupsCompleted,
			PointsEarned:     overview.PointsEarned,
			PointsSpent:      overview.PointsSpent,
			CompletionRate:   formatPercentValue(completionRate),
			RedemptionRate:   formatPercentValue(redemptionRate),
		},
		Alerts: buildDashboardAlerts(overview, stockStats, s.setting.Alert),
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetTrends 获取仪表盘趋势
func (s *DashboardService) GetTrends(ctx context.Context, input DashboardQueryInput) (*DashboardTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardTrendResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:trends:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardTrendResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	pickupRows, err := s.repo.GetPickupTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	pointsRows, err := s.repo.GetPointsTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	pickupMap := make(map[string]repository.DashboardPickupTrendRow, len(pickupRows))
	for _, item := range pickupRows {
		pickupMap[item.Day] = item
	}
	pointsMap := make(map[string]repository.DashboardPointsTrendRow, len(pointsRows))
	for _, item := range pointsRows {
		pointsMap[item.Day] = item
	}

	points := make([]DashboardTrendPoint, 0)
	for cursor := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		pickupItem := pickupMap[day]
		pointsItem := pointsMap[day]
		points = append(points, DashboardTrendPoint{
			Date:             day,
			PickupsTotal:     pickupItem.PickupsTotal,
			PickupsCompleted: pickupItem.PickupsCompleted,
			PointsEarned:     pointsItem.PointsEarned,
			PointsSpent:      pointsItem.PointsSpent,
		})
	}

	response := &DashboardTrendResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Points:   points,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetRankings 获取仪表盘排行榜
func (s *DashboardService) GetRankings(ctx context.Context, input DashboardQueryInput) (*DashboardRankingsResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardRankingsResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:rankings:%s:%d:%d:%s:%d",
		window.rangeKey,
		window.startAt.Unix(),
		window.endAt.Unix(),
		window.timezone,
		s.setting.Ranking.TopOptionsLimit,
	)
	if !input.ForceRefresh {
		var cached DashboardRankingsResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	optionRows, err := s.repo.GetTopOptions(window.startAt, window.endAt, s.setting.Ranking.TopOptionsLimit)
	if err != nil {
		return nil, err
	}

	options := make([]DashboardOptionRanking, 0, len(optionRows))
	for _, item := range optionRows {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = "-"
		}
		options = append(options, DashboardOptionRanking{
			OptionID:    item.OptionID,
			Name:        name,
			Redemptions: item.Redemptions,
			PointsSpent: item.PointsSpent,
		})
	}

	response := &DashboardRankingsResponse{
		Range:      window.rangeKey,
		From:       window.startAt.Format(time.RFC3339),
		To:         window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone:   window.timezone,
		TopOptions: options,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*dashboardCustomMaxDays {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func formatWeightValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func buildDashboardAlerts(overview repository.DashboardOverviewRow, stockStats repository.DashboardStockStatsRow, alertSetting DashboardAlertSetting) []DashboardAlertItem {
	alerts := make([]DashboardAlertItem, 0, 4)
	if stockStats.OutOfStockOptions >= alertSetting.OutOfStockOptionsThreshold {
		alerts = append(alerts, DashboardAlertItem{Type: "out_of_stock_options", Level: "error", Value: stockStats.OutOfStockOptions})
	}
	if stockStats.LowStockOptions > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "low_stock_options", Level: "warning", Value: stockStats.LowStockOptions})
	}
	if overview.PickupsPending >= alertSetting.PendingPickupsThreshold {
		alerts = append(alerts, DashboardAlertItem{Type: "pending_pickups", Level: "warning", Value: overview.PickupsPending})
	}
	if overview.RedemptionsPending >= alertSetting.PendingRedemptionsThreshold {
		alerts = append(alerts, DashboardAlertItem{Type: "pending_redemptions", Level: "warning", Value: overview.RedemptionsPending})
	}
	return alerts
}
