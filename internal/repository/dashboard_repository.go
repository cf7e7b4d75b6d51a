package repository

import (
	"fmt"
	"time"

	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetPickupTrends(startAt, endAt time.Time) ([]DashboardPickupTrendRow, error)
	GetPointsTrends(startAt, endAt time.Time) ([]DashboardPointsTrendRow, error)
	GetStockStats(lowStockThreshold int64) (DashboardStockStatsRow, error)
	GetTopOptions(startAt, endAt time.Time, limit int) ([]DashboardOptionRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	PickupsTotal       int64
	PickupsCompleted   int64
	PickupsPending     int64
	WeightCollectedKg  float64
	PointsEarned       int64
	PointsSpent        int64
	RedemptionsTotal   int64
	RedemptionsPending int64
	NewUsers           int64
	ActiveOptions      int64
}

// DashboardPickupTrendRow 回收预约趋势统计
type DashboardPickupTrendRow struct {
	Day              string
	PickupsTotal     int64
	PickupsCompleted int64
}

// DashboardPointsTrendRow 积分趋势统计
type DashboardPointsTrendRow struct {
	Day          string
	PointsEarned int64
	PointsSpent  int64
}

// DashboardStockStatsRow 兑换商品库存统计
type DashboardStockStatsRow struct {
	OutOfStockOptions int64
	LowStockOptions   int64
	UnlimitedOptions  int64
	AvailableUnits    int64
}

// DashboardOptionRankingRow 兑换商品排行原始行
type DashboardOptionRankingRow struct {
	OptionID    uint
	Name        string
	Redemptions int64
	PointsSpent int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	pickupBase := func() *gorm.DB {
		return r.db.Model(&models.PickupRequest{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := pickupBase().Count(&result.PickupsTotal).Error; err != nil {
		return result, err
	}
	if err := pickupBase().Where("status = ?", constants.PickupStatusCompleted).Count(&result.PickupsCompleted).Error; err != nil {
		return result, err
	}
	pendingStatuses := []string{
		constants.PickupStatusPending,
		constants.PickupStatusConfirmed,
		constants.PickupStatusCollected,
	}
	if err := pickupBase().Where("status IN ?", pendingStatuses).Count(&result.PickupsPending).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.PickupRequest{}).
		Where("completed_at IS NOT NULL AND completed_at >= ? AND completed_at < ? AND status = ?", startAt, endAt, constants.PickupStatusCompleted).
		Select("COALESCE(SUM(weight_actual), 0)").
		Scan(&result.WeightCollectedKg).Error; err != nil {
		return result, err
	}

	txnBase := func() *gorm.DB {
		return r.db.Model(&models.PointTransaction{}).
			Where("created_at >= ? AND created_at < ? AND status = ?", startAt, endAt, models.TransactionStatusCompleted)
	}
	if err := txnBase().Where("type = ?", models.TransactionTypeEarn).
		Select("COALESCE(SUM(points), 0)").
		Scan(&result.PointsEarned).Error; err != nil {
		return result, err
	}
	if err := txnBase().Where("type = ?", models.TransactionTypeSpend).
		Select("COALESCE(SUM(points), 0)").
		Scan(&result.PointsSpent).Error; err != nil {
		return result, err
	}

	redemptionBase := func() *gorm.DB {
		return r.db.Model(&models.PointRedemption{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}
	if err := redemptionBase().Count(&result.RedemptionsTotal).Error; err != nil {
		return result, err
	}
	if err := redemptionBase().Where("status = ?", models.RedemptionStatusPending).Count(&result.RedemptionsPending).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.RedemptionOption{}).
		Where("is_active = ?", true).
		Count(&result.ActiveOptions).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetPickupTrends 获取回收预约趋势
func (r *GormDashboardRepository) GetPickupTrends(startAt, endAt time.Time) ([]DashboardPickupTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type completedRow struct {
		Day       string
		Completed int64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	var totals []totalRow
	if err := r.db.Model(&models.PickupRequest{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var completeds []completedRow
	if err := r.db.Model(&models.PickupRequest{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as completed", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND status = ?", startAt, endAt, constants.PickupStatusCompleted).
		Group(dayExpr).
		Order("day asc").
		Scan(&completeds).Error; err != nil {
		return nil, err
	}

	completedMap := make(map[string]int64, len(completeds))
	for _, item := range completeds {
		completedMap[item.Day] = item.Completed
	}

	result := make([]DashboardPickupTrendRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, DashboardPickupTrendRow{
			Day:              item.Day,
			PickupsTotal:     item.Total,
			PickupsCompleted: completedMap[item.Day],
		})
	}
	return result, nil
}

// GetPointsTrends 获取积分发放与消耗趋势
func (r *GormDashboardRepository) GetPointsTrends(startAt, endAt time.Time) ([]DashboardPointsTrendRow, error) {
	type sumRow struct {
		Day   string
		Total int64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	txnBase := func() *gorm.DB {
		return r.db.Model(&models.PointTransaction{}).
			Where("created_at >= ? AND created_at < ? AND status = ?", startAt, endAt, models.TransactionStatusCompleted)
	}

	var earnedRows []sumRow
	if err := txnBase().
		Select(fmt.Sprintf("%s as day, COALESCE(SUM(points), 0) as total", dayExpr)).
		Where("type = ?", models.TransactionTypeEarn).
		Group(dayExpr).
		Order("day asc").
		Scan(&earnedRows).Error; err != nil {
		return nil, err
	}

	var spentRows []sumRow
	if err := txnBase().
		Select(fmt.Sprintf("%s as day, COALESCE(SUM(points), 0) as total", dayExpr)).
		Where("type = ?", models.TransactionTypeSpend).
		Group(dayExpr).
		Order("day asc").
		Scan(&spentRows).Error; err != nil {
		return nil, err
	}

	earnedMap := make(map[string]int64, len(earnedRows))
	for _, item := range earnedRows {
		earnedMap[item.Day] = item.Total
	}
	spentMap := make(map[string]int64, len(spentRows))
	for _, item := range spentRows {
		spentMap[item.Day] = item.Total
	}

	seen := make(map[string]struct{}, len(earnedRows)+len(spentRows))
	result := make([]DashboardPointsTrendRow, 0)
	push := func(day string) {
		if day == "" {
			return
		}
		if _, ok := seen[day]; ok {
			return
		}
		seen[day] = struct{}{}
		result = append(result, DashboardPointsTrendRow{
			Day:          day,
			PointsEarned: earnedMap[day],
			PointsSpent:  spentMap[day],
		})
	}
	for _, item := range earnedRows {
		push(item.Day)
	}
	for _, item := range spentRows {
		push(item.Day)
	}

	return result, nil
}

// GetStockStats 获取兑换商品库存总览统计
func (r *GormDashboardRepository) GetStockStats(lowStockThreshold int64) (DashboardStockStatsRow, error) {
	result := DashboardStockStatsRow{}

	type stockRow struct {
		ID    uint
		Stock int64
	}
	var options []stockRow
	if err := r.db.Model(&models.RedemptionOption{}).
		Select("id, stock").
		Where("is_active = ?", true).
		Scan(&options).Error; err != nil {
		return result, err
	}

	for _, option := range options {
		if option.Stock == int64(constants.RedemptionStockUnlimited) {
			result.UnlimitedOptions += 1
			continue
		}
		result.AvailableUnits += option.Stock
		if option.Stock <= 0 {
			result.OutOfStockOptions += 1
		} else if option.Stock <= lowStockThreshold {
			result.LowStockOptions += 1
		}
	}

	return result, nil
}

// GetTopOptions 获取兑换商品排行榜
func (r *GormDashboardRepository) GetTopOptions(startAt, endAt time.Time, limit int) ([]DashboardOptionRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardOptionRankingRow, 0)
	if err := r.db.Model(&models.PointRedemption{}).
		Select(`
			point_redemptions.option_id as option_id,
			COALESCE(redemption_options.name, '') as name,
			COUNT(*) as redemptions,
			COALESCE(SUM(point_redemptions.points_spent), 0) as points_spent
		`).
		Joins("LEFT JOIN redemption_options ON redemption_options.id = point_redemptions.option_id").
		Where("point_redemptions.created_at >= ? AND point_redemptions.created_at < ? AND point_redemptions.status <> ?", startAt, endAt, models.RedemptionStatusCancelled).
		Group("point_redemptions.option_id, redemption_options.name").
		Order("redemptions DESC, points_spent DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
