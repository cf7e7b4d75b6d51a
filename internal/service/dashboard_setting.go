package service

import "github.com/greencycle/internal/config"

// DashboardAlertSetting 仪表盘告警规则配置
type DashboardAlertSetting struct {
	LowStockThreshold           int64 `json:"low_stock_threshold"`
	OutOfStockOptionsThreshold  int64 `json:"out_of_stock_options_threshold"`
	PendingPickupsThreshold     int64 `json:"pending_pickups_threshold"`
	PendingRedemptionsThreshold int64 `json:"pending_redemptions_threshold"`
}

// DashboardRankingSetting 仪表盘排行规则配置
type DashboardRankingSetting struct {
	TopOptionsLimit int `json:"top_options_limit"`
}

// DashboardSetting 仪表盘配置
type DashboardSetting struct {
	Alert   DashboardAlertSetting   `json:"alert"`
	Ranking DashboardRankingSetting `json:"ranking"`
}

// DashboardDefaultSetting 默认仪表盘配置
func DashboardDefaultSetting() DashboardSetting {
	return NormalizeDashboardSetting(DashboardSetting{
		Alert: DashboardAlertSetting{
			LowStockThreshold:           5,
			OutOfStockOptionsThreshold:  1,
			PendingPickupsThreshold:     20,
			PendingRedemptionsThreshold: 50,
		},
		Ranking: DashboardRankingSetting{
			TopOptionsLimit: 5,
		},
	})
}

// DashboardSettingFromConfig 从配置文件构建仪表盘配置
func DashboardSettingFromConfig(cfg config.DashboardConfig) DashboardSetting {
	return NormalizeDashboardSetting(DashboardSetting{
		Alert: DashboardAlertSetting{
			LowStockThreshold:           cfg.LowStockThreshold,
			OutOfStockOptionsThreshold:  cfg.OutOfStockOptionsThreshold,
			PendingPickupsThreshold:     cfg.PendingPickupsThreshold,
			PendingRedemptionsThreshold: cfg.PendingRedemptionsThreshold,
		},
		Ranking: DashboardRankingSetting{
			TopOptionsLimit: cfg.TopOptionsLimit,
		},
	})
}

// NormalizeDashboardSetting 归一化仪表盘配置
func NormalizeDashboardSetting(setting DashboardSetting) DashboardSetting {
	if setting.Alert.LowStockThreshold < 1 || setting.Alert.LowStockThreshold > 500 {
		setting.Alert.LowStockThreshold = 5
	}
	if setting.Alert.OutOfStockOptionsThreshold < 1 || setting.Alert.OutOfStockOptionsThreshold > 10000 {
		setting.Alert.OutOfStockOptionsThreshold = 1
	}
	if setting.Alert.PendingPickupsThreshold < 1 || setting.Alert.PendingPickupsThreshold > 100000 {
		setting.Alert.PendingPickupsThreshold = 20
	}
	if setting.Alert.PendingRedemptionsThreshold < 1 || setting.Alert.PendingRedemptionsThreshold > 100000 {
		setting.Alert.PendingRedemptionsThreshold = 50
	}

	if setting.Ranking.TopOptionsLimit < 1 || setting.Ranking.TopOptionsLimit > 20 {
		setting.Ranking.TopOptionsLimit = 5
	}

	return setting
}
