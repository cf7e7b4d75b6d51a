package service

import (
	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/models"

	"github.com/shopspring/decimal"
)

// CalculatePoints 按重量计算积分：floor(重量公斤数 × 每公斤积分)
func CalculatePoints(weight models.Weight, perKg int) int {
	if perKg <= 0 {
		perKg = constants.DefaultPointsPerKg
	}
	return int(weight.Decimal.Mul(decimal.NewFromInt(int64(perKg))).Floor().IntPart())
}
