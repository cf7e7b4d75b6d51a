package service

import (
	"testing"

	"github.com/greencycle/internal/models"
)

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name   string
		weight string
		perKg  int
		want   int
	}{
		{name: "ten_kg_default_rate", weight: "10.0", perKg: 50, want: 500},
		{name: "zero_weight", weight: "0", perKg: 50, want: 0},
		{name: "fractional_weight_floors", weight: "3.2", perKg: 50, want: 160},
		{name: "floors_partial_point", weight: "0.03", perKg: 50, want: 1},
		{name: "sub_point_weight", weight: "0.01", perKg: 50, want: 0},
		{name: "custom_rate", weight: "2.5", perKg: 30, want: 75},
		{name: "invalid_rate_falls_back_to_default", weight: "1.0", perKg: 0, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weight, err := models.NewWeightFromString(tt.weight)
			if err != nil {
				t.Fatalf("parse weight failed: %v", err)
			}
			if got := CalculatePoints(weight, tt.perKg); got != tt.want {
				t.Fatalf("CalculatePoints(%s, %d) = %d, want %d", tt.weight, tt.perKg, got, tt.want)
			}
		})
	}
}
