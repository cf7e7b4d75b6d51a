package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/greencycle/internal/i18n"
	"github.com/greencycle/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildPickupStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		status              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:   "confirmed_zh",
			locale: i18n.LocaleZH,
			status: "confirmed",
			wantSubjectContains: []string{
				"回收订单状态更新",
				"已确认",
			},
			wantBodyContains: []string{
				"回收订单 #42 已确认",
				"上门地址",
			},
		},
		{
			name:   "completed_en",
			locale: i18n.LocaleEN,
			status: "completed",
			wantSubjectContains: []string{
				"Pickup status updated",
				"Completed",
			},
			wantBodyContains: []string{
				"Weight collected: 3.20 kg",
				"Points earned: 160",
			},
		},
		{
			name:   "canceled_tw",
			locale: i18n.LocaleTW,
			status: "canceled",
			wantSubjectContains: []string{
				"回收訂單狀態更新",
				"已取消",
			},
			wantBodyContains: []string{
				"回收訂單 #42 已取消",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := PickupStatusEmailInput{
				PickupID:     42,
				Status:       tt.status,
				ScheduledAt:  "2025-06-01 09:00",
				Address:      "幸福路 12 号",
				WeightActual: models.NewWeightFromDecimal(decimal.RequireFromString("3.2")),
				PointsEarned: 160,
			}
			subject, body := buildPickupStatusContent(input, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestBuildRedemptionStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		status              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:   "pending_zh",
			locale: i18n.LocaleZH,
			status: "pending",
			wantSubjectContains: []string{
				"积分兑换状态更新",
				"待核销",
			},
			wantBodyContains: []string{
				"兑换码：GC-20250601-ABCD1234",
				"消耗积分：100",
			},
		},
		{
			name:   "cancelled_en",
			locale: i18n.LocaleEN,
			status: "cancelled",
			wantSubjectContains: []string{
				"Redemption status updated",
				"Cancelled",
			},
			wantBodyContains: []string{
				"100 points have been refunded",
			},
		},
		{
			name:   "expired_zh",
			locale: i18n.LocaleZH,
			status: "expired",
			wantSubjectContains: []string{
				"已过期",
			},
			wantBodyContains: []string{
				"100 积分已退回账户",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := RedemptionStatusEmailInput{
				Code:       "GC-20250601-ABCD1234",
				OptionName: "环保帆布袋",
				Status:     tt.status,
				PointsCost: 100,
			}
			subject, body := buildRedemptionStatusContent(input, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}
