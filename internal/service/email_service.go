package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/greencycle/internal/config"
	"github.com/greencycle/internal/constants"
	"github.com/greencycle/internal/i18n"
	"github.com/greencycle/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SetConfig 更新运行时邮件配置
func (s *EmailService) SetConfig(cfg *config.EmailConfig) {
	if cfg == nil {
		return
	}
	s.cfg = cfg
}

// PickupStatusEmailInput 回收单状态邮件输入
type PickupStatusEmailInput struct {
	PickupID     uint
	Status       string
	ScheduledAt  string
	Address      string
	WeightActual models.Weight
	PointsEarned int
}

// SendPickupStatusEmail 发送回收单状态通知
func (s *EmailService) SendPickupStatusEmail(toEmail string, input PickupStatusEmailInput, locale string) error {
	subject, body := buildPickupStatusContent(input, locale)
	return s.sendTextEmail(toEmail, subject, body)
}

// RedemptionStatusEmailInput 兑换状态邮件输入
type RedemptionStatusEmailInput struct {
	Code       string
	OptionName string
	Status     string
	PointsCost int
}

// SendRedemptionStatusEmail 发送兑换状态通知
func (s *EmailService) SendRedemptionStatusEmail(toEmail string, input RedemptionStatusEmailInput, locale string) error {
	subject, body := buildRedemptionStatusContent(input, locale)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendCustomEmail 发送测试邮件或自定义邮件
func (s *EmailService) SendCustomEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "SMTP 配置测试邮件"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "这是一封来自 GreenCycle 的 SMTP 测试邮件，说明当前配置可正常发送。"
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return normalizeEmailSendError(sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	if s.cfg.UseTLS {
		return normalizeEmailSendError(sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	return normalizeEmailSendError(sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
}

func buildPickupStatusContent(input PickupStatusEmailInput, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	statusKey := "pickup.status." + strings.ToLower(strings.TrimSpace(input.Status))
	statusLabel := i18n.T(normalized, statusKey)
	if statusLabel == statusKey {
		statusLabel = input.Status
	}
	subject := i18n.Sprintf(normalized, "email.pickup_status.subject", statusLabel)
	status := strings.ToLower(strings.TrimSpace(input.Status))
	switch status {
	case constants.PickupStatusCompleted:
		body := i18n.Sprintf(normalized, "email.pickup_status.body_completed",
			input.PickupID, statusLabel, input.WeightActual.String(), input.PointsEarned)
		return subject, body
	case constants.PickupStatusConfirmed:
		body := i18n.Sprintf(normalized, "email.pickup_status.body_confirmed",
			input.PickupID, statusLabel, input.ScheduledAt, input.Address)
		return subject, body
	case constants.PickupStatusCanceled:
		body := i18n.Sprintf(normalized, "email.pickup_status.body_canceled", input.PickupID, statusLabel)
		return subject, body
	default:
		body := i18n.Sprintf(normalized, "email.pickup_status.body",
			input.PickupID, statusLabel, input.ScheduledAt)
		return subject, body
	}
}

func buildRedemptionStatusContent(input RedemptionStatusEmailInput, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	statusKey := "redemption.status." + strings.ToLower(strings.TrimSpace(input.Status))
	statusLabel := i18n.T(normalized, statusKey)
	if statusLabel == statusKey {
		statusLabel = input.Status
	}
	subject := i18n.Sprintf(normalized, "email.redemption_status.subject", statusLabel)
	status := strings.ToLower(strings.TrimSpace(input.Status))
	switch status {
	case string(models.RedemptionStatusPending):
		body := i18n.Sprintf(normalized, "email.redemption_status.body_pending",
			input.OptionName, input.Code, input.PointsCost)
		return subject, body
	case string(models.RedemptionStatusCompleted):
		body := i18n.Sprintf(normalized, "email.redemption_status.body_completed",
			input.OptionName, input.Code)
		return subject, body
	case string(models.RedemptionStatusCancelled), string(models.RedemptionStatusExpired):
		body := i18n.Sprintf(normalized, "email.redemption_status.body_closed",
			input.OptionName, input.Code, statusLabel, input.PointsCost)
		return subject, body
	default:
		body := i18n.Sprintf(normalized, "email.redemption_status.body",
			input.OptionName, input.Code, statusLabel)
		return subject, body
	}
}

func normalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(l, "zh-tw"), strings.HasPrefix(l, "zh-hk"), strings.HasPrefix(l, "zh-mo"):
		return i18n.LocaleTW
	case strings.HasPrefix(l, "en"):
		return i18n.LocaleEN
	default:
		return i18n.LocaleZH
	}
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	_, err = w.Write(msg)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
