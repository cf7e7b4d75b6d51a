package service

import (
	"errors"
	"testing"

	"github.com/greencycle/internal/config"
	"github.com/greencycle/internal/repository"

	"gorm.io/gorm"
)

func newUserAuthServiceForTest(t *testing.T, db *gorm.DB) *UserAuthService {
	t.Helper()
	cfg := &config.Config{
		UserJWT: config.JWTConfig{
			SecretKey:             "test-secret",
			ExpireHours:           24,
			RememberMeExpireHours: 168,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newUserAuthServiceForTest(t, db)

	user, token, _, err := svc.Register("New.User@Test.DEV", "Passw0rd1", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "new.user@test.dev" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.DisplayName != "new.user" {
		t.Fatalf("nickname fallback want new.user got %s", user.DisplayName)
	}
	if token == "" {
		t.Fatalf("register must issue a token")
	}
	if user.Points != 0 {
		t.Fatalf("new user balance want 0 got %d", user.Points)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("claims user_id want %d got %d", user.ID, claims.UserID)
	}

	if _, _, _, err := svc.Register("new.user@test.dev", "Passw0rd1", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate register want ErrEmailExists got %v", err)
	}

	if _, _, _, err := svc.Login("new.user@test.dev", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password want ErrInvalidCredentials got %v", err)
	}
	logged, _, _, err := svc.Login("new.user@test.dev", "Passw0rd1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("login must stamp last_login_at")
	}
}

func TestRegisterEnforcesPasswordPolicy(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newUserAuthServiceForTest(t, db)

	if _, _, _, err := svc.Register("weak@test.dev", "short", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password want ErrWeakPassword got %v", err)
	}
	if _, _, _, err := svc.Register("not-an-email", "Passw0rd1", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad email want ErrInvalidEmail got %v", err)
	}
}

func TestChangePasswordBumpsTokenVersion(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newUserAuthServiceForTest(t, db)

	user, _, _, err := svc.Register("rotate@test.dev", "Passw0rd1", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	before := user.TokenVersion

	if err := svc.ChangePassword(user.ID, "wrong-old", "NewPassw0rd1"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password want ErrInvalidPassword got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Passw0rd1", "NewPassw0rd1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	updated := reloadUser(t, db, user.ID)
	if updated.TokenVersion != before+1 {
		t.Fatalf("token_version want %d got %d", before+1, updated.TokenVersion)
	}
	if _, _, _, err := svc.Login("rotate@test.dev", "NewPassw0rd1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newUserAuthServiceForTest(t, db)

	user, _, _, err := svc.Register("profile@test.dev", "Passw0rd1", "旧昵称")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	nickname := "环保达人"
	locale := "en-US"
	updated, err := svc.UpdateProfile(user.ID, &nickname, nil, &locale)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != "环保达人" || updated.Locale != "en-US" {
		t.Fatalf("profile not applied: %s / %s", updated.DisplayName, updated.Locale)
	}

	if _, err := svc.UpdateProfile(user.ID, nil, nil, nil); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("empty update want ErrProfileEmpty got %v", err)
	}
}
