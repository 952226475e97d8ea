package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/golang-jwt/jwt/v5"
)

func TestRegisterNormalizesEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "  Ana@Example.COM ", Password: "supersecret", Name: "Ana"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Email != "ana@example.com" {
		t.Fatalf("expected lower-cased email, got %q", resp.User.Email)
	}
	if resp.User.Name == nil || *resp.User.Name != "Ana" {
		t.Fatalf("expected name to be stored, got %v", resp.User.Name)
	}

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	if err != nil || !token.Valid {
		t.Fatalf("expected a valid access token, got %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["email"] != "ana@example.com" || claims["sub"] != resp.User.ID.String() {
		t.Fatalf("unexpected claims: %v", claims)
	}

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "ANA@example.com", Password: "anothersecret"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	cases := []dto.RegisterRequest{
		{Email: "not-an-email", Password: "supersecret"},
		{Email: "ana@example.com", Password: "short"},
		{Password: "supersecret"},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), &req)
		var verr *ValidationError
		if !errors.As(err, &verr) || len(verr.Fields) == 0 {
			t.Fatalf("expected field validation error for %+v, got %v", req, err)
		}
	}
}

func TestLoginRefreshLogout(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ana@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "wrongpassword"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "Ana@Example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("expected a rotated refresh token")
	}

	// The presented token is revoked on use.
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}

	if err := svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: refreshed.RefreshToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: refreshed.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}
