package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := VerifyPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("VerifyPassword(correct) error = %v", err)
	}
	if err := VerifyPassword(hash, "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("VerifyPassword(wrong) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("HashPassword(short) error = %v, want ErrPasswordTooShort", err)
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateTokenPair(42, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", pair.ExpiresIn)
	}

	claims, err := m.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if claims.UserID != 42 || claims.Email != "alice@example.com" {
		t.Errorf("claims = %+v, want uid=42 email=alice@example.com", claims)
	}

	if _, err := m.VerifyRefreshToken(pair.RefreshToken); err != nil {
		t.Errorf("VerifyRefreshToken() error = %v", err)
	}
}

func TestTokenTypeEnforced(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateTokenPair(1, "a@b.c")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := m.VerifyAccessToken(pair.RefreshToken); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("refresh token accepted as access token: error = %v", err)
	}
	if _, err := m.VerifyRefreshToken(pair.AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("access token accepted as refresh token: error = %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)
	pair, err := m.GenerateTokenPair(1, "a@b.c")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := m.VerifyAccessToken(pair.AccessToken); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("VerifyAccessToken(expired) error = %v, want ErrExpiredToken", err)
	}
}

func TestTamperedSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateTokenPair(1, "a@b.c")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if _, err := other.VerifyAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token verified with wrong secret: error = %v", err)
	}
}
