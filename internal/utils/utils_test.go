package utils

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4) // minimal cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestNewAccessTokenCarriesRoleClaim(t *testing.T) {
	const secret = "test-secret"
	access, err := NewAccessToken(secret, 42, "driver", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(access.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse issued token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["role"] != "driver" {
		t.Fatalf("role claim = %v, want driver", claims["role"])
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("sub claim = %v, want 42", claims["sub"])
	}
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	ref, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(ref.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96 hex chars", len(ref.Raw))
	}
	if HashRefreshRaw(ref.Raw) != HashRefreshRaw(ref.Raw) {
		t.Fatal("hashing the same token twice must be deterministic")
	}
	other, _ := NewRefreshToken(7)
	if ref.Raw == other.Raw {
		t.Fatal("two refresh tokens must not collide")
	}
}

func TestNewTrackingNumberFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tn := NewTrackingNumber()
		if !strings.HasPrefix(tn, "EZT-") || len(tn) != 16 {
			t.Fatalf("tracking number %q has unexpected shape", tn)
		}
		if tn != strings.ToUpper(tn) {
			t.Fatalf("tracking number %q is not upper case", tn)
		}
		if seen[tn] {
			t.Fatalf("tracking number %q repeated within 100 draws", tn)
		}
		seen[tn] = true
	}
}
