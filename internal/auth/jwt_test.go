package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Hour, Claims{
		AccountID: "account-123",
		Role:      "student",
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseToken("secret", "issuer", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AccountID != "account-123" {
		t.Fatalf("wrong account id: %s", claims.AccountID)
	}
	if claims.Role != "student" {
		t.Fatalf("wrong role: %s", claims.Role)
	}
	if claims.Subject != "account-123" {
		t.Fatalf("subject not bound: %s", claims.Subject)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Hour, Claims{AccountID: "x"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken("other-secret", "issuer", token); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestTokenWrongIssuer(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer-a", time.Hour, Claims{AccountID: "x"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken("secret", "issuer-b", token); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestTokenExpiry(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", -time.Minute, Claims{AccountID: "x"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken("secret", "issuer", token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}
