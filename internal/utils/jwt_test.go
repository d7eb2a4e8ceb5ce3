package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(7, "admin@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}
	claims, ok := VerifySessionToken(token)
	if !ok {
		t.Fatalf("expected token to verify")
	}
	if claims.UserID != 7 || claims.Email != "admin@example.com" || claims.Type != "session" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(time.Now()); got <= 0 || got > time.Hour {
		t.Fatalf("unexpected expiry window: %v", got)
	}
}

func TestVerifySessionToken_Expired(t *testing.T) {
	token, err := GenerateSessionToken(1, "a@example.com", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}
	if claims, ok := VerifySessionToken(token); ok || claims != nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifySessionToken_MalformedNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		"a.b.c",
		strings.Repeat("x", 4096),
		"eyJhbGciOiJub25lIn0.eyJ1c2VyX2lkIjoxfQ.",
	}
	for _, in := range inputs {
		if claims, ok := VerifySessionToken(in); ok || claims != nil {
			t.Fatalf("expected (nil,false) for %q", in)
		}
	}
}

func TestVerifySessionToken_WrongSecretOrType(t *testing.T) {
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID: 1,
		Type:   "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    tokenIssuer,
		},
	})
	signed, err := foreign.SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, ok := VerifySessionToken(signed); ok {
		t.Fatalf("expected token signed with a different key to be rejected")
	}

	wrongType := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID: 1,
		Type:   "email_verify",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    tokenIssuer,
		},
	})
	signed, err = wrongType.SignedString(getSecret())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, ok := VerifySessionToken(signed); ok {
		t.Fatalf("expected wrong token type to be rejected")
	}
}
