package models

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signClaims(t *testing.T, claims JWTClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestValidateJWTTokenRoundTrip(t *testing.T) {
	token := signClaims(t, JWTClaims{
		UserID: "user-1",
		Email:  "reader@example.com",
		Scope:  "authentication",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, "secret")

	claims, err := ValidateJWTToken(token, "secret")
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "user-1" || claims.Scope != "authentication" {
		t.Errorf("claims wrong: %+v", claims)
	}
}

func TestValidateJWTTokenExposesExpiry(t *testing.T) {
	token := signClaims(t, JWTClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, "secret")

	_, err := ValidateJWTToken(token, "secret")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected expired-token error, got %v", err)
	}
}

func TestValidateJWTTokenRejectsWrongSecret(t *testing.T) {
	token := signClaims(t, JWTClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, "secret")

	if _, err := ValidateJWTToken(token, "other"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}
