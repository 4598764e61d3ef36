package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT holds the cookie names the session tokens travel under
var JWT = struct {
	ACCESS_COOKIE_NAME  string
	REFRESH_COOKIE_NAME string
}{
	ACCESS_COOKIE_NAME:  "access_token",
	REFRESH_COOKIE_NAME: "refresh_token",
}

// JWTClaims is the signed payload of both session tokens. Scope separates
// access tokens from refresh tokens so one cannot stand in for the other.
type JWTClaims struct {
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	Kind              string `json:"kind"`
	DeviceFingerprint string `json:"deviceFingerprint"`
	Scope             string `json:"scope"`
	TokenType         string `json:"tokenType"`
	jwt.RegisteredClaims
}

// TokenRefreshResponse is the body returned when a refresh token is
// exchanged for a new access token
type TokenRefreshResponse struct {
	AccessExpiry time.Time `json:"accessExpiry"`
}

// ValidateJWTToken parses and verifies a session token, rejecting anything
// not signed with HMAC under the given secret.
func ValidateJWTToken(tokenString string, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
