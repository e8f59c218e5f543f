// Package auth handles the two credential schemes of the service: the
// ApplePass bearer scheme Apple Wallet devices present, and the HS256
// session tokens guarding the application API.
package auth

import (
	"errors"
	"strings"
	"time"

	"supapass/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

const applePassScheme = "ApplePass "

var (
	ErrMissingCredential = errors.New("auth: missing or malformed credential")
	ErrInvalidToken      = errors.New("auth: invalid token")
)

// ParseApplePass extracts the pass authentication token from an
// Authorization header. Only the exact "ApplePass <token>" form is
// accepted.
func ParseApplePass(header string) (string, error) {
	if !strings.HasPrefix(header, applePassScheme) {
		return "", ErrMissingCredential
	}
	token := strings.TrimPrefix(header, applePassScheme)
	if token == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}

// GenerateSessionToken mints a session JWT for the application API.
func GenerateSessionToken(secret []byte, userID, userName string, ttl time.Duration) (string, error) {
	claims := &models.SessionClaims{
		UserID:   userID,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken validates a session JWT and returns its claims.
func ParseSessionToken(secret []byte, tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
