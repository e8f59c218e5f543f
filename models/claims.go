package models

import (
	jwt "github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the JWT payload for the authenticated application
// API. UserName is the GitHub login recorded at sign-in.
type SessionClaims struct {
	UserID   string `json:"uid"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}
