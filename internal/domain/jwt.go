package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// ShopClaims are the claims carried by login tokens
type ShopClaims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
