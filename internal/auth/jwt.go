package auth

import (
	"errors"
	"time"

	"kickabout/config"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	EntityID string `json:"entity_id"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

func GenerateAccessToken(cfg *config.JWTConfig, entityID string) (string, error) {
	claims := Claims{
		EntityID: entityID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   entityID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.AccessSecret))
}

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.AccessSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.EntityID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
