package utils

import (
	"errors"
	"fmt"
	"time"

	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/consts"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "golden-anniversary-server"

// SessionClaims 后台会话令牌
type SessionClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"` // "session"
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

func GenerateSessionToken(userID uint, email string, duration time.Duration) (string, error) {
	secret := getSecret()
	if len(secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Type:   consts.SessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		if claims.Type != consts.SessionTokenType {
			return nil, errors.New("invalid token type")
		}
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// VerifySessionToken 校验会话令牌。任何格式错误、签名错误或过期都只返回 (nil, false)，不会报错。
func VerifySessionToken(tokenString string) (*SessionClaims, bool) {
	if tokenString == "" {
		return nil, false
	}
	claims, err := parseSessionToken(tokenString)
	if err != nil || claims.UserID == 0 {
		return nil, false
	}
	return claims, true
}
