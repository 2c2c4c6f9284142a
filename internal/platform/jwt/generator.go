// Package jwtmw はJWTトークンの発行・検証と認証ミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when a token's exp claim has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned for malformed tokens, bad signatures and
	// unexpected signing algorithms.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims はトークンから取り出した認証済みアイデンティティです。
// Email は登録時に発行されたトークンにのみ含まれます。
type Claims struct {
	UserID uint
	Email  string
}

// Generator はプロセス全体で共有される署名シークレットを保持し、
// トークンの発行と検証を行います。検証が唯一の信頼境界であり、
// Userに保存された参照用トークンは一切使用しません。
type Generator struct {
	secret []byte
}

// NewGenerator は指定されたシークレットでGeneratorを生成します。
// シークレットは設定から注入され、実行中にローテーションされません。
func NewGenerator(secret string) *Generator {
	return &Generator{secret: []byte(secret)}
}

// GenerateToken は指定されたTTLで署名済みJWTトークンを生成します。
// emailが空の場合、emailクレームは含まれません（ログイン発行トークン）。
func (g *Generator) GenerateToken(userID uint, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ParseToken はトークンの署名と有効期限を検証し、クレームを返します。
// 期限切れはErrTokenExpired、それ以外の検証失敗はErrTokenInvalidを返します。
func (g *Generator) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// HMAC以外の署名アルゴリズムは拒否
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	// JWTの数値はfloat64としてデコードされる
	sub, ok := mapClaims["sub"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{UserID: uint(sub)}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	return claims, nil
}
