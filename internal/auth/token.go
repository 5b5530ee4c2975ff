// Package auth はユーザー認証（パスワード検証とJWTトークン発行）を提供する。
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/newsbrief/internal/model"
)

const (
	// tokenTypeAccess はAPIアクセスに使用する短命トークン。
	tokenTypeAccess = "access"
	// tokenTypeRefresh はアクセストークンの再発行に使用する長命トークン。
	tokenTypeRefresh = "refresh"
)

// Claims はトークンに埋め込むクレーム。
// ユーザーIDはSubjectに格納し、token_typeでアクセス/リフレッシュを区別する。
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager はJWTトークンの発行と検証を行う。
// 署名アルゴリズムはHS256に固定する。
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager はTokenManagerの新しいインスタンスを生成する。
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GeneratePair はアクセストークンとリフレッシュトークンの組を発行する。
func (m *TokenManager) GeneratePair(userID string) (*model.TokenPair, error) {
	access, err := m.generate(userID, tokenTypeAccess, m.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("アクセストークンの発行に失敗しました: %w", err)
	}
	refresh, err := m.generate(userID, tokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("リフレッシュトークンの発行に失敗しました: %w", err)
	}
	return &model.TokenPair{Access: access, Refresh: refresh}, nil
}

// generate は指定タイプのトークンを署名付きで発行する。
func (m *TokenManager) generate(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyAccess はアクセストークンを検証し、ユーザーIDを返す。
// 署名不正・期限切れ・トークンタイプ不一致はすべてAuthErrorとなる。
func (m *TokenManager) VerifyAccess(tokenString string) (string, error) {
	return m.verify(tokenString, tokenTypeAccess)
}

// VerifyRefresh はリフレッシュトークンを検証し、ユーザーIDを返す。
func (m *TokenManager) VerifyRefresh(tokenString string) (string, error) {
	return m.verify(tokenString, tokenTypeRefresh)
}

// verify はトークンの署名・有効期限・タイプを検証する。
func (m *TokenManager) verify(tokenString, expectedType string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", model.NewAuthError("Invalid or expired token.")
	}
	if claims.TokenType != expectedType {
		return "", model.NewAuthError("Invalid token type.")
	}
	if claims.Subject == "" {
		return "", model.NewAuthError("Invalid token subject.")
	}
	return claims.Subject, nil
}
