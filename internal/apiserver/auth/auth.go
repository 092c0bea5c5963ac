// Package auth 管理员认证：JWT 令牌管理、密码哈希、HTTP 中间件
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// contextKey context 键类型
type contextKey string

const ctxKeyAuthAdmin contextKey = "auth_admin"

// TokenTTL 令牌有效期：7 天，到期前不提供服务端吊销
// （修改密码不会使已签发令牌失效，见 handler.ChangePassword）
const TokenTTL = 7 * 24 * time.Hour

// AuthAdmin 从 JWT 解析出的管理员信息
type AuthAdmin struct {
	ID    string
	Email string
}

// Config 认证配置
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// DefaultConfig 返回默认认证配置
func DefaultConfig(secret string) Config {
	return Config{
		JWTSecret: secret,
		TokenTTL:  TokenTTL,
	}
}

// ============================================================================
// 密码哈希
// ============================================================================

// HashPassword 使用 bcrypt 哈希密码
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// CheckPassword 验证密码
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ============================================================================
// JWT Token
// ============================================================================

// Claims JWT 声明
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// GenerateToken 签发管理员访问令牌
func GenerateToken(cfg Config, adminID, email string) (string, error) {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = TokenTTL
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken 解析并验证 JWT
func ParseToken(cfg Config, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithAuthAdmin 将认证管理员信息注入 context
func WithAuthAdmin(ctx context.Context, admin *AuthAdmin) context.Context {
	return context.WithValue(ctx, ctxKeyAuthAdmin, admin)
}

// GetAuthAdmin 从 context 获取认证管理员
func GetAuthAdmin(ctx context.Context) *AuthAdmin {
	admin, _ := ctx.Value(ctxKeyAuthAdmin).(*AuthAdmin)
	return admin
}
