package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rafaelscdev/crocheDaRuiva/internal/config"
)

// Claims 令牌只携带用户标识；角色不进 token，
// 每次请求都重新查库取实时角色，降级/删号立即生效
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken 生成 JWT，有效期 2 小时
func GenerateToken(cfg *config.JWTConfig, userID int64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken 解析 JWT
func ParseToken(cfg *config.JWTConfig, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// RoleAllowed 显式角色集合判定，替代把角色列表闭包进中间件的写法
func RoleAllowed(role string, allowed map[string]struct{}) bool {
	_, ok := allowed[role]
	return ok
}
