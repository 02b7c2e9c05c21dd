package middleware

import (
	"strings"
	"time"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	ContextUserID    = "auth.user_id"
	ContextUserEmail = "auth.user_email"
	ContextUserRole  = "auth.user_role"

	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a JWT for the given user identity.
func IssueToken(cfg *config.Config, userID, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWT.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ParseToken validates a signed JWT and returns its claims.
func ParseToken(cfg *config.Config, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Authenticated rejects requests without a valid bearer token.
func Authenticated(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{"code": errutil.StatusUnauthorized, "message": "missing bearer token"}})
			return
		}

		claims, err := ParseToken(cfg, raw)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{"code": errutil.StatusUnauthorized, "message": "invalid token"}})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// AdminOnly must be chained after Authenticated.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != RoleAdmin {
			c.AbortWithStatusJSON(403, gin.H{"error": gin.H{"code": errutil.StatusForbidden, "message": "admin access required"}})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// UserEmail returns the authenticated user's email from the gin context.
func UserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}
