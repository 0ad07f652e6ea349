package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
)

const principalKey = "auth_principal"

var (
	secretMu  sync.RWMutex
	jwtSecret = []byte("fleetflow-jwt-secret-2024")
)

// SetJWTSecret installs the signing secret from config at startup.
func SetJWTSecret(secret string) {
	if secret == "" {
		return
	}
	secretMu.Lock()
	jwtSecret = []byte(secret)
	secretMu.Unlock()
}

func secret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return jwtSecret
}

// SignToken issues a 7-day HS256 token carrying the principal claims.
func SignToken(u models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   u.ID,
		"role":      u.Role,
		"email":     u.Email,
		"full_name": u.FullName,
		"exp":       time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString(secret())
}

// RequireAuth validates the Bearer token and stores the principal for
// handlers. Requests without a valid token never reach a service.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret(), nil
		})
		if err != nil || !token.Valid {
			msg := "invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		rc := domain.RequestContext{
			Email:    claimString(claims, "email"),
			FullName: claimString(claims, "full_name"),
			Role:     claimString(claims, "role"),
		}
		if id, ok := claims["user_id"].(float64); ok {
			rc.UserID = domain.ID(id)
		}
		c.Set(principalKey, rc)
		c.Next()
	}
}

// Principal returns the authenticated principal set by RequireAuth.
func Principal(c *gin.Context) domain.RequestContext {
	if v, ok := c.Get(principalKey); ok {
		if rc, ok := v.(domain.RequestContext); ok {
			return rc
		}
	}
	return domain.RequestContext{}
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
