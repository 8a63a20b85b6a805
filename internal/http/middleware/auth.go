package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/founderbridge/backend/internal/models"
)

// Context ключи для gin.Context.
const (
	ContextUIDKey  = "uid"
	ContextRoleKey = "role"
)

// AccessParser проверяет access токен из состояния навигации.
type AccessParser interface {
	ParseAccess(token string) (string, models.Role, error)
}

// NavigationState читает необязательный Bearer токен, выданный при переходе на дашборд.
// Запрос никогда не прерывается: без токена uid в контексте просто отсутствует,
// и обработчик сам решает, что показать.
func NavigationState(tokens AccessParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearer(c); ok {
			if uid, role, err := tokens.ParseAccess(raw); err == nil && uid != "" {
				c.Set(ContextUIDKey, uid)
				c.Set(ContextRoleKey, role)
			}
		}
		c.Next()
	}
}

// RequireAuth пропускает только запросы с валидным access токеном.
func RequireAuth(tokens AccessParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		uid, role, err := tokens.ParseAccess(raw)
		if err != nil || uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUIDKey, uid)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

func bearer(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}
