package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie     = "sid"
	ContextSessionKey = "sid"

	sessionMaxAge = 365 * 24 * 60 * 60
)

var sidPattern = regexp.MustCompile(`^[0-9a-f-]{36}$`)

// BrowserSession выдаёт браузеру идентификатор сессии в cookie.
// Выбранная роль, состояние входа и итог редиректа привязаны к нему.
func BrowserSession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || !sidPattern.MatchString(sid) {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, sessionMaxAge, "/", "", secure, true)
		}

		c.Set(ContextSessionKey, sid)
		c.Next()
	}
}
