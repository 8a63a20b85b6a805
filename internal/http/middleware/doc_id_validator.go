package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

var docIDPattern = regexp.MustCompile(`^[A-Za-z0-9:_-]{1,128}$`)

// DocIDValidator проверяет, что параметр похож на идентификатор документа.
// Использование: router.PUT("/ideas/:id/status", DocIDValidator("id"), handler.SetStatus)
func DocIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param(paramName)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "parameter " + paramName + " is required",
			})
			return
		}

		if !docIDPattern.MatchString(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "parameter " + paramName + " is not a valid document id",
			})
			return
		}

		c.Next()
	}
}
