package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/repository"
)

// ErrorHandler обрабатывает ошибки, добавленные через c.Error, централизованно.
// Наружу уходит только сообщение AppError; остальное маскируется.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		statusCode := http.StatusInternalServerError
		message := "Internal server error"

		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			statusCode = appErr.HTTPStatus
			message = appErr.Message
		case errors.Is(err, repository.ErrDocumentNotFound):
			statusCode = http.StatusNotFound
			message = "Not found"
		}

		entry := logger.Get().WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": statusCode,
		})
		if statusCode >= http.StatusInternalServerError {
			entry.Error("http: ошибка запроса")
		} else {
			entry.Debug("http: запрос отклонён")
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}
