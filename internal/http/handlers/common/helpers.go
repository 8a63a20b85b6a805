package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/founderbridge/backend/internal/dto"
	"github.com/founderbridge/backend/internal/http/middleware"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/service"
)

var (
	// ErrUserNotFound is returned when uid is not found in context
	ErrUserNotFound = errors.New("user not found in context")

	// ErrSessionNotFound is returned when the browser session middleware did not run
	ErrSessionNotFound = errors.New("browser session not found in context")
)

// CurrentUID extracts uid from Gin context
func CurrentUID(c *gin.Context) (string, error) {
	uid := c.GetString(middleware.ContextUIDKey)
	if uid == "" {
		return "", ErrUserNotFound
	}
	return uid, nil
}

// CurrentRole extracts role carried by the access token
func CurrentRole(c *gin.Context) models.Role {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return models.RoleNone
	}
	role, _ := raw.(models.Role)
	return role
}

// SessionID extracts the browser session id
func SessionID(c *gin.Context) (string, error) {
	sid := c.GetString(middleware.ContextSessionKey)
	if sid == "" {
		return "", ErrSessionNotFound
	}
	return sid, nil
}

// BindAndValidate binds JSON request and returns properly formatted error
func BindAndValidate(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// RespondError sends a standardized error response
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondResult sends a mutation result: 2xx on success, 400 otherwise
func RespondResult(c *gin.Context, successCode int, res service.Result) {
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(successCode, res)
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondError(c, http.StatusBadRequest, message)
}
