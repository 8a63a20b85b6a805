package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/founderbridge/backend/internal/dto"
	"github.com/founderbridge/backend/internal/http/handlers/common"
	"github.com/founderbridge/backend/internal/intent"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/session"
)

// IntentHandler хранит роль, выбранную до входа.
type IntentHandler struct {
	intents intent.Store
}

func NewIntentHandler(intents intent.Store) *IntentHandler {
	return &IntentHandler{intents: intents}
}

// Get обрабатывает GET /api/intent.
func (h *IntentHandler) Get(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	role, err := h.intents.Get(c.Request.Context(), sid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.IntentResponse{Role: role})
}

// Set обрабатывает POST /api/intent: запоминает роль и отправляет на вход.
func (h *IntentHandler) Set(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.IntentRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		common.RespondBadRequest(c, "role must be candidate or recruiter")
		return
	}

	if err := h.intents.Set(c.Request.Context(), sid, role); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.IntentResponse{Role: role, Next: session.RouteSignIn})
}

// Clear обрабатывает DELETE /api/intent.
func (h *IntentHandler) Clear(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.intents.Clear(c.Request.Context(), sid); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
