package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/founderbridge/backend/internal/dto"
	"github.com/founderbridge/backend/internal/http/handlers/common"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/service"
)

// Applications — отклики разработчиков.
type Applications interface {
	SubmitApplication(ctx context.Context, data models.Application) service.Result
	ListByDeveloper(ctx context.Context, developerID string) ([]models.Application, error)
	ReviewApplication(ctx context.Context, recruiterID, applicationID string, status models.ApplicationStatus) service.Result
}

type ApplicationHandler struct {
	apps Applications
}

func NewApplicationHandler(apps Applications) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// Submit обрабатывает POST /api/applications.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	uid, err := common.CurrentUID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.SubmitApplicationRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	res := h.apps.SubmitApplication(c.Request.Context(), models.Application{
		IdeaID:      req.IdeaID,
		DeveloperID: uid,
		CoverLetter: req.CoverLetter,
		Resume:      req.Resume,
	})
	common.RespondResult(c, http.StatusCreated, res)
}

// Mine обрабатывает GET /api/applications/mine.
func (h *ApplicationHandler) Mine(c *gin.Context) {
	uid, err := common.CurrentUID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	apps, err := h.apps.ListByDeveloper(c.Request.Context(), uid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// Review обрабатывает PUT /api/applications/:id/status.
func (h *ApplicationHandler) Review(c *gin.Context) {
	uid, err := common.CurrentUID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.StatusRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	status := models.ApplicationStatus(req.Status)
	if status != models.ApplicationStatusAccepted && status != models.ApplicationStatusRejected {
		common.RespondBadRequest(c, "status must be accepted or rejected")
		return
	}

	common.RespondResult(c, http.StatusOK, h.apps.ReviewApplication(c.Request.Context(), uid, c.Param("id"), status))
}
