package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/founderbridge/backend/internal/dashboard"
	"github.com/founderbridge/backend/internal/dto"
	"github.com/founderbridge/backend/internal/http/handlers/common"
	"github.com/founderbridge/backend/internal/http/middleware"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/pkg/apperror"
)

// Dashboards — загрузка дашбордов и отметки «сохранено».
type Dashboards interface {
	LoadDeveloper(m *dashboard.Mount, sid, uid string, tab dashboard.DeveloperTab) (*dashboard.DeveloperView, error)
	LoadRecruiter(m *dashboard.Mount, sid, uid string, tab models.ApplicationStatus) (*dashboard.RecruiterView, error)
	ToggleSaved(sid, listingID string) []string
	DeveloperEditor(ctx context.Context, sid, uid string) (*dashboard.ProfileEditor[models.DeveloperProfile], error)
	RecruiterEditor(ctx context.Context, sid, uid string) (*dashboard.ProfileEditor[models.RecruiterProfile], error)
}

const (
	viewDeveloper = "developer"
	viewRecruiter = "recruiter"
)

// DashboardHandler отдаёт снимки дашбордов. uid берётся из состояния навигации.
type DashboardHandler struct {
	dashboards Dashboards
	mounts     *dashboard.Mounts
}

func NewDashboardHandler(dashboards Dashboards, mounts *dashboard.Mounts) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, mounts: mounts}
}

// Developer обрабатывает GET /api/dashboard/developer?tab=all|saved|applied.
func (h *DashboardHandler) Developer(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	tab, err := dashboard.ParseDeveloperTab(c.Query("tab"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	m := h.mounts.Begin(c.Request.Context(), sid, viewDeveloper)
	defer m.End()

	view, err := h.dashboards.LoadDeveloper(m, sid, c.GetString(middleware.ContextUIDKey), tab)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Recruiter обрабатывает GET /api/dashboard/recruiter?tab=pending|accepted|rejected.
func (h *DashboardHandler) Recruiter(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	tab, err := dashboard.ParseRecruiterTab(c.Query("tab"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	m := h.mounts.Begin(c.Request.Context(), sid, viewRecruiter)
	defer m.End()

	view, err := h.dashboards.LoadRecruiter(m, sid, c.GetString(middleware.ContextUIDKey), tab)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleSaved обрабатывает POST /api/dashboard/developer/saved/:id.
func (h *DashboardHandler) ToggleSaved(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.SavedResponse{Saved: h.dashboards.ToggleSaved(sid, c.Param("id"))})
}

// UpdateDeveloperProfile обрабатывает PUT /api/profile/developer.
func (h *DashboardHandler) UpdateDeveloperProfile(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var patch models.DeveloperProfilePatch
	if err := common.BindAndValidate(c, &patch); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	editor, err := h.dashboards.DeveloperEditor(c.Request.Context(), sid, c.GetString(middleware.ContextUIDKey))
	if err != nil {
		_ = c.Error(err)
		return
	}
	editor.Open()
	_ = editor.Edit(patch.ApplyTo)

	confirmEdit(c, editor)
}

// UpdateRecruiterProfile обрабатывает PUT /api/profile/recruiter.
func (h *DashboardHandler) UpdateRecruiterProfile(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var patch models.RecruiterProfilePatch
	if err := common.BindAndValidate(c, &patch); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	editor, err := h.dashboards.RecruiterEditor(c.Request.Context(), sid, c.GetString(middleware.ContextUIDKey))
	if err != nil {
		_ = c.Error(err)
		return
	}
	editor.Open()
	_ = editor.Edit(patch.ApplyTo)

	confirmEdit(c, editor)
}

// confirmEdit сохраняет черновик; при ошибке в ответе остаётся прежний профиль.
func confirmEdit[T any](c *gin.Context, editor *dashboard.ProfileEditor[T]) {
	displayed, err := editor.Confirm(c.Request.Context())
	if err != nil {
		c.JSON(apperror.StatusOf(err), gin.H{"error": apperror.MessageOf(err, err.Error()), "profile": displayed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": displayed})
}

func (h *DashboardHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, dashboard.ErrUnmounted) {
		common.RespondError(c, http.StatusConflict, "view was closed")
		return
	}
	_ = c.Error(err)
}
