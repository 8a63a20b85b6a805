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

// Listings — идеи рекрутеров и вакансии.
type Listings interface {
	CreateJobListing(ctx context.Context, data models.Idea) service.Result
	GetActiveJobs(ctx context.Context) ([]models.Idea, error)
	GetListing(ctx context.Context, id string) (*models.Idea, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	SetListingStatus(ctx context.Context, recruiterID, ideaID string, status models.ListingStatus) service.Result
}

type ListingHandler struct {
	listings Listings
}

func NewListingHandler(listings Listings) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Create обрабатывает POST /api/ideas.
func (h *ListingHandler) Create(c *gin.Context) {
	uid, err := common.CurrentUID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateIdeaRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	common.RespondResult(c, http.StatusCreated, h.listings.CreateJobListing(c.Request.Context(), req.ToIdea(uid)))
}

// Active обрабатывает GET /api/ideas/active.
func (h *ListingHandler) Active(c *gin.Context) {
	ideas, err := h.listings.GetActiveJobs(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ideas)
}

// Get обрабатывает GET /api/ideas/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	idea, err := h.listings.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, idea)
}

// Jobs обрабатывает GET /api/jobs.
func (h *ListingHandler) Jobs(c *gin.Context) {
	jobs, err := h.listings.ListJobs(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// SetStatus обрабатывает PUT /api/ideas/:id/status.
func (h *ListingHandler) SetStatus(c *gin.Context) {
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
	status := models.ListingStatus(req.Status)
	if _, ok := models.ValidListingStatuses[status]; !ok {
		common.RespondBadRequest(c, "status must be active or closed")
		return
	}

	common.RespondResult(c, http.StatusOK, h.listings.SetListingStatus(c.Request.Context(), uid, c.Param("id"), status))
}
