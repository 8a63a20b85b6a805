package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/founderbridge/backend/internal/dto"
	"github.com/founderbridge/backend/internal/http/handlers/common"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/service"
	"github.com/founderbridge/backend/internal/session"
)

// ProfileCreator создаёт профиль при регистрации.
type ProfileCreator interface {
	CreateDeveloperProfile(ctx context.Context, uid string, p models.DeveloperProfile) service.Result
	CreateRecruiterProfile(ctx context.Context, uid string, p models.RecruiterProfile) service.Result
}

// SignupHandler создаёт профиль для вошедшего пользователя и отправляет его на дашборд.
type SignupHandler struct {
	profiles ProfileCreator
	states   AuthStates
	tokens   session.TokenIssuer
}

func NewSignupHandler(profiles ProfileCreator, states AuthStates, tokens session.TokenIssuer) *SignupHandler {
	return &SignupHandler{profiles: profiles, states: states, tokens: tokens}
}

// Candidate обрабатывает POST /api/signup/candidate.
func (h *SignupHandler) Candidate(c *gin.Context) {
	user, ok := h.signedIn(c)
	if !ok {
		return
	}

	var req dto.DeveloperSignupRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	res := h.profiles.CreateDeveloperProfile(c.Request.Context(), user.UID, req.ToProfile(user))
	h.respond(c, user.UID, models.RoleCandidate, res)
}

// Recruiter обрабатывает POST /api/signup/recruiter.
func (h *SignupHandler) Recruiter(c *gin.Context) {
	user, ok := h.signedIn(c)
	if !ok {
		return
	}

	var req dto.RecruiterSignupRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	res := h.profiles.CreateRecruiterProfile(c.Request.Context(), user.UID, req.ToProfile(user))
	h.respond(c, user.UID, models.RoleRecruiter, res)
}

func (h *SignupHandler) signedIn(c *gin.Context) (*models.AuthenticatedUser, bool) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}

	snap := h.states.Snapshot(sid)
	if snap.State != session.StateAuthenticated || snap.User == nil {
		common.RespondUnauthorized(c, apperror.ErrUnauthorized.Message)
		return nil, false
	}
	return snap.User, true
}

func (h *SignupHandler) respond(c *gin.Context, uid string, role models.Role, res service.Result) {
	if !res.Success {
		c.JSON(http.StatusBadRequest, dto.SignupResponse{Result: res})
		return
	}

	token, err := h.tokens.GenerateAccess(uid, role)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.SignupResponse{
		Result: res,
		Navigation: &session.Navigation{
			Path:  session.RouteFor(role),
			State: &session.NavState{UID: uid, Token: token},
		},
	})
}
