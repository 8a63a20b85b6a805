package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/founderbridge/backend/internal/dto"
	"github.com/founderbridge/backend/internal/http/handlers/common"
	"github.com/founderbridge/backend/internal/identity"
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/session"
)

// AuthGateway — вход через провайдера.
type AuthGateway interface {
	Begin(sid string, flow identity.Flow) (string, error)
	Complete(ctx context.Context, state, code string) (identity.Flow, error)
	Fail(state, reason string) (identity.Flow, error)
	SignOut(ctx context.Context, sid string) error
}

// AuthStates отдаёт текущее состояние входа сессии.
type AuthStates interface {
	Snapshot(sid string) session.Snapshot
}

// RedirectCompleter решает, куда отправить страницу после редиректа от провайдера.
type RedirectCompleter interface {
	Complete(ctx context.Context, sid string) (session.Navigation, error)
}

// Страница, которую видит popup после возврата от провайдера.
// Результат уже доставлен основной вкладке через WebSocket.
const popupDonePage = `<!doctype html>
<html><head><meta charset="utf-8"><title>FounderBridge</title></head>
<body><p>You can close this window.</p><script>window.close()</script></body></html>`

// AuthHandler предоставляет HTTP слой для входа через GitHub.
type AuthHandler struct {
	gateway     AuthGateway
	states      AuthStates
	completer   RedirectCompleter
	frontendURL string
}

func NewAuthHandler(gateway AuthGateway, states AuthStates, completer RedirectCompleter, frontendURL string) *AuthHandler {
	return &AuthHandler{
		gateway:     gateway,
		states:      states,
		completer:   completer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// BeginGitHub обрабатывает GET /api/auth/github?flow=popup|redirect.
// Клиент, ожидающий JSON, получает адрес; браузер — редирект к провайдеру.
func (h *AuthHandler) BeginGitHub(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	flow, err := identity.ParseFlow(c.Query("flow"))
	if err != nil {
		common.RespondBadRequest(c, "flow must be popup or redirect")
		return
	}

	url, err := h.gateway.Begin(sid, flow)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, dto.BeginAuthResponse{URL: url, Flow: string(flow)})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback обрабатывает GET /api/auth/github/callback.
func (h *AuthHandler) Callback(c *gin.Context) {
	state := c.Query("state")

	var (
		flow identity.Flow
		err  error
	)
	if reason := c.Query("error"); reason != "" {
		flow, err = h.gateway.Fail(state, reason)
	} else {
		flow, err = h.gateway.Complete(c.Request.Context(), state, c.Query("code"))
	}

	if errors.Is(err, identity.ErrInvalidState) {
		logger.Get().WithError(err).Warn("http: callback с невалидным state")
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(popupDonePage))
		return
	}

	// Ошибки входа уже доставлены: toast для popup, итог редиректа для redirect.
	if flow == identity.FlowRedirect {
		c.Redirect(http.StatusFound, h.frontendURL+session.RouteSignIn)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(popupDonePage))
}

// RedirectResult обрабатывает GET /api/auth/redirect-result.
func (h *AuthHandler) RedirectResult(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	nav, err := h.completer.Complete(c.Request.Context(), sid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, nav)
}

// State обрабатывает GET /api/auth/state.
func (h *AuthHandler) State(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.states.Snapshot(sid))
}

// SignOut обрабатывает POST /api/auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.gateway.SignOut(c.Request.Context(), sid); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
