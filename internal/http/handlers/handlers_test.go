package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/founderbridge/backend/internal/http/middleware"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/repository"
	"github.com/founderbridge/backend/internal/service"
	"github.com/founderbridge/backend/internal/session"
)

const testSID = "0b6c9a3e-9f5c-4e43-9a55-2d1f0a6b7c11"

// withIdentity подставляет сессию и, если uid задан, состояние навигации.
func withIdentity(uid string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, testSID)
		if uid != "" {
			c.Set(middleware.ContextUIDKey, uid)
			c.Set(middleware.ContextRoleKey, role)
		}
		c.Next()
	}
}

func newTestEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(mw...)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// stack — сервисы поверх хранилища в памяти.
type stack struct {
	store        *repository.MemoryDocumentRepository
	profiles     *service.ProfileService
	listings     *service.ListingService
	applications *service.ApplicationService
}

func newStack() *stack {
	store := repository.NewMemoryDocumentRepository()
	listings := service.NewListingService(store)
	return &stack{
		store:        store,
		profiles:     service.NewProfileService(store),
		listings:     listings,
		applications: service.NewApplicationService(store, listings),
	}
}

func (s *stack) recruiter(t *testing.T, uid string) {
	t.Helper()
	res := s.profiles.CreateRecruiterProfile(context.Background(), uid, models.RecruiterProfile{CompanyName: "Acme"})
	require.True(t, res.Success, res.Error)
}

func (s *stack) developer(t *testing.T, uid string) {
	t.Helper()
	res := s.profiles.CreateDeveloperProfile(context.Background(), uid, models.DeveloperProfile{FirstName: "Ada", LastName: "Lovelace"})
	require.True(t, res.Success, res.Error)
}

type recordingNotifier struct {
	mu        sync.Mutex
	errors    []string
	successes []string
}

func (n *recordingNotifier) Error(_, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) Success(_, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors), len(n.successes)
}

type fixedStates map[string]session.Snapshot

func (s fixedStates) Snapshot(sid string) session.Snapshot {
	if snap, ok := s[sid]; ok {
		return snap
	}
	return session.Snapshot{State: session.StateUnknown, Loading: true}
}

type stubIssuer struct{}

func (stubIssuer) GenerateAccess(uid string, role models.Role) (string, error) {
	return "token-" + uid + "-" + string(role), nil
}
