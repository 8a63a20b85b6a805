package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/founderbridge/backend/internal/identity"
	"github.com/founderbridge/backend/internal/intent"
	"github.com/founderbridge/backend/internal/models"
)

type fakeTokens struct {
	err error
}

func (f fakeTokens) GenerateAccess(uid string, role models.Role) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "tok-" + uid + "-" + string(role), nil
}

type recordingNavigator struct {
	mu     sync.Mutex
	navs   []Navigation
	states []Snapshot
}

func (n *recordingNavigator) Navigate(sid string, nav Navigation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navs = append(n.navs, nav)
}

func (n *recordingNavigator) PushState(sid string, s Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states = append(n.states, s)
}

func (n *recordingNavigator) navigations() []Navigation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Navigation(nil), n.navs...)
}

func (n *recordingNavigator) pushes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.states)
}

type observerFixture struct {
	obs     *Observer
	broker  *identity.Broker
	intents *intent.MemoryStore
	nav     *recordingNavigator
}

func startObserver(t *testing.T, tokens TokenIssuer) *observerFixture {
	f := &observerFixture{
		broker:  identity.NewBroker(),
		intents: intent.NewMemoryStore(),
		nav:     &recordingNavigator{},
	}
	f.obs = NewObserver(f.broker, f.intents, tokens, f.nav)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.obs.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool { return f.broker.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	return f
}

// waitPushes ждёт, пока наблюдатель разошлёт n состояний.
func (f *observerFixture) waitPushes(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return f.nav.pushes() == n }, time.Second, 5*time.Millisecond)
}

func user(uid string) *models.AuthenticatedUser {
	return &models.AuthenticatedUser{UID: uid, Login: uid}
}

func TestObserver_UnknownSessionIsLoading(t *testing.T) {
	obs := NewObserver(identity.NewBroker(), intent.NewMemoryStore(), fakeTokens{}, &recordingNavigator{})

	s := obs.Snapshot("nobody")
	assert.Equal(t, StateUnknown, s.State)
	assert.True(t, s.Loading)
	assert.Nil(t, s.User)
}

func TestObserver_SecondRunRejected(t *testing.T) {
	f := startObserver(t, fakeTokens{})

	err := f.obs.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, 1, f.broker.Subscribers())
}

func TestObserver_PopupSignInWithPendingRole(t *testing.T) {
	f := startObserver(t, fakeTokens{})
	ctx := context.Background()
	require.NoError(t, f.intents.Set(ctx, "sid", models.RoleRecruiter))

	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowPopup}))

	require.Eventually(t, func() bool { return len(f.nav.navigations()) == 1 }, time.Second, 5*time.Millisecond)
	nav := f.nav.navigations()[0]
	assert.Equal(t, RouteRecruiterDashboard, nav.Path)
	require.NotNil(t, nav.State)
	assert.Equal(t, "u1", nav.State.UID)
	assert.Equal(t, "tok-u1-recruiter", nav.State.Token)

	role, _ := f.intents.Get(ctx, "sid")
	assert.Equal(t, models.RoleNone, role)
	assert.Equal(t, StateAuthenticated, f.obs.Snapshot("sid").State)
	assert.False(t, f.obs.Snapshot("sid").Loading)
}

func TestObserver_NoRoleStaysPut(t *testing.T) {
	f := startObserver(t, fakeTokens{})

	require.NoError(t, f.broker.Publish(context.Background(), identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowPopup}))

	require.Eventually(t, func() bool { return f.obs.Snapshot("sid").State == StateAuthenticated }, time.Second, 5*time.Millisecond)
	// Следующее событие дойдёт только после обработки первого.
	require.NoError(t, f.broker.Publish(context.Background(), identity.AuthEvent{SID: "other"}))
	f.waitPushes(t, 2)

	assert.Empty(t, f.nav.navigations())
}

func TestObserver_DuplicateEventDoesNotConsumeAgain(t *testing.T) {
	f := startObserver(t, fakeTokens{})
	ctx := context.Background()
	require.NoError(t, f.intents.Set(ctx, "sid", models.RoleCandidate))

	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowPopup}))
	require.Eventually(t, func() bool { return len(f.nav.navigations()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, f.intents.Set(ctx, "sid", models.RoleRecruiter))
	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowPopup}))
	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "marker"}))
	f.waitPushes(t, 2)

	assert.Len(t, f.nav.navigations(), 1)
	role, _ := f.intents.Get(ctx, "sid")
	assert.Equal(t, models.RoleRecruiter, role)
}

func TestObserver_RedirectFlowLeavesRoleForCompleter(t *testing.T) {
	f := startObserver(t, fakeTokens{})
	ctx := context.Background()
	require.NoError(t, f.intents.Set(ctx, "sid", models.RoleCandidate))

	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowRedirect}))
	require.Eventually(t, func() bool { return f.obs.Snapshot("sid").State == StateAuthenticated }, time.Second, 5*time.Millisecond)

	assert.Empty(t, f.nav.navigations())
	role, _ := f.intents.Get(ctx, "sid")
	assert.Equal(t, models.RoleCandidate, role)
}

func TestObserver_TokenFailureStillClearsRole(t *testing.T) {
	f := startObserver(t, fakeTokens{err: errors.New("signing failed")})
	ctx := context.Background()
	require.NoError(t, f.intents.Set(ctx, "sid", models.RoleCandidate))

	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowPopup}))
	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "marker"}))
	f.waitPushes(t, 2)

	assert.Empty(t, f.nav.navigations())
	role, _ := f.intents.Get(ctx, "sid")
	assert.Equal(t, models.RoleNone, role)
}

func TestObserver_SignOutThenSignInAgainNavigates(t *testing.T) {
	f := startObserver(t, fakeTokens{})
	ctx := context.Background()

	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowPopup}))
	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid"}))
	f.waitPushes(t, 2)
	require.NoError(t, f.intents.Set(ctx, "sid", models.RoleCandidate))
	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowPopup}))

	require.Eventually(t, func() bool { return len(f.nav.navigations()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, RouteDeveloperDashboard, f.nav.navigations()[0].Path)
	assert.Equal(t, 3, f.nav.pushes())
}

func TestObserver_SignOutForgetsSession(t *testing.T) {
	f := startObserver(t, fakeTokens{})
	ctx := context.Background()

	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid", User: user("u1"), Flow: identity.FlowPopup}))
	require.Eventually(t, func() bool { return f.obs.Snapshot("sid").State == StateAuthenticated }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.obs.tracked())

	require.NoError(t, f.broker.Publish(ctx, identity.AuthEvent{SID: "sid"}))
	f.waitPushes(t, 2)

	assert.Equal(t, 0, f.obs.tracked())
	s := f.obs.Snapshot("sid")
	assert.Equal(t, StateAnonymous, s.State)
	assert.False(t, s.Loading)
	assert.Nil(t, s.User)
}

func TestObserver_UnseenSessionIsAnonymousWhileRunning(t *testing.T) {
	f := startObserver(t, fakeTokens{})

	assert.Equal(t, Snapshot{State: StateAnonymous}, f.obs.Snapshot("fresh"))
	assert.Equal(t, 0, f.obs.tracked())
}

type stubResults struct {
	res identity.RedirectResult
	ok  bool
}

func (s *stubResults) TakeRedirectResult(string) (identity.RedirectResult, bool) {
	res, ok := s.res, s.ok
	s.ok = false
	return res, ok
}

func TestCompleter_NoPendingResult(t *testing.T) {
	c := NewRedirectCompleter(&stubResults{}, intent.NewMemoryStore(), fakeTokens{})

	nav, err := c.Complete(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, Navigation{Path: RouteSignIn, Replace: true}, nav)
}

func TestCompleter_ErrorShowsMessageThenSignIn(t *testing.T) {
	results := &stubResults{ok: true, res: identity.RedirectResult{Err: identity.ErrAccountExistsWithDifferentCredential}}
	intents := intent.NewMemoryStore()
	require.NoError(t, intents.Set(context.Background(), "sid", models.RoleCandidate))
	c := NewRedirectCompleter(results, intents, fakeTokens{})

	nav, err := c.Complete(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, RouteSignIn, nav.Path)
	assert.Equal(t, int64(2000), nav.DelayMS)
	assert.Equal(t, "An account already exists with this email. Please sign in with your existing account.", nav.Message)

	role, _ := intents.Get(context.Background(), "sid")
	assert.Equal(t, models.RoleCandidate, role)
}

func TestCompleter_SuccessWithRole(t *testing.T) {
	results := &stubResults{ok: true, res: identity.RedirectResult{User: user("u1")}}
	intents := intent.NewMemoryStore()
	require.NoError(t, intents.Set(context.Background(), "sid", models.RoleCandidate))
	c := NewRedirectCompleter(results, intents, fakeTokens{})

	nav, err := c.Complete(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, RouteDeveloperDashboard, nav.Path)
	require.NotNil(t, nav.State)
	assert.Equal(t, "u1", nav.State.UID)

	role, _ := intents.Get(context.Background(), "sid")
	assert.Equal(t, models.RoleNone, role)

	nav, err = c.Complete(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, RouteSignIn, nav.Path)
}

func TestCompleter_SuccessWithoutRoleGoesHome(t *testing.T) {
	results := &stubResults{ok: true, res: identity.RedirectResult{User: user("u1")}}
	c := NewRedirectCompleter(results, intent.NewMemoryStore(), fakeTokens{})

	nav, err := c.Complete(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, RouteHome, nav.Path)
	assert.Nil(t, nav.State)
}

func TestRouteFor(t *testing.T) {
	assert.Equal(t, RouteDeveloperDashboard, RouteFor(models.RoleCandidate))
	assert.Equal(t, RouteRecruiterDashboard, RouteFor(models.RoleRecruiter))
	assert.Equal(t, "", RouteFor(models.RoleNone))
}
