package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/founderbridge/backend/internal/cache"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/repository"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) AuthCodeURL(state string) string {
	return "https://provider.test/authorize?state=" + state
}

func (m *mockProvider) Exchange(ctx context.Context, code string) (*models.AuthenticatedUser, error) {
	args := m.Called(ctx, code)
	if u := args.Get(0); u != nil {
		return u.(*models.AuthenticatedUser), args.Error(1)
	}
	return nil, args.Error(1)
}

// plainSigner кодирует state как "sid|flow".
type plainSigner struct{}

func (plainSigner) SignState(sid, flow string) (string, error) { return sid + "|" + flow, nil }

func (plainSigner) ParseState(token string) (string, string, error) {
	sid, flow, ok := strings.Cut(token, "|")
	if !ok {
		return "", "", errors.New("bad state")
	}
	return sid, flow, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Error(sid, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, sid+": "+message)
}

type gatewayFixture struct {
	gw       *Gateway
	provider *mockProvider
	store    *repository.MemoryDocumentRepository
	broker   *Broker
	notifier *recordingNotifier
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &gatewayFixture{
		provider: &mockProvider{},
		store:    repository.NewMemoryDocumentRepository(),
		broker:   NewBroker(),
		notifier: &recordingNotifier{},
	}
	f.gw = NewGateway(f.provider, plainSigner{}, f.store, f.broker, cache.New(ctx), f.notifier)
	return f
}

func ada() *models.AuthenticatedUser {
	return &models.AuthenticatedUser{UID: "github:1", Provider: githubProviderID, Login: "ada", Email: "Ada@Example.com"}
}

func TestParseFlow(t *testing.T) {
	f, err := ParseFlow("")
	require.NoError(t, err)
	assert.Equal(t, FlowPopup, f)

	f, err = ParseFlow("redirect")
	require.NoError(t, err)
	assert.Equal(t, FlowRedirect, f)

	_, err = ParseFlow("iframe")
	assert.Error(t, err)
}

func TestGateway_BeginCarriesSessionInState(t *testing.T) {
	f := newGatewayFixture(t)

	url, err := f.gw.Begin("sid-1", FlowRedirect)
	require.NoError(t, err)
	assert.Contains(t, url, "state=sid-1|redirect")
}

func TestGateway_CompletePopupPublishesEvent(t *testing.T) {
	f := newGatewayFixture(t)
	events, unsubscribe := f.broker.Subscribe(1)
	defer unsubscribe()

	f.provider.On("Exchange", mock.Anything, "code").Return(ada(), nil).Once()

	flow, err := f.gw.Complete(context.Background(), "sid-1|popup", "code")
	require.NoError(t, err)
	assert.Equal(t, FlowPopup, flow)

	ev := <-events
	assert.Equal(t, "sid-1", ev.SID)
	assert.Equal(t, FlowPopup, ev.Flow)
	require.NotNil(t, ev.User)
	assert.Equal(t, "github:1", ev.User.UID)

	_, ok := f.gw.TakeRedirectResult("sid-1")
	assert.False(t, ok)

	doc, err := f.store.Get(context.Background(), models.CollectionAccounts, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "github:1", doc.Data["uid"])
	f.provider.AssertExpectations(t)
}

func TestGateway_CompleteRedirectStoresOneShotResult(t *testing.T) {
	f := newGatewayFixture(t)
	f.provider.On("Exchange", mock.Anything, "code").Return(ada(), nil).Once()

	_, err := f.gw.Complete(context.Background(), "sid-2|redirect", "code")
	require.NoError(t, err)

	res, ok := f.gw.TakeRedirectResult("sid-2")
	require.True(t, ok)
	assert.NoError(t, res.Err)
	assert.Equal(t, "github:1", res.User.UID)

	_, ok = f.gw.TakeRedirectResult("sid-2")
	assert.False(t, ok)
}

func TestGateway_SameUserSignsInAgain(t *testing.T) {
	f := newGatewayFixture(t)
	f.provider.On("Exchange", mock.Anything, "code").Return(ada(), nil).Twice()

	_, err := f.gw.Complete(context.Background(), "sid-1|popup", "code")
	require.NoError(t, err)
	_, err = f.gw.Complete(context.Background(), "sid-1|popup", "code")
	require.NoError(t, err)
}

func TestGateway_EmailOwnedByAnotherAccount(t *testing.T) {
	f := newGatewayFixture(t)
	require.NoError(t, f.store.Create(context.Background(), models.CollectionAccounts, "ada@example.com",
		repository.Fields{"uid": "google:9"}))

	f.provider.On("Exchange", mock.Anything, "code").Return(ada(), nil)

	_, err := f.gw.Complete(context.Background(), "sid-1|popup", "code")
	assert.ErrorIs(t, err, ErrAccountExistsWithDifferentCredential)
	assert.Equal(t, []string{"sid-1: " + msgAccountExists}, f.notifier.messages)

	_, err = f.gw.Complete(context.Background(), "sid-2|redirect", "code")
	assert.ErrorIs(t, err, ErrAccountExistsWithDifferentCredential)
	res, ok := f.gw.TakeRedirectResult("sid-2")
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, ErrAccountExistsWithDifferentCredential)
	assert.Nil(t, res.User)
	assert.Len(t, f.notifier.messages, 1)
}

func TestGateway_InvalidStateDoesNotExchange(t *testing.T) {
	f := newGatewayFixture(t)

	_, err := f.gw.Complete(context.Background(), "garbage", "code")
	assert.ErrorIs(t, err, ErrInvalidState)
	f.provider.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
}

func TestGateway_FailFromProvider(t *testing.T) {
	f := newGatewayFixture(t)

	flow, err := f.gw.Fail("sid-3|redirect", "access_denied")
	assert.Equal(t, FlowRedirect, flow)
	assert.ErrorIs(t, err, ErrAccessDenied)

	res, ok := f.gw.TakeRedirectResult("sid-3")
	require.True(t, ok)
	assert.Equal(t, msgSignInFailed, ErrorMessage(res.Err))
}

func TestGateway_SignOutPublishesAnonymous(t *testing.T) {
	f := newGatewayFixture(t)
	events, unsubscribe := f.broker.Subscribe(1)
	defer unsubscribe()

	require.NoError(t, f.gw.SignOut(context.Background(), "sid-1"))

	select {
	case ev := <-events:
		assert.Equal(t, "sid-1", ev.SID)
		assert.Nil(t, ev.User)
	case <-time.After(time.Second):
		t.Fatal("событие выхода не пришло")
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, msgAccountExists, ErrorMessage(ErrAccountExistsWithDifferentCredential))
	assert.Equal(t, msgAccountExists, ErrorMessage(errors.Join(errors.New("x"), ErrAccountExistsWithDifferentCredential)))
	assert.Equal(t, msgSignInFailed, ErrorMessage(errors.New("network down")))
}
