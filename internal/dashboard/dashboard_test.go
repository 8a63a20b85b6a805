package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/founderbridge/backend/internal/cache"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/service"
)

type note struct {
	sid, level, message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Error(sid, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{sid, "error", message})
}

func (n *recordingNotifier) Success(sid, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{sid, "success", message})
}

func (n *recordingNotifier) errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, x := range n.notes {
		if x.level == "error" {
			out = append(out, x.message)
		}
	}
	return out
}

type fakeProfiles struct {
	developers map[string]models.DeveloperProfile
	recruiters map[string]models.RecruiterProfile
	updateRes  service.Result
	updates    int
}

func (f *fakeProfiles) GetDeveloperProfile(_ context.Context, uid string) (*models.DeveloperProfile, error) {
	p, ok := f.developers[uid]
	if !ok {
		return nil, apperror.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) GetRecruiterProfile(_ context.Context, uid string) (*models.RecruiterProfile, error) {
	p, ok := f.recruiters[uid]
	if !ok {
		return nil, apperror.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) UpdateDeveloperProfile(context.Context, string, models.DeveloperProfilePatch) service.Result {
	f.updates++
	return f.updateRes
}

func (f *fakeProfiles) UpdateRecruiterProfile(context.Context, string, models.RecruiterProfilePatch) service.Result {
	f.updates++
	return f.updateRes
}

type fakeListings struct {
	ideas []models.Idea
	jobs  []models.Job
	err   error
	block bool
}

func (f *fakeListings) GetActiveJobs(ctx context.Context) ([]models.Idea, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.ideas, f.err
}

func (f *fakeListings) ListJobs(context.Context) ([]models.Job, error) {
	return f.jobs, nil
}

func (f *fakeListings) ListRecruiterIdeas(_ context.Context, recruiterID string) ([]models.Idea, error) {
	var out []models.Idea
	for _, i := range f.ideas {
		if i.RecruiterID == recruiterID {
			out = append(out, i)
		}
	}
	return out, f.err
}

type fakeApplications struct {
	apps []models.Application
}

func (f *fakeApplications) ListByDeveloper(_ context.Context, developerID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.apps {
		if a.DeveloperID == developerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplications) ListForRecruiter(context.Context, string) ([]models.Application, error) {
	return f.apps, nil
}

type fixture struct {
	svc      *Service
	profiles *fakeProfiles
	listings *fakeListings
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &fixture{
		profiles: &fakeProfiles{
			developers: map[string]models.DeveloperProfile{
				"dev":  {UID: "dev", FirstName: "Ada", Bio: "old"},
				"dev2": {UID: "dev2", FirstName: "Linus"},
			},
			recruiters: map[string]models.RecruiterProfile{"rec": {UID: "rec", CompanyName: "Acme"}},
		},
		listings: &fakeListings{
			ideas: []models.Idea{
				{ID: "i1", RecruiterID: "rec", CofounderRole: "CTO"},
				{ID: "i2", RecruiterID: "rec", CofounderRole: "CPO"},
			},
			jobs: []models.Job{{ID: "j1", Role: "Backend"}},
		},
		notifier: &recordingNotifier{},
	}
	apps := &fakeApplications{apps: []models.Application{
		{ID: "a1", IdeaID: "i1", DeveloperID: "dev", Status: models.ApplicationStatusPending},
		{ID: "a2", IdeaID: "i2", DeveloperID: "dev2", Status: models.ApplicationStatusAccepted},
	}}
	f.svc = NewService(f.profiles, f.listings, apps, cache.New(ctx), f.notifier)
	return f
}

func TestLoadDeveloper_MissingUserID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.LoadDeveloper(Detached(context.Background()), "sid", "", TabAll)

	assert.ErrorIs(t, err, apperror.ErrMissingUserID)
	assert.Equal(t, []string{"User ID not found. Please try logging in again."}, f.notifier.errors())
}

func TestLoadDeveloper_Tabs(t *testing.T) {
	f := newFixture(t)
	m := Detached(context.Background())
	defer m.End()

	view, err := f.svc.LoadDeveloper(m, "sid", "dev", TabAll)
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.Profile.FirstName)
	assert.Len(t, view.Ideas, 2)
	assert.Len(t, view.Jobs, 1)
	assert.Empty(t, view.Saved)

	view, err = f.svc.LoadDeveloper(m, "sid", "dev", TabApplied)
	require.NoError(t, err)
	require.Len(t, view.Ideas, 1)
	assert.Equal(t, "i1", view.Ideas[0].ID)
	assert.Empty(t, view.Jobs)

	f.svc.ToggleSaved("sid", "i2")
	f.svc.ToggleSaved("sid", "j1")
	view, err = f.svc.LoadDeveloper(m, "sid", "dev", TabSaved)
	require.NoError(t, err)
	require.Len(t, view.Ideas, 1)
	assert.Equal(t, "i2", view.Ideas[0].ID)
	require.Len(t, view.Jobs, 1)
	assert.ElementsMatch(t, []string{"i2", "j1"}, view.Saved)

	assert.Empty(t, f.notifier.errors())
}

func TestLoadDeveloper_MissingProfileIsNotFailure(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.LoadDeveloper(Detached(context.Background()), "sid", "stranger", TabAll)
	require.NoError(t, err)
	assert.Nil(t, view.Profile)
}

func TestLoadDeveloper_FailureNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	f.listings.err = errors.New("store down")

	_, err := f.svc.LoadDeveloper(Detached(context.Background()), "sid", "dev", TabAll)

	assert.Error(t, err)
	assert.Equal(t, []string{"Failed to load dashboard data. Please try again."}, f.notifier.errors())
}

func TestLoadDeveloper_UnmountedDiscardsResult(t *testing.T) {
	f := newFixture(t)
	f.listings.block = true
	mounts := NewMounts()
	m := mounts.Begin(context.Background(), "sid", "developer")

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.LoadDeveloper(m, "sid", "dev", TabAll)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	m.End()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrUnmounted)
	case <-time.After(time.Second):
		t.Fatal("загрузка не завершилась после End")
	}
	assert.Empty(t, f.notifier.errors())
	assert.Equal(t, 0, mounts.count())
}

func TestMounts_BeginReplacesPrevious(t *testing.T) {
	mounts := NewMounts()
	first := mounts.Begin(context.Background(), "sid", "developer")
	second := mounts.Begin(context.Background(), "sid", "developer")
	other := mounts.Begin(context.Background(), "sid", "recruiter")

	assert.False(t, first.Active())
	assert.True(t, second.Active())
	assert.True(t, other.Active())

	first.End()
	assert.Equal(t, 2, mounts.count())
	second.End()
	other.End()
	assert.Equal(t, 0, mounts.count())
}

func TestLoadRecruiter_CandidatesByTab(t *testing.T) {
	f := newFixture(t)
	m := Detached(context.Background())

	view, err := f.svc.LoadRecruiter(m, "sid", "rec", models.ApplicationStatusPending)
	require.NoError(t, err)
	assert.Equal(t, "Acme", view.Profile.CompanyName)
	assert.Len(t, view.Ideas, 2)
	require.Len(t, view.Candidates, 1)
	assert.Equal(t, "a1", view.Candidates[0].Application.ID)
	assert.Equal(t, "CTO", view.Candidates[0].Role)
	require.NotNil(t, view.Candidates[0].Developer)
	assert.Equal(t, "Ada", view.Candidates[0].Developer.FirstName)

	view, err = f.svc.LoadRecruiter(m, "sid", "rec", models.ApplicationStatusRejected)
	require.NoError(t, err)
	assert.Empty(t, view.Candidates)
}

func TestParseTabs(t *testing.T) {
	tab, err := ParseDeveloperTab("")
	require.NoError(t, err)
	assert.Equal(t, TabAll, tab)
	_, err = ParseDeveloperTab("starred")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	st, err := ParseRecruiterTab("")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, st)
	_, err = ParseRecruiterTab("reviewing")
	assert.Error(t, err)
}

func TestToggleSaved(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"i1"}, f.svc.ToggleSaved("sid", "i1"))
	assert.Equal(t, []string{"i1", "i2"}, f.svc.ToggleSaved("sid", "i2"))
	assert.Equal(t, []string{"i2"}, f.svc.ToggleSaved("sid", "i1"))
	assert.Empty(t, f.svc.Saved("other"))
}

func TestEditor_FailureKeepsDisplayedAndNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	f.profiles.updateRes = service.Result{Error: "Failed to update profile"}

	ed, err := f.svc.DeveloperEditor(context.Background(), "sid", "dev")
	require.NoError(t, err)

	ed.Open()
	require.NoError(t, ed.Edit(func(p *models.DeveloperProfile) { p.Bio = "new" }))

	shown, err := ed.Confirm(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "old", shown.Bio)
	assert.Equal(t, "old", ed.Displayed().Bio)
	assert.Equal(t, []string{"Failed to update profile"}, f.notifier.errors())
	assert.Equal(t, 1, f.profiles.updates)
}

func TestEditor_SuccessReplacesDisplayed(t *testing.T) {
	f := newFixture(t)
	f.profiles.updateRes = service.Result{Success: true, ID: "rec"}

	ed, err := f.svc.RecruiterEditor(context.Background(), "sid", "rec")
	require.NoError(t, err)

	draft := ed.Open()
	assert.Equal(t, "Acme", draft.CompanyName)
	require.NoError(t, ed.Edit(func(p *models.RecruiterProfile) { p.CompanyName = "Acme Labs" }))
	assert.Equal(t, "Acme", ed.Displayed().CompanyName)

	shown, err := ed.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme Labs", shown.CompanyName)
	assert.Equal(t, 1, f.profiles.updates)
	assert.Empty(t, f.notifier.errors())

	_, err = ed.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoDraft)
	assert.Equal(t, 1, f.profiles.updates)
}

func TestEditor_OpenFailureNotifies(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DeveloperEditor(context.Background(), "sid", "ghost")
	assert.ErrorIs(t, err, apperror.ErrProfileNotFound)

	_, err = f.svc.RecruiterEditor(context.Background(), "sid", "")
	assert.ErrorIs(t, err, apperror.ErrMissingUserID)

	assert.Equal(t, []string{apperror.ErrProfileNotFound.Message, apperror.ErrMissingUserID.Message}, f.notifier.errors())
	assert.Zero(t, f.profiles.updates)
}

func TestEditor_EditWithoutOpen(t *testing.T) {
	ed := NewProfileEditor("sid", models.DeveloperProfile{}, nil, &recordingNotifier{})
	assert.ErrorIs(t, ed.Edit(func(*models.DeveloperProfile) {}), ErrNoDraft)
}
