// Package dashboard собирает данные дашбордов разработчика и рекрутера.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/founderbridge/backend/internal/cache"
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/service"
)

const (
	msgLoadFailed    = "Failed to load dashboard data. Please try again."
	msgProfileSaved  = "Profile updated successfully"
	msgProfileFailed = "Failed to update profile"

	savedTTL = 24 * time.Hour
)

// Notifier показывает уведомление во вкладках сессии.
type Notifier interface {
	Error(sid, message string)
	Success(sid, message string)
}

type Profiles interface {
	GetDeveloperProfile(ctx context.Context, uid string) (*models.DeveloperProfile, error)
	GetRecruiterProfile(ctx context.Context, uid string) (*models.RecruiterProfile, error)
	UpdateDeveloperProfile(ctx context.Context, uid string, patch models.DeveloperProfilePatch) service.Result
	UpdateRecruiterProfile(ctx context.Context, uid string, patch models.RecruiterProfilePatch) service.Result
}

type Listings interface {
	GetActiveJobs(ctx context.Context) ([]models.Idea, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	ListRecruiterIdeas(ctx context.Context, recruiterID string) ([]models.Idea, error)
}

type Applications interface {
	ListByDeveloper(ctx context.Context, developerID string) ([]models.Application, error)
	ListForRecruiter(ctx context.Context, recruiterID string) ([]models.Application, error)
}

// DeveloperTab — вкладка дашборда разработчика.
type DeveloperTab string

const (
	TabAll     DeveloperTab = "all"
	TabSaved   DeveloperTab = "saved"
	TabApplied DeveloperTab = "applied"
)

func ParseDeveloperTab(s string) (DeveloperTab, error) {
	switch t := DeveloperTab(s); t {
	case "":
		return TabAll, nil
	case TabAll, TabSaved, TabApplied:
		return t, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown tab %q", s))
}

// ParseRecruiterTab — вкладки рекрутера совпадают со статусами откликов.
func ParseRecruiterTab(s string) (models.ApplicationStatus, error) {
	if s == "" {
		return models.ApplicationStatusPending, nil
	}
	st := models.ApplicationStatus(s)
	if _, ok := models.ValidApplicationStatuses[st]; !ok {
		return "", apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown tab %q", s))
	}
	return st, nil
}

type DeveloperView struct {
	Profile      *models.DeveloperProfile `json:"profile"`
	Tab          DeveloperTab             `json:"tab"`
	Ideas        []models.Idea            `json:"ideas"`
	Jobs         []models.Job             `json:"jobs"`
	Applications []models.Application     `json:"applications"`
	Saved        []string                 `json:"saved"`
}

// Candidate — отклик вместе с профилем разработчика и ролью, на которую он откликнулся.
type Candidate struct {
	Application models.Application       `json:"application"`
	Role        string                   `json:"role"`
	Developer   *models.DeveloperProfile `json:"developer,omitempty"`
}

type RecruiterView struct {
	Profile    *models.RecruiterProfile `json:"profile"`
	Tab        models.ApplicationStatus `json:"tab"`
	Ideas      []models.Idea            `json:"ideas"`
	Candidates []Candidate              `json:"candidates"`
}

// Service загружает дашборды и уведомляет сессию о сбоях.
type Service struct {
	profiles Profiles
	listings Listings
	apps     Applications
	saved    *cache.Cache
	notifier Notifier
}

func NewService(profiles Profiles, listings Listings, apps Applications, saved *cache.Cache, notifier Notifier) *Service {
	return &Service{
		profiles: profiles,
		listings: listings,
		apps:     apps,
		saved:    saved,
		notifier: notifier,
	}
}

// LoadDeveloper читает профиль и списки параллельно и ждёт все чтения.
func (s *Service) LoadDeveloper(m *Mount, sid, uid string, tab DeveloperTab) (*DeveloperView, error) {
	if uid == "" {
		s.notifier.Error(sid, apperror.ErrMissingUserID.Message)
		return nil, apperror.ErrMissingUserID
	}

	view := &DeveloperView{Tab: tab}
	var (
		ideas []models.Idea
		jobs  []models.Job
	)
	g, ctx := errgroup.WithContext(m.Context())
	g.Go(func() error {
		p, err := s.profiles.GetDeveloperProfile(ctx, uid)
		if err != nil && !errors.Is(err, apperror.ErrProfileNotFound) {
			return err
		}
		view.Profile = p
		return nil
	})
	g.Go(func() (err error) {
		ideas, err = s.listings.GetActiveJobs(ctx)
		return err
	})
	g.Go(func() (err error) {
		jobs, err = s.listings.ListJobs(ctx)
		return err
	})
	g.Go(func() (err error) {
		view.Applications, err = s.apps.ListByDeveloper(ctx, uid)
		return err
	})

	if err := s.settle(m, sid, g.Wait()); err != nil {
		return nil, err
	}

	view.Saved = s.Saved(sid)
	saved := toSet(view.Saved)
	applied := make(map[string]struct{}, len(view.Applications))
	for _, a := range view.Applications {
		applied[a.IdeaID] = struct{}{}
	}

	switch tab {
	case TabSaved:
		view.Ideas = filterIdeas(ideas, saved)
		view.Jobs = filterJobs(jobs, saved)
	case TabApplied:
		view.Ideas = filterIdeas(ideas, applied)
		view.Jobs = []models.Job{}
	default:
		view.Ideas, view.Jobs = ideas, jobs
	}
	return view, nil
}

// LoadRecruiter читает профиль, идеи и отклики параллельно, затем профили кандидатов.
func (s *Service) LoadRecruiter(m *Mount, sid, uid string, tab models.ApplicationStatus) (*RecruiterView, error) {
	if uid == "" {
		s.notifier.Error(sid, apperror.ErrMissingUserID.Message)
		return nil, apperror.ErrMissingUserID
	}

	view := &RecruiterView{Tab: tab}
	var apps []models.Application
	g, ctx := errgroup.WithContext(m.Context())
	g.Go(func() error {
		p, err := s.profiles.GetRecruiterProfile(ctx, uid)
		if err != nil && !errors.Is(err, apperror.ErrProfileNotFound) {
			return err
		}
		view.Profile = p
		return nil
	})
	g.Go(func() (err error) {
		view.Ideas, err = s.listings.ListRecruiterIdeas(ctx, uid)
		return err
	})
	g.Go(func() (err error) {
		apps, err = s.apps.ListForRecruiter(ctx, uid)
		return err
	})
	if err := s.settle(m, sid, g.Wait()); err != nil {
		return nil, err
	}

	roles := make(map[string]string, len(view.Ideas))
	for _, idea := range view.Ideas {
		roles[idea.ID] = idea.CofounderRole
	}

	view.Candidates = []Candidate{}
	for _, a := range apps {
		if a.Status == tab {
			view.Candidates = append(view.Candidates, Candidate{Application: a, Role: roles[a.IdeaID]})
		}
	}

	g, ctx = errgroup.WithContext(m.Context())
	g.SetLimit(8)
	for i := range view.Candidates {
		c := &view.Candidates[i]
		g.Go(func() error {
			p, err := s.profiles.GetDeveloperProfile(ctx, c.Application.DeveloperID)
			if err != nil && !errors.Is(err, apperror.ErrProfileNotFound) {
				return err
			}
			c.Developer = p
			return nil
		})
	}
	if err := s.settle(m, sid, g.Wait()); err != nil {
		return nil, err
	}
	return view, nil
}

// settle решает судьбу результата загрузки: закрытый вид — ErrUnmounted без
// уведомления, ошибка — одно уведомление.
func (s *Service) settle(m *Mount, sid string, err error) error {
	if !m.Active() {
		return ErrUnmounted
	}
	if err != nil {
		logger.WithSession(sid).WithError(err).Error("dashboard: не удалось загрузить данные")
		s.notifier.Error(sid, msgLoadFailed)
		return apperror.Wrap(err, apperror.ErrCodeInternal, msgLoadFailed)
	}
	return nil
}

// ToggleSaved отмечает или снимает отметку «сохранено» с идеи или вакансии.
// Отметки живут в памяти процесса и не попадают в хранилище.
func (s *Service) ToggleSaved(sid, listingID string) []string {
	var out []string
	s.saved.Update(cache.SavedListingsKey(sid), savedTTL, func(cur any) any {
		ids, _ := cur.([]string)
		next := make([]string, 0, len(ids)+1)
		found := false
		for _, id := range ids {
			if id == listingID {
				found = true
				continue
			}
			next = append(next, id)
		}
		if !found {
			next = append(next, listingID)
		}
		out = next
		return next
	})
	return out
}

// Saved возвращает отмеченные идентификаторы сессии.
func (s *Service) Saved(sid string) []string {
	v, ok := s.saved.Get(cache.SavedListingsKey(sid))
	if !ok {
		return []string{}
	}
	ids, _ := v.([]string)
	return append([]string{}, ids...)
}

// DeveloperEditor открывает редактор профиля разработчика поверх текущего профиля.
func (s *Service) DeveloperEditor(ctx context.Context, sid, uid string) (*ProfileEditor[models.DeveloperProfile], error) {
	if uid == "" {
		return nil, s.editorFailed(sid, apperror.ErrMissingUserID)
	}
	p, err := s.profiles.GetDeveloperProfile(ctx, uid)
	if err != nil {
		return nil, s.editorFailed(sid, err)
	}
	return NewProfileEditor(sid, *p, func(ctx context.Context, draft models.DeveloperProfile) service.Result {
		return s.profiles.UpdateDeveloperProfile(ctx, uid, draft.Patch())
	}, s.notifier), nil
}

// RecruiterEditor открывает редактор профиля рекрутера.
func (s *Service) RecruiterEditor(ctx context.Context, sid, uid string) (*ProfileEditor[models.RecruiterProfile], error) {
	if uid == "" {
		return nil, s.editorFailed(sid, apperror.ErrMissingUserID)
	}
	p, err := s.profiles.GetRecruiterProfile(ctx, uid)
	if err != nil {
		return nil, s.editorFailed(sid, err)
	}
	return NewProfileEditor(sid, *p, func(ctx context.Context, draft models.RecruiterProfile) service.Result {
		return s.profiles.UpdateRecruiterProfile(ctx, uid, draft.Patch())
	}, s.notifier), nil
}

// editorFailed сообщает во вкладку, что редактор не открылся.
func (s *Service) editorFailed(sid string, err error) error {
	logger.WithSession(sid).WithError(err).Warn("dashboard: редактор профиля не открыт")
	s.notifier.Error(sid, apperror.MessageOf(err, msgLoadFailed))
	return err
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func filterIdeas(ideas []models.Idea, keep map[string]struct{}) []models.Idea {
	out := []models.Idea{}
	for _, i := range ideas {
		if _, ok := keep[i.ID]; ok {
			out = append(out, i)
		}
	}
	return out
}

func filterJobs(jobs []models.Job, keep map[string]struct{}) []models.Job {
	out := []models.Job{}
	for _, j := range jobs {
		if _, ok := keep[j.ID]; ok {
			out = append(out, j)
		}
	}
	return out
}
