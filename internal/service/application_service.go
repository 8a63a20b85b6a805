package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/repository"
	"github.com/founderbridge/backend/internal/validation"
)

// ApplicationService — отклики разработчиков на идеи.
type ApplicationService struct {
	store    DocumentStore
	listings *ListingService
}

func NewApplicationService(store DocumentStore, listings *ListingService) *ApplicationService {
	return &ApplicationService{store: store, listings: listings}
}

// SubmitApplication создаёт отклик в статусе pending. Отказ только для
// объявления, закрытого явно; неизвестный id не проверяется.
func (s *ApplicationService) SubmitApplication(ctx context.Context, data models.Application) Result {
	const fallback = "Failed to submit application"

	if err := validation.ValidateFields(
		validation.Field{Name: "ideaId", Value: data.IdeaID, Required: true},
		validation.Field{Name: "developerId", Value: data.DeveloperID, Required: true},
		validation.Field{Name: "coverLetter", Value: data.CoverLetter, Max: validation.MaxCoverLetterLength},
		validation.Field{Name: "resume", Value: data.Resume, Max: validation.MaxURLLength},
	); err != nil {
		return failed("submit_application", validationError(err), fallback)
	}

	closed, err := s.listingClosed(ctx, data.IdeaID)
	if err != nil {
		return failed("submit_application", err, fallback)
	}
	if closed {
		return failed("submit_application", apperror.ErrListingClosed, fallback)
	}

	data.Status = models.ApplicationStatusPending
	fields, err := stamped(data, true)
	if err != nil {
		return failed("submit_application", err, fallback)
	}

	id, err := s.store.Add(ctx, models.CollectionApplications, fields)
	if err != nil {
		return failed("submit_application", err, fallback)
	}

	logger.Get().WithFields(logrus.Fields{"application_id": id, "idea_id": data.IdeaID}).Info("service: отклик отправлен")
	return succeeded(id)
}

// ListByDeveloper возвращает отклики разработчика.
func (s *ApplicationService) ListByDeveloper(ctx context.Context, developerID string) ([]models.Application, error) {
	return s.where(ctx, "developerId", developerID)
}

// ListForRecruiter возвращает отклики на все идеи рекрутера.
func (s *ApplicationService) ListForRecruiter(ctx context.Context, recruiterID string) ([]models.Application, error) {
	ideas, err := s.listings.ListRecruiterIdeas(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	var out []models.Application
	for _, idea := range ideas {
		apps, err := s.where(ctx, "ideaId", idea.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, apps...)
	}
	return out, nil
}

// ReviewApplication переводит отклик из pending в accepted или rejected.
// Решение принимает только автор идеи.
func (s *ApplicationService) ReviewApplication(ctx context.Context, recruiterID, applicationID string, status models.ApplicationStatus) Result {
	const fallback = "Failed to update application"

	var app models.Application
	if _, err := getInto(ctx, s.store, models.CollectionApplications, applicationID, &app, apperror.ErrApplicationNotFound); err != nil {
		return failed("review_application", err, fallback)
	}

	idea, err := s.listings.GetListing(ctx, app.IdeaID)
	if err != nil {
		return failed("review_application", err, fallback)
	}
	if idea.RecruiterID != recruiterID {
		return failed("review_application", apperror.ErrForbidden, fallback)
	}
	if !models.CanTransition(app.Status, status) {
		return failed("review_application", apperror.ErrInvalidTransition, fallback)
	}

	if err := s.store.Merge(ctx, models.CollectionApplications, applicationID, repository.Fields{
		"status":    string(status),
		"updatedAt": repository.ServerTimestamp,
	}); err != nil {
		return failed("review_application", err, fallback)
	}
	return succeeded(applicationID)
}

// listingClosed ищет объявление в ideas, затем в jobs.
func (s *ApplicationService) listingClosed(ctx context.Context, id string) (bool, error) {
	for _, collection := range []string{models.CollectionIdeas, models.CollectionJobs} {
		doc, err := s.store.Get(ctx, collection, id)
		if errors.Is(err, repository.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("service: get %s/%s: %w", collection, id, err)
		}
		status, _ := doc.Data["status"].(string)
		return status == string(models.ListingStatusClosed), nil
	}
	return false, nil
}

func (s *ApplicationService) where(ctx context.Context, field, value string) ([]models.Application, error) {
	docs, err := s.store.Where(ctx, models.CollectionApplications, field, value)
	if err != nil {
		return nil, fmt.Errorf("service: list applications by %s: %w", field, err)
	}
	apps := make([]models.Application, 0, len(docs))
	for _, doc := range docs {
		var app models.Application
		if err := repository.Decode(doc.Data, &app); err != nil {
			return nil, err
		}
		app.ID = doc.ID
		apps = append(apps, app)
	}
	return apps, nil
}
