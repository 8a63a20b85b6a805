package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/repository"
	"github.com/founderbridge/backend/internal/validation"
)

// ListingService — идеи рекрутеров и вакансии.
type ListingService struct {
	store DocumentStore
	now   func() time.Time
}

func NewListingService(store DocumentStore) *ListingService {
	return &ListingService{store: store, now: time.Now}
}

// CreateJobListing публикует идею. Автор обязан иметь профиль рекрутера,
// иначе ничего не записывается; проверка идёт раньше валидации полей.
func (s *ListingService) CreateJobListing(ctx context.Context, data models.Idea) Result {
	const fallback = "Failed to create idea"

	ok, err := exists(ctx, s.store, models.CollectionRecruiters, data.RecruiterID)
	if err != nil {
		return failed("create_listing", err, fallback)
	}
	if !ok {
		return failed("create_listing", apperror.ErrNotRecruiter, fallback)
	}

	if err := validateIdea(data); err != nil {
		return failed("create_listing", validationError(err), fallback)
	}

	fields, err := stamped(data, true)
	if err != nil {
		return failed("create_listing", err, fallback)
	}
	fields["status"] = string(models.ListingStatusActive)

	id, err := s.store.Add(ctx, models.CollectionIdeas, fields)
	if err != nil {
		return failed("create_listing", err, fallback)
	}

	logger.Get().WithFields(logrus.Fields{"idea_id": id, "recruiter_id": data.RecruiterID}).Info("service: идея создана")
	return succeeded(id)
}

// GetActiveJobs возвращает идеи со статусом ровно "active".
// Коллекция читается целиком и фильтруется в процессе: на больших объёмах
// это упрётся в память и время ответа, тогда фильтр нужно перенести в запрос.
func (s *ListingService) GetActiveJobs(ctx context.Context) ([]models.Idea, error) {
	docs, err := s.store.List(ctx, models.CollectionIdeas)
	if err != nil {
		return nil, fmt.Errorf("service: list ideas: %w", err)
	}

	now := s.now().UTC()
	ideas := make([]models.Idea, 0, len(docs))
	for _, doc := range docs {
		if status, _ := doc.Data["status"].(string); status != string(models.ListingStatusActive) {
			continue
		}

		data := make(repository.Fields, len(doc.Data)+1)
		for k, v := range doc.Data {
			data[k] = v
		}
		if missing(data["createdAt"]) {
			if !missing(data["updatedAt"]) {
				data["createdAt"] = data["updatedAt"]
			} else {
				data["createdAt"] = now
			}
		}
		if missing(data["updatedAt"]) {
			data["updatedAt"] = now
		}
		data["id"] = doc.ID

		var idea models.Idea
		if err := repository.Decode(data, &idea); err != nil {
			logger.Get().WithField("idea_id", doc.ID).WithError(err).Warn("service: идея пропущена, документ не читается")
			continue
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

func missing(v any) bool {
	return v == nil || v == ""
}

// GetListing возвращает одну идею.
func (s *ListingService) GetListing(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	if _, err := getInto(ctx, s.store, models.CollectionIdeas, id, &idea, apperror.ErrListingNotFound); err != nil {
		return nil, err
	}
	idea.ID = id
	return &idea, nil
}

// ListRecruiterIdeas возвращает все идеи рекрутера, включая закрытые.
func (s *ListingService) ListRecruiterIdeas(ctx context.Context, recruiterID string) ([]models.Idea, error) {
	docs, err := s.store.Where(ctx, models.CollectionIdeas, "recruiterId", recruiterID)
	if err != nil {
		return nil, fmt.Errorf("service: list recruiter ideas: %w", err)
	}
	ideas := make([]models.Idea, 0, len(docs))
	for _, doc := range docs {
		var idea models.Idea
		if err := repository.Decode(doc.Data, &idea); err != nil {
			return nil, err
		}
		idea.ID = doc.ID
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

// ListJobs читает коллекцию jobs для дашборда разработчика.
func (s *ListingService) ListJobs(ctx context.Context) ([]models.Job, error) {
	docs, err := s.store.List(ctx, models.CollectionJobs)
	if err != nil {
		return nil, fmt.Errorf("service: list jobs: %w", err)
	}
	jobs := make([]models.Job, 0, len(docs))
	for _, doc := range docs {
		var job models.Job
		if err := repository.Decode(doc.Data, &job); err != nil {
			return nil, err
		}
		job.ID = doc.ID
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// SetListingStatus открывает или закрывает идею. Менять статус может только автор.
func (s *ListingService) SetListingStatus(ctx context.Context, recruiterID, ideaID string, status models.ListingStatus) Result {
	const fallback = "Failed to update idea"

	if _, ok := models.ValidListingStatuses[status]; !ok {
		return failed("set_listing_status", validationError(fmt.Errorf("status must be active or closed")), fallback)
	}

	idea, err := s.GetListing(ctx, ideaID)
	if err != nil {
		return failed("set_listing_status", err, fallback)
	}
	if idea.RecruiterID != recruiterID {
		return failed("set_listing_status", apperror.ErrForbidden, fallback)
	}

	if err := s.store.Merge(ctx, models.CollectionIdeas, ideaID, repository.Fields{
		"status":    string(status),
		"updatedAt": repository.ServerTimestamp,
	}); err != nil {
		return failed("set_listing_status", err, fallback)
	}
	return succeeded(ideaID)
}

func validateIdea(data models.Idea) error {
	if err := validation.ValidateFields(
		validation.Field{Name: "cofounderRole", Value: data.CofounderRole, Required: true},
		validation.Field{Name: "companyName", Value: data.CompanyName, Required: true},
		validation.Field{Name: "companySize", Value: data.CompanySize},
		validation.Field{Name: "equityRange", Value: data.EquityRange},
		validation.Field{Name: "salaryRange", Value: data.SalaryRange},
		validation.Field{Name: "fundingStage", Value: data.FundingStage},
		validation.Field{Name: "experienceRequired", Value: data.ExperienceRequired},
		validation.Field{Name: "techStack", Value: data.TechStack, Max: validation.MaxLongTextLength},
		validation.Field{Name: "ideaDescription", Value: data.IdeaDescription, Max: validation.MaxLongTextLength},
		validation.Field{Name: "idealCandidate", Value: data.IdealCandidate, Max: validation.MaxLongTextLength},
		validation.Field{Name: "responsibilities", Value: data.Responsibilities, Max: validation.MaxLongTextLength},
		validation.Field{Name: "roleDescription", Value: data.RoleDescription, Max: validation.MaxLongTextLength},
	); err != nil {
		return err
	}
	if data.Email != "" {
		if err := validation.ValidateEmail(data.Email); err != nil {
			return err
		}
	}
	return validation.ValidateURL("companyWebsite", data.CompanyWebsite)
}
