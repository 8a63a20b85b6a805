package service

import (
	"context"
	"fmt"

	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/validation"
)

// ProfileService — профили разработчиков и рекрутеров, ключ документа — uid.
type ProfileService struct {
	store DocumentStore
}

func NewProfileService(store DocumentStore) *ProfileService {
	return &ProfileService{store: store}
}

// CreateDeveloperProfile записывает профиль при регистрации кандидата.
func (s *ProfileService) CreateDeveloperProfile(ctx context.Context, uid string, p models.DeveloperProfile) Result {
	p.UID = uid
	if err := validateDeveloper(p.Patch()); err != nil {
		return failed("create_developer", validationError(err), "Failed to create profile")
	}
	return s.create(ctx, models.CollectionDevelopers, uid, p)
}

// CreateRecruiterProfile записывает профиль при регистрации рекрутера.
func (s *ProfileService) CreateRecruiterProfile(ctx context.Context, uid string, p models.RecruiterProfile) Result {
	p.UID = uid
	if err := validateRecruiter(p.Patch()); err != nil {
		return failed("create_recruiter", validationError(err), "Failed to create profile")
	}
	return s.create(ctx, models.CollectionRecruiters, uid, p)
}

func (s *ProfileService) GetDeveloperProfile(ctx context.Context, uid string) (*models.DeveloperProfile, error) {
	var p models.DeveloperProfile
	if _, err := getInto(ctx, s.store, models.CollectionDevelopers, uid, &p, apperror.ErrProfileNotFound); err != nil {
		return nil, err
	}
	p.UID = uid
	return &p, nil
}

func (s *ProfileService) GetRecruiterProfile(ctx context.Context, uid string) (*models.RecruiterProfile, error) {
	var p models.RecruiterProfile
	if _, err := getInto(ctx, s.store, models.CollectionRecruiters, uid, &p, apperror.ErrProfileNotFound); err != nil {
		return nil, err
	}
	p.UID = uid
	return &p, nil
}

// UpdateDeveloperProfile сливает заданные поля с профилем.
// Последняя запись выигрывает, версии не проверяются.
func (s *ProfileService) UpdateDeveloperProfile(ctx context.Context, uid string, patch models.DeveloperProfilePatch) Result {
	if err := validateDeveloper(patch); err != nil {
		return failed("update_developer", validationError(err), "Failed to update profile")
	}
	return s.merge(ctx, models.CollectionDevelopers, uid, patch)
}

func (s *ProfileService) UpdateRecruiterProfile(ctx context.Context, uid string, patch models.RecruiterProfilePatch) Result {
	if err := validateRecruiter(patch); err != nil {
		return failed("update_recruiter", validationError(err), "Failed to update profile")
	}
	return s.merge(ctx, models.CollectionRecruiters, uid, patch)
}

// SetPhotoURL обновляет фото в профиле роли.
func (s *ProfileService) SetPhotoURL(ctx context.Context, role models.Role, uid, photoURL string) Result {
	collection := role.Collection()
	if collection == "" {
		return failed("set_photo", validationError(fmt.Errorf("role is required")), "Failed to update photo")
	}
	return s.merge(ctx, collection, uid, struct {
		PhotoURL string `json:"photoURL"`
	}{photoURL})
}

func (s *ProfileService) create(ctx context.Context, collection, uid string, profile any) Result {
	const fallback = "Failed to create profile"

	if uid == "" {
		return failed("create_profile", apperror.ErrMissingUserID, fallback)
	}
	fields, err := stamped(profile, true)
	if err != nil {
		return failed("create_profile", err, fallback)
	}
	if err := s.store.Set(ctx, collection, uid, fields); err != nil {
		return failed("create_profile", err, fallback)
	}
	logger.Get().WithField("uid", uid).Infof("service: профиль создан в %s", collection)
	return succeeded(uid)
}

func (s *ProfileService) merge(ctx context.Context, collection, uid string, patch any) Result {
	const fallback = "Failed to update profile"

	if uid == "" {
		return failed("update_profile", apperror.ErrMissingUserID, fallback)
	}
	ok, err := exists(ctx, s.store, collection, uid)
	if err != nil {
		return failed("update_profile", err, fallback)
	}
	if !ok {
		return failed("update_profile", apperror.ErrProfileNotFound, fallback)
	}

	fields, err := stamped(patch, false)
	if err != nil {
		return failed("update_profile", err, fallback)
	}
	if err := s.store.Merge(ctx, collection, uid, fields); err != nil {
		return failed("update_profile", err, fallback)
	}
	return succeeded(uid)
}

func validateDeveloper(p models.DeveloperProfilePatch) error {
	v := validation.Optional
	if err := validation.ValidateFields(
		validation.Field{Name: "firstName", Value: v(p.FirstName)},
		validation.Field{Name: "lastName", Value: v(p.LastName)},
		validation.Field{Name: "experience", Value: v(p.Experience)},
		validation.Field{Name: "skills", Value: v(p.Skills), Max: validation.MaxLongTextLength},
		validation.Field{Name: "bio", Value: v(p.Bio), Max: validation.MaxLongTextLength},
		validation.Field{Name: "university", Value: v(p.University)},
		validation.Field{Name: "degree", Value: v(p.Degree)},
		validation.Field{Name: "graduationYear", Value: v(p.GraduationYear)},
	); err != nil {
		return err
	}
	if e := v(p.Email); e != "" {
		if err := validation.ValidateEmail(e); err != nil {
			return err
		}
	}
	if err := validation.ValidateLength("photoURL", v(p.PhotoURL), 0, validation.MaxURLLength); err != nil {
		return err
	}
	return validation.ValidateURL("github", v(p.GitHub))
}

func validateRecruiter(p models.RecruiterProfilePatch) error {
	v := validation.Optional
	if err := validation.ValidateFields(
		validation.Field{Name: "companyName", Value: v(p.CompanyName)},
		validation.Field{Name: "companySize", Value: v(p.CompanySize)},
		validation.Field{Name: "fundingStage", Value: v(p.FundingStage)},
		validation.Field{Name: "equityRange", Value: v(p.EquityRange)},
		validation.Field{Name: "salaryRange", Value: v(p.SalaryRange)},
		validation.Field{Name: "roleDescription", Value: v(p.RoleDescription), Max: validation.MaxLongTextLength},
		validation.Field{Name: "techStack", Value: v(p.TechStack), Max: validation.MaxLongTextLength},
		validation.Field{Name: "experienceRequired", Value: v(p.ExperienceRequired)},
	); err != nil {
		return err
	}
	if e := v(p.Email); e != "" {
		if err := validation.ValidateEmail(e); err != nil {
			return err
		}
	}
	if err := validation.ValidateLength("photoURL", v(p.PhotoURL), 0, validation.MaxURLLength); err != nil {
		return err
	}
	return validation.ValidateURL("companyWebsite", v(p.CompanyWebsite))
}
