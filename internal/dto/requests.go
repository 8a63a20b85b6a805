package dto

import (
	"github.com/founderbridge/backend/internal/models"
)

// IntentRequest — выбор роли перед входом.
type IntentRequest struct {
	Role string `json:"role" binding:"required"`
}

// DeveloperSignupRequest — форма регистрации кандидата.
// E-mail и фото берутся из учётной записи провайдера, если не переданы.
type DeveloperSignupRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email"`
	Experience     string `json:"experience"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	GitHub         string `json:"github"`
	University     string `json:"university"`
	Degree         string `json:"degree"`
	GraduationYear string `json:"graduationYear"`
}

// ToProfile собирает профиль, дополняя форму данными провайдера.
func (r DeveloperSignupRequest) ToProfile(user *models.AuthenticatedUser) models.DeveloperProfile {
	p := models.DeveloperProfile{
		UID:            user.UID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Experience:     r.Experience,
		Skills:         r.Skills,
		Bio:            r.Bio,
		GitHub:         r.GitHub,
		University:     r.University,
		Degree:         r.Degree,
		GraduationYear: r.GraduationYear,
		PhotoURL:       user.PhotoURL,
	}
	if p.Email == "" {
		p.Email = user.Email
	}
	if p.GitHub == "" && user.Login != "" {
		p.GitHub = "https://github.com/" + user.Login
	}
	return p
}

// RecruiterSignupRequest — форма регистрации рекрутера.
type RecruiterSignupRequest struct {
	CompanyName        string `json:"companyName" binding:"required"`
	CompanyWebsite     string `json:"companyWebsite"`
	CompanySize        string `json:"companySize"`
	FundingStage       string `json:"fundingStage"`
	EquityRange        string `json:"equityRange"`
	SalaryRange        string `json:"salaryRange"`
	RoleDescription    string `json:"roleDescription"`
	TechStack          string `json:"techStack"`
	ExperienceRequired string `json:"experienceRequired"`
	Email              string `json:"email"`
}

func (r RecruiterSignupRequest) ToProfile(user *models.AuthenticatedUser) models.RecruiterProfile {
	p := models.RecruiterProfile{
		UID:                user.UID,
		CompanyName:        r.CompanyName,
		CompanyWebsite:     r.CompanyWebsite,
		CompanySize:        r.CompanySize,
		FundingStage:       r.FundingStage,
		EquityRange:        r.EquityRange,
		SalaryRange:        r.SalaryRange,
		RoleDescription:    r.RoleDescription,
		TechStack:          r.TechStack,
		ExperienceRequired: r.ExperienceRequired,
		Email:              r.Email,
		PhotoURL:           user.PhotoURL,
	}
	if p.Email == "" {
		p.Email = user.Email
	}
	return p
}

// CreateIdeaRequest — форма публикации идеи. Автор и статус задаёт сервер.
type CreateIdeaRequest struct {
	CofounderRole      string `json:"cofounderRole" binding:"required"`
	CompanyName        string `json:"companyName" binding:"required"`
	CompanySize        string `json:"companySize"`
	CompanyWebsite     string `json:"companyWebsite"`
	Email              string `json:"email"`
	EquityRange        string `json:"equityRange"`
	ExperienceRequired string `json:"experienceRequired"`
	FundingStage       string `json:"fundingStage"`
	IdeaDescription    string `json:"ideaDescription" binding:"required"`
	IdealCandidate     string `json:"idealCandidate"`
	PhotoURL           string `json:"photoURL"`
	Responsibilities   string `json:"responsibilities"`
	RoleDescription    string `json:"roleDescription"`
	SalaryRange        string `json:"salaryRange"`
	TechStack          string `json:"techStack"`
}

func (r CreateIdeaRequest) ToIdea(recruiterID string) models.Idea {
	return models.Idea{
		RecruiterID:        recruiterID,
		UID:                recruiterID,
		CofounderRole:      r.CofounderRole,
		CompanyName:        r.CompanyName,
		CompanySize:        r.CompanySize,
		CompanyWebsite:     r.CompanyWebsite,
		Email:              r.Email,
		EquityRange:        r.EquityRange,
		ExperienceRequired: r.ExperienceRequired,
		FundingStage:       r.FundingStage,
		IdeaDescription:    r.IdeaDescription,
		IdealCandidate:     r.IdealCandidate,
		PhotoURL:           r.PhotoURL,
		Responsibilities:   r.Responsibilities,
		RoleDescription:    r.RoleDescription,
		SalaryRange:        r.SalaryRange,
		TechStack:          r.TechStack,
	}
}

// StatusRequest меняет статус идеи или отклика.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitApplicationRequest — отклик разработчика на идею.
type SubmitApplicationRequest struct {
	IdeaID      string `json:"ideaId" binding:"required"`
	CoverLetter string `json:"coverLetter"`
	Resume      string `json:"resume"`
}
