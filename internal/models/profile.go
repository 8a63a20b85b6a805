package models

import (
	"strings"
	"time"
)

// DeveloperProfile — документ коллекции developers, ключ — uid.
type DeveloperProfile struct {
	UID            string     `json:"uid"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Experience     string     `json:"experience"`
	Skills         string     `json:"skills"`
	Bio            string     `json:"bio"`
	GitHub         string     `json:"github"`
	University     string     `json:"university"`
	Degree         string     `json:"degree"`
	GraduationYear string     `json:"graduationYear"`
	PhotoURL       string     `json:"photoURL"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// SkillList разбивает skills через запятую.
func (p DeveloperProfile) SkillList() []string {
	return splitList(p.Skills)
}

// DeveloperProfilePatch — частичное обновление профиля: nil поля не трогаются.
type DeveloperProfilePatch struct {
	FirstName      *string `json:"firstName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`
	Email          *string `json:"email,omitempty"`
	Experience     *string `json:"experience,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	GitHub         *string `json:"github,omitempty"`
	University     *string `json:"university,omitempty"`
	Degree         *string `json:"degree,omitempty"`
	GraduationYear *string `json:"graduationYear,omitempty"`
	PhotoURL       *string `json:"photoURL,omitempty"`
}

// Patch строит полный патч из профиля (форма редактирования отправляет все поля).
func (p DeveloperProfile) Patch() DeveloperProfilePatch {
	return DeveloperProfilePatch{
		FirstName:      &p.FirstName,
		LastName:       &p.LastName,
		Email:          &p.Email,
		Experience:     &p.Experience,
		Skills:         &p.Skills,
		Bio:            &p.Bio,
		GitHub:         &p.GitHub,
		University:     &p.University,
		Degree:         &p.Degree,
		GraduationYear: &p.GraduationYear,
		PhotoURL:       &p.PhotoURL,
	}
}

// RecruiterProfile — документ коллекции recruiters, ключ — uid.
type RecruiterProfile struct {
	UID                string     `json:"uid"`
	CompanyName        string     `json:"companyName"`
	CompanyWebsite     string     `json:"companyWebsite"`
	CompanySize        string     `json:"companySize"`
	FundingStage       string     `json:"fundingStage"`
	EquityRange        string     `json:"equityRange"`
	SalaryRange        string     `json:"salaryRange"`
	RoleDescription    string     `json:"roleDescription"`
	TechStack          string     `json:"techStack"`
	ExperienceRequired string     `json:"experienceRequired"`
	Email              string     `json:"email"`
	PhotoURL           string     `json:"photoURL"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// TechList разбивает techStack через запятую.
func (p RecruiterProfile) TechList() []string {
	return splitList(p.TechStack)
}

// RecruiterProfilePatch — частичное обновление профиля рекрутера.
type RecruiterProfilePatch struct {
	CompanyName        *string `json:"companyName,omitempty"`
	CompanyWebsite     *string `json:"companyWebsite,omitempty"`
	CompanySize        *string `json:"companySize,omitempty"`
	FundingStage       *string `json:"fundingStage,omitempty"`
	EquityRange        *string `json:"equityRange,omitempty"`
	SalaryRange        *string `json:"salaryRange,omitempty"`
	RoleDescription    *string `json:"roleDescription,omitempty"`
	TechStack          *string `json:"techStack,omitempty"`
	ExperienceRequired *string `json:"experienceRequired,omitempty"`
	Email              *string `json:"email,omitempty"`
	PhotoURL           *string `json:"photoURL,omitempty"`
}

// Patch строит полный патч из профиля.
func (p RecruiterProfile) Patch() RecruiterProfilePatch {
	return RecruiterProfilePatch{
		CompanyName:        &p.CompanyName,
		CompanyWebsite:     &p.CompanyWebsite,
		CompanySize:        &p.CompanySize,
		FundingStage:       &p.FundingStage,
		EquityRange:        &p.EquityRange,
		SalaryRange:        &p.SalaryRange,
		RoleDescription:    &p.RoleDescription,
		TechStack:          &p.TechStack,
		ExperienceRequired: &p.ExperienceRequired,
		Email:              &p.Email,
		PhotoURL:           &p.PhotoURL,
	}
}

// ApplyTo переносит заданные поля патча в профиль.
func (p DeveloperProfilePatch) ApplyTo(d *DeveloperProfile) {
	assign(&d.FirstName, p.FirstName)
	assign(&d.LastName, p.LastName)
	assign(&d.Email, p.Email)
	assign(&d.Experience, p.Experience)
	assign(&d.Skills, p.Skills)
	assign(&d.Bio, p.Bio)
	assign(&d.GitHub, p.GitHub)
	assign(&d.University, p.University)
	assign(&d.Degree, p.Degree)
	assign(&d.GraduationYear, p.GraduationYear)
	assign(&d.PhotoURL, p.PhotoURL)
}

func (p RecruiterProfilePatch) ApplyTo(r *RecruiterProfile) {
	assign(&r.CompanyName, p.CompanyName)
	assign(&r.CompanyWebsite, p.CompanyWebsite)
	assign(&r.CompanySize, p.CompanySize)
	assign(&r.FundingStage, p.FundingStage)
	assign(&r.EquityRange, p.EquityRange)
	assign(&r.SalaryRange, p.SalaryRange)
	assign(&r.RoleDescription, p.RoleDescription)
	assign(&r.TechStack, p.TechStack)
	assign(&r.ExperienceRequired, p.ExperienceRequired)
	assign(&r.Email, p.Email)
	assign(&r.PhotoURL, p.PhotoURL)
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
