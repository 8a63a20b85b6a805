package models

import "time"

// Idea — пост рекрутера (кофаундер-роль/вакансия) в коллекции ideas.
type Idea struct {
	ID                 string        `json:"id,omitempty"`
	RecruiterID        string        `json:"recruiterId"`
	UID                string        `json:"uid"`
	CofounderRole      string        `json:"cofounderRole"`
	CompanyName        string        `json:"companyName"`
	CompanySize        string        `json:"companySize"`
	CompanyWebsite     string        `json:"companyWebsite"`
	Email              string        `json:"email"`
	EquityRange        string        `json:"equityRange"`
	ExperienceRequired string        `json:"experienceRequired"`
	FundingStage       string        `json:"fundingStage"`
	IdeaDescription    string        `json:"ideaDescription"`
	IdealCandidate     string        `json:"idealCandidate"`
	PhotoURL           string        `json:"photoURL"`
	Responsibilities   string        `json:"responsibilities"`
	RoleDescription    string        `json:"roleDescription"`
	SalaryRange        string        `json:"salaryRange"`
	Status             ListingStatus `json:"status"`
	TechStack          string        `json:"techStack"`
	CreatedAt          *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time    `json:"updatedAt,omitempty"`
}

// Job — документ коллекции jobs, который показывается на дашборде разработчика.
type Job struct {
	ID          string   `json:"id,omitempty"`
	RecruiterID string   `json:"recruiterId,omitempty"`
	CompanyName string   `json:"companyName"`
	Role        string   `json:"role"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Salary      string   `json:"salary"`
	Equity      string   `json:"equity"`
	TechStack   []string `json:"techStack"`
	Description string   `json:"description"`
	PostedDate  string   `json:"postedDate"`
}
