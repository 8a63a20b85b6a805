package models

import "time"

// Application связывает разработчика с идеей, на которую он откликнулся.
type Application struct {
	ID          string            `json:"id,omitempty"`
	IdeaID      string            `json:"ideaId"`
	DeveloperID string            `json:"developerId"`
	CoverLetter string            `json:"coverLetter"`
	Resume      string            `json:"resume"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty"`
}
