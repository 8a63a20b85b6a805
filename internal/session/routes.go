package session

import "github.com/founderbridge/backend/internal/models"

// Клиентские маршруты.
const (
	RouteHome               = "/"
	RouteSignIn             = "/signin"
	RouteSignUpCandidate    = "/signup/candidate"
	RouteSignUpRecruiter    = "/signup/recruiter"
	RouteDeveloperDashboard = "/developer/dashboard"
	RouteRecruiterDashboard = "/recruiter/dashboard"
	RoutePostJob            = "/recruiter/post-job"
)

// RouteFor возвращает дашборд роли; для RoleNone — пустую строку.
func RouteFor(role models.Role) string {
	switch role {
	case models.RoleCandidate:
		return RouteDeveloperDashboard
	case models.RoleRecruiter:
		return RouteRecruiterDashboard
	}
	return ""
}

// NavState — состояние, передаваемое вместе с навигацией на дашборд.
type NavState struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

// Navigation — команда браузеру перейти на маршрут.
type Navigation struct {
	Path    string    `json:"path"`
	Replace bool      `json:"replace,omitempty"`
	State   *NavState `json:"state,omitempty"`
	Message string    `json:"message,omitempty"`
	DelayMS int64     `json:"delayMs,omitempty"`
}
