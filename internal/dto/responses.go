package dto

import (
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/service"
	"github.com/founderbridge/backend/internal/session"
)

// ErrorResponse — стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse — ответ с сообщением и данными.
type SuccessResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// IntentResponse — текущая выбранная роль и следующий маршрут клиента.
type IntentResponse struct {
	Role models.Role `json:"role"`
	Next string      `json:"next,omitempty"`
}

// BeginAuthResponse — адрес провайдера для открытия в popup или редиректа страницы.
type BeginAuthResponse struct {
	URL  string `json:"url"`
	Flow string `json:"flow"`
}

// SignupResponse — итог регистрации и переход на дашборд при успехе.
type SignupResponse struct {
	service.Result
	Navigation *session.Navigation `json:"navigation,omitempty"`
}

// PhotoResponse — адрес загруженной фотографии профиля.
type PhotoResponse struct {
	service.Result
	PhotoURL string `json:"photoURL,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// SavedResponse — отмеченные в сессии идеи и вакансии.
type SavedResponse struct {
	Saved []string `json:"saved"`
}
