package models

import "time"

// AuthenticatedUser — личность, выданная внешним провайдером.
// Приложение держит только копию, авторитетен провайдер.
type AuthenticatedUser struct {
	UID         string     `json:"uid"`
	Provider    string     `json:"provider"`
	Login       string     `json:"login"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	PhotoURL    string     `json:"photoURL"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}
