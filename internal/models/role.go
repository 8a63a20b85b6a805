package models

import "fmt"

// Role — намерение пользователя, выбранное до входа: кандидат или рекрутер.
type Role string

const (
	RoleNone      Role = ""
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// ParseRole разбирает строку в Role; пустая строка и неизвестные значения — ошибка.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCandidate, RoleRecruiter:
		return r, nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

// Collection возвращает коллекцию профилей для роли.
func (r Role) Collection() string {
	switch r {
	case RoleCandidate:
		return CollectionDevelopers
	case RoleRecruiter:
		return CollectionRecruiters
	}
	return ""
}
