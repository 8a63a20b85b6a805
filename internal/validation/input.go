package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxShortTextLength   = 200
	MaxLongTextLength    = 5000
	MaxCoverLetterLength = 5000
	MaxURLLength         = 500
	MaxEmailLength       = 320
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email is too long")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return fmt.Errorf("email must contain a single @")
	}
	if len(local) == 0 || len(local) > 64 || !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("email has an invalid local part")
	}
	if !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("email has an invalid domain")
	}
	return nil
}

// ValidateURL проверяет http(s) ссылку; пустая строка допустима,
// ссылка без схемы считается https.
func ValidateURL(fieldName, link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}
	if err := ValidateLength(fieldName, link, 0, MaxURLLength); err != nil {
		return err
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL", fieldName)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must start with http:// or https://", fieldName)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must contain a host", fieldName)
	}
	return nil
}

// Field — значение поля формы для пакетной проверки.
type Field struct {
	Name     string
	Value    string
	Required bool
	Max      int
}

// ValidateFields проверяет поля по порядку и возвращает первую ошибку.
func ValidateFields(fields ...Field) error {
	for _, f := range fields {
		if f.Required {
			if err := ValidateNonEmpty(f.Name, f.Value); err != nil {
				return err
			}
		}
		max := f.Max
		if max == 0 {
			max = MaxShortTextLength
		}
		if err := ValidateLength(f.Name, strings.TrimSpace(f.Value), 0, max); err != nil {
			return err
		}
	}
	return nil
}

// Optional возвращает значение указателя или пустую строку.
func Optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
