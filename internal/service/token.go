package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/founderbridge/backend/internal/models"
)

const (
	audienceAccess = "access"
	audienceState  = "oauth_state"
)

var ErrInvalidToken = errors.New("token: invalid")

// accessClaims — состояние навигации: кто вошёл и под какой ролью.
type accessClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// stateClaims — параметр state OAuth: к какой сессии и какому способу входа он относится.
type stateClaims struct {
	Flow string `json:"flow"`
	jwt.RegisteredClaims
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	stateTTL  time.Duration
	now       func() time.Time
}

// NewTokenManager создаёт менеджер токенов; issuer — идентификатор приложения.
func NewTokenManager(secret, issuer string, accessTTL, stateTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		stateTTL:  stateTTL,
		now:       time.Now,
	}
}

// GenerateAccess выпускает access токен для uid.
func (m *TokenManager) GenerateAccess(uid string, role models.Role) (string, error) {
	now := m.now()
	claims := accessClaims{
		Role:             string(role),
		RegisteredClaims: m.registered(uid, audienceAccess, now, m.accessTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign access: %w", err)
	}
	return signed, nil
}

// ParseAccess извлекает uid и роль из access токена.
func (m *TokenManager) ParseAccess(token string) (string, models.Role, error) {
	var claims accessClaims
	if err := m.parse(token, &claims, audienceAccess); err != nil {
		return "", models.RoleNone, err
	}
	if claims.Subject == "" {
		return "", models.RoleNone, ErrInvalidToken
	}
	return claims.Subject, models.Role(claims.Role), nil
}

// SignState подписывает OAuth state для сессии sid.
func (m *TokenManager) SignState(sid, flow string) (string, error) {
	claims := stateClaims{
		Flow:             flow,
		RegisteredClaims: m.registered(sid, audienceState, m.now(), m.stateTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign state: %w", err)
	}
	return signed, nil
}

// ParseState проверяет state и возвращает sid и способ входа.
func (m *TokenManager) ParseState(token string) (string, string, error) {
	var claims stateClaims
	if err := m.parse(token, &claims, audienceState); err != nil {
		return "", "", err
	}
	if claims.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Flow, nil
}

func (m *TokenManager) registered(subject, audience string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (m *TokenManager) parse(token string, claims jwt.Claims, audience string) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
