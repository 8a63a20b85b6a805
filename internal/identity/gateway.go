// Package identity выполняет вход через внешнего провайдера и публикует
// изменения состояния аутентификации браузерных сессий.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/founderbridge/backend/internal/cache"
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/models"
	"github.com/founderbridge/backend/internal/repository"
)

// Flow — способ входа: всплывающее окно или полный редирект страницы.
type Flow string

const (
	FlowPopup    Flow = "popup"
	FlowRedirect Flow = "redirect"
)

// ParseFlow разбирает способ входа; пустая строка — popup.
func ParseFlow(s string) (Flow, error) {
	switch Flow(s) {
	case "", FlowPopup:
		return FlowPopup, nil
	case FlowRedirect:
		return FlowRedirect, nil
	}
	return "", fmt.Errorf("identity: unknown flow %q", s)
}

const redirectResultTTL = 5 * time.Minute

// StateSigner подписывает и проверяет параметр state.
type StateSigner interface {
	SignState(sid, flow string) (string, error)
	ParseState(token string) (string, string, error)
}

// AccountStore — часть хранилища документов, нужная для привязки аккаунтов.
type AccountStore interface {
	Get(ctx context.Context, collection, id string) (*repository.Document, error)
	Create(ctx context.Context, collection, id string, data repository.Fields) error
	Merge(ctx context.Context, collection, id string, data repository.Fields) error
}

// Notifier показывает сообщение в открытой вкладке сессии.
type Notifier interface {
	Error(sid, message string)
}

// RedirectResult — итог входа через редирект, забирается один раз.
type RedirectResult struct {
	User *models.AuthenticatedUser
	Err  error
}

// Gateway связывает провайдера, хранилище аккаунтов и поток событий.
type Gateway struct {
	provider Provider
	signer   StateSigner
	accounts AccountStore
	broker   *Broker
	results  *cache.Cache
	notifier Notifier
}

func NewGateway(provider Provider, signer StateSigner, accounts AccountStore, broker *Broker, results *cache.Cache, notifier Notifier) *Gateway {
	return &Gateway{
		provider: provider,
		signer:   signer,
		accounts: accounts,
		broker:   broker,
		results:  results,
		notifier: notifier,
	}
}

// Begin возвращает адрес провайдера для сессии sid.
func (g *Gateway) Begin(sid string, flow Flow) (string, error) {
	state, err := g.signer.SignState(sid, string(flow))
	if err != nil {
		return "", fmt.Errorf("identity: begin: %w", err)
	}
	return g.provider.AuthCodeURL(state), nil
}

// Complete обрабатывает возврат от провайдера. Возвращает способ входа,
// чтобы вызывающий знал, как закончить ответ браузеру.
func (g *Gateway) Complete(ctx context.Context, state, code string) (Flow, error) {
	sid, flow, err := g.parseState(state)
	if err != nil {
		return FlowPopup, err
	}
	log := logger.WithSession(sid).WithField("flow", flow)

	user, err := g.provider.Exchange(ctx, code)
	if err != nil {
		g.fail(sid, flow, err, log)
		return flow, err
	}
	if err := g.link(ctx, user); err != nil {
		g.fail(sid, flow, err, log)
		return flow, err
	}

	if flow == FlowRedirect {
		g.results.Set(cache.RedirectResultKey(sid), RedirectResult{User: user}, redirectResultTTL)
	}
	if err := g.broker.Publish(ctx, AuthEvent{SID: sid, User: user, Flow: flow}); err != nil {
		return flow, fmt.Errorf("identity: publish: %w", err)
	}

	log.WithField("uid", user.UID).Info("identity: вход выполнен")
	return flow, nil
}

// Fail фиксирует отказ, пришедший от провайдера вместо code.
func (g *Gateway) Fail(state, reason string) (Flow, error) {
	sid, flow, err := g.parseState(state)
	if err != nil {
		return FlowPopup, err
	}
	cause := fmt.Errorf("%w: %s", ErrAccessDenied, reason)
	g.fail(sid, flow, cause, logger.WithSession(sid).WithField("flow", flow))
	return flow, cause
}

// TakeRedirectResult забирает итог входа через редирект; второй вызов вернёт false.
func (g *Gateway) TakeRedirectResult(sid string) (RedirectResult, bool) {
	v, ok := g.results.Pop(cache.RedirectResultKey(sid))
	if !ok {
		return RedirectResult{}, false
	}
	res, ok := v.(RedirectResult)
	return res, ok
}

// SignOut переводит сессию в анонимное состояние.
func (g *Gateway) SignOut(ctx context.Context, sid string) error {
	if err := g.broker.Publish(ctx, AuthEvent{SID: sid}); err != nil {
		return fmt.Errorf("identity: sign out: %w", err)
	}
	return nil
}

func (g *Gateway) parseState(state string) (string, Flow, error) {
	sid, rawFlow, err := g.signer.ParseState(state)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	flow, err := ParseFlow(rawFlow)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return sid, flow, nil
}

// link закрепляет e-mail за uid. Если e-mail уже принадлежит другому uid,
// вход отклоняется.
func (g *Gateway) link(ctx context.Context, user *models.AuthenticatedUser) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return nil
	}

	err := g.accounts.Create(ctx, models.CollectionAccounts, email, repository.Fields{
		"uid":       user.UID,
		"provider":  user.Provider,
		"createdAt": repository.ServerTimestamp,
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrDocumentExists):
		doc, err := g.accounts.Get(ctx, models.CollectionAccounts, email)
		if err != nil {
			return fmt.Errorf("identity: read account: %w", err)
		}
		if owner, _ := doc.Data["uid"].(string); owner != user.UID {
			return ErrAccountExistsWithDifferentCredential
		}
	default:
		return fmt.Errorf("identity: create account: %w", err)
	}

	if err := g.accounts.Merge(ctx, models.CollectionAccounts, email, repository.Fields{
		"login":       user.Login,
		"lastLoginAt": repository.ServerTimestamp,
	}); err != nil {
		return fmt.Errorf("identity: touch account: %w", err)
	}
	return nil
}

// fail сообщает об ошибке входа тем способом, который ждёт браузер.
func (g *Gateway) fail(sid string, flow Flow, err error, log *logrus.Entry) {
	log.WithError(err).Warn("identity: вход не удался")

	switch flow {
	case FlowRedirect:
		g.results.Set(cache.RedirectResultKey(sid), RedirectResult{Err: err}, redirectResultTTL)
	default:
		if g.notifier != nil {
			g.notifier.Error(sid, ErrorMessage(err))
		}
	}
}
