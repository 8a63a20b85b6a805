package session

import (
	"context"
	"fmt"
	"time"

	"github.com/founderbridge/backend/internal/identity"
	"github.com/founderbridge/backend/internal/intent"
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/models"
)

// errorRedirectDelay — сколько сообщение об ошибке висит перед возвратом на /signin.
const errorRedirectDelay = 2 * time.Second

// RedirectResults отдаёт итог входа через редирект один раз.
type RedirectResults interface {
	TakeRedirectResult(sid string) (identity.RedirectResult, bool)
}

// RedirectCompleter завершает вход через редирект, когда страница вернулась от провайдера.
type RedirectCompleter struct {
	results RedirectResults
	intents intent.Store
	tokens  TokenIssuer
}

func NewRedirectCompleter(results RedirectResults, intents intent.Store, tokens TokenIssuer) *RedirectCompleter {
	return &RedirectCompleter{results: results, intents: intents, tokens: tokens}
}

// Complete возвращает, куда отправить страницу.
func (c *RedirectCompleter) Complete(ctx context.Context, sid string) (Navigation, error) {
	res, ok := c.results.TakeRedirectResult(sid)
	if !ok {
		return Navigation{Path: RouteSignIn, Replace: true}, nil
	}
	if res.Err != nil || res.User == nil {
		return Navigation{
			Path:    RouteSignIn,
			Replace: true,
			Message: identity.ErrorMessage(res.Err),
			DelayMS: errorRedirectDelay.Milliseconds(),
		}, nil
	}

	role, err := c.intents.Consume(ctx, sid)
	if err != nil {
		return Navigation{}, fmt.Errorf("session: consume role: %w", err)
	}
	if role == models.RoleNone {
		return Navigation{Path: RouteHome, Replace: true}, nil
	}

	token, err := c.tokens.GenerateAccess(res.User.UID, role)
	if err != nil {
		return Navigation{}, fmt.Errorf("session: issue token: %w", err)
	}
	logger.WithSession(sid).WithField("role", role).Info("session: вход через редирект завершён")
	return Navigation{
		Path:    RouteFor(role),
		Replace: true,
		State:   &NavState{UID: res.User.UID, Token: token},
	}, nil
}
