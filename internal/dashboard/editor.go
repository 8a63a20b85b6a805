package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/service"
)

var ErrNoDraft = errors.New("dashboard: editor is not open")

// ProfileEditor — правка профиля через черновик. Показанный профиль меняется
// только после успешного сохранения.
type ProfileEditor[T any] struct {
	mu        sync.Mutex
	sid       string
	displayed T
	draft     *T
	save      func(ctx context.Context, draft T) service.Result
	notifier  Notifier
}

func NewProfileEditor[T any](sid string, displayed T, save func(ctx context.Context, draft T) service.Result, notifier Notifier) *ProfileEditor[T] {
	return &ProfileEditor[T]{sid: sid, displayed: displayed, save: save, notifier: notifier}
}

// Open создаёт черновик как копию показанного профиля.
func (e *ProfileEditor[T]) Open() T {
	e.mu.Lock()
	defer e.mu.Unlock()

	draft := e.displayed
	e.draft = &draft
	return draft
}

// Edit меняет черновик.
func (e *ProfileEditor[T]) Edit(fn func(draft *T)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return ErrNoDraft
	}
	fn(e.draft)
	return nil
}

// Cancel выбрасывает черновик.
func (e *ProfileEditor[T]) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = nil
}

func (e *ProfileEditor[T]) Displayed() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.displayed
}

// Confirm сохраняет черновик одним вызовом. При успехе показанный профиль
// становится черновиком, при ошибке остаётся прежним, а сессия получает
// одно уведомление. Черновик при ошибке сохраняется для повтора.
func (e *ProfileEditor[T]) Confirm(ctx context.Context) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return e.displayed, ErrNoDraft
	}

	res := e.save(ctx, *e.draft)
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = msgProfileFailed
		}
		e.notifier.Error(e.sid, msg)
		return e.displayed, apperror.New(apperror.ErrCodeBadRequest, msg)
	}

	e.displayed = *e.draft
	e.draft = nil
	e.notifier.Success(e.sid, msgProfileSaved)
	return e.displayed, nil
}
