package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/founderbridge/backend/internal/logger"
)

// SafeGo запускает горутину; panic логируется и не роняет процесс.
func SafeGo(name string, fn func()) {
	go func() {
		defer recoverPanic(name)
		fn()
	}()
}

// SafeGoWithContext — SafeGo для функций, ожидающих контекст.
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer recoverPanic(name)
		fn(ctx)
	}()
}

// Recover — для defer в уже запущенных горутинах.
func Recover(name string) {
	recoverPanic(name)
}

func recoverPanic(name string) {
	if r := recover(); r != nil {
		logger.Get().WithField("goroutine", name).
			Errorf("panic в горутине: %v\n%s", r, debug.Stack())
	}
}
