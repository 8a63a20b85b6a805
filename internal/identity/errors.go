package identity

import "errors"

var (
	// ErrAccountExistsWithDifferentCredential — e-mail уже привязан к другому аккаунту.
	ErrAccountExistsWithDifferentCredential = errors.New("identity: account exists with different credential")
	ErrInvalidState                         = errors.New("identity: invalid oauth state")
	ErrAccessDenied                         = errors.New("identity: access denied by provider")
)

const (
	msgAccountExists = "An account already exists with this email. Please sign in with your existing account."
	msgSignInFailed  = "Failed to sign in with GitHub. Please try again."
)

// ErrorMessage переводит ошибку входа в текст для пользователя.
func ErrorMessage(err error) string {
	if errors.Is(err, ErrAccountExistsWithDifferentCredential) {
		return msgAccountExists
	}
	return msgSignInFailed
}
