package common

import "errors"

// Общие ошибки для всех хранилищ документов.
var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
	ErrInvalidInput  = errors.New("invalid input")
)
