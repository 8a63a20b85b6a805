package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/pkg/apperror"
	"github.com/founderbridge/backend/internal/repository"
)

// DocumentStore — хранилище коллекций документов.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*repository.Document, error)
	Add(ctx context.Context, collection string, data repository.Fields) (string, error)
	Set(ctx context.Context, collection, id string, data repository.Fields) error
	Merge(ctx context.Context, collection, id string, data repository.Fields) error
	List(ctx context.Context, collection string) ([]repository.Document, error)
	Where(ctx context.Context, collection, field, value string) ([]repository.Document, error)
}

// Result — итог изменяющей операции. Ошибки не выходят за границу сервиса,
// вызывающий видит только success и сообщение.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func succeeded(id string) Result {
	return Result{Success: true, ID: id}
}

// failed превращает ошибку в Result. Сообщение AppError уходит пользователю как есть,
// всё остальное логируется и заменяется на fallback.
func failed(op string, err error, fallback string) Result {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		logger.Get().WithField("op", op).WithError(err).Debug("service: операция отклонена")
		return Result{Error: appErr.Message}
	}
	logger.Get().WithField("op", op).WithError(err).Error("service: операция не удалась")
	return Result{Error: fallback}
}

// getInto читает документ и раскладывает его в out; отсутствие документа — notFound.
func getInto(ctx context.Context, store DocumentStore, collection, id string, out any, notFound error) (*repository.Document, error) {
	doc, err := store.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("service: get %s/%s: %w", collection, id, err)
	}
	if err := repository.Decode(doc.Data, out); err != nil {
		return nil, err
	}
	return doc, nil
}

// exists сообщает, есть ли документ.
func exists(ctx context.Context, store DocumentStore, collection, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	_, err := store.Get(ctx, collection, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrDocumentNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("service: get %s/%s: %w", collection, id, err)
	}
}

func validationError(err error) error {
	return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
}

// stamped кодирует v в поля документа без id и с серверными отметками времени.
func stamped(v any, created bool) (repository.Fields, error) {
	fields, err := repository.Encode(v)
	if err != nil {
		return nil, err
	}
	delete(fields, "id")
	if created {
		fields["createdAt"] = repository.ServerTimestamp
	}
	fields["updatedAt"] = repository.ServerTimestamp
	return fields, nil
}
