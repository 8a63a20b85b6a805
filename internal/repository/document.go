package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/founderbridge/backend/internal/repository/common"
)

var (
	ErrDocumentNotFound = common.ErrNotFound
	ErrDocumentExists   = common.ErrAlreadyExists
)

// Fields — содержимое документа: произвольный JSON-объект.
type Fields map[string]any

// Document — документ коллекции вместе с метаданными строки.
type Document struct {
	ID        string
	Data      Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

type serverTimestamp struct{}

// ServerTimestamp — значение поля, которое хранилище заменит своим временем записи.
var ServerTimestamp any = serverTimestamp{}

// Encode превращает структуру в Fields через её JSON-представление.
func Encode(v any) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	var f Fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("document: encode: %w", common.ErrInvalidInput)
	}
	return f, nil
}

// Decode заполняет out из полей документа.
func Decode(f Fields, out any) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("document: decode: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("document: decode: %w", err)
	}
	return nil
}

// prepare подставляет время записи вместо ServerTimestamp и сериализует поля.
func prepare(data Fields, now time.Time) ([]byte, error) {
	resolved := make(Fields, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			resolved[k] = now.UTC()
			continue
		}
		resolved[k] = v
	}
	raw, err := json.Marshal(resolved)
	if err != nil {
		return nil, fmt.Errorf("document: marshal: %w", err)
	}
	return raw, nil
}
