package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DocumentRepository хранит коллекции документов в одной JSONB-таблице PostgreSQL.
type DocumentRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db, now: time.Now}
}

type documentRow struct {
	ID        string    `db:"id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row documentRow) toDocument() (*Document, error) {
	var f Fields
	if err := json.Unmarshal(row.Data, &f); err != nil {
		return nil, fmt.Errorf("document: unmarshal %s: %w", row.ID, err)
	}
	return &Document{ID: row.ID, Data: f, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}, nil
}

// Ping проверяет доступность базы.
func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *DocumentRepository) Get(ctx context.Context, collection, id string) (*Document, error) {
	var row documentRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, data, created_at, updated_at FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("document: get %s/%s: %w", collection, id, err)
	}
	return row.toDocument()
}

// Add создаёт документ со сгенерированным идентификатором.
func (r *DocumentRepository) Add(ctx context.Context, collection string, data Fields) (string, error) {
	id := uuid.NewString()
	if err := r.Create(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Create создаёт документ с заданным id; существующий документ не трогается.
func (r *DocumentRepository) Create(ctx context.Context, collection, id string, data Fields) error {
	now := r.now()
	raw, err := prepare(data, now)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (collection, id) DO NOTHING
	`, collection, id, raw, now)
	if err != nil {
		return fmt.Errorf("document: create %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDocumentExists
	}
	return nil
}

// Set полностью перезаписывает документ.
func (r *DocumentRepository) Set(ctx context.Context, collection, id string, data Fields) error {
	now := r.now()
	raw, err := prepare(data, now)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`, collection, id, raw, now)
	if err != nil {
		return fmt.Errorf("document: set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Merge сливает поля с существующим документом (создаёт, если его нет).
// Последняя запись выигрывает, проверки версий нет.
func (r *DocumentRepository) Merge(ctx context.Context, collection, id string, data Fields) error {
	now := r.now()
	raw, err := prepare(data, now)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`, collection, id, raw, now)
	if err != nil {
		return fmt.Errorf("document: merge %s/%s: %w", collection, id, err)
	}
	return nil
}

// List возвращает все документы коллекции в порядке создания.
func (r *DocumentRepository) List(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, data, created_at, updated_at FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("document: list %s: %w", collection, err)
	}
	return toDocuments(rows)
}

// Where возвращает документы, у которых строковое поле field равно value.
func (r *DocumentRepository) Where(ctx context.Context, collection, field, value string) ([]Document, error) {
	var rows []documentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, data, created_at, updated_at FROM documents
		WHERE collection = $1 AND data->>$2 = $3
		ORDER BY created_at, id
	`, collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("document: where %s.%s: %w", collection, field, err)
	}
	return toDocuments(rows)
}

func toDocuments(rows []documentRow) ([]Document, error) {
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}
