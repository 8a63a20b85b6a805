package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryDoc struct {
	data      []byte
	createdAt time.Time
	updatedAt time.Time
	seq       uint64
}

// MemoryDocumentRepository — хранилище документов в памяти процесса.
// Поля проходят через JSON так же, как в JSONB, поэтому чтение возвращает
// те же типы, что и PostgreSQL.
type MemoryDocumentRepository struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
	seq         uint64
	now         func() time.Time
}

func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{
		collections: make(map[string]map[string]*memoryDoc),
		now:         time.Now,
	}
}

func (r *MemoryDocumentRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryDocumentRepository) Get(ctx context.Context, collection, id string) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.collections[collection][id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc.toDocument(id)
}

func (r *MemoryDocumentRepository) Add(ctx context.Context, collection string, data Fields) (string, error) {
	id := uuid.NewString()
	if err := r.Create(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (r *MemoryDocumentRepository) Create(ctx context.Context, collection, id string, data Fields) error {
	now := r.now()
	raw, err := prepare(data, now)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collection(collection)[id]; ok {
		return ErrDocumentExists
	}
	r.put(collection, id, raw, now)
	return nil
}

func (r *MemoryDocumentRepository) Set(ctx context.Context, collection, id string, data Fields) error {
	now := r.now()
	raw, err := prepare(data, now)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(collection, id, raw, now)
	return nil
}

func (r *MemoryDocumentRepository) Merge(ctx context.Context, collection, id string, data Fields) error {
	now := r.now()
	raw, err := prepare(data, now)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.collection(collection)[id]
	if !ok {
		r.put(collection, id, raw, now)
		return nil
	}

	var merged, patch Fields
	if err := json.Unmarshal(existing.data, &merged); err != nil {
		return fmt.Errorf("document: merge %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(raw, &patch); err != nil {
		return fmt.Errorf("document: merge %s/%s: %w", collection, id, err)
	}
	for k, v := range patch {
		merged[k] = v
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("document: merge %s/%s: %w", collection, id, err)
	}
	existing.data = out
	existing.updatedAt = now
	return nil
}

func (r *MemoryDocumentRepository) List(ctx context.Context, collection string) ([]Document, error) {
	return r.filter(collection, func(Fields) bool { return true })
}

func (r *MemoryDocumentRepository) Where(ctx context.Context, collection, field, value string) ([]Document, error) {
	return r.filter(collection, func(f Fields) bool {
		s, ok := f[field].(string)
		return ok && s == value
	})
}

func (r *MemoryDocumentRepository) filter(collection string, keep func(Fields) bool) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type entry struct {
		id  string
		doc *memoryDoc
	}
	entries := make([]entry, 0, len(r.collections[collection]))
	for id, doc := range r.collections[collection] {
		entries = append(entries, entry{id: id, doc: doc})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].doc.seq < entries[j].doc.seq
	})

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		doc, err := e.doc.toDocument(e.id)
		if err != nil {
			return nil, err
		}
		if keep(doc.Data) {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (r *MemoryDocumentRepository) collection(name string) map[string]*memoryDoc {
	c, ok := r.collections[name]
	if !ok {
		c = make(map[string]*memoryDoc)
		r.collections[name] = c
	}
	return c
}

// put вызывается под r.mu.
func (r *MemoryDocumentRepository) put(collection, id string, raw []byte, now time.Time) {
	c := r.collection(collection)
	if existing, ok := c[id]; ok {
		existing.data = raw
		existing.updatedAt = now
		return
	}
	r.seq++
	c[id] = &memoryDoc{data: raw, createdAt: now, updatedAt: now, seq: r.seq}
}

func (d *memoryDoc) toDocument(id string) (*Document, error) {
	var f Fields
	if err := json.Unmarshal(d.data, &f); err != nil {
		return nil, fmt.Errorf("document: unmarshal %s: %w", id, err)
	}
	return &Document{ID: id, Data: f, CreatedAt: d.createdAt, UpdatedAt: d.updatedAt}, nil
}
