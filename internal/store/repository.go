package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no document matches the id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// Repository is the CRUD surface shared by every collection. Collection
// stores embed it and add their own queries.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository returns a repository for documents of type T.
func NewRepository[T any](db *gorm.DB) Repository[T] {
	return Repository[T]{db: db}
}

// DB returns the underlying handle bound to ctx.
func (r Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Insert stores doc. Ids are assigned by the model's BeforeCreate hook.
func (r Repository[T]) Insert(ctx context.Context, doc *T) error {
	if err := r.DB(ctx).Create(doc).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindByID returns the document with the given id or ErrNotFound.
func (r Repository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var doc T
	if err := r.DB(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// FindAll returns every document in the collection.
func (r Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	var docs []T
	if err := r.DB(ctx).Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Update applies the column/value pairs in fields to the document and
// returns the updated document.
func (r Repository[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	res := r.DB(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Save writes every field of doc.
func (r Repository[T]) Save(ctx context.Context, doc *T) error {
	if err := r.DB(ctx).Save(doc).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Remove deletes the document and returns it as it was before deletion.
func (r Repository[T]) Remove(ctx context.Context, id uuid.UUID) (*T, error) {
	doc, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.DB(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// Count returns the number of documents matching query.
func (r Repository[T]) Count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.DB(ctx).Model(new(T)).Where(query, args...).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// translate maps driver errors onto the store's sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// isUniqueViolation catches drivers whose errors gorm does not translate.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
