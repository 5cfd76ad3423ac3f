package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/suar-net/starter-be/internal/model"
)

// ErrNoItem is returned when no item matches the requested key.
var ErrNoItem = errors.New("item does not exist")

type IItemRepository interface {
	List(ctx context.Context) ([]*model.Item, error)
	Search(ctx context.Context, term string) ([]*model.Item, error)
	GetByKey(ctx context.Context, key string) (*model.Item, error)
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, key string) error
}

type IRepository interface {
	Item() IItemRepository
}

type Repository struct {
	item IItemRepository
}

// NewRepository returns a Postgres-backed repository, or an in-memory one
// when db is nil.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		return &Repository{item: NewMemoryItemRepository()}
	}
	return &Repository{item: NewItemRepository(db)}
}

func (r *Repository) Item() IItemRepository {
	return r.item
}
