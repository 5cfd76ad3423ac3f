package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/suar-net/starter-be/internal/model"
)

// memoryItemRepository keeps items in process memory. Used when no database
// is configured.
type memoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]model.Item
}

func NewMemoryItemRepository() IItemRepository {
	return &memoryItemRepository{items: make(map[string]model.Item)}
}

func (r *memoryItemRepository) List(ctx context.Context) ([]*model.Item, error) {
	return r.filter(func(model.Item) bool { return true }), nil
}

func (r *memoryItemRepository) Search(ctx context.Context, term string) ([]*model.Item, error) {
	term = strings.ToLower(term)
	return r.filter(func(it model.Item) bool {
		return strings.Contains(strings.ToLower(it.Name), term) ||
			strings.Contains(strings.ToLower(it.Description), term)
	}), nil
}

func (r *memoryItemRepository) GetByKey(ctx context.Context, key string) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[key]
	if !ok {
		return nil, ErrNoItem
	}
	return &item, nil
}

func (r *memoryItemRepository) Create(ctx context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Key] = *item
	return nil
}

func (r *memoryItemRepository) Update(ctx context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.Key]
	if !ok {
		return ErrNoItem
	}
	existing.Name = item.Name
	existing.Description = item.Description
	existing.UpdatedAt = item.UpdatedAt
	r.items[item.Key] = existing
	return nil
}

func (r *memoryItemRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; !ok {
		return ErrNoItem
	}
	delete(r.items, key)
	return nil
}

// filter returns matching items ordered by creation time, then key.
func (r *memoryItemRepository) filter(keep func(model.Item) bool) []*model.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []*model.Item{}
	for _, it := range r.items {
		if keep(it) {
			it := it
			items = append(items, &it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].Key < items[j].Key
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}
