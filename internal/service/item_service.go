package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/suar-net/starter-be/internal/model"
	"github.com/suar-net/starter-be/internal/repository"
)

type itemService struct {
	repo repository.IItemRepository
	now  func() time.Time

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

func NewItemService(repo repository.IItemRepository) IItemService {
	return &itemService{
		repo:    repo,
		now:     func() time.Time { return time.Now().UTC() },
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (s *itemService) newKey(at time.Time) string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

func (s *itemService) List(ctx context.Context) ([]*model.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *itemService) Search(ctx context.Context, term string) ([]*model.Item, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term cannot be empty", ErrInvalidInput)
	}
	items, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

func (s *itemService) Get(ctx context.Context, key string) (*model.Item, error) {
	item, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, wrapRepoError(err, key)
	}
	return item, nil
}

func (s *itemService) Create(ctx context.Context, req *model.DTOItemRequest) (*model.Item, error) {
	now := s.now()
	item := &model.Item{
		Key:         s.newKey(now),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, key string, req *model.DTOItemRequest) (*model.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	item := &model.Item{
		Key:         key,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		UpdatedAt:   s.now(),
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, wrapRepoError(err, key)
	}
	return s.Get(ctx, key)
}

func (s *itemService) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return wrapRepoError(err, key)
	}
	return nil
}

func wrapRepoError(err error, key string) error {
	if errors.Is(err, repository.ErrNoItem) {
		return fmt.Errorf("%w: item %q", ErrNotFound, key)
	}
	return fmt.Errorf("item %q: %w", key, err)
}
