package service

import (
	"context"

	"github.com/suar-net/starter-be/internal/model"
)

type IItemService interface {
	List(ctx context.Context) ([]*model.Item, error)
	Search(ctx context.Context, term string) ([]*model.Item, error)
	Get(ctx context.Context, key string) (*model.Item, error)
	Create(ctx context.Context, req *model.DTOItemRequest) (*model.Item, error)
	Update(ctx context.Context, key string, req *model.DTOItemRequest) (*model.Item, error)
	Delete(ctx context.Context, key string) error
}

type IAuthService interface {
	IssueToken(subject string) (*model.DTOTokenResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.Claims, error)
}
