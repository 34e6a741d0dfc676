package repository

import (
	"context"

	"motive-archive/internal/auth/domain/model"
)

// APITokenRepository defines persistence operations for API tokens
type APITokenRepository interface {
	Create(ctx context.Context, token *model.APIToken) error
	GetByToken(ctx context.Context, token string) (*model.APIToken, error)
	ListByUser(ctx context.Context, userID string) ([]*model.APIToken, error)
	TouchLastUsed(ctx context.Context, token string) error
	Delete(ctx context.Context, id string, userID string) error
}
