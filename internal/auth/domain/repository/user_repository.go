package repository

import (
	"context"

	"motive-archive/internal/auth/domain/model"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUID(ctx context.Context, uid string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]*model.User, int64, error)
	UpdateLastSignIn(ctx context.Context, uid string) error
}
