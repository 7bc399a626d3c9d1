package user

import "context"

type Repository interface {
	Create(ctx context.Context, name, fullName, email, passwordHash, role string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int, name, fullName, avatarURL string) (*User, error)
	SetRole(ctx context.Context, id int, role string) error
	List(ctx context.Context, limit, offset int) ([]User, error)
}
