package user

import (
	"context"
	"errors"

	"quickcourt/internal/auth"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account is banned")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	SetRole(ctx context.Context, userID int, role string) error
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	role := auth.RoleUser
	if req.Role == auth.RoleOwner {
		role = auth.RoleOwner
	}

	user, err := s.repo.Create(ctx, req.Name, req.FullName, req.Email, passwordHash, role)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	if user.Role == auth.RoleBanned {
		return nil, "", "", ErrAccountBanned
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	current, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	name := current.Name
	fullName := current.FullName
	avatarURL := current.AvatarURL

	if req.Name != nil {
		name = *req.Name
	}
	if req.FullName != nil {
		fullName = *req.FullName
	}
	if req.AvatarURL != nil {
		avatarURL = *req.AvatarURL
	}

	return s.repo.UpdateProfile(ctx, userID, name, fullName, avatarURL)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	newAccessToken, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	if user.Role == auth.RoleBanned {
		return "", nil, ErrAccountBanned
	}

	return newAccessToken, user, nil
}

func (s *service) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) SetRole(ctx context.Context, userID int, role string) error {
	return s.repo.SetRole(ctx, userID, role)
}
