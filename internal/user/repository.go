package user

import (
	"context"
	"errors"

	"quickcourt/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, fullName, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (name, full_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, full_name, email, password_hash, avatar_url, role, created_at
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, name, fullName, email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, full_name, email, password_hash, avatar_url, role, created_at
		FROM users
		WHERE email = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, name, full_name, email, password_hash, avatar_url, role, created_at
		FROM users
		WHERE id = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) UpdateProfile(ctx context.Context, id int, name, fullName, avatarURL string) (*User, error) {
	query := `
		UPDATE users
		SET name = $1, full_name = $2, avatar_url = $3
		WHERE id = $4
		RETURNING id, name, full_name, email, password_hash, avatar_url, role, created_at
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, name, fullName, avatarURL, id)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) SetRole(ctx context.Context, id int, role string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]User, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, name, full_name, email, password_hash, avatar_url, role, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var users []User
	err := r.db.SelectContext(ctx, &users, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return users, nil
}
