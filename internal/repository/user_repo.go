package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"autoshop/internal/db"
	apperrors "autoshop/internal/errors"
)

// UserRepository is the durable store for user accounts.
type UserRepository interface {
	GetByEmail(email string) (*db.User, error)
	GetByID(id int64) (*db.User, error)
	Create(email, fullName, passwordHash string, isAdmin bool) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(
		`SELECT id, email, full_name, password_hash, is_admin, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(id int64) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(
		`SELECT id, email, full_name, password_hash, is_admin, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &u, nil
}

func (r *userRepository) Create(email, fullName, passwordHash string, isAdmin bool) (*db.User, error) {
	u := db.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	err := r.db.QueryRow(
		`INSERT INTO users (email, full_name, password_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING id, created_at`,
		email, fullName, passwordHash, isAdmin,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return &u, nil
}
