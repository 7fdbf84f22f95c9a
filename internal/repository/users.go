package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmstack/filmstack/internal/domain"
)

// UsersRepository provides persistence helpers for accounts and addresses.
type UsersRepository struct {
	pool *pgxpool.Pool
}

// RegisterParams captures the payload required to register a user. The
// password arrives already hashed; plaintext never reaches this layer.
type RegisterParams struct {
	Email        string
	Username     string
	PasswordHash string
	Country      string
	Street       *string
	City         *string
}

// Register creates the user row and its address row in one transaction.
// A duplicate email returns ErrAlreadyExists.
func (r *UsersRepository) Register(ctx context.Context, params RegisterParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, params.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return ErrAlreadyExists
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO users (email, username, password)
        VALUES ($1,$2,$3)
    `, params.Email, params.Username, params.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO addresses (email, country, street, city)
        VALUES ($1,$2,$3,$4)
    `, params.Email, params.Country, params.Street, params.City)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByEmail fetches an account by email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT email, username, password, creation_date FROM users WHERE email = $1`

	var user domain.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdatePassword overwrites the stored password hash for a user.
func (r *UsersRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAddress fetches the address stored at registration.
func (r *UsersRepository) GetAddress(ctx context.Context, email string) (domain.Address, error) {
	const query = `SELECT email, country, street, city FROM addresses WHERE email = $1`

	var addr domain.Address
	err := r.pool.QueryRow(ctx, query, email).Scan(&addr.Email, &addr.Country, &addr.Street, &addr.City)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Address{}, ErrNotFound
		}
		return domain.Address{}, err
	}
	return addr, nil
}
