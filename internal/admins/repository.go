package admins

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tlmvpsc/questionbank/internal/models"
)

// Repository handles admin persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an admins repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Exists reports whether an admin with the given username is stored.
func (r *Repository) Exists(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM admins WHERE username = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, q, username).Scan(&exists)
	return exists, err
}

// GetByUsername returns an admin by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	const q = `SELECT username, password_hash, created_at FROM admins WHERE username = $1`
	var a models.Admin
	err := r.pool.QueryRow(ctx, q, username).Scan(&a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new admin.
func (r *Repository) Create(ctx context.Context, username, passwordHash string) error {
	const q = `INSERT INTO admins (username, password_hash) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, q, username, passwordHash)
	return err
}

// Delete removes an admin by username and reports whether a record was removed.
func (r *Repository) Delete(ctx context.Context, username string) (bool, error) {
	const q = `DELETE FROM admins WHERE username = $1`
	ct, err := r.pool.Exec(ctx, q, username)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
