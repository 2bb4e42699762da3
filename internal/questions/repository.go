package questions

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tlmvpsc/questionbank/internal/models"
)

// Repository handles question persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a questions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all questions, oldest first.
func (r *Repository) List(ctx context.Context) ([]models.Question, error) {
	const q = `SELECT id, statement, answers, COALESCE(labels, '{}'), created_at
		FROM questions ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Question
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(&question.ID, &question.Statement, &question.Answers, &question.Labels, &question.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, question)
	}
	return list, rows.Err()
}

// Create inserts a new question and fills in the assigned id.
func (r *Repository) Create(ctx context.Context, question *models.Question) error {
	const q = `INSERT INTO questions (statement, answers, labels)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, question.Statement, question.Answers, question.Labels).
		Scan(&question.ID, &question.CreatedAt)
}

// Replace overwrites the fields of the question matching the given id and
// reports whether a record matched.
func (r *Repository) Replace(ctx context.Context, question *models.Question) (bool, error) {
	const q = `UPDATE questions SET statement = $2, answers = $3, labels = $4 WHERE id = $1`
	ct, err := r.pool.Exec(ctx, q, question.ID, question.Statement, question.Answers, question.Labels)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// Delete removes a question by id and reports whether a record was removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM questions WHERE id = $1`
	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
