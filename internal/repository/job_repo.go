package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// DeleteExpiredTokens borra los tokens de activación y recuperación vencidos.
func (r *JobRepository) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tokens WHERE expira_en <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("error deleting expired tokens: %w", err)
	}
	return res.RowsAffected()
}

// GetInactiveUserIDsCreatedBefore busca cuentas nunca activadas creadas antes de before.
func (r *JobRepository) GetInactiveUserIDsCreatedBefore(ctx context.Context, before time.Time) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id FROM usuarios WHERE activo = FALSE AND creado_en < $1`, before.UTC())
	if err != nil {
		return nil, fmt.Errorf("error querying inactive users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning user ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// DeleteUsers removes the given accounts; their tokens, spaces and vehicles cascade.
func (r *JobRepository) DeleteUsers(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM usuarios WHERE id = ANY($1) AND activo = FALSE`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error deleting users: %w", err)
	}
	return res.RowsAffected()
}
