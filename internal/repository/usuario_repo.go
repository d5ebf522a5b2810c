package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"findmyspace/internal/db"
	apperrors "findmyspace/internal/errors"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u db.Usuario) (int64, error)
	GetByEmail(ctx context.Context, email string) (*db.Usuario, error)
	GetByID(ctx context.Context, id int64) (*db.Usuario, error)
	Activate(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	CreateToken(ctx context.Context, t db.Token) error
	// ConsumeToken deletes a valid token of the given kind and returns its user.
	ConsumeToken(ctx context.Context, token, tipo string) (int64, error)
}

type usuarioRepository struct {
	db *sql.DB
}

func NewUsuarioRepository(db *sql.DB) UsuarioRepository {
	return &usuarioRepository{db: db}
}

func (r *usuarioRepository) Create(ctx context.Context, u db.Usuario) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO usuarios (nombre, email, telefono, password_hash, activo)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.Nombre, u.Email, u.Telefono, u.PasswordHash, u.Activo).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err, "email "+u.Email)
	}
	return id, nil
}

func (r *usuarioRepository) GetByEmail(ctx context.Context, email string) (*db.Usuario, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *usuarioRepository) GetByID(ctx context.Context, id int64) (*db.Usuario, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *usuarioRepository) get(ctx context.Context, where string, arg any) (*db.Usuario, error) {
	var u db.Usuario
	err := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, email, telefono, password_hash, activo, creado_en
		FROM usuarios `+where, arg).
		Scan(&u.ID, &u.Nombre, &u.Email, &u.Telefono, &u.PasswordHash, &u.Activo, &u.CreadoEn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("usuario: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}

func (r *usuarioRepository) Activate(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE usuarios SET activo = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("activate usuario %d: %w", id, err)
	}
	return nil
}

func (r *usuarioRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE usuarios SET password_hash = $2 WHERE id = $1`, id, hash); err != nil {
		return fmt.Errorf("update password of usuario %d: %w", id, err)
	}
	return nil
}

func (r *usuarioRepository) CreateToken(ctx context.Context, t db.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (token, usuario_id, tipo, expira_en) VALUES ($1, $2, $3, $4)`,
		t.Token, t.UsuarioID, t.Tipo, t.ExpiraEn.UTC())
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *usuarioRepository) ConsumeToken(ctx context.Context, token, tipo string) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM tokens WHERE token = $1 AND tipo = $2 AND expira_en > $3
		RETURNING usuario_id`, token, tipo, time.Now().UTC()).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("token: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("consume token: %w", err)
	}
	return userID, nil
}
