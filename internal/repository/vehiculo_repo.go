package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"findmyspace/internal/db"
	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"

	"github.com/lib/pq"
)

type VehiculoRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]entities.Vehicle, error)
	Create(ctx context.Context, userID int64, req entities.VehicleRequest) (int64, error)
	Update(ctx context.Context, userID, id int64, req entities.VehicleRequest) error
	Delete(ctx context.Context, userID, id int64) error
	// KnownTypes lists every vehicle type used by a rate or a registered vehicle.
	KnownTypes(ctx context.Context) ([]string, error)
}

type vehiculoRepository struct {
	db *sql.DB
}

func NewVehiculoRepository(db *sql.DB) VehiculoRepository {
	return &vehiculoRepository{db: db}
}

func (r *vehiculoRepository) ListByUser(ctx context.Context, userID int64) ([]entities.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, usuario_id, matricula, marca, modelo, tipo, creado_en
		FROM vehiculos WHERE usuario_id = $1 ORDER BY creado_en`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying vehiculos: %w", err)
	}
	defer rows.Close()

	vehicles := []entities.Vehicle{}
	for rows.Next() {
		var v db.Vehiculo
		if err := rows.Scan(&v.ID, &v.UsuarioID, &v.Matricula, &v.Marca, &v.Modelo, &v.Tipo, &v.CreadoEn); err != nil {
			return nil, fmt.Errorf("error scanning vehiculo: %w", err)
		}
		vehicles = append(vehicles, entities.Vehicle{
			ID:        v.ID,
			OwnerID:   v.UsuarioID,
			Matricula: v.Matricula,
			Marca:     v.Marca,
			Modelo:    v.Modelo,
			Tipo:      v.Tipo,
			CreatedAt: v.CreadoEn,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating vehiculos: %w", err)
	}
	return vehicles, nil
}

func (r *vehiculoRepository) Create(ctx context.Context, userID int64, req entities.VehicleRequest) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO vehiculos (usuario_id, matricula, marca, modelo, tipo)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userID, req.Matricula, req.Marca, req.Modelo, req.Tipo).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err, "matricula "+req.Matricula)
	}
	return id, nil
}

// Update only touches rows owned by userID; another user's vehicle reads as not found.
func (r *vehiculoRepository) Update(ctx context.Context, userID, id int64, req entities.VehicleRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vehiculos SET matricula = $3, marca = $4, modelo = $5, tipo = $6
		WHERE id = $1 AND usuario_id = $2`,
		id, userID, req.Matricula, req.Marca, req.Modelo, req.Tipo)
	if err != nil {
		return mapUniqueViolation(err, "matricula "+req.Matricula)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vehiculo %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *vehiculoRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehiculos WHERE id = $1 AND usuario_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete vehiculo %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vehiculo %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *vehiculoRepository) KnownTypes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tipo_vehiculo FROM tarifas
		UNION
		SELECT tipo FROM vehiculos
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicle types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("error scanning vehicle type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// mapUniqueViolation turns a PostgreSQL unique violation into ErrConflict.
func mapUniqueViolation(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s already exists: %w", what, apperrors.ErrConflict)
	}
	return err
}
