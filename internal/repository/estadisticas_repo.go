package repository

import (
	"context"
	"database/sql"
	"fmt"

	"findmyspace/internal/entities"
)

type EstadisticasRepository interface {
	SpaceTotals(ctx context.Context, userID int64) (*entities.Statistics, error)
	VehicleCount(ctx context.Context, userID int64) (int, error)
	AveragePrices(ctx context.Context, userID int64) (map[string]float64, error)
}

type estadisticasRepository struct {
	db *sql.DB
}

func NewEstadisticasRepository(db *sql.DB) EstadisticasRepository {
	return &estadisticasRepository{db: db}
}

// SpaceTotals fills the per-space counters of an owner's statistics.
func (r *estadisticasRepository) SpaceTotals(ctx context.Context, userID int64) (*entities.Statistics, error) {
	s := &entities.Statistics{UsuarioID: userID}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(plazas), 0),
			COUNT(*) FILTER (WHERE tipo = 'public'),
			COUNT(*) FILTER (WHERE tipo = 'private'),
			COUNT(*) FILTER (WHERE tipo_estructura = 'open_air'),
			COUNT(*) FILTER (WHERE tipo_estructura = 'enclosed'),
			COUNT(*) FILTER (WHERE mapa IS NOT NULL)
		FROM espacios WHERE usuario_id = $1`, userID).
		Scan(&s.Espacios, &s.PlazasTotales, &s.Publicos, &s.Privados, &s.AireLibre, &s.Cubiertos, &s.ConMapa)
	if err != nil {
		return nil, fmt.Errorf("space totals of usuario %d: %w", userID, err)
	}
	return s, nil
}

func (r *estadisticasRepository) VehicleCount(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehiculos WHERE usuario_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("vehicle count of usuario %d: %w", userID, err)
	}
	return n, nil
}

// AveragePrices returns the mean price per pricing mode across the owner's spaces.
func (r *estadisticasRepository) AveragePrices(ctx context.Context, userID int64) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.modalidad, AVG(t.precio)
		FROM tarifas t JOIN espacios e ON e.id = t.espacio_id
		WHERE e.usuario_id = $1
		GROUP BY t.modalidad`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying average prices: %w", err)
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var (
			mode string
			avg  float64
		)
		if err := rows.Scan(&mode, &avg); err != nil {
			return nil, fmt.Errorf("error scanning average price: %w", err)
		}
		out[mode] = avg
	}
	return out, rows.Err()
}
