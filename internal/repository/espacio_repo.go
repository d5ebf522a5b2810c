package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"findmyspace/internal/db"
	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"
	"findmyspace/internal/layout"

	"github.com/lib/pq"
)

type EspacioRepository interface {
	Create(ctx context.Context, ownerID int64, req entities.SpaceRequest) (int64, error)
	Update(ctx context.Context, id int64, req entities.SpaceRequest) error
	UpdateLayout(ctx context.Context, id int64, upd entities.LayoutUpdate) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entities.Space, error)
	OwnerOf(ctx context.Context, id int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]entities.Space, error)
	Search(ctx context.Context, query string) ([]entities.Space, error)
	Schedules(ctx context.Context, id int64) ([]entities.Schedule, error)
	PaymentOptions(ctx context.Context, id int64) (modes, methods []string, err error)
	Rates(ctx context.Context, id int64) ([]entities.Rate, error)
}

type espacioRepository struct {
	db *sql.DB
}

func NewEspacioRepository(db *sql.DB) EspacioRepository {
	return &espacioRepository{db: db}
}

const espacioColumns = `id, usuario_id, nombre, ubicacion, latitud, longitud, plazas, tipo,
	tipo_estructura, pisos, sotano, modalidades, metodos_pago, mapa, creado_en`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEspacio(row rowScanner) (*db.Espacio, error) {
	var e db.Espacio
	err := row.Scan(&e.ID, &e.UsuarioID, &e.Nombre, &e.Ubicacion, &e.Latitud, &e.Longitud, &e.Plazas, &e.Tipo,
		&e.TipoEstructura, &e.Pisos, &e.Sotano, pq.Array(&e.Modalidades), pq.Array(&e.MetodosPago), &e.Mapa, &e.CreadoEn)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func toSpace(e *db.Espacio) (*entities.Space, error) {
	s := &entities.Space{
		ID:      e.ID,
		OwnerID: e.UsuarioID,
		SpaceAttributes: entities.SpaceAttributes{
			Nombre:         e.Nombre,
			Ubicacion:      e.Ubicacion,
			Plazas:         e.Plazas,
			Tipo:           e.Tipo,
			TipoEstructura: layout.Structure(e.TipoEstructura),
			Pisos:          e.Pisos,
			Sotano:         e.Sotano,
		},
		CreatedAt: e.CreadoEn,
	}
	if e.Latitud.Valid && e.Longitud.Valid {
		lat, lng := e.Latitud.Float64, e.Longitud.Float64
		s.Latitud, s.Longitud = &lat, &lng
	}
	if len(e.Mapa) > 0 {
		var m layout.Map
		if err := json.Unmarshal(e.Mapa, &m); err != nil {
			return nil, fmt.Errorf("decode mapa of espacio %d: %w", e.ID, err)
		}
		s.Mapa = &m
	}
	return s, nil
}

// mapaParam returns the JSONB parameter for m; nil maps to SQL NULL.
func mapaParam(m *layout.Map) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode mapa: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func (r *espacioRepository) Create(ctx context.Context, ownerID int64, req entities.SpaceRequest) (int64, error) {
	mapa, err := mapaParam(req.Mapa)
	if err != nil {
		return 0, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO espacios (usuario_id, nombre, ubicacion, latitud, longitud, plazas, tipo,
			tipo_estructura, pisos, sotano, modalidades, metodos_pago, mapa)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::jsonb)
		RETURNING id`,
		ownerID, req.Nombre, req.Ubicacion, req.Latitud, req.Longitud, req.Plazas, req.Tipo,
		string(req.TipoEstructura), req.Pisos, req.Sotano, pq.Array(nonNil(req.Modalidades)),
		pq.Array(nonNil(req.MetodosPago)), mapa,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert espacio: %w", err)
	}
	if err := insertDetails(ctx, tx, id, req); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit espacio: %w", err)
	}
	return id, nil
}

// Update replaces attributes, schedule and rates. The stored layout is kept when req.Mapa is nil.
func (r *espacioRepository) Update(ctx context.Context, id int64, req entities.SpaceRequest) error {
	mapa, err := mapaParam(req.Mapa)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE espacios SET nombre = $2, ubicacion = $3, latitud = $4, longitud = $5, plazas = $6,
			tipo = $7, tipo_estructura = $8, pisos = $9, sotano = $10, modalidades = $11,
			metodos_pago = $12, mapa = COALESCE($13::jsonb, mapa)
		WHERE id = $1`,
		id, req.Nombre, req.Ubicacion, req.Latitud, req.Longitud, req.Plazas, req.Tipo,
		string(req.TipoEstructura), req.Pisos, req.Sotano, pq.Array(nonNil(req.Modalidades)),
		pq.Array(nonNil(req.MetodosPago)), mapa,
	)
	if err != nil {
		return fmt.Errorf("update espacio %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("espacio %d: %w", id, apperrors.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM horarios WHERE espacio_id = $1`, id); err != nil {
		return fmt.Errorf("clear horarios of espacio %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tarifas WHERE espacio_id = $1`, id); err != nil {
		return fmt.Errorf("clear tarifas of espacio %d: %w", id, err)
	}
	if err := insertDetails(ctx, tx, id, req); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *espacioRepository) UpdateLayout(ctx context.Context, id int64, upd entities.LayoutUpdate) error {
	mapa, err := mapaParam(&upd.Mapa)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE espacios SET nombre = $2, ubicacion = $3, latitud = $4, longitud = $5, plazas = $6,
			tipo_estructura = $7, pisos = $8, sotano = $9, mapa = $10::jsonb
		WHERE id = $1`,
		id, upd.Nombre, upd.Ubicacion, upd.Latitud, upd.Longitud, upd.Plazas,
		string(upd.TipoEstructura), upd.Pisos, upd.Sotano, mapa,
	)
	if err != nil {
		return fmt.Errorf("update mapa of espacio %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("espacio %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func insertDetails(ctx context.Context, tx *sql.Tx, id int64, req entities.SpaceRequest) error {
	for _, d := range req.Horarios {
		for _, f := range d.Franjas {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO horarios (espacio_id, dia, apertura, cierre) VALUES ($1, $2, $3, $4)`,
				id, d.Dia, f.Apertura, f.Cierre); err != nil {
				return fmt.Errorf("insert horario: %w", err)
			}
		}
	}
	for _, t := range req.Tarifas {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tarifas (espacio_id, tipo_vehiculo, modalidad, precio) VALUES ($1, $2, $3, $4)`,
			id, t.TipoVehiculo, string(t.Modalidad), t.Precio); err != nil {
			return fmt.Errorf("insert tarifa: %w", err)
		}
	}
	return nil
}

func (r *espacioRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM espacios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete espacio %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("espacio %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *espacioRepository) GetByID(ctx context.Context, id int64) (*entities.Space, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+espacioColumns+` FROM espacios WHERE id = $1`, id)
	e, err := scanEspacio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("espacio %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get espacio %d: %w", id, err)
	}
	return toSpace(e)
}

func (r *espacioRepository) OwnerOf(ctx context.Context, id int64) (int64, error) {
	var owner int64
	err := r.db.QueryRowContext(ctx, `SELECT usuario_id FROM espacios WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("espacio %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get owner of espacio %d: %w", id, err)
	}
	return owner, nil
}

func (r *espacioRepository) ListByUser(ctx context.Context, userID int64) ([]entities.Space, error) {
	return r.list(ctx, `SELECT `+espacioColumns+` FROM espacios WHERE usuario_id = $1 ORDER BY creado_en DESC`, userID)
}

// Search matches query against name and location, case-insensitively. An empty query lists everything.
func (r *espacioRepository) Search(ctx context.Context, query string) ([]entities.Space, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.list(ctx, `SELECT `+espacioColumns+` FROM espacios ORDER BY creado_en DESC`)
	}
	pattern := "%" + strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(query) + "%"
	return r.list(ctx, `SELECT `+espacioColumns+` FROM espacios
		WHERE nombre ILIKE $1 OR ubicacion ILIKE $1 ORDER BY creado_en DESC`, pattern)
}

func (r *espacioRepository) list(ctx context.Context, query string, args ...any) ([]entities.Space, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying espacios: %w", err)
	}
	defer rows.Close()

	spaces := []entities.Space{}
	for rows.Next() {
		e, err := scanEspacio(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning espacio: %w", err)
		}
		s, err := toSpace(e)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating espacios: %w", err)
	}
	return spaces, nil
}

// Schedules groups the stored ranges by day, in weekday order.
func (r *espacioRepository) Schedules(ctx context.Context, id int64) ([]entities.Schedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT dia, apertura, cierre FROM horarios WHERE espacio_id = $1 ORDER BY apertura, id`, id)
	if err != nil {
		return nil, fmt.Errorf("error querying horarios: %w", err)
	}
	defer rows.Close()

	byDay := map[string][]entities.TimeRange{}
	var days []string
	for rows.Next() {
		var f db.Franja
		if err := rows.Scan(&f.Dia, &f.Apertura, &f.Cierre); err != nil {
			return nil, fmt.Errorf("error scanning horario: %w", err)
		}
		if _, ok := byDay[f.Dia]; !ok {
			days = append(days, f.Dia)
		}
		byDay[f.Dia] = append(byDay[f.Dia], entities.TimeRange{Apertura: f.Apertura, Cierre: f.Cierre})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating horarios: %w", err)
	}
	out := make([]entities.Schedule, 0, len(days))
	for _, d := range days {
		out = append(out, entities.Schedule{Dia: d, Franjas: byDay[d]})
	}
	return entities.CompactSchedule(out), nil
}

func (r *espacioRepository) PaymentOptions(ctx context.Context, id int64) ([]string, []string, error) {
	var modes, methods []string
	err := r.db.QueryRowContext(ctx, `SELECT modalidades, metodos_pago FROM espacios WHERE id = $1`, id).
		Scan(pq.Array(&modes), pq.Array(&methods))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("espacio %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get modalidades of espacio %d: %w", id, err)
	}
	return nonNil(modes), nonNil(methods), nil
}

func (r *espacioRepository) Rates(ctx context.Context, id int64) ([]entities.Rate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tipo_vehiculo, modalidad, precio FROM tarifas WHERE espacio_id = $1 ORDER BY tipo_vehiculo, id`, id)
	if err != nil {
		return nil, fmt.Errorf("error querying tarifas: %w", err)
	}
	defer rows.Close()

	rates := []entities.Rate{}
	for rows.Next() {
		var t db.Tarifa
		if err := rows.Scan(&t.TipoVehiculo, &t.Modalidad, &t.Precio); err != nil {
			return nil, fmt.Errorf("error scanning tarifa: %w", err)
		}
		rates = append(rates, entities.Rate{
			TipoVehiculo: t.TipoVehiculo,
			Modalidad:    entities.PricingMode(t.Modalidad),
			Precio:       t.Precio,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating tarifas: %w", err)
	}
	return rates, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
