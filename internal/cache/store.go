// Package cache is the local, single-user copy of layouts and occupancy annotations,
// stored in an SQLite file next to the CLI configuration.
package cache

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("cache entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS espacios_cache (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	id_espacio     INTEGER,
	payload        BLOB    NOT NULL,
	actualizado_en INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_espacios_cache_id_espacio ON espacios_cache (id_espacio);
CREATE TABLE IF NOT EXISTS ocupacion (
	match_key      TEXT PRIMARY KEY,
	estados        BLOB    NOT NULL,
	actualizado_en INTEGER NOT NULL
);`

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the cache database at path. Use ":memory:" for a throwaway cache.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	// una sola conexión: ":memory:" no se comparte entre conexiones
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Records returns every cached entry in insertion order.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM espacios_cache ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query cache records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id      int64
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan cache record: %w", err)
		}
		var rec Record
		if err := decode(payload, &rec); err != nil {
			// una entrada corrupta no debe bloquear el resto
			s.logger.Warn("skipping unreadable cache record", zap.Int64("cache_id", id), zap.Error(err))
			continue
		}
		rec.CacheID = id
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache records: %w", err)
	}
	return records, nil
}

// Upsert writes rec as a whole. A record with a CacheID replaces that row; otherwise a
// new row is inserted. The stored record is returned with its CacheID set.
func (s *Store) Upsert(ctx context.Context, rec Record) (Record, error) {
	payload, err := encode(rec)
	if err != nil {
		return rec, fmt.Errorf("encode cache record: %w", err)
	}
	now := time.Now().UnixNano()
	spaceID := sql.NullInt64{Int64: rec.Estacionamiento.SpaceID, Valid: rec.Estacionamiento.SpaceID != 0}

	if rec.CacheID != 0 {
		res, err := s.db.ExecContext(ctx,
			`UPDATE espacios_cache SET id_espacio = ?, payload = ?, actualizado_en = ? WHERE id = ?`,
			spaceID, payload, now, rec.CacheID)
		if err != nil {
			return rec, fmt.Errorf("update cache record %d: %w", rec.CacheID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.logger.Debug("cache record replaced", zap.Int64("cache_id", rec.CacheID), zap.Int64("space_id", spaceID.Int64))
			return rec, nil
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO espacios_cache (id_espacio, payload, actualizado_en) VALUES (?, ?, ?)`,
		spaceID, payload, now)
	if err != nil {
		return rec, fmt.Errorf("insert cache record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return rec, fmt.Errorf("cache record id: %w", err)
	}
	rec.CacheID = id
	s.logger.Debug("cache record inserted", zap.Int64("cache_id", id), zap.Int64("space_id", spaceID.Int64))
	return rec, nil
}

func (s *Store) Delete(ctx context.Context, cacheID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM espacios_cache WHERE id = ?`, cacheID)
	if err != nil {
		return fmt.Errorf("delete cache record %d: %w", cacheID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBySpaceID drops every entry tied to a server id, returning how many went away.
func (s *Store) DeleteBySpaceID(ctx context.Context, spaceID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM espacios_cache WHERE id_espacio = ?`, spaceID)
	if err != nil {
		return 0, fmt.Errorf("delete cache records of space %d: %w", spaceID, err)
	}
	return res.RowsAffected()
}

// Occupancy returns the slot states stored under key. Missing keys give an empty map.
func (s *Store) Occupancy(ctx context.Context, key string) (map[int]Occupancy, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT estados FROM ocupacion WHERE match_key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return map[int]Occupancy{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query occupancy %s: %w", key, err)
	}
	states := map[int]Occupancy{}
	if err := decode(blob, &states); err != nil {
		return nil, fmt.Errorf("decode occupancy %s: %w", key, err)
	}
	return states, nil
}

// CycleOccupancy advances one slot's state and returns the new value.
func (s *Store) CycleOccupancy(ctx context.Context, key string, slot int) (Occupancy, error) {
	states, err := s.Occupancy(ctx, key)
	if err != nil {
		return "", err
	}
	next := OccupancyOf(states, slot).Next()
	states[slot] = next
	if err := s.putOccupancy(ctx, key, states); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Store) ClearOccupancy(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ocupacion WHERE match_key = ?`, key); err != nil {
		return fmt.Errorf("clear occupancy %s: %w", key, err)
	}
	return nil
}

func (s *Store) putOccupancy(ctx context.Context, key string, states map[int]Occupancy) error {
	blob, err := encode(states)
	if err != nil {
		return fmt.Errorf("encode occupancy %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ocupacion (match_key, estados, actualizado_en) VALUES (?, ?, ?)
		ON CONFLICT (match_key) DO UPDATE SET estados = excluded.estados, actualizado_en = excluded.actualizado_en`,
		key, blob, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("store occupancy %s: %w", key, err)
	}
	return nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
