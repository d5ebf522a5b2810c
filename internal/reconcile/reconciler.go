package reconcile

import (
	"context"
	"errors"
	"fmt"

	"findmyspace/internal/cache"
	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"
	"findmyspace/internal/layout"

	"go.uber.org/zap"
)

var (
	ErrNoLayout     = errors.New("no layout to save")
	ErrSaveInFlight = errors.New("a save is already in progress")
	ErrNoSpaceID    = errors.New("space has not been created yet")
)

// RemoteStore is the server side of a space. *client.Client implements it.
type RemoteStore interface {
	GetSpace(ctx context.Context, id int64) (*entities.SpaceDetail, error)
	CreateSpace(ctx context.Context, req entities.SpaceRequest) (int64, error)
	UpdateSpace(ctx context.Context, id int64, req entities.SpaceRequest) error
	UpdateLayout(ctx context.Context, id int64, upd entities.LayoutUpdate) error
}

// LocalCache is the local copy of layouts. *cache.Store implements it.
type LocalCache interface {
	Records(ctx context.Context) ([]cache.Record, error)
	Upsert(ctx context.Context, rec cache.Record) (cache.Record, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// SaveRequest is one save of a space form. Layout replaces Space.Mapa.
type SaveRequest struct {
	SpaceID          int64
	Space            entities.SpaceRequest
	Layout           *layout.Map
	StructureChanged bool
}

type SaveResult struct {
	SpaceID int64
	Created bool
	// LayoutIncluded is set when a non-empty layout was sent with the attributes.
	LayoutIncluded bool
	// LayoutSaved is set when the layout may be shown as saved.
	LayoutSaved bool
	CacheID     int64
	// Rule names the match rule that found the cache entry, empty for a new entry.
	Rule string
	// Attributes are the attributes as written, coordinates resolved.
	Attributes entities.SpaceAttributes
}

type Reconciler struct {
	remote   RemoteStore
	local    LocalCache
	geocoder Geocoder
	logger   *zap.Logger
}

// New builds a Reconciler. geocoder may be nil, in which case spaces must already
// carry coordinates.
func New(remote RemoteStore, local LocalCache, geocoder Geocoder, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{remote: remote, local: local, geocoder: geocoder, logger: logger}
}

// Save writes the attributes and, when it has content, the layout to the remote store,
// then replaces the matching local cache entry. If the remote write succeeds but the
// cache write fails, the result is returned together with the error and LayoutSaved is false.
func (r *Reconciler) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	body := req.Space
	body.Normalize()
	if err := r.resolveCoordinates(ctx, req.SpaceID, &body.SpaceAttributes); err != nil {
		return nil, err
	}

	body.Mapa = nil
	if req.Layout != nil && req.Layout.HasContent() {
		m := req.Layout.Clone()
		body.Mapa = &m
	}

	res := &SaveResult{SpaceID: req.SpaceID, LayoutIncluded: body.Mapa != nil, Attributes: body.SpaceAttributes}
	if req.SpaceID == 0 {
		id, err := r.remote.CreateSpace(ctx, body)
		if err != nil {
			return nil, fmt.Errorf("create space: %w", err)
		}
		res.SpaceID = id
		res.Created = true
		r.logger.Info("space created", zap.Int64("space_id", id), zap.Bool("with_layout", res.LayoutIncluded))
	} else {
		if err := r.remote.UpdateSpace(ctx, req.SpaceID, body); err != nil {
			return nil, fmt.Errorf("update space %d: %w", req.SpaceID, err)
		}
		r.logger.Info("space updated", zap.Int64("space_id", req.SpaceID), zap.Bool("with_layout", res.LayoutIncluded))
	}

	rec, rule, err := r.writeCache(ctx, res.SpaceID, body.SpaceAttributes, body.Mapa)
	if err != nil {
		r.logger.Warn("local cache not updated", zap.Int64("space_id", res.SpaceID), zap.Error(err))
		return res, fmt.Errorf("update local cache: %w", err)
	}
	res.CacheID = rec.CacheID
	res.Rule = rule
	res.LayoutSaved = res.LayoutIncluded && !req.StructureChanged
	return res, nil
}

// SaveLayout stores only the layout of an existing space. It is the retry path after
// an attribute save whose layout part did not go through.
func (r *Reconciler) SaveLayout(ctx context.Context, spaceID int64, attrs entities.SpaceAttributes, m layout.Map) (*SaveResult, error) {
	if !m.HasContent() {
		return nil, ErrNoLayout
	}
	if spaceID == 0 {
		return nil, ErrNoSpaceID
	}
	if err := r.resolveCoordinates(ctx, spaceID, &attrs); err != nil {
		return nil, err
	}
	m = m.Clone()
	if err := r.remote.UpdateLayout(ctx, spaceID, entities.LayoutUpdate{SpaceAttributes: attrs, Mapa: m}); err != nil {
		return nil, fmt.Errorf("update layout of space %d: %w", spaceID, err)
	}
	res := &SaveResult{SpaceID: spaceID, LayoutIncluded: true, Attributes: attrs}
	rec, rule, err := r.writeCache(ctx, spaceID, attrs, &m)
	if err != nil {
		r.logger.Warn("local cache not updated", zap.Int64("space_id", spaceID), zap.Error(err))
		return res, fmt.Errorf("update local cache: %w", err)
	}
	res.CacheID = rec.CacheID
	res.Rule = rule
	res.LayoutSaved = true
	r.logger.Info("layout saved", zap.Int64("space_id", spaceID), zap.Int("slots", m.SlotCount()))
	return res, nil
}

// CachedLayout returns the layout of the cache entry matching t, if any.
func (r *Reconciler) CachedLayout(ctx context.Context, t Target) (*layout.Map, string, error) {
	records, err := r.local.Records(ctx)
	if err != nil {
		return nil, "", err
	}
	i, rule, ok := Match(records, t)
	if !ok || records[i].Mapa == nil || !records[i].Mapa.HasContent() {
		return nil, "", nil
	}
	return records[i].Mapa, rule, nil
}

// resolveCoordinates fills missing coordinates from the geocoder, falling back to a
// matching cache entry. With neither, the save is blocked.
func (r *Reconciler) resolveCoordinates(ctx context.Context, spaceID int64, a *entities.SpaceAttributes) error {
	if a.HasCoordinates() {
		return nil
	}
	if r.geocoder != nil {
		lat, lng, err := r.geocoder.Geocode(ctx, a.Ubicacion)
		if err == nil {
			a.Latitud, a.Longitud = &lat, &lng
			return nil
		}
		r.logger.Debug("geocoding failed", zap.String("ubicacion", a.Ubicacion), zap.Error(err))
	}
	records, err := r.local.Records(ctx)
	if err == nil {
		if i, _, ok := Match(records, TargetFromAttributes(spaceID, *a)); ok {
			if c := records[i].Estacionamiento.Coordenadas; c != nil {
				lat, lng := c.Lat, c.Lng
				a.Latitud, a.Longitud = &lat, &lng
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %q", apperrors.ErrNoCoordinates, a.Ubicacion)
}

func (r *Reconciler) writeCache(ctx context.Context, spaceID int64, a entities.SpaceAttributes, m *layout.Map) (cache.Record, string, error) {
	records, err := r.local.Records(ctx)
	if err != nil {
		return cache.Record{}, "", err
	}
	rec := cache.Record{Estacionamiento: cache.FromAttributes(spaceID, a), Mapa: m}
	i, rule, ok := Match(records, TargetFromAttributes(spaceID, a))
	if ok {
		rec.CacheID = records[i].CacheID
	}
	stored, err := r.local.Upsert(ctx, rec)
	if err != nil {
		return cache.Record{}, "", err
	}
	return stored, rule, nil
}
