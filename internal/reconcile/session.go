package reconcile

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"findmyspace/internal/editor"
	"findmyspace/internal/entities"
	"findmyspace/internal/layout"

	"go.uber.org/zap"
)

// Session ties one editor to the space it edits. It allows a single save at a time and
// ignores a save response once the session has moved to a different space.
type Session struct {
	mu       sync.Mutex
	rec      *Reconciler
	geometry layout.Geometry
	logger   *zap.Logger

	editor  *editor.Editor
	spaceID int64
	attrs   entities.SpaceAttributes
	// gen changes every time the session starts tracking another space
	gen      uint64
	inFlight bool
}

func NewSession(rec *Reconciler, g layout.Geometry, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{rec: rec, geometry: g, logger: logger}
}

// InputsFromAttributes returns the editor inputs of a space.
func InputsFromAttributes(a entities.SpaceAttributes) editor.Inputs {
	return editor.Inputs{
		Capacity:    a.Plazas,
		Structure:   a.TipoEstructura,
		FloorCount:  a.Pisos,
		HasBasement: a.Sotano,
	}
}

// Start begins a new, not yet created space with generated default positions.
func (s *Session) Start(a entities.SpaceAttributes) *editor.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.spaceID = 0
	s.attrs = a
	s.editor = editor.New(InputsFromAttributes(a), s.geometry)
	return s.editor
}

// Load opens an existing space. The remote layout is used when present and consistent
// with the space, otherwise the matching local cache entry. A space with neither gets
// generated defaults, unless its remote layout was inconsistent: then the editor opens
// stale and the layout must be regenerated.
func (s *Session) Load(ctx context.Context, id int64) (*entities.SpaceDetail, error) {
	detail, err := s.rec.remote.GetSpace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load space %d: %w", id, err)
	}
	attrs := detail.Espacio.SpaceAttributes
	inputs := InputsFromAttributes(attrs)

	var m *layout.Map
	outdated := false
	if remote := detail.Espacio.Mapa; remote != nil && remote.HasContent() {
		if err := entities.ValidateLayout(attrs, *remote); err != nil {
			s.logger.Warn("stored layout does not match space", zap.Int64("space_id", id), zap.Error(err))
			outdated = true
		} else {
			m = remote
		}
	}
	if m == nil {
		cached, rule, err := s.rec.CachedLayout(ctx, TargetFromAttributes(id, attrs))
		if err != nil {
			s.logger.Warn("local cache unavailable", zap.Int64("space_id", id), zap.Error(err))
		}
		if cached != nil && entities.ValidateLayout(attrs, *cached) == nil {
			s.logger.Debug("using cached layout", zap.Int64("space_id", id), zap.String("rule", rule))
			m = cached
		}
	}

	var ed *editor.Editor
	switch {
	case m != nil:
		ed = editor.Load(inputs, *m, s.geometry)
	case outdated:
		ed = editor.LoadOutdated(inputs, s.geometry)
	default:
		ed = editor.New(inputs, s.geometry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.spaceID = id
	s.attrs = attrs
	s.editor = ed
	return detail, nil
}

func (s *Session) Editor() *editor.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor
}

func (s *Session) SpaceID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spaceID
}

// Key is the match key of the tracked space.
func (s *Session) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MatchKey(TargetFromAttributes(s.spaceID, s.attrs))
}

// Saving reports whether a save is in flight.
func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Save writes the form and the current layout. The form's structural fields are applied
// to the editor first, so a changed structure is never sent and never marked saved.
func (s *Session) Save(ctx context.Context, form entities.SpaceRequest) (*SaveResult, error) {
	s.mu.Lock()
	if s.editor == nil {
		s.mu.Unlock()
		return nil, ErrNoLayout
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	s.inFlight = true
	gen, ed := s.gen, s.editor
	ed.UpdateInputs(InputsFromAttributes(form.SpaceAttributes))
	snap := ed.Snapshot()
	req := SaveRequest{
		SpaceID:          s.spaceID,
		Space:            form,
		Layout:           &snap,
		StructureChanged: ed.Stale(),
	}
	s.mu.Unlock()

	res, err := s.rec.Save(ctx, req)
	return res, s.finish(gen, ed, snap, res, err)
}

// SaveLayout retries only the layout of an already created space.
func (s *Session) SaveLayout(ctx context.Context) (*SaveResult, error) {
	s.mu.Lock()
	if s.editor == nil {
		s.mu.Unlock()
		return nil, ErrNoLayout
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	if s.editor.Stale() {
		s.mu.Unlock()
		return nil, editor.ErrStale
	}
	s.inFlight = true
	gen, ed, id, attrs := s.gen, s.editor, s.spaceID, s.attrs
	snap := ed.Snapshot()
	s.mu.Unlock()

	res, err := s.rec.SaveLayout(ctx, id, attrs, snap)
	return res, s.finish(gen, ed, snap, res, err)
}

func (s *Session) finish(gen uint64, ed *editor.Editor, snap layout.Map, res *SaveResult, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if res == nil {
		return err
	}
	if gen != s.gen {
		s.logger.Debug("ignoring save response for a space no longer tracked", zap.Int64("space_id", res.SpaceID))
		return err
	}
	s.spaceID = res.SpaceID
	s.attrs = res.Attributes
	if err == nil && res.LayoutSaved && ed == s.editor && reflect.DeepEqual(ed.Snapshot(), snap) {
		ed.MarkSaved()
	}
	return err
}
