// Package reconcile decides which stored record an edited layout belongs to and writes
// the layout to the remote API and the local cache.
package reconcile

import (
	"fmt"
	"math"
	"strings"

	"findmyspace/internal/cache"
	"findmyspace/internal/entities"
)

// CoordinateTolerance is the largest per-axis difference, in degrees, for two
// positions to count as the same place.
const CoordinateTolerance = 1e-5

// Target is the space a cached record is matched against.
type Target struct {
	SpaceID     int64
	Nombre      string
	Ubicacion   string
	Plazas      int
	Coordinates *cache.Coordinates
}

func TargetFromAttributes(id int64, a entities.SpaceAttributes) Target {
	t := Target{SpaceID: id, Nombre: a.Nombre, Ubicacion: a.Ubicacion, Plazas: a.Plazas}
	if a.HasCoordinates() {
		t.Coordinates = &cache.Coordinates{Lat: *a.Latitud, Lng: *a.Longitud}
	}
	return t
}

// Predicate reports whether a cached space is the target.
type Predicate func(rec cache.CachedSpace, t Target) bool

// Rule is a named predicate.
type Rule struct {
	Name  string
	Match Predicate
}

// Rules are evaluated in order; the first rule matching any record wins.
var Rules = []Rule{
	{Name: "id", Match: MatchByID},
	{Name: "attributes", Match: MatchByAttributes},
	{Name: "coordinates", Match: MatchByCoordinates},
}

// MatchByID matches on the server-assigned space id.
func MatchByID(rec cache.CachedSpace, t Target) bool {
	return t.SpaceID != 0 && rec.SpaceID == t.SpaceID
}

// MatchByAttributes matches on trimmed, case-folded name and location plus capacity.
func MatchByAttributes(rec cache.CachedSpace, t Target) bool {
	if conflictingIDs(rec, t) {
		return false
	}
	return rec.Plazas == t.Plazas &&
		normalize(rec.Nombre) == normalize(t.Nombre) &&
		normalize(rec.Ubicacion) == normalize(t.Ubicacion)
}

// MatchByCoordinates matches on near-identical coordinates plus capacity.
func MatchByCoordinates(rec cache.CachedSpace, t Target) bool {
	if conflictingIDs(rec, t) || rec.Coordenadas == nil || t.Coordinates == nil {
		return false
	}
	return rec.Plazas == t.Plazas &&
		math.Abs(rec.Coordenadas.Lat-t.Coordinates.Lat) < CoordinateTolerance &&
		math.Abs(rec.Coordenadas.Lng-t.Coordinates.Lng) < CoordinateTolerance
}

// two different server ids never describe the same space
func conflictingIDs(rec cache.CachedSpace, t Target) bool {
	return rec.SpaceID != 0 && t.SpaceID != 0 && rec.SpaceID != t.SpaceID
}

// Match returns the index of the record matching t and the name of the rule that
// matched it. ok is false when t is new.
func Match(records []cache.Record, t Target) (idx int, rule string, ok bool) {
	for _, r := range Rules {
		for i, rec := range records {
			if r.Match(rec.Estacionamiento, t) {
				return i, r.Name, true
			}
		}
	}
	return -1, "", false
}

// MatchKey is the stable key local annotations of t are stored under.
func MatchKey(t Target) string {
	if t.SpaceID != 0 {
		return fmt.Sprintf("id:%d", t.SpaceID)
	}
	return fmt.Sprintf("attr:%s|%s|%d", normalize(t.Nombre), normalize(t.Ubicacion), t.Plazas)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
