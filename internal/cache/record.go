package cache

import (
	"findmyspace/internal/entities"
	"findmyspace/internal/layout"
)

// Coordinates are a geocoded position in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CachedSpace is the subset of a space kept next to its layout in the local cache.
// SpaceID is zero until the server assigned an id.
type CachedSpace struct {
	SpaceID        int64            `json:"idEspacio"`
	Nombre         string           `json:"nombre"`
	Ubicacion      string           `json:"ubicacion"`
	Plazas         int              `json:"plazas"`
	Tipo           string           `json:"tipo"`
	TipoEstructura layout.Structure `json:"tipoEstructura"`
	Pisos          int              `json:"pisos"`
	Sotano         bool             `json:"sotano"`
	Coordenadas    *Coordinates     `json:"coordenadas"`
}

// Record is one local cache entry.
type Record struct {
	CacheID         int64       `json:"-"`
	Estacionamiento CachedSpace `json:"estacionamiento"`
	Mapa            *layout.Map `json:"mapa"`
}

// FromAttributes builds the cached view of a space.
func FromAttributes(id int64, a entities.SpaceAttributes) CachedSpace {
	cs := CachedSpace{
		SpaceID:        id,
		Nombre:         a.Nombre,
		Ubicacion:      a.Ubicacion,
		Plazas:         a.Plazas,
		Tipo:           a.Tipo,
		TipoEstructura: a.TipoEstructura,
		Pisos:          a.Pisos,
		Sotano:         a.Sotano,
	}
	if a.HasCoordinates() {
		cs.Coordenadas = &Coordinates{Lat: *a.Latitud, Lng: *a.Longitud}
	}
	return cs
}
