package entities

// Statistics are the aggregated numbers shown on an owner's dashboard.
type Statistics struct {
	UsuarioID      int64              `json:"usuario_id"`
	Espacios       int                `json:"espacios"`
	PlazasTotales  int                `json:"plazas_totales"`
	Publicos       int                `json:"publicos"`
	Privados       int                `json:"privados"`
	AireLibre      int                `json:"aire_libre"`
	Cubiertos      int                `json:"cubiertos"`
	ConMapa        int                `json:"con_mapa"`
	Vehiculos      int                `json:"vehiculos"`
	PrecioPromedio map[string]float64 `json:"precio_promedio"`
}
