package entities

import (
	"fmt"
	"strings"
	"time"

	apperrors "findmyspace/internal/errors"
	"findmyspace/internal/layout"
)

const (
	KindPublic  = "public"
	KindPrivate = "private"
)

// PaymentMethods are the accepted metodos_pago keys.
var PaymentMethods = []string{"cash", "card", "transfer"}

// SpaceAttributes are the owner-editable fields of a space.
type SpaceAttributes struct {
	Nombre         string           `json:"nombre"`
	Ubicacion      string           `json:"ubicacion"`
	Latitud        *float64         `json:"latitud"`
	Longitud       *float64         `json:"longitud"`
	Plazas         int              `json:"plazas"`
	Tipo           string           `json:"tipo"`
	TipoEstructura layout.Structure `json:"tipo_estructura"`
	Pisos          int              `json:"pisos"`
	Sotano         bool             `json:"sotano"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (a SpaceAttributes) HasCoordinates() bool {
	return a.Latitud != nil && a.Longitud != nil
}

// Levels returns the floor levels implied by the structure inputs.
func (a SpaceAttributes) Levels() []int {
	return layout.DeriveLevels(a.TipoEstructura, a.Pisos, a.Sotano)
}

func (a SpaceAttributes) Validate() error {
	if strings.TrimSpace(a.Nombre) == "" {
		return fmt.Errorf("%w: nombre is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(a.Ubicacion) == "" {
		return fmt.Errorf("%w: ubicacion is required", apperrors.ErrValidation)
	}
	if a.Plazas < 1 {
		return fmt.Errorf("%w: plazas must be at least 1", apperrors.ErrValidation)
	}
	if a.Tipo != KindPublic && a.Tipo != KindPrivate {
		return fmt.Errorf("%w: tipo must be %q or %q", apperrors.ErrValidation, KindPublic, KindPrivate)
	}
	if !a.TipoEstructura.Valid() {
		return fmt.Errorf("%w: tipo_estructura must be %q or %q", apperrors.ErrValidation, layout.OpenAir, layout.Enclosed)
	}
	if a.TipoEstructura == layout.Enclosed && a.Pisos < 1 {
		return fmt.Errorf("%w: an enclosed space needs at least one floor", apperrors.ErrValidation)
	}
	if !a.HasCoordinates() {
		return fmt.Errorf("%w: %s", apperrors.ErrNoCoordinates, a.Ubicacion)
	}
	if *a.Latitud < -90 || *a.Latitud > 90 || *a.Longitud < -180 || *a.Longitud > 180 {
		return fmt.Errorf("%w: coordinates out of range", apperrors.ErrValidation)
	}
	return nil
}

// Space is a parking listing as returned by the API.
type Space struct {
	ID      int64 `json:"id"`
	OwnerID int64 `json:"usuario_id"`
	SpaceAttributes
	CreatedAt time.Time   `json:"creado_en"`
	Mapa      *layout.Map `json:"mapa,omitempty"`
}

// SpaceDetail is the payload of GET /api/espacios/:id.
type SpaceDetail struct {
	Espacio     Space      `json:"espacio"`
	Horarios    []Schedule `json:"horarios"`
	Modalidades []string   `json:"modalidades"`
	MetodosPago []string   `json:"metodos_pago"`
	Tarifas     []Rate     `json:"tarifas"`
}

// SpaceRequest is the body of POST /api/espacios and PUT /api/espacios/:id.
// A nil Mapa leaves a previously stored layout untouched.
type SpaceRequest struct {
	SpaceAttributes
	Horarios    []Schedule  `json:"horarios"`
	Modalidades []string    `json:"modalidades"`
	MetodosPago []string    `json:"metodos_pago"`
	Tarifas     []Rate      `json:"tarifas"`
	Mapa        *layout.Map `json:"mapa,omitempty"`
}

// Normalize trims text fields and drops rates from public spaces.
func (r *SpaceRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Ubicacion = strings.TrimSpace(r.Ubicacion)
	if r.Tipo == KindPublic {
		r.Tarifas = nil
	}
	r.Horarios = CompactSchedule(r.Horarios)
}

func (r SpaceRequest) Validate() error {
	if err := r.SpaceAttributes.Validate(); err != nil {
		return err
	}
	if err := ValidateSchedule(r.Horarios); err != nil {
		return err
	}
	for _, m := range r.Modalidades {
		if !PricingMode(m).Valid() {
			return fmt.Errorf("%w: unknown modalidad %q", apperrors.ErrValidation, m)
		}
	}
	for _, m := range r.MetodosPago {
		if !contains(PaymentMethods, m) {
			return fmt.Errorf("%w: unknown metodo_pago %q", apperrors.ErrValidation, m)
		}
	}
	if r.Tipo == KindPrivate {
		if err := ValidateRates(r.Tarifas); err != nil {
			return err
		}
	}
	if r.Mapa != nil {
		return ValidateLayout(r.SpaceAttributes, *r.Mapa)
	}
	return nil
}

// LayoutUpdate is the body of PUT /api/espacios/:id/mapa. It carries the core
// attributes together with the layout so the stored record stays consistent.
type LayoutUpdate struct {
	SpaceAttributes
	Mapa layout.Map `json:"mapa"`
}

func (u LayoutUpdate) Validate() error {
	if err := u.SpaceAttributes.Validate(); err != nil {
		return err
	}
	return ValidateLayout(u.SpaceAttributes, u.Mapa)
}

// ValidateLayout checks a layout against the attributes it was built for.
func ValidateLayout(a SpaceAttributes, m layout.Map) error {
	if !m.HasContent() {
		return fmt.Errorf("%w: layout has no slots", apperrors.ErrValidation)
	}
	if err := m.Validate(a.Plazas); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	levels := a.Levels()
	for _, f := range m.Floors {
		if !containsInt(levels, f.Level) {
			return fmt.Errorf("%w: level %d does not exist in this structure", apperrors.ErrValidation, f.Level)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
