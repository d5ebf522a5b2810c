package entities

import (
	"fmt"
	"strings"
	"time"

	apperrors "findmyspace/internal/errors"
)

// Vehicle is a driver's registered vehicle.
type Vehicle struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"usuario_id"`
	Matricula string    `json:"matricula"`
	Marca     string    `json:"marca"`
	Modelo    string    `json:"modelo"`
	Tipo      string    `json:"tipo"`
	CreatedAt time.Time `json:"creado_en"`
}

// VehicleRequest is the body of POST /api/vehiculos and PUT /api/vehiculos/:id.
type VehicleRequest struct {
	Matricula string `json:"matricula"`
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
	Tipo      string `json:"tipo"`
}

// NormalizePlate upper-cases a plate and removes spaces and dashes.
func NormalizePlate(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	return strings.NewReplacer(" ", "", "-", "").Replace(p)
}

func (r *VehicleRequest) Normalize() {
	r.Matricula = NormalizePlate(r.Matricula)
	r.Marca = strings.TrimSpace(r.Marca)
	r.Modelo = strings.TrimSpace(r.Modelo)
	r.Tipo = strings.TrimSpace(r.Tipo)
}

func (r VehicleRequest) Validate() error {
	if r.Matricula == "" {
		return fmt.Errorf("%w: matricula is required", apperrors.ErrValidation)
	}
	if r.Tipo == "" {
		return fmt.Errorf("%w: tipo is required", apperrors.ErrValidation)
	}
	return nil
}
