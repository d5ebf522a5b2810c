package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "findmyspace/internal/errors"
)

// PricingMode is the time unit a rate is charged by.
type PricingMode string

const (
	ModeHour  PricingMode = "hour"
	ModeDay   PricingMode = "day"
	ModeWeek  PricingMode = "week"
	ModeMonth PricingMode = "month"
	ModeYear  PricingMode = "year"
)

var PricingModes = []PricingMode{ModeHour, ModeDay, ModeWeek, ModeMonth, ModeYear}

func (m PricingMode) Valid() bool {
	for _, v := range PricingModes {
		if v == m {
			return true
		}
	}
	return false
}

// Rate is the price of a vehicle type for one pricing mode.
type Rate struct {
	TipoVehiculo string      `json:"tipo_vehiculo"`
	Modalidad    PricingMode `json:"modalidad"`
	Precio       float64     `json:"precio"`
}

// RateKey identifies a vehicle type and pricing mode pair in the rates form.
type RateKey struct {
	VehicleType string
	Mode        PricingMode
}

// BuildRates turns the rates form into rates. A pair is kept only when its mode was
// selected for the vehicle type and a numeric price was typed for it.
func BuildRates(vehicleTypes []string, selected map[string][]PricingMode, prices map[RateKey]string) ([]Rate, error) {
	var rates []Rate
	for _, vt := range vehicleTypes {
		for _, mode := range selected[vt] {
			raw := strings.TrimSpace(prices[RateKey{VehicleType: vt, Mode: mode}])
			if raw == "" {
				continue
			}
			price, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
			if err != nil || !finite(price) {
				return nil, fmt.Errorf("%w: price %q for %s/%s is not a number", apperrors.ErrValidation, raw, vt, mode)
			}
			rates = append(rates, Rate{TipoVehiculo: vt, Modalidad: mode, Precio: price})
		}
	}
	return rates, nil
}

func ValidateRates(rates []Rate) error {
	seen := make(map[RateKey]bool, len(rates))
	for _, r := range rates {
		if strings.TrimSpace(r.TipoVehiculo) == "" {
			return fmt.Errorf("%w: tarifa without tipo_vehiculo", apperrors.ErrValidation)
		}
		if !r.Modalidad.Valid() {
			return fmt.Errorf("%w: unknown modalidad %q", apperrors.ErrValidation, r.Modalidad)
		}
		if !finite(r.Precio) || r.Precio <= 0 {
			return fmt.Errorf("%w: precio for %s/%s must be positive", apperrors.ErrValidation, r.TipoVehiculo, r.Modalidad)
		}
		k := RateKey{VehicleType: r.TipoVehiculo, Mode: r.Modalidad}
		if seen[k] {
			return fmt.Errorf("%w: duplicated tarifa for %s/%s", apperrors.ErrValidation, r.TipoVehiculo, r.Modalidad)
		}
		seen[k] = true
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
