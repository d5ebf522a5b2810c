package entities

import (
	"fmt"
	"time"

	apperrors "findmyspace/internal/errors"
)

// Weekdays is the fixed set of days a schedule can name, in display order.
var Weekdays = []string{"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo"}

const timeLayout = "15:04"

// TimeRange is one opening window inside a day.
type TimeRange struct {
	Apertura string `json:"apertura"`
	Cierre   string `json:"cierre"`
}

// Schedule lists the opening windows of one weekday.
type Schedule struct {
	Dia     string      `json:"dia"`
	Franjas []TimeRange `json:"franjas"`
}

func (r TimeRange) Validate() error {
	open, err := time.Parse(timeLayout, r.Apertura)
	if err != nil {
		return fmt.Errorf("%w: invalid apertura %q", apperrors.ErrValidation, r.Apertura)
	}
	closing, err := time.Parse(timeLayout, r.Cierre)
	if err != nil {
		return fmt.Errorf("%w: invalid cierre %q", apperrors.ErrValidation, r.Cierre)
	}
	if !open.Before(closing) {
		return fmt.Errorf("%w: apertura %s must be before cierre %s", apperrors.ErrValidation, r.Apertura, r.Cierre)
	}
	return nil
}

// ValidateSchedule requires known, non-repeated days, every range opening before it
// closes and at least one range overall.
func ValidateSchedule(days []Schedule) error {
	seen := make(map[string]bool, len(days))
	ranges := 0
	for _, d := range days {
		if !contains(Weekdays, d.Dia) {
			return fmt.Errorf("%w: unknown day %q", apperrors.ErrValidation, d.Dia)
		}
		if seen[d.Dia] {
			return fmt.Errorf("%w: day %q listed twice", apperrors.ErrValidation, d.Dia)
		}
		seen[d.Dia] = true
		for _, r := range d.Franjas {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("%s: %w", d.Dia, err)
			}
			ranges++
		}
	}
	if ranges == 0 {
		return fmt.Errorf("%w: schedule needs at least one opening range", apperrors.ErrValidation)
	}
	return nil
}

// CompactSchedule drops days without ranges and orders the rest by weekday.
func CompactSchedule(days []Schedule) []Schedule {
	out := make([]Schedule, 0, len(days))
	for _, wd := range Weekdays {
		for _, d := range days {
			if d.Dia == wd && len(d.Franjas) > 0 {
				out = append(out, d)
			}
		}
	}
	// unknown days are kept at the end so validation can reject them
	for _, d := range days {
		if !contains(Weekdays, d.Dia) {
			out = append(out, d)
		}
	}
	return out
}
