package utils

import "strings"

// DefaultVehicleTypes seeds the rates form. Owners can add or remove names.
var DefaultVehicleTypes = []string{"car", "motorcycle", "suv"}

// NormalizeVehicleType lower-cases and trims a vehicle type name.
func NormalizeVehicleType(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MergeVehicleTypes returns the default types followed by any extra names, without
// duplicates and keeping first-seen order.
func MergeVehicleTypes(extra ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range append(append([]string{}, DefaultVehicleTypes...), extra...) {
		n := NormalizeVehicleType(name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// RemoveVehicleType drops name from types.
func RemoveVehicleType(types []string, name string) []string {
	n := NormalizeVehicleType(name)
	out := types[:0:0]
	for _, t := range types {
		if NormalizeVehicleType(t) != n {
			out = append(out, t)
		}
	}
	return out
}
