package layout

import "strconv"

// Structure is the physical kind of a space.
type Structure string

const (
	OpenAir  Structure = "open_air"
	Enclosed Structure = "enclosed"
)

// BasementLevel is the level number used for a basement floor.
const BasementLevel = -1

// Valid reports whether s is one of the known structures.
func (s Structure) Valid() bool {
	return s == OpenAir || s == Enclosed
}

// DeriveLevels returns the ordered floor levels for a space.
// Open air spaces always have only the ground level. Enclosed spaces get an optional
// basement followed by ground and upper floors.
func DeriveLevels(structure Structure, floorCount int, hasBasement bool) []int {
	if structure != Enclosed {
		return []int{0}
	}
	if floorCount < 1 {
		floorCount = 1
	}
	levels := make([]int, 0, floorCount+1)
	if hasBasement {
		levels = append(levels, BasementLevel)
	}
	for i := 0; i < floorCount; i++ {
		levels = append(levels, i)
	}
	return levels
}

// LevelName is a human label for a level ("Sótano", "Planta baja", "Piso 2").
func LevelName(level int) string {
	switch {
	case level < 0:
		return "Sótano"
	case level == 0:
		return "Planta baja"
	default:
		return "Piso " + strconv.Itoa(level)
	}
}
