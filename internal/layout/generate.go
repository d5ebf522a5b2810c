package layout

import "math"

// GenerateDefaultPositions lays out slotCount slots over the given levels.
//
// Slots are spread as evenly as possible (the first slotCount%len(levels) levels get one
// extra) and numbered 1..slotCount in level order, so numbering is global across floors.
// Each level's slots are placed on their own square-ish grid.
func GenerateDefaultPositions(slotCount int, levels []int, g Geometry) Map {
	if len(levels) == 0 {
		levels = []int{0}
	}
	if slotCount < 0 {
		slotCount = 0
	}
	base := slotCount / len(levels)
	extra := slotCount % len(levels)

	m := Map{Floors: make([]Floor, 0, len(levels))}
	next := 1
	for i, level := range levels {
		count := base
		if i < extra {
			count++
		}
		m.Floors = append(m.Floors, Floor{
			Level:         level,
			Slots:         GridPositions(count, next, g),
			SelectedSlots: []int{},
			CanvasSize:    g.CanvasSize,
			SlotSize:      g.SlotSize,
		})
		next += count
	}
	return m
}

// GridPositions places count slots numbered from firstID on a grid of
// ceil(sqrt(count)) columns spanning the whole canvas.
func GridPositions(count, firstID int, g Geometry) []Slot {
	if count <= 0 {
		return []Slot{}
	}
	columns := int(math.Ceil(math.Sqrt(float64(count))))
	spacing := g.Max() / float64(max(columns-1, 1))

	slots := make([]Slot, count)
	for i := 0; i < count; i++ {
		row := i / columns
		col := i % columns
		x, y := g.Clamp(float64(col)*spacing, float64(row)*spacing)
		slots[i] = Slot{ID: firstID + i, X: x, Y: y}
	}
	return slots
}
