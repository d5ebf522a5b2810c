package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

const (
	DefaultCanvasSize = 600
	DefaultSlotSize   = 40
)

var ErrInvalidLayout = errors.New("invalid layout")

// Geometry holds the rendering constants shared by every floor of a layout.
type Geometry struct {
	CanvasSize float64 `json:"canvasSize"`
	SlotSize   float64 `json:"slotSize"`
}

func DefaultGeometry() Geometry {
	return Geometry{CanvasSize: DefaultCanvasSize, SlotSize: DefaultSlotSize}
}

// Max is the largest coordinate a slot may take on either axis.
func (g Geometry) Max() float64 {
	m := g.CanvasSize - g.SlotSize
	if m < 0 {
		return 0
	}
	return m
}

// Clamp keeps a slot fully inside the canvas.
func (g Geometry) Clamp(x, y float64) (float64, float64) {
	return clamp(x, 0, g.Max()), clamp(y, 0, g.Max())
}

func (g Geometry) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= g.Max() && y <= g.Max()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Slot is one numbered parking position. ID is assigned once at generation.
type Slot struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Floor is the persisted state of one level.
type Floor struct {
	Level         int     `json:"level"`
	Slots         []Slot  `json:"slots"`
	SelectedSlots []int   `json:"selectedSlots"`
	CanvasSize    float64 `json:"canvasSize"`
	SlotSize      float64 `json:"slotSize"`
}

func (f Floor) Geometry() Geometry {
	return Geometry{CanvasSize: f.CanvasSize, SlotSize: f.SlotSize}
}

// Map is the persisted layout aggregate of a space.
//
// A map with a single floor is encoded in the flat shape
// {slots, selectedSlots, canvasSize, slotSize}; anything else uses {floors: [...]}.
type Map struct {
	Floors []Floor `json:"floors"`
}

// HasContent reports whether at least one floor has a slot.
func (m Map) HasContent() bool {
	for _, f := range m.Floors {
		if len(f.Slots) > 0 {
			return true
		}
	}
	return false
}

func (m Map) SlotCount() int {
	n := 0
	for _, f := range m.Floors {
		n += len(f.Slots)
	}
	return n
}

func (m Map) Levels() []int {
	levels := make([]int, len(m.Floors))
	for i, f := range m.Floors {
		levels[i] = f.Level
	}
	return levels
}

// Floor returns the floor stored for level.
func (m Map) Floor(level int) (Floor, bool) {
	for _, f := range m.Floors {
		if f.Level == level {
			return f, true
		}
	}
	return Floor{}, false
}

// Validate checks slot ids are unique, positions are inside their canvas and, when
// capacity is positive, that the total slot count matches it.
func (m Map) Validate(capacity int) error {
	seenLevel := make(map[int]bool, len(m.Floors))
	seenSlot := make(map[int]bool)
	for _, f := range m.Floors {
		if seenLevel[f.Level] {
			return fmt.Errorf("%w: level %d appears twice", ErrInvalidLayout, f.Level)
		}
		seenLevel[f.Level] = true
		g := f.Geometry()
		if g.CanvasSize <= 0 || g.SlotSize <= 0 || g.SlotSize > g.CanvasSize {
			return fmt.Errorf("%w: level %d has invalid canvas geometry", ErrInvalidLayout, f.Level)
		}
		for _, s := range f.Slots {
			if s.ID < 1 {
				return fmt.Errorf("%w: slot id %d must be positive", ErrInvalidLayout, s.ID)
			}
			if seenSlot[s.ID] {
				return fmt.Errorf("%w: slot %d appears twice", ErrInvalidLayout, s.ID)
			}
			seenSlot[s.ID] = true
			if !g.Contains(s.X, s.Y) {
				return fmt.Errorf("%w: slot %d is outside the canvas", ErrInvalidLayout, s.ID)
			}
		}
	}
	if capacity > 0 && len(seenSlot) != capacity {
		return fmt.Errorf("%w: %d slots for a capacity of %d", ErrInvalidLayout, len(seenSlot), capacity)
	}
	return nil
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	out := Map{Floors: make([]Floor, len(m.Floors))}
	for i, f := range m.Floors {
		f.Slots = append([]Slot(nil), f.Slots...)
		f.SelectedSlots = append([]int(nil), f.SelectedSlots...)
		out.Floors[i] = f
	}
	return out
}

type flatShape struct {
	Slots         []Slot  `json:"slots"`
	SelectedSlots []int   `json:"selectedSlots"`
	CanvasSize    float64 `json:"canvasSize"`
	SlotSize      float64 `json:"slotSize"`
}

type floorsShape struct {
	Floors []Floor `json:"floors"`
}

func (m Map) MarshalJSON() ([]byte, error) {
	if len(m.Floors) == 1 && m.Floors[0].Level == 0 {
		f := m.Floors[0]
		return json.Marshal(flatShape{
			Slots:         nonNilSlots(f.Slots),
			SelectedSlots: nonNilInts(f.SelectedSlots),
			CanvasSize:    f.CanvasSize,
			SlotSize:      f.SlotSize,
		})
	}
	floors := make([]Floor, len(m.Floors))
	for i, f := range m.Floors {
		f.Slots = nonNilSlots(f.Slots)
		f.SelectedSlots = nonNilInts(f.SelectedSlots)
		floors[i] = f
	}
	return json.Marshal(floorsShape{Floors: floors})
}

func (m *Map) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if _, ok := fields["floors"]; ok {
		var fs floorsShape
		if err := json.Unmarshal(data, &fs); err != nil {
			return err
		}
		sort.SliceStable(fs.Floors, func(i, j int) bool { return fs.Floors[i].Level < fs.Floors[j].Level })
		m.Floors = fs.Floors
		return nil
	}
	var flat flatShape
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	m.Floors = []Floor{{
		Level:         0,
		Slots:         flat.Slots,
		SelectedSlots: flat.SelectedSlots,
		CanvasSize:    flat.CanvasSize,
		SlotSize:      flat.SlotSize,
	}}
	return nil
}

func nonNilSlots(s []Slot) []Slot {
	if s == nil {
		return []Slot{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
