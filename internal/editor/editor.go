// Package editor holds the interactive state of a layout being edited: which floor is
// shown, where each slot sits, which slots are highlighted and whether a drag is running.
//
// An Editor is not safe for concurrent use; callers drive it from a single goroutine.
package editor

import (
	"errors"
	"fmt"
	"sort"

	"findmyspace/internal/layout"
)

var (
	ErrDragInProgress = errors.New("a slot is already being dragged")
	ErrNoSuchSlot     = errors.New("slot not found on current floor")
	ErrNoSuchFloor    = errors.New("floor not found")
	ErrStale          = errors.New("layout must be regenerated after structural changes")
)

// Inputs are the space attributes a layout is derived from.
type Inputs struct {
	Capacity    int
	Structure   layout.Structure
	FloorCount  int
	HasBasement bool
}

func (in Inputs) Levels() []int {
	return layout.DeriveLevels(in.Structure, in.FloorCount, in.HasBasement)
}

// Point is a position in pointer or canvas coordinates.
type Point struct {
	X, Y float64
}

type floorData struct {
	slots    []layout.Slot
	selected []int
}

type dragState struct {
	index  int
	offset Point
}

type Editor struct {
	geometry layout.Geometry
	origin   Point

	inputs   Inputs
	baseline Inputs
	levels   []int

	floors  map[int]*floorData
	current int

	// working copy of the current floor
	slots    []layout.Slot
	selected []int

	drag *dragState

	stale bool
	saved bool
	// set when the positions were never usable for the current inputs
	discarded bool
}

// New starts a fresh layout for inputs with default grid positions.
func New(inputs Inputs, g layout.Geometry) *Editor {
	e := &Editor{geometry: g}
	e.reset(inputs)
	e.generate()
	return e
}

// Load opens a stored layout. The result is marked as saved. Floors missing from m
// but implied by inputs are added empty.
func Load(inputs Inputs, m layout.Map, g layout.Geometry) *Editor {
	e := &Editor{geometry: g}
	e.reset(inputs)
	for _, level := range e.levels {
		e.floors[level] = &floorData{}
	}
	for _, f := range m.Floors {
		if f.CanvasSize > 0 && f.SlotSize > 0 {
			e.geometry = f.Geometry()
		}
		if _, ok := e.floors[f.Level]; !ok {
			e.levels = append(e.levels, f.Level)
		}
		e.floors[f.Level] = &floorData{
			slots:    append([]layout.Slot(nil), f.Slots...),
			selected: append([]int(nil), f.SelectedSlots...),
		}
	}
	sort.Ints(e.levels)
	e.current = e.levels[0]
	e.loadWorking(e.current)
	e.saved = true
	return e
}

// LoadOutdated opens a space whose stored layout no longer fits inputs. The editor
// starts stale and shows no slots until Regenerate.
func LoadOutdated(inputs Inputs, g layout.Geometry) *Editor {
	e := &Editor{geometry: g}
	e.reset(inputs)
	for _, level := range e.levels {
		e.floors[level] = &floorData{}
	}
	e.loadWorking(e.current)
	e.stale = true
	e.discarded = true
	return e
}

func (e *Editor) reset(inputs Inputs) {
	e.inputs = inputs
	e.baseline = inputs
	e.levels = inputs.Levels()
	e.floors = make(map[int]*floorData, len(e.levels))
	e.current = e.levels[0]
	e.slots = nil
	e.selected = nil
	e.drag = nil
	e.stale = false
	e.saved = false
	e.discarded = false
}

func (e *Editor) generate() {
	m := layout.GenerateDefaultPositions(e.inputs.Capacity, e.levels, e.geometry)
	for _, f := range m.Floors {
		e.floors[f.Level] = &floorData{slots: f.Slots, selected: []int{}}
	}
	e.loadWorking(e.current)
}

// SetCanvasOrigin sets the page position of the canvas top-left corner; pointer
// coordinates given to DragTo are relative to the page.
func (e *Editor) SetCanvasOrigin(p Point) { e.origin = p }

func (e *Editor) Geometry() layout.Geometry { return e.geometry }
func (e *Editor) Inputs() Inputs            { return e.inputs }
func (e *Editor) Levels() []int             { return append([]int(nil), e.levels...) }
func (e *Editor) CurrentFloor() int         { return e.current }
func (e *Editor) Dragging() bool            { return e.drag != nil }

// Stale reports that structural inputs changed and the positions were discarded.
func (e *Editor) Stale() bool { return e.stale }

// Saved reports whether the current layout is known to be persisted.
func (e *Editor) Saved() bool { return e.saved }

func (e *Editor) MarkSaved() {
	if !e.stale {
		e.saved = true
	}
}

// Slots returns the current floor's slots. A stale editor has none.
func (e *Editor) Slots() []layout.Slot {
	if e.stale {
		return nil
	}
	return append([]layout.Slot(nil), e.slots...)
}

// SelectedSlots returns the current floor's selection in toggle order.
func (e *Editor) SelectedSlots() []int {
	return append([]int(nil), e.selected...)
}

func (e *Editor) IsSelected(num int) bool {
	return indexOf(e.selected, num) >= 0
}

// SelectSlot toggles num in the current floor's selection. Numbers not on the
// current floor are ignored, as is any selection on a stale editor.
func (e *Editor) SelectSlot(num int) {
	if e.stale {
		return
	}
	if _, ok := e.IndexOf(num); !ok {
		return
	}
	if i := indexOf(e.selected, num); i >= 0 {
		e.selected = append(e.selected[:i], e.selected[i+1:]...)
	} else {
		e.selected = append(e.selected, num)
	}
	e.saved = false
}

// IndexOf returns the index of slot num on the current floor.
func (e *Editor) IndexOf(num int) (int, bool) {
	for i, s := range e.slots {
		if s.ID == num {
			return i, true
		}
	}
	return -1, false
}

// FloorOf returns the level holding slot num.
func (e *Editor) FloorOf(num int) (int, bool) {
	if _, ok := e.IndexOf(num); ok {
		return e.current, true
	}
	for _, level := range e.levels {
		if level == e.current {
			continue
		}
		for _, s := range e.floors[level].slots {
			if s.ID == num {
				return level, true
			}
		}
	}
	return 0, false
}

// BeginDrag starts dragging the slot at index on the current floor. offset is where
// the pointer grabbed the slot, relative to the slot's top-left corner.
func (e *Editor) BeginDrag(index int, offset Point) error {
	if e.drag != nil {
		return ErrDragInProgress
	}
	if e.stale {
		return ErrStale
	}
	if index < 0 || index >= len(e.slots) {
		return fmt.Errorf("%w: index %d", ErrNoSuchSlot, index)
	}
	e.drag = &dragState{index: index, offset: offset}
	return nil
}

// DragTo moves the dragged slot under the pointer. Without an active drag it does nothing.
func (e *Editor) DragTo(pointer Point) {
	if e.drag == nil {
		return
	}
	x := pointer.X - e.drag.offset.X - e.origin.X
	y := pointer.Y - e.drag.offset.Y - e.origin.Y
	x, y = e.geometry.Clamp(x, y)
	s := &e.slots[e.drag.index]
	if s.X != x || s.Y != y {
		s.X, s.Y = x, y
		e.saved = false
	}
}

func (e *Editor) EndDrag() {
	e.drag = nil
}

// SwitchFloor stores the working floor and loads level.
func (e *Editor) SwitchFloor(level int) error {
	if _, ok := e.floors[level]; !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchFloor, level)
	}
	if level == e.current {
		return nil
	}
	e.drag = nil
	e.storeWorking()
	e.current = level
	e.loadWorking(level)
	return nil
}

// UpdateInputs applies new structural inputs. Any difference from the inputs the
// positions were generated for hides the positions until Regenerate is called;
// going back to those inputs shows them again.
func (e *Editor) UpdateInputs(in Inputs) {
	e.inputs = in
	if in == e.baseline {
		if !e.discarded {
			e.stale = false
		}
		return
	}
	e.stale = true
	e.saved = false
	e.drag = nil
}

// Regenerate rebuilds default positions from the current inputs.
func (e *Editor) Regenerate() {
	e.reset(e.inputs)
	e.generate()
}

// Snapshot returns the persisted form of every floor, empty floors included.
// A stale editor returns an empty map.
func (e *Editor) Snapshot() layout.Map {
	if e.stale {
		return layout.Map{}
	}
	e.storeWorking()
	m := layout.Map{Floors: make([]layout.Floor, 0, len(e.levels))}
	for _, level := range e.levels {
		fd := e.floors[level]
		m.Floors = append(m.Floors, layout.Floor{
			Level:         level,
			Slots:         append([]layout.Slot{}, fd.slots...),
			SelectedSlots: append([]int{}, fd.selected...),
			CanvasSize:    e.geometry.CanvasSize,
			SlotSize:      e.geometry.SlotSize,
		})
	}
	return m
}

func (e *Editor) storeWorking() {
	e.floors[e.current] = &floorData{
		slots:    append([]layout.Slot(nil), e.slots...),
		selected: append([]int(nil), e.selected...),
	}
}

func (e *Editor) loadWorking(level int) {
	fd := e.floors[level]
	if fd == nil {
		fd = &floorData{}
		e.floors[level] = fd
	}
	e.slots = append([]layout.Slot(nil), fd.slots...)
	e.selected = append([]int(nil), fd.selected...)
}

func indexOf(list []int, v int) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}
