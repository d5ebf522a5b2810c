package editor

import (
	"testing"

	"findmyspace/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enclosed(capacity, floors int, basement bool) Inputs {
	return Inputs{Capacity: capacity, Structure: layout.Enclosed, FloorCount: floors, HasBasement: basement}
}

func TestNew_GeneratesDefaults(t *testing.T) {
	e := New(enclosed(9, 2, true), layout.DefaultGeometry())

	assert.Equal(t, []int{-1, 0, 1}, e.Levels())
	assert.Equal(t, -1, e.CurrentFloor())
	assert.Len(t, e.Slots(), 3)
	assert.False(t, e.Saved())
	assert.False(t, e.Stale())
	assert.Equal(t, 9, e.Snapshot().SlotCount())
}

func TestSelectSlot_Toggles(t *testing.T) {
	e := New(Inputs{Capacity: 4, Structure: layout.OpenAir}, layout.DefaultGeometry())

	e.SelectSlot(2)
	e.SelectSlot(3)
	assert.Equal(t, []int{2, 3}, e.SelectedSlots())
	assert.True(t, e.IsSelected(2))

	e.SelectSlot(2)
	assert.Equal(t, []int{3}, e.SelectedSlots())

	before := e.Slots()
	e.SelectSlot(4)
	assert.Equal(t, before, e.Slots())
}

func TestSelectSlot_IgnoresUnknownSlots(t *testing.T) {
	e := New(enclosed(6, 2, false), layout.DefaultGeometry())
	e.MarkSaved()

	e.SelectSlot(99)
	e.SelectSlot(4) // on the upper floor
	assert.Empty(t, e.SelectedSlots())
	assert.True(t, e.Saved())

	e.SelectSlot(1)
	e.UpdateInputs(enclosed(8, 2, false))
	e.SelectSlot(2)
	assert.Equal(t, []int{1}, e.SelectedSlots(), "stale editors take no selection")
	assert.Empty(t, e.Snapshot().Floors)
}

func TestDrag_MovesAndClamps(t *testing.T) {
	g := layout.Geometry{CanvasSize: 600, SlotSize: 40}
	e := New(Inputs{Capacity: 4, Structure: layout.OpenAir}, g)
	e.SetCanvasOrigin(Point{X: 100, Y: 50})

	require.NoError(t, e.BeginDrag(0, Point{X: 10, Y: 10}))
	e.DragTo(Point{X: 310, Y: 260})
	assert.Equal(t, layout.Slot{ID: 1, X: 200, Y: 200}, e.Slots()[0])

	e.DragTo(Point{X: 5000, Y: -300})
	assert.Equal(t, layout.Slot{ID: 1, X: 560, Y: 0}, e.Slots()[0])

	e.EndDrag()
	assert.False(t, e.Dragging())

	e.DragTo(Point{X: 200, Y: 200})
	assert.Equal(t, layout.Slot{ID: 1, X: 560, Y: 0}, e.Slots()[0], "moves after EndDrag are ignored")
}

func TestDrag_SingleActiveDrag(t *testing.T) {
	e := New(Inputs{Capacity: 4, Structure: layout.OpenAir}, layout.DefaultGeometry())

	require.NoError(t, e.BeginDrag(0, Point{}))
	assert.ErrorIs(t, e.BeginDrag(1, Point{}), ErrDragInProgress)
	e.EndDrag()
	assert.NoError(t, e.BeginDrag(1, Point{}))
	e.EndDrag()

	assert.ErrorIs(t, e.BeginDrag(99, Point{}), ErrNoSuchSlot)
}

func TestSwitchFloor_RoundTrip(t *testing.T) {
	e := New(enclosed(6, 2, false), layout.DefaultGeometry())
	require.Equal(t, 0, e.CurrentFloor())

	require.NoError(t, e.BeginDrag(1, Point{}))
	e.DragTo(Point{X: 123, Y: 45})
	e.EndDrag()
	e.SelectSlot(2)
	e.SelectSlot(1)
	edited := e.Slots()
	selected := e.SelectedSlots()

	require.NoError(t, e.SwitchFloor(1))
	assert.Equal(t, 4, e.Slots()[0].ID)
	assert.Empty(t, e.SelectedSlots())
	e.SelectSlot(5)

	require.NoError(t, e.SwitchFloor(0))
	assert.Equal(t, edited, e.Slots())
	assert.Equal(t, selected, e.SelectedSlots())

	require.NoError(t, e.SwitchFloor(1))
	assert.Equal(t, []int{5}, e.SelectedSlots())

	assert.ErrorIs(t, e.SwitchFloor(7), ErrNoSuchFloor)
}

func TestSnapshot_IncludesUnsavedEditsOfCurrentFloor(t *testing.T) {
	e := New(enclosed(4, 2, false), layout.DefaultGeometry())
	require.NoError(t, e.BeginDrag(0, Point{}))
	e.DragTo(Point{X: 77, Y: 88})
	e.EndDrag()

	m := e.Snapshot()
	f, ok := m.Floor(0)
	require.True(t, ok)
	assert.Equal(t, layout.Slot{ID: 1, X: 77, Y: 88}, f.Slots[0])
	assert.NoError(t, m.Validate(4))
}

func TestUpdateInputs_InvalidatesLayout(t *testing.T) {
	e := New(Inputs{Capacity: 4, Structure: layout.OpenAir}, layout.DefaultGeometry())
	e.MarkSaved()
	require.True(t, e.Saved())

	e.UpdateInputs(Inputs{Capacity: 4, Structure: layout.OpenAir})
	assert.False(t, e.Stale(), "same inputs keep the layout")
	assert.True(t, e.Saved())

	e.UpdateInputs(Inputs{Capacity: 6, Structure: layout.OpenAir})
	assert.True(t, e.Stale())
	assert.False(t, e.Saved())
	assert.Empty(t, e.Slots())
	assert.False(t, e.Snapshot().HasContent())
	assert.ErrorIs(t, e.BeginDrag(0, Point{}), ErrStale)

	e.MarkSaved()
	assert.False(t, e.Saved(), "stale layouts cannot be marked saved")

	e.Regenerate()
	assert.False(t, e.Stale())
	assert.Len(t, e.Slots(), 6)
	assert.Equal(t, 6, e.Snapshot().SlotCount())
}

func TestUpdateInputs_RevertRestoresLayout(t *testing.T) {
	e := New(enclosed(6, 2, false), layout.DefaultGeometry())
	e.SelectSlot(2)
	before := e.Snapshot()

	e.UpdateInputs(enclosed(8, 2, false))
	require.True(t, e.Stale())

	e.UpdateInputs(enclosed(6, 2, false))
	assert.False(t, e.Stale())
	assert.False(t, e.Saved())
	assert.Equal(t, before, e.Snapshot())
	require.NoError(t, e.BeginDrag(0, Point{}))
	e.EndDrag()
}

func TestLoadOutdated_StaysStaleUntilRegenerate(t *testing.T) {
	in := enclosed(10, 2, false)
	e := LoadOutdated(in, layout.DefaultGeometry())

	assert.True(t, e.Stale())
	assert.False(t, e.Saved())
	assert.Equal(t, []int{0, 1}, e.Levels())
	assert.Empty(t, e.Slots())
	assert.False(t, e.Snapshot().HasContent())

	e.UpdateInputs(enclosed(12, 2, false))
	e.UpdateInputs(in)
	assert.True(t, e.Stale(), "nothing to restore")

	e.Regenerate()
	assert.False(t, e.Stale())
	assert.Equal(t, 10, e.Snapshot().SlotCount())
}

func TestUpdateInputs_StructureChangeRederivesLevels(t *testing.T) {
	e := New(Inputs{Capacity: 4, Structure: layout.OpenAir}, layout.DefaultGeometry())
	e.UpdateInputs(enclosed(4, 2, true))
	require.True(t, e.Stale())

	e.Regenerate()
	assert.Equal(t, []int{-1, 0, 1}, e.Levels())
	assert.Equal(t, -1, e.CurrentFloor())
}

func TestLoad_StoredLayoutIsSaved(t *testing.T) {
	g := layout.DefaultGeometry()
	m := layout.GenerateDefaultPositions(5, []int{-1, 0}, g)
	m.Floors[1].SelectedSlots = []int{4}

	e := Load(enclosed(5, 1, true), m, g)
	assert.True(t, e.Saved())
	assert.Equal(t, -1, e.CurrentFloor())
	assert.Equal(t, m, e.Snapshot())

	level, ok := e.FloorOf(5)
	assert.True(t, ok)
	assert.Equal(t, 0, level)

	require.NoError(t, e.SwitchFloor(0))
	assert.True(t, e.IsSelected(4))
}

func TestLoad_AddsMissingLevelsEmpty(t *testing.T) {
	g := layout.DefaultGeometry()
	m := layout.GenerateDefaultPositions(3, []int{0}, g)

	e := Load(enclosed(3, 2, false), m, g)
	assert.Equal(t, []int{0, 1}, e.Levels())
	snap := e.Snapshot()
	require.Len(t, snap.Floors, 2)
	assert.Empty(t, snap.Floors[1].Slots)
}
