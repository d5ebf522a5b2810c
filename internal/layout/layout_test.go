package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLevels(t *testing.T) {
	tests := []struct {
		name        string
		structure   Structure
		floors      int
		hasBasement bool
		want        []int
	}{
		{"open air ignores floors", OpenAir, 4, true, []int{0}},
		{"enclosed single floor", Enclosed, 1, false, []int{0}},
		{"enclosed with basement", Enclosed, 3, true, []int{-1, 0, 1, 2}},
		{"enclosed zero floors keeps ground", Enclosed, 0, false, []int{0}},
		{"unknown structure behaves as open air", Structure("x"), 2, true, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveLevels(tt.structure, tt.floors, tt.hasBasement))
		})
	}
}

func TestGenerateDefaultPositions_SingleFloor(t *testing.T) {
	g := DefaultGeometry()
	for n := 1; n <= 60; n++ {
		m := GenerateDefaultPositions(n, []int{0}, g)
		require.Len(t, m.Floors, 1)
		slots := m.Floors[0].Slots
		require.Len(t, slots, n)

		seen := map[int]bool{}
		for _, s := range slots {
			assert.False(t, seen[s.ID], "duplicate id %d", s.ID)
			seen[s.ID] = true
			assert.True(t, s.ID >= 1 && s.ID <= n)
			assert.True(t, g.Contains(s.X, s.Y), "slot %d at (%v,%v)", s.ID, s.X, s.Y)
		}
		assert.NoError(t, m.Validate(n))
	}
}

func TestGenerateDefaultPositions_Grid(t *testing.T) {
	g := Geometry{CanvasSize: 600, SlotSize: 40}
	m := GenerateDefaultPositions(5, []int{0}, g)
	slots := m.Floors[0].Slots

	// 3 columns, spacing 280
	assert.Equal(t, Slot{ID: 1, X: 0, Y: 0}, slots[0])
	assert.Equal(t, Slot{ID: 2, X: 280, Y: 0}, slots[1])
	assert.Equal(t, Slot{ID: 3, X: 560, Y: 0}, slots[2])
	assert.Equal(t, Slot{ID: 4, X: 0, Y: 280}, slots[3])
	assert.Equal(t, Slot{ID: 5, X: 280, Y: 280}, slots[4])
}

func TestGenerateDefaultPositions_MultiFloor(t *testing.T) {
	g := DefaultGeometry()
	levels := []int{-1, 0, 1}
	m := GenerateDefaultPositions(10, levels, g)

	require.Len(t, m.Floors, 3)
	assert.Equal(t, levels, m.Levels())
	assert.Len(t, m.Floors[0].Slots, 4)
	assert.Len(t, m.Floors[1].Slots, 3)
	assert.Len(t, m.Floors[2].Slots, 3)

	assert.Equal(t, 1, m.Floors[0].Slots[0].ID)
	assert.Equal(t, 5, m.Floors[1].Slots[0].ID)
	assert.Equal(t, 8, m.Floors[2].Slots[0].ID)
	assert.Equal(t, 10, m.SlotCount())
	assert.NoError(t, m.Validate(10))
}

func TestGenerateDefaultPositions_DistributionSums(t *testing.T) {
	g := DefaultGeometry()
	for levelsN := 2; levelsN <= 5; levelsN++ {
		levels := make([]int, levelsN)
		for i := range levels {
			levels[i] = i
		}
		for n := 0; n <= 37; n++ {
			m := GenerateDefaultPositions(n, levels, g)
			assert.Equal(t, n, m.SlotCount())
			assert.NoError(t, m.Validate(0))
		}
	}
}

func TestGenerateDefaultPositions_KeepsEmptyFloors(t *testing.T) {
	m := GenerateDefaultPositions(1, []int{-1, 0, 1}, DefaultGeometry())
	require.Len(t, m.Floors, 3)
	assert.Len(t, m.Floors[0].Slots, 1)
	assert.Empty(t, m.Floors[1].Slots)
	assert.Empty(t, m.Floors[2].Slots)
	assert.True(t, m.HasContent())
}

func TestGeometryClamp(t *testing.T) {
	g := Geometry{CanvasSize: 600, SlotSize: 40}
	x, y := g.Clamp(-15, 900)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 560.0, y)

	x, y = g.Clamp(100, 200)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 200.0, y)
}

func TestMapJSON_SingleFloorShape(t *testing.T) {
	m := GenerateDefaultPositions(4, []int{0}, DefaultGeometry())
	m.Floors[0].SelectedSlots = []int{2}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "slots")
	assert.Contains(t, raw, "selectedSlots")
	assert.NotContains(t, raw, "floors")

	var back Map
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}

func TestMapJSON_MultiFloorShape(t *testing.T) {
	m := GenerateDefaultPositions(3, []int{-1, 0, 1, 2}, DefaultGeometry())

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "floors")

	var back Map
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.Floors, 4)
	assert.Empty(t, back.Floors[3].Slots)
	assert.NotNil(t, back.Floors[3].Slots)
	assert.Equal(t, m, back)
}

func TestMapValidate(t *testing.T) {
	g := DefaultGeometry()
	base := func() Map { return GenerateDefaultPositions(3, []int{0}, g) }

	m := base()
	assert.NoError(t, m.Validate(3))
	assert.ErrorIs(t, m.Validate(4), ErrInvalidLayout)

	m = base()
	m.Floors[0].Slots[1].ID = 1
	assert.ErrorIs(t, m.Validate(0), ErrInvalidLayout)

	m = base()
	m.Floors[0].Slots[0].X = g.CanvasSize
	assert.ErrorIs(t, m.Validate(0), ErrInvalidLayout)
}

func TestMapHasContent(t *testing.T) {
	assert.False(t, Map{}.HasContent())
	assert.False(t, GenerateDefaultPositions(0, []int{0, 1}, DefaultGeometry()).HasContent())
	assert.True(t, GenerateDefaultPositions(2, []int{0, 1}, DefaultGeometry()).HasContent())
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "Sótano", LevelName(-1))
	assert.Equal(t, "Planta baja", LevelName(0))
	assert.Equal(t, "Piso 2", LevelName(2))
}
