package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"findmyspace/internal/cache"
	"findmyspace/internal/editor"
	"findmyspace/internal/entities"
	"findmyspace/internal/layout"

	"gopkg.in/yaml.v3"
)

// readForm loads a space form from a YAML file. Keys follow the API field names.
func readForm(path string) (entities.SpaceRequest, error) {
	var form entities.SpaceRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return form, err
	}
	return parseForm(data)
}

func parseForm(data []byte) (entities.SpaceRequest, error) {
	var form entities.SpaceRequest
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return form, fmt.Errorf("parse form: %w", err)
	}
	// round-trip through JSON so the API's field names and layout shapes apply
	buf, err := json.Marshal(raw)
	if err != nil {
		return form, fmt.Errorf("parse form: %w", err)
	}
	if err := json.Unmarshal(buf, &form); err != nil {
		return form, fmt.Errorf("parse form: %w", err)
	}
	return form, nil
}

// printLayout writes every floor of the editor, one slot per line, with its occupancy.
func printLayout(w io.Writer, ed *editor.Editor, states map[int]cache.Occupancy) {
	if ed.Stale() {
		fmt.Fprintln(w, "Layout is out of date with the space's structure; run `fmsctl layout regenerate`.")
		return
	}
	snap := ed.Snapshot()
	for _, f := range snap.Floors {
		fmt.Fprintf(w, "%s (%d slots)\n", layout.LevelName(f.Level), len(f.Slots))
		slots := append([]layout.Slot(nil), f.Slots...)
		sort.Slice(slots, func(i, j int) bool { return slots[i].ID < slots[j].ID })
		for _, s := range slots {
			marker := " "
			if containsSlot(f.SelectedSlots, s.ID) {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %3d  x=%-6.1f y=%-6.1f %s\n", marker, s.ID, s.X, s.Y, cache.OccupancyOf(states, s.ID))
		}
	}
	if !ed.Saved() {
		fmt.Fprintln(w, "(unsaved changes)")
	}
}

func containsSlot(list []int, id int) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
