package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"findmyspace/internal/cache"
	"findmyspace/internal/editor"

	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect and edit the slot layout of a space",
}

var layoutShowCmd = &cobra.Command{
	Use:   "show <space-id>",
	Short: "Print every floor of the layout with slot occupancy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLayout(cmd.Context(), args[0], false, func(ws *workspace, ed *editor.Editor) error {
			states, err := ws.store.Occupancy(cmd.Context(), ws.session.Key())
			if err != nil {
				return err
			}
			printLayout(os.Stdout, ed, states)
			return nil
		})
	},
}

var layoutMoveCmd = &cobra.Command{
	Use:   "move <space-id> <slot> <x> <y>",
	Short: "Move a slot to a canvas position",
	Long: `Move a slot to the given position on its floor. The position is the slot's
top-left corner and is clamped to the canvas.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid slot %q", args[1])
		}
		x, errX := strconv.ParseFloat(args[2], 64)
		y, errY := strconv.ParseFloat(args[3], 64)
		if errX != nil || errY != nil {
			return fmt.Errorf("invalid position %s,%s", args[2], args[3])
		}
		return withLayout(cmd.Context(), args[0], true, func(ws *workspace, ed *editor.Editor) error {
			if err := moveSlot(ed, slot, x, y); err != nil {
				return err
			}
			return ws.saveLayout(cmd.Context())
		})
	},
}

var layoutSelectCmd = &cobra.Command{
	Use:   "select <space-id> <slot>...",
	Short: "Toggle the selection of one or more slots",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slots := make([]int, 0, len(args)-1)
		for _, a := range args[1:] {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("invalid slot %q", a)
			}
			slots = append(slots, n)
		}
		return withLayout(cmd.Context(), args[0], true, func(ws *workspace, ed *editor.Editor) error {
			for _, n := range slots {
				if err := toggleSlot(ed, n); err != nil {
					return err
				}
			}
			return ws.saveLayout(cmd.Context())
		})
	},
}

var layoutRegenerateCmd = &cobra.Command{
	Use:   "regenerate <space-id>",
	Short: "Replace the layout with default grid positions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLayout(cmd.Context(), args[0], true, func(ws *workspace, ed *editor.Editor) error {
			ed.Regenerate()
			if err := ws.saveLayout(cmd.Context()); err != nil {
				return err
			}
			// slot numbers may now point at different positions
			return ws.store.ClearOccupancy(cmd.Context(), ws.session.Key())
		})
	},
}

func init() {
	layoutCmd.AddCommand(layoutShowCmd, layoutMoveCmd, layoutSelectCmd, layoutRegenerateCmd)
}

// withLayout loads a space into a fresh session and runs fn on its editor.
func withLayout(ctx context.Context, rawID string, needsLogin bool, fn func(*workspace, *editor.Editor) error) error {
	if needsLogin {
		if err := requireLogin(); err != nil {
			return err
		}
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()
	if _, err := ws.session.Load(ctx, id); err != nil {
		return err
	}
	return fn(ws, ws.session.Editor())
}

// moveSlot drags slot num from its top-left corner to (x, y).
func moveSlot(ed *editor.Editor, num int, x, y float64) error {
	if err := focusSlot(ed, num); err != nil {
		return err
	}
	idx, _ := ed.IndexOf(num)
	ed.SetCanvasOrigin(editor.Point{})
	if err := ed.BeginDrag(idx, editor.Point{}); err != nil {
		return err
	}
	defer ed.EndDrag()
	ed.DragTo(editor.Point{X: x, Y: y})
	return nil
}

func toggleSlot(ed *editor.Editor, num int) error {
	if err := focusSlot(ed, num); err != nil {
		return err
	}
	ed.SelectSlot(num)
	return nil
}

// focusSlot switches the editor to the floor holding slot num.
func focusSlot(ed *editor.Editor, num int) error {
	if ed.Stale() {
		return fmt.Errorf("%w: run `fmsctl layout regenerate`", editor.ErrStale)
	}
	level, ok := ed.FloorOf(num)
	if !ok {
		return fmt.Errorf("%w: %d", editor.ErrNoSuchSlot, num)
	}
	return ed.SwitchFloor(level)
}

var occupancyCmd = &cobra.Command{
	Use:   "occupancy",
	Short: "Annotate slots as libre, ocupado or reservado on this machine",
}

var occupancyCycleCmd = &cobra.Command{
	Use:   "cycle <space-id> <slot>",
	Short: "Advance a slot to its next occupancy state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid slot %q", args[1])
		}
		return withLayout(cmd.Context(), args[0], false, func(ws *workspace, ed *editor.Editor) error {
			if err := focusSlot(ed, slot); err != nil {
				return err
			}
			state, err := ws.store.CycleOccupancy(cmd.Context(), ws.session.Key(), slot)
			if err != nil {
				return err
			}
			fmt.Printf("Slot %d: %s\n", slot, state)
			return nil
		})
	},
}

var occupancyClearCmd = &cobra.Command{
	Use:   "clear <space-id>",
	Short: "Reset every slot of a space to libre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLayout(cmd.Context(), args[0], false, func(ws *workspace, _ *editor.Editor) error {
			return ws.store.ClearOccupancy(cmd.Context(), ws.session.Key())
		})
	},
}

var occupancySummaryCmd = &cobra.Command{
	Use:   "summary <space-id>",
	Short: "Count slots per occupancy state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLayout(cmd.Context(), args[0], false, func(ws *workspace, ed *editor.Editor) error {
			states, err := ws.store.Occupancy(cmd.Context(), ws.session.Key())
			if err != nil {
				return err
			}
			counts := countOccupancy(ed, states)
			for _, o := range []cache.Occupancy{cache.Free, cache.Occupied, cache.Reserved} {
				fmt.Printf("%-10s %d\n", o, counts[o])
			}
			return nil
		})
	},
}

func init() {
	occupancyCmd.AddCommand(occupancyCycleCmd, occupancyClearCmd, occupancySummaryCmd)
}

func countOccupancy(ed *editor.Editor, states map[int]cache.Occupancy) map[cache.Occupancy]int {
	counts := make(map[cache.Occupancy]int)
	for _, f := range ed.Snapshot().Floors {
		for _, s := range f.Slots {
			counts[cache.OccupancyOf(states, s.ID)]++
		}
	}
	return counts
}
