package gridmodel

import (
	"nonagonengine/internal/bus"
	"nonagonengine/internal/color"
	"nonagonengine/internal/coord"
)

// RowPos names one of the five menu border rows (§4.5).
type RowPos int

const (
	RowTop RowPos = iota
	RowRight
	RowLeft
	RowBottom
	RowSubBottom
	numMenuRows
)

// MenuMode is a MenuButton's behavior.
type MenuMode int

const (
	MenuModeGrid MenuMode = iota
	MenuModeMomentary
	MenuModeToggle
)

// MenuButton either selects an interior grid id on the bus, or drives a
// momentary/toggle gate output, matching GridJnct.hpp's MenuButton.
type MenuButton struct {
	BaseCell
	owner   *MenuGrid
	absPos  int
	Mode    MenuMode
	GridID  int // bus.MaxGridIDs means "none"
	HasGrid bool
	GateOut bool
	Color   color.Color
}

func newMenuButton(owner *MenuGrid, absPos int) *MenuButton {
	return &MenuButton{owner: owner, absPos: absPos, GridID: bus.MaxGridIDs, Color: color.Off}
}

func (b *MenuButton) isSelected() bool { return b.owner.selectedAbsPos == b.absPos }

// GetColor shows the grid id's on/off bus color while in grid mode with
// an assigned id, a dimmed/lit white gate otherwise.
func (b *MenuButton) GetColor() color.Color {
	if b.Mode == MenuModeGrid {
		if b.HasGrid && b.GridID != bus.MaxGridIDs {
			if b.isSelected() {
				c, _ := b.owner.Holder.GetOnColor(b.GridID)
				return c
			}
			c, _ := b.owner.Holder.GetOffColor(b.GridID)
			return c
		}
		if b.GateOut {
			return color.White
		}
		return color.White.Dim()
	}
	if b.GateOut {
		return b.Color
	}
	return color.White.Dim()
}

// OnPress either selects this button's assigned grid id or toggles the
// gate, per mode.
func (b *MenuButton) OnPress(uint8) {
	if b.Mode == MenuModeGrid {
		if b.HasGrid && b.GridID != bus.MaxGridIDs {
			b.owner.Select(b)
			b.GateOut = true
		}
		return
	}
	if !b.GateOut || b.Mode == MenuModeMomentary {
		b.GateOut = true
	} else {
		b.GateOut = false
	}
}

// OnRelease drops the gate for momentary buttons.
func (b *MenuButton) OnRelease() {
	if b.Mode == MenuModeMomentary {
		b.GateOut = false
	}
}

// MenuGrid is the fixed border of menu cells surrounding an interior
// grid, with at most one selected button at a time.
type MenuGrid struct {
	GridBase
	rows           [numMenuRows]map[int]Cell
	buttons        [numMenuRows]map[int]*MenuButton
	selectedAbsPos int
}

const invalidAbsPos = -1

// NewMenuGrid builds an empty border grid.
func NewMenuGrid(holder *bus.Holder, gridID int) *MenuGrid {
	g := &MenuGrid{GridBase: NewGridBase(holder, gridID), selectedAbsPos: invalidAbsPos}
	for i := range g.rows {
		g.rows[i] = map[int]Cell{}
		g.buttons[i] = map[int]*MenuButton{}
	}
	return g
}

func (g *MenuGrid) absPos(pos RowPos, ix int) int { return int(pos)*1000 + ix }

// AddMenuButton populates row pos, index ix with a fresh MenuButton.
func (g *MenuGrid) AddMenuButton(pos RowPos, ix int) *MenuButton {
	b := newMenuButton(g, g.absPos(pos, ix))
	g.rows[pos][ix] = b
	g.buttons[pos][ix] = b
	return b
}

// Put installs a non-menu-button cell at row pos, index ix (e.g. a
// static label or indicator).
func (g *MenuGrid) Put(pos RowPos, ix int, c Cell) {
	g.rows[pos][ix] = c
}

func rowPos(x, y int) (RowPos, int, bool) {
	switch {
	case y == coord.MinY:
		return RowTop, x, true
	case y == coord.MaxY-2:
		return RowBottom, x, true
	case y == coord.MaxY-1:
		return RowSubBottom, x, true
	case x == coord.MaxX:
		return RowRight, y, true
	case x == coord.MinX:
		return RowLeft, y, true
	default:
		return 0, 0, false
	}
}

// GetColor renders whichever row cell, if any, occupies (x,y).
func (g *MenuGrid) GetColor(x, y int) color.Color {
	pos, ix, ok := rowPos(x, y)
	if !ok {
		return color.Off
	}
	if c, ok := g.rows[pos][ix]; ok {
		return c.GetColor()
	}
	return color.Off
}

// Apply dispatches a note message to whichever border cell occupies
// (x,y).
func (g *MenuGrid) Apply(msg Message) {
	if msg.Mode != ModeNote {
		return
	}
	pos, ix, ok := rowPos(msg.X, msg.Y)
	if !ok {
		return
	}
	c, ok := g.rows[pos][ix]
	if !ok {
		return
	}
	if msg.Velocity == 0 {
		OnReleaseStatic(c, c.Base())
	} else {
		OnPressStatic(c, c.Base(), msg.Velocity)
	}
}

func (g *MenuGrid) Process(dt float64) {}

// Select makes b the sole selected menu button, clearing the gate of
// whichever button was previously selected.
func (g *MenuGrid) Select(b *MenuButton) {
	if prev := g.GetSelected(); prev != nil && prev != b {
		prev.GateOut = false
	}
	g.selectedAbsPos = b.absPos
}

// DeSelect clears the current selection entirely.
func (g *MenuGrid) DeSelect() {
	if prev := g.GetSelected(); prev != nil {
		prev.GateOut = false
	}
	g.selectedAbsPos = invalidAbsPos
}

// GetSelected returns the currently selected button, or nil.
func (g *MenuGrid) GetSelected() *MenuButton {
	if g.selectedAbsPos == invalidAbsPos {
		return nil
	}
	for _, row := range g.buttons {
		for _, b := range row {
			if b.absPos == g.selectedAbsPos {
				return b
			}
		}
	}
	return nil
}

// GetSelectedGridID returns the selected button's grid id, or
// bus.MaxGridIDs if none is selected.
func (g *MenuGrid) GetSelectedGridID() int {
	if b := g.GetSelected(); b != nil {
		return b.GridID
	}
	return bus.MaxGridIDs
}
