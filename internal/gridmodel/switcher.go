package gridmodel

import (
	"nonagonengine/internal/bus"
	"nonagonengine/internal/color"
)

// Switcher forwards messages to the bus grid id chosen by its menu
// layer, and renders the menu layer over whatever the selected child is
// outputting on the bus (§4.5).
type Switcher struct {
	GridBase
	Menu       *MenuGrid
	lastGridID int
}

// NewSwitcher wraps a menu grid; the switcher's own bus I/O is unused —
// it reads/writes the *selected* child's bus slot instead.
func NewSwitcher(holder *bus.Holder, gridID int, menu *MenuGrid) *Switcher {
	return &Switcher{GridBase: NewGridBase(holder, gridID), Menu: menu, lastGridID: bus.MaxGridIDs}
}

// Apply forwards the message to the menu layer first (so menu button
// presses are handled), then writes the velocity onto the selected
// child's bus input plane.
func (s *Switcher) Apply(msg Message) {
	s.Menu.Apply(msg)
	gridID := s.Menu.GetSelectedGridID()
	if gridID != bus.MaxGridIDs && msg.Mode == ModeNote {
		s.Holder.PutVelocity(gridID, msg.X, msg.Y, msg.Velocity)
	}
}

// GetColor prefers the menu layer's color; falling through to the
// selected child's bus output when the menu layer is dark at (x,y).
func (s *Switcher) GetColor(x, y int) color.Color {
	c := s.Menu.GetColor(x, y)
	if !c.Equal(color.Off) {
		return c
	}
	gridID := s.Menu.GetSelectedGridID()
	if gridID == bus.MaxGridIDs {
		return color.Off
	}
	out, err := s.Holder.GetColor(gridID, x, y)
	if err != nil {
		return color.Off
	}
	return out
}

// Process advances the menu layer and, on a selection change, sweeps
// the previously-selected child's input plane to avoid stuck notes.
func (s *Switcher) Process(dt float64) {
	ProcessTick(s.Menu, &s.Menu.GridBase, dt)

	current := s.Menu.GetSelectedGridID()
	if s.lastGridID != current {
		if s.lastGridID != bus.MaxGridIDs {
			s.Holder.ClearVelocities(s.lastGridID)
		}
		s.lastGridID = current
	}
}
