// Package gridmodel implements the cell/grid composition model (§4.5,
// §4.6): per-cell press/release dispatch, composite/menu/switcher grids,
// and fader/encoder base cells, ported from private/src/SmartGrid.hpp
// and private/src/GridJnct.hpp.
package gridmodel

import "nonagonengine/internal/color"

// Cell is the pressable/colorable unit a Grid dispatches Messages to.
// Base exposes the embedded BaseCell so Grid.Apply can gate OnPress/
// OnRelease/OnPressureChange the way Cell::OnPressStatic does in the
// original without every concrete cell re-implementing the gating.
type Cell interface {
	GetColor() color.Color
	OnPress(velocity uint8)
	OnRelease()
	OnPressureChange(velocity uint8)
	IsPressed() bool
	IsPressureSensitive() bool
	Base() *BaseCell
}

// BaseCell implements the press/release state machine every concrete
// cell embeds, matching Cell::OnPressStatic/OnReleaseStatic/
// OnPressureChangeStatic.
type BaseCell struct {
	PressureSensitive bool
	velocity          uint8
}

func (c *BaseCell) IsPressed() bool          { return c.velocity > 0 }
func (c *BaseCell) IsPressureSensitive() bool { return c.PressureSensitive }
func (c *BaseCell) GetColor() color.Color    { return color.Off }
func (c *BaseCell) OnPress(uint8)            {}
func (c *BaseCell) OnRelease()               {}
func (c *BaseCell) OnPressureChange(uint8)   {}
func (c *BaseCell) Base() *BaseCell          { return c }

// OnPressStatic is called by grid dispatch with a nonzero velocity; it
// fires OnPress only on the rising edge, or OnPressureChange on repeat
// if the cell is pressure sensitive.
func OnPressStatic(c Cell, base *BaseCell, velocity uint8) {
	if !base.IsPressed() {
		base.velocity = velocity
		c.OnPress(velocity)
	} else if base.PressureSensitive {
		base.velocity = velocity
		c.OnPressureChange(velocity)
	}
}

// OnReleaseStatic fires OnRelease only if the cell was pressed.
func OnReleaseStatic(c Cell, base *BaseCell) {
	if base.IsPressed() {
		base.velocity = 0
		c.OnRelease()
	}
}
