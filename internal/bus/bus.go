// Package bus implements the shared color/velocity bus (§4.4), ported
// from private/src/SmartBus.hpp: one velocity plane and one color plane
// per grid id, each cell mutated only through an atomic exchange, with
// an epoch counter that lets an idle reader skip a full scan.
package bus

import (
	"sync/atomic"

	"nonagonengine/internal/color"
	"nonagonengine/internal/coord"
	"nonagonengine/internal/engineerr"
)

// MaxGridIDs is the size of the engine-global grid id registry (§6).
const MaxGridIDs = 128

const (
	planeWidth  = coord.MaxX - coord.MinX + 1
	planeHeight = coord.MaxY - coord.MinY + 1
	planeCells  = planeWidth * planeHeight
)

func planeIndex(x, y int) int {
	return (x - coord.MinX) + (y-coord.MinY)*planeWidth
}

// colorPlane is one (x,y) -> Color atomic plane, with an epoch counter
// incremented whenever any Put call observes a change.
type colorPlane struct {
	epoch atomic.Uint64
	cells [planeCells]atomic.Uint32
}

func (p *colorPlane) put(x, y int, c color.Color) bool {
	old := p.cells[planeIndex(x, y)].Swap(c.Pack32())
	return old != c.Pack32()
}

func (p *colorPlane) get(x, y int) color.Color {
	return unpack32(p.cells[planeIndex(x, y)].Load())
}

func unpack32(v uint32) color.Color {
	return color.Color{
		R:      uint8(v >> 24),
		G:      uint8(v >> 16),
		B:      uint8(v >> 8),
		Unused: uint8(v),
	}
}

// velocityPlane is one (x,y) -> uint8 atomic plane.
type velocityPlane struct {
	epoch atomic.Uint64
	cells [planeCells]atomic.Uint32
}

func (p *velocityPlane) put(x, y int, v uint8) bool {
	old := p.cells[planeIndex(x, y)].Swap(uint32(v))
	return old != uint32(v)
}

func (p *velocityPlane) get(x, y int) uint8 {
	return uint8(p.cells[planeIndex(x, y)].Load())
}

// VelocityCell is one (x,y, payload) tuple as produced by iteration.
type VelocityCell struct {
	X, Y     int
	Velocity uint8
}

type ColorCell struct {
	X, Y  int
	Color color.Color
}

// grid is one gridId's input (velocity) and output (color) plane pair,
// plus the on/off colors set by menu-selection cells.
type grid struct {
	input    velocityPlane
	output   colorPlane
	onColor  atomic.Uint32
	offColor atomic.Uint32
}

// Holder owns MaxGridIDs independent buses, matching SmartBusHolder.
type Holder struct {
	grids [MaxGridIDs]*grid
}

// NewHolder allocates all grid slots eagerly; grid ids are handed out by
// Registry.Allocate/Release in gridid.go.
func NewHolder() *Holder {
	h := &Holder{}
	for i := range h.grids {
		h.grids[i] = &grid{}
	}
	return h
}

func (h *Holder) get(gridID int) (*grid, error) {
	if gridID < 0 || gridID >= MaxGridIDs {
		return nil, engineerr.ErrGridIDExhausted
	}
	return h.grids[gridID], nil
}

// PutVelocity stores v at (x,y) on gridID's input plane and bumps the
// epoch iff the value changed.
func (h *Holder) PutVelocity(gridID, x, y int, v uint8) error {
	g, err := h.get(gridID)
	if err != nil {
		return err
	}
	if g.input.put(x, y, v) {
		g.input.epoch.Add(1)
	}
	return nil
}

// PutColor stores c at (x,y) on gridID's output plane and bumps the
// epoch iff the color changed.
func (h *Holder) PutColor(gridID, x, y int, c color.Color) error {
	g, err := h.get(gridID)
	if err != nil {
		return err
	}
	if g.output.put(x, y, c) {
		g.output.epoch.Add(1)
	}
	return nil
}

// GetColor reads gridID's output plane at (x,y).
func (h *Holder) GetColor(gridID, x, y int) (color.Color, error) {
	g, err := h.get(gridID)
	if err != nil {
		return color.Color{}, err
	}
	return g.output.get(x, y), nil
}

// GetVelocity reads gridID's input plane at (x,y).
func (h *Holder) GetVelocity(gridID, x, y int) (uint8, error) {
	g, err := h.get(gridID)
	if err != nil {
		return 0, err
	}
	return g.input.get(x, y), nil
}

// SetOnColor/SetOffColor/GetOnColor/GetOffColor back the menu-selection
// highlight colors a grid switcher reads when rendering its button row.
func (h *Holder) SetOnColor(gridID int, c color.Color) error {
	g, err := h.get(gridID)
	if err != nil {
		return err
	}
	g.onColor.Store(c.Pack32())
	return nil
}

func (h *Holder) SetOffColor(gridID int, c color.Color) error {
	g, err := h.get(gridID)
	if err != nil {
		return err
	}
	g.offColor.Store(c.Pack32())
	return nil
}

func (h *Holder) GetOnColor(gridID int) (color.Color, error) {
	g, err := h.get(gridID)
	if err != nil {
		return color.Color{}, err
	}
	return unpack32(g.onColor.Load()), nil
}

func (h *Holder) GetOffColor(gridID int) (color.Color, error) {
	g, err := h.get(gridID)
	if err != nil {
		return color.Color{}, err
	}
	return unpack32(g.offColor.Load()), nil
}

// ClearVelocities zeroes every cell of gridID's input plane.
func (h *Holder) ClearVelocities(gridID int) error {
	g, err := h.get(gridID)
	if err != nil {
		return err
	}
	changed := false
	for x := coord.MinX; x <= coord.MaxX; x++ {
		for y := coord.MinY; y <= coord.MaxY; y++ {
			if g.input.put(x, y, 0) {
				changed = true
			}
		}
	}
	if changed {
		g.input.epoch.Add(1)
	}
	return nil
}

// IterateVelocities visits every cell of gridID's input plane iff the
// epoch has advanced since the caller's last snapshot, updating
// *epoch in place; it returns an empty slice (not an error) when
// nothing has changed, matching the original's "idle scan is free"
// invariant.
func (h *Holder) IterateVelocities(gridID int, epoch *uint64) ([]VelocityCell, error) {
	g, err := h.get(gridID)
	if err != nil {
		return nil, err
	}
	current := g.input.epoch.Load()
	if current == *epoch {
		return nil, nil
	}
	*epoch = current

	out := make([]VelocityCell, 0, planeCells)
	for x := coord.MinX; x <= coord.MaxX; x++ {
		for y := coord.MinY; y <= coord.MaxY; y++ {
			out = append(out, VelocityCell{X: x, Y: y, Velocity: g.input.get(x, y)})
		}
	}
	return out, nil
}

// IterateColors is IterateVelocities' output-plane counterpart.
func (h *Holder) IterateColors(gridID int, epoch *uint64) ([]ColorCell, error) {
	g, err := h.get(gridID)
	if err != nil {
		return nil, err
	}
	current := g.output.epoch.Load()
	if current == *epoch {
		return nil, nil
	}
	*epoch = current

	out := make([]ColorCell, 0, planeCells)
	for x := coord.MinX; x <= coord.MaxX; x++ {
		for y := coord.MinY; y <= coord.MaxY; y++ {
			out = append(out, ColorCell{X: x, Y: y, Color: g.output.get(x, y)})
		}
	}
	return out, nil
}

// ForwardVelocity copies every cell of src's input plane onto dst's
// input plane whenever src's epoch has advanced past *epoch (nothing
// otherwise), advancing *epoch.
func (h *Holder) ForwardVelocity(src, dst int, epoch *uint64) error {
	cells, err := h.IterateVelocities(src, epoch)
	if err != nil {
		return err
	}
	for _, c := range cells {
		if err := h.PutVelocity(dst, c.X, c.Y, c.Velocity); err != nil {
			return err
		}
	}
	return nil
}
