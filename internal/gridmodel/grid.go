package gridmodel

import (
	"nonagonengine/internal/bus"
	"nonagonengine/internal/color"
	"nonagonengine/internal/coord"
)

// AbstractGrid is anything that can dispatch a Message and answer a
// color query; it owns an allocated bus grid id for the duration of its
// life.
type AbstractGrid interface {
	Apply(msg Message)
	GetColor(x, y int) color.Color
	Process(dt float64)
}

// GridBase provides the bus wiring (OutputToBus/ApplyFromBus) every
// concrete grid embeds, matching AbstractGrid in the original.
type GridBase struct {
	Holder       *bus.Holder
	GridID       int
	inputEpoch   uint64
	timeToNextIO float64
}

const busIOInterval = 0.05

// NewGridBase allocates nothing itself; callers obtain GridID from a
// bus.Registry and pass it in, since Go has no destructor to free it
// automatically.
func NewGridBase(holder *bus.Holder, gridID int) GridBase {
	return GridBase{Holder: holder, GridID: gridID, timeToNextIO: -1}
}

// OutputToBus writes every cell's rendered color onto the bus, and
// ApplyFromBus drains queued velocities from the bus into Apply calls —
// the pair that lets one grid's composition live behind another's
// switcher.
func OutputToBus(g AbstractGrid, base *GridBase) {
	if base.Holder == nil {
		return
	}
	for x := coord.MinX; x <= coord.MaxX; x++ {
		for y := coord.MinY; y <= coord.MaxY; y++ {
			base.Holder.PutColor(base.GridID, x, y, g.GetColor(x, y))
		}
	}
}

func ApplyFromBus(g AbstractGrid, base *GridBase) {
	if base.Holder == nil {
		return
	}
	cells, err := base.Holder.IterateVelocities(base.GridID, &base.inputEpoch)
	if err != nil {
		return
	}
	for _, c := range cells {
		g.Apply(NoteMessage(c.X, c.Y, c.Velocity))
	}
}

// ProcessTick runs g.Process(dt) then, at a fixed interval, pumps the
// bus both ways — matching AbstractGrid::ProcessStatic's batching of
// bus I/O rather than doing it every frame.
func ProcessTick(g AbstractGrid, base *GridBase, dt float64) {
	g.Process(dt)
	base.timeToNextIO -= dt
	if base.timeToNextIO <= 0 {
		base.timeToNextIO = busIOInterval
		ApplyFromBus(g, base)
		OutputToBus(g, base)
	}
}

// AllOff sweeps a release message across every virtual coordinate,
// used when switching pages to avoid stuck notes (§4.5).
func AllOff(g AbstractGrid) {
	for x := coord.MinX; x <= coord.MaxX; x++ {
		for y := coord.MinY; y <= coord.MaxY; y++ {
			g.Apply(Off(x, y))
		}
	}
}

// Grid is a dense array of cells addressed by virtual coordinate.
type Grid struct {
	GridBase
	cells [coord.MaxX - coord.MinX + 1][coord.MaxY - coord.MinY + 1]Cell
}

// NewGrid builds an empty grid.
func NewGrid(holder *bus.Holder, gridID int) *Grid {
	return &Grid{GridBase: NewGridBase(holder, gridID)}
}

func (g *Grid) index(x, y int) (int, int) { return x - coord.MinX, y - coord.MinY }

// Get returns the cell at (x,y), or nil.
func (g *Grid) Get(x, y int) Cell {
	i, j := g.index(x, y)
	return g.cells[i][j]
}

// Put installs a cell at (x,y), replacing any existing one.
func (g *Grid) Put(x, y int, c Cell) {
	i, j := g.index(x, y)
	g.cells[i][j] = c
}

// GetColor reports the cell's color at (x,y), or Off if empty.
func (g *Grid) GetColor(x, y int) color.Color {
	if c := g.Get(x, y); c != nil {
		return c.GetColor()
	}
	return color.Off
}

// Apply dispatches a note message: zero velocity releases (only if
// pressed), nonzero velocity presses (only if not pressed, else a
// pressure-change when pressure sensitive) — see cell.go's
// OnPressStatic/OnReleaseStatic.
func (g *Grid) Apply(msg Message) {
	if msg.Mode != ModeNote {
		return
	}
	c := g.Get(msg.X, msg.Y)
	if c == nil {
		return
	}
	if msg.Velocity == 0 {
		OnReleaseStatic(c, c.Base())
	} else {
		OnPressStatic(c, c.Base(), msg.Velocity)
	}
}

func (g *Grid) Process(dt float64) {}

// CompositeGrid overlays child grids at (x,y) offsets, copying each
// child's non-empty cells into the shared backing array.
type CompositeGrid struct {
	*Grid
	children []*Grid
}

// NewCompositeGrid builds an empty composite on top of holder/gridID.
func NewCompositeGrid(holder *bus.Holder, gridID int) *CompositeGrid {
	return &CompositeGrid{Grid: NewGrid(holder, gridID)}
}

// AddGrid copies child's occupied cells into the composite at the given
// offset.
func (cg *CompositeGrid) AddGrid(xOff, yOff int, child *Grid) {
	cg.children = append(cg.children, child)
	for x := coord.MinX; x <= coord.MaxX; x++ {
		for y := coord.MinY; y <= coord.MaxY; y++ {
			if c := child.Get(x, y); c != nil {
				tx, ty := x+xOff, y+yOff
				if coord.InBounds(tx, ty) {
					cg.Put(tx, ty, c)
				}
			}
		}
	}
}

// Process advances every child grid's own bus pump.
func (cg *CompositeGrid) Process(dt float64) {
	for _, child := range cg.children {
		ProcessTick(child, &child.GridBase, dt)
	}
}
