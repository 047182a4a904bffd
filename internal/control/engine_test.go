package control

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nonagonengine/internal/gridmodel"
	"nonagonengine/internal/modtree"
	"nonagonengine/internal/msgbus"
)

func TestTickDispatchesDueMessageToRoutedGrid(t *testing.T) {
	e := NewEngine()
	grid := gridmodel.NewGrid(e.Bus, 0)
	e.Grids[0] = grid

	cell := &countingCell{}
	grid.Put(0, 0, cell)

	e.Messages.Push(msgbus.MessageIn{Timestamp: 5, Mode: msgbus.PadPress, X: 0, Y: 0, Amount: 100})

	e.Tick(5, 0.016, func(msgbus.MessageIn) (int, bool) { return 0, true })
	require.Equal(t, 1, cell.presses)
}

func TestTickSkipsNotYetDueMessage(t *testing.T) {
	e := NewEngine()
	grid := gridmodel.NewGrid(e.Bus, 0)
	e.Grids[0] = grid
	cell := &countingCell{}
	grid.Put(0, 0, cell)

	e.Messages.Push(msgbus.MessageIn{Timestamp: 100, Mode: msgbus.PadPress, X: 0, Y: 0})
	e.Tick(5, 0.016, func(msgbus.MessageIn) (int, bool) { return 0, true })
	require.Equal(t, 0, cell.presses)
}

func TestTickFeedsLiveArpOutputIntoModulationTree(t *testing.T) {
	e := NewEngine()

	root := modtree.NewNode(0, 1, false)
	mod := modtree.NewNode(0, 1, false)
	mod.Values[0][0] = 1.0 // full depth
	mod.ForceUpdate = true
	root.AddModulator(mod)
	root.ModulatorsAffecting[mod.Slot] = true
	root.ForceUpdate = true
	e.ModRoots = []*modtree.Node{root}

	e.Arps.Trios[0].RhythmLen[0] = 1
	e.Arps.Trios[0].Rhythm[0][0] = true
	e.Arps.Trios[0].ZoneHeight[0] = 1
	e.Arps.Trios[0].Offset[0] = 0.5
	e.Arps.Clocks[0] = true

	e.Tick(0, 0.016, func(msgbus.MessageIn) (int, bool) { return 0, false })

	require.NotEqual(t, 0.0, e.ModValues.Output[0])
	require.InDelta(t, e.ModValues.Output[0], root.Output[0][0], 1e-9)
}

type countingCell struct {
	gridmodel.BaseCell
	presses int
}

func (c *countingCell) OnPress(uint8) { c.presses++ }
