package gridmodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nonagonengine/internal/bus"
	"nonagonengine/internal/color"
)

type recordingCell struct {
	BaseCell
	pressed  int
	released int
}

func (c *recordingCell) OnPress(uint8) { c.pressed++ }
func (c *recordingCell) OnRelease()    { c.released++ }

func TestGridDispatchGatesPressAndRelease(t *testing.T) {
	g := NewGrid(nil, 0)
	c := &recordingCell{}
	g.Put(0, 0, c)

	g.Apply(NoteMessage(0, 0, 100))
	g.Apply(NoteMessage(0, 0, 100)) // repeat press while held: no pressure sensitivity, ignored
	require.Equal(t, 1, c.pressed)

	g.Apply(Off(0, 0))
	require.Equal(t, 1, c.released)

	g.Apply(Off(0, 0)) // release while not pressed: ignored
	require.Equal(t, 1, c.released)
}

func TestCompositeGridOffsetsChildCells(t *testing.T) {
	child := NewGrid(nil, 0)
	c := &recordingCell{}
	child.Put(0, 0, c)

	composite := NewCompositeGrid(nil, 0)
	composite.AddGrid(2, 3, child)

	require.Same(t, Cell(c), composite.Get(2, 3))
}

func TestMenuGridSelectionIsExclusive(t *testing.T) {
	holder := bus.NewHolder()
	menu := NewMenuGrid(holder, 0)
	a := menu.AddMenuButton(RowTop, 0)
	a.HasGrid, a.GridID = true, 1
	b := menu.AddMenuButton(RowTop, 1)
	b.HasGrid, b.GridID = true, 2

	menu.Apply(NoteMessage(0, -2, 100))
	require.True(t, a.GateOut)
	require.Same(t, a, menu.GetSelected())

	menu.Apply(NoteMessage(1, -2, 100))
	require.False(t, a.GateOut)
	require.True(t, b.GateOut)
	require.Same(t, b, menu.GetSelected())
}

func TestSwitcherForwardsToSelectedChildBus(t *testing.T) {
	holder := bus.NewHolder()
	menu := NewMenuGrid(holder, 0)
	btn := menu.AddMenuButton(RowTop, 0)
	btn.HasGrid, btn.GridID = true, 5

	sw := NewSwitcher(holder, 99, menu)
	sw.Apply(NoteMessage(0, -2, 100)) // select
	sw.Apply(NoteMessage(3, 3, 64))   // forwarded to grid 5

	v, err := holder.GetVelocity(5, 3, 3)
	require.NoError(t, err)
	require.Equal(t, uint8(64), v)
}

func TestFaderAbsoluteModeStartsIdleAtInitialValue(t *testing.T) {
	f := NewFader(8, color.Hues(color.White), 0, 1, 1, 100, true, FaderLinear, FaderAbsolute, 0)
	require.False(t, f.moving)
	require.Equal(t, 0.0, f.Value())
}

func TestEncoderAccelerationResetsOnDirectionFlip(t *testing.T) {
	val := &fakeEncoderValue{}
	e := NewEncoderCell(val)

	e.HandleIncDec(1000, 1)
	e.HandleIncDec(2000, 1) // 1ms later, same direction: speed doubles
	firstSpeed := e.lastSpeed

	e.HandleIncDec(2001, -1) // flip direction: resets to min speed
	require.Equal(t, encoderMinSpeed, e.lastSpeed)
	require.NotEqual(t, firstSpeed, e.lastSpeed)
}

type fakeEncoderValue struct {
	v float64
}

func (f *fakeEncoderValue) Normalized() float64     { return f.v }
func (f *fakeEncoderValue) Increment(delta float64) { f.v = clampF(f.v+delta, 0, 1) }
func (f *fakeEncoderValue) TwisterHue() uint8       { return 64 }
func (f *fakeEncoderValue) AnimationValue() uint8   { return 47 }
