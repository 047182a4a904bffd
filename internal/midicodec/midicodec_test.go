package midicodec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nonagonengine/internal/color"
)

func TestNotePositionRoundTrip(t *testing.T) {
	note := NoteForPosition(3, 2)
	x, y, ok := PositionForNote(note, ShapeProMk3)
	require.True(t, ok)
	require.Equal(t, 3, x)
	require.Equal(t, 2, y)
}

func TestPositionForNoteRejectsOutOfShapeRange(t *testing.T) {
	_, _, ok := PositionForNote(NoteForPosition(9, 0), ShapeXMiniMk3)
	require.False(t, ok)
}

func TestNotePositionRoundTripThroughOverflowRows(t *testing.T) {
	// y=8 and y=9 are the two virtual overflow rows above the 8x8 grid;
	// both must land on real, distinct notes and round-trip on a Pro Mk3.
	for _, y := range []int{8, 9} {
		note := NoteForPosition(3, y)
		x, gotY, ok := PositionForNote(note, ShapeProMk3)
		require.True(t, ok, "y=%d", y)
		require.Equal(t, 3, x)
		require.Equal(t, y, gotY)
	}
}

func TestNoteForPositionOverflowRowsUseDistinctNoteRanges(t *testing.T) {
	note8 := NoteForPosition(0, 8)
	note9 := NoteForPosition(0, 9)
	require.NotEqual(t, note8, note9)
	require.Less(t, note9, 10) // row -1 lands in the bottom-two-rows note range
}

func TestEncoderCCRoundTrip(t *testing.T) {
	cc := EncoderCCForPosition(2, 3)
	x, y := PositionForEncoderCC(cc)
	require.Equal(t, 2, x)
	require.Equal(t, 3, y)
}

func TestDecodeEncoderIncDec(t *testing.T) {
	require.Equal(t, int64(0), DecodeEncoderIncDec(64))
	require.Equal(t, int64(-5), DecodeEncoderIncDec(59))
	require.Equal(t, int64(5), DecodeEncoderIncDec(69))
}

func TestEncoderOutputStateOnlyEmitsChangedPhases(t *testing.T) {
	s := &EncoderOutputState{}
	c := color.Color{G: 10}

	_, ok := s.NextOutput(0, 0, c, 0.5)
	require.True(t, ok) // first color phase always emits

	_, ok = s.NextOutput(0, 0, c, 0.5) // brightness phase, new value
	require.True(t, ok)

	_, ok = s.NextOutput(0, 0, c, 0.5) // value phase, new value
	require.True(t, ok)

	_, ok = s.NextOutput(0, 0, c, 0.5) // back to color phase, unchanged
	require.False(t, ok)
}

func TestYaeltexCellThrottlesRepeatedWrites(t *testing.T) {
	cell := &YaeltexCell{}
	buf, wrote := cell.EncodeYaeltexBlock(nil, 4, color.Color{R: 10, G: 20, B: 30})
	require.True(t, wrote)
	require.Equal(t, []byte{4, 5, 10, 15}, buf)

	_, wrote = cell.EncodeYaeltexBlock(nil, 4, color.Color{R: 10, G: 20, B: 30})
	require.False(t, wrote) // unchanged color, suppressed
}

func TestLaunchpadRememberedShortCircuitsOnMatchingEpoch(t *testing.T) {
	r := NewLaunchpadRemembered()
	cells := map[[2]int]color.Color{{0, 0}: {R: 255}}

	msg := r.EncodeLaunchpadFrame(1, cells)
	require.NotNil(t, msg)

	msg = r.EncodeLaunchpadFrame(1, cells)
	require.Nil(t, msg)
}

func TestRouterDecodesLaunchpadPress(t *testing.T) {
	r := NewRouter(ShapeProMk3)
	r.Configure(0, RouteLaunchPad)

	note := NoteForPosition(2, 2)
	msg, ok := r.Decode(RawMIDI{RouteID: 0, Status: 0x90, Data1: note, Data2: 100}, 5)
	require.True(t, ok)
	require.Equal(t, 2, msg.X)
	require.Equal(t, 2, msg.Y)
}
