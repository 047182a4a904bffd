// Package midicodec implements the MIDI ↔ controller codec (§4.12):
// Launchpad-family note mapping, encoder CC mapping, vendor sysex color
// output, and a route-id dispatcher selecting among them.
package midicodec

// LaunchpadShape names a supported controller's visible grid shape.
type LaunchpadShape int

const (
	ShapeXMiniMk3 LaunchpadShape = iota // 8x9
	ShapeProMk3                         // 10x10
)

// supports reports whether (x,y) falls within shape's visible grid,
// ported from LPMidi::ShapeSupports: the X/Mini Mk3 exposes one
// overflow row above the 8x8 grid, the Pro Mk3 exposes both an
// overflow row and an overflow column.
func (s LaunchpadShape) supports(x, y int) bool {
	switch s {
	case ShapeProMk3:
		return x >= -1 && x < 9 && y >= -1 && y < 10
	default: // ShapeXMiniMk3
		return x >= 0 && x < 9 && y >= -1 && y < 8
	}
}

// NoteForPosition maps a grid (x,y) to a Launchpad MIDI note number via
// 11 + 10·row + x, where row = 7−y with the two virtual overflow rows
// (row == −1, −2, i.e. y == 8, 9) reassigned onto the device's unused
// note range 0-9 and row 9, per §4.12 and LPMidi::PosToNote.
func NoteForPosition(x, y int) int {
	row := 7 - y
	switch row {
	case -1:
		row = 9
	case -2:
		row = -1
	}
	return 11 + 10*row + x
}

// PositionForNote is the bijective inverse of NoteForPosition within
// shape's visible range, including the bottom-two-rows/overflow-column
// remapping LPMidi::NoteToPos applies; ok is false for notes outside
// that range.
func PositionForNote(note int, shape LaunchpadShape) (x, y int, ok bool) {
	if note < 10 {
		// The Launchpad's bottom two rows arrive in reassigned note
		// order; ok is determined below by shape.supports.
		x, y = note-1, 9
	} else {
		row := (note - 11) / 10
		x = (note - 11) % 10
		if row == 9 {
			row = -1
		}
		if x == 9 {
			x = -1
			row++
		}
		y = 7 - row
	}
	if !shape.supports(x, y) {
		return 0, 0, false
	}
	return x, y, true
}

// LaunchpadEvent is a decoded press/release/CC event from a Launchpad
// family controller.
type LaunchpadEvent struct {
	X, Y     int
	Velocity uint8 // 0 = release
}

// DecodeLaunchpad decodes a MIDI note-on/note-off/CC byte triple into a
// grid event; velocity carries press pressure and CCs are treated the
// same as notes (§4.12).
func DecodeLaunchpad(note int, velocity uint8, shape LaunchpadShape) (LaunchpadEvent, bool) {
	x, y, ok := PositionForNote(note, shape)
	if !ok {
		return LaunchpadEvent{}, false
	}
	return LaunchpadEvent{X: x, Y: y, Velocity: velocity}, true
}

// EncodeLaunchpad produces the (note, velocity) MIDI pair for a grid
// position and color/velocity event.
func EncodeLaunchpad(x, y int, velocity uint8) (note int, vel uint8) {
	return NoteForPosition(x, y), velocity
}
