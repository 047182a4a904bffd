package gridmodel

import "nonagonengine/internal/color"

// Mode tags what a Message carries.
type Mode int

const (
	ModeNone Mode = iota
	ModeNote
	ModeColor
)

// Message is a virtual-coordinate event: either a note (press/release
// velocity) or a color-query result.
type Message struct {
	X, Y     int
	Velocity uint8
	Color    color.Color
	Mode     Mode
}

// NoteMessage builds a press/release message.
func NoteMessage(x, y int, velocity uint8) Message {
	return Message{X: x, Y: y, Velocity: velocity, Mode: ModeNote}
}

// Off builds a release message at (x,y).
func Off(x, y int) Message {
	return NoteMessage(x, y, 0)
}

// ColorMessage builds a color-query result.
func ColorMessage(x, y int, c color.Color) Message {
	return Message{X: x, Y: y, Color: c, Mode: ModeColor}
}

// NoMessage reports whether this is the zero-value / sentinel message.
func (m Message) NoMessage() bool { return m.Mode == ModeNone }
