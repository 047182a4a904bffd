// Package wire implements the Grid Control Transport's binary, delta-
// compressed, batched event codec (§4.2, §6), ported from
// GridControl/Event.hpp and GridControl/Protocol.hpp.
package wire

import (
	"fmt"

	"nonagonengine/internal/coord"
	"nonagonengine/internal/engineerr"
)

// Type is the event's wire type tag.
type Type uint8

const (
	TypeNone      Type = 0
	TypeGridTouch Type = 1
	TypeGridColor Type = 2

	numTypes = 3

	// MaxBatchCount is the largest count a single frame's count byte may
	// hold (§3: "batch count is in [1,127]").
	MaxBatchCount = 127

	// MaxQueuedEvents is Protocol's before-flush threshold (§4.2).
	MaxQueuedEvents = 255
)

// NumValues returns how many value bytes follow the index for a given
// type: 1 for GridTouch (velocity), 3 for GridColor (r,g,b).
func NumValues(t Type) (int, error) {
	switch t {
	case TypeGridTouch:
		return 1, nil
	case TypeGridColor:
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: unknown event type %d", engineerr.ErrProtocolMalformed, t)
	}
}

// Event is the tagged union of GridTouch (index + velocity) and GridColor
// (index + r,g,b).
type Event struct {
	Type   Type
	Index  uint8
	Values [3]uint8
}

// NewGridTouch builds a GridTouch event at virtual coordinate (x,y).
func NewGridTouch(x, y int, velocity uint8) Event {
	e := Event{Type: TypeGridTouch, Index: coord.ToIndex(x, y)}
	e.Values[0] = velocity
	return e
}

// NewGridColor builds a GridColor event at virtual coordinate (x,y).
func NewGridColor(x, y int, r, g, b uint8) Event {
	e := Event{Type: TypeGridColor, Index: coord.ToIndex(x, y)}
	e.Values[0], e.Values[1], e.Values[2] = r, g, b
	return e
}

// X returns the event's virtual x coordinate.
func (e Event) X() int { x, _ := coord.FromIndex(e.Index); return x }

// Y returns the event's virtual y coordinate.
func (e Event) Y() int { _, y := coord.FromIndex(e.Index); return y }

// Velocity returns Values[0] for a GridTouch event.
func (e Event) Velocity() uint8 { return e.Values[0] }

// RGB returns the color channels for a GridColor event.
func (e Event) RGB() (r, g, b uint8) { return e.Values[0], e.Values[1], e.Values[2] }

// decodeEvent builds an Event from a wire record's index and value
// bytes, rejecting an index that decodes outside the virtual
// coordinate space instead of handing a downstream consumer (the
// shared bus, a grid's cell array) a coordinate it would have to
// bounds-check again itself. Malformed/adversarial wire data must
// never crash the decoder (§7), so this is enforced once, here, at the
// decode boundary.
func decodeEvent(t Type, body []byte, valueCount int) (Event, error) {
	x, y := coord.FromIndex(body[0])
	if !coord.InBounds(x, y) {
		return Event{}, fmt.Errorf("%w: index %d decodes to (%d,%d), outside the grid", engineerr.ErrProtocolMalformed, body[0], x, y)
	}
	e := Event{Type: t, Index: body[0]}
	copy(e.Values[:valueCount], body[1:])
	return e, nil
}

// appendBody writes index followed by the type's value bytes onto buf.
func (e Event) appendBody(buf []byte) []byte {
	n, _ := NumValues(e.Type)
	buf = append(buf, e.Index)
	buf = append(buf, e.Values[:n]...)
	return buf
}
