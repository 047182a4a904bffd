// Package msgbus implements the timestamp-gated MessageIn bus (§4.13),
// ported from private/src/MessageInBus.hpp atop ringbuf.Ring. Inputs
// carry host-thread timestamps; the engine thread plays them back in
// arrival (FIFO) order, releasing each only once its timestamp has been
// reached, so a record at the head holds back every record behind it.
package msgbus

import "nonagonengine/internal/ringbuf"

// Mode names the kind of event a MessageIn carries.
type Mode int

const (
	PadPress Mode = iota
	PadPressure
	PadRelease
	EncoderIncDec
	EncoderPush
	EncoderRelease
	ParamSet14
	ParamSet7
)

// MessageIn is one decoded, timestamped input event.
type MessageIn struct {
	Timestamp uint64
	RouteID   int
	Mode      Mode
	X, Y      int
	Amount    int64
}

const defaultCapacity = 1024

// Bus is a bounded ring of MessageIn records gated by a "now" cursor:
// Pop only releases a record once now has reached its timestamp,
// so host-thread timing jitter never reorders playback on the engine
// thread.
type Bus struct {
	ring *ringbuf.Ring[MessageIn]
}

// New creates a bus with the default capacity.
func New() *Bus { return NewWithCapacity(defaultCapacity) }

// NewWithCapacity creates a bus with an explicit ring capacity.
func NewWithCapacity(capacity int) *Bus {
	return &Bus{ring: ringbuf.New[MessageIn](capacity)}
}

// Push enqueues a decoded message; on a full ring the message is
// dropped (§4.13 makes no guarantee against producer overrun).
func (b *Bus) Push(msg MessageIn) bool {
	return b.ring.Push(msg)
}

// Pop peeks the head record: if its timestamp has arrived (≤ now) it is
// consumed and returned with ok=true, else ok is false and the head is
// left in place for a later call.
func (b *Bus) Pop(now uint64) (MessageIn, bool) {
	head, ok := b.ring.Peek()
	if !ok || head.Timestamp > now {
		return MessageIn{}, false
	}
	b.ring.Pop()
	return head, true
}

// Process drains every message whose timestamp has arrived as of now,
// invoking handle for each in queue order.
func (b *Bus) Process(now uint64, handle func(MessageIn)) {
	for {
		msg, ok := b.Pop(now)
		if !ok {
			return
		}
		handle(msg)
	}
}
