package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nonagonengine/internal/coord"
	"nonagonengine/internal/engineerr"
)

// memStream is a loopback byte buffer satisfying the Stream interface,
// used in place of a real socket for protocol tests.
type memStream struct {
	buf []byte
}

func (m *memStream) Write(p []byte) (int, error) {
	m.buf = append(m.buf, p...)
	return len(p), nil
}

func (m *memStream) Flush() error { return nil }

func (m *memStream) Read(buf []byte, blocking bool) (int, error) {
	n := copy(buf, m.buf)
	m.buf = m.buf[n:]
	return n, nil
}

func drainAll(t *testing.T, p *Protocol) []Event {
	t.Helper()
	var all []Event
	for {
		events, err := p.GetEvents()
		require.NoError(t, err)
		if events == nil {
			return all
		}
		all = append(all, events...)
	}
}

func TestDedupSuppressesRepeatedColor(t *testing.T) {
	stream := &memStream{}
	protocol := NewProtocol(stream)

	for i := 0; i < 3; i++ {
		require.NoError(t, protocol.AddEvent(NewGridColor(0, 0, 255, 255, 255)))
	}
	require.NoError(t, protocol.SendEvents())

	got := drainAll(t, &Protocol{stream: stream})
	require.Len(t, got, 1, "three identical GridColor sends collapse to one event")
}

func TestFrameSplitAt127(t *testing.T) {
	writer := NewMultiWriter()
	for i := 0; i < 130; i++ {
		writer.Write(NewGridTouch(0, 0, uint8(i%128)))
	}
	frames := writer.Flush()
	require.Len(t, frames, 2)
	require.Equal(t, uint8(127), frames[0][1])
	require.Equal(t, uint8(3), frames[1][1])
}

func TestMultiWriterRoundTripThroughProtocol(t *testing.T) {
	writer := NewMultiWriter()
	writer.Write(NewGridColor(0, 0, 255, 255, 255))
	writer.Write(NewGridColor(0, 0, 255, 255, 255)) // duplicate, dropped
	writer.Write(NewGridColor(1, 1, 10, 20, 30))
	writer.Write(NewGridTouch(2, 2, 100))

	frames := writer.Flush()

	stream := &memStream{}
	sender := NewProtocol(stream)
	require.NoError(t, sender.SendFrames(frames))

	receiver := NewProtocol(stream)
	got := drainAll(t, receiver)

	require.Len(t, got, 3)
	touchCount, colorCount := 0, 0
	for _, e := range got {
		switch e.Type {
		case TypeGridTouch:
			touchCount++
			require.Equal(t, 2, e.X())
			require.Equal(t, 2, e.Y())
			require.Equal(t, uint8(100), e.Velocity())
		case TypeGridColor:
			colorCount++
		}
	}
	require.Equal(t, 1, touchCount)
	require.Equal(t, 2, colorCount)
}

func TestGetEventsReturnsNilWithoutHeader(t *testing.T) {
	stream := &memStream{}
	p := NewProtocol(stream)
	events, err := p.GetEvents()
	require.NoError(t, err)
	require.Nil(t, events)
}

func TestGetEventsRejectsUnknownType(t *testing.T) {
	stream := &memStream{buf: []byte{0xFF, 1}}
	p := NewProtocol(stream)
	_, err := p.GetEvents()
	require.Error(t, err)
}

func TestGetEventsRejectsIndexOutsideGrid(t *testing.T) {
	// type=GridTouch, count=1, index=254 (decodes far outside the
	// virtual grid), velocity=0.
	stream := &memStream{buf: []byte{byte(TypeGridTouch), 1, 254, 0}}
	p := NewProtocol(stream)
	_, err := p.GetEvents()
	require.ErrorIs(t, err, engineerr.ErrProtocolMalformed)
}

func TestGetEventsResynchronizesAfterMalformedIndex(t *testing.T) {
	stream := &memStream{}
	// A batch of two GridTouch records: the first has a bad index, the
	// second is valid. Appended after it, a second well-formed batch.
	stream.buf = append(stream.buf, byte(TypeGridTouch), 2, 254, 0, coord.ToIndex(0, 0), 5)
	stream.buf = append(stream.buf, byte(TypeGridTouch), 1, coord.ToIndex(1, 1), 9)

	p := NewProtocol(stream)
	_, err := p.GetEvents()
	require.ErrorIs(t, err, engineerr.ErrProtocolMalformed)

	events, err := p.GetEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, 1, events[0].X())
	require.Equal(t, 1, events[0].Y())
}

func TestAddEventFlushesOnTypeChange(t *testing.T) {
	stream := &memStream{}
	p := NewProtocol(stream)

	require.NoError(t, p.AddEvent(NewGridTouch(0, 0, 5)))
	require.NoError(t, p.AddEvent(NewGridColor(1, 1, 1, 2, 3)))
	require.NoError(t, p.SendEvents())

	receiver := NewProtocol(stream)
	got := drainAll(t, receiver)
	require.Len(t, got, 2)
	require.Equal(t, TypeGridTouch, got[0].Type)
	require.Equal(t, TypeGridColor, got[1].Type)
}
