package wire

import (
	"fmt"

	"nonagonengine/internal/color"
	"nonagonengine/internal/engineerr"
)

// Stream is the minimal byte transport Protocol needs: a non-blocking-
// capable buffered read, an append-only write, and an explicit flush.
// internal/transport.Stream satisfies this.
type Stream interface {
	Read(buf []byte, blocking bool) (int, error)
	Write(buf []byte) (int, error)
	Flush() error
}

// Protocol owns a byte stream and a pending to-send queue, matching
// GridControl/Protocol.hpp's AddEvent/SendEvents/GetEvents trio (§4.2, §6).
type Protocol struct {
	stream   Stream
	toSend   []Event
	remember *color.RememberTable
}

// NewProtocol wraps stream.
func NewProtocol(stream Stream) *Protocol {
	return &Protocol{stream: stream, remember: color.NewRememberTable()}
}

// Handshake sends the single client-id byte §6 specifies.
func (p *Protocol) Handshake(clientID uint8) error {
	if _, err := p.stream.Write([]byte{clientID}); err != nil {
		return fmt.Errorf("%w: handshake write: %v", engineerr.ErrTransportFatal, err)
	}
	return p.stream.Flush()
}

// AddEvent queues an event, flushing the prior run first if its type
// differs, and flushing immediately once the queue reaches
// MaxQueuedEvents. GridColor events matching the remembered color for
// their coordinate are dropped.
func (p *Protocol) AddEvent(e Event) error {
	if e.Type == TypeGridColor {
		r, g, b := e.RGB()
		if p.remember.Remember(e.X(), e.Y(), color.RGB(r, g, b)) {
			return nil
		}
	}

	if len(p.toSend) > 0 && p.toSend[0].Type != e.Type {
		if err := p.SendEvents(); err != nil {
			return err
		}
	}

	p.toSend = append(p.toSend, e)
	if len(p.toSend) == MaxQueuedEvents {
		return p.SendEvents()
	}
	return nil
}

// SendEvents flushes the pending queue as one or more framed batches of
// at most MaxBatchCount records each.
func (p *Protocol) SendEvents() error {
	if len(p.toSend) == 0 {
		return nil
	}

	for start := 0; start < len(p.toSend); start += MaxBatchCount {
		batch := p.toSend[start:min(start+MaxBatchCount, len(p.toSend))]
		header := []byte{byte(batch[0].Type), uint8(len(batch))}
		if _, err := p.stream.Write(header); err != nil {
			return fmt.Errorf("%w: %v", engineerr.ErrTransportFatal, err)
		}

		var body []byte
		for _, e := range batch {
			body = e.appendBody(body)
		}
		if _, err := p.stream.Write(body); err != nil {
			return fmt.Errorf("%w: %v", engineerr.ErrTransportFatal, err)
		}
	}

	if err := p.stream.Flush(); err != nil {
		return fmt.Errorf("%w: %v", engineerr.ErrTransportFatal, err)
	}
	p.toSend = p.toSend[:0]
	return nil
}

// SendFrames writes a MultiWriter's flushed frames verbatim and flushes
// the stream once at the end.
func (p *Protocol) SendFrames(frames [][]byte) error {
	for _, f := range frames {
		if len(f) == 0 {
			continue
		}
		if _, err := p.stream.Write(f); err != nil {
			return fmt.Errorf("%w: %v", engineerr.ErrTransportFatal, err)
		}
	}
	return p.stream.Flush()
}

// GetEvents performs one non-blocking attempt to read a type+count header;
// if present, it blocks for the record bodies that follow. Returns (nil,
// nil) when no header is currently available. A type byte outside the
// known set is ErrProtocolMalformed; only that type byte has been
// consumed when this is detected (the count byte is still unread), so the
// next GetEvents call reads the following byte as a type byte. GetEvents
// does not search ahead for the next frame boundary.
func (p *Protocol) GetEvents() ([]Event, error) {
	var typeBuf [1]byte
	n, err := p.stream.Read(typeBuf[:], false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engineerr.ErrTransportFatal, err)
	}
	if n == 0 {
		return nil, nil
	}

	t := Type(typeBuf[0])
	valueCount, err := NumValues(t)
	if err != nil {
		return nil, err
	}

	var sizeBuf [1]byte
	if _, err := p.stream.Read(sizeBuf[:], true); err != nil {
		return nil, fmt.Errorf("%w: %v", engineerr.ErrTransportFatal, err)
	}
	count := sizeBuf[0]
	if count < 1 || count > MaxBatchCount {
		return nil, fmt.Errorf("%w: batch count %d out of range", engineerr.ErrProtocolMalformed, count)
	}

	events := make([]Event, 0, count)
	recordSize := 1 + valueCount
	body := make([]byte, recordSize)
	var malformed error
	for i := uint8(0); i < count; i++ {
		if _, err := p.stream.Read(body, true); err != nil {
			return nil, fmt.Errorf("%w: %v", engineerr.ErrTransportFatal, err)
		}
		// Every record's bytes are always drained, even once a prior
		// record in this batch was malformed, so the stream stays
		// framed for the next call regardless.
		e, err := decodeEvent(t, body, valueCount)
		if err != nil {
			if malformed == nil {
				malformed = err
			}
			continue
		}
		events = append(events, e)
	}
	if malformed != nil {
		return nil, malformed
	}

	return events, nil
}
