package transport

import "github.com/google/uuid"

// Session pairs a connected Stream with the single client_id byte sent
// during the handshake and an opaque session identifier used for
// transport-level logging and reconnection bookkeeping — the
// handshake itself carries only the u8 client_id (§6); the uuid is an
// engine-side label that never touches the wire.
type Session struct {
	ID       uuid.UUID
	ClientID uint8
	Stream   *Stream
}

// NewSession mints a session wrapping an already-connected stream.
func NewSession(clientID uint8, stream *Stream) *Session {
	return &Session{ID: uuid.New(), ClientID: clientID, Stream: stream}
}

// Handshake writes the client_id byte and flushes, per §6.
func (s *Session) Handshake() error {
	if _, err := s.Stream.Write([]byte{s.ClientID}); err != nil {
		return err
	}
	return s.Stream.Flush()
}
