// Package transport implements the nonblocking buffered stream (§4.1),
// ported from GridControl/Socket.hpp onto net.Conn: Go has no direct
// equivalent of O_NONBLOCK + poll(2), so a short read/write deadline
// (pollTimeout, 50ms) stands in for EAGAIN/EWOULDBLOCK, and a blocking
// read clears the read deadline and waits.
package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"nonagonengine/internal/engineerr"
)

const bufferSize = 4096

// Stream wraps a net.Conn with an internal read buffer and write buffer,
// matching Socket's Read/Write/Flush semantics.
type Stream struct {
	conn        net.Conn
	readBuf     []byte
	readHead    int
	readTail    int
	writeBuf    []byte
	pollTimeout time.Duration
}

// Connect opens a TCP connection to host:port and wraps it.
func Connect(host string, port uint16) (*Stream, error) {
	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", engineerr.ErrTransportFatal, err)
	}
	return New(conn), nil
}

// New wraps an already-open net.Conn.
func New(conn net.Conn) *Stream {
	return &Stream{
		conn:        conn,
		readBuf:     make([]byte, bufferSize),
		writeBuf:    make([]byte, 0, bufferSize),
		pollTimeout: 50 * time.Millisecond,
	}
}

// IsOpen reports whether the underlying connection is still set.
func (s *Stream) IsOpen() bool { return s.conn != nil }

// Close closes the underlying connection.
func (s *Stream) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("%w: close: %v", engineerr.ErrTransportFatal, err)
	}
	return nil
}

func (s *Stream) bufferedBytes() int { return s.readTail - s.readHead }

func (s *Stream) cycleBuffer() {
	if s.readHead == s.readTail {
		s.readHead, s.readTail = 0, 0
		return
	}
	n := copy(s.readBuf, s.readBuf[s.readHead:s.readTail])
	s.readHead = 0
	s.readTail = n
}

// isWouldBlock reports whether err is the deadline-exceeded condition we
// use in place of EAGAIN/EWOULDBLOCK.
func isWouldBlock(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// Read drains the internal buffer first; if more is needed and blocking
// is true, it waits (with the read deadline cleared) for the connection to become
// readable and retries. If blocking is false, it returns whatever is
// already buffered without issuing a new read once nothing more is
// immediately available.
func (s *Stream) Read(buf []byte, blocking bool) (int, error) {
	total := 0
	attempted := false
	for len(buf) > 0 {
		if s.bufferedBytes() > 0 {
			n := copy(buf, s.readBuf[s.readHead:s.readTail])
			s.readHead += n
			buf = buf[n:]
			total += n
			continue
		}

		if !blocking && attempted {
			return total, nil
		}

		s.cycleBuffer()
		if blocking {
			s.conn.SetReadDeadline(time.Time{})
		} else {
			s.conn.SetReadDeadline(time.Now().Add(s.pollTimeout))
		}
		n, err := s.conn.Read(s.readBuf[s.readTail:])
		if err != nil {
			if isWouldBlock(err) {
				if !blocking {
					return total, nil
				}
				continue
			}
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return total, fmt.Errorf("%w: read: %v", engineerr.ErrTransportFatal, err)
		}
		s.readTail += n
		attempted = true
	}
	return total, nil
}

// Write appends to the internal write buffer; no syscall happens until
// Flush.
func (s *Stream) Write(buf []byte) (int, error) {
	s.writeBuf = append(s.writeBuf, buf...)
	return len(buf), nil
}

// Flush drains the write buffer, retrying on a would-block deadline.
func (s *Stream) Flush() error {
	written := 0
	for written < len(s.writeBuf) {
		s.conn.SetWriteDeadline(time.Now().Add(s.pollTimeout))
		n, err := s.conn.Write(s.writeBuf[written:])
		if err != nil {
			if isWouldBlock(err) || errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			s.writeBuf = s.writeBuf[written:]
			return fmt.Errorf("%w: write: %v", engineerr.ErrTransportFatal, err)
		}
		written += n
	}
	s.writeBuf = s.writeBuf[:0]
	return nil
}
