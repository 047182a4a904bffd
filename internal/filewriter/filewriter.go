// Package filewriter implements the async log/save background writer
// (§4.14): a foreground staging buffer that auto-flushes into a
// ringbuf.ByteRing, drained by a background goroutine that owns the
// actual file handle.
package filewriter

import (
	"fmt"
	"os"
	"sync"
	"time"

	"nonagonengine/internal/engineerr"
	"nonagonengine/internal/ringbuf"
)

const (
	chunkSize  = 4096
	queueDepth = 64
)

// Writer opens a file in truncate mode and drains fixed-size chunks
// from a ring on a background goroutine; Write/Flush are safe to call
// from the foreground thread concurrently with that goroutine.
type Writer struct {
	ring   *ringbuf.ByteRing
	file   *os.File
	done   chan struct{}
	closed chan struct{}
	once   sync.Once
}

// Open truncates (or creates) path and starts the background drain
// loop.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engineerr.ErrTransportFatal, err)
	}
	w := &Writer{
		ring:   ringbuf.NewByteRing(chunkSize, queueDepth),
		file:   f,
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Write stages bytes for the background writer, auto-flushing whenever
// the staging chunk fills exactly.
func (w *Writer) Write(data []byte) {
	w.ring.Write(data)
}

// Flush pushes any pending partial chunk onto the ring without waiting
// for it to drain.
func (w *Writer) Flush() {
	w.ring.Flush()
}

// Close signals the background goroutine to drain remaining chunks and
// exit, then joins it. No data staged before Close returns is lost.
func (w *Writer) Close() error {
	w.once.Do(func() { close(w.done) })
	<-w.closed
	return w.file.Close()
}

func (w *Writer) run() {
	defer close(w.closed)
	for {
		select {
		case <-w.done:
			w.drainRemaining()
			return
		default:
			if chunk, ok := w.ring.Pop(); ok {
				w.file.Write(chunk.Bytes())
			} else {
				time.Sleep(time.Millisecond)
			}
		}
	}
}

func (w *Writer) drainRemaining() {
	w.ring.Flush()
	for {
		chunk, ok := w.ring.Pop()
		if !ok {
			return
		}
		w.file.Write(chunk.Bytes())
	}
}
