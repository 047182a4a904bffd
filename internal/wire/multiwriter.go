package wire

import "nonagonengine/internal/color"

// MultiWriter accumulates events into one or more batched frames per
// type, suppressing GridColor events whose color already matches the
// remembered value for that coordinate, and starting a new frame whenever
// the current one would exceed MaxBatchCount (§4.2).
type MultiWriter struct {
	batches  [numTypes][][]byte
	remember *color.RememberTable
}

// NewMultiWriter creates an empty writer.
func NewMultiWriter() *MultiWriter {
	return &MultiWriter{remember: color.NewRememberTable()}
}

// Write submits an event. GridColor events whose (x,y) already holds that
// exact color are dropped per the ColorRemember invariant (§4.2 step 1).
func (w *MultiWriter) Write(e Event) {
	if e.Type == TypeGridColor {
		r, g, b := e.RGB()
		if w.remember.Remember(e.X(), e.Y(), color.RGB(r, g, b)) {
			return
		}
	}

	batches := w.batches[e.Type]
	if len(batches) == 0 || batches[len(batches)-1][1] == MaxBatchCount {
		batches = append(batches, []byte{byte(e.Type), 0})
	}
	last := len(batches) - 1
	batches[last][1]++
	batches[last] = e.appendBody(batches[last])
	w.batches[e.Type] = batches
}

// Flush returns every accumulated frame (verbatim wire bytes, type+count
// header included) across all types, in type order, and clears the
// writer's buffers. Empty-typed buffers produce no frames.
func (w *MultiWriter) Flush() [][]byte {
	var out [][]byte
	for t := range w.batches {
		for _, b := range w.batches[t] {
			if len(b) > 0 {
				out = append(out, b)
			}
		}
		w.batches[t] = nil
	}
	return out
}
