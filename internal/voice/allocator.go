// Package voice implements the round-robin voice allocator (§4.7),
// ported from private/src/VoiceAllocator.hpp. A voice's gate boolean is
// owned by the caller; the allocator only ever flips it, never frees it
// (§5's shared-ownership note on voice gates).
package voice

// MaxVoices bounds the allocator's fixed voice table.
const MaxVoices = 16

// Gate is the borrowed boolean a voice's liveness is tracked through.
type Gate = *bool

// Voice is anything with a borrowed gate and an equality key; concrete
// engine voices (grid-cell gates, arp steps) satisfy this directly.
type Voice interface {
	GateRef() Gate
	Equal(other Voice) bool
}

// Allocator is a fixed-capacity round-robin voice pool.
type Allocator struct {
	maxPolyphony int
	ix           int
	numActive    int
	voices       [MaxVoices]Voice
}

// NewAllocator starts at polyphony 1, matching the original's default.
func NewAllocator() *Allocator {
	return &Allocator{maxPolyphony: 1}
}

// Allocate installs voice into the pool: if at capacity, the
// round-robin pointer's current slot is deallocated first; the pointer
// then advances past any still-gated slot, installs voice, raises its
// gate, and advances once more.
func (a *Allocator) Allocate(v Voice) {
	if a.numActive == a.maxPolyphony {
		a.deallocateIndex(a.ix)
	}

	for a.voices[a.ix] != nil && a.voices[a.ix].GateRef() != nil && *a.voices[a.ix].GateRef() {
		a.ix = (a.ix + 1) % a.maxPolyphony
	}

	a.voices[a.ix] = v
	a.ix = (a.ix + 1) % a.maxPolyphony
	if g := v.GateRef(); g != nil {
		*g = true
	}
	a.numActive++
}

func (a *Allocator) deallocateIndex(index int) {
	v := a.voices[index]
	if v == nil {
		return
	}
	if g := v.GateRef(); g != nil && *g {
		*g = false
		a.numActive--
	}
}

// Deallocate clears the gate of whichever slot equals v.
func (a *Allocator) Deallocate(v Voice) {
	for i := 0; i < a.maxPolyphony; i++ {
		if a.voices[i] != nil && a.voices[i].Equal(v) {
			a.deallocateIndex(i)
		}
	}
}

// Clear lowers every gate in the pool and resets the round-robin
// pointer.
func (a *Allocator) Clear() {
	for i := 0; i < MaxVoices; i++ {
		if a.voices[i] != nil {
			if g := a.voices[i].GateRef(); g != nil {
				*g = false
			}
		}
	}
	a.ix = 0
	a.numActive = 0
}

// SetPolyphony changes capacity, clearing all active voices first
// (§4.7: "polyphony changes call clear then set capacity").
func (a *Allocator) SetPolyphony(polyphony int) {
	a.Clear()
	a.maxPolyphony = polyphony
}

// NumActive returns the number of currently gated voices.
func (a *Allocator) NumActive() int { return a.numActive }

// Active returns every voice within [0,maxPolyphony) whose gate is
// currently high, in slot order.
func (a *Allocator) Active() []Voice {
	out := make([]Voice, 0, a.maxPolyphony)
	for i := 0; i < a.maxPolyphony; i++ {
		v := a.voices[i]
		if v != nil && v.GateRef() != nil && *v.GateRef() {
			out = append(out, v)
		}
	}
	return out
}
