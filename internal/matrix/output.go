package matrix

import "sort"

const (
	coMuteSize = NumInputs
	maxCacheIx = 1 << coMuteSize // one cache entry per default-vector value (§4.10)
	maxPoly    = 16
)

// CoMuteSet is the subset of the 6 input bits an output enumerates over;
// the remaining bits are frozen from the live input vector.
type CoMuteSet [coMuteSize]bool

func (s CoMuteSet) count() int {
	n := 0
	for _, b := range s {
		if b {
			n++
		}
	}
	return n
}

// vectorIterator enumerates every input vector obtainable by shifting an
// ordinal's bits into the co-mute positions over a frozen default
// vector, the Go rendering of LameJuis.hpp's InputVectorIterator.
type vectorIterator struct {
	positions []int
	defaultV  InputVector
	ordinal   int
	count     int
}

func newVectorIterator(comute CoMuteSet, defaultVector InputVector) *vectorIterator {
	it := &vectorIterator{defaultV: defaultVector}
	for i, on := range comute {
		if on {
			it.positions = append(it.positions, i)
		}
	}
	it.count = 1 << len(it.positions)
	return it
}

func (it *vectorIterator) done() bool { return it.ordinal >= it.count }

func (it *vectorIterator) get() InputVector {
	v := it.defaultV
	for i, pos := range it.positions {
		v.Set(pos, it.ordinal&(1<<uint(i)) != 0)
	}
	return v
}

func (it *vectorIterator) next() { it.ordinal++ }

// OutputChannel is one polyphony channel's pitch-selection mode: a
// percentile in [0,1], or an (IndexArp, pre-IndexArp) pair whose result
// indexes into the sorted distinct-pitch list, or a raw configured
// index. Octave is an additional integer octave offset applied after
// selection.
type OutputChannel struct {
	UsePercentile bool
	Percentile    float64

	IndexArp    *IndexArp
	PreIndexArp *IndexArp

	Index  int
	Octave int
}

// Output is one LameJuis output: a co-mute enumeration set, a
// per-poly-channel selection mode, and a per-default-vector cache of
// sorted evaluated pitches. Harmonic mode keeps raw (non-octave-reduced)
// pitch; melodic mode octave-reduces before sorting (§4.10).
type Output struct {
	CoMute   CoMuteSet
	Harmonic bool
	Channels []OutputChannel

	caches [maxCacheIx]*outputCache
}

// NewOutput returns an output with no channels configured yet.
func NewOutput(harmonic bool) *Output {
	return &Output{Harmonic: harmonic}
}

// InvalidateCache drops every per-default-vector cache; called whenever
// the co-mute set, any matrix switch, operator, or accumulator interval
// changes.
func (o *Output) InvalidateCache() {
	for i := range o.caches {
		o.caches[i] = nil
	}
}

type outputCache struct {
	sorted       []ResultWithPitch
	reverseIndex []int // distinct-pitch rank → sorted index
	numDistinct  int
}

// eval evaluates (or returns the cached evaluation of) every vector the
// co-mute set reaches from defaultVector, against m, sorting the
// results by pitch (melodic mode octave-reducing first).
func (o *Output) eval(m *Matrix, defaultVector InputVector) *outputCache {
	ix := int(defaultVector)
	if o.caches[ix] != nil {
		return o.caches[ix]
	}

	it := newVectorIterator(o.CoMute, defaultVector)
	results := make([]ResultWithPitch, 0, it.count)
	for !it.done() {
		r := m.EvalMatrix(it.get())
		if !o.Harmonic {
			r.OctaveReduce()
		}
		results = append(results, r)
		it.next()
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Less(results[j]) })

	cache := &outputCache{sorted: results}
	cache.reverseIndex = make([]int, 0, len(results))
	var last *ResultWithPitch
	for i := range results {
		if last == nil || last.Pitch != results[i].Pitch || last.Result != results[i].Result {
			cache.reverseIndex = append(cache.reverseIndex, i)
			cache.numDistinct++
		}
		last = &results[i]
	}

	o.caches[ix] = cache
	return cache
}

// percentileToIx maps p∈[0,1] onto a sorted list's index, per §4.10's
// sorted-pitch-selection formula.
func percentileToIx(p float64, numResults int) int {
	ix := int(p * float64(numResults))
	if ix < 0 {
		ix = 0
	}
	if ix >= numResults {
		ix = numResults - 1
	}
	return ix
}

// GetPitch selects channel ch's pitch for the current live input vector,
// evaluating (or reusing) the output's cache and applying the channel's
// octave offset.
func (o *Output) GetPitch(m *Matrix, defaultVector InputVector, ch int) float64 {
	if ch < 0 || ch >= len(o.Channels) {
		return 0
	}
	channel := &o.Channels[ch]
	cache := o.eval(m, defaultVector)
	if len(cache.sorted) == 0 {
		return 0
	}

	var ix int
	switch {
	case channel.UsePercentile:
		ix = percentileToIx(channel.Percentile, len(cache.sorted))
	case channel.IndexArp != nil:
		// PreIndexArp, when present, gates which sub-range of the
		// distinct-pitch list IndexArp's own output selects within —
		// e.g. a trio's "page" arp choosing an octave band before the
		// "note" arp inside it picks a pitch.
		base := 0.0
		span := 1.0
		if channel.PreIndexArp != nil {
			span = 1.0 / float64(maxPoly)
			base = channel.PreIndexArp.Output() * (1.0 - span)
		}
		arpResult := int((base + channel.IndexArp.Output()*span) * float64(cache.numDistinct))
		if arpResult < 0 {
			arpResult = 0
		}
		if arpResult >= cache.numDistinct {
			arpResult = cache.numDistinct - 1
		}
		if len(cache.reverseIndex) == 0 {
			ix = 0
		} else {
			ix = cache.reverseIndex[arpResult]
		}
	default:
		ix = channel.Index
		if ix < 0 {
			ix = 0
		}
		if ix >= len(cache.sorted) {
			ix = len(cache.sorted) - 1
		}
	}

	return cache.sorted[ix].Pitch + float64(channel.Octave)
}
