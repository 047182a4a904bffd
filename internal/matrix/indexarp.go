package matrix

// Per-voice IndexArp constants, ported from private/src/IndexArp.hpp.
const (
	RhythmLength  = 8
	NumClocks     = 7
	NumTrios      = 3
	VoicesPerTrio = 3
	NumVoices     = NumTrios * VoicesPerTrio
)

// ArpInput is one voice's per-frame configuration, recomputed each
// control frame from the trio's shared settings and the voice's own
// zone/offset/interval parameters.
type ArpInput struct {
	Clock   bool
	Read    bool
	NoClock bool

	TotalIndex int

	Offset       float64
	Interval     float64
	Min          float64
	Max          float64
	Invert       bool
	Retro        bool
	Cycle        bool
	PageInterval float64
	Rhythm       [RhythmLength]bool
	RhythmLen    int
}

// NewArpInput returns an input with every rhythm step enabled, matching
// the original's default-constructed Input.
func NewArpInput() ArpInput {
	in := ArpInput{RhythmLen: RhythmLength}
	for i := range in.Rhythm {
		in.Rhythm[i] = true
	}
	return in
}

// NumNotes counts the rhythm's enabled steps. The Open Question on an
// empty rhythm's num_notes is resolved here by clamping to at least one
// note, per the spec's own open-question note (§REDESIGN/Open Questions).
func (in *ArpInput) NumNotes() int {
	n := 0
	for i := 0; i < in.RhythmLen; i++ {
		if in.Rhythm[i] {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	return n
}

func (in *ArpInput) physicalIndex(index int) int {
	if in.Retro {
		return in.NumNotes() - index
	}
	return index
}

// GetOutput computes the arp's pitch for index (the rank of the
// triggered rhythm step) and pageIndex (the motive index), applying
// cycle/invert folding and the [min,max] range mapping (§4.11).
func (in *ArpInput) GetOutput(index, pageIndex int) float64 {
	physical := in.physicalIndex(index)
	result := in.Offset + float64(physical)*in.Interval + float64(pageIndex)*in.PageInterval

	if in.Cycle {
		result = result - 2*floorF(result)
		if result > 1 {
			result = 2 - result
		}
	} else {
		result = result - floorF(result)
	}

	if in.Invert {
		result = 1 - result
	}

	return in.Min + result*(in.Max-in.Min)
}

func floorF(v float64) float64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}

// IndexArp is a single clocked index sequencer: on a rhythm hit it
// recomputes its triggered-step rank and page, then latches a pitch
// from the input's GetOutput.
type IndexArp struct {
	totalIndex  int
	index       int
	motiveIndex int
	rhythmIndex int
	output      float64
	triggered   bool
}

// NewIndexArp returns an arp in its just-reset state.
func NewIndexArp() *IndexArp {
	return &IndexArp{totalIndex: -1, rhythmIndex: -1}
}

func (a *IndexArp) Output() float64 { return a.output }
func (a *IndexArp) Triggered() bool { return a.triggered }

// Process advances the arp from one frame's input (§4.11): a no-clock
// condition resets the sequencer; a clock edge advances total_index,
// derives rhythm_index, and — when that rhythm step is enabled —
// recomputes motive_index and the triggered step's rank and fires.
func (a *IndexArp) Process(in *ArpInput) {
	a.triggered = false

	if in.NoClock {
		a.reset()
	}

	if in.Clock {
		a.totalIndex = in.TotalIndex
		a.rhythmIndex = a.totalIndex % in.RhythmLen

		if in.Rhythm[a.rhythmIndex] {
			a.motiveIndex = a.totalIndex / in.RhythmLen

			a.index = -1
			for i := 0; i <= a.rhythmIndex; i++ {
				if in.Rhythm[i] {
					a.index++
				}
			}
			a.triggered = true
		}
	}

	if in.Read || a.triggered {
		a.output = in.GetOutput(a.index, a.motiveIndex)
	}
}

func (a *IndexArp) reset() {
	a.index = 0
	a.motiveIndex = 0
	a.rhythmIndex = 0
}

// TrioConfig is the shared per-trio clock/reset selection and the 3
// voices' zone/offset/interval/shape settings.
type TrioConfig struct {
	ClockSelect int // index into Clocks, or -1 for none
	ResetSelect int

	ZoneHeight   [VoicesPerTrio]float64
	ZoneOverlap  [VoicesPerTrio]float64
	Offset       [VoicesPerTrio]float64
	Interval     [VoicesPerTrio]float64
	PageInterval [VoicesPerTrio]float64
	Invert       [VoicesPerTrio]bool
	Retro        [VoicesPerTrio]bool
	Cycle        [VoicesPerTrio]bool
	Rhythm       [VoicesPerTrio][RhythmLength]bool
	RhythmLen    [VoicesPerTrio]int

	TotalIndex int
}

// Nonagon groups 9 IndexArps into 3 trios of 3, each trio sharing a
// clock and reset selection while each voice keeps its own stacked
// min/max zone (§4.11).
type Nonagon struct {
	Trios  [NumTrios]TrioConfig
	Clocks [NumClocks]bool

	arps [NumVoices]*IndexArp
}

// NewNonagon allocates all 9 arps in their reset state.
func NewNonagon() *Nonagon {
	n := &Nonagon{}
	for i := range n.arps {
		n.arps[i] = NewIndexArp()
	}
	for i := range n.Trios {
		n.Trios[i].ResetSelect = -1
		for v := 0; v < VoicesPerTrio; v++ {
			n.Trios[i].RhythmLen[v] = RhythmLength
			for r := 0; r < RhythmLength; r++ {
				n.Trios[i].Rhythm[v][r] = true
			}
		}
	}
	return n
}

func (n *Nonagon) Arp(voice int) *IndexArp { return n.arps[voice] }

// Process derives each voice's ArpInput from its trio's shared clock
// and zone-stacking settings (each voice's min stacks atop the prior
// voice's max, minus overlap) and advances all 9 arps.
func (n *Nonagon) Process(read bool) {
	for t := range n.Trios {
		trio := &n.Trios[t]
		for v := 0; v < VoicesPerTrio; v++ {
			voice := t*VoicesPerTrio + v

			in := NewArpInput()
			in.Read = read
			in.TotalIndex = trio.TotalIndex
			in.Offset = trio.Offset[v]
			in.Interval = trio.Interval[v]
			in.PageInterval = trio.PageInterval[v]
			in.Invert = trio.Invert[v]
			in.Retro = trio.Retro[v]
			in.Cycle = trio.Cycle[v]
			in.RhythmLen = trio.RhythmLen[v]
			in.Rhythm = trio.Rhythm[v]

			if v == 0 {
				in.Min = 0
			} else {
				in.Min = n.voiceMax(t, v-1) - trio.ZoneHeight[v]*trio.ZoneOverlap[v]
			}
			in.Max = in.Min + trio.ZoneHeight[v]

			if trio.ClockSelect >= 0 {
				in.Clock = n.Clocks[trio.ClockSelect]
				in.NoClock = false
			} else {
				in.NoClock = in.Read
				in.Clock = false
			}

			n.arps[voice].Process(&in)
		}
	}
}

// voiceMax recomputes voice v's max within trio t, following the same
// stacking rule Process uses, so later voices can stack atop it.
func (n *Nonagon) voiceMax(t, v int) float64 {
	trio := &n.Trios[t]
	var min float64
	if v == 0 {
		min = 0
	} else {
		min = n.voiceMax(t, v-1) - trio.ZoneHeight[v]*trio.ZoneOverlap[v]
	}
	return min + trio.ZoneHeight[v]
}
