// Package control implements the control engine (§4.15): per control
// frame it drains the message bus, advances the logic matrix and
// IndexArp, feeds the voice allocator, recomputes the modulation tree,
// and writes color state back onto the shared bus. Everything here runs
// on the control/UI thread; §5's audio thread only reads the Engine's
// exported snapshots.
package control

import (
	"nonagonengine/internal/bus"
	"nonagonengine/internal/gridmodel"
	"nonagonengine/internal/matrix"
	"nonagonengine/internal/modtree"
	"nonagonengine/internal/msgbus"
	"nonagonengine/internal/scene"
	"nonagonengine/internal/voice"
)

// VoiceChannel is one polyphonic output channel: the matrix output it
// reads pitch from, the poly-channel index within that output, and the
// voice it feeds.
type VoiceChannel struct {
	Output      *matrix.Output
	PolyIndex   int
	Voice       voice.Voice
	LastPitch   float64
}

// Engine owns every subsystem a control frame touches.
type Engine struct {
	Bus      *bus.Holder
	Messages *msgbus.Bus
	Matrix   *matrix.Matrix
	Arps     *matrix.Nonagon
	Voices   *voice.Allocator
	Scenes   *scene.Manager

	// Grids maps a grid id to the AbstractGrid handling dispatch and
	// color for it; route dispatch upstream resolves which grid id a
	// MessageIn's (route, x, y) belongs to before calling Dispatch.
	Grids map[int]gridmodel.AbstractGrid

	// ModRoots are the per-track modulation tree roots swept every
	// frame (§4.8).
	ModRoots  []*modtree.Node
	ModValues *modtree.ModulatorValues

	Channels []VoiceChannel

	inputVector matrix.InputVector
}

// modulatorSlots is the number of ModulatorValues slots this engine
// drives from live Nonagon arp outputs; the remaining slots up to
// modtree.MaxModulators get no external signal (their ModulatorValues
// entry stays 0), so a modulator in one of them adds weight·0 and only
// scales the base by (1−weight) in modtree.Node.recomputeOutput.
const modulatorSlots = matrix.NumVoices

// NewEngine wires a fresh set of subsystems together.
func NewEngine() *Engine {
	return &Engine{
		Bus:       bus.NewHolder(),
		Messages:  msgbus.New(),
		Matrix:    &matrix.Matrix{},
		Arps:      matrix.NewNonagon(),
		Voices:    voice.NewAllocator(),
		Scenes:    scene.New(),
		Grids:     make(map[int]gridmodel.AbstractGrid),
		ModValues: &modtree.ModulatorValues{},
	}
}

// SetInputVector updates the matrix's live 6-bit logic input, read by
// step 2 of Tick.
func (e *Engine) SetInputVector(v matrix.InputVector) {
	e.inputVector = v
}

// Tick runs one control frame against now (§4.15's ordered steps):
//  1. drain the message bus up to now, dispatching to the routed grid;
//  2. advance the matrix and accumulators against the live input;
//  3. advance the IndexArp trios;
//  4. select each voice channel's pitch and feed the allocator;
//  5. snapshot live modulation sources into ModValues and sweep the
//     modulation tree against the current scene blend;
//  6. write color state for each grid into the shared bus.
func (e *Engine) Tick(now uint64, dt float64, route func(msgbus.MessageIn) (gridID int, ok bool)) {
	e.Messages.Process(now, func(msg msgbus.MessageIn) {
		e.dispatch(msg, route)
	})

	e.Matrix.EvalMatrix(e.inputVector)

	e.Arps.Process(false)

	for i := range e.Channels {
		ch := &e.Channels[i]
		pitch := ch.Output.GetPitch(e.Matrix, e.inputVector, ch.PolyIndex)
		ch.LastPitch = pitch
		if g := ch.Voice.GateRef(); g != nil {
			if !*g {
				e.Voices.Allocate(ch.Voice)
			}
		}
	}

	e.updateModulatorValues()
	if e.Scenes.ChangedScene() {
		for _, root := range e.ModRoots {
			root.ForceUpdate = true
		}
	}
	for track, root := range e.ModRoots {
		root.Process(track, e.Scenes, e.ModValues)
	}

	for gridID, grid := range e.Grids {
		grid.Process(dt)
		base := gridmodel.NewGridBase(e.Bus, gridID)
		gridmodel.OutputToBus(grid, &base)
	}
}

// updateModulatorValues snapshots each Nonagon arp's current output
// into the corresponding ModulatorValues slot, setting that slot's
// changed bit whenever the value moved since the previous frame. This
// is what keeps the modulation tree's weighted sum in step 5 from
// being permanently zero: the first modulatorSlots slots carry a real,
// continuously updated signal; the slots above them stay 0.
func (e *Engine) updateModulatorValues() {
	for i := 0; i < modulatorSlots; i++ {
		v := e.Arps.Arp(i).Output()
		if v != e.ModValues.Output[i] {
			e.ModValues.Output[i] = v
			e.ModValues.Changed[i] = true
		} else {
			e.ModValues.Changed[i] = false
		}
	}
}

func (e *Engine) dispatch(msg msgbus.MessageIn, route func(msgbus.MessageIn) (int, bool)) {
	gridID, ok := route(msg)
	if !ok {
		return
	}
	grid, ok := e.Grids[gridID]
	if !ok {
		return
	}
	grid.Apply(messageFromMsgbus(msg))
}

func messageFromMsgbus(msg msgbus.MessageIn) gridmodel.Message {
	switch msg.Mode {
	case msgbus.PadPress, msgbus.PadPressure:
		return gridmodel.NoteMessage(msg.X, msg.Y, uint8(msg.Amount))
	case msgbus.PadRelease:
		return gridmodel.Off(msg.X, msg.Y)
	default:
		return gridmodel.Message{}
	}
}
