// Package modtree implements the recursive encoder modulation tree
// (§4.8), ported from private/src/Encoder.hpp's StateEncoderCell (the
// per-track/per-scene value matrix with its linear or exponential
// min/max mapping) and private/src/EncoderBank.hpp's BankedEncoderCell
// (the recursive modulator/gesture decoration on top of it): each
// parameter holds a per-(track,voice) output blending its own
// scene-blended base value against every active modulator and gesture
// child, recomputed only when the affecting-change bitset says it
// must be.
package modtree

import (
	"math"

	"nonagonengine/internal/scene"
)

const (
	MaxTracks     = 8
	MaxVoices     = 16
	MaxModulators = 15 // BankedEncoderCell::x_numModulators
	MaxGestures   = 16 // BankedEncoderCell::x_numGestureParams
)

// ChangedSet is a fixed bitset over modulator/gesture slot ids,
// compared frame-to-frame to decide which subtrees need recomputation.
// Sized to the larger of MaxModulators/MaxGestures, as the original's
// shared BitSet16 is.
type ChangedSet [MaxGestures]bool

// Intersects reports whether any bit is set in both sets.
func (c ChangedSet) Intersects(mask ChangedSet) bool {
	for i := range c {
		if c[i] && mask[i] {
			return true
		}
	}
	return false
}

// ModulatorValues holds the live external modulation signal for every
// modulator slot this control frame (e.g. a Nonagon arp output or a
// matrix accumulator voltage assigned to that slot) plus the bitset of
// slots whose signal changed since the previous frame. Each modulator
// node's own dialed-in depth is its own Output, computed by recursing
// the tree itself, not supplied here.
type ModulatorValues struct {
	Output  [MaxModulators]float64
	Changed ChangedSet
}

// Gesture is a momentary modifier over a (track, voice) cell; unlike a
// modulator it contributes only while selected/active and is removed by
// GCUnusedModulators once it is active on no track.
type Gesture struct {
	ID     int
	Weight [MaxTracks][MaxVoices]float64
	Active [MaxTracks]bool
}

func (g *Gesture) isUnused() bool {
	for t := 0; t < MaxTracks; t++ {
		if g.Active[t] {
			return false
		}
	}
	return true
}

// Node is a BankedEncoderCell: a StateEncoderCell (per-track,
// per-scene banked value mapped through a linear or exponential
// min/max range) decorated with up to MaxModulators recursive
// modulator cells (each itself a Node) and up to MaxGestures momentary
// gesture cells, plus the affecting-masks that gate recomputation.
type Node struct {
	Min, Max      float64
	Exponential   bool
	logMaxOverMin float64

	Values           [MaxTracks][scene.NumScenes]float64
	PostGestureValue [MaxTracks]float64
	Output           [MaxTracks][MaxVoices]float64

	Gestures   []*Gesture
	Modulators []*Node // recursive BankedEncoderCell children; Slot indexes ModulatorValues
	Slot       int     // this node's index when it is itself used as a modulator

	ModulatorsAffecting ChangedSet
	GesturesAffecting   ChangedSet
	ForceUpdate         bool

	Children []*Node // structural siblings under a bank grouping, independent of modulation

	lastGestureActive [MaxTracks]bool
}

// NewNode returns a zeroed node with a linear [min,max] range ready to
// be wired into a tree. Pass exponential=true for StateEncoderCell's
// min·2^(v·log2(max/min)) mapping instead.
func NewNode(min, max float64, exponential bool) *Node {
	n := &Node{Min: min, Max: max, Exponential: exponential}
	if exponential {
		n.logMaxOverMin = math.Log2(max / min)
	}
	return n
}

// AddModulator wires child as a recursive modulator of n, assigning it
// the next ModulatorValues slot.
func (n *Node) AddModulator(child *Node) {
	child.Slot = len(n.Modulators)
	n.Modulators = append(n.Modulators, child)
}

// AddChild wires a structural sibling parameter beneath this one,
// independent of the modulation tree.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// SceneValue returns n's normalized [0,1] banked value for track,
// blended across the scene manager's current (scene1, scene2, blend)
// (§4.9).
func (n *Node) SceneValue(track int, scenes *scene.Manager) float64 {
	return scenes.Value(&n.Values[track])
}

// Value returns the mapped parameter value for track: linear
// min+normalized·(max−min), or exponential
// min·2^(normalized·log2(max/min)) when Exponential is set
// (StateEncoderCell::GetValue).
func (n *Node) Value(track int, scenes *scene.Manager) float64 {
	normalized := n.SceneValue(track, scenes)
	if n.Exponential {
		return n.Min * math.Pow(2, normalized*n.logMaxOverMin)
	}
	return n.Min + normalized*(n.Max-n.Min)
}

// Process implements §4.8's per-control-frame evaluation: recurse into
// every modulator first (so its Output reflects its own gestures and
// nested modulators), then recompute this node only when forced, or
// when a changed modulator signal intersects this node's affecting
// mask, or a gesture activation changed.
func (n *Node) Process(track int, scenes *scene.Manager, mv *ModulatorValues) {
	for _, mod := range n.Modulators {
		mod.Process(track, scenes, mv)
	}

	gestureChanged := n.gestureActiveChanged(track)

	if n.ForceUpdate || n.ModulatorsAffecting.Intersects(mv.Changed) || gestureChanged {
		if gestureChanged || n.ForceUpdate {
			n.recomputePostGesture(track, scenes)
		}
		n.recomputeOutput(track, mv)
	}

	for _, child := range n.Children {
		child.Process(track, scenes, mv)
	}

	n.ForceUpdate = false
}

func (n *Node) gestureActiveChanged(track int) bool {
	active := false
	for _, g := range n.Gestures {
		if g.Active[track] {
			active = true
			break
		}
	}
	changed := active != n.lastGestureActive[track]
	n.lastGestureActive[track] = active
	return changed
}

func (n *Node) recomputePostGesture(track int, scenes *scene.Manager) {
	value := n.SceneValue(track, scenes)
	for _, g := range n.Gestures {
		if g.Active[track] {
			value += g.Weight[track][0]
		}
	}
	n.PostGestureValue[track] = clamp01(value)
}

// recomputeOutput computes output[track][voice] = base·(1−Σw) +
// Σ(weight·signal) for every voice, where base is the post-gesture
// value, weight is each modulator's own computed depth (its Output),
// and signal is the live external modulation source assigned to that
// modulator's slot (§4.8).
func (n *Node) recomputeOutput(track int, mv *ModulatorValues) {
	base := n.PostGestureValue[track]
	for voice := 0; voice < MaxVoices; voice++ {
		sumWeight := 0.0
		sumContribution := 0.0
		for _, mod := range n.Modulators {
			w := mod.Output[track][voice]
			if w == 0 {
				continue
			}
			sumWeight += w
			sumContribution += w * mv.Output[mod.Slot]
		}
		n.Output[track][voice] = base*(1-sumWeight) + sumContribution
	}
}

// Brightness returns the visualization output in [0,1] described in
// §4.8: the complementary weight against the current track's total
// modulator weight, combined with the active gesture's weight.
func (n *Node) Brightness(track, voice int) float64 {
	sumWeight := 0.0
	for _, mod := range n.Modulators {
		sumWeight += mod.Output[track][voice]
	}
	gestureWeight := 0.0
	for _, g := range n.Gestures {
		if g.Active[track] {
			gestureWeight += g.Weight[track][voice]
		}
	}
	return clamp01(1 - sumWeight + gestureWeight)
}

// Increment applies a delta to the node's banked value for track,
// distributing it across the current scene pair via the scene
// manager's conservation rule, unless a gesture is currently selected
// — in which case the gesture cell is touched instead and
// auto-activated for track, per §4.8's "structural edits" rule.
// Gesture activation is per track only; it does not record a scene.
func (n *Node) Increment(track int, delta float64, scenes *scene.Manager, selectedGesture *Gesture) {
	if selectedGesture != nil {
		selectedGesture.Weight[track][0] = clamp01(selectedGesture.Weight[track][0] + delta)
		selectedGesture.Active[track] = true
		return
	}
	scenes.Write(&n.Values[track], delta)
}

// CopyToScene copies the current scene's blended value into scene s for
// track, activating any gesture active on either blend endpoint
// (§4.8).
func (n *Node) CopyToScene(track, s int, blendedValue float64, activeOnEitherEndpoint []*Gesture) {
	n.Values[track][s] = clamp01(blendedValue)
	for _, g := range activeOnEitherEndpoint {
		g.Active[track] = true
	}
}

// GCUnusedModulators removes gestures and modulator subtrees no longer
// active/used on any track and recomputes affecting masks bottom-up,
// each node after its modulators and children (§4.8's "deselecting
// garbage-collects" rule).
func (n *Node) GCUnusedModulators() {
	keptGestures := n.Gestures[:0]
	for _, g := range n.Gestures {
		if !g.isUnused() {
			keptGestures = append(keptGestures, g)
		}
	}
	n.Gestures = keptGestures

	keptModulators := n.Modulators[:0]
	for _, mod := range n.Modulators {
		mod.GCUnusedModulators()
		if !mod.isUnusedModulator() {
			keptModulators = append(keptModulators, mod)
		}
	}
	n.Modulators = keptModulators
	for i, mod := range n.Modulators {
		mod.Slot = i
	}

	for _, child := range n.Children {
		child.GCUnusedModulators()
	}

	n.recomputeAffectingMasks()
}

// isUnusedModulator mirrors BankedEncoderCell::CanBeGarbageCollected
// for a non-gesture cell: no gestures or nested modulators of its own,
// and every banked value across every track/scene is still zero.
func (n *Node) isUnusedModulator() bool {
	if len(n.Gestures) > 0 || len(n.Modulators) > 0 {
		return false
	}
	for t := 0; t < MaxTracks; t++ {
		for s := 0; s < scene.NumScenes; s++ {
			if n.Values[t][s] != 0 {
				return false
			}
		}
	}
	return true
}

func (n *Node) recomputeAffectingMasks() {
	var modMask, gestMask ChangedSet
	for _, mod := range n.Modulators {
		modMask[mod.Slot] = true
		for i := range mod.ModulatorsAffecting {
			if mod.ModulatorsAffecting[i] {
				modMask[i] = true
			}
		}
	}
	for _, g := range n.Gestures {
		gestMask[g.ID] = true
	}
	for _, child := range n.Children {
		for i := range child.ModulatorsAffecting {
			if child.ModulatorsAffecting[i] {
				modMask[i] = true
			}
		}
		for i := range child.GesturesAffecting {
			if child.GesturesAffecting[i] {
				gestMask[i] = true
			}
		}
	}
	n.ModulatorsAffecting = modMask
	n.GesturesAffecting = gestMask
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
