// Package scene implements the scene manager & blend model (§4.9):
// eight scenes per parameter, a blended read/write view, and a JSON
// scene document encoded/decoded with tidwall/gjson and tidwall/sjson
// (the teacher's stack for ad hoc JSON manipulation without a fixed
// struct schema).
package scene

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"nonagonengine/internal/engineerr"
)

const NumScenes = 8

// Manager holds the current (scene1, scene2, blend) triple and exposes
// blended reads/writes over arbitrary per-scene value arrays.
type Manager struct {
	Scene1, Scene2 int
	Blend          float64

	changed      bool
	changedScene bool
}

// New returns a manager parked on scene 0 with no blend.
func New() *Manager {
	return &Manager{Scene1: 0, Scene2: 0, Blend: 0}
}

// Value computes scene_value(values) = values[s1]·(1−t) + values[s2]·t.
func (m *Manager) Value(values *[NumScenes]float64) float64 {
	t := m.Blend
	return values[m.Scene1]*(1-t) + values[m.Scene2]*t
}

// Write distributes a delta across the blend's two endpoints as
// δ·(1−t) to scene1 and δ·t to scene2, re-balancing onto the
// unclamped endpoint's share when the other clamps to [0,1] so that
// the blended value still moves by (close to) δ.
func (m *Manager) Write(values *[NumScenes]float64, delta float64) {
	t := m.Blend
	d1 := delta * (1 - t)
	d2 := delta * t

	raw1 := values[m.Scene1] + d1
	v1 := clamp01(raw1)
	values[m.Scene1] = v1

	raw2 := values[m.Scene2] + d2
	v2 := clamp01(raw2)
	values[m.Scene2] = v2

	clamped1 := v1 != raw1
	clamped2 := v2 != raw2
	if clamped1 && !clamped2 {
		values[m.Scene2] = clamp01(values[m.Scene2] + (raw1 - v1))
	}
	if clamped2 && !clamped1 {
		values[m.Scene1] = clamp01(values[m.Scene1] + (raw2 - v2))
	}
}

// ChangeScene moves whichever blend endpoint is nearer the current
// blend to target, or — when shift is held — copies the current
// blended value into target and moves that endpoint there instead
// (§4.9).
func (m *Manager) ChangeScene(values *[NumScenes]float64, target int, shift bool) {
	if shift {
		blended := m.Value(values)
		values[target] = blended
	}

	if m.Blend <= 0.5 {
		m.Scene1 = target
	} else {
		m.Scene2 = target
	}
	m.changed = true
	m.changedScene = true
}

// SetBlend updates the blend fraction in [0,1].
func (m *Manager) SetBlend(t float64) {
	m.Blend = clamp01(t)
	m.changed = true
}

// Changed reports and clears the per-frame changed flag.
func (m *Manager) Changed() bool {
	c := m.changed
	m.changed = false
	return c
}

// ChangedScene reports and clears the changed-scene flag, which forces
// a modulators/gestures-affecting recompute downstream (§4.9).
func (m *Manager) ChangedScene() bool {
	c := m.changedScene
	m.changedScene = false
	return c
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// Document is the JSON-encodable scene state: per-parameter scene
// arrays keyed by a dotted path, plus the manager's own endpoints.
type Document struct {
	Scene1 int
	Scene2 int
	Blend  float64
	Values map[string][NumScenes]float64
}

// Encode renders the document as JSON via sjson, building the object
// incrementally the way the teacher's config/scene writers do rather
// than marshaling a fixed struct.
func Encode(m *Manager, values map[string][NumScenes]float64) (string, error) {
	json := "{}"
	var err error
	json, err = sjson.Set(json, "scene1", m.Scene1)
	if err != nil {
		return "", err
	}
	json, err = sjson.Set(json, "scene2", m.Scene2)
	if err != nil {
		return "", err
	}
	json, err = sjson.Set(json, "blend", m.Blend)
	if err != nil {
		return "", err
	}
	for path, arr := range values {
		json, err = sjson.Set(json, "values."+path, arr)
		if err != nil {
			return "", err
		}
	}
	return json, nil
}

// Decode parses a scene document with gjson, applying present fields to
// m and values and leaving anything missing or malformed untouched —
// per engineerr.ErrSceneDocumentInvalid's contract, decode errors are
// informational only.
func Decode(json string, m *Manager, values map[string][NumScenes]float64) error {
	if !gjson.Valid(json) {
		return fmt.Errorf("%w: not valid json", engineerr.ErrSceneDocumentInvalid)
	}

	if v := gjson.Get(json, "scene1"); v.Type == gjson.Number && v.Int() >= 0 && v.Int() < NumScenes {
		m.Scene1 = int(v.Int())
	}
	if v := gjson.Get(json, "scene2"); v.Type == gjson.Number && v.Int() >= 0 && v.Int() < NumScenes {
		m.Scene2 = int(v.Int())
	}
	if v := gjson.Get(json, "blend"); v.Type == gjson.Number {
		m.Blend = clamp01(v.Float())
	}

	gjson.Get(json, "values").ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		arr := values[key.String()]
		i := 0
		value.ForEach(func(_, elem gjson.Result) bool {
			if i < NumScenes {
				if elem.Type == gjson.Number {
					arr[i] = elem.Float()
				}
				i++
			}
			return true
		})
		values[key.String()] = arr
		return true
	})

	return nil
}
