package midicodec

import "nonagonengine/internal/msgbus"

// RouteType names the decoder a route id selects (§4.12).
type RouteType int

const (
	RouteLaunchPad RouteType = iota
	RouteEncoder
	RouteParam14
	RouteParam7
)

// RawMIDI is an undecoded MIDI triple tagged with the route id it
// arrived on.
type RawMIDI struct {
	RouteID  int
	Channel  int
	Status   byte // 0x80 note-off, 0x90 note-on, 0xB0 CC
	Data1    int
	Data2    uint8
}

// Router maps route ids to route types, configured at startup by the
// host, and decodes RawMIDI into msgbus.MessageIn records.
type Router struct {
	routes map[int]RouteType
	shape  LaunchpadShape
}

// NewRouter returns a router with no routes configured.
func NewRouter(shape LaunchpadShape) *Router {
	return &Router{routes: make(map[int]RouteType), shape: shape}
}

// Configure assigns routeID's type.
func (r *Router) Configure(routeID int, t RouteType) {
	r.routes[routeID] = t
}

// Configured reports whether routeID has been assigned a type, letting
// a caller treat the router's configuration as the source of truth for
// which route ids are live rather than keeping a second table in sync.
func (r *Router) Configured(routeID int) bool {
	_, ok := r.routes[routeID]
	return ok
}

// RouteTypeFromString parses a config-file route type name; ok is
// false for anything unrecognized.
func RouteTypeFromString(s string) (RouteType, bool) {
	switch s {
	case "launchpad":
		return RouteLaunchPad, true
	case "encoder":
		return RouteEncoder, true
	case "param14":
		return RouteParam14, true
	case "param7":
		return RouteParam7, true
	default:
		return 0, false
	}
}

// Decode dispatches raw to the decoder its route id selects, producing
// a timestamped MessageIn.
func (r *Router) Decode(raw RawMIDI, timestamp uint64) (msgbus.MessageIn, bool) {
	t, ok := r.routes[raw.RouteID]
	if !ok {
		return msgbus.MessageIn{}, false
	}

	switch t {
	case RouteLaunchPad:
		return r.decodeLaunchpad(raw, timestamp)
	case RouteEncoder:
		return r.decodeEncoder(raw, timestamp)
	case RouteParam14, RouteParam7:
		return r.decodeParam(raw, timestamp, t)
	default:
		return msgbus.MessageIn{}, false
	}
}

func (r *Router) decodeLaunchpad(raw RawMIDI, ts uint64) (msgbus.MessageIn, bool) {
	ev, ok := DecodeLaunchpad(raw.Data1, raw.Data2, r.shape)
	if !ok {
		return msgbus.MessageIn{}, false
	}
	mode := msgbus.PadPress
	if ev.Velocity == 0 {
		mode = msgbus.PadRelease
	} else if raw.Status == 0xA0 {
		mode = msgbus.PadPressure
	}
	return msgbus.MessageIn{
		Timestamp: ts,
		RouteID:   raw.RouteID,
		Mode:      mode,
		X:         ev.X,
		Y:         ev.Y,
		Amount:    int64(ev.Velocity),
	}, true
}

func (r *Router) decodeEncoder(raw RawMIDI, ts uint64) (msgbus.MessageIn, bool) {
	x, y := PositionForEncoderCC(raw.Data1)
	switch EncoderChannel(raw.Channel) {
	case ChannelIncDec:
		return msgbus.MessageIn{
			Timestamp: ts,
			RouteID:   raw.RouteID,
			Mode:      msgbus.EncoderIncDec,
			X:         x,
			Y:         y,
			Amount:    DecodeEncoderIncDec(raw.Data2),
		}, true
	default:
		mode := msgbus.EncoderPush
		if raw.Data2 == 0 {
			mode = msgbus.EncoderRelease
		}
		return msgbus.MessageIn{
			Timestamp: ts,
			RouteID:   raw.RouteID,
			Mode:      mode,
			X:         x,
			Y:         y,
			Amount:    int64(raw.Data2),
		}, true
	}
}

func (r *Router) decodeParam(raw RawMIDI, ts uint64, t RouteType) (msgbus.MessageIn, bool) {
	mode := msgbus.ParamSet7
	if t == RouteParam14 {
		mode = msgbus.ParamSet14
	}
	return msgbus.MessageIn{
		Timestamp: ts,
		RouteID:   raw.RouteID,
		Mode:      mode,
		Amount:    int64(raw.Data2),
	}, true
}
