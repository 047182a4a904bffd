package midicodec

import "nonagonengine/internal/color"

// YaeltexHeader is the fixed 8-byte sysex header preceding Yaeltex
// per-channel color blocks (§4.12).
var YaeltexHeader = [8]byte{0xF0, 0x00, 0x21, 0x7B, 0x01, 0x00, 0x00, 0x01}

// YaeltexCell tracks one cell's cooldown counter so writes to it are
// throttled and don't flood the device.
type YaeltexCell struct {
	lastColor color.Color
	cooldown  int
	written   bool
}

const yaeltexCooldownFrames = 2

// Tick decrements the cooldown counter; call once per control frame.
func (c *YaeltexCell) Tick() {
	if c.cooldown > 0 {
		c.cooldown--
	}
}

// EncodeYaeltexBlock appends a (cc, r/2, g/2, b/2) record for cc if c's
// color changed and its cooldown has expired, returning the
// accumulated byte slice and whether a record was appended.
func (c *YaeltexCell) EncodeYaeltexBlock(buf []byte, cc int, col color.Color) ([]byte, bool) {
	if c.written && col == c.lastColor {
		return buf, false
	}
	if c.cooldown > 0 {
		return buf, false
	}
	buf = append(buf, byte(cc), col.R/2, col.G/2, col.B/2)
	c.lastColor = col
	c.written = true
	c.cooldown = yaeltexCooldownFrames
	return buf, true
}

// EncodeYaeltexMessage wraps accumulated per-cell blocks with the fixed
// header and a terminating 0xF7.
func EncodeYaeltexMessage(blocks []byte) []byte {
	msg := make([]byte, 0, len(YaeltexHeader)+len(blocks)+1)
	msg = append(msg, YaeltexHeader[:]...)
	msg = append(msg, blocks...)
	msg = append(msg, 0xF7)
	return msg
}

// LaunchpadSysexHeader is the fixed 7-byte header for Launchpad sysex
// color-update messages.
var LaunchpadSysexHeader = [7]byte{0xF0, 0x00, 0x20, 0x29, 0x02, 0x0D, 0x03}

// LaunchpadRemembered tracks the last color sent for every grid
// coordinate (via the shared color.RememberTable) so unchanged cells
// are suppressed, and the bus epoch last observed so a fully idle frame
// short-circuits without touching any cell.
type LaunchpadRemembered struct {
	table     *color.RememberTable
	lastEpoch uint64
	haveEpoch bool
}

// NewLaunchpadRemembered returns an empty remembered-state tracker.
func NewLaunchpadRemembered() *LaunchpadRemembered {
	return &LaunchpadRemembered{table: color.NewRememberTable()}
}

// EncodeLaunchpadFrame builds the sysex message for every changed cell
// in cells (keyed by grid x,y → color), short-circuiting to nil when
// epoch matches the last epoch seen.
func (r *LaunchpadRemembered) EncodeLaunchpadFrame(epoch uint64, cells map[[2]int]color.Color) []byte {
	if r.haveEpoch && epoch == r.lastEpoch {
		return nil
	}
	r.lastEpoch = epoch
	r.haveEpoch = true

	var records []byte
	for xy, c := range cells {
		if r.table.Remember(xy[0], xy[1], c) {
			continue
		}
		note := NoteForPosition(xy[0], xy[1])
		records = append(records, 3, byte(note), c.R/2, c.G/2, c.B/2)
	}
	if len(records) == 0 {
		return nil
	}

	msg := make([]byte, 0, len(LaunchpadSysexHeader)+len(records)+1)
	msg = append(msg, LaunchpadSysexHeader[:]...)
	msg = append(msg, records...)
	msg = append(msg, 0xF7)
	return msg
}
