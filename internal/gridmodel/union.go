package gridmodel

import "nonagonengine/internal/color"

const maxChannels = 8

// Union is a set of independent controller channels, each with its own
// page index and menu grid (§4.5); changing a channel's page sweeps an
// all-off release first to avoid stuck virtual notes.
type Union struct {
	grids       []*Grid
	menus       []*Grid
	pageIx      [maxChannels]int
	lastPageIx  [maxChannels]int
	numChannels int
}

// NewUnion creates an empty union.
func NewUnion() *Union {
	return &Union{}
}

// AddChannel registers a new channel's page grid and menu grid.
func (u *Union) AddChannel(page, menu *Grid) int {
	ch := u.numChannels
	u.grids = append(u.grids, page)
	u.menus = append(u.menus, menu)
	u.numChannels++
	return ch
}

// SetPage changes channel ch's active page index, sweeping an all-off
// release on the previously active page first.
func (u *Union) SetPage(ch, page int) {
	if ch < 0 || ch >= u.numChannels {
		return
	}
	if u.pageIx[ch] != page {
		AllOff(u.grids[ch])
		u.lastPageIx[ch] = u.pageIx[ch]
		u.pageIx[ch] = page
	}
}

// Apply dispatches msg to channel ch's menu grid, then its active page.
func (u *Union) Apply(ch int, msg Message) {
	if ch < 0 || ch >= u.numChannels {
		return
	}
	u.menus[ch].Apply(msg)
	u.grids[ch].Apply(msg)
}

// GetColor combines channel ch's menu layer over its active page.
func (u *Union) GetColor(ch, x, y int) color.Color {
	if ch < 0 || ch >= u.numChannels {
		return color.Off
	}
	c := u.menus[ch].GetColor(x, y)
	if !c.Equal(color.Off) {
		return c
	}
	return u.grids[ch].GetColor(x, y)
}
