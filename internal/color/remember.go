package color

// RememberTable tracks the last color sent for each virtual coordinate so
// writers can suppress redundant updates. Shared by the delta-compressed
// event codec (§4.2) and the Launchpad sysex encoder (§4.12), both of
// which need exactly this "did this (x,y) already have this color"
// lookup — one shared type per SPEC_FULL's color package consolidation.
//
// Virtual coordinates run x in [-1,9], y in [-2,9] (§3); the table keys
// its maps by the raw (x,y) pair, negative values included.
type RememberTable struct {
	values map[[2]int]Color
	set    map[[2]int]bool
}

// NewRememberTable creates an empty table.
func NewRememberTable() *RememberTable {
	return &RememberTable{
		values: make(map[[2]int]Color),
		set:    make(map[[2]int]bool),
	}
}

// Remember reports whether (x,y) already holds c; if not, it records c as
// the new remembered value and returns false (caller should not suppress).
// If it does already hold c, it returns true (caller should suppress).
func (t *RememberTable) Remember(x, y int, c Color) bool {
	key := [2]int{x, y}
	if t.set[key] && t.values[key].Equal(c) {
		return true
	}
	t.values[key] = c
	t.set[key] = true
	return false
}

// Clear forgets every remembered color, forcing the next write for every
// coordinate through.
func (t *RememberTable) Clear() {
	t.values = make(map[[2]int]Color)
	t.set = make(map[[2]int]bool)
}
