package route

// History is the navigation stack behind the back action. It always holds at
// least one location.
type History struct {
	stack []Location
}

// NewHistory starts a history at start.
func NewHistory(start Location) *History {
	return &History{stack: []Location{start}}
}

// Current returns the top of the stack.
func (h *History) Current() Location {
	return h.stack[len(h.stack)-1]
}

// Push navigates to loc. Pushing the current location is a no-op.
func (h *History) Push(loc Location) {
	if h.Current().Equal(loc) {
		return
	}
	h.stack = append(h.stack, loc)
}

// Replace swaps the current entry without adding a step.
func (h *History) Replace(loc Location) {
	h.stack[len(h.stack)-1] = loc
}

// Back pops the current entry and returns the one beneath it. With a single
// entry it returns false and leaves the stack alone.
func (h *History) Back() (Location, bool) {
	if len(h.stack) <= 1 {
		return h.Current(), false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.Current(), true
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.stack)
}
