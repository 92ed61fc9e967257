package geo

import "sumaichat/internal/model"

// Reduce applies an extraction outcome to a filter state and returns the
// new state. It is pure: the input state is never mutated, price and
// room-type constraints pass through untouched, and applying the same
// extraction twice yields the same state as applying it once.
//
//   - Reset clears the area only.
//   - Area replaces the area wholly, never merged with a prior area.
//   - NoMatch is the identity.
func Reduce(state model.FilterState, ex Extraction) model.FilterState {
	switch ex.Kind {
	case Reset:
		state.Area = ""
	case Area:
		state.Area = ex.Path
	}
	return state
}

// Apply is the single consolidated entry point for one turn: it extracts
// the location signal from the message and reduces it into the current
// filter state. All UI surfaces call this; none re-implement matching.
func Apply(message string, state model.FilterState) (Extraction, model.FilterState) {
	ex := Extract(message)
	return ex, Reduce(state, ex)
}
