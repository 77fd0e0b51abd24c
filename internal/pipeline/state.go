package pipeline

// State is a phase of a capture run.
type State int

const (
	// StateNotStarted is the initial state.
	StateNotStarted State = iota
	// StateLaunching starts the target process (or skips it when attaching).
	StateLaunching
	// StateAwaitingWindow polls for the target window.
	StateAwaitingWindow
	// StateNavigating clicks the navigation element of the current section.
	StateNavigating
	// StateCapturing grabs and saves the current section.
	StateCapturing
	// StateDone means every section was attempted.
	StateDone
	// StateFailed means the run was aborted.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateLaunching:
		return "launching"
	case StateAwaitingWindow:
		return "awaiting-window"
	case StateNavigating:
		return "navigating"
	case StateCapturing:
		return "capturing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
