// Package playback provides the playback state machine.
package playback

// State represents the playback state.
type State int

const (
	StateStopped State = iota // No video playing
	StatePlaying              // Video is playing
	StatePaused               // Video is paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// IsActive returns true if a video is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}
