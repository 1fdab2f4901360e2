package playback

import "github.com/osa030/19tube/internal/domain/video"

// EventType represents a playback event type.
type EventType int

const (
	EventVideoStarted    EventType = iota // Video started playing
	EventVideoStopped                     // Video was stopped
	EventStateChanged                     // Playback state changed (pause/resume)
	EventPlaylistStarted                  // Playlist playback started
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventVideoStarted:
		return "video_started"
	case EventVideoStopped:
		return "video_stopped"
	case EventStateChanged:
		return "state_changed"
	case EventPlaylistStarted:
		return "playlist_started"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type     EventType
	Video    *video.Video // Video concerned (nil for playlist events)
	State    State        // Playback state after the event
	Playlist string       // Playlist display name, if any
}
