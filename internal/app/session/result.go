package session

import (
	"github.com/osa030/19tube/internal/app/playback"
	"github.com/osa030/19tube/internal/app/undo"
	"github.com/osa030/19tube/internal/domain/playlist"
	"github.com/osa030/19tube/internal/domain/video"
)

// Status qualifies a successful command.
type Status int

const (
	StatusOK            Status = iota
	StatusAlreadyPaused        // Pause on a paused video; nothing changed
	StatusNoSelection          // Search selection token did not pick a candidate
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAlreadyPaused:
		return "already_paused"
	case StatusNoSelection:
		return "no_selection"
	default:
		return "unknown"
	}
}

// Result is the outcome of a successful command.
type Result struct {
	Status Status

	// Subject of the command, when it has one
	Video    *video.Video
	Playlist *playlist.Playlist

	// Playback transitions in the order they happened
	Events []playback.Event

	// Reason is the flag reason set or cleared by flag and allow.
	Reason string

	// Rating is the average rating after a rate command.
	Rating float64

	// Reverted is the action an undo inverted. Nil for other commands.
	Reverted undo.Action
}

// NowPlaying describes the loaded video.
type NowPlaying struct {
	Video  *video.Video
	Paused bool

	// Playlist is empty when playback is not associated with a playlist.
	// Position is 1-based.
	Playlist string
	Position int
	Total    int
}

// PlaylistView lists a playlist's videos in order.
type PlaylistView struct {
	Name   string
	Videos []*video.Video
	Cursor int
}
