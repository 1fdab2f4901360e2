// Package undo provides the single-slot undo ledger and the reversible
// action descriptors it records.
package undo

import (
	"github.com/osa030/19tube/internal/app/playback"
	"github.com/osa030/19tube/internal/domain/playlist"
)

// Kind identifies a reversible command.
type Kind int

const (
	KindPlayVideo Kind = iota
	KindStopVideo
	KindPlayRandom
	KindPauseVideo
	KindResumeVideo
	KindCreatePlaylist
	KindAddToPlaylist
	KindRemoveFromPlaylist
	KindClearPlaylist
	KindDeletePlaylist
	KindFlagVideo
	KindAllowVideo
	KindPlayPlaylist
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayVideo:
		return "play_video"
	case KindStopVideo:
		return "stop_video"
	case KindPlayRandom:
		return "play_random"
	case KindPauseVideo:
		return "pause_video"
	case KindResumeVideo:
		return "resume_video"
	case KindCreatePlaylist:
		return "create_playlist"
	case KindAddToPlaylist:
		return "add_to_playlist"
	case KindRemoveFromPlaylist:
		return "remove_from_playlist"
	case KindClearPlaylist:
		return "clear_playlist"
	case KindDeletePlaylist:
		return "delete_playlist"
	case KindFlagVideo:
		return "flag_video"
	case KindAllowVideo:
		return "allow_video"
	case KindPlayPlaylist:
		return "play_playlist"
	default:
		return "unknown"
	}
}

// Action describes a completed command with what is needed to invert it.
// The set of implementations is closed.
type Action interface {
	Kind() Kind
	action()
}

// PlayVideo records a play.
type PlayVideo struct {
	VideoID string
}

// StopVideo records a stop. Playlist is empty when no playlist was active.
type StopVideo struct {
	VideoID  string
	Playlist string
}

// PlayRandom records a random play.
type PlayRandom struct {
	VideoID string
}

// PauseVideo records a pause.
type PauseVideo struct {
	VideoID string
}

// ResumeVideo records a resume.
type ResumeVideo struct {
	VideoID string
}

// CreatePlaylist records a playlist creation.
type CreatePlaylist struct {
	Name string
}

// AddToPlaylist records a video added to a playlist.
type AddToPlaylist struct {
	Playlist string
	VideoID  string
}

// RemoveFromPlaylist records a video removed from a playlist.
// Detached is set when the removed video was playing from that playlist.
type RemoveFromPlaylist struct {
	Playlist string
	VideoID  string
	Index    int
	Detached bool
}

// ClearPlaylist records a clear.
type ClearPlaylist struct {
	Before playlist.Snapshot
}

// DeletePlaylist records a deletion. WasActive is set when playback
// was associated with the playlist.
type DeletePlaylist struct {
	Before    playlist.Snapshot
	WasActive bool
}

// FlagVideo records a flag. Interrupted holds the playback the flag
// stopped, if any.
type FlagVideo struct {
	VideoID     string
	Reason      string
	Interrupted *playback.Snapshot
}

// AllowVideo records a flag removal with the reason that was cleared.
type AllowVideo struct {
	VideoID string
	Reason  string
}

// PlayPlaylist records a playlist play.
type PlayPlaylist struct {
	Name string
}

func (PlayVideo) Kind() Kind          { return KindPlayVideo }
func (StopVideo) Kind() Kind          { return KindStopVideo }
func (PlayRandom) Kind() Kind         { return KindPlayRandom }
func (PauseVideo) Kind() Kind         { return KindPauseVideo }
func (ResumeVideo) Kind() Kind        { return KindResumeVideo }
func (CreatePlaylist) Kind() Kind     { return KindCreatePlaylist }
func (AddToPlaylist) Kind() Kind      { return KindAddToPlaylist }
func (RemoveFromPlaylist) Kind() Kind { return KindRemoveFromPlaylist }
func (ClearPlaylist) Kind() Kind      { return KindClearPlaylist }
func (DeletePlaylist) Kind() Kind     { return KindDeletePlaylist }
func (FlagVideo) Kind() Kind          { return KindFlagVideo }
func (AllowVideo) Kind() Kind         { return KindAllowVideo }
func (PlayPlaylist) Kind() Kind       { return KindPlayPlaylist }

func (PlayVideo) action()          {}
func (StopVideo) action()          {}
func (PlayRandom) action()         {}
func (PauseVideo) action()         {}
func (ResumeVideo) action()        {}
func (CreatePlaylist) action()     {}
func (AddToPlaylist) action()      {}
func (RemoveFromPlaylist) action() {}
func (ClearPlaylist) action()      {}
func (DeletePlaylist) action()     {}
func (FlagVideo) action()          {}
func (AllowVideo) action()         {}
func (PlayPlaylist) action()       {}
