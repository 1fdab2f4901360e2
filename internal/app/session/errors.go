package session

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19tube/internal/app/playback"
	"github.com/osa030/19tube/internal/app/session/registry"
	"github.com/osa030/19tube/internal/app/undo"
	"github.com/osa030/19tube/internal/domain/playlist"
)

// Not found
var (
	ErrVideoNotFound    = errors.New("video does not exist")
	ErrPlaylistNotFound = registry.ErrPlaylistNotFound
	ErrNotInPlaylist    = playlist.ErrNotPresent
)

// Conflict
var (
	ErrVideoFlagged      = errors.New("video is currently flagged")
	ErrAlreadyFlagged    = errors.New("video is already flagged")
	ErrNotFlagged        = errors.New("video is not flagged")
	ErrPlaylistExists    = registry.ErrPlaylistExists
	ErrAlreadyInPlaylist = playlist.ErrAlreadyPresent
)

// State
var (
	ErrNothingPlaying    = playback.ErrNothingPlaying
	ErrNotPaused         = playback.ErrNotPaused
	ErrNoVideosAvailable = errors.New("no videos available")
	ErrPlaylistEmpty     = errors.New("playlist is empty")
	ErrNoPlaylistPlaying = errors.New("no playlist is currently playing")
	ErrNoNextVideo       = playlist.ErrNoNextItem
	ErrSessionClosed     = errors.New("session is closed")
)

// Validation
var (
	ErrInvalidRating       = errors.New("invalid rating")
	ErrInvalidPlaylistName = registry.ErrInvalidName
)

// Undo
var (
	ErrNothingToUndo   = undo.ErrNothingToUndo
	ErrConsecutiveUndo = undo.ErrConsecutiveUndo
)

// Kind partitions command failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindState
	KindValidation
	KindUndo
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	case KindValidation:
		return "validation"
	case KindUndo:
		return "undo"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindNotFound, []error{ErrVideoNotFound, ErrPlaylistNotFound, ErrNotInPlaylist}},
	{KindConflict, []error{ErrVideoFlagged, ErrAlreadyFlagged, ErrNotFlagged, ErrPlaylistExists, ErrAlreadyInPlaylist}},
	{KindState, []error{ErrNothingPlaying, ErrNotPaused, ErrNoVideosAvailable, ErrPlaylistEmpty, ErrNoPlaylistPlaying, ErrNoNextVideo, ErrSessionClosed}},
	{KindValidation, []error{ErrInvalidRating, ErrInvalidPlaylistName}},
	{KindUndo, []error{ErrNothingToUndo, ErrConsecutiveUndo}},
}

// KindOf classifies an error returned by the Engine.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return KindUnknown
}

// FlaggedError reports a command rejected because the video is flagged.
type FlaggedError struct {
	VideoID string
	Reason  string
}

func (e *FlaggedError) Error() string {
	return fmt.Sprintf("video %s is currently flagged (reason: %s)", e.VideoID, e.Reason)
}

// Is reports whether target is ErrVideoFlagged.
func (e *FlaggedError) Is(target error) bool {
	return target == ErrVideoFlagged
}

// RatingError reports a rejected rating input.
type RatingError struct {
	Input      string
	NotANumber bool
	Min        float64
	Max        float64
}

func (e *RatingError) Error() string {
	if e.NotANumber {
		return fmt.Sprintf("video rating can only be a number: %q", e.Input)
	}
	return fmt.Sprintf("video rating can only be in a range of %g-%g: %q", e.Min, e.Max, e.Input)
}

// Is reports whether target is ErrInvalidRating.
func (e *RatingError) Is(target error) bool {
	return target == ErrInvalidRating
}
