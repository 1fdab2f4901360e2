package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19tube/internal/app/session"
	"github.com/osa030/19tube/internal/domain/video"
)

// reasons maps engine errors to the text shown after a command prefix.
var reasons = []struct {
	err  error
	text string
}{
	{session.ErrVideoNotFound, "Video does not exist"},
	{session.ErrPlaylistNotFound, "Playlist does not exist"},
	{session.ErrNotInPlaylist, "Video is not in playlist"},
	{session.ErrAlreadyFlagged, "Video is already flagged"},
	{session.ErrNotFlagged, "Video is not flagged"},
	{session.ErrPlaylistExists, "A playlist with the same name already exists"},
	{session.ErrAlreadyInPlaylist, "Video already added"},
	{session.ErrNothingPlaying, "No video is currently playing"},
	{session.ErrNotPaused, "Video is not paused"},
	{session.ErrNoVideosAvailable, "No videos available"},
	{session.ErrPlaylistEmpty, "Playlist is empty"},
	{session.ErrNoPlaylistPlaying, "No playlist is currently playing"},
	{session.ErrNoNextVideo, "No next video available"},
	{session.ErrInvalidPlaylistName, "Playlist name must not be blank"},
	{session.ErrSessionClosed, "Session has ended"},
}

// describe returns the user-facing reason for an engine error.
func describe(err error) string {
	var flagged *session.FlaggedError
	if errors.As(err, &flagged) {
		return fmt.Sprintf("Video is currently flagged (reason: %s)", flagged.Reason)
	}

	var rating *session.RatingError
	if errors.As(err, &rating) {
		if rating.NotANumber {
			return "Video rating can only be a number"
		}
		return fmt.Sprintf("Video rating can only be in a range of %g-%g", rating.Min, rating.Max)
	}

	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.text
		}
	}
	return err.Error()
}

func (s *Shell) fail(prefix string, err error) {
	s.printf("%s: %s", prefix, describe(err))
}

// videoInfo formats a video as "Title (id) [tags]".
func videoInfo(v *video.Video) string {
	return fmt.Sprintf("%s (%s) [%s]", v.Title, v.ID, strings.Join(v.Tags, " "))
}

func flaggedSuffix(v *video.Video) string {
	if !v.Flagged {
		return ""
	}
	return fmt.Sprintf(" - FLAGGED (reason: %s)", v.FlagReason)
}

func formatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func ratingLine(v *video.Video) string {
	info := videoInfo(v)
	switch {
	case !v.Flagged && v.IsRated():
		return fmt.Sprintf("  %s, Rating: %s", info, formatRating(v.AverageRating()))
	case !v.Flagged:
		return fmt.Sprintf("  %s - Video is not yet rated.", info)
	case v.IsRated():
		return fmt.Sprintf("  %s, Rating: %s and FLAGGED (reason: %s)", info, formatRating(v.AverageRating()), v.FlagReason)
	default:
		return fmt.Sprintf("  %s - Video is not yet rated and FLAGGED (reason: %s)", info, v.FlagReason)
	}
}
