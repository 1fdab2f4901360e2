package session

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/19tube/internal/app/undo"
)

// revert runs the inverse of a recorded action. The internal commands
// it calls return actions of their own, which are discarded.
func (e *Engine) revert(action undo.Action) (Result, error) {
	var (
		res Result
		err error
	)

	switch a := action.(type) {
	case undo.PlayVideo, undo.PlayRandom, undo.PlayPlaylist:
		res, _, err = e.stop()

	case undo.StopVideo:
		// A stop inside a playlist restarts the playlist from its first video
		if a.Playlist != "" {
			res, _, err = e.playPlaylist(a.Playlist)
		} else {
			res, _, err = e.play(a.VideoID)
		}

	case undo.PauseVideo:
		res, _, err = e.resume()

	case undo.ResumeVideo:
		res, _, err = e.pause()

	case undo.CreatePlaylist:
		res, _, err = e.deletePlaylist(a.Name)

	case undo.AddToPlaylist:
		res, _, err = e.removeFromPlaylist(a.Playlist, a.VideoID)

	case undo.RemoveFromPlaylist:
		res, err = e.reinsert(a)

	case undo.ClearPlaylist:
		res, err = e.restorePlaylist(a.Before)

	case undo.DeletePlaylist:
		p, restoreErr := e.playlists.Restore(a.Before)
		if restoreErr != nil {
			return Result{}, restoreErr
		}
		if a.WasActive {
			e.playback.Attach(p)
		}
		res = Result{Playlist: p}

	case undo.FlagVideo:
		res, _, err = e.allow(a.VideoID)
		if err == nil && a.Interrupted != nil {
			res.Events = append(res.Events, e.playback.Restore(*a.Interrupted)...)
		}

	case undo.AllowVideo:
		res, _, err = e.flag(a.VideoID, a.Reason)

	default:
		panic(errors.AssertionFailedf("undo: unhandled action: %T", action))
	}

	if err != nil {
		return Result{}, errors.Wrapf(err, "undo %s", action.Kind())
	}
	return res, nil
}
