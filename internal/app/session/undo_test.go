package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19tube/internal/app/undo"
)

// observable is everything a user can see about the session.
type observable struct {
	Playing   string
	Paused    bool
	Playlist  string
	Position  int
	Playlists map[string][]string
	Cursors   map[string]int
	Flags     map[string]string
	Ratings   map[string][]float64
}

func observe(t *testing.T, e *Engine) observable {
	t.Helper()
	o := observable{
		Playlists: make(map[string][]string),
		Cursors:   make(map[string]int),
		Flags:     make(map[string]string),
		Ratings:   make(map[string][]float64),
	}
	if np, ok := e.NowPlaying(); ok {
		o.Playing = np.Video.ID
		o.Paused = np.Paused
		o.Playlist = np.Playlist
		o.Position = np.Position
	}
	for _, name := range e.Playlists() {
		view, err := e.Playlist(name)
		require.NoError(t, err)
		ids := make([]string, len(view.Videos))
		for i, v := range view.Videos {
			ids[i] = v.ID
		}
		o.Playlists[view.Name] = ids
		o.Cursors[view.Name] = view.Cursor
	}
	for _, v := range e.Videos() {
		if v.Flagged {
			o.Flags[v.ID] = v.FlagReason
		}
		if len(v.Ratings) > 0 {
			o.Ratings[v.ID] = append([]float64(nil), v.Ratings...)
		}
	}
	return o
}

// withFun creates playlist Fun holding dogs, cats and google.
func withFun(t *testing.T, e *Engine) {
	t.Helper()
	_, err := e.CreatePlaylist("Fun")
	require.NoError(t, err)
	for _, id := range []string{dogsID, catsID, googleID} {
		_, err := e.AddToPlaylist("Fun", id)
		require.NoError(t, err)
	}
}

func must(t *testing.T, _ Result, err error) {
	t.Helper()
	require.NoError(t, err)
}

func TestEngine_UndoRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, e *Engine)
		command func(e *Engine) (Result, error)
		kind    undo.Kind
	}{
		{
			name:    "play",
			setup:   func(t *testing.T, e *Engine) {},
			command: func(e *Engine) (Result, error) { return e.Play(dogsID) },
			kind:    undo.KindPlayVideo,
		},
		{
			name: "stop",
			setup: func(t *testing.T, e *Engine) {
				res, err := e.Play(catsID)
				must(t, res, err)
			},
			command: (*Engine).Stop,
			kind:    undo.KindStopVideo,
		},
		{
			name: "stop at the start of a playlist",
			setup: func(t *testing.T, e *Engine) {
				withFun(t, e)
				res, err := e.PlayPlaylist("Fun")
				must(t, res, err)
			},
			command: (*Engine).Stop,
			kind:    undo.KindStopVideo,
		},
		{
			name:    "play random",
			setup:   func(t *testing.T, e *Engine) {},
			command: (*Engine).PlayRandom,
			kind:    undo.KindPlayRandom,
		},
		{
			name: "pause",
			setup: func(t *testing.T, e *Engine) {
				res, err := e.Play(dogsID)
				must(t, res, err)
			},
			command: (*Engine).Pause,
			kind:    undo.KindPauseVideo,
		},
		{
			name: "resume",
			setup: func(t *testing.T, e *Engine) {
				res, err := e.Play(dogsID)
				must(t, res, err)
				res, err = e.Pause()
				must(t, res, err)
			},
			command: (*Engine).Resume,
			kind:    undo.KindResumeVideo,
		},
		{
			name:    "create playlist",
			setup:   withFun,
			command: func(e *Engine) (Result, error) { return e.CreatePlaylist("Other") },
			kind:    undo.KindCreatePlaylist,
		},
		{
			name:    "add to playlist",
			setup:   withFun,
			command: func(e *Engine) (Result, error) { return e.AddToPlaylist("fun", nothingID) },
			kind:    undo.KindAddToPlaylist,
		},
		{
			name: "remove from the middle of a playing playlist",
			setup: func(t *testing.T, e *Engine) {
				withFun(t, e)
				res, err := e.PlayPlaylist("Fun")
				must(t, res, err)
				res, err = e.NextInPlaylist()
				must(t, res, err)
				res, err = e.NextInPlaylist()
				must(t, res, err)
			},
			command: func(e *Engine) (Result, error) { return e.RemoveFromPlaylist("Fun", catsID) },
			kind:    undo.KindRemoveFromPlaylist,
		},
		{
			name: "remove the playing playlist video",
			setup: func(t *testing.T, e *Engine) {
				withFun(t, e)
				res, err := e.PlayPlaylist("Fun")
				must(t, res, err)
				res, err = e.NextInPlaylist()
				must(t, res, err)
			},
			command: func(e *Engine) (Result, error) { return e.RemoveFromPlaylist("Fun", catsID) },
			kind:    undo.KindRemoveFromPlaylist,
		},
		{
			name:    "clear playlist",
			setup:   withFun,
			command: func(e *Engine) (Result, error) { return e.ClearPlaylist("Fun") },
			kind:    undo.KindClearPlaylist,
		},
		{
			name:    "delete playlist",
			setup:   withFun,
			command: func(e *Engine) (Result, error) { return e.DeletePlaylist("FUN") },
			kind:    undo.KindDeletePlaylist,
		},
		{
			name: "delete the active playlist",
			setup: func(t *testing.T, e *Engine) {
				withFun(t, e)
				res, err := e.PlayPlaylist("Fun")
				must(t, res, err)
				res, err = e.NextInPlaylist()
				must(t, res, err)
			},
			command: func(e *Engine) (Result, error) { return e.DeletePlaylist("Fun") },
			kind:    undo.KindDeletePlaylist,
		},
		{
			name: "flag",
			setup: func(t *testing.T, e *Engine) {
				res, err := e.Rate(catID, "2")
				must(t, res, err)
			},
			command: func(e *Engine) (Result, error) { return e.Flag(catID, "dont_like_cats") },
			kind:    undo.KindFlagVideo,
		},
		{
			name: "flag the paused playlist video",
			setup: func(t *testing.T, e *Engine) {
				withFun(t, e)
				res, err := e.PlayPlaylist("Fun")
				must(t, res, err)
				res, err = e.NextInPlaylist()
				must(t, res, err)
				res, err = e.Pause()
				must(t, res, err)
			},
			command: func(e *Engine) (Result, error) { return e.Flag(catsID, "") },
			kind:    undo.KindFlagVideo,
		},
		{
			name: "allow",
			setup: func(t *testing.T, e *Engine) {
				res, err := e.Flag(googleID, "copyright")
				must(t, res, err)
			},
			command: func(e *Engine) (Result, error) { return e.Allow(googleID) },
			kind:    undo.KindAllowVideo,
		},
		{
			name:    "play playlist",
			setup:   withFun,
			command: func(e *Engine) (Result, error) { return e.PlayPlaylist("Fun") },
			kind:    undo.KindPlayPlaylist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			tt.setup(t, e)
			before := observe(t, e)

			_, err := tt.command(e)
			require.NoError(t, err)
			assert.NotEqual(t, before, observe(t, e), "command must change something")

			res, err := e.Undo()
			require.NoError(t, err)
			require.NotNil(t, res.Reverted)
			assert.Equal(t, tt.kind, res.Reverted.Kind())
			assert.Equal(t, before, observe(t, e))
			assert.Equal(t, undo.StateBlocked, e.UndoState())
		})
	}
}

func TestEngine_UndoLedger(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
	assert.Equal(t, KindUndo, KindOf(err))

	_, err = e.Play(dogsID)
	require.NoError(t, err)

	_, err = e.Undo()
	require.NoError(t, err)
	_, err = e.Undo()
	assert.ErrorIs(t, err, ErrConsecutiveUndo)

	// Failed commands are not recorded
	_, err = e.Stop()
	require.ErrorIs(t, err, ErrNothingPlaying)
	_, err = e.Undo()
	assert.ErrorIs(t, err, ErrConsecutiveUndo)

	// A new command unblocks the ledger
	_, err = e.Play(catsID)
	require.NoError(t, err)
	res, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, undo.KindPlayVideo, res.Reverted.Kind())
	assert.Equal(t, catsID, res.Video.ID)
}

func TestEngine_UnrecordedCommands(t *testing.T) {
	e := newTestEngine(t)
	withFun(t, e)

	_, err := e.PlayPlaylist("Fun")
	require.NoError(t, err)

	// Next, rate and an idle pause do not replace the pending action
	_, err = e.NextInPlaylist()
	require.NoError(t, err)
	_, err = e.Rate(catsID, "5")
	require.NoError(t, err)

	res, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, undo.KindPlayPlaylist, res.Reverted.Kind())
	_, ok := e.NowPlaying()
	assert.False(t, ok)

	v, err := e.Rating(catsID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.AverageRating(), "ratings are never undone")

	_, err = e.Play(dogsID)
	require.NoError(t, err)
	_, err = e.Pause()
	require.NoError(t, err)
	res, err = e.Pause()
	require.NoError(t, err)
	require.Equal(t, StatusAlreadyPaused, res.Status)

	res, err = e.Undo()
	require.NoError(t, err)
	assert.Equal(t, undo.KindPauseVideo, res.Reverted.Kind())
	np, ok := e.NowPlaying()
	require.True(t, ok)
	assert.False(t, np.Paused)
}

func TestEngine_UndoClearPlaylist(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CreatePlaylist("Fun")
	require.NoError(t, err)
	_, err = e.AddToPlaylist("Fun", dogsID)
	require.NoError(t, err)
	_, err = e.ClearPlaylist("Fun")
	require.NoError(t, err)

	view, err := e.Playlist("Fun")
	require.NoError(t, err)
	assert.Empty(t, view.Videos)

	res, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Fun", res.Playlist.Name)

	view, err = e.Playlist("Fun")
	require.NoError(t, err)
	require.Len(t, view.Videos, 1)
	assert.Equal(t, dogsID, view.Videos[0].ID)
	assert.Equal(t, 0, view.Cursor)
}

func TestEngine_UndoStopRestartsPlaylist(t *testing.T) {
	e := newTestEngine(t)
	withFun(t, e)

	_, err := e.PlayPlaylist("Fun")
	require.NoError(t, err)
	_, err = e.NextInPlaylist()
	require.NoError(t, err)
	_, err = e.Stop()
	require.NoError(t, err)

	res, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, undo.KindStopVideo, res.Reverted.Kind())

	np, ok := e.NowPlaying()
	require.True(t, ok)
	assert.Equal(t, dogsID, np.Video.ID, "playlist restarts from its first video")
	assert.Equal(t, "Fun", np.Playlist)
	assert.Equal(t, 1, np.Position)
}

func TestEngine_UndoPlayOverOtherVideo(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Play(dogsID)
	require.NoError(t, err)
	_, err = e.Play(catsID)
	require.NoError(t, err)

	res, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, catsID, res.Video.ID)

	_, ok := e.NowPlaying()
	assert.False(t, ok, "undoing a play only stops it")
}

func TestEngine_UndoFailure(t *testing.T) {
	e := newTestEngine(t)
	withFun(t, e)

	_, err := e.PlayPlaylist("Fun")
	require.NoError(t, err)
	_, err = e.ClearPlaylist("Fun")
	require.NoError(t, err)
	_, err = e.Stop()
	require.NoError(t, err)

	// Restarting the emptied playlist fails and the ledger stays blocked
	_, err = e.Undo()
	assert.ErrorIs(t, err, ErrPlaylistEmpty)
	assert.Equal(t, undo.StateBlocked, e.UndoState())

	_, err = e.Undo()
	assert.ErrorIs(t, err, ErrConsecutiveUndo)
}

func TestEngine_UndoRemoveAfterNext(t *testing.T) {
	e := newTestEngine(t)
	withFun(t, e)

	res, err := e.PlayPlaylist("Fun")
	must(t, res, err)
	res, err = e.RemoveFromPlaylist("Fun", googleID)
	must(t, res, err)

	// Next is not recorded, so the remove is still the pending action
	res, err = e.NextInPlaylist()
	must(t, res, err)

	res, err = e.Undo()
	require.NoError(t, err)
	assert.Equal(t, undo.KindRemoveFromPlaylist, res.Reverted.Kind())

	np, ok := e.NowPlaying()
	require.True(t, ok)
	assert.Equal(t, catsID, np.Video.ID)
	assert.Equal(t, "Fun", np.Playlist)
	assert.Equal(t, 2, np.Position)
	assert.Equal(t, 3, np.Total)

	view, err := e.Playlist("Fun")
	require.NoError(t, err)
	require.Len(t, view.Videos, 3)
	assert.Equal(t, googleID, view.Videos[2].ID)
	assert.Equal(t, catsID, view.Videos[view.Cursor].ID)

	res, err = e.NextInPlaylist()
	require.NoError(t, err)
	assert.Equal(t, googleID, res.Video.ID)
}

func TestEngine_UndoAddAfterNext(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.CreatePlaylist("Fun")
	must(t, res, err)
	res, err = e.AddToPlaylist("Fun", dogsID)
	must(t, res, err)
	res, err = e.PlayPlaylist("Fun")
	must(t, res, err)

	res, err = e.AddToPlaylist("Fun", catsID)
	must(t, res, err)
	res, err = e.NextInPlaylist()
	must(t, res, err)

	res, err = e.Undo()
	require.NoError(t, err)
	assert.Equal(t, undo.KindAddToPlaylist, res.Reverted.Kind())

	// The playing video left the playlist, so playback no longer follows it
	np, ok := e.NowPlaying()
	require.True(t, ok)
	assert.Equal(t, catsID, np.Video.ID)
	assert.Empty(t, np.Playlist)

	view, err := e.Playlist("Fun")
	require.NoError(t, err)
	require.Len(t, view.Videos, 1)
	assert.Equal(t, dogsID, view.Videos[0].ID)
	assert.Equal(t, 0, view.Cursor)

	_, err = e.NextInPlaylist()
	assert.ErrorIs(t, err, ErrNoPlaylistPlaying)
}
