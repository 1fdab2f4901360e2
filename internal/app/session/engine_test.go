package session

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19tube/internal/app/catalog"
	"github.com/osa030/19tube/internal/app/notification"
	"github.com/osa030/19tube/internal/app/playback"
	"github.com/osa030/19tube/internal/app/undo"
	"github.com/osa030/19tube/internal/domain/video"
	"github.com/osa030/19tube/internal/infra/config"
)

const (
	dogsID    = "funny_dogs_video_id"
	catsID    = "amazing_cats_video_id"
	catID     = "another_cat_video_id"
	googleID  = "life_at_google_video_id"
	nothingID = "nothing_video_id"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cat, err := catalog.New([]*video.Video{
		video.New(dogsID, "Funny Dogs", []string{"#dog", "#animal"}),
		video.New(catsID, "Amazing Cats", []string{"#cat", "#animal"}),
		video.New(catID, "Another Cat Video", []string{"#cat", "#animal"}),
		video.New(googleID, "Life at Google", []string{"#google", "#career"}),
		video.New(nothingID, "Video about nothing", nil),
	})
	require.NoError(t, err)
	return New(cat, append([]Option{WithPicker(func(int) int { return 0 })}, opts...)...)
}

// Mock sink for testing
type recordingSink struct {
	mu            sync.Mutex
	notifications []notification.Notification
}

func (s *recordingSink) Send(n notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

func eventTypes(events []playback.Event) []playback.EventType {
	types := make([]playback.EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func nowPlayingID(t *testing.T, e *Engine) string {
	t.Helper()
	np, ok := e.NowPlaying()
	if !ok {
		return ""
	}
	return np.Video.ID
}

func TestEngine_PlayStopsPreviousFirst(t *testing.T) {
	e := newTestEngine(t)
	sink := &recordingSink{}
	e.Notifications().Subscribe(sink)

	res, err := e.Play(dogsID)
	require.NoError(t, err)
	assert.Equal(t, []playback.EventType{playback.EventVideoStarted}, eventTypes(res.Events))

	res, err = e.Play(catsID)
	require.NoError(t, err)
	require.Equal(t, []playback.EventType{playback.EventVideoStopped, playback.EventVideoStarted}, eventTypes(res.Events))
	assert.Equal(t, dogsID, res.Events[0].Video.ID)
	assert.Equal(t, catsID, res.Events[1].Video.ID)
	assert.Equal(t, catsID, nowPlayingID(t, e))

	require.Len(t, sink.notifications, 3)
	for i, n := range sink.notifications {
		assert.Equal(t, uint64(i+1), n.SequenceNo)
	}
	assert.Equal(t, playback.EventVideoStopped, sink.notifications[1].Event.Type)
}

func TestEngine_PlayErrors(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Play("missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = e.Flag(catID, "dont_like_cats")
	require.NoError(t, err)

	_, err = e.Play(catID)
	require.ErrorIs(t, err, ErrVideoFlagged)
	var flagged *FlaggedError
	require.True(t, errors.As(err, &flagged))
	assert.Equal(t, "dont_like_cats", flagged.Reason)
	assert.Equal(t, KindConflict, KindOf(err))

	_, ok := e.NowPlaying()
	assert.False(t, ok)
}

func TestEngine_Stop(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Stop()
	assert.ErrorIs(t, err, ErrNothingPlaying)
	assert.Equal(t, KindState, KindOf(err))

	_, err = e.Play(dogsID)
	require.NoError(t, err)

	res, err := e.Stop()
	require.NoError(t, err)
	assert.Equal(t, dogsID, res.Video.ID)
	_, ok := e.NowPlaying()
	assert.False(t, ok)
}

func TestEngine_PlayRandom(t *testing.T) {
	var sizes []int
	e := newTestEngine(t, WithPicker(func(n int) int {
		sizes = append(sizes, n)
		return n - 1
	}))

	_, err := e.Flag(nothingID, "")
	require.NoError(t, err)

	res, err := e.PlayRandom()
	require.NoError(t, err)
	assert.Equal(t, []int{4}, sizes, "flagged videos are not candidates")
	assert.Equal(t, googleID, res.Video.ID)

	for _, id := range []string{dogsID, catsID, catID, googleID} {
		_, err := e.Flag(id, "")
		require.NoError(t, err)
	}
	_, err = e.PlayRandom()
	assert.ErrorIs(t, err, ErrNoVideosAvailable)
}

func TestEngine_PauseResume(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Pause()
	assert.ErrorIs(t, err, ErrNothingPlaying)
	_, err = e.Resume()
	assert.ErrorIs(t, err, ErrNothingPlaying)

	_, err = e.Play(dogsID)
	require.NoError(t, err)

	_, err = e.Resume()
	assert.ErrorIs(t, err, ErrNotPaused)

	res, err := e.Pause()
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, []playback.EventType{playback.EventStateChanged}, eventTypes(res.Events))

	res, err = e.Pause()
	require.NoError(t, err, "pausing twice is informational")
	assert.Equal(t, StatusAlreadyPaused, res.Status)
	assert.Empty(t, res.Events)
	assert.Equal(t, dogsID, res.Video.ID)

	np, ok := e.NowPlaying()
	require.True(t, ok)
	assert.True(t, np.Paused)

	_, err = e.Resume()
	require.NoError(t, err)
	np, _ = e.NowPlaying()
	assert.False(t, np.Paused)
}

func TestEngine_Playlists(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CreatePlaylist("my_PLAYlist")
	require.NoError(t, err)
	_, err = e.CreatePlaylist("MY_playlist")
	assert.ErrorIs(t, err, ErrPlaylistExists)
	_, err = e.CreatePlaylist("")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = e.AddToPlaylist("missing", dogsID)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
	_, err = e.AddToPlaylist("my_playlist", "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)

	res, err := e.AddToPlaylist("my_playlist", dogsID)
	require.NoError(t, err)
	assert.Equal(t, "my_PLAYlist", res.Playlist.Name)
	assert.Equal(t, "Funny Dogs", res.Video.Title)

	_, err = e.AddToPlaylist("my_playlist", dogsID)
	assert.ErrorIs(t, err, ErrAlreadyInPlaylist)

	_, err = e.Flag(catsID, "")
	require.NoError(t, err)
	_, err = e.AddToPlaylist("my_playlist", catsID)
	assert.ErrorIs(t, err, ErrVideoFlagged)

	_, err = e.RemoveFromPlaylist("my_playlist", "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
	_, err = e.RemoveFromPlaylist("my_playlist", googleID)
	assert.ErrorIs(t, err, ErrNotInPlaylist)

	_, err = e.RemoveFromPlaylist("my_playlist", dogsID)
	require.NoError(t, err)

	view, err := e.Playlist("MY_PLAYLIST")
	require.NoError(t, err)
	assert.Equal(t, "my_PLAYlist", view.Name)
	assert.Empty(t, view.Videos)

	_, err = e.ClearPlaylist("missing")
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
	_, err = e.DeletePlaylist("missing")
	assert.ErrorIs(t, err, ErrPlaylistNotFound)

	_, err = e.DeletePlaylist("my_playlist")
	require.NoError(t, err)
	assert.Empty(t, e.Playlists())
}

func TestEngine_PlayPlaylistAndNext(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.NextInPlaylist()
	assert.ErrorIs(t, err, ErrNoPlaylistPlaying)

	_, err = e.CreatePlaylist("Fun")
	require.NoError(t, err)
	_, err = e.PlayPlaylist("missing")
	assert.ErrorIs(t, err, ErrPlaylistNotFound)

	// Empty playlist leaves playback unchanged
	_, err = e.Play(googleID)
	require.NoError(t, err)
	_, err = e.PlayPlaylist("Fun")
	assert.ErrorIs(t, err, ErrPlaylistEmpty)
	np, ok := e.NowPlaying()
	require.True(t, ok)
	assert.Equal(t, googleID, np.Video.ID)
	assert.Empty(t, np.Playlist)

	for _, id := range []string{dogsID, catsID} {
		_, err := e.AddToPlaylist("fun", id)
		require.NoError(t, err)
	}

	res, err := e.PlayPlaylist("fun")
	require.NoError(t, err)
	assert.Equal(t, []playback.EventType{
		playback.EventPlaylistStarted,
		playback.EventVideoStopped,
		playback.EventVideoStarted,
	}, eventTypes(res.Events))
	assert.Equal(t, dogsID, res.Video.ID)

	np, _ = e.NowPlaying()
	assert.Equal(t, "Fun", np.Playlist)
	assert.Equal(t, 1, np.Position)
	assert.Equal(t, 2, np.Total)

	res, err = e.NextInPlaylist()
	require.NoError(t, err)
	assert.Equal(t, catsID, res.Video.ID)
	np, _ = e.NowPlaying()
	assert.Equal(t, 2, np.Position)

	// At the last video the cursor stays put
	_, err = e.NextInPlaylist()
	assert.ErrorIs(t, err, ErrNoNextVideo)
	view, err := e.Playlist("Fun")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Cursor)
	assert.Equal(t, catsID, nowPlayingID(t, e))

	// A direct play keeps the playlist association; stop clears it
	_, err = e.Play(googleID)
	require.NoError(t, err)
	np, _ = e.NowPlaying()
	assert.Equal(t, "Fun", np.Playlist)

	_, err = e.Stop()
	require.NoError(t, err)
	_, err = e.NextInPlaylist()
	assert.ErrorIs(t, err, ErrNoPlaylistPlaying)
}

func TestEngine_NextRejectsFlaggedVideo(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.CreatePlaylist("Fun")
	require.NoError(t, err)
	for _, id := range []string{dogsID, catsID} {
		_, err := e.AddToPlaylist("Fun", id)
		require.NoError(t, err)
	}
	_, err = e.PlayPlaylist("Fun")
	require.NoError(t, err)
	_, err = e.Flag(catsID, "")
	require.NoError(t, err)

	_, err = e.NextInPlaylist()
	assert.ErrorIs(t, err, ErrVideoFlagged)

	view, err := e.Playlist("Fun")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Cursor)
}

func TestEngine_FlagAllow(t *testing.T) {
	e := newTestEngine(t, WithDefaultFlagReason("unspecified"))

	_, err := e.Flag("missing", "")
	assert.ErrorIs(t, err, ErrVideoNotFound)
	_, err = e.Allow("missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
	_, err = e.Allow(dogsID)
	assert.ErrorIs(t, err, ErrNotFlagged)

	res, err := e.Flag(dogsID, "")
	require.NoError(t, err)
	assert.Equal(t, "unspecified", res.Reason)
	assert.Empty(t, res.Events, "flagging an idle video stops nothing")

	_, err = e.Flag(dogsID, "again")
	assert.ErrorIs(t, err, ErrAlreadyFlagged)

	res, err = e.Allow(dogsID)
	require.NoError(t, err)
	assert.Equal(t, "unspecified", res.Reason)
	assert.False(t, res.Video.Flagged)
}

func TestEngine_FlagWhilePlaying(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Play(dogsID)
	require.NoError(t, err)

	res, err := e.Flag(dogsID, "copyright")
	require.NoError(t, err)
	assert.Equal(t, []playback.EventType{playback.EventVideoStopped}, eventTypes(res.Events))
	assert.True(t, res.Video.Flagged)
	assert.Equal(t, "copyright", res.Video.FlagReason)

	_, ok := e.NowPlaying()
	assert.False(t, ok)

	_, err = e.Rate(dogsID, "4")
	assert.ErrorIs(t, err, ErrVideoFlagged)
}

func TestEngine_Rate(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Rate(dogsID, "3")
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Rating)

	res, err = e.Rate(dogsID, "5")
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Rating)

	tests := []struct {
		name       string
		input      string
		notANumber bool
	}{
		{name: "not a number", input: "abc", notANumber: true},
		{name: "nan", input: "NaN", notANumber: true},
		{name: "above range", input: "6"},
		{name: "below range", input: "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Rate(dogsID, tt.input)
			require.ErrorIs(t, err, ErrInvalidRating)
			assert.Equal(t, KindValidation, KindOf(err))

			var ratingErr *RatingError
			require.True(t, errors.As(err, &ratingErr))
			assert.Equal(t, tt.notANumber, ratingErr.NotANumber)
		})
	}

	v, err := e.Rating(dogsID)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, v.Ratings, "rejected ratings are not stored")

	_, err = e.Rate("missing", "3")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestEngine_RatingRangeFromConfig(t *testing.T) {
	cat, err := catalog.New([]*video.Video{video.New("v1", "One", nil)})
	require.NoError(t, err)

	cfg, err := config.Default("videos.txt")
	require.NoError(t, err)
	cfg.Rating.Max = 10
	cfg.Moderation.DefaultFlagReason = "moderated"
	cfg.Playback.RandomSeed = 7

	e := NewFromConfig(cat, cfg)
	_, err = e.Rate("v1", "9.5")
	require.NoError(t, err)

	res, err := e.Flag("v1", "")
	require.NoError(t, err)
	assert.Equal(t, "moderated", res.Reason)
}

func TestEngine_PlayFromSearchSelection(t *testing.T) {
	e := newTestEngine(t)

	candidates := make([]string, 0)
	for _, v := range e.Search("cat") {
		candidates = append(candidates, v.ID)
	}
	require.Equal(t, []string{catsID, catID}, candidates)

	for _, token := range []string{"", "0", "3", "two", "-1"} {
		res, err := e.PlayFromSearchSelection(candidates, token)
		require.NoError(t, err, token)
		assert.Equal(t, StatusNoSelection, res.Status, token)
	}
	_, ok := e.NowPlaying()
	assert.False(t, ok)
	assert.Equal(t, undo.StateEmpty, e.UndoState(), "no selection records nothing")

	res, err := e.PlayFromSearchSelection(candidates, "2")
	require.NoError(t, err)
	assert.Equal(t, catID, res.Video.ID)
	assert.Equal(t, undo.StatePending, e.UndoState())
}

func TestEngine_Close(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Play(dogsID)
	require.NoError(t, err)

	e.Close()
	e.Close()

	_, err = e.Stop()
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = e.Undo()
	assert.ErrorIs(t, err, ErrSessionClosed)

	info := e.Info()
	assert.NotEmpty(t, info.SessionID)
	assert.Equal(t, 1, info.Commands)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err      error
		expected Kind
	}{
		{nil, KindUnknown},
		{errors.New("other"), KindUnknown},
		{errors.Wrap(ErrVideoNotFound, "ctx"), KindNotFound},
		{ErrPlaylistExists, KindConflict},
		{&FlaggedError{VideoID: "v1", Reason: "r"}, KindConflict},
		{ErrNoNextVideo, KindState},
		{&RatingError{Input: "x", NotANumber: true}, KindValidation},
		{ErrConsecutiveUndo, KindUndo},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}
