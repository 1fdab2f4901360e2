package session

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19tube/internal/app/playback"
	"github.com/osa030/19tube/internal/app/undo"
	"github.com/osa030/19tube/internal/domain/playlist"
	"github.com/osa030/19tube/internal/domain/video"
)

// The functions below must be called with e.mu held. They never touch
// the ledger, so undo can reuse them without recording.

func (e *Engine) lookup(videoID string) (*video.Video, error) {
	v, ok := e.catalog.Get(videoID)
	if !ok {
		return nil, errors.Wrapf(ErrVideoNotFound, "video_id=%s", videoID)
	}
	return v, nil
}

// playable returns the video if it exists and is not flagged.
func (e *Engine) playable(videoID string) (*video.Video, error) {
	v, err := e.lookup(videoID)
	if err != nil {
		return nil, err
	}
	if v.Flagged {
		return nil, &FlaggedError{VideoID: v.ID, Reason: v.FlagReason}
	}
	return v, nil
}

func (e *Engine) play(videoID string) (Result, undo.Action, error) {
	v, err := e.playable(videoID)
	if err != nil {
		return Result{}, nil, err
	}

	events := e.playback.Start(v)
	return Result{Video: v, Events: events}, undo.PlayVideo{VideoID: v.ID}, nil
}

func (e *Engine) stop() (Result, undo.Action, error) {
	before, events, err := e.playback.Stop()
	if err != nil {
		return Result{}, nil, err
	}

	action := undo.StopVideo{VideoID: before.Video.ID}
	if before.Playlist != nil {
		action.Playlist = before.Playlist.Name
	}
	return Result{Video: before.Video, Playlist: before.Playlist, Events: events}, action, nil
}

func (e *Engine) playRandom() (Result, undo.Action, error) {
	candidates := e.catalog.Playable()
	if len(candidates) == 0 {
		return Result{}, nil, ErrNoVideosAvailable
	}

	v := candidates[e.pick(len(candidates))]
	res, _, err := e.play(v.ID)
	if err != nil {
		return Result{}, nil, err
	}
	return res, undo.PlayRandom{VideoID: v.ID}, nil
}

func (e *Engine) pause() (Result, undo.Action, error) {
	events, err := e.playback.Pause()
	current, _ := e.playback.Current()
	if errors.Is(err, playback.ErrAlreadyPaused) {
		return Result{Status: StatusAlreadyPaused, Video: current}, nil, nil
	}
	if err != nil {
		return Result{}, nil, err
	}
	return Result{Video: current, Events: events}, undo.PauseVideo{VideoID: current.ID}, nil
}

func (e *Engine) resume() (Result, undo.Action, error) {
	events, err := e.playback.Resume()
	if err != nil {
		return Result{}, nil, err
	}
	current, _ := e.playback.Current()
	return Result{Video: current, Events: events}, undo.ResumeVideo{VideoID: current.ID}, nil
}

func (e *Engine) createPlaylist(name string) (Result, undo.Action, error) {
	p, err := e.playlists.Create(name)
	if err != nil {
		return Result{}, nil, err
	}

	zlog.Debug().Msgf("session: playlist created: playlist_id=%s, name=%s", p.ID, p.Name)
	return Result{Playlist: p}, undo.CreatePlaylist{Name: p.Name}, nil
}

func (e *Engine) addToPlaylist(name, videoID string) (Result, undo.Action, error) {
	p, err := e.playlists.Get(name)
	if err != nil {
		return Result{}, nil, err
	}
	v, err := e.playable(videoID)
	if err != nil {
		return Result{}, nil, err
	}
	if err := p.Add(v.ID); err != nil {
		return Result{}, nil, err
	}

	return Result{Video: v, Playlist: p}, undo.AddToPlaylist{Playlist: p.Name, VideoID: v.ID}, nil
}

func (e *Engine) removeFromPlaylist(name, videoID string) (Result, undo.Action, error) {
	p, err := e.playlists.Get(name)
	if err != nil {
		return Result{}, nil, err
	}
	v, err := e.lookup(videoID)
	if err != nil {
		return Result{}, nil, err
	}

	index := slices.Index(p.VideoIDs(), v.ID)
	if err := p.Remove(v.ID); err != nil {
		return Result{}, nil, err
	}

	// The playing video left its playlist, so playback no longer follows it
	detached := false
	if active, ok := e.playback.Playlist(); ok && active == p && e.playback.IsPlaying(v.ID) {
		e.playback.Detach(p)
		detached = true
		zlog.Debug().Msgf("session: playlist detached: name=%s, video_id=%s", p.Name, v.ID)
	}

	return Result{Video: v, Playlist: p}, undo.RemoveFromPlaylist{
		Playlist: p.Name,
		VideoID:  v.ID,
		Index:    index,
		Detached: detached,
	}, nil
}

func (e *Engine) clearPlaylist(name string) (Result, undo.Action, error) {
	p, err := e.playlists.Get(name)
	if err != nil {
		return Result{}, nil, err
	}

	before := p.Snapshot()
	p.Clear()
	return Result{Playlist: p}, undo.ClearPlaylist{Before: before}, nil
}

func (e *Engine) deletePlaylist(name string) (Result, undo.Action, error) {
	p, err := e.playlists.Get(name)
	if err != nil {
		return Result{}, nil, err
	}

	current, _ := e.playback.Playlist()
	active := current == p

	before, err := e.playlists.Delete(p.Name)
	if err != nil {
		return Result{}, nil, err
	}
	if active {
		e.playback.Detach(p)
	}

	zlog.Debug().Msgf("session: playlist deleted: playlist_id=%s, name=%s, active=%t", p.ID, p.Name, active)
	return Result{Playlist: p}, undo.DeletePlaylist{Before: before, WasActive: active}, nil
}

func (e *Engine) flag(videoID, reason string) (Result, undo.Action, error) {
	v, err := e.lookup(videoID)
	if err != nil {
		return Result{}, nil, err
	}
	if v.Flagged {
		return Result{}, nil, errors.Wrapf(ErrAlreadyFlagged, "video_id=%s", v.ID)
	}
	if reason == "" {
		reason = e.defaultFlagReason
	}

	var events []playback.Event
	var interrupted *playback.Snapshot
	if e.playback.IsPlaying(v.ID) {
		before, stopped, err := e.playback.Stop()
		if err != nil {
			return Result{}, nil, err
		}
		events = stopped
		interrupted = &before
	}

	v.Flag(reason)
	zlog.Debug().Msgf("session: video flagged: video_id=%s, reason=%s", v.ID, reason)

	return Result{Video: v, Reason: reason, Events: events}, undo.FlagVideo{
		VideoID:     v.ID,
		Reason:      reason,
		Interrupted: interrupted,
	}, nil
}

func (e *Engine) allow(videoID string) (Result, undo.Action, error) {
	v, err := e.lookup(videoID)
	if err != nil {
		return Result{}, nil, err
	}
	if !v.Flagged {
		return Result{}, nil, errors.Wrapf(ErrNotFlagged, "video_id=%s", v.ID)
	}

	reason := v.FlagReason
	v.Allow()
	return Result{Video: v, Reason: reason}, undo.AllowVideo{VideoID: v.ID, Reason: reason}, nil
}

func (e *Engine) playPlaylist(name string) (Result, undo.Action, error) {
	p, err := e.playlists.Get(name)
	if err != nil {
		return Result{}, nil, err
	}
	if p.IsEmpty() {
		return Result{}, nil, errors.Wrapf(ErrPlaylistEmpty, "playlist=%s", p.Name)
	}
	v, err := e.playable(p.VideoIDs()[0])
	if err != nil {
		return Result{}, nil, err
	}

	p.Rewind()
	events := e.playback.Attach(p)
	events = append(events, e.playback.Start(v)...)
	return Result{Video: v, Playlist: p, Events: events}, undo.PlayPlaylist{Name: p.Name}, nil
}

func (e *Engine) next() (Result, undo.Action, error) {
	p, ok := e.playback.Playlist()
	if !ok {
		return Result{}, nil, ErrNoPlaylistPlaying
	}

	ids := p.VideoIDs()
	pos := p.Cursor() + 1
	if pos >= len(ids) {
		return Result{}, nil, ErrNoNextVideo
	}
	v, err := e.playable(ids[pos])
	if err != nil {
		return Result{}, nil, err
	}
	if _, err := p.Advance(); err != nil {
		return Result{}, nil, err
	}

	return Result{Video: v, Playlist: p, Events: e.playback.Start(v)}, nil, nil
}

func (e *Engine) rate(videoID, input string) (Result, undo.Action, error) {
	v, err := e.playable(videoID)
	if err != nil {
		return Result{}, nil, err
	}

	r, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(r) {
		return Result{}, nil, &RatingError{Input: input, NotANumber: true}
	}
	if r < e.ratingMin || r > e.ratingMax {
		return Result{}, nil, &RatingError{Input: input, Min: e.ratingMin, Max: e.ratingMax}
	}

	v.AddRating(r)
	return Result{Video: v, Rating: v.AverageRating()}, nil, nil
}

// restorePlaylist puts a playlist's contents back from a snapshot.
func (e *Engine) restorePlaylist(s playlist.Snapshot) (Result, error) {
	p, err := e.playlists.Get(s.Name)
	if err != nil {
		return Result{}, err
	}
	p.Restore(s)
	e.syncCursor(p)
	return Result{Playlist: p}, nil
}

// reinsert puts a removed video back at its old position and re-attaches
// the playlist if the removal detached it.
func (e *Engine) reinsert(a undo.RemoveFromPlaylist) (Result, error) {
	p, err := e.playlists.Get(a.Playlist)
	if err != nil {
		return Result{}, err
	}
	if err := p.Insert(a.Index, a.VideoID); err != nil {
		return Result{}, err
	}

	if _, attached := e.playback.Playlist(); a.Detached && !attached && e.playback.IsPlaying(a.VideoID) {
		e.playback.Attach(p)
	}
	e.syncCursor(p)

	v, _ := e.catalog.Get(a.VideoID)
	return Result{Video: v, Playlist: p}, nil
}

// syncCursor points the cursor of the active playlist p at the playing video.
func (e *Engine) syncCursor(p *playlist.Playlist) {
	active, ok := e.playback.Playlist()
	if !ok || active != p {
		return
	}
	if v, ok := e.playback.Current(); ok {
		p.Seek(v.ID)
	}
}

// selectCandidate resolves a 1-based selection token.
func selectCandidate(candidates []string, token string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || n < 1 || n > len(candidates) {
		return "", false
	}
	return candidates[n-1], true
}
