package playback

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19tube/internal/domain/playlist"
	"github.com/osa030/19tube/internal/domain/video"
)

// Errors
var (
	ErrNothingPlaying = errors.New("no video is currently playing")
	ErrAlreadyPaused  = errors.New("video already paused")
	ErrNotPaused      = errors.New("video is not paused")
)

// Snapshot captures what was loaded in the controller at a point in time.
type Snapshot struct {
	Video    *video.Video
	State    State
	Playlist *playlist.Playlist
}

// Controller holds the current video, the paused flag and the playlist
// association. It is not safe for concurrent use; the owner serializes access.
type Controller struct {
	current  *video.Video
	state    State
	playlist *playlist.Playlist
}

// NewController creates a new playback controller.
func NewController() *Controller {
	return &Controller{
		state: StateStopped,
	}
}

// Start plays v. A video that is already loaded is stopped first,
// so the returned events always list the stop before the start.
// The playlist association is kept.
func (c *Controller) Start(v *video.Video) []Event {
	events := make([]Event, 0, 2)

	if c.current != nil {
		stopped := c.current
		c.current = nil
		c.state = StateStopped
		events = append(events, c.event(EventVideoStopped, stopped))
	}

	c.current = v
	c.state = StatePlaying
	zlog.Debug().Msgf("playback: video started: video_id=%s", v.ID)

	return append(events, c.event(EventVideoStarted, v))
}

// Stop stops playback completely and clears the playlist association.
// The returned snapshot describes what was loaded before the stop.
func (c *Controller) Stop() (Snapshot, []Event, error) {
	if c.current == nil {
		return Snapshot{}, nil, ErrNothingPlaying
	}

	before := c.Snapshot()

	c.current = nil
	c.state = StateStopped
	stopped := c.event(EventVideoStopped, before.Video)
	c.playlist = nil
	zlog.Debug().Msgf("playback: video stopped: video_id=%s", before.Video.ID)

	return before, []Event{stopped}, nil
}

// Pause pauses the current video.
func (c *Controller) Pause() ([]Event, error) {
	if c.current == nil {
		return nil, ErrNothingPlaying
	}
	if c.state == StatePaused {
		return nil, ErrAlreadyPaused
	}

	c.state = StatePaused
	return []Event{c.event(EventStateChanged, c.current)}, nil
}

// Resume resumes the paused video.
func (c *Controller) Resume() ([]Event, error) {
	if c.current == nil {
		return nil, ErrNothingPlaying
	}
	if c.state != StatePaused {
		return nil, ErrNotPaused
	}

	c.state = StatePlaying
	return []Event{c.event(EventStateChanged, c.current)}, nil
}

// Attach associates playback with a playlist.
func (c *Controller) Attach(p *playlist.Playlist) []Event {
	c.playlist = p
	return []Event{{
		Type:     EventPlaylistStarted,
		State:    c.state,
		Playlist: p.Name,
	}}
}

// Detach clears the playlist association if it is p.
func (c *Controller) Detach(p *playlist.Playlist) {
	if c.playlist == p {
		c.playlist = nil
	}
}

// Restore puts the controller back into a previously captured state
// without emitting stop events for the replaced video.
func (c *Controller) Restore(s Snapshot) []Event {
	c.current = s.Video
	c.state = s.State
	c.playlist = s.Playlist
	if s.Video == nil {
		c.state = StateStopped
		return nil
	}
	return []Event{c.event(EventVideoStarted, s.Video)}
}

// State returns the current playback state.
func (c *Controller) State() State {
	return c.state
}

// Current returns the loaded video.
func (c *Controller) Current() (*video.Video, bool) {
	if c.current == nil {
		return nil, false
	}
	return c.current, true
}

// Playlist returns the associated playlist.
func (c *Controller) Playlist() (*playlist.Playlist, bool) {
	if c.playlist == nil {
		return nil, false
	}
	return c.playlist, true
}

// IsPlaying checks whether videoID is the loaded video.
func (c *Controller) IsPlaying(videoID string) bool {
	return c.current != nil && c.current.ID == videoID
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Video:    c.current,
		State:    c.state,
		Playlist: c.playlist,
	}
}

func (c *Controller) event(t EventType, v *video.Video) Event {
	e := Event{
		Type:  t,
		Video: v,
		State: c.state,
	}
	if c.playlist != nil {
		e.Playlist = c.playlist.Name
	}
	return e
}
