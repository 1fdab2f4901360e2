// Package session provides the session engine: catalog, playlists,
// playback and the single-step undo ledger behind one command API.
package session

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19tube/internal/app/catalog"
	"github.com/osa030/19tube/internal/app/notification"
	"github.com/osa030/19tube/internal/app/playback"
	"github.com/osa030/19tube/internal/app/session/registry"
	"github.com/osa030/19tube/internal/app/session/state"
	"github.com/osa030/19tube/internal/app/undo"
	"github.com/osa030/19tube/internal/domain/video"
	"github.com/osa030/19tube/internal/infra/config"
)

// Engine runs the commands of one interactive session.
// All commands are serialized by a single mutex.
type Engine struct {
	mu sync.Mutex

	// Components
	catalog      *catalog.Catalog
	playlists    *registry.PlaylistRegistry
	playback     *playback.Controller
	ledger       *undo.Ledger
	stateMgr     *state.Manager
	notification *notification.Manager

	// Settings
	ratingMin         float64
	ratingMax         float64
	defaultFlagReason string
	pick              func(n int) int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRatingRange sets the accepted rating range (inclusive).
func WithRatingRange(minRating, maxRating float64) Option {
	return func(e *Engine) {
		e.ratingMin = minRating
		e.ratingMax = maxRating
	}
}

// WithDefaultFlagReason sets the reason used when flag is given none.
func WithDefaultFlagReason(reason string) Option {
	return func(e *Engine) {
		if reason != "" {
			e.defaultFlagReason = reason
		}
	}
}

// WithSeed makes random selection deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		r := rand.New(rand.NewPCG(seed, seed))
		e.pick = r.IntN
	}
}

// WithPicker replaces random selection. pick returns an index in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) {
		e.pick = pick
	}
}

// WithNotificationManager publishes playback events to m.
func WithNotificationManager(m *notification.Manager) Option {
	return func(e *Engine) {
		e.notification = m
	}
}

// New creates an engine over a loaded catalog.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:           cat,
		playlists:         registry.NewPlaylistRegistry(),
		playback:          playback.NewController(),
		ledger:            undo.NewLedger(),
		stateMgr:          state.New(uuid.New().String(), time.Now()),
		notification:      notification.NewManager(),
		ratingMin:         1,
		ratingMax:         5,
		defaultFlagReason: video.DefaultFlagReason,
		pick:              rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}

	zlog.Info().Msgf("session: started: session_id=%s, videos=%d", e.stateMgr.GetSessionID(), cat.Len())
	return e
}

// NewFromConfig creates an engine using the rating, moderation and
// playback sections of cfg.
func NewFromConfig(cat *catalog.Catalog, cfg *config.Config, opts ...Option) *Engine {
	base := []Option{
		WithRatingRange(cfg.Rating.Min, cfg.Rating.Max),
		WithDefaultFlagReason(cfg.Moderation.DefaultFlagReason),
	}
	if cfg.Playback.RandomSeed != 0 {
		base = append(base, WithSeed(cfg.Playback.RandomSeed))
	}
	return New(cat, append(base, opts...)...)
}

// Notifications returns the manager playback events are published to.
func (e *Engine) Notifications() *notification.Manager {
	return e.notification
}

// Info returns the session state.
func (e *Engine) Info() state.Info {
	return e.stateMgr.Info()
}

// Close ends the session. Later commands fail with ErrSessionClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.stateMgr.Close() {
		return
	}
	info := e.stateMgr.Info()
	zlog.Info().Msgf("session: closed: session_id=%s, commands=%d", info.SessionID, info.Commands)
}

// UndoState returns the state of the undo ledger.
func (e *Engine) UndoState() undo.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.State()
}

// command is an internal operation. It returns the action that inverts
// it, or nil when there is nothing to record.
type command func() (Result, undo.Action, error)

// exec runs a forward command and records its action in the ledger.
func (e *Engine) exec(name string, cmd command) (Result, error) {
	return e.apply(name, func() (Result, undo.Action, error) {
		res, action, err := cmd()
		if err == nil {
			e.ledger.Record(action)
		}
		return res, action, err
	})
}

// apply runs cmd under the engine lock and publishes its events after
// the lock is released.
func (e *Engine) apply(name string, cmd command) (Result, error) {
	e.mu.Lock()
	if !e.stateMgr.IsActive() {
		e.mu.Unlock()
		return Result{}, ErrSessionClosed
	}

	res, _, err := cmd()
	if err != nil {
		e.mu.Unlock()
		zlog.Debug().Msgf("session: command rejected: command=%s, error=%v", name, err)
		return Result{}, err
	}
	e.stateMgr.IncrementCommands()
	e.mu.Unlock()

	zlog.Debug().Msgf("session: command done: command=%s, status=%s, events=%d", name, res.Status, len(res.Events))
	e.notification.Broadcast(res.Events...)
	return res, nil
}

// Play plays a video, stopping the current one first.
func (e *Engine) Play(videoID string) (Result, error) {
	return e.exec("play", func() (Result, undo.Action, error) {
		return e.play(videoID)
	})
}

// Stop stops playback and leaves any playlist.
func (e *Engine) Stop() (Result, error) {
	return e.exec("stop", e.stop)
}

// PlayRandom plays a random unflagged video.
func (e *Engine) PlayRandom() (Result, error) {
	return e.exec("play_random", e.playRandom)
}

// Pause pauses the current video. Pausing a paused video reports
// StatusAlreadyPaused and changes nothing.
func (e *Engine) Pause() (Result, error) {
	return e.exec("pause", e.pause)
}

// Resume continues the paused video.
func (e *Engine) Resume() (Result, error) {
	return e.exec("resume", e.resume)
}

// CreatePlaylist creates an empty playlist.
func (e *Engine) CreatePlaylist(name string) (Result, error) {
	return e.exec("create_playlist", func() (Result, undo.Action, error) {
		return e.createPlaylist(name)
	})
}

// AddToPlaylist appends a video to a playlist.
func (e *Engine) AddToPlaylist(name, videoID string) (Result, error) {
	return e.exec("add_to_playlist", func() (Result, undo.Action, error) {
		return e.addToPlaylist(name, videoID)
	})
}

// RemoveFromPlaylist removes a video from a playlist.
func (e *Engine) RemoveFromPlaylist(name, videoID string) (Result, error) {
	return e.exec("remove_from_playlist", func() (Result, undo.Action, error) {
		return e.removeFromPlaylist(name, videoID)
	})
}

// ClearPlaylist removes every video from a playlist.
func (e *Engine) ClearPlaylist(name string) (Result, error) {
	return e.exec("clear_playlist", func() (Result, undo.Action, error) {
		return e.clearPlaylist(name)
	})
}

// DeletePlaylist deletes a playlist.
func (e *Engine) DeletePlaylist(name string) (Result, error) {
	return e.exec("delete_playlist", func() (Result, undo.Action, error) {
		return e.deletePlaylist(name)
	})
}

// Flag flags a video, stopping it if it is playing. An empty reason is
// replaced by the configured default.
func (e *Engine) Flag(videoID, reason string) (Result, error) {
	return e.exec("flag", func() (Result, undo.Action, error) {
		return e.flag(videoID, reason)
	})
}

// Allow removes the flag from a video.
func (e *Engine) Allow(videoID string) (Result, error) {
	return e.exec("allow", func() (Result, undo.Action, error) {
		return e.allow(videoID)
	})
}

// PlayPlaylist plays a playlist from its first video.
func (e *Engine) PlayPlaylist(name string) (Result, error) {
	return e.exec("play_playlist", func() (Result, undo.Action, error) {
		return e.playPlaylist(name)
	})
}

// NextInPlaylist plays the next video of the current playlist.
// It is not recorded for undo.
func (e *Engine) NextInPlaylist() (Result, error) {
	return e.exec("next", e.next)
}

// Rate adds a rating to a video. It is not recorded for undo.
func (e *Engine) Rate(videoID, rating string) (Result, error) {
	return e.exec("rate", func() (Result, undo.Action, error) {
		return e.rate(videoID, rating)
	})
}

// PlayFromSearchSelection plays the candidate picked by a 1-based
// selection token. A token that does not pick a candidate reports
// StatusNoSelection.
func (e *Engine) PlayFromSearchSelection(candidates []string, token string) (Result, error) {
	return e.exec("play_selection", func() (Result, undo.Action, error) {
		id, ok := selectCandidate(candidates, token)
		if !ok {
			return Result{Status: StatusNoSelection}, nil, nil
		}
		return e.play(id)
	})
}

// Undo inverts the last recorded command. Only one undo is allowed
// until another command is recorded.
func (e *Engine) Undo() (Result, error) {
	return e.apply("undo", func() (Result, undo.Action, error) {
		action, err := e.ledger.Take()
		if err != nil {
			return Result{}, nil, err
		}

		zlog.Info().Msgf("session: undo: kind=%s", action.Kind())
		res, err := e.revert(action)
		if err != nil {
			return Result{}, nil, err
		}
		res.Reverted = action
		return res, nil, nil
	})
}
