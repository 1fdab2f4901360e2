package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/osa030/19tube/internal/domain/playlist"
)

var (
	ErrPlaylistExists   = errors.New("a playlist with the same name already exists")
	ErrPlaylistNotFound = errors.New("playlist does not exist")
	ErrInvalidName      = errors.New("playlist name must not be blank")
)

// PlaylistRegistry maps normalized names to playlists with thread-safe access.
type PlaylistRegistry struct {
	mu        sync.RWMutex
	playlists map[string]*playlist.Playlist
}

// NewPlaylistRegistry creates a new playlist registry.
func NewPlaylistRegistry() *PlaylistRegistry {
	return &PlaylistRegistry{
		playlists: make(map[string]*playlist.Playlist),
	}
}

// Create adds an empty playlist. Names are unique ignoring case.
func (r *PlaylistRegistry) Create(name string) (*playlist.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := playlist.Key(name)
	if _, ok := r.playlists[key]; ok {
		return nil, ErrPlaylistExists
	}

	p := playlist.New(uuid.New().String(), name)
	r.playlists[key] = p
	return p, nil
}

// Get retrieves a playlist by name, ignoring case.
func (r *PlaylistRegistry) Get(name string) (*playlist.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.playlists[playlist.Key(name)]
	if !ok {
		return nil, ErrPlaylistNotFound
	}
	return p, nil
}

// Delete removes a playlist and returns a snapshot of its last contents.
func (r *PlaylistRegistry) Delete(name string) (playlist.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := playlist.Key(name)
	p, ok := r.playlists[key]
	if !ok {
		return playlist.Snapshot{}, ErrPlaylistNotFound
	}

	delete(r.playlists, key)
	return p.Snapshot(), nil
}

// Restore recreates a deleted playlist from its snapshot, keeping its id
// and display name.
func (r *PlaylistRegistry) Restore(s playlist.Snapshot) (*playlist.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := playlist.Key(s.Name)
	if _, ok := r.playlists[key]; ok {
		return nil, ErrPlaylistExists
	}

	p := playlist.New(s.ID, s.Name)
	p.Restore(s)
	r.playlists[key] = p
	return p, nil
}

// All returns every playlist ordered by normalized name.
func (r *PlaylistRegistry) All() []*playlist.Playlist {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*playlist.Playlist, 0, len(r.playlists))
	for _, p := range r.playlists {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key() < result[j].Key()
	})
	return result
}

// Names returns display names ordered by normalized name.
func (r *PlaylistRegistry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// Count returns the number of playlists.
func (r *PlaylistRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.playlists)
}
