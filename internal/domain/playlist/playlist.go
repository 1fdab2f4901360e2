// Package playlist provides the Playlist domain entity.
package playlist

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrAlreadyPresent = errors.New("video already added")
	ErrNotPresent     = errors.New("video is not in playlist")
	ErrNoNextItem     = errors.New("no next video available")
)

// Playlist represents a user-defined, duplicate-free list of video IDs
// with a playback cursor.
type Playlist struct {
	ID     string   // Registry-assigned UUID
	Name   string   // Name as supplied at creation
	items  []string // Video IDs in insertion order
	cursor int      // Index into items
}

// Snapshot is an immutable copy of a playlist's contents.
type Snapshot struct {
	ID       string
	Name     string
	VideoIDs []string
	Cursor   int
}

// New creates an empty playlist.
func New(id, name string) *Playlist {
	return &Playlist{
		ID:    id,
		Name:  name,
		items: make([]string, 0),
	}
}

// Key returns the normalized lookup key for a playlist name.
func Key(name string) string {
	return strings.ToLower(name)
}

// Key returns the normalized lookup key of the playlist.
func (p *Playlist) Key() string {
	return Key(p.Name)
}

// VideoIDs returns a copy of all video IDs in the playlist.
func (p *Playlist) VideoIDs() []string {
	ids := make([]string, len(p.items))
	copy(ids, p.items)
	return ids
}

// Len returns the number of videos in the playlist.
func (p *Playlist) Len() int {
	return len(p.items)
}

// IsEmpty returns true if the playlist has no videos.
func (p *Playlist) IsEmpty() bool {
	return len(p.items) == 0
}

// Contains checks if a video is in the playlist.
func (p *Playlist) Contains(videoID string) bool {
	return p.indexOf(videoID) >= 0
}

// Cursor returns the current cursor position.
func (p *Playlist) Cursor() int {
	return p.cursor
}

// Add appends a video. Adding a video that is already present is a no-op.
func (p *Playlist) Add(videoID string) error {
	if p.Contains(videoID) {
		return ErrAlreadyPresent
	}
	p.items = append(p.items, videoID)
	return nil
}

// Remove deletes a video.
// The cursor keeps pointing at the same video when possible.
func (p *Playlist) Remove(videoID string) error {
	idx := p.indexOf(videoID)
	if idx < 0 {
		return ErrNotPresent
	}
	p.items = append(p.items[:idx], p.items[idx+1:]...)
	if idx < p.cursor {
		p.cursor--
	}
	if p.cursor >= len(p.items) {
		p.cursor = max(len(p.items)-1, 0)
	}
	return nil
}

// Insert puts a video at index, clamped to the playlist bounds.
// Videos at or after index shift right and the cursor moves with them.
func (p *Playlist) Insert(index int, videoID string) error {
	if p.Contains(videoID) {
		return ErrAlreadyPresent
	}
	index = min(max(index, 0), len(p.items))
	if len(p.items) > 0 && index <= p.cursor {
		p.cursor++
	}
	p.items = append(p.items, "")
	copy(p.items[index+1:], p.items[index:])
	p.items[index] = videoID
	return nil
}

// Seek moves the cursor to videoID. It reports false, leaving the
// cursor unchanged, when the video is not in the playlist.
func (p *Playlist) Seek(videoID string) bool {
	idx := p.indexOf(videoID)
	if idx < 0 {
		return false
	}
	p.cursor = idx
	return true
}

// Clear removes all videos and resets the cursor.
func (p *Playlist) Clear() {
	p.items = make([]string, 0)
	p.cursor = 0
}

// Rewind moves the cursor back to the first video.
func (p *Playlist) Rewind() {
	p.cursor = 0
}

// Advance moves the cursor to the next video and returns its ID.
// The cursor is unchanged when there is no next video.
func (p *Playlist) Advance() (string, error) {
	if len(p.items) == 0 || p.cursor >= len(p.items)-1 {
		return "", ErrNoNextItem
	}
	p.cursor++
	return p.items[p.cursor], nil
}

// CurrentVideoID returns the video ID at the cursor.
func (p *Playlist) CurrentVideoID() (string, bool) {
	if len(p.items) == 0 {
		return "", false
	}
	return p.items[p.cursor], true
}

// Snapshot returns a deep copy of the playlist contents.
func (p *Playlist) Snapshot() Snapshot {
	return Snapshot{
		ID:       p.ID,
		Name:     p.Name,
		VideoIDs: p.VideoIDs(),
		Cursor:   p.cursor,
	}
}

// Restore replaces the playlist contents with the snapshot's.
func (p *Playlist) Restore(s Snapshot) {
	p.items = make([]string, len(s.VideoIDs))
	copy(p.items, s.VideoIDs)
	p.cursor = s.Cursor
	if len(p.items) == 0 || p.cursor < 0 || p.cursor >= len(p.items) {
		p.cursor = 0
	}
}

func (p *Playlist) indexOf(videoID string) int {
	for i, id := range p.items {
		if id == videoID {
			return i
		}
	}
	return -1
}
