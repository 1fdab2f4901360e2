package session

import (
	"sort"

	"github.com/osa030/19tube/internal/app/catalog"
	"github.com/osa030/19tube/internal/app/playback"
	"github.com/osa030/19tube/internal/domain/video"
)

// NumberOfVideos returns the catalog size.
func (e *Engine) NumberOfVideos() int {
	return e.catalog.Len()
}

// Videos returns all videos sorted by title, flagged ones included.
func (e *Engine) Videos() []*video.Video {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Sorted()
}

// NowPlaying returns the loaded video, if any.
func (e *Engine) NowPlaying() (NowPlaying, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.playback.Current()
	if !ok {
		return NowPlaying{}, false
	}

	np := NowPlaying{
		Video:  v,
		Paused: e.playback.State() == playback.StatePaused,
	}
	if p, ok := e.playback.Playlist(); ok {
		np.Playlist = p.Name
		np.Position = p.Cursor() + 1
		np.Total = p.Len()
	}
	return np, true
}

// Playlists returns playlist names ordered case-insensitively.
func (e *Engine) Playlists() []string {
	return e.playlists.Names()
}

// Playlist returns the videos of a playlist in order.
func (e *Engine) Playlist(name string) (PlaylistView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.playlists.Get(name)
	if err != nil {
		return PlaylistView{}, err
	}

	ids := p.VideoIDs()
	view := PlaylistView{
		Name:   p.Name,
		Videos: make([]*video.Video, 0, len(ids)),
		Cursor: p.Cursor(),
	}
	for _, id := range ids {
		if v, ok := e.catalog.Get(id); ok {
			view.Videos = append(view.Videos, v)
		}
	}
	return view, nil
}

// Search returns unflagged videos whose title contains term, sorted by title.
func (e *Engine) Search(term string) []*video.Video {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Search(term)
}

// SearchTag returns unflagged videos with a matching tag, sorted by title.
func (e *Engine) SearchTag(tag string) []*video.Video {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.SearchTag(tag)
}

// Rating returns a video for rating display.
func (e *Engine) Rating(videoID string) (*video.Video, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lookup(videoID)
}

// VideosByRating returns all videos by average rating, highest first.
// Ties keep title order.
func (e *Engine) VideosByRating() []*video.Video {
	e.mu.Lock()
	defer e.mu.Unlock()

	videos := e.catalog.All()
	catalog.SortByTitle(videos)
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].AverageRating() > videos[j].AverageRating()
	})
	return videos
}
