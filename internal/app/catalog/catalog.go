package catalog

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19tube/internal/domain/video"
)

// Catalog owns the fixed set of videos for a session.
// Membership never changes after construction; flag and rating state
// is mutated in place on the owned videos.
type Catalog struct {
	videos []*video.Video
	byID   map[string]*video.Video
}

// New creates a catalog from videos, keeping their order.
func New(videos []*video.Video) (*Catalog, error) {
	c := &Catalog{
		videos: make([]*video.Video, 0, len(videos)),
		byID:   make(map[string]*video.Video, len(videos)),
	}
	for _, v := range videos {
		if _, exists := c.byID[v.ID]; exists {
			return nil, errors.Newf("duplicate video id: %s", v.ID)
		}
		c.videos = append(c.videos, v)
		c.byID[v.ID] = v
	}
	return c, nil
}

// Load builds a catalog from a provider.
func Load(ctx context.Context, p Provider) (*Catalog, error) {
	videos, err := p.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load catalog from %s", p.Name())
	}
	return New(videos)
}

// All returns every video in load order.
func (c *Catalog) All() []*video.Video {
	result := make([]*video.Video, len(c.videos))
	copy(result, c.videos)
	return result
}

// Get returns the video with the given ID.
func (c *Catalog) Get(id string) (*video.Video, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Len returns the number of videos.
func (c *Catalog) Len() int {
	return len(c.videos)
}

// Sorted returns every video ordered by title.
func (c *Catalog) Sorted() []*video.Video {
	result := c.All()
	SortByTitle(result)
	return result
}

// Playable returns the unflagged videos in load order.
func (c *Catalog) Playable() []*video.Video {
	return c.filter(func(v *video.Video) bool { return !v.Flagged })
}

// Search returns unflagged videos whose title contains term, ordered by title.
func (c *Catalog) Search(term string) []*video.Video {
	result := c.filter(func(v *video.Video) bool {
		return !v.Flagged && v.TitleContains(term)
	})
	SortByTitle(result)
	return result
}

// SearchTag returns unflagged videos with a matching tag, ordered by title.
func (c *Catalog) SearchTag(tag string) []*video.Video {
	result := c.filter(func(v *video.Video) bool {
		return !v.Flagged && v.HasTag(tag)
	})
	SortByTitle(result)
	return result
}

func (c *Catalog) filter(keep func(*video.Video) bool) []*video.Video {
	result := make([]*video.Video, 0)
	for _, v := range c.videos {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// SortByTitle sorts videos by title, then ID.
func SortByTitle(videos []*video.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		if videos[i].Title != videos[j].Title {
			return videos[i].Title < videos[j].Title
		}
		return videos[i].ID < videos[j].ID
	})
}
