// Package catalog provides the video catalog and the providers that load it.
package catalog

import (
	"context"

	"github.com/osa030/19tube/internal/domain/video"
)

// Provider is the interface for catalog sources.
// Different implementations load videos from different places
// (e.g., a catalog file, entries inline in the config).
type Provider interface {
	// Load returns the videos supplied by this source.
	Load(ctx context.Context) ([]*video.Video, error)

	// Name returns the provider name (used in config).
	Name() string
}

// Entry is the serialized form of a catalog video.
type Entry struct {
	ID    string   `yaml:"id" toml:"id" mapstructure:"id" validate:"required"`
	Title string   `yaml:"title" toml:"title" mapstructure:"title" validate:"required"`
	Tags  []string `yaml:"tags" toml:"tags" mapstructure:"tags"`
}

// toVideos converts entries into videos.
func toVideos(entries []Entry) []*video.Video {
	videos := make([]*video.Video, 0, len(entries))
	for _, e := range entries {
		videos = append(videos, video.New(e.ID, e.Title, e.Tags))
	}
	return videos
}
