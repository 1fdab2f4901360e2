package catalog

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19tube/internal/domain/video"
)

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// ProviderChain loads every provider in order and merges their videos.
type ProviderChain struct {
	providers []ProviderWithMetadata
}

// NewProviderChain creates a new provider chain.
func NewProviderChain(providers []ProviderWithMetadata) *ProviderChain {
	return &ProviderChain{
		providers: providers,
	}
}

// Load collects videos from all providers.
// A failing provider is skipped. When two providers supply the same ID,
// the first one wins.
func (c *ProviderChain) Load(ctx context.Context) ([]*video.Video, error) {
	var all []*video.Video
	seen := make(map[string]bool)

	for i, pm := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		zlog.Debug().Msgf("loading provider: index=%d total=%d name=%s provider_type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		videos, err := pm.Provider.Load(ctx)
		if err != nil {
			zlog.Warn().Msgf("provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}

		added := 0
		for _, v := range videos {
			if seen[v.ID] {
				zlog.Warn().Msgf("duplicate video id skipped: provider=%s video_id=%s", pm.DisplayName, v.ID)
				continue
			}
			seen[v.ID] = true
			all = append(all, v)
			added++
		}

		zlog.Info().Msgf("provider returned videos: provider=%s count=%d total_so_far=%d",
			pm.DisplayName, added, len(all))
	}

	if len(all) == 0 {
		return nil, errors.New("all providers failed to return videos")
	}

	return all, nil
}

// Name returns the chain name.
func (c *ProviderChain) Name() string {
	return "provider_chain"
}

// SourceReport describes the outcome of loading one provider.
type SourceReport struct {
	DisplayName string
	Type        string
	Count       int
	Err         error
}

// Check loads every provider independently and reports each result.
// Duplicates across providers are not resolved.
func (c *ProviderChain) Check(ctx context.Context) []SourceReport {
	reports := make([]SourceReport, 0, len(c.providers))
	for _, pm := range c.providers {
		r := SourceReport{
			DisplayName: pm.DisplayName,
			Type:        pm.Provider.Name(),
		}
		videos, err := pm.Provider.Load(ctx)
		if err != nil {
			r.Err = err
		} else {
			r.Count = len(videos)
		}
		reports = append(reports, r)
	}
	return reports
}
