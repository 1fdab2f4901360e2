package catalog

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19tube/internal/domain/video"
)

type InlineProviderConfig struct {
	Videos []Entry `yaml:"videos" mapstructure:"videos" validate:"required,min=1,dive"`
}

// InlineProvider supplies videos listed directly in the configuration.
type InlineProvider struct {
	config *InlineProviderConfig
}

// NewInlineProvider creates a new InlineProvider.
func NewInlineProvider(settings map[string]any) (*InlineProvider, error) {
	var config InlineProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := validator.New().Struct(config); err != nil {
		zlog.Error().Msgf("inline provider validation failed: %v", err)
		return nil, errors.Wrap(err, "validation failed")
	}
	return &InlineProvider{config: &config}, nil
}

// Load returns the configured videos.
func (p *InlineProvider) Load(ctx context.Context) ([]*video.Video, error) {
	return toVideos(p.config.Videos), nil
}

// Name returns the provider name.
func (p *InlineProvider) Name() string {
	return "inline"
}
