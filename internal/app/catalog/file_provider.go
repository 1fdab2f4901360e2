package catalog

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/osa030/19tube/internal/domain/video"
)

// Catalog file formats.
const (
	FormatAuto = "auto"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatText = "text"
)

// FileProviderConfig represents file provider settings.
// Format "auto" picks the decoder from the file extension.
type FileProviderConfig struct {
	Path   string `yaml:"path" mapstructure:"path" validate:"required"`
	Format string `yaml:"format" mapstructure:"format" default:"auto" validate:"oneof=auto yaml toml text"`
}

// catalogFile is the document layout of YAML and TOML catalogs.
type catalogFile struct {
	Videos []Entry `yaml:"videos" toml:"videos" validate:"dive"`
}

// FileProvider loads videos from a catalog file on disk.
//
// Text catalogs hold one video per line:
//
//	Funny Dogs | funny_dogs_video_id | #dog , #animal
type FileProvider struct {
	config *FileProviderConfig
}

// NewFileProvider creates a new FileProvider.
func NewFileProvider(settings map[string]any) (*FileProvider, error) {
	var config FileProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("file provider config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		zlog.Error().Msgf("file provider validation failed: %v", err)
		return nil, errors.Wrap(err, "validation failed")
	}
	return &FileProvider{config: &config}, nil
}

// Load reads and parses the catalog file.
func (p *FileProvider) Load(ctx context.Context) ([]*video.Video, error) {
	data, err := os.ReadFile(p.config.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog file %s", p.config.Path)
	}

	format := p.format()
	zlog.Debug().Msgf("loading catalog file: path=%s format=%s", p.config.Path, format)

	switch format {
	case FormatYAML:
		var doc catalogFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML catalog")
		}
		return validateEntries(doc)
	case FormatTOML:
		var doc catalogFile
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "failed to parse TOML catalog")
		}
		return validateEntries(doc)
	default:
		entries, err := parseText(data)
		if err != nil {
			return nil, err
		}
		return validateEntries(catalogFile{Videos: entries})
	}
}

// Name returns the provider name.
func (p *FileProvider) Name() string {
	return "file"
}

// format resolves the configured format, guessing from the extension for "auto".
func (p *FileProvider) format() string {
	if p.config.Format != FormatAuto {
		return p.config.Format
	}
	switch strings.ToLower(filepath.Ext(p.config.Path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatText
	}
}

func validateEntries(doc catalogFile) ([]*video.Video, error) {
	if err := validator.New().Struct(doc); err != nil {
		return nil, errors.Wrap(err, "invalid catalog entry")
	}
	return toVideos(doc.Videos), nil
}

// parseText parses the pipe-separated text catalog format.
func parseText(data []byte) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			return nil, errors.Newf("line %d: expected \"title | id | tags\", got %q", lineNo, line)
		}

		entry := Entry{
			Title: strings.TrimSpace(fields[0]),
			ID:    strings.TrimSpace(fields[1]),
			Tags:  []string{},
		}
		if len(fields) > 2 {
			for _, tag := range strings.Split(fields[2], ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					entry.Tags = append(entry.Tags, tag)
				}
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan text catalog")
	}
	return entries, nil
}
