// Package config holds runtime configuration: the YAML schema of §6, its
// struct-tag defaults and validation, and CLI flag overrides.
//
// Grounded on the teacher's internal/config package (flat Config struct,
// ParseFlags applying CLI overrides on top of defaults) generalized to the
// richer schema of spec §6, and on Koodeyo-Media-shaka-streamer-go's
// pipeline_configuration.go / input_configuration.go (creasty/defaults
// struct-tag default population, gopkg.in/dealancer/validate.v2 struct-tag
// validation, gopkg.in/yaml.v3 unmarshal).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"gopkg.in/dealancer/validate.v2"
	"gopkg.in/yaml.v3"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ConfigError wraps a configuration load or validation failure (§6 "Error
// classes surfaced").
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}
func (e *ConfigError) Unwrap() error { return e.Err }

// FFMPEGConfig locates the external transcoder/prober binaries (§6).
type FFMPEGConfig struct {
	FFMPEG  string `yaml:"ffmpeg" default:"ffmpeg" validate:"empty=false"`
	FFProbe string `yaml:"ffprobe" default:"ffprobe" validate:"empty=false"`
	Threads int    `yaml:"threads" default:"0"`
}

// LanguagesConfig lists accepted languages per stream kind, plus the
// tagging-metadata language.
type LanguagesConfig struct {
	Audio    []string `yaml:"audio" default:"[\"eng\"]" validate:"empty=false"`
	Subtitle []string `yaml:"subtitle" default:"[\"eng\"]"`
	Tagging  string   `yaml:"tagging" default:"eng"`
}

// TaggingConfig configures the (out-of-scope-by-interface) tagging stage.
type TaggingConfig struct {
	TagFile              string `yaml:"tagfile"`
	PreferredShowTagger   string `yaml:"preferred_show_tagger" default:"tvdb"`
	PreferredMovieTagger  string `yaml:"preferred_movie_tagger" default:"tmdb"`
	DownloadArtwork       bool   `yaml:"download_artwork" default:"true"`
}

// FileConfig configures on-disk side effects (§6).
type FileConfig struct {
	WorkDirectory  string `yaml:"work_directory" validate:"empty=false"`
	CopyTo         string `yaml:"copy_to"`
	MoveTo         string `yaml:"move_to"`
	DeleteOriginal bool   `yaml:"delete_original" default:"false"`
	Permissions    string `yaml:"permissions" default:"0644"`
}

// Mode parses Permissions as an octal file mode, defaulting to 0644 on a
// malformed value.
func (f FileConfig) Mode() os.FileMode {
	v, err := strconv.ParseUint(f.Permissions, 8, 32)
	if err != nil {
		return 0o644
	}
	return os.FileMode(v)
}

// KindContainerConfig is the per-stream-kind section of a named container
// profile.
type KindContainerConfig struct {
	AcceptedTrackFormats []string `yaml:"accepted_track_formats"`
	DefaultFormat        string   `yaml:"default_format"`
	PreferCopy           bool     `yaml:"prefer_copy" default:"true"`
}

// AudioContainerConfig extends KindContainerConfig with forced extra tracks
// (§4.4 "Extra audio tracks").
type AudioContainerConfig struct {
	KindContainerConfig `yaml:",inline"`
	ForceCreateTracks   []string `yaml:"force_create_tracks"`
}

// ContainerConfig is one named target-container profile (e.g. "mp4", "mkv").
type ContainerConfig struct {
	Video          KindContainerConfig  `yaml:"video"`
	Audio          AudioContainerConfig `yaml:"audio"`
	Subtitle       KindContainerConfig  `yaml:"subtitle"`
	PostProcessors []string             `yaml:"post_processors"`
	Preopts        []string             `yaml:"preopts"`
	Postopts       []string             `yaml:"postopts"`
}

// UnmarshalYAML applies the struct-tag defaults before decoding, so a
// profile decoded into the Containers map gets them too (Load's
// defaults.Set runs while that map is still empty).
func (c *ContainerConfig) UnmarshalYAML(value *yaml.Node) error {
	if err := defaults.Set(c); err != nil {
		return err
	}
	type plain ContainerConfig
	return value.Decode((*plain)(c))
}

// RefresherConfig configures one external media-library notifier (§6
// Refreshers{plex|sickrage}).
type RefresherConfig struct {
	Host    string `yaml:"host" validate:"empty=false"`
	Port    int    `yaml:"port" default:"80"`
	SSL     bool   `yaml:"ssl" default:"false"`
	Webroot string `yaml:"webroot"`
	Refresh bool   `yaml:"refresh" default:"true"`
	Token   string `yaml:"token"`
	APIKey  string `yaml:"api_key"`
}

// UnmarshalYAML applies the struct-tag defaults before decoding, for the
// same reason as ContainerConfig.UnmarshalYAML.
func (r *RefresherConfig) UnmarshalYAML(value *yaml.Node) error {
	if err := defaults.Set(r); err != nil {
		return err
	}
	type plain RefresherConfig
	return value.Decode((*plain)(r))
}

// Config is the full validated record (§6).
type Config struct {
	FFMPEG            FFMPEGConfig                 `yaml:"ffmpeg"`
	Languages         LanguagesConfig              `yaml:"languages"`
	Tagging           TaggingConfig                `yaml:"tagging"`
	File              FileConfig                   `yaml:"file"`
	Containers        map[string]ContainerConfig   `yaml:"containers" validate:"empty=false"`
	StreamFormats     map[string]map[string]string `yaml:"stream_formats"`
	PreferredEncoders map[string]string            `yaml:"preferred_encoders"`
	EncoderOptions    map[string]map[string]string `yaml:"encoder_options"`
	Refreshers        map[string]RefresherConfig    `yaml:"refreshers"`

	// --- CLI-only ambient fields, never read from YAML (§4.11) ---
	ConfigPath      string    `yaml:"-"`
	InputPath       string    `yaml:"-"`
	TargetContainer string    `yaml:"-"`
	CheckMode       bool      `yaml:"-"`
	DryRun          bool      `yaml:"-"`
	Verbose         bool      `yaml:"-"`
	LogFile         string    `yaml:"-"`
	ColorMode       ColorMode `yaml:"-"`
	MetricsAddr     string    `yaml:"-"`

	// --- CLI-only job-submission fields (§6 tagging_info/notify) ---
	TagID      string `yaml:"-"`
	TagType    string `yaml:"-"`
	Season     int    `yaml:"-"` // -1 means unset (movie, not TV)
	Episode    int    `yaml:"-"` // -1 means unset
	NotifyList string `yaml:"-"` // comma-separated refresher names
}

// codecAliases collapses known alternate codec spellings to their canonical
// registry name (§4.10, §9).
var codecAliases = map[string]string{
	"h265": "hevc",
	"x264": "h264",
	"x265": "hevc",
}

// canonicalCodec resolves name through codecAliases, returning name
// unchanged if it carries no alias.
func canonicalCodec(name string) string {
	if canon, ok := codecAliases[name]; ok {
		return canon
	}
	return name
}

// languageAliases maps common 2-letter/alternate codes to the canonical
// 3-letter ISO-639-2 code used throughout the planner.
var languageAliases = map[string]string{
	"en":  "eng",
	"fr":  "fre",
	"fra": "fre",
	"de":  "ger",
	"deu": "ger",
	"es":  "spa",
	"ja":  "jpn",
	"it":  "ita",
	"pt":  "por",
	"zh":  "chi",
	"zho": "chi",
	"ru":  "rus",
	"ko":  "kor",
	"und": "und",
}

func canonicalLanguage(code string) (string, bool) {
	if canon, ok := languageAliases[code]; ok {
		return canon, true
	}
	for _, v := range languageAliases {
		if v == code {
			return code, true
		}
	}
	return code, false
}

// DefaultConfig returns a Config populated with only the ambient CLI
// defaults (color mode, and -1 for the unset season/episode); YAML-sourced
// fields are left zero until Load applies struct-tag defaults.
func DefaultConfig() Config {
	return Config{ColorMode: ColorAuto, Season: -1, Episode: -1}
}

// Load reads path, applies struct-tag defaults via creasty/defaults, then
// YAML-unmarshals over them, collapses codec aliases and normalizes language
// codes, then validates via dealancer/validate.v2 and finally checks every
// language code is recognized (§4.10).
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("apply defaults: %w", err)}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("parse yaml: %w", err)}
	}

	normalizeAliases(cfg)

	if err := validate.Validate(cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if err := validateLanguages(cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	cfg.ConfigPath = path
	cfg.ColorMode = ColorAuto
	return cfg, nil
}

// normalizeAliases collapses codec aliases in PreferredEncoders/
// StreamFormats/EncoderOptions and each container's accepted-format /
// default-format fields, so the planner never sees an alias spelling.
func normalizeAliases(cfg *Config) {
	for name, container := range cfg.Containers {
		container.Video.AcceptedTrackFormats = canonicalizeAll(container.Video.AcceptedTrackFormats)
		container.Video.DefaultFormat = canonicalCodec(container.Video.DefaultFormat)
		container.Audio.AcceptedTrackFormats = canonicalizeAll(container.Audio.AcceptedTrackFormats)
		container.Audio.DefaultFormat = canonicalCodec(container.Audio.DefaultFormat)
		container.Audio.ForceCreateTracks = canonicalizeAll(container.Audio.ForceCreateTracks)
		container.Subtitle.AcceptedTrackFormats = canonicalizeAll(container.Subtitle.AcceptedTrackFormats)
		container.Subtitle.DefaultFormat = canonicalCodec(container.Subtitle.DefaultFormat)
		cfg.Containers[name] = container
	}

	if cfg.PreferredEncoders != nil {
		normalized := make(map[string]string, len(cfg.PreferredEncoders))
		for format, encoder := range cfg.PreferredEncoders {
			normalized[canonicalCodec(format)] = encoder
		}
		cfg.PreferredEncoders = normalized
	}
	if cfg.StreamFormats != nil {
		normalized := make(map[string]map[string]string, len(cfg.StreamFormats))
		for format, opts := range cfg.StreamFormats {
			normalized[canonicalCodec(format)] = opts
		}
		cfg.StreamFormats = normalized
	}

	cfg.Languages.Audio = normalizeLanguagesBestEffort(cfg.Languages.Audio)
	cfg.Languages.Subtitle = normalizeLanguagesBestEffort(cfg.Languages.Subtitle)
}

func canonicalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = canonicalCodec(n)
	}
	return out
}

func normalizeLanguagesBestEffort(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		if canon, ok := canonicalLanguage(c); ok {
			out[i] = canon
		} else {
			out[i] = c
		}
	}
	return out
}

// validateLanguages returns an error for any language code that is neither
// an alias nor a canonical ISO-639-2 code in languageAliases; Load wraps it
// in a *ConfigError (§4.10: "unrecognized codes are a ConfigError").
func validateLanguages(cfg *Config) error {
	for _, code := range append(append([]string{}, cfg.Languages.Audio...), cfg.Languages.Subtitle...) {
		if _, ok := canonicalLanguage(code); !ok {
			return fmt.Errorf("unrecognized language code %q", code)
		}
	}
	return nil
}
