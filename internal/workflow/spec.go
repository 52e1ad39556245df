package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nvxlabs/mediaplan/internal/config"
	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/format"
	"github.com/nvxlabs/mediaplan/internal/option"
	"github.com/nvxlabs/mediaplan/internal/planner"
)

// Request is the job-submission surface of §6: "(input_path,
// target_container, config_name, overrides?, tagging_info?, notify?)".
// ContainerName (target_container) selects a profile from Config.Containers;
// there is no config_name field.
type Request struct {
	InputPath       string
	ContainerName   string
	TagInfo         *TagInfo
	Notify          []string
	WorkDirOverride string
}

// SpecFromConfig translates a validated config.Config and a Request into a
// Spec ready for [New] and [Job.Run]. Grounded on the source's
// optionbuilder.py (per-format template construction from config dicts),
// retargeted to build option.Collection values via the typed Option algebra
// instead of Python kwargs dicts.
func SpecFromConfig(cfg *config.Config, req Request) (Spec, error) {
	profile, ok := cfg.Containers[req.ContainerName]
	if !ok {
		return Spec{}, fmt.Errorf("no container profile named %q", req.ContainerName)
	}

	targetFormat, ok := containerFormatFor(req.ContainerName)
	if !ok {
		return Spec{}, fmt.Errorf("container profile %q has no matching container.Format", req.ContainerName)
	}

	workDir := cfg.File.WorkDirectory
	if req.WorkDirOverride != "" {
		workDir = req.WorkDirOverride
	}

	videoKC, err := kindConfig(profile.Video, cfg.StreamFormats)
	if err != nil {
		return Spec{}, err
	}
	audioKC, err := kindConfig(profile.Audio.KindContainerConfig, cfg.StreamFormats)
	if err != nil {
		return Spec{}, err
	}
	subKC, err := kindConfig(profile.Subtitle, cfg.StreamFormats)
	if err != nil {
		return Spec{}, err
	}

	forceCreate := make([]planner.Template, 0, len(profile.Audio.ForceCreateTracks))
	for _, name := range profile.Audio.ForceCreateTracks {
		fe, ok := format.FormatOf(name)
		if !ok {
			return Spec{}, fmt.Errorf("force_create_tracks: unknown format %q", name)
		}
		opts, err := optionsFromMap(cfg.StreamFormats[name])
		if err != nil {
			return Spec{}, err
		}
		forceCreate = append(forceCreate, planner.Template{Format: fe, Options: opts})
	}

	plannerCfg := &planner.Config{
		Video:             videoKC,
		Audio:             audioKC,
		Subtitle:          subKC,
		AudioLanguages:    cfg.Languages.Audio,
		SubtitleLanguages: cfg.Languages.Subtitle,
		ForceCreateAudio:  forceCreate,
		TargetFormat:      targetFormat,
	}

	encoderDefaults := make(map[string]*option.Collection, len(cfg.EncoderOptions))
	for encoder, kv := range cfg.EncoderOptions {
		opts, err := optionsFromMap(kv)
		if err != nil {
			return Spec{}, err
		}
		encoderDefaults[encoder] = opts
	}

	return Spec{
		InputPath:         req.InputPath,
		TargetFormat:      targetFormat,
		TargetExt:         req.ContainerName,
		WorkDir:           workDir,
		TranscoderBin:     cfg.FFMPEG.FFMPEG,
		ProberBin:         cfg.FFMPEG.FFProbe,
		PlannerConfig:     plannerCfg,
		PreferredEncoders: cfg.PreferredEncoders,
		AvailableEncoders: map[string]bool{},
		EncoderDefaults:   encoderDefaults,
		Preopts:           profile.Preopts,
		Postopts:          profile.Postopts,
		TagInfo:           req.TagInfo,
		PreferredTagger:   preferredTagger(cfg, req.TagInfo),
		DownloadArtwork:   cfg.Tagging.DownloadArtwork,
		Notify:            req.Notify,
		CopyTo:            cfg.File.CopyTo,
		MoveTo:            cfg.File.MoveTo,
		DeleteOriginal:    cfg.File.DeleteOriginal,
		FilePerm:          cfg.File.Mode(),
	}, nil
}

func preferredTagger(cfg *config.Config, info *TagInfo) string {
	if info != nil && info.IsTV() {
		return cfg.Tagging.PreferredShowTagger
	}
	return cfg.Tagging.PreferredMovieTagger
}

func containerFormatFor(name string) (container.Format, bool) {
	switch name {
	case "mp4":
		return container.FormatMP4, true
	case "mkv", "matroska":
		return container.FormatMatroska, true
	case "avi":
		return container.FormatAVI, true
	default:
		return "", false
	}
}

func kindConfig(kc config.KindContainerConfig, streamFormats map[string]map[string]string) (planner.KindConfig, error) {
	templates := make(map[string]planner.Template, len(kc.AcceptedTrackFormats))
	for _, name := range kc.AcceptedTrackFormats {
		fe, ok := format.FormatOf(name)
		if !ok {
			return planner.KindConfig{}, fmt.Errorf("accepted_track_formats: unknown format %q", name)
		}
		opts, err := optionsFromMap(streamFormats[name])
		if err != nil {
			return planner.KindConfig{}, err
		}
		templates[name] = planner.Template{Format: fe, Options: opts}
	}

	def := planner.Default{}
	if kc.DefaultFormat != "" {
		fe, ok := format.FormatOf(kc.DefaultFormat)
		if !ok {
			return planner.KindConfig{}, fmt.Errorf("default_format: unknown format %q", kc.DefaultFormat)
		}
		opts, err := optionsFromMap(streamFormats[kc.DefaultFormat])
		if err != nil {
			return planner.KindConfig{}, err
		}
		def = planner.Default{Format: fe, Options: opts}
	}

	return planner.KindConfig{
		Templates:  templates,
		PreferCopy: kc.PreferCopy,
		Default:    def,
	}, nil
}

// optionsFromMap builds an option.Collection from a YAML-sourced key/value
// map (§6 StreamFormats{<format>:{option:value}}, EncoderOptions). Keys
// prefixed "metadata." become Metadata options; every other recognized key
// maps to its typed Option constructor.
func optionsFromMap(kv map[string]string) (*option.Collection, error) {
	col := option.NewCollection(option.Unique, nil)
	for key, value := range kv {
		opt, err := optionFromKV(key, value)
		if err != nil {
			return nil, err
		}
		if opt != nil {
			col.Add(opt)
		}
	}
	return col, nil
}

func optionFromKV(key, value string) (option.Option, error) {
	if strings.HasPrefix(key, "metadata.") {
		return option.Metadata{Key: strings.TrimPrefix(key, "metadata."), Val: value}, nil
	}
	switch key {
	case "pix_fmt":
		return option.PixelFormat{V: value}, nil
	case "bitrate":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("bitrate: %w", err)
		}
		return option.Bitrate{V: n}, nil
	case "channels":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("channels: %w", err)
		}
		return option.Channels{V: n}, nil
	case "level":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("level: %w", err)
		}
		return option.Level{V: f}, nil
	case "profile":
		return option.Profile{V: value}, nil
	case "tag":
		return option.Tag{V: value}, nil
	case "crf":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("crf: %w", err)
		}
		return option.CRF{V: n}, nil
	case "bsf":
		return option.BitstreamFilter{V: value}, nil
	case "filter":
		return option.Filter{Stages: strings.Split(value, ",")}, nil
	default:
		return nil, fmt.Errorf("unrecognized stream-format option %q", key)
	}
}
