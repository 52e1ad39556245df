// Package planner computes a target container and source->target mapping
// from a source container and a set of per-kind configuration templates
// (§4.4). Grounded on the source's optionbuilder.py OptionBuilder and the
// teacher's internal/planner package's BuildPlan-as-orchestrator shape, but
// retargeted to the Options-algebra/Container model in internal/option and
// internal/container rather than a flat per-file plan struct.
package planner

import (
	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/format"
	"github.com/nvxlabs/mediaplan/internal/option"
)

// Template is a per-accepted-format options collection from config,
// specifying the attributes the target stream must carry.
type Template struct {
	Format  format.Entry
	Options *option.Collection
}

// Default is the (format, options) pair used to transcode a stream whose
// source format isn't accepted (§4.4 step 4).
type Default struct {
	Format  format.Entry
	Options *option.Collection
}

// KindConfig bundles the per-stream-kind inputs to the plan builder.
type KindConfig struct {
	// Templates maps an accepted source format name to its Template.
	Templates map[string]Template
	// PreferCopy: when true, a stream whose format is accepted is copied
	// through verbatim rather than diffed against the template.
	PreferCopy bool
	// Default is used when the source format isn't in Templates.
	Default Default
}

// Config is the full plan-builder input (§4.4): per-kind configuration plus
// accepted language lists.
type Config struct {
	Video    KindConfig
	Audio    KindConfig
	Subtitle KindConfig

	AudioLanguages    []string
	SubtitleLanguages []string

	// ForceCreateAudio lists audio formats that must exist as extra tracks
	// when a suitable source candidate is available (§4.4 "Extra audio
	// tracks").
	ForceCreateAudio []Template

	TargetFormat container.Format
	TargetPath   string
}

// Mapping is an ordered (source_absolute_index, target_absolute_index) pair
// fed to the command synthesizer as a -map directive (§3).
type Mapping struct {
	SourceIndex int
	TargetIndex int
}

// Plan is the plan builder's output: the target container and the ordered
// mapping.
type Plan struct {
	Target  *container.Container
	Mapping []Mapping
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func kindConfigFor(cfg *Config, kind option.StreamKind) *KindConfig {
	switch kind {
	case option.StreamVideo:
		return &cfg.Video
	case option.StreamAudio:
		return &cfg.Audio
	case option.StreamSubtitle:
		return &cfg.Subtitle
	default:
		return nil
	}
}
