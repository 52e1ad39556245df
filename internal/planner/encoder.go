package planner

import (
	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/format"
	"github.com/nvxlabs/mediaplan/internal/option"
)

// EncoderSelection pairs a mapping entry with the encoder chosen for its
// target stream (§4.5).
type EncoderSelection struct {
	Mapping Mapping
	Encoder format.EncoderDescriptor
}

// SelectEncoders picks an encoder for every pair in plan.Mapping: the copy
// encoder when source and target streams are equal (§3), otherwise the
// configured preferred encoder (falling back to the best-scoring available
// one) with its configured defaults applied.
func SelectEncoders(src, target *container.Container, plan *Plan, available map[string]bool, preferred map[string]string, encoderDefaults map[string]*option.Collection) []EncoderSelection {
	out := make([]EncoderSelection, 0, len(plan.Mapping))
	for _, m := range plan.Mapping {
		srcStream := src.StreamAt(m.SourceIndex)
		tgtStream := target.StreamAt(m.TargetIndex)

		var enc format.EncoderDescriptor
		if srcStream != nil && srcStream.Equal(tgtStream) {
			enc = format.CopyEncoder(tgtStream.Kind())
		} else {
			enc = pickEncoder(tgtStream.Format().Name, available, preferred)
			if defaults, ok := encoderDefaults[enc.Name]; ok {
				applyEncoderDefaults(tgtStream, enc, defaults)
			}
		}
		out = append(out, EncoderSelection{Mapping: m, Encoder: enc})
	}
	return out
}

// pickEncoder resolves the preferred encoder for formatName if it is
// available; otherwise the highest-scoring available encoder producing that
// format; otherwise (no available encoder at all — still returns the
// highest scoring candidate so the command synthesizer has something
// deterministic to render, even though execution will then fail at runtime,
// matching §4.5's "no failure at selection time" contract) the top-scoring
// candidate regardless of availability.
func pickEncoder(formatName string, available map[string]bool, preferred map[string]string) format.EncoderDescriptor {
	candidates := format.EncodersProducing(formatName)

	if name, ok := preferred[formatName]; ok {
		if enc, ok := format.ByExternalName(name); ok && available[enc.ExternalName] {
			return enc
		}
	}

	for _, c := range candidates {
		if available[c.ExternalName] {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return format.EncoderDescriptor{}
}

// applyEncoderDefaults adds each default option to the target stream's
// collection, subject to the encoder's supported-option set; rejections are
// silent no-ops, never failures (§4.5).
func applyEncoderDefaults(tgtStream *container.Stream, enc format.EncoderDescriptor, defaults *option.Collection) {
	supported := make(map[option.Kind]bool, len(enc.Supported))
	for _, k := range enc.Supported {
		supported[k] = true
	}
	for _, opt := range defaults.All() {
		if supported[opt.Kind()] {
			tgtStream.AddOptions(opt)
		}
	}
}
