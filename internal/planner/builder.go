package planner

import (
	"sort"

	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/option"
)

// BuildPlan computes the target container and mapping for src per §4.4.
func BuildPlan(src *container.Container, cfg *Config) (*Plan, error) {
	target, err := container.New(cfg.TargetFormat, cfg.TargetPath)
	if err != nil {
		return nil, err
	}

	var mapping []Mapping

	for absIdx, s := range src.Streams() {
		fe := s.Format()

		// step 1: disabled format is skipped entirely.
		if !fe.Enabled {
			continue
		}

		// step 2: language gating for audio/subtitle.
		if fe.Kind == option.StreamAudio && !languageAccepted(s, cfg.AudioLanguages) {
			continue
		}
		if fe.Kind == option.StreamSubtitle && !languageAccepted(s, cfg.SubtitleLanguages) {
			continue
		}

		kc := kindConfigFor(cfg, fe.Kind)
		if kc == nil {
			continue
		}

		var targetStream *container.Stream
		if tpl, accepted := kc.Templates[fe.Name]; accepted {
			targetStream = planAcceptedStream(s, tpl, kc.PreferCopy)
			// step 5: overlay template metadata options.
			overlayMetadata(targetStream, tpl.Options)
		} else {
			if kc.Default.Format.Name == "" {
				// No default configured for this kind: nothing we can
				// transcode to, so the stream is dropped.
				continue
			}
			targetStream = planTranscodedStream(s, kc.Default)
		}

		// step 6: image subtitle source dropped when target is text-based.
		if fe.Kind == option.StreamSubtitle && fe.IsImage && !targetStream.Format().IsImage {
			continue
		}

		targetIdx := target.AddStream(targetStream)
		mapping = append(mapping, Mapping{SourceIndex: absIdx, TargetIndex: targetIdx})
	}

	addExtraAudioTracks(src, target, cfg, &mapping)

	fixDispositions(target)

	return &Plan{Target: target, Mapping: mapping}, nil
}

func languageAccepted(s *container.Stream, accepted []string) bool {
	lang := s.Options().GetUnique(option.KindLanguage)
	if lang == nil {
		return false
	}
	return contains(accepted, lang.Value().(string))
}

// planAcceptedStream builds a target stream for a source format the
// container "accepts" (§4.4 step 3).
func planAcceptedStream(src *container.Stream, tpl Template, preferCopy bool) *container.Stream {
	target := container.NewStream(src.Format())

	if preferCopy {
		target.AddOptions(src.Options().All()...)
		return target
	}

	incompatible := src.Options().Diff(tpl.Options)
	// Write template values for incompatible kinds...
	for _, opt := range incompatible.All() {
		if tplOpt := tpl.Options.GetUnique(opt.Kind()); tplOpt != nil {
			target.AddOptions(tplOpt)
		}
	}
	// ...and copy every other source option unchanged, including kinds the
	// template does not constrain.
	for _, opt := range src.Options().All() {
		if !incompatible.Has(opt.Kind()) || !tpl.Options.Has(opt.Kind()) {
			target.AddOptions(opt)
		}
	}
	return target
}

// planTranscodedStream builds a target stream for a source format that
// isn't accepted (§4.4 step 4): defaults first, then fill remaining kinds
// from the source.
func planTranscodedStream(src *container.Stream, def Default) *container.Stream {
	target := container.NewStream(def.Format)
	target.AddOptions(def.Options.All()...)
	for _, opt := range src.Options().All() {
		if !target.Options().Has(opt.Kind()) {
			target.AddOptions(opt)
		}
	}
	return target
}

func overlayMetadata(target *container.Stream, tplOptions *option.Collection) {
	for _, opt := range tplOptions.MetadataOptions().All() {
		target.AddOptions(opt)
	}
}

// addExtraAudioTracks implements the "force-create" audio track policy
// (§4.4): one candidate per accepted language, ranked by
// (format.score desc, channels desc, bitrate desc), never upgrading beyond
// what the source actually carries.
func addExtraAudioTracks(src, target *container.Container, cfg *Config, mapping *[]Mapping) {
	if len(cfg.ForceCreateAudio) == 0 {
		return
	}

	audioSources := src.StreamsOfKind(option.StreamAudio)

	for _, lang := range cfg.AudioLanguages {
		candidate := bestCandidate(audioSources, lang)
		if candidate == nil {
			continue
		}

		for _, extra := range cfg.ForceCreateAudio {
			targetStream := container.NewStream(extra.Format)
			targetStream.AddOptions(extra.Options.All()...)
			for _, opt := range candidate.Options().All() {
				if !targetStream.Options().Has(opt.Kind()) {
					targetStream.AddOptions(opt)
				}
			}

			if suppressExtraTrack(candidate, targetStream, target, lang) {
				continue
			}

			srcAbs, ok := src.AbsoluteIndex(candidate.UID())
			if !ok {
				continue
			}
			targetIdx := target.AddStream(targetStream)
			*mapping = append(*mapping, Mapping{SourceIndex: srcAbs, TargetIndex: targetIdx})
		}
	}
}

// bestCandidate selects the single best source audio stream in the given
// language, ranked by (format.score desc, channels desc, bitrate desc).
func bestCandidate(streams []*container.Stream, lang string) *container.Stream {
	var matches []*container.Stream
	for _, s := range streams {
		l := s.Options().GetUnique(option.KindLanguage)
		if l != nil && l.Value().(string) == lang {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := matches[i], matches[j]
		if si.Format().Score != sj.Format().Score {
			return si.Format().Score > sj.Format().Score
		}
		ci := intOpt(si, option.KindChannels)
		cj := intOpt(sj, option.KindChannels)
		if ci != cj {
			return ci > cj
		}
		return intOpt(si, option.KindBitrate) > intOpt(sj, option.KindBitrate)
	})
	return matches[0]
}

func intOpt(s *container.Stream, k option.Kind) int {
	o := s.Options().GetUnique(k)
	if o == nil {
		return 0
	}
	v, _ := o.Value().(int)
	return v
}

// suppressExtraTrack implements the three non-upgrade/duplicate-suppression
// rules of §4.4 (property 7).
func suppressExtraTrack(candidate, target *container.Stream, already *container.Container, lang string) bool {
	// (a) same format, target bitrate higher than source: can't synthesize
	// quality that isn't there.
	if candidate.Format().Name == target.Format().Name {
		if intOpt(target, option.KindBitrate) > intOpt(candidate, option.KindBitrate) {
			return true
		}
		// (b) same format, target channels greater than source's.
		if intOpt(target, option.KindChannels) > intOpt(candidate, option.KindChannels) {
			return true
		}
	}

	// (c) an already-planned audio stream in the same language exists with
	// equal format and equal-or-higher bitrate.
	for _, planned := range already.StreamsOfKind(option.StreamAudio) {
		pLang := planned.Options().GetUnique(option.KindLanguage)
		if pLang == nil || pLang.Value().(string) != lang {
			continue
		}
		if planned.Format().Name == target.Format().Name &&
			intOpt(planned, option.KindBitrate) >= intOpt(target, option.KindBitrate) {
			return true
		}
	}
	return false
}

// fixDispositions ensures exactly one "default" stream per kind (§4.4
// "Disposition fix-up"): the stream's existing Disposition option is
// replaced in its slot by an updated copy that keeps its other flags, so no
// second Disposition option is added (resolves §9's source ambiguity).
func fixDispositions(target *container.Container) {
	for _, kind := range []option.StreamKind{option.StreamVideo, option.StreamAudio, option.StreamSubtitle} {
		streams := target.StreamsOfKind(kind)
		if len(streams) == 0 {
			continue
		}
		defaultCount := 0
		firstDefault := -1
		for i, s := range streams {
			d := currentDisposition(s)
			if d.Default() == 1 {
				defaultCount++
				if firstDefault == -1 {
					firstDefault = i
				}
			}
		}
		switch {
		case defaultCount == 0:
			setDefault(streams[0], 1)
		case defaultCount > 1:
			for i, s := range streams {
				if i == firstDefault {
					continue
				}
				d := currentDisposition(s)
				if d.Default() == 1 {
					setDefault(s, 0)
				}
			}
		}
	}
}

func currentDisposition(s *container.Stream) option.Disposition {
	d := s.Options().GetUnique(option.KindDisposition)
	if d == nil {
		return option.Disposition{Flags: map[string]int{}}
	}
	return d.(option.Disposition)
}

func setDefault(s *container.Stream, v int) {
	s.AddOptions(currentDisposition(s).WithDefault(v))
}
