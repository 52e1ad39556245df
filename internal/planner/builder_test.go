package planner

import (
	"testing"

	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/format"
	"github.com/nvxlabs/mediaplan/internal/option"
)

func fe(t *testing.T, name string) format.Entry {
	t.Helper()
	e, ok := format.FormatOf(name)
	if !ok {
		t.Fatalf("unknown format %q", name)
	}
	return e
}

func newSourceMKV(t *testing.T) *container.Container {
	t.Helper()
	src, err := container.New(container.FormatMatroska, "/in/movie.mkv")
	if err != nil {
		t.Fatal(err)
	}

	v := container.NewStream(fe(t, "h264"))
	v.AddOptions(option.PixelFormat{V: "yuv420p"}, option.Height{V: 1080}, option.Width{V: 1920},
		option.Disposition{Flags: map[string]int{"default": 1}})
	src.AddStream(v)

	ac3 := container.NewStream(fe(t, "ac3"))
	ac3.AddOptions(option.Channels{V: 6}, option.Language{V: "fre"}, option.Bitrate{V: 640},
		option.Disposition{Flags: map[string]int{"default": 0}})
	src.AddStream(ac3)

	aac := container.NewStream(fe(t, "aac"))
	aac.AddOptions(option.Channels{V: 2}, option.Language{V: "eng"}, option.Bitrate{V: 192},
		option.Disposition{Flags: map[string]int{"default": 0}})
	src.AddStream(aac)

	ssa := container.NewStream(fe(t, "ssa"))
	ssa.AddOptions(option.Language{V: "eng"}, option.Disposition{Flags: map[string]int{"default": 0}})
	src.AddStream(ssa)

	return src
}

func baseMP4Config(t *testing.T) *Config {
	t.Helper()
	h264Opts := option.NewCollection(option.Unique, nil)
	h264Opts.Add(option.PixelFormat{V: "yuv420p"})

	aacOpts := option.NewCollection(option.Unique, nil)
	aacOpts.Add(option.Channels{V: 2})

	movTextOpts := option.NewCollection(option.Unique, nil)

	aacDefaultOpts := option.NewCollection(option.Unique, nil)
	aacDefaultOpts.Add(option.Channels{V: 2})

	return &Config{
		Video: KindConfig{
			Templates:  map[string]Template{"h264": {Format: fe(t, "h264"), Options: h264Opts}},
			PreferCopy: true,
		},
		Audio: KindConfig{
			Templates:  map[string]Template{"aac": {Format: fe(t, "aac"), Options: aacOpts}},
			PreferCopy: true,
			Default:    Default{Format: fe(t, "aac"), Options: aacDefaultOpts},
		},
		Subtitle: KindConfig{
			Templates: map[string]Template{"mov_text": {Format: fe(t, "mov_text"), Options: movTextOpts}},
			Default:   Default{Format: fe(t, "mov_text"), Options: movTextOpts},
		},
		AudioLanguages:    []string{"eng", "fre"},
		SubtitleLanguages: []string{"eng"},
		TargetFormat:      container.FormatMP4,
		TargetPath:        "/work/movie.mp4",
	}
}

// S1: MKV H264/AC3-fre/AAC-eng/SSA-eng -> MP4 accepted={h264,aac,mov_text}
func TestS1MixedCopyAndTranscode(t *testing.T) {
	src := newSourceMKV(t)
	cfg := baseMP4Config(t)

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Mapping) != 4 {
		t.Fatalf("want 4 mapped streams (video, ac3->aac, aac, ssa->mov_text), got %d: %+v", len(plan.Mapping), plan.Mapping)
	}

	// video copied through (property 1)
	videoTarget := plan.Target.StreamAt(plan.Mapping[0].TargetIndex)
	if videoTarget.Format().Name != "h264" {
		t.Fatalf("want h264 video target, got %s", videoTarget.Format().Name)
	}

	// AC3 (not accepted) transcodes to the audio default (aac)
	ac3TargetIdx := plan.Mapping[1].TargetIndex
	ac3Target := plan.Target.StreamAt(ac3TargetIdx)
	if ac3Target.Format().Name != "aac" {
		t.Fatalf("want AC3 source transcoded to aac default, got %s", ac3Target.Format().Name)
	}

	// SSA -> mov_text (subtitle default)
	ssaTarget := plan.Target.StreamAt(plan.Mapping[3].TargetIndex)
	if ssaTarget.Format().Name != "mov_text" {
		t.Fatalf("want SSA transcoded to mov_text, got %s", ssaTarget.Format().Name)
	}
}

// property 3: language gating.
func TestLanguageGatingExcludesStream(t *testing.T) {
	src := newSourceMKV(t)
	cfg := baseMP4Config(t)
	cfg.AudioLanguages = []string{"eng"} // drop fre AC3

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range plan.Mapping {
		srcStream := src.StreamAt(m.SourceIndex)
		if srcStream.Format().Name == "ac3" {
			t.Fatal("French AC3 stream should have been excluded by language gating")
		}
	}
}

// property 2: template enforcement when prefer_copy=false.
func TestTemplateEnforcementOverridesDifferingOption(t *testing.T) {
	src, err := container.New(container.FormatMatroska, "/in/x.mkv")
	if err != nil {
		t.Fatal(err)
	}
	v := container.NewStream(fe(t, "h264"))
	v.AddOptions(option.PixelFormat{V: "yuv420p10le"}, option.Height{V: 2160})
	src.AddStream(v)

	tplOpts := option.NewCollection(option.Unique, nil)
	tplOpts.Add(option.PixelFormat{V: "yuv420p"})

	cfg := &Config{
		Video: KindConfig{
			Templates:  map[string]Template{"h264": {Format: fe(t, "h264"), Options: tplOpts}},
			PreferCopy: false,
		},
		TargetFormat: container.FormatMP4,
		TargetPath:   "/work/x.mp4",
	}

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	target := plan.Target.StreamAt(plan.Mapping[0].TargetIndex)
	pf := target.Options().GetUnique(option.KindPixelFormat)
	if pf.Value().(string) != "yuv420p" {
		t.Fatalf("want template pix_fmt to win, got %v", pf.Value())
	}
	h := target.Options().GetUnique(option.KindHeight)
	if h.Value().(int) != 2160 {
		t.Fatalf("want source height preserved, got %v", h.Value())
	}
}

// property 4: image subtitle never maps to a text target.
func TestImageSubtitleDroppedForTextTarget(t *testing.T) {
	src, err := container.New(container.FormatMatroska, "/in/x.mkv")
	if err != nil {
		t.Fatal(err)
	}
	pgs := container.NewStream(fe(t, "hdmv_pgs_subtitle"))
	pgs.AddOptions(option.Language{V: "eng"})
	src.AddStream(pgs)

	movTextOpts := option.NewCollection(option.Unique, nil)
	cfg := &Config{
		Subtitle: KindConfig{
			Templates: map[string]Template{"hdmv_pgs_subtitle": {Format: fe(t, "hdmv_pgs_subtitle"), Options: movTextOpts}},
		},
		SubtitleLanguages: []string{"eng"},
		TargetFormat:      container.FormatMP4,
		TargetPath:        "/work/x.mp4",
	}
	// Accept the PGS format itself but target format for MP4 is image-incompatible in real configs;
	// simulate the policy directly by accepting into a text default instead.
	cfg.Subtitle.Templates = nil
	cfg.Subtitle.Default = Default{Format: fe(t, "mov_text"), Options: movTextOpts}

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Mapping) != 0 {
		t.Fatalf("want PGS dropped rather than mapped to mov_text, got %d mappings", len(plan.Mapping))
	}
}

// property 5: disposition fix-up invariant.
func TestDispositionFixupExactlyOneDefault(t *testing.T) {
	src := newSourceMKV(t)
	cfg := baseMP4Config(t)

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	audioStreams := plan.Target.StreamsOfKind(option.StreamAudio)
	defaults := 0
	for _, s := range audioStreams {
		d := s.Options().GetUnique(option.KindDisposition).(option.Disposition)
		if d.Default() == 1 {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("want exactly one default audio stream, got %d", defaults)
	}
}

// property 6: mapping/index stability.
func TestMappingIndicesMatchInsertionOrder(t *testing.T) {
	src := newSourceMKV(t)
	cfg := baseMP4Config(t)

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i, m := range plan.Mapping {
		if m.TargetIndex != i {
			t.Fatalf("mapping %d: want target index %d, got %d", i, i, m.TargetIndex)
		}
	}
}

// S2: force_create_tracks=[aac] with an existing English AAC present: no
// extra track (non-upgrade rule).
func TestS2NoExtraTrackWhenEquivalentExists(t *testing.T) {
	src := newSourceMKV(t)
	cfg := baseMP4Config(t)

	aacTplOpts := option.NewCollection(option.Unique, nil)
	aacTplOpts.Add(option.Channels{V: 2})
	cfg.ForceCreateAudio = []Template{{Format: fe(t, "aac"), Options: aacTplOpts}}

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, m := range plan.Mapping {
		if plan.Target.StreamAt(m.TargetIndex).Format().Name == "aac" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("want exactly 2 aac target streams (ac3->aac default and the copied eng aac; no extra track), got %d", count)
	}
}

// S3: only French AC3 exists, force_create_tracks=[aac]: an extra fre AAC
// track is planned from the AC3 source.
func TestS3ExtraTrackCreatedFromLesserSource(t *testing.T) {
	src, err := container.New(container.FormatMatroska, "/in/x.mkv")
	if err != nil {
		t.Fatal(err)
	}
	ac3 := container.NewStream(fe(t, "ac3"))
	ac3.AddOptions(option.Channels{V: 6}, option.Language{V: "fre"}, option.Bitrate{V: 640})
	src.AddStream(ac3)

	cfg := baseMP4Config(t)
	cfg.AudioLanguages = []string{"fre"}
	// AC3 isn't accepted, so it transcodes to the default aac stream; then
	// the extra-track pass also tries to add an aac extra from the fre AC3.
	aacTplOpts := option.NewCollection(option.Unique, nil)
	aacTplOpts.Add(option.Channels{V: 2})
	cfg.ForceCreateAudio = []Template{{Format: fe(t, "aac"), Options: aacTplOpts}}

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range plan.Mapping {
		s := src.StreamAt(m.SourceIndex)
		if s.Format().Name == "ac3" {
			found = true
		}
	}
	if !found {
		t.Fatal("want the fre AC3 source stream to be referenced by at least one mapping")
	}
}

// property 7: extra track never upgrades quality.
func TestExtraTrackNeverUpgradesBitrateOrChannels(t *testing.T) {
	src, err := container.New(container.FormatMatroska, "/in/x.mkv")
	if err != nil {
		t.Fatal(err)
	}
	aac := container.NewStream(fe(t, "aac"))
	aac.AddOptions(option.Channels{V: 2}, option.Language{V: "eng"}, option.Bitrate{V: 96})
	src.AddStream(aac)

	cfg := baseMP4Config(t)
	cfg.AudioLanguages = []string{"eng"}
	cfg.Audio.Templates = nil // force transcode path so we isolate extra-track behavior
	cfg.Audio.Default = Default{Format: fe(t, "aac"), Options: mustOpts(t, option.Channels{V: 2})}

	// extra track template requests a *higher* bitrate than the source has.
	hiBitrateOpts := option.NewCollection(option.Unique, nil)
	hiBitrateOpts.Add(option.Channels{V: 2})
	hiBitrateOpts.Add(option.Bitrate{V: 320})
	cfg.ForceCreateAudio = []Template{{Format: fe(t, "aac"), Options: hiBitrateOpts}}

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range plan.Mapping {
		s := src.StreamAt(m.SourceIndex)
		if s.Format().Name != "aac" {
			continue
		}
		tgt := plan.Target.StreamAt(m.TargetIndex)
		br := tgt.Options().GetUnique(option.KindBitrate)
		if br != nil && br.Value().(int) > 96 {
			t.Fatalf("extra track must never exceed source bitrate (96), got %d", br.Value().(int))
		}
	}
}

func mustOpts(t *testing.T, opts ...option.Option) *option.Collection {
	t.Helper()
	c := option.NewCollection(option.Unique, nil)
	c.AddAll(opts...)
	return c
}
