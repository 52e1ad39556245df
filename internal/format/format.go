// Package format implements the static format/codec registry: immutable
// descriptors for stream formats and encoders, codec name alias collapsing,
// and the whitespace-tokenized capability-probe parser that determines which
// encoders are actually available on the host.
//
// Grounded on the source's formats.py/encoders.py BaseFormat/FFMpegCodec
// tables, re-keyed as Go value types registered in package-level tables
// instead of a class hierarchy.
package format

import "github.com/nvxlabs/mediaplan/internal/option"

// Entry is an immutable format-registry descriptor (§3 "Format registry
// entry").
type Entry struct {
	Name      string
	Kind      option.StreamKind
	Supported []option.Kind
	Enabled   bool
	Score     int
	// IsImage marks image-based subtitle formats (PGS, DVBSub, ...) so the
	// plan builder can apply the image->text drop policy (§4.4 step 6).
	IsImage bool
}

var videoSupported = []option.Kind{
	option.KindPixelFormat, option.KindBitrate, option.KindDisposition,
	option.KindHeight, option.KindWidth, option.KindLevel, option.KindProfile,
	option.KindTag, option.KindFilter,
}

var audioSupported = []option.Kind{
	option.KindChannels, option.KindLanguage, option.KindDisposition,
	option.KindBitrate, option.KindTag,
}

var subtitleSupported = []option.Kind{
	option.KindLanguage, option.KindDisposition, option.KindTag,
}

func video(name string, score int) Entry {
	return Entry{Name: name, Kind: option.StreamVideo, Supported: videoSupported, Enabled: true, Score: score}
}

func audio(name string, score int) Entry {
	return Entry{Name: name, Kind: option.StreamAudio, Supported: audioSupported, Enabled: true, Score: score}
}

func subtitle(name string, score int, isImage bool) Entry {
	return Entry{Name: name, Kind: option.StreamSubtitle, Supported: subtitleSupported, Enabled: true, Score: score, IsImage: isImage}
}

// registry holds every known format, keyed by canonical (post-alias) name.
var registry = map[string]Entry{
	// video
	"h264":   video("h264", 4),
	"hevc":   video("hevc", 5),
	"mpeg1":  video("mpeg1", 1),
	"mpeg2":  video("mpeg2", 1),
	"theora": video("theora", 1),
	"vp8":    video("vp8", 2),
	"divx":   video("divx", 1),
	"h263":   video("h263", 1),
	"flv":    video("flv", 1),

	// audio
	"aac":    audio("aac", 1),
	"mp3":    audio("mp3", 2),
	"mp2":    audio("mp2", 1),
	"vorbis": audio("vorbis", 2),
	"ac3":    audio("ac3", 1),
	"eac3":   audio("eac3", 2),
	"dts":    audio("dts", 3),
	"flac":   audio("flac", 3),
	"truehd": {Name: "truehd", Kind: option.StreamAudio, Supported: audioSupported, Enabled: false, Score: 5},

	// subtitle (text)
	"mov_text": subtitle("mov_text", 2, false),
	"srt":      subtitle("srt", 2, false),
	"subrip":   subtitle("subrip", 2, false),
	"ssa":      subtitle("ssa", 1, false),
	"webvtt":   subtitle("webvtt", 1, false),

	// subtitle (image-based)
	"hdmv_pgs_subtitle": subtitle("hdmv_pgs_subtitle", 1, true),
	"dvd_subtitle":      subtitle("dvd_subtitle", 1, true),
	"dvb_subtitle":      subtitle("dvb_subtitle", 1, true),
	"xsub":              subtitle("xsub", 1, true),
}

// aliases collapses external codec-name spellings onto a canonical registry
// key. Resolves the two closed-over alias tables the spec calls for:
// h265->hevc, x264->h264, x265->hevc.
var aliases = map[string]string{
	"h265": "hevc",
	"x264": "h264",
	"x265": "hevc",
}

// Canonicalize resolves a raw external codec name (as reported by ffprobe or
// configured in StreamFormats/PreferredEncoders) to its registry key.
func Canonicalize(name string) string {
	if canon, ok := aliases[name]; ok {
		return canon
	}
	return name
}

// FormatOf returns the registry entry for name (after alias collapsing), or
// (Entry{}, false) if unknown.
func FormatOf(name string) (Entry, bool) {
	e, ok := registry[Canonicalize(name)]
	return e, ok
}

// All returns every registered format entry, for config validation and
// diagnostics.
func All() map[string]Entry {
	out := make(map[string]Entry, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}
