package format

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nvxlabs/mediaplan/internal/option"
)

// EncoderDescriptor is an immutable record describing a concrete encoding
// tool (§3 "Encoder descriptor"): its human name, the external-tool codec
// name ffmpeg expects after -c:v/-c:a/-c:s, the format it produces, its
// supported option subset, and a score for tie-breaking among encoders that
// produce the same format.
type EncoderDescriptor struct {
	Name        string
	ExternalName string
	Produces    string // format registry key
	Supported   []option.Kind
	Score       int
	IsCopy      bool
	FixedArgs   []string // codec-specific flags appended after the -c:<kind>:<idx> <name> header
}

var copySupported = []option.Kind{
	option.KindBitstreamFilter, option.KindLanguage, option.KindDisposition, option.KindTag,
}

// encoders is the closed table of known encoders, grounded on encoders.py's
// ~25 concrete _FFMpegCodec subclasses, collapsed into data.
var encoders = []EncoderDescriptor{
	{Name: "video-copy", ExternalName: "copy", Produces: "", Supported: copySupported, Score: 5, IsCopy: true},
	{Name: "audio-copy", ExternalName: "copy", Produces: "", Supported: copySupported, Score: 5, IsCopy: true},
	{Name: "subtitle-copy", ExternalName: "copy", Produces: "", Supported: copySupported, Score: 5, IsCopy: true},

	{Name: "libx264", ExternalName: "libx264", Produces: "h264", Supported: videoEncSupported(), Score: 5},
	{Name: "h264_nvenc", ExternalName: "h264_nvenc", Produces: "h264", Supported: videoEncSupported(), Score: 1},
	{Name: "h264_vaapi", ExternalName: "h264_vaapi", Produces: "h264", Supported: videoEncSupported(), Score: 1},
	{Name: "h264_qsv", ExternalName: "h264_qsv", Produces: "h264", Supported: videoEncSupported(), Score: 1},

	{Name: "libx265", ExternalName: "libx265", Produces: "hevc", Supported: videoEncSupported(), Score: 5},
	{Name: "hevc_nvenc", ExternalName: "hevc_nvenc", Produces: "hevc", Supported: videoEncSupported(), Score: 1},
	{Name: "hevc_qsv", ExternalName: "hevc_qsv", Produces: "hevc", Supported: videoEncSupported(), Score: 1},

	{Name: "mpeg4", ExternalName: "mpeg4", Produces: "divx", Supported: videoEncSupported(), Score: 5},
	{Name: "libvpx", ExternalName: "libvpx", Produces: "vp8", Supported: videoEncSupported(), Score: 5},
	{Name: "h263", ExternalName: "h263", Produces: "h263", Supported: videoEncSupported(), Score: 5},
	{Name: "flv", ExternalName: "flv", Produces: "flv", Supported: videoEncSupported(), Score: 5},
	{Name: "mpeg1video", ExternalName: "mpeg1video", Produces: "mpeg1", Supported: videoEncSupported(), Score: 5},
	{Name: "mpeg2video", ExternalName: "mpeg2video", Produces: "mpeg2", Supported: videoEncSupported(), Score: 5},
	{Name: "libtheora", ExternalName: "libtheora", Produces: "theora", Supported: videoEncSupported(), Score: 5},

	{Name: "aac", ExternalName: "aac", Produces: "aac", Supported: audioEncSupported(), Score: 1},
	{Name: "libfdk_aac", ExternalName: "libfdk_aac", Produces: "aac", Supported: audioEncSupported(), Score: 5},
	{Name: "libfaac", ExternalName: "libfaac", Produces: "aac", Supported: audioEncSupported(), Score: 2},

	{Name: "libmp3lame", ExternalName: "libmp3lame", Produces: "mp3", Supported: audioEncSupported(), Score: 5},
	{Name: "mp2", ExternalName: "mp2", Produces: "mp2", Supported: audioEncSupported(), Score: 5},
	{Name: "libvorbis", ExternalName: "libvorbis", Produces: "vorbis", Supported: audioEncSupported(), Score: 5},
	{Name: "ac3", ExternalName: "ac3", Produces: "ac3", Supported: audioEncSupported(), Score: 5},
	{Name: "eac3", ExternalName: "eac3", Produces: "eac3", Supported: audioEncSupported(), Score: 5},
	{Name: "dca", ExternalName: "dca", Produces: "dts", Supported: audioEncSupported(), Score: 5, FixedArgs: []string{"-strict", "-2"}},
	{Name: "flac", ExternalName: "flac", Produces: "flac", Supported: audioEncSupported(), Score: 5},

	{Name: "mov_text", ExternalName: "mov_text", Produces: "mov_text", Supported: subEncSupported(), Score: 5},
	{Name: "srt", ExternalName: "srt", Produces: "srt", Supported: subEncSupported(), Score: 5},
	{Name: "subrip", ExternalName: "subrip", Produces: "subrip", Supported: subEncSupported(), Score: 5},
	{Name: "ass", ExternalName: "ass", Produces: "ssa", Supported: subEncSupported(), Score: 5},
	{Name: "webvtt", ExternalName: "webvtt", Produces: "webvtt", Supported: subEncSupported(), Score: 5},
	{Name: "dvbsub", ExternalName: "dvbsub", Produces: "dvb_subtitle", Supported: subEncSupported(), Score: 5},
	{Name: "dvdsub", ExternalName: "dvdsub", Produces: "dvd_subtitle", Supported: subEncSupported(), Score: 5},
	{Name: "pgssub", ExternalName: "pgssub", Produces: "hdmv_pgs_subtitle", Supported: subEncSupported(), Score: 5},
}

func videoEncSupported() []option.Kind {
	return append(append([]option.Kind{}, videoSupported...), option.KindBitstreamFilter, option.KindCRF)
}
func audioEncSupported() []option.Kind {
	return append(append([]option.Kind{}, audioSupported...), option.KindBitstreamFilter)
}
func subEncSupported() []option.Kind {
	return append(append([]option.Kind{}, subtitleSupported...), option.KindBitstreamFilter)
}

// CopyEncoder returns the copy-encoder descriptor for the given stream kind.
func CopyEncoder(sk option.StreamKind) EncoderDescriptor {
	switch sk {
	case option.StreamVideo:
		return encoders[0]
	case option.StreamAudio:
		return encoders[1]
	default:
		return encoders[2]
	}
}

// EncodersProducing returns every non-copy encoder that produces the given
// format, ordered by score descending (ties broken by name for determinism —
// property 8, command determinism).
func EncodersProducing(formatName string) []EncoderDescriptor {
	canon := Canonicalize(formatName)
	var out []EncoderDescriptor
	for _, e := range encoders {
		if !e.IsCopy && e.Produces == canon {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ExternalName < out[j].ExternalName
	})
	return out
}

// ByExternalName looks up a non-copy encoder by its external-tool codec
// name, used to resolve a config's PreferredEncoders{format: name} entry.
func ByExternalName(name string) (EncoderDescriptor, bool) {
	for _, e := range encoders {
		if !e.IsCopy && e.ExternalName == name {
			return e, true
		}
	}
	return EncoderDescriptor{}, false
}

// capabilityLineRE matches a capability-probe line's leading type token.
// Per §9's resolved ambiguity, tokenization is on whitespace runs, not a
// single space, so stray alignment padding in `ffmpeg -encoders` output
// doesn't corrupt the NAME field.
var capabilityLineRE = regexp.MustCompile(`\S+`)

// AvailableSet parses `ffmpeg -v 0 -encoders`/`-decoders` style output: lines
// after the "------" separator are "TYPE NAME description...", TYPE[0] in
// {V,A,S}. Returns the set of external encoder/decoder names the host
// actually supports.
func AvailableSet(capabilityOutput string) map[string]bool {
	avail := make(map[string]bool)
	lines := strings.Split(capabilityOutput, "\n")
	seenSeparator := false
	for _, line := range lines {
		if !seenSeparator {
			if strings.Contains(line, "------") {
				seenSeparator = true
			}
			continue
		}
		fields := capabilityLineRE.FindAllString(line, -1)
		if len(fields) < 2 {
			continue
		}
		typeTok, name := fields[0], fields[1]
		if len(typeTok) == 0 {
			continue
		}
		switch typeTok[0] {
		case 'V', 'A', 'S':
			avail[name] = true
		}
	}
	return avail
}

// IsAvailable reports whether externalName was discovered in the
// capability-probe output (§4.2 is_available).
func IsAvailable(available map[string]bool, externalName string) bool {
	return available[externalName]
}
