// Package option implements the typed per-stream attribute algebra: a closed
// set of option kinds, an ordered collection with unique/multi modes, and the
// subset/diff operations the planner relies on for copy-vs-transcode
// decisions.
package option

// Kind identifies a closed tagged-variant of option types. Re-architected
// from the source's class-identity dispatch into a static enum so that
// equality and rendering are both structural, not identity-based.
type Kind int

const (
	KindPixelFormat Kind = iota
	KindBitrate
	KindChannels
	KindLevel
	KindProfile
	KindHeight
	KindWidth
	KindLanguage
	KindDisposition
	KindTag
	KindFilter
	KindBitstreamFilter
	KindCRF
	KindMetadata
)

func (k Kind) String() string {
	switch k {
	case KindPixelFormat:
		return "pixel_format"
	case KindBitrate:
		return "bitrate"
	case KindChannels:
		return "channels"
	case KindLevel:
		return "level"
	case KindProfile:
		return "profile"
	case KindHeight:
		return "height"
	case KindWidth:
		return "width"
	case KindLanguage:
		return "language"
	case KindDisposition:
		return "disposition"
	case KindTag:
		return "tag"
	case KindFilter:
		return "filter"
	case KindBitstreamFilter:
		return "bitstream_filter"
	case KindCRF:
		return "crf"
	case KindMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// Class distinguishes how an option is consumed downstream: as a stream
// attribute used for plan-time comparisons, as an encoder flag, or as
// mux-time metadata.
type Class int

const (
	ClassStream Class = iota
	ClassEncoder
	ClassMetadata
)

// StreamKind is the track kind an option (or a whole stream) belongs to.
// Attached-picture streams (cover art) are not a distinct kind: they are
// modeled as StreamSubtitle with format.Entry.IsImage set, matching the
// source's real attachment handling (converter/streams.py's ImageStream has
// kind "subtitle").
type StreamKind int

const (
	StreamVideo StreamKind = iota
	StreamAudio
	StreamSubtitle
)

func (k StreamKind) String() string {
	switch k {
	case StreamVideo:
		return "v"
	case StreamAudio:
		return "a"
	case StreamSubtitle:
		return "s"
	default:
		return "?"
	}
}
