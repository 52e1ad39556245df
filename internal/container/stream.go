// Package container implements the in-memory stream/container model (§3):
// streams carry a typed format and a unique options collection; containers
// own an ordered list of streams plus uid-keyed absolute/relative index maps.
//
// Grounded on the source's streams.py (Stream/VideoStream/AudioStream/
// SubtitleStream/ImageStream, StreamFactory) and containers.py, but
// re-architected per spec §9: the list-backed Container with explicit
// uid->absolute and uid->relative maps is the intended design (not the
// dict-backed Container also present in the source).
package container

import (
	"github.com/google/uuid"

	"github.com/nvxlabs/mediaplan/internal/format"
	"github.com/nvxlabs/mediaplan/internal/option"
)

// UID is an opaque, process-unique stream identifier assigned at
// construction and never reused within a container's lifetime.
type UID string

// Stream is one track within a container.
type Stream struct {
	uid     UID
	kind    option.StreamKind
	fmt     format.Entry
	options *option.Collection
}

// NewStream builds a stream of the given format, with a fresh uid and an
// options collection restricted to the format's supported-option set.
func NewStream(fmt format.Entry) *Stream {
	return &Stream{
		uid:     UID(uuid.NewString()),
		kind:    fmt.Kind,
		fmt:     fmt,
		options: option.NewCollection(option.Unique, fmt.Supported),
	}
}

// UID returns the stream's stable identifier.
func (s *Stream) UID() UID { return s.uid }

// Kind returns the stream's track kind.
func (s *Stream) Kind() option.StreamKind { return s.kind }

// Format returns the stream's format-registry entry.
func (s *Stream) Format() format.Entry { return s.fmt }

// Options returns the stream's options collection.
func (s *Stream) Options() *option.Collection { return s.options }

// AddOptions adds each option, silently dropping any not in the stream's
// supported set or carrying a nil value (§4.1 contract).
func (s *Stream) AddOptions(opts ...option.Option) {
	s.options.AddAll(opts...)
}

// Clone returns a new stream with the same format and a copy of the options
// collection, but a fresh uid — used when building a target stream that
// starts from a template or default's option set.
func (s *Stream) Clone() *Stream {
	return &Stream{
		uid:     UID(uuid.NewString()),
		kind:    s.kind,
		fmt:     s.fmt,
		options: s.options.Clone(),
	}
}

// Equal reports whether two streams have the same format and their options
// match as a subset in both directions, excluding metadata (§3).
func (s *Stream) Equal(other *Stream) bool {
	if other == nil {
		return false
	}
	if s.fmt.Name != other.fmt.Name {
		return false
	}
	return s.options.EqualExcludingMetadata(other.options)
}
