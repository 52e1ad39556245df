package container

import (
	"fmt"

	"github.com/nvxlabs/mediaplan/internal/option"
)

// Format is the closed set of supported container formats (§3).
type Format string

const (
	FormatMP4      Format = "mp4"
	FormatMatroska Format = "matroska"
	FormatAVI      Format = "avi"
)

var supportedFormats = map[Format]bool{
	FormatMP4: true, FormatMatroska: true, FormatAVI: true,
}

// UnsupportedFormatError is returned by New when fmt isn't in the closed
// container-format set.
type UnsupportedFormatError struct{ Format string }

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("container: unsupported format %q", e.Format)
}

// Container is a media file at a path: an ordered stream list plus per-kind
// views and uid-keyed absolute/relative index maps. List-backed per §9 (not
// dict-backed): absolute index is simply position in the slice.
type Container struct {
	Format   Format
	FilePath string

	streams []*Stream

	absoluteIndex map[UID]int
	relativeIndex map[UID]int
}

// New constructs an empty container of the given format and path. Returns
// *UnsupportedFormatError if fmt is not in the closed set.
func New(fmt Format, path string) (*Container, error) {
	if !supportedFormats[fmt] {
		return nil, &UnsupportedFormatError{Format: string(fmt)}
	}
	return &Container{
		Format:        fmt,
		FilePath:      path,
		absoluteIndex: make(map[UID]int),
		relativeIndex: make(map[UID]int),
	}, nil
}

// AddStream appends stream to the container, assigning it the next absolute
// index (len(streams)) and the next relative index among same-kind streams.
// Returns the absolute index assigned.
func (c *Container) AddStream(s *Stream) int {
	abs := len(c.streams)
	c.streams = append(c.streams, s)
	c.absoluteIndex[s.UID()] = abs

	rel := 0
	for _, existing := range c.streams[:abs] {
		if existing.Kind() == s.Kind() {
			rel++
		}
	}
	c.relativeIndex[s.UID()] = rel
	return abs
}

// Streams returns every stream in the container, in absolute-index order.
func (c *Container) Streams() []*Stream {
	out := make([]*Stream, len(c.streams))
	copy(out, c.streams)
	return out
}

// StreamsOfKind returns streams of the given kind, in relative-index order
// (which is also their relative order of insertion).
func (c *Container) StreamsOfKind(k option.StreamKind) []*Stream {
	var out []*Stream
	for _, s := range c.streams {
		if s.Kind() == k {
			out = append(out, s)
		}
	}
	return out
}

// AbsoluteIndex returns the absolute (container-list) position of the stream
// with the given uid, and whether it was found.
func (c *Container) AbsoluteIndex(uid UID) (int, bool) {
	i, ok := c.absoluteIndex[uid]
	return i, ok
}

// RelativeIndex returns the 0-based position of the stream with the given
// uid among streams of its own kind, and whether it was found.
func (c *Container) RelativeIndex(uid UID) (int, bool) {
	i, ok := c.relativeIndex[uid]
	return i, ok
}

// StreamAt returns the stream at the given absolute index, or nil.
func (c *Container) StreamAt(abs int) *Stream {
	if abs < 0 || abs >= len(c.streams) {
		return nil
	}
	return c.streams[abs]
}

// Len returns the total number of streams in the container.
func (c *Container) Len() int { return len(c.streams) }
