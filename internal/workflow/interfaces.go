package workflow

import "context"

// TagInfo identifies the media item to fetch tags for (§6 job-submission
// surface: "tagging_info = {id, id_type, season?, episode?}" — season
// present implies TV, absent implies movie).
type TagInfo struct {
	ID       string
	IDType   string
	Season   *int
	Episode  *int
}

// IsTV reports whether this tagging info describes a TV episode rather than
// a movie.
func (t TagInfo) IsTV() bool { return t.Season != nil }

// Tags is the metadata a MetadataFetcher resolves for a TagInfo.
type Tags struct {
	Title       string
	Description string
	Year        int
	ArtworkURL  string
	Fields      map[string]string
}

// MetadataFetcher resolves tagging metadata for a job's TagInfo. Out of
// scope per spec.md's Non-goals beyond the interface shape; see the
// in-memory fake below for tests and as the CLI driver's placeholder.
type MetadataFetcher interface {
	Fetch(ctx context.Context, info TagInfo) (Tags, error)
}

// TagWriter writes resolved Tags into the file at path, for the given
// target container format name (e.g. "mp4", "matroska").
type TagWriter interface {
	WriteTags(ctx context.Context, path, containerFormat string, tags Tags, downloadArtwork bool) error
}

// Refresher notifies an external media-library server that new content is
// available (§6 Refreshers{plex|sickrage}).
type Refresher interface {
	Name() string
	Refresh(ctx context.Context) error
}

// PostProcessor runs a registered post-conversion step against the working
// file (§4.8 "postprocess").
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, workingPath string) error
}

// FakeMetadataFetcher is an in-memory MetadataFetcher for tests and for CLI
// runs with no tagger configured (spec.md's Non-goals exclude a network
// fetcher; this fake keeps the workflow exercisable end-to-end).
type FakeMetadataFetcher struct {
	Tags Tags
	Err  error
}

func (f *FakeMetadataFetcher) Fetch(ctx context.Context, info TagInfo) (Tags, error) {
	if f.Err != nil {
		return Tags{}, f.Err
	}
	return f.Tags, nil
}

// FakeTagWriter is an in-memory TagWriter recording what it was asked to
// write, for tests.
type FakeTagWriter struct {
	Written []FakeTagWrite
	Err     error
}

type FakeTagWrite struct {
	Path            string
	ContainerFormat string
	Tags            Tags
	DownloadArtwork bool
}

func (f *FakeTagWriter) WriteTags(ctx context.Context, path, containerFormat string, tags Tags, downloadArtwork bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.Written = append(f.Written, FakeTagWrite{Path: path, ContainerFormat: containerFormat, Tags: tags, DownloadArtwork: downloadArtwork})
	return nil
}
