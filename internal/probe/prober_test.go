package probe

import (
	"strings"
	"testing"

	"github.com/nvxlabs/mediaplan/internal/option"
)

const sampleJSON = `{
  "format": {"filename": "/in/movie.mkv", "format_name": "matroska,webm"},
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "pix_fmt": "yuv420p",
     "width": 1920, "height": 1080, "bit_rate": "4000000",
     "disposition": {"default": 1}, "profile": "High", "level": 40},
    {"index": 1, "codec_name": "ac3", "codec_type": "audio", "channels": 6,
     "bit_rate": "640000", "tags": {"language": "fre"}, "disposition": {"default": 1}},
    {"index": 2, "codec_name": "aac", "codec_type": "audio", "channels": 2,
     "bit_rate": "192000", "tags": {"language": "eng"}, "disposition": {"default": 0}},
    {"index": 3, "codec_name": "ssa", "codec_type": "subtitle",
     "tags": {"language": "eng"}, "disposition": {"default": 0}}
  ]
}`

func TestParseJSONBuildsContainer(t *testing.T) {
	ctn, err := ParseJSON("/in/movie.mkv", []byte(sampleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctn.Len() != 4 {
		t.Fatalf("want 4 streams, got %d", ctn.Len())
	}
	video := ctn.StreamAt(0)
	if video.Format().Name != "h264" {
		t.Fatalf("want h264 video, got %s", video.Format().Name)
	}
	lvl := video.Options().GetUnique(option.KindLevel)
	if lvl == nil || lvl.Value().(float64) != 4.0 {
		t.Fatalf("want level 4.0 (40/10), got %v", lvl)
	}

	audio := ctn.StreamAt(1)
	br := audio.Options().GetUnique(option.KindBitrate)
	if br == nil || br.Value().(int) != 640 {
		t.Fatalf("want bitrate 640 kbps, got %v", br)
	}
	lang := audio.Options().GetUnique(option.KindLanguage)
	if lang.Value().(string) != "fre" {
		t.Fatalf("want language fre, got %v", lang.Value())
	}
}

func TestParseJSONDefaultsLanguageToUnd(t *testing.T) {
	const js = `{"format":{"filename":"x","format_name":"mov,mp4"},
	"streams":[{"index":0,"codec_name":"aac","codec_type":"audio","channels":2,"bit_rate":"128000"}]}`
	ctn, err := ParseJSON("x", []byte(js))
	if err != nil {
		t.Fatal(err)
	}
	lang := ctn.StreamAt(0).Options().GetUnique(option.KindLanguage)
	if lang.Value().(string) != "und" {
		t.Fatalf("want und default language, got %v", lang.Value())
	}
}

func TestParseJSONFallsBackToTagsBPS(t *testing.T) {
	const js = `{"format":{"filename":"x","format_name":"mov,mp4"},
	"streams":[{"index":0,"codec_name":"aac","codec_type":"audio","channels":2,"tags":{"BPS":"256000"}}]}`
	ctn, err := ParseJSON("x", []byte(js))
	if err != nil {
		t.Fatal(err)
	}
	br := ctn.StreamAt(0).Options().GetUnique(option.KindBitrate)
	if br.Value().(int) != 256 {
		t.Fatalf("want 256 kbps from tags.BPS fallback, got %v", br.Value())
	}
}

func TestParseJSONZeroBitrateWhenAbsent(t *testing.T) {
	const js = `{"format":{"filename":"x","format_name":"mov,mp4"},
	"streams":[{"index":0,"codec_name":"aac","codec_type":"audio","channels":2}]}`
	ctn, err := ParseJSON("x", []byte(js))
	if err != nil {
		t.Fatal(err)
	}
	br := ctn.StreamAt(0).Options().GetUnique(option.KindBitrate)
	if br.Value().(int) != 0 {
		t.Fatalf("want 0 kbps when both fields absent, got %v", br.Value())
	}
}

func TestParseJSONMissingStreamsIsProbeError(t *testing.T) {
	const js = `{"format":{"filename":"x","format_name":"mov,mp4"}}`
	_, err := ParseJSON("x", []byte(js))
	if err == nil {
		t.Fatal("expected ProbeError for missing streams key")
	}
	var pe *ProbeError
	if !strings.Contains(err.Error(), "probe") {
		t.Fatalf("want ProbeError-shaped message, got %v", err)
	}
	_ = pe
}

func TestParseJSONMissingFormatIsProbeError(t *testing.T) {
	const js = `{"streams": []}`
	_, err := ParseJSON("x", []byte(js))
	if err == nil {
		t.Fatal("expected ProbeError for missing format key")
	}
}

func TestContainerFormatFromMatroska(t *testing.T) {
	ctn, err := ParseJSON("/in/movie.mkv", []byte(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	if ctn.Format != "matroska" {
		t.Fatalf("want matroska container format, got %s", ctn.Format)
	}
}
