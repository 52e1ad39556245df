package container

import (
	"testing"

	"github.com/nvxlabs/mediaplan/internal/format"
	"github.com/nvxlabs/mediaplan/internal/option"
)

func mustFormat(t *testing.T, name string) format.Entry {
	t.Helper()
	e, ok := format.FormatOf(name)
	if !ok {
		t.Fatalf("unknown format %q in test fixture", name)
	}
	return e
}

func TestNewRejectsUnsupportedFormat(t *testing.T) {
	if _, err := New("wmv", ""); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestAddStreamAssignsStableIndices(t *testing.T) {
	c, err := New(FormatMatroska, "/tmp/out.mkv")
	if err != nil {
		t.Fatal(err)
	}

	v := NewStream(mustFormat(t, "h264"))
	a1 := NewStream(mustFormat(t, "aac"))
	a2 := NewStream(mustFormat(t, "ac3"))
	s := NewStream(mustFormat(t, "mov_text"))

	c.AddStream(v)
	c.AddStream(a1)
	c.AddStream(a2)
	c.AddStream(s)

	// property 6: absolute indices equal insertion order.
	for i, st := range []*Stream{v, a1, a2, s} {
		abs, ok := c.AbsoluteIndex(st.UID())
		if !ok || abs != i {
			t.Fatalf("stream %d: want absolute index %d, got %d (ok=%v)", i, i, abs, ok)
		}
	}

	// relative indices are 0..n-1 per kind, in insertion order.
	rel1, _ := c.RelativeIndex(a1.UID())
	rel2, _ := c.RelativeIndex(a2.UID())
	if rel1 != 0 || rel2 != 1 {
		t.Fatalf("want audio relative indices 0,1; got %d,%d", rel1, rel2)
	}
	relVideo, _ := c.RelativeIndex(v.UID())
	if relVideo != 0 {
		t.Fatalf("want sole video stream at relative index 0, got %d", relVideo)
	}
}

func TestStreamEqualityExcludesMetadata(t *testing.T) {
	fmtEntry := mustFormat(t, "aac")
	a := NewStream(fmtEntry)
	a.AddOptions(option.Channels{V: 2}, option.Language{V: "eng"})

	b := NewStream(fmtEntry)
	b.AddOptions(option.Channels{V: 2}, option.Language{V: "fre"})

	if !a.Equal(b) {
		t.Fatal("streams should be equal: language is metadata and excluded from equality")
	}
}

func TestStreamEqualityConsidersStreamOptions(t *testing.T) {
	fmtEntry := mustFormat(t, "aac")
	a := NewStream(fmtEntry)
	a.AddOptions(option.Channels{V: 2})

	b := NewStream(fmtEntry)
	b.AddOptions(option.Channels{V: 6})

	if a.Equal(b) {
		t.Fatal("streams should not be equal: differing non-metadata option")
	}
}

func TestAddOptionsRejectsUnsupported(t *testing.T) {
	s := NewStream(mustFormat(t, "mov_text"))
	s.AddOptions(option.Bitrate{V: 128}) // subtitle format doesn't support Bitrate
	if s.Options().Has(option.KindBitrate) {
		t.Fatal("subtitle stream should reject Bitrate option")
	}
}
