package option

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCollectionUniqueReplace(t *testing.T) {
	c := NewCollection(Unique, nil)
	c.Add(Bitrate{V: 128})
	c.Add(Bitrate{V: 256})
	if c.Len() != 1 {
		t.Fatalf("want 1 option after replace, got %d", c.Len())
	}
	got := c.GetUnique(KindBitrate)
	if got == nil || got.Value().(int) != 256 {
		t.Fatalf("want replaced bitrate 256, got %v", got)
	}
}

func TestCollectionAddRejectsUnsupportedKind(t *testing.T) {
	c := NewCollection(Unique, []Kind{KindLanguage})
	if c.Add(Bitrate{V: 128}) {
		t.Fatal("expected Bitrate to be rejected: not in supported set")
	}
	if c.Len() != 0 {
		t.Fatalf("want 0 options, got %d", c.Len())
	}
}

func TestCollectionAddRejectsNilValue(t *testing.T) {
	c := NewCollection(Unique, nil)
	if c.Add(nil) {
		t.Fatal("expected nil option to be rejected")
	}
}

func TestSubsetOfMissingIsWildcard(t *testing.T) {
	a := NewCollection(Unique, nil)
	a.Add(Language{V: "eng"})

	b := NewCollection(Unique, nil)
	b.Add(Language{V: "eng"})
	b.Add(Bitrate{V: 256}) // b constrains more than a; a is still a subset

	if !a.SubsetOf(b) {
		t.Fatal("a should be a subset of b: b's extra constraint doesn't matter")
	}
}

func TestSubsetOfValueMismatch(t *testing.T) {
	a := NewCollection(Unique, nil)
	a.Add(Language{V: "eng"})

	b := NewCollection(Unique, nil)
	b.Add(Language{V: "fre"})

	if a.SubsetOf(b) {
		t.Fatal("a should not be a subset of b: conflicting language value")
	}
}

func TestDiff(t *testing.T) {
	source := NewCollection(Unique, nil)
	source.Add(PixelFormat{V: "yuv420p10le"})
	source.Add(Language{V: "eng"})

	template := NewCollection(Unique, nil)
	template.Add(PixelFormat{V: "yuv420p"})

	d := source.Diff(template)
	if d.Len() != 2 {
		t.Fatalf("want 2 differing options (pix_fmt differs, language absent), got %d", d.Len())
	}
	if !d.Has(KindPixelFormat) || !d.Has(KindLanguage) {
		t.Fatalf("expected diff to contain pixel_format and language, got %v", d.All())
	}
}

func TestMetadataOptionsProjection(t *testing.T) {
	c := NewCollection(Unique, nil)
	c.Add(Bitrate{V: 128})
	c.Add(Language{V: "eng"})

	md := c.MetadataOptions()
	if md.Len() != 1 || !md.Has(KindLanguage) {
		t.Fatalf("want only Language projected as metadata, got %v", md.All())
	}
}

func TestEqualExcludingMetadata(t *testing.T) {
	a := NewCollection(Unique, nil)
	a.Add(PixelFormat{V: "yuv420p"})
	a.Add(Language{V: "eng"})

	b := NewCollection(Unique, nil)
	b.Add(PixelFormat{V: "yuv420p"})
	b.Add(Language{V: "fre"}) // differs, but metadata-class, excluded from equality

	if !a.EqualExcludingMetadata(b) {
		t.Fatal("collections should be equal once metadata (language) is excluded")
	}
}

func TestDispositionWithDefaultMutatesCopy(t *testing.T) {
	d := Disposition{Flags: map[string]int{"default": 0, "forced": 0}}
	d2 := d.WithDefault(1)
	if d.Default() != 0 {
		t.Fatal("original disposition must be unaffected")
	}
	if d2.Default() != 1 {
		t.Fatal("new disposition must carry the mutated default flag")
	}
	if d2.Flags["forced"] != 0 {
		t.Fatal("unrelated flags must be preserved")
	}
}

func TestDispositionWithDefaultDiff(t *testing.T) {
	d := Disposition{Flags: map[string]int{"default": 0, "forced": 1}}
	got := d.WithDefault(1)
	want := Disposition{Flags: map[string]int{"default": 1, "forced": 1}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("WithDefault() mismatch (-want +got):\n%s", diff)
	}
}
