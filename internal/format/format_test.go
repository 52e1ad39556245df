package format

import "testing"

func TestAliasCollapsing(t *testing.T) {
	cases := map[string]string{
		"h265": "hevc",
		"x264": "h264",
		"x265": "hevc",
		"hevc": "hevc",
	}
	for in, want := range cases {
		if got := Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatOfUnknown(t *testing.T) {
	if _, ok := FormatOf("not-a-codec"); ok {
		t.Fatal("expected unknown codec to miss")
	}
}

func TestEncodersProducingOrderedByScoreDesc(t *testing.T) {
	list := EncodersProducing("hevc")
	if len(list) < 2 {
		t.Fatalf("expected multiple hevc encoders, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Score < list[i].Score {
			t.Fatalf("encoders not sorted by score desc: %+v", list)
		}
	}
	if list[0].ExternalName != "libx265" {
		t.Fatalf("expected libx265 (score 5) first, got %s", list[0].ExternalName)
	}
}

func TestEncodersProducingUsesAlias(t *testing.T) {
	viaAlias := EncodersProducing("h265")
	viaCanon := EncodersProducing("hevc")
	if len(viaAlias) != len(viaCanon) {
		t.Fatalf("alias lookup should match canonical lookup")
	}
}

func TestAvailableSetWhitespaceTolerant(t *testing.T) {
	out := " Encoders:\n" +
		" V..... = Video, A..... = Audio, S..... = Subtitle\n" +
		" ------\n" +
		" V....D libx264              H.264 / AVC / MPEG-4 AVC\n" +
		" A....D aac                  AAC (Advanced Audio Coding)\n" +
		" S....D mov_text             MOV text\n"

	avail := AvailableSet(out)
	for _, name := range []string{"libx264", "aac", "mov_text"} {
		if !avail[name] {
			t.Errorf("expected %s to be marked available", name)
		}
	}
	if avail["Encoders:"] {
		t.Error("header line before the separator must not be parsed")
	}
}

func TestCopyEncoderSupportsMetadataAndBitstreamFilter(t *testing.T) {
	enc := CopyEncoder(0)
	if !enc.IsCopy {
		t.Fatal("expected copy encoder")
	}
	if len(enc.Supported) != len(copySupported) {
		t.Fatalf("copy encoder should support exactly the metadata+language+bsf set, got %v", enc.Supported)
	}
}
