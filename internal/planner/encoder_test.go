package planner

import (
	"testing"

	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/option"
)

func TestSelectEncodersPicksCopyWhenStreamsEqual(t *testing.T) {
	src := newSourceMKV(t)
	cfg := baseMP4Config(t)
	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}

	selections := SelectEncoders(src, plan.Target, plan, map[string]bool{"libx264": true}, nil, nil)
	// video stream (prefer_copy=true, same format & options) should select
	// the copy encoder (property 1).
	if !selections[0].Encoder.IsCopy {
		t.Fatalf("want copy encoder for unchanged video stream, got %+v", selections[0].Encoder)
	}
}

func TestSelectEncodersFallsBackWhenPreferredUnavailable(t *testing.T) {
	src, err := container.New(container.FormatMatroska, "/in/x.mkv")
	if err != nil {
		t.Fatal(err)
	}
	h264 := container.NewStream(fe(t, "h264"))
	h264.AddOptions(option.PixelFormat{V: "yuv420p10le"})
	src.AddStream(h264)

	cfg := baseMP4Config(t)
	cfg.Video.PreferCopy = false // force a diff against the template so the stream isn't a copy

	plan, err := BuildPlan(src, cfg)
	if err != nil {
		t.Fatal(err)
	}

	available := map[string]bool{"h264_nvenc": true} // preferred (libx264) unavailable
	preferred := map[string]string{"h264": "libx264"}

	selections := SelectEncoders(src, plan.Target, plan, available, preferred, nil)
	if selections[0].Encoder.ExternalName != "h264_nvenc" {
		t.Fatalf("want fallback to best-available encoder, got %s", selections[0].Encoder.ExternalName)
	}
}
