package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/nvxlabs/mediaplan/internal/ffmpeg"
)

// FaststartPostProcessor re-invokes the transcoder with -movflags +faststart
// against an MP4 working file, relocating the moov atom to the front so
// playback can start before the file finishes downloading. Grounded on the
// teacher's execution driver (§4.7): this is the same Executor, driving a
// remux-only command line (stream copy, no re-encode).
type FaststartPostProcessor struct {
	TranscoderBin string
	Executor      *ffmpeg.Executor
}

func (p *FaststartPostProcessor) Name() string { return "faststart" }

// Process remuxes workingPath in place via a temporary sibling file, then
// renames it back over the original.
func (p *FaststartPostProcessor) Process(ctx context.Context, workingPath string) error {
	tmp := workingPath + ".faststart.tmp"
	argv := []string{
		p.TranscoderBin, "-i", workingPath,
		"-c", "copy", "-movflags", "+faststart",
		"-f", "mp4", "-y", tmp,
	}

	executor := p.Executor
	if executor == nil {
		executor = ffmpeg.NewExecutor()
	}
	if _, err := executor.Execute(ctx, argv, nil); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("faststart remux: %w", err)
	}
	return os.Rename(tmp, workingPath)
}
