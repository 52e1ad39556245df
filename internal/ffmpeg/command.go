// Package ffmpeg synthesizes the external-transcoder command line (§4.6) and
// drives its execution (§4.7): spawning the process, streaming stderr,
// yielding progress, and classifying the outcome.
//
// Grounded on the teacher's internal/ffmpeg/builder.go (flat argv assembly:
// preamble, per-stream maps, codec flags, trailing container opts) and the
// source's ffmpeg.py generate_commands/convert2 (Duration/time= stderr
// parsing, SIGALRM-based read timeout, exit-code/stderr-tail classification)
// — re-expressed with context.Context cancellation and a channel instead of
// a Python generator.
package ffmpeg

import (
	"fmt"

	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/format"
	"github.com/nvxlabs/mediaplan/internal/option"
	"github.com/nvxlabs/mediaplan/internal/planner"
)

// BuildCommand emits argv per §4.6: [transcoder, -i, source, preopts...]
// then, for each mapping pair in order, -map 0:<src> followed by the
// encoder's rendered options; trailing -f <format> postopts... -y <target>.
func BuildCommand(bin, sourcePath string, target *container.Container, selections []planner.EncoderSelection, preopts, postopts []string) []string {
	argv := []string{bin, "-i", sourcePath}
	argv = append(argv, preopts...)

	for _, sel := range selections {
		targetStream := target.StreamAt(sel.Mapping.TargetIndex)
		relIdx, _ := target.RelativeIndex(targetStream.UID())
		sk := targetStream.Kind()

		argv = append(argv, "-map", fmt.Sprintf("0:%d", sel.Mapping.SourceIndex))
		argv = append(argv, fmt.Sprintf("-c:%s:%d", sk, relIdx), sel.Encoder.ExternalName)
		argv = append(argv, sel.Encoder.FixedArgs...)
		argv = append(argv, renderOptions(targetStream, sel.Encoder, sk, relIdx)...)
	}

	argv = append(argv, "-f", string(target.Format))
	argv = append(argv, postopts...)
	argv = append(argv, "-y", target.FilePath)
	return argv
}

// renderOptions implements the per-encoder rendering rule (§4.6): copy
// encoders render only metadata options and Language; non-copy encoders
// render every attached option via its own Render(kind, relIndex) contract.
func renderOptions(s *container.Stream, enc format.EncoderDescriptor, sk option.StreamKind, relIdx int) []string {
	var out []string
	for _, opt := range s.Options().All() {
		if enc.IsCopy {
			if opt.Class() != option.ClassMetadata && opt.Kind() != option.KindLanguage {
				continue
			}
		}
		out = append(out, opt.Render(sk, relIdx)...)
	}
	return out
}
