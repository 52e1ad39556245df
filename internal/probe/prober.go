// Package probe adapts the external prober (ffprobe-compatible) into a
// source container (§4.3). Grounded on the teacher's internal/probe package
// (single JSON call replacing multiple ad-hoc invocations; wire types
// unmarshalled from ffprobe's stringly-typed numeric fields) but rebuilt to
// emit a container.Container of typed Options rather than a flat struct.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/format"
	"github.com/nvxlabs/mediaplan/internal/option"
)

// ProbeError wraps a prober failure: a non-zero exit or JSON missing the
// streams/format keys required by §4.3.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %q: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Prober runs the external prober binary and parses its JSON output.
type Prober struct {
	// Bin is the ffprobe-compatible binary path.
	Bin string
}

// New returns a Prober using bin, or "ffprobe" if bin is empty.
func New(bin string) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	return &Prober{Bin: bin}
}

// Probe spawns the prober against path and returns the resulting source
// container (§3 "Containers are created either by the prober (source)...").
func (p *Prober) Probe(ctx context.Context, path string) (*container.Container, error) {
	cmd := exec.CommandContext(ctx, p.Bin,
		"-show_format", "-show_streams", "-hide_banner", "-print_format", "json", path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, &ProbeError{Path: path, Err: err}
	}
	return ParseJSON(path, out)
}

// ParseJSON converts raw ffprobe JSON output into a source container.
// Exported so tests can exercise the parser without a real ffprobe binary.
func ParseJSON(path string, data []byte) (*container.Container, error) {
	var raw wireOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ProbeError{Path: path, Err: fmt.Errorf("parse ffprobe JSON: %w", err)}
	}
	if raw.Format == nil || raw.Streams == nil {
		return nil, &ProbeError{Path: path, Err: fmt.Errorf("ffprobe JSON missing required format/streams keys")}
	}
	return buildContainer(path, &raw)
}

// --- ffprobe JSON wire types ---

type wireOutput struct {
	Format  *wireFormat   `json:"format"`
	Streams []*wireStream `json:"streams"`
}

type wireFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
}

type wireStream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Profile     string            `json:"profile"`
	PixFmt      string            `json:"pix_fmt"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	BitRate     string            `json:"bit_rate"`
	Channels    int               `json:"channels"`
	Level       int               `json:"level"`
	Disposition map[string]int    `json:"disposition"`
	Tags        map[string]string `json:"tags"`
}

func containerFormatOf(name string) container.Format {
	switch {
	case strings.Contains(name, "matroska"):
		return container.FormatMatroska
	case strings.Contains(name, "mp4"):
		return container.FormatMP4
	default:
		return container.Format(name)
	}
}

func buildContainer(path string, raw *wireOutput) (*container.Container, error) {
	ctn, err := container.New(containerFormatOf(raw.Format.FormatName), path)
	if err != nil {
		return nil, &ProbeError{Path: path, Err: err}
	}

	for _, ws := range raw.Streams {
		fe, ok := format.FormatOf(ws.CodecName)
		if !ok {
			// Unknown codec: skip rather than fail the whole probe, so one
			// unrecognized attachment/data stream doesn't abort planning.
			continue
		}
		s := container.NewStream(fe)
		switch fe.Kind {
		case option.StreamVideo:
			s.AddOptions(
				option.PixelFormat{V: ws.PixFmt},
				height(ws), width(ws),
				bitrateOf(ws),
				dispositionOf(ws),
				levelOf(ws),
				profileOf(ws),
			)
		case option.StreamAudio:
			s.AddOptions(
				channelsOf(ws),
				languageOf(ws),
				bitrateOf(ws),
				dispositionOf(ws),
			)
		case option.StreamSubtitle:
			s.AddOptions(
				languageOf(ws),
				dispositionOf(ws),
			)
		}
		ctn.AddStream(s)
	}
	return ctn, nil
}

func height(ws *wireStream) option.Option {
	if ws.Height == 0 {
		return nil
	}
	return option.Height{V: ws.Height}
}

func width(ws *wireStream) option.Option {
	if ws.Width == 0 {
		return nil
	}
	return option.Width{V: ws.Width}
}

func profileOf(ws *wireStream) option.Option {
	if ws.Profile == "" {
		return nil
	}
	return option.Profile{V: ws.Profile}
}

func levelOf(ws *wireStream) option.Option {
	if ws.Level == 0 {
		return nil
	}
	// ffprobe reports level ×10 (e.g. "40" for level 4.0); divide to match
	// the conventional decimal representation (§4.3).
	return option.Level{V: float64(ws.Level) / 10.0}
}

func channelsOf(ws *wireStream) option.Option {
	if ws.Channels == 0 {
		return nil
	}
	return option.Channels{V: ws.Channels}
}

func languageOf(ws *wireStream) option.Option {
	lang := "und"
	if ws.Tags != nil {
		if l, ok := ws.Tags["language"]; ok && l != "" {
			lang = l
		}
	}
	return option.Language{V: lang}
}

func dispositionOf(ws *wireStream) option.Option {
	flags := ws.Disposition
	if flags == nil {
		flags = map[string]int{}
	}
	return option.Disposition{Flags: flags}
}

// bitrateOf prefers the top-level bit_rate field, falling back to
// tags.BPS, emitting 0 if both are absent. Always reported in kbps (§4.3).
func bitrateOf(ws *wireStream) option.Option {
	raw := ws.BitRate
	if raw == "" && ws.Tags != nil {
		raw = ws.Tags["BPS"]
	}
	bps, _ := strconv.ParseInt(raw, 10, 64)
	return option.Bitrate{V: int(bps / 1000)}
}
