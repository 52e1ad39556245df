// Package check provides system diagnostics (--check mode), pre-job
// dependency validation for the configured transcoder/prober binaries, and
// the transcoder capability probe.
//
// Grounded on the teacher's internal/check package (sentinel errors,
// LookPath checks, Logger interface kept dependency-light so check stays
// testable with a mock).
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/nvxlabs/mediaplan/internal/config"
	"github.com/nvxlabs/mediaplan/internal/format"
)

// Sentinel errors returned by Deps when a required binary is missing.
var (
	ErrTranscoderNotFound = errors.New("transcoder binary not found")
	ErrProberNotFound     = errors.New("prober binary not found")
)

// Logger is the minimal logging interface needed by Run.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// Run executes the interactive --check flow: prints the first line of the
// transcoder/prober -version output and reports how many bytes of
// `-encoders` output the transcoder produced; individual encoder and decoder
// names are not listed. Informational only — it does not stop on failure.
func Run(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")
	checkBinary(log, "transcoder", cfg.FFMPEG.FFMPEG, "-version")
	checkBinary(log, "prober", cfg.FFMPEG.FFProbe, "-version")
	listEncoders(log, cfg.FFMPEG.FFMPEG)
}

func checkBinary(log Logger, label, bin, versionFlag string) {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error("%s not found: %s", label, bin)
		return
	}
	out, err := exec.Command(path, versionFlag).Output()
	if err != nil {
		log.Warn("%s found but %s failed: %v", label, versionFlag, err)
		return
	}
	firstLine := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)[0]
	log.Success("%s: %s", label, firstLine)
}

func listEncoders(log Logger, bin string) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return
	}
	out, err := exec.Command(path, "-v", "0", "-encoders").Output()
	if err != nil {
		log.Warn("could not list encoders: %v", err)
		return
	}
	log.Info("%d bytes of encoder capability output available", len(out))
}

// Capabilities runs the transcoder's `-v 0 -encoders` and `-v 0 -decoders`
// probes and merges both through format.AvailableSet, producing the set of
// external encoder/decoder names the host actually supports (§4.2/§4.5: gates
// SpecFromConfig's Spec.AvailableEncoders so pickEncoder's preferred/
// available resolution has real data to work with instead of an always-empty
// map).
func Capabilities(bin string) (map[string]bool, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("transcoder %q not found: %w", bin, err)
	}

	available := make(map[string]bool)
	for _, flag := range []string{"-encoders", "-decoders"} {
		out, err := exec.Command(path, "-v", "0", flag).Output()
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", bin, flag, err)
		}
		for name := range format.AvailableSet(string(out)) {
			available[name] = true
		}
	}
	return available, nil
}

// Deps is the pre-job validation: verifies that the configured transcoder
// and prober binaries exist on PATH (or as an absolute path). Returns a
// sentinel error on failure.
func Deps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFMPEG.FFMPEG); err != nil {
		return ErrTranscoderNotFound
	}
	if _, err := exec.LookPath(cfg.FFMPEG.FFProbe); err != nil {
		return ErrProberNotFound
	}
	return nil
}
