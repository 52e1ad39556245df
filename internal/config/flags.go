package config

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses os.Args onto cfg (§4.10): --config, --input, --target,
// --check, --dry-run, --verbose, --log-file, --color, --metrics-addr, the
// job-submission flags --tag-id, --tag-type, --season, --episode and
// --notify, and --version, which prints the version and exits. On --help it
// prints usage and returns flag.ErrHelp.
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("mediaplan", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var color string
	var showVersion bool

	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Path to the YAML config file")
	fs.StringVar(&cfg.InputPath, "input", cfg.InputPath, "Source media file path")
	fs.StringVar(&cfg.TargetContainer, "target", cfg.TargetContainer, "Named container profile to transcode into (e.g. mp4)")
	fs.BoolVar(&cfg.CheckMode, "check", cfg.CheckMode, "Run dependency diagnostics and exit")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Build the plan and command line without executing")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable debug-level logging")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Optional path to mirror log output to")
	fs.StringVar(&color, "color", string(ColorAuto), "Color mode: auto | always | never")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Optional address to serve Prometheus metrics on")
	fs.StringVar(&cfg.TagID, "tag-id", cfg.TagID, "Metadata-provider ID for tagging (e.g. a TVDB/TMDB id); omit to skip tagging")
	fs.StringVar(&cfg.TagType, "tag-type", cfg.TagType, "Metadata-provider name the tag id belongs to (e.g. tvdb, tmdb)")
	fs.IntVar(&cfg.Season, "season", cfg.Season, "Season number; presence marks the item as TV rather than a movie")
	fs.IntVar(&cfg.Episode, "episode", cfg.Episode, "Episode number (requires --season)")
	fs.StringVar(&cfg.NotifyList, "notify", cfg.NotifyList, "Comma-separated refresher names to notify on completion")
	fs.BoolVar(&showVersion, "version", false, "Print the version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if showVersion {
		fmt.Fprintln(os.Stdout, "mediaplan v"+version)
		os.Exit(0)
	}

	switch ColorMode(color) {
	case ColorAuto, ColorAlways, ColorNever:
		cfg.ColorMode = ColorMode(color)
	default:
		return fmt.Errorf("invalid --color value %q", color)
	}

	if cfg.ConfigPath == "" && !cfg.CheckMode {
		return fmt.Errorf("--config is required")
	}
	if cfg.InputPath == "" && !cfg.CheckMode {
		return fmt.Errorf("--input is required")
	}
	if cfg.TargetContainer == "" && !cfg.CheckMode {
		return fmt.Errorf("--target is required")
	}
	return nil
}

func printUsage(fs *flag.FlagSet, version string) {
	fmt.Fprintf(os.Stderr, "mediaplan v%s — single-job media transcode planner/executor\n\n", version)
	fmt.Fprintln(os.Stderr, "Usage: mediaplan --config <file> --input <path> --target <container> [flags]")
	fs.PrintDefaults()
}
