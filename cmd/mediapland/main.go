// Command mediapland is the CLI entrypoint for the media transcode
// planner/executor: it loads a config, resolves a single job-submission
// request, and drives it through the workflow state machine of §4.8.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/nvxlabs/mediaplan/internal/check"
	"github.com/nvxlabs/mediaplan/internal/config"
	"github.com/nvxlabs/mediaplan/internal/display"
	"github.com/nvxlabs/mediaplan/internal/ffmpeg"
	"github.com/nvxlabs/mediaplan/internal/logging"
	"github.com/nvxlabs/mediaplan/internal/metrics"
	"github.com/nvxlabs/mediaplan/internal/probe"
	"github.com/nvxlabs/mediaplan/internal/workflow"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — flags are parsed onto a throwaway Config so its
	// CLI-only fields (input/target/tagging/notify/...) survive the config
	// file load, which otherwise returns a fresh Config of its own.
	cli := config.DefaultConfig()
	if err := config.ParseFlags(&cli, version); err != nil {
		fmt.Fprintf(os.Stderr, "mediaplan: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mediaplan: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	if cli.CheckMode {
		cfg := cli
		if cli.ConfigPath != "" {
			if loaded, err := config.Load(cli.ConfigPath); err == nil {
				cfg = *loaded
			} else {
				log.Warn("config not loaded, checking default binaries only: %v", err)
			}
		}
		check.Run(&cfg, log)
		return 0
	}

	cfg, err := config.Load(cli.ConfigPath)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	mergeCLIOverrides(cfg, &cli)

	log.Info("=== mediaplan v%s (%s) ===", version, commit)
	log.Info("In:     %s", cfg.InputPath)
	log.Info("Target: %s", cfg.TargetContainer)
	if cfg.DryRun {
		log.Warn("DRY RUN — no files will be written")
	}

	if err := check.Deps(cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	req := workflow.Request{
		InputPath:     cfg.InputPath,
		ContainerName: cfg.TargetContainer,
		TagInfo:       tagInfoFromCLI(&cli),
		Notify:        splitNonEmpty(cli.NotifyList),
	}

	spec, err := workflow.SpecFromConfig(cfg, req)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	spec.ReadTimeout = ffmpeg.DefaultReadTimeout

	if caps, err := check.Capabilities(spec.TranscoderBin); err != nil {
		log.Warn("capability probe failed, encoder selection will ignore preferred encoders: %v", err)
	} else {
		spec.AvailableEncoders = caps
	}

	job := workflow.New(uuid.New().String(), spec, probe.New(spec.ProberBin), ffmpeg.NewExecutor(), log)
	job.Refreshers = refreshersFromConfig(cfg)
	job.MetadataFetcher = &workflow.FakeMetadataFetcher{}
	job.TagWriter = &workflow.FakeTagWriter{}
	job.PostProcessors = postProcessorsFor(cfg, spec, job.Executor)

	// Phase 2: Signal handling — cancel context on SIGINT/SIGTERM so the
	// in-flight transcode is terminated rather than left running.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("received interrupt, stopping job…")
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error("metrics server: %v", err)
			}
		}()
	}

	if err := job.Run(ctx); err != nil {
		log.Error("job failed: %v", err)
		metrics.RecordOutcome("failure")
		return 1
	}
	metrics.SetState(int(job.State()))
	metrics.RecordOutcome("success")
	log.Success("job %s finished", job.ID)
	return 0
}

// mergeCLIOverrides copies the CLI-only ambient fields parsed onto cli back
// onto the loaded cfg, which Load otherwise leaves at their zero values.
func mergeCLIOverrides(cfg *config.Config, cli *config.Config) {
	cfg.ConfigPath = cli.ConfigPath
	cfg.InputPath = cli.InputPath
	cfg.TargetContainer = cli.TargetContainer
	cfg.DryRun = cli.DryRun
	cfg.Verbose = cli.Verbose
	cfg.LogFile = cli.LogFile
	cfg.ColorMode = cli.ColorMode
	cfg.MetricsAddr = cli.MetricsAddr
}

func tagInfoFromCLI(cli *config.Config) *workflow.TagInfo {
	if cli.TagID == "" {
		return nil
	}
	info := &workflow.TagInfo{ID: cli.TagID, IDType: cli.TagType}
	if cli.Season >= 0 {
		season := cli.Season
		info.Season = &season
		if cli.Episode >= 0 {
			episode := cli.Episode
			info.Episode = &episode
		}
	}
	return info
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func refreshersFromConfig(cfg *config.Config) map[string]workflow.Refresher {
	out := make(map[string]workflow.Refresher, len(cfg.Refreshers))
	for name, rc := range cfg.Refreshers {
		out[name] = workflow.NewHTTPRefresher(name, rc)
	}
	return out
}

// postProcessorsFor builds the named post-processors a container profile
// requests (§6 Containers{<name>:{post_processors}}). "faststart" is the
// only one currently implemented; unrecognized names are skipped.
func postProcessorsFor(cfg *config.Config, spec workflow.Spec, executor *ffmpeg.Executor) []workflow.PostProcessor {
	profile, ok := cfg.Containers[cfg.TargetContainer]
	if !ok {
		return nil
	}
	var out []workflow.PostProcessor
	for _, name := range profile.PostProcessors {
		switch name {
		case "faststart":
			out = append(out, &workflow.FaststartPostProcessor{TranscoderBin: spec.TranscoderBin, Executor: executor})
		}
	}
	return out
}
