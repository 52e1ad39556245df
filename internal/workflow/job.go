package workflow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nvxlabs/mediaplan/internal/container"
	"github.com/nvxlabs/mediaplan/internal/display"
	"github.com/nvxlabs/mediaplan/internal/ffmpeg"
	"github.com/nvxlabs/mediaplan/internal/logging"
	"github.com/nvxlabs/mediaplan/internal/option"
	"github.com/nvxlabs/mediaplan/internal/planner"
	"github.com/nvxlabs/mediaplan/internal/probe"
)

// Spec is the job-submission surface (§6): "(input_path, target_container,
// config_name, overrides?, tagging_info?, notify?)", expanded with the
// resolved configuration values a single job needs to run end to end.
type Spec struct {
	InputPath    string
	TargetFormat container.Format
	TargetExt    string
	WorkDir      string

	TranscoderBin string
	ProberBin     string

	PlannerConfig     *planner.Config
	PreferredEncoders map[string]string
	AvailableEncoders map[string]bool
	EncoderDefaults   map[string]*option.Collection

	Preopts, Postopts []string
	ReadTimeout       time.Duration

	TagInfo         *TagInfo
	PreferredTagger string
	DownloadArtwork bool
	Notify          []string

	CopyTo         string
	MoveTo         string
	DeleteOriginal bool
	FilePerm       os.FileMode
}

// Job drives one Spec through the state machine of §4.8.
type Job struct {
	ID   string
	Spec Spec

	Prober          *probe.Prober
	Executor        *ffmpeg.Executor
	MetadataFetcher MetadataFetcher
	TagWriter       TagWriter
	Refreshers      map[string]Refresher
	PostProcessors  []PostProcessor
	Log             *logging.Logger

	state       State
	source      *container.Container
	plan        *planner.Plan
	selections  []planner.EncoderSelection
	workingPath string
	finalPath   string
}

// New returns a Job ready to [Job.Run].
func New(id string, spec Spec, prober *probe.Prober, executor *ffmpeg.Executor, log *logging.Logger) *Job {
	return &Job{
		ID:       id,
		Spec:     spec,
		Prober:   prober,
		Executor: executor,
		Log:      log,
		state:    StateInitialised,
	}
}

// State reports the job's current state.
func (j *Job) State() State { return j.state }

// conversionSuccess ≡ "target container has a file at its recorded path"
// (§4.8); an empty file does not count.
func (j *Job) conversionSuccess() bool {
	if j.workingPath == "" {
		return false
	}
	fi, err := os.Stat(j.workingPath)
	return err == nil && fi.Size() > 0
}

func (j *Job) hasTagInfo() bool { return j.Spec.TagInfo != nil }

func (j *Job) hasRefresher() bool {
	for _, name := range j.Spec.Notify {
		if _, ok := j.Refreshers[name]; ok {
			return true
		}
	}
	return false
}

// Run drives the job through every trigger in fixed order (§4.8), stopping
// early only on a fatal error (§4.9/§7: process failure, or a deploy-rename
// failure). All other per-stage failures are logged and the job continues.
func (j *Job) Run(ctx context.Context) error {
	for _, t := range order {
		if err := j.fire(ctx, t); err != nil {
			j.logTransition(t, err)
			return err
		}
		j.logTransition(t, nil)
	}
	return nil
}

func (j *Job) logTransition(t Trigger, err error) {
	if j.Log == nil {
		return
	}
	if err != nil {
		j.Log.Fields("transition failed", "job", j.ID, "trigger", t, "state", j.state, "error", err)
		return
	}
	j.Log.Fields("transition", "job", j.ID, "trigger", t, "state", j.state)
}

// fire applies a single guarded transition. Returning nil and leaving state
// unchanged is a no-op (guard failed or precondition state didn't match);
// returning a non-nil error signals a fatal condition the caller should
// abort on.
func (j *Job) fire(ctx context.Context, t Trigger) error {
	from := j.state
	if !canFire(from, t) {
		return nil
	}

	switch t {
	case TriggerProcess:
		if err := j.process(ctx); err != nil {
			return err
		}
	case TriggerTag:
		if !j.conversionSuccess() || !j.hasTagInfo() {
			return nil
		}
		if err := j.tag(ctx); err != nil {
			j.warn("tag failed, continuing: %v", err)
			return nil
		}
	case TriggerPostprocess:
		if !j.conversionSuccess() {
			return nil
		}
		if err := j.postprocess(ctx); err != nil {
			j.warn("postprocess failed, continuing: %v", err)
			return nil
		}
	case TriggerDeploy:
		if !j.conversionSuccess() {
			return nil
		}
		if err := j.deploy(ctx); err != nil {
			if de, ok := err.(*DeployError); ok && !de.Fatal() {
				j.warn("deploy copy/move failed, continuing: %v", err)
			} else {
				return err
			}
		}
	case TriggerDelete:
		if !j.Spec.DeleteOriginal {
			return nil
		}
		if err := j.delete(); err != nil {
			j.warn("delete failed, continuing: %v", err)
		}
	case TriggerRefresh:
		if !j.hasRefresher() {
			return nil
		}
		j.refresh(ctx)
	case TriggerFinish:
		// no action; reaching here always advances to finished.
	}

	j.state = toState[t]
	return nil
}

// process runs §4.4–§4.7: probe, plan, select encoders, synthesize command,
// execute.
func (j *Job) process(ctx context.Context) error {
	src, err := j.Prober.Probe(ctx, j.Spec.InputPath)
	if err != nil {
		return err
	}
	j.source = src

	stem := stemOf(j.Spec.InputPath)
	j.workingPath = filepath.Join(j.Spec.WorkDir, fmt.Sprintf("%s-working.%s", stem, j.Spec.TargetExt))
	j.finalPath = filepath.Join(j.Spec.WorkDir, fmt.Sprintf("%s.%s", stem, j.Spec.TargetExt))

	j.Spec.PlannerConfig.TargetFormat = j.Spec.TargetFormat
	j.Spec.PlannerConfig.TargetPath = j.workingPath

	plan, err := planner.BuildPlan(src, j.Spec.PlannerConfig)
	if err != nil {
		return &PlanError{Err: err}
	}
	if len(plan.Mapping) == 0 {
		return &PlanError{Err: fmt.Errorf("no source stream survived gating into a mappable target")}
	}
	j.plan = plan

	selections := planner.SelectEncoders(src, plan.Target, plan, j.Spec.AvailableEncoders, j.Spec.PreferredEncoders, j.Spec.EncoderDefaults)
	j.selections = selections

	argv := ffmpeg.BuildCommand(j.Spec.TranscoderBin, j.Spec.InputPath, plan.Target, selections, j.Spec.Preopts, j.Spec.Postopts)

	executor := j.Executor
	if executor == nil {
		executor = ffmpeg.NewExecutor()
	}
	if j.Spec.ReadTimeout > 0 {
		executor = &ffmpeg.Executor{ReadTimeout: j.Spec.ReadTimeout}
	}

	_, err = executor.Execute(ctx, argv, func(fraction float64) {
		if j.Log != nil {
			j.Log.Debug(true, "job=%s progress=%.1f%%", j.ID, fraction*100)
		}
	})
	return err
}

func (j *Job) tag(ctx context.Context) error {
	if j.MetadataFetcher == nil || j.TagWriter == nil {
		return nil
	}
	tags, err := j.MetadataFetcher.Fetch(ctx, *j.Spec.TagInfo)
	if err != nil {
		return &TagError{Err: err}
	}
	if err := j.TagWriter.WriteTags(ctx, j.workingPath, string(j.Spec.TargetFormat), tags, j.Spec.DownloadArtwork); err != nil {
		return &TagError{Err: err}
	}
	return nil
}

func (j *Job) postprocess(ctx context.Context) error {
	for _, p := range j.PostProcessors {
		if err := p.Process(ctx, j.workingPath); err != nil {
			return fmt.Errorf("post-processor %s: %w", p.Name(), err)
		}
	}
	return nil
}

// deploy renames the working file to its final name, then copies XOR moves
// it to the configured destination (copy wins when both are set) (§6).
func (j *Job) deploy(ctx context.Context) error {
	if err := os.Rename(j.workingPath, j.finalPath); err != nil {
		return &DeployError{Stage: DeployStageRename, Err: err}
	}
	j.logSizeDelta()

	dest := j.Spec.CopyTo
	move := false
	if dest == "" && j.Spec.MoveTo != "" {
		dest = j.Spec.MoveTo
		move = true
	}
	if dest == "" {
		return nil
	}

	destPath := filepath.Join(dest, filepath.Base(j.finalPath))
	if move {
		if err := os.Rename(j.finalPath, destPath); err != nil {
			if err := copyFile(j.finalPath, destPath, j.Spec.FilePerm); err != nil {
				return &DeployError{Stage: DeployStageCopyOrMove, Err: err}
			}
			os.Remove(j.finalPath)
		}
		return nil
	}
	if err := copyFile(j.finalPath, destPath, j.Spec.FilePerm); err != nil {
		return &DeployError{Stage: DeployStageCopyOrMove, Err: err}
	}
	return nil
}

// delete chmods then removes the original source file (§4.8 "delete").
func (j *Job) delete() error {
	perm := j.Spec.FilePerm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.Chmod(j.Spec.InputPath, perm); err != nil {
		return err
	}
	return os.Remove(j.Spec.InputPath)
}

// refresh fires every configured, resolvable refresher; each failure is
// logged and never aborts the job (§4.9).
func (j *Job) refresh(ctx context.Context) {
	for _, name := range j.Spec.Notify {
		r, ok := j.Refreshers[name]
		if !ok {
			continue
		}
		if err := r.Refresh(ctx); err != nil {
			j.warn("refresher %s failed: %v", r.Name(), err)
		}
	}
}

// warn logs a warning if a logger is configured; a nil Log is valid (tests,
// minimal CLI invocations) and simply discards the message.
func (j *Job) warn(format string, args ...interface{}) {
	if j.Log != nil {
		j.Log.Warn(format, args...)
	}
}

// logSizeDelta reports the deployed file's size and its change relative to
// the source, once the rename in deploy has succeeded.
func (j *Job) logSizeDelta() {
	if j.Log == nil {
		return
	}
	srcInfo, err := os.Stat(j.Spec.InputPath)
	if err != nil {
		return
	}
	dstInfo, err := os.Stat(j.finalPath)
	if err != nil {
		return
	}
	delta := dstInfo.Size() - srcInfo.Size()
	j.Log.Info("deployed %s: %s (%s)", j.finalPath, display.FormatBytes(dstInfo.Size()), display.FormatBytesWithSign(delta))
}

func stemOf(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

func copyFile(src, dst string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
