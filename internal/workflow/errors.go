package workflow

import "fmt"

// PlanError wraps a plan-builder failure (§6 error classes: "PlanError") —
// e.g. the target container rejected the configured format, or no source
// stream survived gating into a mappable target.
type PlanError struct {
	Err error
}

func (e *PlanError) Error() string { return fmt.Sprintf("plan: %v", e.Err) }
func (e *PlanError) Unwrap() error { return e.Err }

// TagError wraps a tagging-stage failure. Tagging failures are logged and
// non-fatal (§7); the type exists so callers can still identify the stage
// with errors.As.
type TagError struct {
	Err error
}

func (e *TagError) Error() string { return fmt.Sprintf("tag: %v", e.Err) }
func (e *TagError) Unwrap() error { return e.Err }

// DeployStage distinguishes the two sub-steps of deploy (§6 on-disk side
// effects: rename then copy-xor-move), since only rename failure is fatal.
type DeployStage int

const (
	DeployStageRename DeployStage = iota
	DeployStageCopyOrMove
)

func (s DeployStage) String() string {
	if s == DeployStageRename {
		return "rename"
	}
	return "copy_or_move"
}

// DeployError wraps a deploy-stage failure. Fatal reports whether this
// specific failure should abort the job (§7: "Deploy-rename failure is
// fatal" — copy/move failures are logged and swallowed).
type DeployError struct {
	Stage DeployStage
	Err   error
}

func (e *DeployError) Error() string { return fmt.Sprintf("deploy(%s): %v", e.Stage, e.Err) }
func (e *DeployError) Unwrap() error { return e.Err }
func (e *DeployError) Fatal() bool   { return e.Stage == DeployStageRename }
