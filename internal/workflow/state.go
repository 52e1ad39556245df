// Package workflow drives a single job through the explicit state machine
// of §4.8: initialised → processed → tagged → postprocessed → deployed →
// deleted → refreshed → finished. Grounded on the teacher's internal/pipeline
// (Run/processFile linear orchestration of probe→plan→execute) regeneralized
// into named states and guarded triggers, since post-conversion steps here
// (tag, deploy, delete, refresh) branch independently of one another rather
// than forming one straight line.
package workflow

// State is one of the closed set of job states.
type State int

const (
	StateInitialised State = iota
	StateProcessed
	StateTagged
	StatePostprocessed
	StateDeployed
	StateDeleted
	StateRefreshed
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateInitialised:
		return "initialised"
	case StateProcessed:
		return "processed"
	case StateTagged:
		return "tagged"
	case StatePostprocessed:
		return "postprocessed"
	case StateDeployed:
		return "deployed"
	case StateDeleted:
		return "deleted"
	case StateRefreshed:
		return "refreshed"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Trigger is one of the closed set of transitions a job can fire.
type Trigger int

const (
	TriggerProcess Trigger = iota
	TriggerTag
	TriggerPostprocess
	TriggerDeploy
	TriggerDelete
	TriggerRefresh
	TriggerFinish
)

func (t Trigger) String() string {
	switch t {
	case TriggerProcess:
		return "process"
	case TriggerTag:
		return "tag"
	case TriggerPostprocess:
		return "postprocess"
	case TriggerDeploy:
		return "deploy"
	case TriggerDelete:
		return "delete"
	case TriggerRefresh:
		return "refresh"
	case TriggerFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// order is the fixed trigger sequence a job is driven through (§4.8).
var order = []Trigger{
	TriggerProcess,
	TriggerTag,
	TriggerPostprocess,
	TriggerDeploy,
	TriggerDelete,
	TriggerRefresh,
	TriggerFinish,
}

// fromStates lists the states a trigger may fire from; firing from any other
// state is a no-op, not an error.
var fromStates = map[Trigger][]State{
	TriggerProcess:     {StateInitialised},
	TriggerTag:         {StateProcessed},
	TriggerPostprocess: {StateProcessed, StateTagged},
	TriggerDeploy:      {StateProcessed, StateTagged, StatePostprocessed},
	TriggerDelete:      {StatePostprocessed, StateDeployed},
	TriggerRefresh:     {StateProcessed, StateTagged, StateDeployed, StateDeleted},
	TriggerFinish:      {StateProcessed, StateTagged, StatePostprocessed, StateDeployed, StateDeleted, StateRefreshed},
}

var toState = map[Trigger]State{
	TriggerProcess:     StateProcessed,
	TriggerTag:         StateTagged,
	TriggerPostprocess: StatePostprocessed,
	TriggerDeploy:      StateDeployed,
	TriggerDelete:      StateDeleted,
	TriggerRefresh:     StateRefreshed,
	TriggerFinish:      StateFinished,
}

func canFire(from State, t Trigger) bool {
	for _, s := range fromStates[t] {
		if s == from {
			return true
		}
	}
	return false
}
