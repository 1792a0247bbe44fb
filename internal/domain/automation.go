package domain

import "time"

// WorkflowKind identifies which automation workflow produced a run.
type WorkflowKind string

const (
	WorkflowActivation   WorkflowKind = "Activation"
	WorkflowCancellation WorkflowKind = "Cancellation"
)

// WorkflowPath records which branch a run took.
type WorkflowPath string

const (
	PathOrderRequired       WorkflowPath = "OrderRequired"
	PathNoOrderRequired     WorkflowPath = "NoOrderRequired"
	PathThirdPartyRequester WorkflowPath = "ThirdPartyRequester"
	PathRepRequester        WorkflowPath = "RepRequester"
)

// StepKind enumerates the kinds of step records a run may contain.
type StepKind string

const (
	StepEmail           StepKind = "Email"
	StepInternalComment StepKind = "InternalComment"
	StepWait            StepKind = "Wait"
	StepFeedConfig      StepKind = "FeedConfig"
	StepLog             StepKind = "Log"
	StepClose           StepKind = "Close"
)

// Step is one entry of a run's append-only step log. Offset is a simulated
// elapsed-time annotation standing in for real-world latency; the order and
// presence of steps is the contract, not the offsets.
type Step struct {
	Kind    StepKind          `json:"kind"`
	Name    string            `json:"name"`
	Offset  time.Duration     `json:"offset"`
	Payload map[string]string `json:"payload,omitempty"`
}

// RunStatus is the terminal outcome of an automation run.
type RunStatus string

const (
	RunCompleted RunStatus = "Completed"
	RunFailed    RunStatus = "Failed"
)

// AutomationRun is the terminal, append-only record of one workflow
// execution. Runs are never rewound or retried in place; a retry is a new
// run. A classification owns zero or one run.
type AutomationRun struct {
	ID        string
	TicketID  string
	Kind      WorkflowKind
	Path      WorkflowPath
	Steps     []Step
	Status    RunStatus
	Degraded  bool
	FeedID    string
	Error     string
	StartedAt time.Time
}

// HasStep reports whether a step with the given name appears in the log.
func (r AutomationRun) HasStep(name string) bool {
	for _, s := range r.Steps {
		if s.Name == name {
			return true
		}
	}
	return false
}

// CancellationRecord is one row of the durable, append-only cancellation
// log. Rows are never mutated after the append.
type CancellationRecord struct {
	CancelledAt time.Time
	DealerID    string
	DealerName  string
	FeedName    string
	FeedType    string
	CancelledBy string
	Reason      string
	FeedID      string
}
