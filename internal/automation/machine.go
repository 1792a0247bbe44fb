package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// State names a node of a workflow state machine.
type State string

const (
	// Shared states.
	StateStart  State = "Start"
	StateClosed State = "Closed"

	// Activation workflow states.
	StateAcknowledged State = "Acknowledged"
	StateBillingTag   State = "BillingTagged"
	StateOrderCheck   State = "OrderCheck"
	StateApproved     State = "Approved"
	StateConfigured   State = "Configured"
	StateConfirmed    State = "Confirmed"

	// Cancellation workflow states.
	StateRequesterCheck State = "RequesterCheck"
	StateCancelled      State = "CancelledInSystem"
	StateLogged         State = "Logged"
	StateNotified       State = "Notified"
)

// transition executes one state's work, appending step records, and names
// the next state. A returned error terminates the run as Failed with the
// completed-step log preserved.
type transition func(ctx context.Context, rc *runContext) (State, error)

// machine is a workflow definition: a transition per non-terminal state.
// Both workflows share this abstraction so the step sequence and terminal
// states are testable independently of the branching logic.
type machine struct {
	transitions map[State]transition
}

// maxTransitions guards against a workflow definition that never reaches
// the terminal state.
const maxTransitions = 32

// run drives the machine from Start to Closed, strictly sequentially.
func (m machine) run(ctx context.Context, rc *runContext) error {
	state := StateStart
	for i := 0; state != StateClosed; i++ {
		if i >= maxTransitions {
			return fmt.Errorf("workflow did not terminate, stuck at state %s", state)
		}
		step, ok := m.transitions[state]
		if !ok {
			return fmt.Errorf("no transition defined for state %s", state)
		}
		next, err := step(ctx, rc)
		if err != nil {
			return fmt.Errorf("state %s: %w", state, err)
		}
		state = next
	}
	return nil
}

// runContext carries one run's mutable execution state. Runs are
// request-scoped; nothing here is shared between concurrent automations.
type runContext struct {
	run            *domain.AutomationRun
	classification domain.Classification
	request        Request
	elapsed        time.Duration

	// Activation scratch values, set during OrderCheck.
	orderRequired bool
	billing       billingLookup
	feedID        string
}

type billingLookup struct {
	found       bool
	packageType string
	monthlyFee  string
	notes       string
}

// record appends a step with a simulated elapsed-time offset. The offset
// stands in for real-world latency (human approval, provisioning); the run
// never actually sleeps.
func (rc *runContext) record(kind domain.StepKind, name string, simulated time.Duration, payload map[string]string) {
	rc.elapsed += simulated
	rc.run.Steps = append(rc.run.Steps, domain.Step{
		Kind:    kind,
		Name:    name,
		Offset:  rc.elapsed,
		Payload: payload,
	})
}
