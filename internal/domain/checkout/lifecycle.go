package checkout

// LifecycleState tracks one order submission attempt from draft to a terminal
// outcome
type LifecycleState string

const (
	StateDrafting           LifecycleState = "DRAFTING"
	StateSubmitting         LifecycleState = "SUBMITTING"
	StateSubmitted          LifecycleState = "SUBMITTED"
	StatePaidImmediate      LifecycleState = "PAID_IMMEDIATE"
	StateAwaitingGateway    LifecycleState = "AWAITING_GATEWAY"
	StateConfirmed          LifecycleState = "CONFIRMED"
	StatePaymentFailed      LifecycleState = "PAYMENT_FAILED"
	StateSubmissionRejected LifecycleState = "SUBMISSION_REJECTED"
)

// IsValid checks if the state is a known lifecycle state
func (s LifecycleState) IsValid() bool {
	switch s {
	case StateDrafting, StateSubmitting, StateSubmitted, StatePaidImmediate,
		StateAwaitingGateway, StateConfirmed, StatePaymentFailed, StateSubmissionRejected:
		return true
	}
	return false
}

// String returns the string representation of the state
func (s LifecycleState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s LifecycleState) IsTerminal() bool {
	switch s {
	case StateConfirmed, StatePaymentFailed, StateSubmissionRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the state can transition to the target state
func (s LifecycleState) CanTransitionTo(target LifecycleState) bool {
	switch s {
	case StateDrafting:
		return target == StateSubmitting
	case StateSubmitting:
		return target == StateSubmitted || target == StateSubmissionRejected
	case StateSubmitted:
		return target == StatePaidImmediate || target == StateAwaitingGateway || target == StatePaymentFailed
	case StatePaidImmediate:
		return target == StateConfirmed
	case StateAwaitingGateway:
		return target == StateConfirmed || target == StatePaymentFailed
	case StateConfirmed, StatePaymentFailed, StateSubmissionRejected:
		return false
	}
	return false
}
