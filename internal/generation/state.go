package generation

import "fmt"

// State is a step of the retry state machine driven by a Generator.
//
//	pending -> attempting -> success
//	                      -> backoff -> attempting
//	                      -> failed
//	pending, backoff      -> cancelled
//
// Only backoff suspends; every other transition is immediate.
type State string

// Retry states
const (
	StatePending    State = "pending"
	StateAttempting State = "attempting"
	StateBackoff    State = "backoff"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

var transitions = map[State][]State{
	StatePending:    {StateAttempting, StateCancelled},
	StateAttempting: {StateSuccess, StateBackoff, StateFailed, StateCancelled},
	StateBackoff:    {StateAttempting, StateCancelled},
}

// Terminal reports whether s ends the call.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed || s == StateCancelled
}

// To returns next if the machine may move there from s.
func (s State) To(next State) (State, error) {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("illegal generation state transition %s -> %s", s, next)
}
