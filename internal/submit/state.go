package submit

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

type State string

const (
	StateDrafting        State = "drafting"
	StateSubmitting      State = "submitting"
	StateNeedsCaptcha    State = "needs_captcha"
	StateAwaitingCaptcha State = "awaiting_captcha"
	StateResubmitting    State = "resubmitting"
	StatePolling         State = "polling"
	StateAcceptedClass   State = "accepted_class"
	StateRejectedClass   State = "rejected_class"
	StateAborted         State = "aborted"
)

var allowedTransitions = map[State]mapset.Set[State]{
	StateDrafting:        mapset.NewSet(StateSubmitting, StateAborted),
	StateSubmitting:      mapset.NewSet(StatePolling, StateNeedsCaptcha, StateAborted),
	StateNeedsCaptcha:    mapset.NewSet(StateAwaitingCaptcha, StateAborted),
	StateAwaitingCaptcha: mapset.NewSet(StateResubmitting, StateAborted),
	StateResubmitting:    mapset.NewSet(StatePolling, StateAborted),
	StatePolling:         mapset.NewSet(StateAcceptedClass, StateRejectedClass, StateAborted),
	StateAcceptedClass:   mapset.NewSet[State](),
	StateRejectedClass:   mapset.NewSet[State](),
	StateAborted:         mapset.NewSet[State](),
}

func (s State) Terminal() bool {
	next, ok := allowedTransitions[s]
	return ok && next.Cardinality() == 0
}

func ValidateTransition(from, to State) error {
	next, ok := allowedTransitions[from]
	if !ok {
		return fmt.Errorf("invalid submit state: %q", from)
	}
	if _, ok := allowedTransitions[to]; !ok {
		return fmt.Errorf("invalid submit state: %q", to)
	}
	if !next.Contains(to) {
		return fmt.Errorf("invalid submit transition: %s -> %s", from, to)
	}
	return nil
}
