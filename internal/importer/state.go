// Package importer runs bulk catalog imports: fetch raw products, map them to
// records, replace the source's records in the store and report the outcome.
package importer

import (
	"fmt"

	"github.com/nutritrack/food-catalog/pkg/enums"
)

// State is a pipeline stage. Runs move forward only.
type State string

const (
	StateIdle         State = "idle"
	StateFetching     State = "fetching"
	StateTransforming State = "transforming"
	StateReplacing    State = "replacing"
	StateInserting    State = "inserting"
	StateReporting    State = "reporting"
	StateDone         State = "done"
	StateAborted      State = "aborted"
	StateSkipped      State = "skipped"
)

var transitions = map[State][]State{
	StateIdle:         {StateFetching, StateSkipped, StateAborted},
	StateFetching:     {StateTransforming, StateAborted},
	StateTransforming: {StateReplacing, StateAborted},
	StateReplacing:    {StateInserting, StateAborted},
	StateInserting:    {StateReporting, StateAborted},
	StateReporting:    {StateDone},
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted || s == StateSkipped
}

// CanTransition reports whether next directly follows s.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Mode decides what happens when the source already has records.
type Mode = enums.ImportMode

const (
	ModeUnset        = enums.ImportModeUnset
	ModeForce        = enums.ImportModeForce
	ModeSkipIfExists = enums.ImportModeSkipIfExists
)

// tracker enforces forward-only transitions for a single run.
type tracker struct {
	current State
	onEnter func(State)
}

func (t *tracker) advance(next State) error {
	if !t.current.CanTransition(next) {
		return fmt.Errorf("invalid import transition %s -> %s", t.current, next)
	}
	t.current = next
	if t.onEnter != nil {
		t.onEnter(next)
	}
	return nil
}
