package session

import (
	"context"

	"github.com/m3rciful/potzbot/core/telegram/state"
)

// State is the conversation menu a chat is in. It decides which buttons are shown.
type State string

const (
	StateRoot   State = "root"
	StateStress State = "stress"
	StateHarm   State = "harm"
	StateTimer  State = "timer"
	StateRoll   State = "roll"
)

// Transitions is the fixed table: root reaches every menu, every menu returns to root.
var Transitions = state.NewRules(
	[]State{StateRoot, StateStress, StateHarm, StateTimer, StateRoll},
	map[State][]State{
		StateRoot:   {StateStress, StateHarm, StateTimer, StateRoll},
		StateStress: {StateRoot},
		StateHarm:   {StateRoot},
		StateTimer:  {StateRoot},
		StateRoll:   {StateRoot},
	},
)

// CanTransition reports whether to is a direct successor of from.
func CanTransition(from, to State) bool { return Transitions.Allows(from, to) }

// ParseState maps a stored or pressed value to a known state.
func ParseState(v string) (State, bool) {
	s := State(v)
	return s, Transitions.Known(s)
}

// Transition moves the session to to if the table allows it and reports whether it did.
func (s *Session) Transition(ctx context.Context, to State) bool {
	m := state.NewMachine(Transitions, s.State)
	ok := m.Transition(ctx, to)
	s.State = m.Current()
	return ok
}

// NextStates lists the menus reachable from the current one.
func (s *Session) NextStates() []State { return Transitions.Next(s.State) }
