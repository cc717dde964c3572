package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/potzbot/core/logger"
)

// Rules is an immutable single-hop transition table.
type Rules[S comparable] struct {
	order []S
	next  map[S][]S
}

// NewRules builds a table from successor lists. The order of keys in states
// fixes the order Next reports successors in; self transitions are dropped.
func NewRules[S comparable](states []S, successors map[S][]S) Rules[S] {
	r := Rules[S]{
		order: append([]S(nil), states...),
		next:  make(map[S][]S, len(successors)),
	}
	for _, from := range states {
		for _, to := range successors[from] {
			if to == from {
				continue
			}
			r.next[from] = append(r.next[from], to)
		}
	}
	return r
}

// States returns every state known to the table.
func (r Rules[S]) States() []S { return append([]S(nil), r.order...) }

// Allows reports whether to is a direct successor of from.
func (r Rules[S]) Allows(from, to S) bool {
	for _, s := range r.next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Next returns a copy of the successors of from.
func (r Rules[S]) Next(from S) []S { return append([]S(nil), r.next[from]...) }

// Known reports whether s is one of the table's states.
func (r Rules[S]) Known(s S) bool {
	for _, k := range r.order {
		if k == s {
			return true
		}
	}
	return false
}

// Machine applies validated transitions to a current state.
type Machine[S comparable] struct {
	rules   Rules[S]
	current S
}

// NewMachine starts a machine at initial.
func NewMachine[S comparable](rules Rules[S], initial S) *Machine[S] {
	return &Machine[S]{rules: rules, current: initial}
}

// Current returns the current state.
func (m *Machine[S]) Current() S { return m.current }

// CanTransition reports whether the machine may move to to.
func (m *Machine[S]) CanTransition(to S) bool { return m.rules.Allows(m.current, to) }

// Transition moves to to when legal. An illegal request leaves the state
// unchanged, is logged at warn level and reported as false.
func (m *Machine[S]) Transition(ctx context.Context, to S) bool {
	if !m.rules.Allows(m.current, to) {
		logger.FromContext(ctx).LogAttrs(ctx, slog.LevelWarn, "",
			slog.String("event", "fsm.transition_rejected"),
			slog.String("from", fmt.Sprint(m.current)),
			slog.String("to", fmt.Sprint(to)),
		)
		return false
	}
	logger.FromContext(ctx).LogAttrs(ctx, slog.LevelDebug, "",
		slog.String("event", "fsm.transition"),
		slog.String("from", fmt.Sprint(m.current)),
		slog.String("to", fmt.Sprint(to)),
	)
	m.current = to
	return true
}
