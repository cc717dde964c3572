package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/potzbot/core/logger"
	"github.com/m3rciful/potzbot/potz/dice"
	"github.com/m3rciful/potzbot/potz/session"
)

// Button payload verbs.
const (
	VerbPlus   = "plus"
	VerbMinus  = "minus"
	VerbRemove = "remove"
	ActionRoll = "roll"
)

// Payload builds callback data from underscore-joined tokens.
func Payload(tokens ...string) string { return strings.Join(tokens, "_") }

// Press handles an inline button payload. A bare state name navigates; any
// other payload is an action that leaves the state unchanged. Navigation that
// the transition table rejects keeps the current view and asks for a re-render.
func (e *Engine) Press(ctx context.Context, s *session.Session, payload string) Reply {
	tokens := strings.SplitN(payload, "_", 3)
	switch {
	case len(tokens) == 1:
		to, ok := session.ParseState(tokens[0])
		if !ok {
			return Reply{Text: TextUnknownAction}
		}
		s.Transition(ctx, to)
		return Reply{Render: true}
	case len(tokens) == 2 && tokens[0] == ActionRoll:
		return e.roll(ctx, tokens[1])
	case len(tokens) == 3:
		switch tokens[0] {
		case string(session.CounterStress), string(session.CounterHarm):
			return e.adjust(ctx, s, session.Counter(tokens[0]), tokens[1], tokens[2])
		case string(session.StateTimer):
			return e.timerAction(ctx, s, tokens[1], tokens[2])
		}
	}
	logger.Warn(ctx, component, "press.unknown", slog.String("payload", logger.SanitizeLimit(payload, 64)))
	return Reply{Text: TextUnknownAction}
}

func (e *Engine) adjust(ctx context.Context, s *session.Session, c session.Counter, verb, name string) Reply {
	delta := 0
	switch verb {
	case VerbPlus:
		delta = 1
	case VerbMinus:
		delta = -1
	default:
		return Reply{Text: TextUnknownAction}
	}
	h, err := s.AdjustHero(name, c, delta)
	switch {
	case errors.Is(err, session.ErrHeroNotFound):
		return Reply{Text: heroNotFound(e.Spell(name))}
	case errors.Is(err, session.ErrNothingToRemove):
		return Reply{Text: nothingToRemove(e.Spell(h.Name), string(c))}
	case err != nil:
		return Reply{Text: err.Error()}
	}
	v := h.Stress
	if c == session.CounterHarm {
		v = h.Harm
	}
	logger.Debug(ctx, component, "hero.adjusted",
		slog.String("hero", h.Name),
		slog.String("counter", string(c)),
		slog.Int("value", v),
	)
	return Reply{Text: counterChanged(e.Spell(h.Name), string(c), v), Render: true}
}

func (e *Engine) timerAction(ctx context.Context, s *session.Session, verb, name string) Reply {
	switch verb {
	case VerbRemove:
		return e.removeTimer(ctx, s, name)
	case VerbMinus:
	default:
		return Reply{Text: TextUnknownAction}
	}
	t, expired, err := s.TickTimer(name)
	switch {
	case errors.Is(err, session.ErrTimerNotFound):
		return Reply{Text: timerNotFound(name)}
	case errors.Is(err, session.ErrTimerExpired):
		return Reply{Text: timerAlreadyExpired(t.Name)}
	case err != nil:
		return Reply{Text: err.Error()}
	}
	logger.Debug(ctx, component, "timer.ticked",
		slog.String("timer", t.Name),
		slog.Int("value", t.Value),
		slog.Bool("expired", expired),
	)
	if expired {
		return Reply{Text: timerExpired(t.Name), Render: true}
	}
	return Reply{Text: timerTicked(t.Name, t.Value), Render: true}
}

func (e *Engine) roll(ctx context.Context, arg string) Reply {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return Reply{Text: TextUnknownAction}
	}
	p, err := e.roller.Roll(n)
	if err != nil {
		return Reply{Text: TextUnknownAction}
	}
	logger.Debug(ctx, component, "roll.pool",
		slog.Int("dice", n),
		slog.Int("kept", p.Kept),
		slog.String("outcome", string(p.Outcome)),
	)
	return Reply{Text: FormatPool(p), Render: true}
}

// FormatPool renders a rolled pool as a reply.
func FormatPool(p dice.Pool) string {
	faces := make([]string, len(p.Dice))
	for i, f := range p.Dice {
		faces[i] = strconv.Itoa(f)
	}
	if p.Size == 0 {
		return fmt.Sprintf("Rolled 2d6 keeping the lowest: %s\nLowest %d: %s",
			strings.Join(faces, " "), p.Kept, outcomeLabel(p.Outcome))
	}
	return fmt.Sprintf("Rolled %dd6: %s\nHighest %d: %s",
		p.Size, strings.Join(faces, " "), p.Kept, outcomeLabel(p.Outcome))
}

func outcomeLabel(o dice.Outcome) string {
	switch o {
	case dice.Critical:
		return "critical success!"
	case dice.Success:
		return "success"
	case dice.Partial:
		return "partial success"
	default:
		return "failure"
	}
}
