// Package game turns commands and button presses into session mutations and
// reply texts. It knows nothing about Telegram.
package game

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/potzbot/core/logger"
	"github.com/m3rciful/potzbot/potz/dice"
	"github.com/m3rciful/potzbot/potz/session"
)

const component = "game"

// Reply is what a handler wants shown. Render asks the caller to follow the
// text with the current view.
type Reply struct {
	Text   string
	Render bool
}

// Options configure an Engine.
type Options struct {
	Roller   *dice.Roller
	Items    []string          // item catalog for /items
	Spelling map[string]string // lower-case hero name to display spelling
}

// Engine is stateless apart from its configuration and safe for concurrent use.
type Engine struct {
	roller   *dice.Roller
	items    []string
	spelling map[string]string
}

// New builds an Engine. A nil roller is replaced by one seeded from crypto/rand.
func New(opts Options) (*Engine, error) {
	r := opts.Roller
	if r == nil {
		var err error
		if r, err = dice.NewSeededRoller(); err != nil {
			return nil, err
		}
	}
	spelling := make(map[string]string, len(opts.Spelling))
	for k, v := range opts.Spelling {
		spelling[session.Fold(k)] = v
	}
	items := make([]string, 0, len(opts.Items))
	for _, it := range opts.Items {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	return &Engine{roller: r, items: items, spelling: spelling}, nil
}

// Spell returns the configured display spelling of a hero name.
func (e *Engine) Spell(name string) string {
	if v, ok := e.spelling[session.Fold(name)]; ok {
		return v
	}
	return name
}

// AddHero handles /add_hero <hero> [stress] [harm].
func (e *Engine) AddHero(ctx context.Context, s *session.Session, args []string) Reply {
	if len(args) < 1 || len(args) > 3 {
		return Reply{Text: UsageAddHero}
	}
	name := args[0]
	counters := [2]int{}
	for i, a := range args[1:] {
		v, err := strconv.Atoi(a)
		if err != nil {
			return Reply{Text: TextCountersNotNumbers}
		}
		counters[i] = v
	}
	switch err := s.AddHero(name, counters[0], counters[1]); {
	case errors.Is(err, session.ErrNegative):
		return Reply{Text: TextCountersNegative}
	case errors.Is(err, session.ErrInvalidName):
		return Reply{Text: TextInvalidName}
	case errors.Is(err, session.ErrHeroExists):
		return Reply{Text: heroExists(e.Spell(name))}
	case err != nil:
		return Reply{Text: err.Error()}
	}
	logger.Debug(ctx, component, "hero.added",
		slog.String("hero", name),
		slog.Int("stress", counters[0]),
		slog.Int("harm", counters[1]),
	)
	return Reply{Text: heroAdded(e.Spell(name)), Render: true}
}

// RemoveHero handles /remove_hero <hero>.
func (e *Engine) RemoveHero(ctx context.Context, s *session.Session, args []string) Reply {
	if len(args) != 1 {
		return Reply{Text: UsageRemoveHero}
	}
	h, err := s.RemoveHero(args[0])
	if err != nil {
		return Reply{Text: heroNotFound(e.Spell(args[0]))}
	}
	logger.Debug(ctx, component, "hero.removed", slog.String("hero", h.Name))
	return Reply{Text: heroRemoved(e.Spell(h.Name)), Render: true}
}

// AddTimer handles /add_timer <timer> <start_value>.
func (e *Engine) AddTimer(ctx context.Context, s *session.Session, args []string) Reply {
	if len(args) != 2 {
		return Reply{Text: UsageAddTimer}
	}
	name := args[0]
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return Reply{Text: TextTimerNotNumber}
	}
	switch err := s.AddTimer(name, v); {
	case errors.Is(err, session.ErrNotPositive):
		return Reply{Text: TextTimerNotPositive}
	case errors.Is(err, session.ErrInvalidName):
		return Reply{Text: TextInvalidName}
	case errors.Is(err, session.ErrTimerExists):
		return Reply{Text: timerExists(name)}
	case err != nil:
		return Reply{Text: err.Error()}
	}
	logger.Debug(ctx, component, "timer.added", slog.String("timer", name), slog.Int("value", v))
	return Reply{Text: timerAdded(name, v), Render: true}
}

// RemoveTimer handles /remove_timer <timer>.
func (e *Engine) RemoveTimer(ctx context.Context, s *session.Session, args []string) Reply {
	if len(args) != 1 {
		return Reply{Text: UsageRemoveTimer}
	}
	return e.removeTimer(ctx, s, args[0])
}

func (e *Engine) removeTimer(ctx context.Context, s *session.Session, name string) Reply {
	t, err := s.RemoveTimer(name)
	if err != nil {
		return Reply{Text: timerNotFound(name)}
	}
	logger.Debug(ctx, component, "timer.removed", slog.String("timer", t.Name))
	return Reply{Text: timerRemoved(t.Name), Render: true}
}

// OpenRoll handles /roll: the chat goes back to the root menu if needed and
// then opens the dice keyboard, one legal hop at a time.
func (e *Engine) OpenRoll(ctx context.Context, s *session.Session) Reply {
	if s.State != session.StateRoot && s.State != session.StateRoll {
		s.Transition(ctx, session.StateRoot)
	}
	if s.State == session.StateRoot {
		s.Transition(ctx, session.StateRoll)
	}
	return Reply{Render: true}
}

// Roll20 handles /roll20.
func (e *Engine) Roll20(ctx context.Context) Reply {
	v := e.roller.D20()
	logger.Debug(ctx, component, "roll.d20", slog.Int("value", v))
	return Reply{Text: rolled20(v)}
}
