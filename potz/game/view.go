package game

import (
	"fmt"
	"strings"

	"github.com/m3rciful/potzbot/potz/session"
)

// Summary renders the text shown above the keyboard for the session's state.
func (e *Engine) Summary(s *session.Session) string {
	var b strings.Builder
	switch s.State {
	case session.StateStress, session.StateHarm:
		if len(s.Heroes) == 0 {
			return TextNoHeroes
		}
		prompt := TextPickStress
		if s.State == session.StateHarm {
			prompt = TextPickHarm
		}
		b.WriteString(prompt + "\n\n")
		e.writeHeroes(&b, s)
	case session.StateTimer:
		if len(s.Timers) == 0 {
			return TextNoTimers
		}
		b.WriteString(TextPickTimer)
		b.WriteString("\n\n")
		writeTimers(&b, s)
	case session.StateRoll:
		return TextPickDice
	default:
		if len(s.Heroes) == 0 && len(s.Timers) == 0 {
			return TextEmpty
		}
		if len(s.Heroes) > 0 {
			b.WriteString("Heroes:\n")
			e.writeHeroes(&b, s)
		}
		if len(s.Timers) > 0 {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString("Timers:\n")
			writeTimers(&b, s)
		}
		if hero, err := s.CurrentTurn(); err == nil {
			fmt.Fprintf(&b, "\n%s", turnIs(e.Spell(hero)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *Engine) writeHeroes(b *strings.Builder, s *session.Session) {
	for _, h := range s.Heroes {
		fmt.Fprintf(b, "%s: stress %d, harm %d\n", e.Spell(h.Name), h.Stress, h.Harm)
	}
}

func writeTimers(b *strings.Builder, s *session.Session) {
	for _, t := range s.Timers {
		if t.Expired() {
			fmt.Fprintf(b, "%s: expired\n", t.Name)
			continue
		}
		fmt.Fprintf(b, "%s: %d\n", t.Name, t.Value)
	}
}
