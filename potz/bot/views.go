package bot

import (
	"strconv"

	"github.com/m3rciful/potzbot/core/telegram/keyboard"
	"github.com/m3rciful/potzbot/potz/dice"
	"github.com/m3rciful/potzbot/potz/game"
	"github.com/m3rciful/potzbot/potz/session"

	tele "gopkg.in/telebot.v4"
)

var stateLabels = map[session.State]string{
	session.StateRoot:   "« Back",
	session.StateStress: "Stress",
	session.StateHarm:   "Harm",
	session.StateTimer:  "Timers",
	session.StateRoll:   "Roll dice",
}

// Keyboard returns the inline keyboard for the session's current state.
// spell maps a stored hero name to its display spelling.
func Keyboard(s *session.Session, spell func(string) string) *tele.ReplyMarkup {
	if spell == nil {
		spell = func(name string) string { return name }
	}
	var rows [][]keyboard.Button
	switch s.State {
	case session.StateStress, session.StateHarm:
		counter := string(s.State)
		for _, h := range s.Heroes {
			name := spell(h.Name)
			rows = append(rows, []keyboard.Button{
				{Text: name + " −1", Data: game.Payload(counter, game.VerbMinus, h.Name)},
				{Text: name + " +1", Data: game.Payload(counter, game.VerbPlus, h.Name)},
			})
		}
	case session.StateTimer:
		for _, t := range s.Timers {
			tick := t.Name + " −1"
			if t.Expired() {
				tick = t.Name + " ✓"
			}
			rows = append(rows, []keyboard.Button{
				{Text: tick, Data: game.Payload(string(session.StateTimer), game.VerbMinus, t.Name)},
				{Text: "Remove " + t.Name, Data: game.Payload(string(session.StateTimer), game.VerbRemove, t.Name)},
			})
		}
	case session.StateRoll:
		pool := make([]keyboard.Button, 0, dice.MaxDice+1)
		for n := 0; n <= dice.MaxDice; n++ {
			pool = append(pool, keyboard.Button{
				Text: strconv.Itoa(n) + "d6",
				Data: game.Payload(game.ActionRoll, strconv.Itoa(n)),
			})
		}
		rows = append(rows, keyboard.Chunk(pool, 3)...)
	}

	nav := make([]keyboard.Button, 0, 4)
	for _, to := range s.NextStates() {
		nav = append(nav, keyboard.Button{Text: stateLabels[to], Data: string(to)})
	}
	rows = append(rows, keyboard.Chunk(nav, 2)...)
	return keyboard.Rows(rows...)
}
