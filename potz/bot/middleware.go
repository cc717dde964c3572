package bot

import (
	"log/slog"

	"github.com/m3rciful/potzbot/core/logger"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"
	"github.com/m3rciful/potzbot/core/telegram/state"
	"github.com/m3rciful/potzbot/core/telegram/ui"
	"github.com/m3rciful/potzbot/potz/game"
	"github.com/m3rciful/potzbot/potz/session"

	tele "gopkg.in/telebot.v4"
)

var _ ui.FallbackProvider = (*Bot)(nil)

// Session loads the chat's session before the handler and saves it after.
func (b *Bot) Session() tele.MiddlewareFunc {
	return state.WithSession[session.Session](b.repo)
}

// RateGate drops updates once the chat has used its calls for the window.
// It must run inside Session.
func (b *Bot) RateGate(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		s := state.SessionFrom[session.Session](c)
		if s == nil || s.AllowCall(b.now(), b.maxCalls, b.window) {
			return next(c)
		}
		ctx := tghelpers.BuildContext(c)
		logger.Info(ctx, "session", "rate.limited",
			slog.Int("max_calls", b.maxCalls),
			slog.Duration("window", b.window),
		)
		return b.Limited()(c)
	}
}

// UnknownCommand answers slash commands nobody registered.
func (b *Bot) UnknownCommand() tele.HandlerFunc {
	return func(c tele.Context) error { return tghelpers.SendText(c, textUnknownCommand) }
}

// UnknownCallback answers presses whose payload has no handler.
func (b *Bot) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error { return tghelpers.Toast(c, game.TextUnknownAction) }
}

// Limited answers updates dropped by a rate limit. Only button presses get a
// reply, so a flood of commands stays quiet.
func (b *Bot) Limited() tele.HandlerFunc {
	return func(c tele.Context) error { return tghelpers.Toast(c, textLimited) }
}
