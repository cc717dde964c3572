package router

import (
	"strings"

	tg "github.com/m3rciful/potzbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// TextRoute handles text that matched no command endpoint. Registered
// commands addressed in unusual ways ("/Roll", aliases without a route) are
// resolved through the registry; other slash commands go to the registry's
// unknown-command handler. Commands addressed to another bot and plain chat
// are ignored. username is the bot's own username, if known.
func TextRoute(reg *tg.Registry, username string) tg.Route {
	handler := func(c tele.Context) error {
		text := strings.TrimSpace(c.Text())
		if !strings.HasPrefix(text, "/") {
			return nil
		}
		token, _, _ := strings.Cut(text, " ")
		token, mention, addressed := strings.Cut(token, "@")
		if addressed && username != "" && !strings.EqualFold(mention, username) {
			return nil
		}
		if name, cmd, ok := reg.LookupCommand(strings.ToLower(token)); ok && !cmd.AdminOnly {
			return run(c, handlerName("cmd.", name), cmd.Handler)
		}
		if h := reg.UnknownCommand(); h != nil {
			return run(c, "cmd.unknown", h)
		}
		return nil
	}
	return tg.Route{Endpoint: tele.OnText, Handler: handler}
}
